// Package upgrade tracks per-instance attraction levels and themes. Each
// placed building owns its own level, keyed by type and root cell.
package upgrade

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/VirEgo/park-tycoon/internal/catalog"
)

// Key identifies one building instance.
type Key struct {
	BuildingID string
	X, Y       int
}

func (k Key) String() string {
	return k.BuildingID + "@" + strconv.Itoa(k.X) + "," + strconv.Itoa(k.Y)
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(b []byte) error {
	s := string(b)
	id, pos, ok := strings.Cut(s, "@")
	if !ok || id == "" {
		return fmt.Errorf("upgrade key %q: want id@x,y", s)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return fmt.Errorf("upgrade key %q: want id@x,y", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return fmt.Errorf("upgrade key %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return fmt.Errorf("upgrade key %q: %w", s, err)
	}
	*k = Key{BuildingID: id, X: x, Y: y}
	return nil
}

// Upgrade is the state of one instance.
type Upgrade struct {
	BuildingID    string        `json:"building_id"`
	X             int           `json:"x"`
	Y             int           `json:"y"`
	Level         int           `json:"level"`
	Bonuses       catalog.Bonus `json:"bonuses"`
	Theme         string        `json:"theme,omitempty"`
	TotalInvested float64       `json:"total_invested"`
}

// Reason explains a failed request.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonMaxLevel          Reason = "max_level"
	ReasonNotFound          Reason = "not_found"
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonRequirement       Reason = "requirement"
	ReasonNotAllowed        Reason = "not_allowed"
)

// Result reports the outcome of a purchase. Cost is what the caller must
// deduct when Success is true, or the quoted price otherwise.
type Result struct {
	Success bool
	Cost    float64
	Message string
	Reason  Reason
	Level   int
}

// Registry holds every upgraded instance. Instances without an entry are
// level 1 with the default theme.
type Registry struct {
	cat      *catalog.Catalog
	upgrades map[Key]*Upgrade
}

// NewRegistry creates an empty registry over the given tables.
func NewRegistry(cat *catalog.Catalog) *Registry {
	return &Registry{cat: cat, upgrades: make(map[Key]*Upgrade)}
}

// Get returns the instance state, defaulting to level 1.
func (r *Registry) Get(k Key) Upgrade {
	if u, ok := r.upgrades[k]; ok {
		return *u
	}
	return Upgrade{BuildingID: k.BuildingID, X: k.X, Y: k.Y, Level: 1}
}

// Level returns the instance level.
func (r *Registry) Level(k Key) int {
	return r.Get(k).Level
}

func (r *Registry) entry(k Key) *Upgrade {
	u, ok := r.upgrades[k]
	if !ok {
		u = &Upgrade{BuildingID: k.BuildingID, X: k.X, Y: k.Y, Level: 1}
		r.upgrades[k] = u
	}
	return u
}

// NextCost quotes the price of the next level, if there is one.
func (r *Registry) NextCost(k Key) (float64, bool) {
	prof := r.cat.Profile(k.BuildingID)
	level := r.Level(k)
	if level >= prof.MaxLevel {
		return 0, false
	}
	row, ok := prof.CostFor(level + 1)
	if !ok {
		return 0, false
	}
	return row.Cost * prof.CostMultiplier, true
}

// Upgrade raises the instance one level if money covers the price.
// Nothing changes on failure.
func (r *Registry) Upgrade(k Key, money float64) Result {
	prof := r.cat.Profile(k.BuildingID)
	level := r.Level(k)
	if level >= prof.MaxLevel {
		return Result{Message: fmt.Sprintf("already at max level (%d)", prof.MaxLevel), Reason: ReasonMaxLevel, Level: level}
	}
	row, ok := prof.CostFor(level + 1)
	if !ok {
		return Result{Message: fmt.Sprintf("no upgrade defined for level %d", level+1), Reason: ReasonNotFound, Level: level}
	}
	cost := row.Cost * prof.CostMultiplier
	if money < cost {
		return Result{Cost: cost, Message: "not enough money, need $" + humanize.Commaf(cost), Reason: ReasonInsufficientFunds, Level: level}
	}

	u := r.entry(k)
	u.Level++
	u.Bonuses = u.Bonuses.Add(row.Bonus)
	u.TotalInvested += cost
	return Result{Success: true, Cost: cost, Message: fmt.Sprintf("upgraded to level %d", u.Level), Level: u.Level}
}

// ApplyTheme sets the instance theme if the profile allows it, the level
// requirement is met, and money covers the price.
func (r *Registry) ApplyTheme(k Key, themeID string, money float64) Result {
	level := r.Level(k)
	theme, ok := r.cat.Theme(themeID)
	if !ok {
		return Result{Message: fmt.Sprintf("unknown theme %q", themeID), Reason: ReasonNotFound, Level: level}
	}
	if !r.cat.Profile(k.BuildingID).AllowsTheme(themeID) {
		return Result{Message: fmt.Sprintf("theme %q is not available for %s", themeID, k.BuildingID), Reason: ReasonNotAllowed, Level: level}
	}
	if theme.MinLevel > level {
		return Result{Cost: theme.Cost, Message: fmt.Sprintf("requires level %d", theme.MinLevel), Reason: ReasonRequirement, Level: level}
	}
	if money < theme.Cost {
		return Result{Cost: theme.Cost, Message: "not enough money, need $" + humanize.Commaf(theme.Cost), Reason: ReasonInsufficientFunds, Level: level}
	}

	u := r.entry(k)
	u.Theme = themeID
	u.TotalInvested += theme.Cost
	return Result{Success: true, Cost: theme.Cost, Message: fmt.Sprintf("theme %q applied", theme.Name), Level: level}
}

// AvailableThemes lists the themes the instance could take, ignoring price.
func (r *Registry) AvailableThemes(k Key) []catalog.Theme {
	prof := r.cat.Profile(k.BuildingID)
	var out []catalog.Theme
	for _, t := range r.cat.Themes {
		if prof.AllowsTheme(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) themeBonus(k Key) (income, satisfaction float64) {
	u, ok := r.upgrades[k]
	if !ok || u.Theme == "" {
		return 0, 0
	}
	t, ok := r.cat.Theme(u.Theme)
	if !ok {
		return 0, 0
	}
	return t.IncomeBonus, t.SatisfactionBonus
}

// ModifiedIncome scales a base per-visit price by the level and theme
// income percentages. The result is not rounded; catalog prices are
// fractional.
func (r *Registry) ModifiedIncome(k Key, base float64) float64 {
	u := r.Get(k)
	themeIncome, _ := r.themeBonus(k)
	return base + base*u.Bonuses.Income/100 + base*themeIncome/100
}

// ModifiedSatisfaction adds level and theme satisfaction points to a base
// restoration amount, capped at 100.
func (r *Registry) ModifiedSatisfaction(k Key, base float64) float64 {
	u := r.Get(k)
	_, themeSat := r.themeBonus(k)
	return math.Min(100, base+u.Bonuses.Satisfaction+themeSat)
}

// Remove forgets an instance.
func (r *Registry) Remove(k Key) {
	delete(r.upgrades, k)
}

// All returns every upgraded instance in key order.
func (r *Registry) All() []Upgrade {
	out := make([]Upgrade, 0, len(r.upgrades))
	for _, u := range r.upgrades {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].BuildingID < out[j].BuildingID
	})
	return out
}

// Export returns every instance keyed by Key.
func (r *Registry) Export() map[Key]Upgrade {
	out := make(map[Key]Upgrade, len(r.upgrades))
	for k, u := range r.upgrades {
		out[k] = *u
	}
	return out
}

// Restore replaces every instance.
func (r *Registry) Restore(in map[Key]Upgrade) {
	r.upgrades = make(map[Key]*Upgrade, len(in))
	for k, u := range in {
		u := u
		u.BuildingID, u.X, u.Y = k.BuildingID, k.X, k.Y
		if u.Level < 1 {
			u.Level = 1
		}
		r.upgrades[k] = &u
	}
}

// Shift moves every instance by (dx, dy).
func (r *Registry) Shift(dx, dy int) {
	moved := make(map[Key]*Upgrade, len(r.upgrades))
	for k, u := range r.upgrades {
		u.X += dx
		u.Y += dy
		moved[Key{BuildingID: k.BuildingID, X: k.X + dx, Y: k.Y + dy}] = u
	}
	r.upgrades = moved
}

// Stats summarizes investment across the park.
type Stats struct {
	Upgraded      int            `json:"upgraded"`
	TotalInvested float64        `json:"total_invested"`
	ByLevel       map[int]int    `json:"by_level"`
	ByTheme       map[string]int `json:"by_theme"`
}

// Stats aggregates every upgraded instance.
func (r *Registry) Stats() Stats {
	s := Stats{ByLevel: make(map[int]int), ByTheme: make(map[string]int)}
	for _, u := range r.upgrades {
		s.Upgraded++
		s.TotalInvested += u.TotalInvested
		s.ByLevel[u.Level]++
		if u.Theme != "" {
			s.ByTheme[u.Theme]++
		}
	}
	return s
}
