package engine

import (
	"sort"

	"github.com/VirEgo/park-tycoon/internal/casino"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/economy"
	"github.com/VirEgo/park-tycoon/internal/expansion"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/guests"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

// Status is the park overview.
type Status struct {
	Day        int               `json:"day"`
	Time       string            `json:"time"`
	Tick       uint64            `json:"tick"`
	Money      float64           `json:"money"`
	Visitors   int               `json:"visitors"`
	Workers    int               `json:"workers"`
	Capacity   int               `json:"capacity"`
	Rating     float64           `json:"rating"`
	Paused     bool              `json:"paused"`
	Closed     bool              `json:"closed"`
	Broken     int               `json:"broken"`
	RepairQ    int               `json:"repair_queue"`
	Repairing  int               `json:"repairs_in_progress"`
	CasinoBank float64           `json:"casino_bank"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Yesterday  economy.DayReport `json:"yesterday"`
	Needs      guests.Needs      `json:"avg_needs"`
	Happiness  float64           `json:"avg_happiness"`
	Buildings  map[string]int    `json:"buildings_by_category"`
	Upgrades   upgrade.Stats     `json:"upgrades"`
	Plots      int               `json:"plots_owned"`
}

// Status summarizes the park.
func (p *Park) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	visitors, workers := p.headcount()
	s := Status{
		Day:        p.day,
		Time:       ParkTime(p.day, p.tickOfDay, p.cfg.TicksPerDay),
		Tick:       p.tick,
		Money:      p.treasury.Balance(),
		Visitors:   visitors,
		Workers:    workers,
		Capacity:   p.capacity(),
		Rating:     p.rating(),
		Paused:     p.paused,
		Closed:     p.closed,
		Broken:     len(p.durability.Broken()),
		RepairQ:    len(p.maintenance.Queue()),
		Repairing:  p.maintenance.Active(),
		CasinoBank: p.casino.TotalBank(),
		Width:      p.grid.Width,
		Height:     p.grid.Height,
		Yesterday:  p.treasury.LastDay(),
		Buildings:  make(map[string]int),
		Upgrades:   p.upgrades.Stats(),
		Plots:      p.plots.PurchasedCount,
	}
	for _, c := range p.grid.Roots() {
		if def, ok := p.cat.Building(c.BuildingID); ok {
			s.Buildings[string(def.Category)]++
		}
	}
	if visitors > 0 {
		for _, g := range p.guests {
			if g.IsWorker() {
				continue
			}
			s.Needs.Satiety += g.Needs.Satiety
			s.Needs.Hydration += g.Needs.Hydration
			s.Needs.Energy += g.Needs.Energy
			s.Needs.Fun += g.Needs.Fun
			s.Needs.Toilet += g.Needs.Toilet
			s.Happiness += g.Happiness
		}
		n := float64(visitors)
		s.Needs.Satiety /= n
		s.Needs.Hydration /= n
		s.Needs.Energy /= n
		s.Needs.Fun /= n
		s.Needs.Toilet /= n
		s.Happiness /= n
	}
	return s
}

// Grid returns a copy of the grid.
func (p *Park) Grid() *grid.Grid {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.Clone()
}

// Guests returns copies of every agent, visitors and workers alike.
func (p *Park) Guests() []*guests.Guest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*guests.Guest, len(p.guests))
	for i, g := range p.guests {
		out[i] = g.Clone()
	}
	return out
}

// BuildingView is the state of one placed building.
type BuildingView struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Category   catalog.Category `json:"category"`
	X          int              `json:"x"`
	Y          int              `json:"y"`
	Level      int              `json:"level"`
	Theme      string           `json:"theme,omitempty"`
	Broken     bool             `json:"broken"`
	Visits     int              `json:"visits"`
	MaxVisits  int              `json:"max_visits"`
	Total      int              `json:"total_visits"`
	RepairCost float64          `json:"repair_cost,omitempty"`
	NextCost   float64          `json:"next_level_cost,omitempty"`
	Income     float64          `json:"income_per_visit"`
	Bank       *float64         `json:"casino_bank,omitempty"`
	Themes     []string         `json:"available_themes,omitempty"`
}

func (p *Park) view(root grid.Coord, def *catalog.Building, detail bool) BuildingView {
	key := upgrade.Key{BuildingID: def.ID, X: root.X, Y: root.Y}
	u := p.upgrades.Get(key)
	v := BuildingView{
		ID:       def.ID,
		Name:     def.Name,
		Category: def.Category,
		X:        root.X,
		Y:        root.Y,
		Level:    u.Level,
		Theme:    u.Theme,
		Income:   p.upgrades.ModifiedIncome(key, def.Income),
	}
	if st, ok := p.durability.Get(root.X, root.Y); ok {
		v.Broken = st.Broken
		v.Visits = st.Visits
		v.MaxVisits = st.MaxVisits
		v.Total = st.TotalVisits
	}
	if v.Broken {
		v.RepairCost = p.repairCost(key, def)
	}
	if rec, ok := p.casino.Get(root.X, root.Y); ok {
		bank := rec.Bank
		v.Bank = &bank
	}
	if detail {
		if cost, ok := p.upgrades.NextCost(key); ok {
			v.NextCost = cost
		}
		for _, t := range p.upgrades.AvailableThemes(key) {
			v.Themes = append(v.Themes, t.ID)
		}
	}
	return v
}

// Buildings lists every placed building except roads, in grid order.
func (p *Park) Buildings() []BuildingView {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []BuildingView
	for _, c := range p.grid.Roots() {
		if c.Kind != grid.KindBuilding {
			continue
		}
		if def, ok := p.cat.Building(c.BuildingID); ok {
			out = append(out, p.view(c.Coord(), def, false))
		}
	}
	return out
}

// Building describes the building covering (x, y).
func (p *Park) Building(x, y int) (BuildingView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	root, def, ok := p.building(x, y)
	if !ok {
		return BuildingView{}, false
	}
	return p.view(root, def, true), true
}

// Casinos returns every casino record.
func (p *Park) Casinos() []casino.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.casino.Records()
}

// Plots returns every land plot, sold or not, cheapest first.
func (p *Park) Plots() []expansion.Plot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := append([]expansion.Plot(nil), p.plots.Plots...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

// Catalog returns the building catalog.
func (p *Park) Catalog() *catalog.Catalog {
	return p.cat
}

// Paused reports whether the simulation is paused.
func (p *Park) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}
