// Package catalog holds the immutable game tables: building definitions,
// guest archetypes, the upgrade ladder, themes, and per-type upgrade
// profiles. A Catalog is built once at startup and passed by pointer.
package catalog

import (
	"fmt"
	"sort"
)

// DefaultMaxVisits is the durability threshold for buildings without one.
const DefaultMaxVisits = 500

// Category groups buildings by role.
type Category string

const (
	CategoryPath       Category = "path"
	CategoryAttraction Category = "attraction"
	CategoryShop       Category = "shop"
	CategoryDecoration Category = "decoration"
	CategoryService    Category = "service"
)

// Need names one of the five guest needs a building can restore.
type Need string

const (
	NeedNone      Need = ""
	NeedSatiety   Need = "satiety"
	NeedHydration Need = "hydration"
	NeedEnergy    Need = "energy"
	NeedFun       Need = "fun"
	NeedToilet    Need = "toilet"
)

// Building is one row of the building table.
type Building struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Category        Category `yaml:"category" json:"category"`
	Price           float64  `yaml:"price" json:"price"`
	Income          float64  `yaml:"income" json:"income"` // Charged per visit
	Width           int      `yaml:"width" json:"width"`
	Height          int      `yaml:"height" json:"height"`
	Satisfies       Need     `yaml:"satisfies,omitempty" json:"satisfies,omitempty"`
	StatValue       float64  `yaml:"stat_value,omitempty" json:"stat_value,omitempty"`
	Gambling        bool     `yaml:"gambling,omitempty" json:"gambling,omitempty"`
	Visitable       bool     `yaml:"visitable" json:"visitable"`
	AllowedOnPath   bool     `yaml:"allowed_on_path" json:"allowed_on_path"`
	MaxVisits       int      `yaml:"max_visits,omitempty" json:"max_visits,omitempty"`
	Hidden          bool     `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	ContinuousBuild bool     `yaml:"continuous_build,omitempty" json:"continuous_build,omitempty"`
	Workers         int      `yaml:"workers,omitempty" json:"workers,omitempty"` // Staff spawned on placement
	Protected       bool     `yaml:"protected,omitempty" json:"protected,omitempty"`
}

// DurabilityThreshold returns the visit count at which the building breaks.
func (b *Building) DurabilityThreshold() int {
	if b.MaxVisits > 0 {
		return b.MaxVisits
	}
	return DefaultMaxVisits
}

// Cells returns the footprint area.
func (b *Building) Cells() int {
	return b.Width * b.Height
}

// Catalog is the full set of game tables.
type Catalog struct {
	Buildings    []Building         `yaml:"buildings"`
	GuestTypes   []GuestType        `yaml:"guest_types"`
	UpgradeCosts []LevelCost        `yaml:"upgrade_costs"`
	Themes       []Theme            `yaml:"themes"`
	Profiles     map[string]Profile `yaml:"profiles"`

	byID    map[string]*Building
	themeID map[string]*Theme
}

// Default returns the stock game tables.
func Default() *Catalog {
	c := &Catalog{
		Buildings:    defaultBuildings(),
		GuestTypes:   defaultGuestTypes(),
		UpgradeCosts: defaultUpgradeCosts(),
		Themes:       defaultThemes(),
		Profiles:     defaultProfiles(),
	}
	c.index()
	return c
}

func (c *Catalog) index() {
	c.byID = make(map[string]*Building, len(c.Buildings))
	for i := range c.Buildings {
		c.byID[c.Buildings[i].ID] = &c.Buildings[i]
	}
	c.themeID = make(map[string]*Theme, len(c.Themes))
	for i := range c.Themes {
		c.themeID[c.Themes[i].ID] = &c.Themes[i]
	}
	sort.Slice(c.UpgradeCosts, func(i, j int) bool { return c.UpgradeCosts[i].Level < c.UpgradeCosts[j].Level })
}

// Validate checks table consistency.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Buildings))
	for _, b := range c.Buildings {
		if b.ID == "" {
			return fmt.Errorf("building with empty id")
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate building %q", b.ID)
		}
		seen[b.ID] = true
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("building %q: footprint %dx%d", b.ID, b.Width, b.Height)
		}
		if b.Price < 0 || b.Income < 0 {
			return fmt.Errorf("building %q: negative price or income", b.ID)
		}
	}
	for id, p := range c.Profiles {
		if _, ok := c.byID[id]; !ok {
			return fmt.Errorf("profile for unknown building %q", id)
		}
		if p.MaxLevel < 0 {
			return fmt.Errorf("profile %q: negative max level", id)
		}
	}
	total := 0
	for _, gt := range c.GuestTypes {
		total += gt.Weight
	}
	if len(c.GuestTypes) > 0 && total <= 0 {
		return fmt.Errorf("guest type weights sum to %d", total)
	}
	return nil
}

// Building looks up a definition by id.
func (c *Catalog) Building(id string) (*Building, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// Visible returns the buildings offered to the player, in table order.
func (c *Catalog) Visible() []Building {
	out := make([]Building, 0, len(c.Buildings))
	for _, b := range c.Buildings {
		if !b.Hidden {
			out = append(out, b)
		}
	}
	return out
}
