package catalog

// DefaultMaxLevel is the level cap for buildings without a profile.
const DefaultMaxLevel = 5

// DefaultTheme is the theme every instance starts with.
const DefaultTheme = "default"

// Bonus holds additive upgrade bonuses. Speed, Income and Satisfaction
// are percentages or points; Capacity, Workers and Maintenance are counts.
type Bonus struct {
	Speed        float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	Capacity     float64 `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	Income       float64 `yaml:"income,omitempty" json:"income,omitempty"`
	Satisfaction float64 `yaml:"satisfaction,omitempty" json:"satisfaction,omitempty"`
	Workers      float64 `yaml:"workers,omitempty" json:"workers,omitempty"`
	Maintenance  float64 `yaml:"maintenance,omitempty" json:"maintenance,omitempty"`
}

// Add returns the field-wise sum.
func (b Bonus) Add(o Bonus) Bonus {
	return Bonus{
		Speed:        b.Speed + o.Speed,
		Capacity:     b.Capacity + o.Capacity,
		Income:       b.Income + o.Income,
		Satisfaction: b.Satisfaction + o.Satisfaction,
		Workers:      b.Workers + o.Workers,
		Maintenance:  b.Maintenance + o.Maintenance,
	}
}

// LevelCost is the price and bonus for reaching a level.
type LevelCost struct {
	Level int     `yaml:"level" json:"level"`
	Cost  float64 `yaml:"cost" json:"cost"`
	Bonus Bonus   `yaml:"bonus" json:"bonus"`
}

// Theme is a cosmetic skin with gameplay bonuses.
type Theme struct {
	ID                string  `yaml:"id" json:"id"`
	Name              string  `yaml:"name" json:"name"`
	Cost              float64 `yaml:"cost" json:"cost"`
	IncomeBonus       float64 `yaml:"income_bonus,omitempty" json:"income_bonus,omitempty"`
	SatisfactionBonus float64 `yaml:"satisfaction_bonus,omitempty" json:"satisfaction_bonus,omitempty"`
	MinLevel          int     `yaml:"min_level,omitempty" json:"min_level,omitempty"`
}

// Profile overrides the upgrade ladder for one building type.
type Profile struct {
	MaxLevel       int         `yaml:"max_level" json:"max_level"`
	Costs          []LevelCost `yaml:"costs,omitempty" json:"costs,omitempty"`
	RestrictThemes bool        `yaml:"restrict_themes,omitempty" json:"restrict_themes,omitempty"`
	AllowedThemes  []string    `yaml:"allowed_themes,omitempty" json:"allowed_themes,omitempty"`
	CostMultiplier float64     `yaml:"cost_multiplier,omitempty" json:"cost_multiplier,omitempty"`
}

// CostFor returns the ladder row for reaching level.
func (p Profile) CostFor(level int) (LevelCost, bool) {
	for _, row := range p.Costs {
		if row.Level == level {
			return row, true
		}
	}
	return LevelCost{}, false
}

// AllowsTheme reports whether themeID may be applied under this profile.
// The default theme is always allowed.
func (p Profile) AllowsTheme(themeID string) bool {
	if !p.RestrictThemes || themeID == DefaultTheme {
		return true
	}
	for _, id := range p.AllowedThemes {
		if id == themeID {
			return true
		}
	}
	return false
}

// Profile resolves the effective upgrade profile for a building type,
// filling unset fields from the default ladder.
func (c *Catalog) Profile(buildingID string) Profile {
	p, ok := c.Profiles[buildingID]
	if !ok {
		p = Profile{}
	}
	if p.MaxLevel == 0 {
		p.MaxLevel = DefaultMaxLevel
	}
	if len(p.Costs) == 0 {
		p.Costs = c.UpgradeCosts
	}
	if p.CostMultiplier == 0 {
		p.CostMultiplier = 1
	}
	return p
}

// Theme looks up a theme by id.
func (c *Catalog) Theme(id string) (*Theme, bool) {
	t, ok := c.themeID[id]
	return t, ok
}

func defaultUpgradeCosts() []LevelCost {
	return []LevelCost{
		{Level: 1, Cost: 0},
		{Level: 2, Cost: 500, Bonus: Bonus{Speed: 10, Capacity: 1, Income: 10, Satisfaction: 5}},
		{Level: 3, Cost: 1500, Bonus: Bonus{Speed: 20, Capacity: 2, Income: 25, Satisfaction: 10}},
		{Level: 4, Cost: 3500, Bonus: Bonus{Speed: 35, Capacity: 3, Income: 40, Satisfaction: 15}},
		{Level: 5, Cost: 7000, Bonus: Bonus{Speed: 50, Capacity: 5, Income: 60, Satisfaction: 25}},
	}
}

func defaultThemes() []Theme {
	return []Theme{
		{ID: DefaultTheme, Name: "Standard"},
		{ID: "space", Name: "Space", Cost: 1000, IncomeBonus: 15, SatisfactionBonus: 10, MinLevel: 2},
		{ID: "underwater", Name: "Underwater", Cost: 1200, IncomeBonus: 20, SatisfactionBonus: 15, MinLevel: 3},
		{ID: "fantasy", Name: "Fantasy", Cost: 1500, IncomeBonus: 25, SatisfactionBonus: 20, MinLevel: 3},
		{ID: "horror", Name: "Horror", Cost: 1800, IncomeBonus: 30, SatisfactionBonus: 25, MinLevel: 4},
		{ID: "safari", Name: "Safari", Cost: 2000, IncomeBonus: 35, SatisfactionBonus: 30, MinLevel: 4},
	}
}

// Staffed buildings get a short, pricier ladder and no themes.
func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		"parkMaintenance": {
			MaxLevel: 4,
			Costs: []LevelCost{
				{Level: 2, Cost: 300, Bonus: Bonus{Workers: 1, Capacity: 1, Maintenance: 50}},
				{Level: 3, Cost: 600, Bonus: Bonus{Workers: 1, Capacity: 1, Maintenance: 100}},
				{Level: 4, Cost: 1000, Bonus: Bonus{Workers: 2, Capacity: 2, Maintenance: 150}},
			},
			RestrictThemes: true,
			CostMultiplier: 1.8,
		},
	}
}
