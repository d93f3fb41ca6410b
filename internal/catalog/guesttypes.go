package catalog

// GuestType is a guest archetype.
type GuestType struct {
	ID            string  `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	SpendingPower float64 `yaml:"spending_power" json:"spending_power"`
	SpeedModifier float64 `yaml:"speed_modifier" json:"speed_modifier"`
	Weight        int     `yaml:"weight" json:"weight"`
	// Unlock requirements; zero means none.
	MinAttractions int     `yaml:"min_attractions,omitempty" json:"min_attractions,omitempty"`
	MinRating      float64 `yaml:"min_rating,omitempty" json:"min_rating,omitempty"`
}

// Unlocked reports whether the park qualifies for this archetype.
func (g *GuestType) Unlocked(attractions int, rating float64) bool {
	return attractions >= g.MinAttractions && rating >= g.MinRating
}

func defaultGuestTypes() []GuestType {
	return []GuestType{
		{ID: "casual", Name: "Casual", SpendingPower: 1.0, SpeedModifier: 1.0, Weight: 50},
		{ID: "family", Name: "Family", SpendingPower: 1.5, SpeedModifier: 0.8, Weight: 20, MinAttractions: 5},
		{ID: "teen", Name: "Teen", SpendingPower: 0.8, SpeedModifier: 1.3, Weight: 15, MinAttractions: 3},
		{ID: "elder", Name: "Elder", SpendingPower: 1.2, SpeedModifier: 0.6, Weight: 10, MinAttractions: 8},
		{ID: "vip", Name: "VIP", SpendingPower: 3.0, SpeedModifier: 1.0, Weight: 5, MinAttractions: 10, MinRating: 4.0},
	}
}

// GuestType looks up an archetype by id.
func (c *Catalog) GuestType(id string) (*GuestType, bool) {
	for i := range c.GuestTypes {
		if c.GuestTypes[i].ID == id {
			return &c.GuestTypes[i], true
		}
	}
	return nil, false
}
