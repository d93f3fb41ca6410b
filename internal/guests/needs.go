package guests

import (
	"golang.org/x/exp/constraints"

	"github.com/VirEgo/park-tycoon/internal/catalog"
)

// DecayRates is how much each need drops per coarse tick.
type DecayRates struct {
	Satiety, Hydration, Energy, Fun, Toilet, Happiness float64
}

// DefaultDecay is the stock per-tick decay.
var DefaultDecay = DecayRates{
	Satiety:   0.05,
	Hydration: 0.08,
	Energy:    0.02,
	Fun:       0.1,
	Toilet:    0.04,
	Happiness: 0.05,
}

// MoodRules decide when a visitor gives up and heads for the exit.
type MoodRules struct {
	MaxDays        int
	LowNeed        float64
	LowNeedCount   int
	MinHappiness   float64
	MinMoneyToStay float64
}

// DefaultMood is the stock set of leave conditions.
var DefaultMood = MoodRules{
	MaxDays:        5,
	LowNeed:        20,
	LowNeedCount:   2,
	MinHappiness:   20,
	MinMoneyToStay: 5,
}

func clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DecayNeeds lowers every need and happiness, keeping them in [0, 100].
func DecayNeeds(g *Guest, r DecayRates) {
	g.Needs.Satiety = clamp(g.Needs.Satiety-r.Satiety, 0, 100)
	g.Needs.Hydration = clamp(g.Needs.Hydration-r.Hydration, 0, 100)
	g.Needs.Energy = clamp(g.Needs.Energy-r.Energy, 0, 100)
	g.Needs.Fun = clamp(g.Needs.Fun-r.Fun, 0, 100)
	g.Needs.Toilet = clamp(g.Needs.Toilet-r.Toilet, 0, 100)
	g.Happiness = clamp(g.Happiness-r.Happiness, 0, 100)
}

// CheckMood sets WantsToLeave when any leave condition holds. It never
// clears the flag.
func CheckMood(g *Guest, r MoodRules) {
	if g.DaysInPark >= r.MaxDays {
		g.WantsToLeave = true
		return
	}
	low := 0
	for _, v := range [...]float64{g.Needs.Satiety, g.Needs.Hydration, g.Needs.Energy, g.Needs.Fun, g.Needs.Toilet} {
		if v < r.LowNeed {
			low++
		}
	}
	if low >= r.LowNeedCount || g.Happiness < r.MinHappiness || g.Money <= r.MinMoneyToStay {
		g.WantsToLeave = true
	}
}

// IncrementTime advances the guest's stay by one tick.
func IncrementTime(g *Guest, ticksPerDay int) {
	g.TicksInPark++
	if ticksPerDay > 0 && g.TicksInPark%ticksPerDay == 0 {
		g.DaysInPark++
	}
}

// Restore raises one need by amount. Raising fun without an explicit
// happiness boost also lifts happiness by half as much.
func Restore(g *Guest, need catalog.Need, amount float64) {
	switch need {
	case catalog.NeedSatiety:
		g.Needs.Satiety = clamp(g.Needs.Satiety+amount, 0, 100)
	case catalog.NeedHydration:
		g.Needs.Hydration = clamp(g.Needs.Hydration+amount, 0, 100)
	case catalog.NeedEnergy:
		g.Needs.Energy = clamp(g.Needs.Energy+amount, 0, 100)
	case catalog.NeedToilet:
		g.Needs.Toilet = clamp(g.Needs.Toilet+amount, 0, 100)
	case catalog.NeedFun:
		g.Needs.Fun = clamp(g.Needs.Fun+amount, 0, 100)
		g.Happiness = clamp(g.Happiness+amount/2, 0, 100)
	}
}
