package guests

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/VirEgo/park-tycoon/internal/catalog"
)

func TestDecayStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := &Guest{
			Happiness: rapid.Float64Range(0, 100).Draw(t, "happiness"),
			Needs: Needs{
				Satiety:   rapid.Float64Range(0, 100).Draw(t, "satiety"),
				Hydration: rapid.Float64Range(0, 100).Draw(t, "hydration"),
				Energy:    rapid.Float64Range(0, 100).Draw(t, "energy"),
				Fun:       rapid.Float64Range(0, 100).Draw(t, "fun"),
				Toilet:    rapid.Float64Range(0, 100).Draw(t, "toilet"),
			},
		}
		ticks := rapid.IntRange(0, 3000).Draw(t, "ticks")
		for i := 0; i < ticks; i++ {
			DecayNeeds(g, DefaultDecay)
		}
		for name, v := range map[string]float64{
			"satiety":   g.Needs.Satiety,
			"hydration": g.Needs.Hydration,
			"energy":    g.Needs.Energy,
			"fun":       g.Needs.Fun,
			"toilet":    g.Needs.Toilet,
			"happiness": g.Happiness,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("%s out of range: %v", name, v)
			}
		}
	})
}

func TestDecayClampsAtZero(t *testing.T) {
	g := &Guest{Needs: Needs{Fun: 0.05}}
	DecayNeeds(g, DefaultDecay)
	if g.Needs.Fun != 0 {
		t.Fatalf("expected fun 0, got %v", g.Needs.Fun)
	}
}

func TestCheckMood(t *testing.T) {
	tests := []struct {
		name  string
		guest Guest
		want  bool
	}{
		{"content", Guest{Money: 50, Happiness: 80, Needs: FullNeeds()}, false},
		{"broke", Guest{Money: 3, Happiness: 80, Needs: FullNeeds()}, true},
		{"exactly five dollars", Guest{Money: 5, Happiness: 80, Needs: FullNeeds()}, true},
		{"stayed too long", Guest{Money: 50, Happiness: 80, Needs: FullNeeds(), DaysInPark: 5}, true},
		{"unhappy", Guest{Money: 50, Happiness: 19, Needs: FullNeeds()}, true},
		{"one low need", Guest{Money: 50, Happiness: 80, Needs: Needs{Satiety: 10, Hydration: 100, Energy: 100, Fun: 100, Toilet: 100}}, false},
		{"two low needs", Guest{Money: 50, Happiness: 80, Needs: Needs{Satiety: 10, Hydration: 15, Energy: 100, Fun: 100, Toilet: 100}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.guest
			CheckMood(&g, DefaultMood)
			if g.WantsToLeave != tt.want {
				t.Fatalf("expected wantsToLeave=%v, got %v", tt.want, g.WantsToLeave)
			}
		})
	}
}

func TestCheckMoodNeverClears(t *testing.T) {
	g := &Guest{Money: 100, Happiness: 100, Needs: FullNeeds(), WantsToLeave: true}
	CheckMood(g, DefaultMood)
	if !g.WantsToLeave {
		t.Fatal("expected flag to stay set")
	}
}

func TestIncrementTime(t *testing.T) {
	g := &Guest{}
	for i := 0; i < 120; i++ {
		IncrementTime(g, 60)
	}
	if g.DaysInPark != 2 || g.TicksInPark != 120 {
		t.Fatalf("expected 2 days / 120 ticks, got %d / %d", g.DaysInPark, g.TicksInPark)
	}
}

func TestRestoreFunLiftsHappiness(t *testing.T) {
	g := &Guest{Happiness: 50, Needs: Needs{Fun: 40}}
	Restore(g, catalog.NeedFun, 30)
	if g.Needs.Fun != 70 {
		t.Fatalf("expected fun 70, got %v", g.Needs.Fun)
	}
	if g.Happiness != 65 {
		t.Fatalf("expected happiness 65, got %v", g.Happiness)
	}
	Restore(g, catalog.NeedFun, 100)
	if g.Needs.Fun != 100 || g.Happiness != 100 {
		t.Fatalf("expected both capped at 100, got %v / %v", g.Needs.Fun, g.Happiness)
	}
}
