package guests

import (
	"testing"

	"github.com/VirEgo/park-tycoon/internal/build"
	"github.com/VirEgo/park-tycoon/internal/casino"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/maintenance"
	"github.com/VirEgo/park-tycoon/internal/rng"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

type testPark struct {
	sim     *Sim
	builder *build.Builder
	income  float64
	notes   []string
}

// newTestPark lays out a 6x3 park: a road along y=2 with an exit at (0,2).
func newTestPark(t *testing.T) *testPark {
	t.Helper()
	cat := catalog.Default()
	g := grid.New(6, 3)
	tp := &testPark{}
	tp.sim = &Sim{
		Grid:        g,
		Catalog:     cat,
		Durability:  durability.NewTracker(catalog.DefaultMaxVisits),
		Casino:      casino.NewLedger(casino.DefaultConfig(), rng.NewSequence(0)),
		Upgrades:    upgrade.NewRegistry(cat),
		Maintenance: maintenance.NewScheduler(),
		Rand:        rng.NewSequence(),
		Bet:         0.25,
		OnIncome:    func(a float64) { tp.income += a },
		Notify:      func(m string) { tp.notes = append(tp.notes, m) },
	}
	tp.builder = &build.Builder{Durability: tp.sim.Durability, Casino: tp.sim.Casino, Upgrades: tp.sim.Upgrades}
	tp.place(t, "exit", 0, 2)
	for x := 1; x < 6; x++ {
		tp.place(t, "path", x, 2)
	}
	return tp
}

func (tp *testPark) place(t *testing.T, id string, x, y int) {
	t.Helper()
	def, ok := tp.sim.Catalog.Building(id)
	if !ok {
		t.Fatalf("unknown building %q", id)
	}
	if !build.CheckPlacement(tp.sim.Grid, x, y, def) {
		t.Fatalf("cannot place %s at %d,%d", id, x, y)
	}
	tp.builder.Place(tp.sim.Grid, x, y, def)
}

func visitor(at grid.Coord, money float64) *Guest {
	g := &Guest{ID: 1, Money: money, Happiness: 50, Needs: Needs{Satiety: 50, Hydration: 50, Energy: 50, Fun: 50, Toilet: 10}, SpeedModifier: 1}
	g.Place(at)
	return g
}

func TestVisitBillsOncePerStay(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "toilet", 3, 1)
	g := visitor(grid.Coord{X: 3, Y: 1}, 10)

	tp.sim.Update([]*Guest{g}, 0.1)
	if g.Money != 9.5 {
		t.Fatalf("expected money 9.5, got %v", g.Money)
	}
	if tp.income != 0.5 {
		t.Fatalf("expected income 0.5, got %v", tp.income)
	}
	if g.Needs.Toilet != 100 {
		t.Fatalf("expected toilet need restored to 100, got %v", g.Needs.Toilet)
	}
	if g.Visiting == nil || *g.Visiting != (grid.Coord{X: 3, Y: 1}) {
		t.Fatalf("expected visiting marker on 3,1, got %v", g.Visiting)
	}

	// Arriving on the same building again is the same stay.
	g.Place(grid.Coord{X: 3, Y: 1})
	tp.sim.Update([]*Guest{g}, 0.1)
	if g.Money != 9.5 {
		t.Fatalf("expected no second charge, got money %v", g.Money)
	}
	if st, _ := tp.sim.Durability.Get(3, 1); st.Visits != 1 {
		t.Fatalf("expected one recorded visit, got %d", st.Visits)
	}
}

func TestVisitSkippedWhenUnaffordable(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "toilet", 3, 1)
	g := visitor(grid.Coord{X: 3, Y: 1}, 0.3)

	tp.sim.Update([]*Guest{g}, 0.1)
	if g.Money != 0.3 || tp.income != 0 {
		t.Fatalf("expected no charge, got money %v income %v", g.Money, tp.income)
	}
	if g.Visiting != nil {
		t.Fatalf("expected no visiting marker, got %v", g.Visiting)
	}
}

func TestVisitBreaksBuilding(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "toilet", 3, 1)
	tp.sim.Durability.SetMaxVisits(3, 1, 1)
	tp.sim.Maintenance.RegisterWorkers(maintenance.Worker{ID: 99, Home: grid.Coord{X: 5, Y: 0}})
	g := visitor(grid.Coord{X: 3, Y: 1}, 10)

	tp.sim.Update([]*Guest{g}, 0.1)
	if !tp.sim.Durability.IsBroken(3, 1) {
		t.Fatal("expected toilet broken")
	}
	if !g.WantsToLeave {
		t.Fatal("expected visitor to want to leave after breaking the building")
	}
	if key, ok := tp.sim.Maintenance.Assignment(99); !ok || key != (grid.Coord{X: 3, Y: 1}) {
		t.Fatalf("expected repair assigned to worker 99, got %v %v", key, ok)
	}
	if len(tp.notes) == 0 {
		t.Fatal("expected a breakdown notification")
	}

	// A broken building neither bills nor counts.
	other := visitor(grid.Coord{X: 3, Y: 1}, 10)
	other.ID = 2
	tp.sim.Update([]*Guest{other}, 0.1)
	if other.Money != 10 {
		t.Fatalf("expected no charge at broken building, got %v", other.Money)
	}
}

func TestLeavingVisitorRemovedAtExit(t *testing.T) {
	tp := newTestPark(t)
	g := visitor(grid.Coord{X: 0, Y: 2}, 10)
	g.WantsToLeave = true
	stay := visitor(grid.Coord{X: 2, Y: 2}, 10)
	stay.ID = 2

	out := tp.sim.Update([]*Guest{g, stay}, 0.1)
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("expected only guest 2 to remain, got %d guests", len(out))
	}
}

func TestLeavingVisitorHeadsForExit(t *testing.T) {
	tp := newTestPark(t)
	g := visitor(grid.Coord{X: 3, Y: 2}, 10)
	g.WantsToLeave = true

	tp.sim.Update([]*Guest{g}, 0.1)
	if g.TargetX != 2 || g.TargetY != 2 {
		t.Fatalf("expected next step 2,2, got %v,%v", g.TargetX, g.TargetY)
	}
	for i := 0; i < 100; i++ {
		out := tp.sim.Update([]*Guest{g}, 0.25)
		if len(out) == 0 {
			return
		}
	}
	t.Fatal("expected visitor to reach the exit")
}

func TestLeavingVisitorWalksOutOfBuilding(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "ferris", 3, 0)
	g := visitor(grid.Coord{X: 4, Y: 0}, 10)
	g.WantsToLeave = true
	root := grid.Coord{X: 3, Y: 0}
	g.Visiting = &root

	tp.sim.Update([]*Guest{g}, 0.1)
	if g.TargetX != 4 || g.TargetY != 1 {
		t.Fatalf("expected step toward road at 4,1, got %v,%v", g.TargetX, g.TargetY)
	}
}

func TestMoneyNeverNegative(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "shooting", 3, 1)
	tp.sim.Rand = rng.New(11)
	g := visitor(grid.Coord{X: 3, Y: 2}, 2)
	for i := 0; i < 2000; i++ {
		tp.sim.Update([]*Guest{g}, 0.2)
		if g.Money < 0 {
			t.Fatalf("money went negative: %v", g.Money)
		}
	}
}

func TestGambleUpdatesRootBank(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "shooting", 3, 1)
	g := visitor(grid.Coord{X: 3, Y: 1}, 10)

	tp.sim.Update([]*Guest{g}, 0.1)
	rec, ok := tp.sim.Casino.Get(3, 1)
	if !ok || rec.TotalVisits != 1 {
		t.Fatalf("expected one casino visit, got %+v", rec)
	}
	bank, ok := tp.sim.Grid.CellAt(3, 1).Payload.GamblingBank()
	if !ok || bank != rec.Bank {
		t.Fatalf("expected cell bank %v, got %v (%v)", rec.Bank, bank, ok)
	}
	if tp.income != 0 {
		t.Fatalf("expected gambling to bypass the flat charge, got income %v", tp.income)
	}
}

func TestIdleUntilRoadOpens(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "bench", 3, 0)
	g := visitor(grid.Coord{X: 3, Y: 0}, 10)

	tp.sim.Update([]*Guest{g}, 0.1)
	if g.State != StateIdle {
		t.Fatalf("expected idle with no way out, got %v", g.State)
	}
	if g.TargetX != 3 || g.TargetY != 0 {
		t.Fatalf("expected target to stay at 3,0, got %v,%v", g.TargetX, g.TargetY)
	}

	tp.place(t, "path", 3, 1)
	tp.sim.Update([]*Guest{g}, 0.1)
	if g.State != StateWalking {
		t.Fatalf("expected walking once a road opens, got %v", g.State)
	}
	if g.TargetX != 3 || g.TargetY != 1 {
		t.Fatalf("expected target 3,1, got %v,%v", g.TargetX, g.TargetY)
	}
}

func TestIdleUntilNeighbourRepaired(t *testing.T) {
	tp := newTestPark(t)
	tp.place(t, "bench", 3, 0)
	tp.place(t, "toilet", 3, 1)
	tp.sim.Durability.SetMaxVisits(3, 1, 1)
	tp.sim.Durability.RecordVisit(3, 1)
	g := visitor(grid.Coord{X: 3, Y: 0}, 10)

	tp.sim.Update([]*Guest{g}, 0.1)
	if g.State != StateIdle {
		t.Fatalf("expected idle next to a broken toilet, got %v", g.State)
	}

	tp.sim.Durability.Repair(3, 1)
	tp.sim.Update([]*Guest{g}, 0.1)
	if g.State != StateWalking || g.TargetX != 3 || g.TargetY != 1 {
		t.Fatalf("expected walking to 3,1 after repair, got %v at %v,%v", g.State, g.TargetX, g.TargetY)
	}
}

func TestOffGridGuestKeptIdle(t *testing.T) {
	tp := newTestPark(t)
	g := visitor(grid.Coord{X: 40, Y: 40}, 10)
	g.State = StateWalking

	kept := tp.sim.Update([]*Guest{g}, 0.1)
	if len(kept) != 1 {
		t.Fatalf("expected guest kept, got %d", len(kept))
	}
	if g.State != StateIdle {
		t.Fatalf("expected idle off the grid, got %v", g.State)
	}
}
