package expansion

import (
	"errors"
	"testing"

	"github.com/VirEgo/park-tycoon/internal/build"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

func TestPriceFor(t *testing.T) {
	if got := PriceFor(5000, 0); got != 5000 {
		t.Fatalf("expected 5000, got %v", got)
	}
	if got := PriceFor(5000, 2); got != 11250 {
		t.Fatalf("expected 11250, got %v", got)
	}
	if got := PriceFor(8000, 1); got != 12000 {
		t.Fatalf("expected 12000, got %v", got)
	}
}

func TestPurchaseEastKeepsOrigin(t *testing.T) {
	s := NewState(20, 15)
	g, err := s.Purchase("plot-east-1", 6000)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if g.Width != 40 || g.Height != 15 || g.DX != 0 || g.DY != 0 {
		t.Fatalf("expected 40x15 with no shift, got %+v", g)
	}
	if g.Area != (grid.Rect{X: 20, Y: 0, W: 20, H: 15}) {
		t.Fatalf("unexpected plot area %+v", g.Area)
	}
	if g.Plot.Price != 5000 {
		t.Fatalf("expected paid price 5000, got %v", g.Plot.Price)
	}
	p, _ := s.Plot("plot-west-1")
	if p.Price != 7500 {
		t.Fatalf("expected repriced west plot 7500, got %v", p.Price)
	}
}

func TestPurchaseWestThenNorthShifts(t *testing.T) {
	s := NewState(20, 15)
	g, err := s.Purchase("plot-west-1", 1e6)
	if err != nil {
		t.Fatalf("purchase west: %v", err)
	}
	if g.DX != 20 || g.DY != 0 || g.Area.X != 0 {
		t.Fatalf("expected shift right by 20, got %+v", g)
	}

	g, err = s.Purchase("plot-north-1", 1e6)
	if err != nil {
		t.Fatalf("purchase north: %v", err)
	}
	if g.Width != 40 || g.Height != 30 || g.DX != 0 || g.DY != 15 {
		t.Fatalf("expected 40x30 shifted down by 15, got %+v", g)
	}
	if g.Area != (grid.Rect{X: 20, Y: 0, W: 20, H: 15}) {
		t.Fatalf("unexpected north area %+v", g.Area)
	}
	if s.TotalSpent != 5000+7500 {
		t.Fatalf("expected total spent 12500, got %v", s.TotalSpent)
	}
}

func TestPurchaseFailures(t *testing.T) {
	s := NewState(20, 15)
	if _, err := s.Purchase("nowhere", 1e6); !errors.Is(err, ErrUnknownPlot) {
		t.Fatalf("expected ErrUnknownPlot, got %v", err)
	}
	var fe *FundsError
	if _, err := s.Purchase("plot-east-1", 100); !errors.As(err, &fe) || fe.Price != 5000 {
		t.Fatalf("expected funds error quoting 5000, got %v", err)
	}
	if s.PurchasedCount != 0 {
		t.Fatal("expected failed purchase to leave state unchanged")
	}
	if _, err := s.Purchase("plot-east-1", 1e6); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := s.Purchase("plot-east-1", 1e6); !errors.Is(err, ErrOwned) {
		t.Fatalf("expected ErrOwned, got %v", err)
	}
	if n := len(s.Available()); n != 5 {
		t.Fatalf("expected 5 plots left, got %d", n)
	}
}

func newSeeder(seed int64) *Seeder {
	cat := catalog.Default()
	return &Seeder{
		Catalog: cat,
		Builder: &build.Builder{Durability: durability.NewTracker(catalog.DefaultMaxVisits)},
		Field:   grid.NewTerrainField(seed),
		Rand:    rng.NewSequence(0),
	}
}

func TestSeedForest(t *testing.T) {
	g := grid.New(20, 15)
	area := grid.Rect{X: 0, Y: 0, W: 20, H: 15}
	n := newSeeder(4).Seed(g, area, grid.TerrainForest)
	if n != 20 {
		t.Fatalf("expected 20 trees, got %d", n)
	}
	trees := 0
	for _, c := range g.Cells {
		if c.BuildingID == "tree" {
			trees++
		}
		if c.Terrain != grid.TerrainForest {
			t.Fatalf("expected forest terrain at %v", c.Coord())
		}
	}
	if trees != 20 {
		t.Fatalf("expected 20 tree cells, got %d", trees)
	}
}

func TestSeedMountainStaysInArea(t *testing.T) {
	g := grid.New(40, 15)
	area := grid.Rect{X: 20, Y: 0, W: 20, H: 15}
	n := newSeeder(9).Seed(g, area, grid.TerrainMountain)
	if n == 0 {
		t.Fatal("expected at least one mountain")
	}
	for _, c := range g.Cells {
		if c.BuildingID == "" {
			if c.Terrain != grid.TerrainGrass {
				t.Fatalf("expected open ground to stay grass at %v", c.Coord())
			}
			continue
		}
		if !area.Contains(c.X, c.Y) {
			t.Fatalf("feature outside plot at %v", c.Coord())
		}
		if c.Terrain != grid.TerrainMountain {
			t.Fatalf("expected mountain terrain under feature at %v", c.Coord())
		}
	}
}

func TestSeedGrassIsEmpty(t *testing.T) {
	g := grid.New(20, 15)
	if n := newSeeder(1).Seed(g, grid.Rect{W: 20, H: 15}, grid.TerrainGrass); n != 0 {
		t.Fatalf("expected nothing seeded on grass, got %d", n)
	}
}
