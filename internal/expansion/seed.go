package expansion

import (
	"log/slog"

	"github.com/VirEgo/park-tycoon/internal/build"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

// feature is the scenery a terrain type is dotted with, and how many of it
// a fresh plot gets: min plus a random amount below spread.
type feature struct {
	building    string
	min, spread int
}

var features = map[grid.Terrain]feature{
	grid.TerrainForest:   {"tree", 20, 31},
	grid.TerrainMountain: {"mountain", 2, 2},
	grid.TerrainWater:    {"pond", 2, 2},
}

// Seeder scatters terrain features over newly bought land.
type Seeder struct {
	Catalog *catalog.Catalog
	Builder *build.Builder
	Field   *grid.TerrainField
	Rand    rng.Source
}

// Seed dresses area according to terrain and returns how many features it
// placed. Features go where the noise field peaks. Forest plots are tagged
// forest throughout; mountain and water tag only the feature footprints so
// the rest of the plot stays buildable.
func (s *Seeder) Seed(g *grid.Grid, area grid.Rect, terrain grid.Terrain) int {
	if terrain == grid.TerrainForest {
		g.Paint(area, terrain)
	}
	f, ok := features[terrain]
	if !ok {
		return 0
	}
	def, ok := s.Catalog.Building(f.building)
	if !ok {
		slog.Warn("terrain feature missing from catalog", "building", f.building)
		return 0
	}

	want := f.min + s.Rand.Intn(f.spread)
	placed := 0
	for _, c := range s.Field.Ranked(area) {
		if placed == want {
			break
		}
		if c.X+def.Width > area.X+area.W || c.Y+def.Height > area.Y+area.H {
			continue
		}
		if !build.CheckPlacement(g, c.X, c.Y, def) {
			continue
		}
		s.Builder.Place(g, c.X, c.Y, def)
		if terrain.Blocks() {
			g.Paint(grid.Rect{X: c.X, Y: c.Y, W: def.Width, H: def.Height}, terrain)
		}
		placed++
	}
	slog.Debug("seeded plot", "terrain", terrain, "feature", f.building, "placed", placed, "wanted", want)
	return placed
}
