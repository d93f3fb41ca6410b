// Package build writes and clears building footprints on the grid and keeps
// the per-building ledgers in step with them.
package build

import (
	"github.com/VirEgo/park-tycoon/internal/casino"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

// Builder owns footprint changes. Every ledger field is optional.
type Builder struct {
	Durability *durability.Tracker
	Casino     *casino.Ledger
	Upgrades   *upgrade.Registry
}

// CheckPlacement reports whether def fits with its origin at (x, y): every
// footprint cell must be on the grid, grass, and on buildable terrain.
func CheckPlacement(g *grid.Grid, x, y int, def *catalog.Building) bool {
	for dy := 0; dy < def.Height; dy++ {
		for dx := 0; dx < def.Width; dx++ {
			c := g.CellAt(x+dx, y+dy)
			if c == nil || c.Kind != grid.KindGrass || c.Terrain.Blocks() {
				return false
			}
		}
	}
	return true
}

// KindFor maps a definition to the cell kind its footprint gets.
func KindFor(def *catalog.Building) grid.Kind {
	switch {
	case def.ID == "exit":
		return grid.KindExit
	case def.Category == catalog.CategoryPath:
		return grid.KindPath
	default:
		return grid.KindBuilding
	}
}

// Place writes def at (x, y). Callers check placement first.
func (b *Builder) Place(g *grid.Grid, x, y int, def *catalog.Building) grid.Coord {
	root := grid.Coord{X: x, Y: y}
	kind := KindFor(def)

	for dy := 0; dy < def.Height; dy++ {
		for dx := 0; dx < def.Width; dx++ {
			c := g.CellAt(x+dx, y+dy)
			if c == nil {
				continue
			}
			c.Kind = kind
			c.BuildingID = def.ID
			c.IsRoot = dx == 0 && dy == 0
			c.Root = nil
			if !c.IsRoot {
				r := root
				c.Root = &r
			}
			c.Payload = grid.Payload{}
		}
	}
	if def.Gambling && b.Casino != nil {
		g.At(root).Payload = grid.GamblingBank(b.Casino.InitialBank())
	}

	if kind == grid.KindBuilding {
		if b.Durability != nil {
			b.Durability.Init(x, y, def.DurabilityThreshold())
		}
		if def.Gambling && b.Casino != nil {
			b.Casino.Init(x, y)
		}
	}
	return root
}

// Removed describes a cleared footprint.
type Removed struct {
	Root       grid.Coord
	BuildingID string
	Cells      int
}

// Remove clears the building covering (x, y) and drops its ledgers. It
// reports false when the cell holds no building.
func (b *Builder) Remove(g *grid.Grid, x, y int) (Removed, bool) {
	c := g.CellAt(x, y)
	if c == nil || c.BuildingID == "" {
		return Removed{}, false
	}
	root := c.RootCoord()
	id := c.BuildingID

	cells := g.Footprint(root)
	for _, fc := range cells {
		g.At(fc).Clear()
	}

	if b.Durability != nil {
		b.Durability.Remove(root.X, root.Y)
	}
	if b.Casino != nil {
		b.Casino.Remove(root.X, root.Y)
	}
	if b.Upgrades != nil {
		b.Upgrades.Remove(upgrade.Key{BuildingID: id, X: root.X, Y: root.Y})
	}
	return Removed{Root: root, BuildingID: id, Cells: len(cells)}, true
}
