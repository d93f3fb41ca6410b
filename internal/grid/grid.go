package grid

import "fmt"

// Grid holds the park tiles in row-major order.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// New creates a grass grid of the given size.
func New(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, Cells: make([]Cell, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Cells[Index(x, y, width)] = Cell{X: x, Y: y}
		}
	}
	return g
}

// Index converts a coordinate to its row-major cell index.
func Index(x, y, width int) int {
	return y*width + x
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// CellAt returns the cell at (x, y), or nil if out of bounds.
func (g *Grid) CellAt(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.Cells[Index(x, y, g.Width)]
}

// At returns the cell at c, or nil if out of bounds.
func (g *Grid) At(c Coord) *Cell {
	return g.CellAt(c.X, c.Y)
}

// neighborOffsets are the cardinal directions in lookup order.
var neighborOffsets = [4]Coord{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Neighbors4 returns the in-bounds cardinal neighbors of (x, y).
func Neighbors4(x, y, width, height int) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range neighborOffsets {
		nx, ny := x+d.X, y+d.Y
		if nx >= 0 && ny >= 0 && nx < width && ny < height {
			out = append(out, Coord{X: nx, Y: ny})
		}
	}
	return out
}

// Neighbors returns the in-bounds cardinal neighbors of c.
func (g *Grid) Neighbors(c Coord) []Coord {
	return Neighbors4(c.X, c.Y, g.Width, g.Height)
}

// Exits returns every entrance and exit tile.
func (g *Grid) Exits() []Coord {
	var out []Coord
	for i := range g.Cells {
		if k := g.Cells[i].Kind; k == KindEntrance || k == KindExit {
			out = append(out, g.Cells[i].Coord())
		}
	}
	return out
}

// Footprint returns every cell belonging to the building rooted at root.
func (g *Grid) Footprint(root Coord) []Coord {
	var out []Coord
	for i := range g.Cells {
		c := &g.Cells[i]
		if c.Kind != KindGrass && c.BuildingID != "" && c.RootCoord() == root {
			out = append(out, c.Coord())
		}
	}
	return out
}

// Roots returns the root cell of every placed building, in index order.
func (g *Grid) Roots() []*Cell {
	var out []*Cell
	for i := range g.Cells {
		if g.Cells[i].IsRoot && g.Cells[i].BuildingID != "" {
			out = append(out, &g.Cells[i])
		}
	}
	return out
}

// CountKind returns how many cells have kind k.
func (g *Grid) CountKind(k Kind) int {
	n := 0
	for i := range g.Cells {
		if g.Cells[i].Kind == k {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Cells: make([]Cell, len(g.Cells))}
	copy(out.Cells, g.Cells)
	for i := range out.Cells {
		if r := out.Cells[i].Root; r != nil {
			root := *r
			out.Cells[i].Root = &root
		}
	}
	return out
}

// Resize grows the grid to width x height, moving every existing cell by
// (dx, dy). Root references move with their cells. New cells are grass.
func (g *Grid) Resize(width, height, dx, dy int) error {
	if width < g.Width+dx || height < g.Height+dy || dx < 0 || dy < 0 {
		return fmt.Errorf("resize %dx%d by (%d,%d) does not contain %dx%d", width, height, dx, dy, g.Width, g.Height)
	}
	next := New(width, height)
	for i := range g.Cells {
		c := g.Cells[i]
		c.X += dx
		c.Y += dy
		if c.Root != nil {
			moved := c.Root.Add(dx, dy)
			c.Root = &moved
		}
		next.Cells[Index(c.X, c.Y, width)] = c
	}
	*g = *next
	return nil
}

// Rect is an axis-aligned block of cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, buildings=%d)", g.Width, g.Height, g.CountKind(KindBuilding))
}
