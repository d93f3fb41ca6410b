// Package grid provides the park's rectangular tile grid, cell kinds,
// terrain tags, and spatial queries.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is an integer tile position. It marshals as "x,y" so it can key
// JSON maps directly.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// MarshalText implements encoding.TextMarshaler.
func (c Coord) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Coord) UnmarshalText(b []byte) error {
	parsed, err := ParseCoord(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoord parses an "x,y" coordinate key.
func ParseCoord(s string) (Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("coord %q: missing comma", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Coord{}, fmt.Errorf("coord %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Coord{}, fmt.Errorf("coord %q: %w", s, err)
	}
	return Coord{X: x, Y: y}, nil
}

// Add returns c shifted by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Kind is what occupies a cell.
type Kind uint8

const (
	KindGrass Kind = iota
	KindPath
	KindEntrance
	KindExit
	KindBuilding
)

var kindNames = [...]string{"grass", "path", "entrance", "exit", "building"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cell kind %q", b)
}

// Road reports whether guests may always walk on this kind.
func (k Kind) Road() bool {
	return k == KindPath || k == KindEntrance || k == KindExit
}

// Terrain tags the ground under a cell.
type Terrain uint8

const (
	TerrainGrass    Terrain = iota // Buildable
	TerrainForest                  // Buildable, seeded with trees
	TerrainMountain                // Blocks building
	TerrainWater                   // Blocks building
)

var terrainNames = [...]string{"grass", "forest", "mountain", "water"}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

func (t Terrain) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Terrain) UnmarshalText(b []byte) error {
	for i, name := range terrainNames {
		if name == string(b) {
			*t = Terrain(i)
			return nil
		}
	}
	return fmt.Errorf("unknown terrain %q", b)
}

// Blocks reports whether nothing may be built on this terrain.
func (t Terrain) Blocks() bool {
	return t == TerrainMountain || t == TerrainWater
}

// PayloadKind discriminates Payload.
type PayloadKind uint8

const (
	PayloadNone PayloadKind = iota
	PayloadGamblingBank
)

// Payload is per-cell data owned by the building on it.
type Payload struct {
	Kind PayloadKind `json:"kind"`
	Bank float64     `json:"bank,omitempty"`
}

// GamblingBank returns a payload carrying a casino bank amount.
func GamblingBank(amount float64) Payload {
	return Payload{Kind: PayloadGamblingBank, Bank: amount}
}

// GamblingBank returns the bank amount, if the payload carries one.
func (p Payload) GamblingBank() (float64, bool) {
	if p.Kind != PayloadGamblingBank {
		return 0, false
	}
	return p.Bank, true
}

// Cell is a single grid tile.
type Cell struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Kind       Kind    `json:"kind"`
	BuildingID string  `json:"building_id,omitempty"`
	Root       *Coord  `json:"root,omitempty"` // Set on non-root footprint cells
	IsRoot     bool    `json:"is_root,omitempty"`
	Terrain    Terrain `json:"terrain"`
	Payload    Payload `json:"payload"`
}

// Coord returns the cell position.
func (c *Cell) Coord() Coord {
	return Coord{X: c.X, Y: c.Y}
}

// RootCoord resolves the root of the building occupying this cell. Cells
// without a root reference resolve to themselves.
func (c *Cell) RootCoord() Coord {
	if c.IsRoot || c.Root == nil {
		return c.Coord()
	}
	return *c.Root
}

// Clear resets the cell to grass, keeping its position and terrain.
func (c *Cell) Clear() {
	*c = Cell{X: c.X, Y: c.Y, Kind: KindGrass, Terrain: c.Terrain}
}
