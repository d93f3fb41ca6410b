package grid

import (
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainField samples layered simplex noise in [0, 1] for scenery placement.
type TerrainField struct {
	noise opensimplex.Noise
}

// NewTerrainField creates a noise field for the given seed.
func NewTerrainField(seed int64) *TerrainField {
	return &TerrainField{noise: opensimplex.NewNormalized(seed)}
}

// At returns the field value at a tile.
func (f *TerrainField) At(x, y int) float64 {
	return octaveNoise(f.noise, float64(x), float64(y), 3, 0.12, 0.5)
}

// Ranked returns every position inside r ordered by descending noise, so
// scenery clusters where the field peaks. Ties keep row-major order.
func (f *TerrainField) Ranked(r Rect) []Coord {
	type scored struct {
		c Coord
		v float64
	}
	all := make([]scored, 0, r.W*r.H)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			all = append(all, scored{Coord{X: x, Y: y}, f.At(x, y)})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].v > all[j].v })

	out := make([]Coord, len(all))
	for i, s := range all {
		out[i] = s.c
	}
	return out
}

// Paint tags every cell of r with terrain t.
func (g *Grid) Paint(r Rect, t Terrain) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if c := g.CellAt(x, y); c != nil {
				c.Terrain = t
			}
		}
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
