// Package expansion sells the land plots around the starting park and
// works out how the grid grows when one is bought.
package expansion

import (
	"errors"
	"fmt"
	"math"

	"github.com/VirEgo/park-tycoon/internal/economy"
	"github.com/VirEgo/park-tycoon/internal/grid"
)

// PriceMultiplier raises every unsold plot's price after each purchase.
const PriceMultiplier = 1.5

var (
	ErrUnknownPlot = errors.New("plot not found")
	ErrOwned       = errors.New("plot already purchased")
)

// FundsError reports a purchase the treasury cannot cover.
type FundsError struct {
	Price float64
}

func (e *FundsError) Error() string {
	return fmt.Sprintf("not enough money: need %s", economy.Format(e.Price))
}

// Plot is a block of land adjacent to the starting field. GridX and GridY
// are in plot units relative to it; (1, 0) is directly east.
type Plot struct {
	ID        string       `json:"id"`
	GridX     int          `json:"grid_x"`
	GridY     int          `json:"grid_y"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	BasePrice float64      `json:"base_price"`
	Price     float64      `json:"price"`
	Purchased bool         `json:"purchased"`
	Terrain   grid.Terrain `json:"terrain"`
}

// DefaultPlots returns the six plots on sale at the start of a game.
func DefaultPlots() []Plot {
	mk := func(id string, gx, gy int, price float64, t grid.Terrain) Plot {
		return Plot{ID: id, GridX: gx, GridY: gy, Width: 20, Height: 15, BasePrice: price, Price: price, Terrain: t}
	}
	return []Plot{
		mk("plot-east-1", 1, 0, 5000, grid.TerrainGrass),
		mk("plot-west-1", -1, 0, 5000, grid.TerrainGrass),
		mk("plot-north-1", 0, -1, 5000, grid.TerrainForest),
		mk("plot-south-1", 0, 1, 5000, grid.TerrainGrass),
		mk("plot-northeast-1", 1, -1, 8000, grid.TerrainMountain),
		mk("plot-southeast-1", 1, 1, 8000, grid.TerrainWater),
	}
}

// PriceFor is the price of a plot after purchased earlier sales.
func PriceFor(base float64, purchased int) float64 {
	return math.Floor(base * math.Pow(PriceMultiplier, float64(purchased)))
}

// State tracks plot ownership. BaseWidth and BaseHeight are the size of the
// starting field, which is also the plot stride.
type State struct {
	Plots          []Plot  `json:"plots"`
	PurchasedCount int     `json:"purchased_count"`
	TotalSpent     float64 `json:"total_spent"`
	BaseWidth      int     `json:"base_width"`
	BaseHeight     int     `json:"base_height"`
}

// NewState puts the default plots on sale around a width x height field.
func NewState(width, height int) *State {
	return &State{Plots: DefaultPlots(), BaseWidth: width, BaseHeight: height}
}

// Plot returns the plot with the given id.
func (s *State) Plot(id string) (*Plot, bool) {
	for i := range s.Plots {
		if s.Plots[i].ID == id {
			return &s.Plots[i], true
		}
	}
	return nil, false
}

// Available returns the unsold plots.
func (s *State) Available() []Plot {
	var out []Plot
	for _, p := range s.Plots {
		if !p.Purchased {
			out = append(out, p)
		}
	}
	return out
}

// Growth describes how the grid changes for a purchase: the new size, the
// offset applied to everything already placed, and where the new plot sits
// in the resized grid.
type Growth struct {
	Width, Height int
	DX, DY        int
	Area          grid.Rect
	Plot          Plot
}

type bounds struct{ minX, minY, maxX, maxY int }

func (s *State) bounds() bounds {
	b := bounds{0, 0, s.BaseWidth, s.BaseHeight}
	for _, p := range s.Plots {
		if !p.Purchased {
			continue
		}
		x, y := p.GridX*s.BaseWidth, p.GridY*s.BaseHeight
		b.minX = min(b.minX, x)
		b.minY = min(b.minY, y)
		b.maxX = max(b.maxX, x+p.Width)
		b.maxY = max(b.maxY, y+p.Height)
	}
	return b
}

// Purchase sells plot id for money and reprices the rest. It returns a
// *FundsError when money is short, leaving the state unchanged.
func (s *State) Purchase(id string, money float64) (Growth, error) {
	p, ok := s.Plot(id)
	if !ok {
		return Growth{}, ErrUnknownPlot
	}
	if p.Purchased {
		return Growth{}, ErrOwned
	}
	if money < p.Price {
		return Growth{}, &FundsError{Price: p.Price}
	}

	old := s.bounds()
	p.Purchased = true
	paid := p.Price
	s.PurchasedCount++
	s.TotalSpent += paid
	for i := range s.Plots {
		s.Plots[i].Price = PriceFor(s.Plots[i].BasePrice, s.PurchasedCount)
	}
	next := s.bounds()

	g := Growth{
		Width:  next.maxX - next.minX,
		Height: next.maxY - next.minY,
		DX:     old.minX - next.minX,
		DY:     old.minY - next.minY,
		Plot:   *p,
	}
	g.Plot.Price = paid
	g.Area = grid.Rect{
		X: p.GridX*s.BaseWidth - next.minX,
		Y: p.GridY*s.BaseHeight - next.minY,
		W: p.Width,
		H: p.Height,
	}
	return g, nil
}

// Size returns the grid dimensions implied by the purchased plots.
func (s *State) Size() (width, height int) {
	b := s.bounds()
	return b.maxX - b.minX, b.maxY - b.minY
}
