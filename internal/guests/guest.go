// Package guests simulates the people in the park: visitors who wander,
// spend, and leave, and maintenance workers who walk to broken buildings.
package guests

import (
	"math"

	"github.com/VirEgo/park-tycoon/internal/grid"
)

// ID uniquely identifies a guest or worker.
type ID = uint64

// State is the coarse activity of an agent.
type State uint8

const (
	StateIdle State = iota
	StateWalking
	StateLeaving
)

var stateNames = [...]string{"idle", "walking", "leaving"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	*s = StateIdle
	return nil
}

// Needs are the five visitor needs, each in [0, 100].
type Needs struct {
	Satiety   float64 `json:"satiety"`
	Hydration float64 `json:"hydration"`
	Energy    float64 `json:"energy"`
	Fun       float64 `json:"fun"`
	Toilet    float64 `json:"toilet"`
}

// FullNeeds returns every need at 100.
func FullNeeds() Needs {
	return Needs{Satiety: 100, Hydration: 100, Energy: 100, Fun: 100, Toilet: 100}
}

// Guest is one agent in the park. Workers carry a non-nil Worker extension
// and skip the visitor needs and mood logic.
type Guest struct {
	ID      ID      `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	TargetX float64 `json:"target_x"`
	TargetY float64 `json:"target_y"`
	State   State   `json:"state"`

	Money     float64 `json:"money"`
	Happiness float64 `json:"happiness"`
	Needs     Needs   `json:"needs"`

	Type          string  `json:"type"`
	SpendingPower float64 `json:"spending_power"`
	SpeedModifier float64 `json:"speed_modifier"`

	WantsToLeave bool        `json:"wants_to_leave"`
	DaysInPark   int         `json:"days_in_park"`
	TicksInPark  int         `json:"ticks_in_park"`
	Visiting     *grid.Coord `json:"visiting,omitempty"` // Root of the building being visited

	Worker *WorkerState `json:"worker,omitempty"`
}

// WorkerState is the staff extension of a Guest.
type WorkerState struct {
	Home grid.Coord  `json:"home"`
	Task *RepairTask `json:"task,omitempty"`
}

// RepairTask is a worker's walk to a building, or back home.
type RepairTask struct {
	Target        grid.Coord   `json:"target"`
	Path          []grid.Coord `json:"path"`
	PathIndex     int          `json:"path_index"`
	ReturningHome bool         `json:"returning_home"`
}

// IsWorker reports whether g is staff.
func (g *Guest) IsWorker() bool {
	return g.Worker != nil
}

// Cell returns the tile g is standing on, rounding its position.
func (g *Guest) Cell() grid.Coord {
	return grid.Coord{X: int(math.Round(g.X)), Y: int(math.Round(g.Y))}
}

// SetTarget points g at a tile and marks it walking.
func (g *Guest) SetTarget(c grid.Coord) {
	g.TargetX = float64(c.X)
	g.TargetY = float64(c.Y)
	g.State = StateWalking
}

// Arrived reports whether g is within a tenth of a tile of its target.
func (g *Guest) Arrived() bool {
	return math.Abs(g.X-g.TargetX) < 0.1 && math.Abs(g.Y-g.TargetY) < 0.1
}

// Step moves g toward its target by speed tiles, snapping when the
// remaining distance is within one step.
func (g *Guest) Step(speed float64) {
	dx := g.TargetX - g.X
	dy := g.TargetY - g.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist <= speed {
		g.X, g.Y = g.TargetX, g.TargetY
		return
	}
	g.X += dx / dist * speed
	g.Y += dy / dist * speed
}

// Place puts g on tile c with no pending movement.
func (g *Guest) Place(c grid.Coord) {
	g.X, g.Y = float64(c.X), float64(c.Y)
	g.TargetX, g.TargetY = g.X, g.Y
}

// Shift moves g and every coordinate it holds by (dx, dy).
func (g *Guest) Shift(dx, dy int) {
	g.X += float64(dx)
	g.Y += float64(dy)
	g.TargetX += float64(dx)
	g.TargetY += float64(dy)
	if g.Visiting != nil {
		v := g.Visiting.Add(dx, dy)
		g.Visiting = &v
	}
	if w := g.Worker; w != nil {
		w.Home = w.Home.Add(dx, dy)
		if t := w.Task; t != nil {
			t.Target = t.Target.Add(dx, dy)
			for i := range t.Path {
				t.Path[i] = t.Path[i].Add(dx, dy)
			}
		}
	}
}

// Clone returns a deep copy of g.
func (g *Guest) Clone() *Guest {
	out := *g
	if g.Visiting != nil {
		v := *g.Visiting
		out.Visiting = &v
	}
	if g.Worker != nil {
		w := *g.Worker
		if w.Task != nil {
			t := *w.Task
			t.Path = append([]grid.Coord(nil), w.Task.Path...)
			w.Task = &t
		}
		out.Worker = &w
	}
	return &out
}
