// Package durability tracks per-building wear. Every qualifying guest visit
// counts against a threshold; reaching it breaks the building until repair.
package durability

import (
	"math"
	"sort"

	"github.com/VirEgo/park-tycoon/internal/grid"
)

// Status is the wear state of one building, keyed by its root cell.
type Status struct {
	Visits      int  `json:"visits"`
	MaxVisits   int  `json:"max_visits"`
	Broken      bool `json:"broken"`
	TotalVisits int  `json:"total_visits"`
	// Serviced is set by a repair; the next visit cannot break the building
	// whatever its threshold.
	Serviced bool `json:"serviced,omitempty"`
}

// Tracker holds wear state for every placed building.
type Tracker struct {
	statuses   map[grid.Coord]*Status
	defaultMax int
}

// NewTracker creates a tracker. defaultMax applies to statuses created
// implicitly by RecordVisit.
func NewTracker(defaultMax int) *Tracker {
	return &Tracker{statuses: make(map[grid.Coord]*Status), defaultMax: defaultMax}
}

// Init creates or resets the status at (x, y).
func (t *Tracker) Init(x, y, maxVisits int) {
	t.statuses[grid.Coord{X: x, Y: y}] = &Status{MaxVisits: maxVisits}
}

// RecordVisit counts a visit and reports whether the building is broken
// because of it. A building that is already broken returns true and is not
// counted again. The first visit after a repair never breaks it, at any
// threshold, so a repaired building always survives at least one visit
// before it can break again.
func (t *Tracker) RecordVisit(x, y int) bool {
	s, ok := t.statuses[grid.Coord{X: x, Y: y}]
	if !ok {
		t.Init(x, y, t.defaultMax)
		return false
	}
	if s.Broken {
		return true
	}
	s.Visits++
	s.TotalVisits++
	if s.Serviced {
		s.Serviced = false
		return false
	}
	if s.Visits >= s.MaxVisits {
		s.Broken = true
		return true
	}
	return false
}

// Repair clears wear on the building at (x, y).
func (t *Tracker) Repair(x, y int) {
	if s, ok := t.statuses[grid.Coord{X: x, Y: y}]; ok {
		s.Visits = 0
		s.Broken = false
		s.Serviced = true
	}
}

// IsBroken reports whether the building at (x, y) is out of service.
func (t *Tracker) IsBroken(x, y int) bool {
	s, ok := t.statuses[grid.Coord{X: x, Y: y}]
	return ok && s.Broken
}

// SetMaxVisits changes the threshold, breaking the building if it is
// already over it.
func (t *Tracker) SetMaxVisits(x, y, maxVisits int) {
	s, ok := t.statuses[grid.Coord{X: x, Y: y}]
	if !ok {
		return
	}
	s.MaxVisits = maxVisits
	if s.Visits >= maxVisits {
		s.Broken = true
	}
}

// Get returns a copy of the status at (x, y).
func (t *Tracker) Get(x, y int) (Status, bool) {
	s, ok := t.statuses[grid.Coord{X: x, Y: y}]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// Remove drops the status at (x, y).
func (t *Tracker) Remove(x, y int) {
	delete(t.statuses, grid.Coord{X: x, Y: y})
}

// Broken lists every broken building root in row-major order.
func (t *Tracker) Broken() []grid.Coord {
	var out []grid.Coord
	for c, s := range t.statuses {
		if s.Broken {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Export returns a copy of every status.
func (t *Tracker) Export() map[grid.Coord]Status {
	out := make(map[grid.Coord]Status, len(t.statuses))
	for c, s := range t.statuses {
		out[c] = *s
	}
	return out
}

// Restore replaces all statuses.
func (t *Tracker) Restore(in map[grid.Coord]Status) {
	t.statuses = make(map[grid.Coord]*Status, len(in))
	for c, s := range in {
		s := s
		t.statuses[c] = &s
	}
}

// Shift moves every key by (dx, dy).
func (t *Tracker) Shift(dx, dy int) {
	moved := make(map[grid.Coord]*Status, len(t.statuses))
	for c, s := range t.statuses {
		moved[c.Add(dx, dy)] = s
	}
	t.statuses = moved
}

// repairPercent maps upgrade level to repair price as a share of the
// building price.
var repairPercent = map[int]int{1: 25, 2: 60, 3: 90, 4: 110, 5: 150}

// RepairCost returns the price to repair a building of the given level,
// rounded up to a whole unit.
func RepairCost(basePrice float64, level int) float64 {
	pct, ok := repairPercent[level]
	if !ok {
		pct = repairPercent[1]
		if level > 5 {
			pct = repairPercent[5]
		}
	}
	return math.Ceil(basePrice * float64(pct) / 100)
}
