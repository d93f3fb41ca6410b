package guests

import (
	"math"

	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

// Spawner creates visitors and workers with unique ids.
type Spawner struct {
	rnd    rng.Source
	types  []catalog.GuestType
	nextID ID
}

// NewSpawner creates a spawner drawing archetypes from types.
func NewSpawner(src rng.Source, types []catalog.GuestType) *Spawner {
	return &Spawner{rnd: src, types: types, nextID: 1}
}

// SetNextID sets the next id to be issued (used when restoring a save).
func (s *Spawner) SetNextID(id ID) {
	s.nextID = id
}

// NextID returns the id the next spawn will get.
func (s *Spawner) NextID() ID {
	return s.nextID
}

func (s *Spawner) issue() ID {
	id := s.nextID
	s.nextID++
	return id
}

// PickType draws a weighted archetype among those the park has unlocked.
// Casual is the fallback when nothing else qualifies.
func (s *Spawner) PickType(attractions int, rating float64) catalog.GuestType {
	var pool []catalog.GuestType
	total := 0
	for _, t := range s.types {
		if t.Unlocked(attractions, rating) && t.Weight > 0 {
			pool = append(pool, t)
			total += t.Weight
		}
	}
	if total == 0 {
		return catalog.GuestType{ID: "casual", SpendingPower: 1, SpeedModifier: 1}
	}
	roll := s.rnd.Intn(total)
	for _, t := range pool {
		if roll < t.Weight {
			return t
		}
		roll -= t.Weight
	}
	return pool[len(pool)-1]
}

// Spawn creates a visitor of archetype t standing on at. Starting cash is
// 10 to 150 scaled by spending power.
func (s *Spawner) Spawn(at grid.Coord, t catalog.GuestType) *Guest {
	g := &Guest{
		ID:            s.issue(),
		Money:         math.Floor(s.rnd.Float64()*141*t.SpendingPower) + 10,
		Happiness:     100,
		Needs:         FullNeeds(),
		Type:          t.ID,
		SpendingPower: t.SpendingPower,
		SpeedModifier: t.SpeedModifier,
	}
	g.Place(at)
	return g
}

// SpawnWorker creates a worker living in the building rooted at home.
func (s *Spawner) SpawnWorker(home grid.Coord) *Guest {
	g := &Guest{
		ID:            s.issue(),
		Happiness:     100,
		Needs:         FullNeeds(),
		Type:          "worker",
		SpendingPower: 0,
		SpeedModifier: 1,
		Worker:        &WorkerState{Home: home},
	}
	g.Place(home)
	return g
}
