// Package maintenance queues repair work for broken buildings and hands it
// to registered workers. A task is either queued or owned by exactly one
// worker; a worker owns at most one task.
package maintenance

import (
	"sort"

	"github.com/VirEgo/park-tycoon/internal/grid"
)

// Worker registers a staff member and the building it lives in.
type Worker struct {
	ID   uint64
	Home grid.Coord
}

// Scheduler is a FIFO repair queue with two-way assignment indexes.
type Scheduler struct {
	queue      []grid.Coord
	byWorker   map[uint64]grid.Coord
	byBuilding map[grid.Coord]uint64
	homes      map[uint64]grid.Coord
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		byWorker:   make(map[uint64]grid.Coord),
		byBuilding: make(map[grid.Coord]uint64),
		homes:      make(map[uint64]grid.Coord),
	}
}

func (s *Scheduler) queued(key grid.Coord) bool {
	for _, k := range s.queue {
		if k == key {
			return true
		}
	}
	return false
}

func (s *Scheduler) dequeue(key grid.Coord) bool {
	for i, k := range s.queue {
		if k == key {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// RequestRepair enqueues the building at (x, y) unless it is already queued
// or assigned, then offers work to idle workers.
func (s *Scheduler) RequestRepair(x, y int) {
	key := grid.Coord{X: x, Y: y}
	if _, assigned := s.byBuilding[key]; assigned || s.queued(key) {
		return
	}
	s.queue = append(s.queue, key)
	s.AssignAll()
}

// RegisterWorkers adds workers to the pool and hands them queued work.
func (s *Scheduler) RegisterWorkers(ws ...Worker) {
	for _, w := range ws {
		s.homes[w.ID] = w.Home
	}
	s.AssignAll()
}

// UnregisterWorker removes a worker. Its task goes back to the front of the
// queue and is offered to the remaining workers.
func (s *Scheduler) UnregisterWorker(id uint64) {
	if _, ok := s.homes[id]; !ok {
		return
	}
	delete(s.homes, id)
	if key, ok := s.byWorker[id]; ok {
		delete(s.byWorker, id)
		delete(s.byBuilding, key)
		s.queue = append([]grid.Coord{key}, s.queue...)
	}
	s.AssignAll()
}

// UnregisterWorkersByHome removes every worker living in home and returns
// their ids.
func (s *Scheduler) UnregisterWorkersByHome(home grid.Coord) []uint64 {
	var ids []uint64
	for id, h := range s.homes {
		if h == home {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s.UnregisterWorker(id)
	}
	return ids
}

// TaskFor returns the worker's current task, assigning the next queued one
// if it has none. Unregistered workers never receive work.
func (s *Scheduler) TaskFor(id uint64) (grid.Coord, bool) {
	if key, ok := s.byWorker[id]; ok {
		return key, true
	}
	if _, ok := s.homes[id]; !ok || len(s.queue) == 0 {
		return grid.Coord{}, false
	}
	key := s.queue[0]
	s.queue = s.queue[1:]
	s.byWorker[id] = key
	s.byBuilding[key] = id
	return key, true
}

// Assignment returns the worker's current task without assigning one.
func (s *Scheduler) Assignment(id uint64) (grid.Coord, bool) {
	key, ok := s.byWorker[id]
	return key, ok
}

// AssignedWorker returns the worker owning the task for key.
func (s *Scheduler) AssignedWorker(key grid.Coord) (uint64, bool) {
	id, ok := s.byBuilding[key]
	return id, ok
}

// Complete releases the worker's task and gives it the next one.
func (s *Scheduler) Complete(id uint64, key grid.Coord) {
	if cur, ok := s.byWorker[id]; ok && cur == key {
		delete(s.byWorker, id)
		delete(s.byBuilding, key)
	}
	s.TaskFor(id)
}

// MarkRepaired drops any work for the building at (x, y). An assigned
// worker is freed and reassigned.
func (s *Scheduler) MarkRepaired(x, y int) {
	key := grid.Coord{X: x, Y: y}
	s.dequeue(key)
	if id, ok := s.byBuilding[key]; ok {
		delete(s.byBuilding, key)
		delete(s.byWorker, id)
		s.TaskFor(id)
	}
}

// AssignAll hands queued tasks to idle workers in id order.
func (s *Scheduler) AssignAll() {
	if len(s.queue) == 0 {
		return
	}
	ids := make([]uint64, 0, len(s.homes))
	for id := range s.homes {
		if _, busy := s.byWorker[id]; !busy {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if len(s.queue) == 0 {
			return
		}
		s.TaskFor(id)
	}
}

// Registered reports whether the worker is in the pool.
func (s *Scheduler) Registered(id uint64) bool {
	_, ok := s.homes[id]
	return ok
}

// Queue returns the pending tasks in order.
func (s *Scheduler) Queue() []grid.Coord {
	out := make([]grid.Coord, len(s.queue))
	copy(out, s.queue)
	return out
}

// Active returns the number of assigned tasks.
func (s *Scheduler) Active() int {
	return len(s.byWorker)
}

// Shift moves every key by (dx, dy).
func (s *Scheduler) Shift(dx, dy int) {
	for i := range s.queue {
		s.queue[i] = s.queue[i].Add(dx, dy)
	}
	byBuilding := make(map[grid.Coord]uint64, len(s.byBuilding))
	for id, key := range s.byWorker {
		moved := key.Add(dx, dy)
		s.byWorker[id] = moved
		byBuilding[moved] = id
	}
	s.byBuilding = byBuilding
	for id, h := range s.homes {
		s.homes[id] = h.Add(dx, dy)
	}
}
