package guests

import (
	"log/slog"

	"github.com/VirEgo/park-tycoon/internal/grid"
)

// updateWorker walks a worker along its route, repairs on arrival, and
// plans the next route from the scheduler.
func (s *Sim) updateWorker(w *Guest, dt float64) {
	if !w.Arrived() {
		w.Step(s.speed(w) * dt)
		return
	}
	w.X, w.Y = w.TargetX, w.TargetY
	ws := w.Worker

	// Drop a route the scheduler no longer backs.
	if t := ws.Task; t != nil {
		cur, assigned := s.Maintenance.Assignment(w.ID)
		if t.ReturningHome && assigned {
			ws.Task = nil
		} else if !t.ReturningHome && (!assigned || cur != t.Target) {
			ws.Task = nil
		}
	}

	if t := ws.Task; t != nil {
		if t.PathIndex < len(t.Path)-1 {
			t.PathIndex++
			w.SetTarget(t.Path[t.PathIndex])
			return
		}
		if !t.ReturningHome {
			s.Durability.Repair(t.Target.X, t.Target.Y)
			s.Maintenance.Complete(w.ID, t.Target)
			if c := s.Grid.At(t.Target); c != nil {
				s.notify("Worker #%d repaired %s at %s", w.ID, c.BuildingID, t.Target)
			}
		}
		ws.Task = nil
		w.State = StateIdle
	}

	s.planWorker(w)
}

// workerWalkable accepts roads plus the worker's current, target, and home
// buildings.
func (s *Sim) workerWalkable(w *Guest, target grid.Coord) grid.Predicate {
	var inside *grid.Coord
	if c := s.Grid.At(w.Cell()); c != nil && c.Kind == grid.KindBuilding {
		r := c.RootCoord()
		inside = &r
	}
	home := w.Worker.Home
	return func(c *grid.Cell) bool {
		if c.Kind.Road() {
			return true
		}
		if c.Kind != grid.KindBuilding {
			return false
		}
		r := c.RootCoord()
		return r == target || r == home || (inside != nil && r == *inside)
	}
}

func (s *Sim) atHome(w *Guest) bool {
	c := s.Grid.At(w.Cell())
	return c != nil && c.Kind == grid.KindBuilding && c.RootCoord() == w.Worker.Home
}

func (s *Sim) planWorker(w *Guest) {
	here := w.Cell()
	ws := w.Worker

	if target, ok := s.Maintenance.TaskFor(w.ID); ok {
		path := s.Grid.FindPath(here, s.workerWalkable(w, target), grid.InBuilding(target))
		if path == nil {
			slog.Debug("repair target unreachable, abandoning", "worker", w.ID, "target", target)
			s.Maintenance.Complete(w.ID, target)
			w.State = StateIdle
			return
		}
		ws.Task = &RepairTask{Target: target, Path: path}
		s.follow(w)
		return
	}

	if s.atHome(w) {
		w.State = StateIdle
		return
	}
	path := s.Grid.FindPath(here, s.workerWalkable(w, ws.Home), grid.InBuilding(ws.Home))
	if path == nil {
		w.State = StateIdle
		return
	}
	ws.Task = &RepairTask{Target: ws.Home, Path: path, ReturningHome: true}
	s.follow(w)
}

// follow starts the worker on the first step of its route. A one-tile route
// completes on the next update.
func (s *Sim) follow(w *Guest) {
	t := w.Worker.Task
	if len(t.Path) > 1 {
		t.PathIndex = 1
	}
	w.SetTarget(t.Path[t.PathIndex])
}
