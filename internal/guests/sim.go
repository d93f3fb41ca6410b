package guests

import (
	"fmt"
	"math"
	"sort"

	"github.com/VirEgo/park-tycoon/internal/casino"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/economy"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/maintenance"
	"github.com/VirEgo/park-tycoon/internal/rng"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

// Default restoration amounts for buildings without a stat value.
const (
	defaultNeedRestore = 20
	defaultFunRestore  = 30
)

// Sim advances agent movement and resolves what happens when an agent
// reaches a tile. It mutates the shared ledgers directly and must be driven
// from a single goroutine.
type Sim struct {
	Grid        *grid.Grid
	Catalog     *catalog.Catalog
	Durability  *durability.Tracker
	Casino      *casino.Ledger
	Upgrades    *upgrade.Registry
	Maintenance *maintenance.Scheduler
	Rand        rng.Source

	Bet       float64 // Stake per casino visit
	BaseSpeed float64 // Tiles per second before the archetype modifier

	OnIncome func(amount float64) // Flat visit charges
	Notify   func(msg string)
}

func (s *Sim) notify(format string, args ...any) {
	if s.Notify != nil {
		s.Notify(fmt.Sprintf(format, args...))
	}
}

func (s *Sim) speed(g *Guest) float64 {
	base := s.BaseSpeed
	if base == 0 {
		base = 1
	}
	return base * g.SpeedModifier
}

// Update moves every agent dt seconds and returns those still in the park.
// The returned slice reuses the backing array of gs.
func (s *Sim) Update(gs []*Guest, dt float64) []*Guest {
	out := gs[:0]
	for _, g := range gs {
		if g.IsWorker() {
			s.updateWorker(g, dt)
			out = append(out, g)
			continue
		}
		if s.updateVisitor(g, dt) {
			out = append(out, g)
		}
	}
	for i := len(out); i < len(gs); i++ {
		gs[i] = nil
	}
	return out
}

// updateVisitor reports false when the visitor leaves the park.
func (s *Sim) updateVisitor(g *Guest, dt float64) bool {
	if !g.Arrived() {
		g.Step(s.speed(g) * dt)
		return true
	}
	g.X, g.Y = g.TargetX, g.TargetY

	here := g.Cell()
	cell := s.Grid.At(here)
	if cell == nil {
		g.State = StateIdle
		return true
	}
	if grid.IsExit(cell) && g.WantsToLeave {
		g.State = StateLeaving
		return false
	}

	if cell.Kind == grid.KindBuilding {
		s.visit(g, cell)
	} else {
		g.Visiting = nil
	}
	s.chooseNext(g, here)
	return true
}

// visit bills a visitor once per continuous stay in a building and applies
// the building's effect.
func (s *Sim) visit(g *Guest, cell *grid.Cell) {
	root := cell.RootCoord()
	if g.Visiting != nil && *g.Visiting == root {
		return
	}
	def, ok := s.Catalog.Building(cell.BuildingID)
	if !ok {
		g.Visiting = nil
		return
	}
	key := upgrade.Key{BuildingID: def.ID, X: root.X, Y: root.Y}
	price := s.Upgrades.ModifiedIncome(key, def.Income)
	if !def.Visitable || !def.AllowedOnPath || s.Durability.IsBroken(root.X, root.Y) || g.Money < price {
		g.Visiting = nil
		return
	}

	g.Visiting = &root
	if s.Durability.RecordVisit(root.X, root.Y) {
		s.Maintenance.RequestRepair(root.X, root.Y)
		g.WantsToLeave = true
		s.notify("%s at %s broke down", def.Name, root)
	}

	if def.Gambling {
		s.gamble(g, root, def)
	} else {
		g.Money -= price
		if s.OnIncome != nil {
			s.OnIncome(price)
		}
	}

	if def.Category == catalog.CategoryAttraction {
		Restore(g, catalog.NeedFun, s.Upgrades.ModifiedSatisfaction(key, orDefault(def.StatValue, defaultFunRestore)))
	}
	if def.Satisfies != catalog.NeedNone && !(def.Category == catalog.CategoryAttraction && def.Satisfies == catalog.NeedFun) {
		Restore(g, def.Satisfies, s.Upgrades.ModifiedSatisfaction(key, orDefault(def.StatValue, defaultNeedRestore)))
	}
}

func (s *Sim) gamble(g *Guest, root grid.Coord, def *catalog.Building) {
	if g.Money < s.Bet {
		return
	}
	g.Money -= s.Bet
	res := s.Casino.Bet(root.X, root.Y, g.ID, s.Bet)
	g.Money += res.Payout
	if c := s.Grid.At(root); c != nil {
		c.Payload = grid.GamblingBank(res.BankAfter)
	}
	if res.Outcome == casino.TxWin {
		s.notify("Jackpot! Guest #%d won %s at %s", g.ID, economy.Format(res.Payout), def.Name)
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// open reports whether visitors may walk onto a building cell.
func (s *Sim) open(c *grid.Cell) bool {
	def, ok := s.Catalog.Building(c.BuildingID)
	if !ok {
		return false
	}
	root := c.RootCoord()
	return def.Visitable && def.AllowedOnPath && !s.Durability.IsBroken(root.X, root.Y)
}

// visitorWalkable accepts roads, open buildings, and any cell of the
// building the visitor is standing in.
func (s *Sim) visitorWalkable(here grid.Coord) grid.Predicate {
	var inside *grid.Coord
	if c := s.Grid.At(here); c != nil && c.Kind == grid.KindBuilding {
		r := c.RootCoord()
		inside = &r
	}
	return func(c *grid.Cell) bool {
		if c.Kind.Road() {
			return true
		}
		if c.Kind != grid.KindBuilding {
			return false
		}
		if inside != nil && c.RootCoord() == *inside {
			return true
		}
		return s.open(c)
	}
}

func (s *Sim) chooseNext(g *Guest, here grid.Coord) {
	if g.WantsToLeave {
		if next, ok := s.exitStep(here); ok {
			g.SetTarget(next)
			return
		}
	}

	walkable := s.visitorWalkable(here)
	var options []grid.Coord
	for _, n := range s.Grid.Neighbors(here) {
		if walkable(s.Grid.At(n)) {
			options = append(options, n)
		}
	}
	if len(options) == 0 {
		g.State = StateIdle
		return
	}
	if g.WantsToLeave {
		s.sortTowardExit(options, here)
		g.SetTarget(options[0])
		return
	}
	g.SetTarget(options[s.Rand.Intn(len(options))])
}

// exitStep returns the next tile on the shortest way out: to the nearest
// road when inside a building, else along roads to the nearest exit.
func (s *Sim) exitStep(here grid.Coord) (grid.Coord, bool) {
	cell := s.Grid.At(here)
	if cell == nil {
		return grid.Coord{}, false
	}
	var path []grid.Coord
	if cell.Kind == grid.KindBuilding {
		path = s.Grid.FindPath(here, grid.InBuilding(cell.RootCoord()), grid.IsRoad)
	} else {
		path = s.Grid.FindPath(here, grid.IsRoad, grid.IsExit)
	}
	if len(path) < 2 {
		return grid.Coord{}, false
	}
	return path[1], true
}

func (s *Sim) sortTowardExit(options []grid.Coord, here grid.Coord) {
	exits := s.Grid.Exits()
	if len(exits) == 0 {
		return
	}
	nearest := exits[0]
	best := math.Inf(1)
	for _, e := range exits {
		if d := dist(e, here); d < best {
			best, nearest = d, e
		}
	}
	sort.SliceStable(options, func(i, j int) bool {
		return dist(options[i], nearest) < dist(options[j], nearest)
	})
}

func dist(a, b grid.Coord) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
