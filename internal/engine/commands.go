package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/VirEgo/park-tycoon/internal/build"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/economy"
	"github.com/VirEgo/park-tycoon/internal/expansion"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/guests"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

// Code classifies a command result.
type Code string

const (
	CodeOK                Code = "ok"
	CodeInsufficientFunds Code = "insufficient_funds"
	CodeInvalidPlacement  Code = "invalid_placement"
	CodeNotFound          Code = "not_found"
	CodeMaxLevel          Code = "max_level"
	CodeRequirement       Code = "requirement"
	CodeNotAllowed        Code = "not_allowed"
)

// Result is the outcome of a player command. Failures are ordinary game
// conditions and leave the park unchanged.
type Result struct {
	Success bool    `json:"success"`
	Cost    float64 `json:"cost,omitempty"`
	Message string  `json:"message"`
	Code    Code    `json:"code"`
}

func succeed(cost float64, format string, args ...any) Result {
	return Result{Success: true, Cost: cost, Message: fmt.Sprintf(format, args...), Code: CodeOK}
}

func fail(code Code, format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...), Code: code}
}

func (p *Park) insufficient(cost float64) Result {
	r := fail(CodeInsufficientFunds, "insufficient funds: need %s", economy.Format(cost))
	r.Cost = cost
	p.notify(r.Message)
	return r
}

// building resolves (x, y) to the root and definition of the building on it.
func (p *Park) building(x, y int) (grid.Coord, *catalog.Building, bool) {
	c := p.grid.CellAt(x, y)
	if c == nil || c.Kind != grid.KindBuilding {
		return grid.Coord{}, nil, false
	}
	def, ok := p.cat.Building(c.BuildingID)
	if !ok {
		return grid.Coord{}, nil, false
	}
	return c.RootCoord(), def, true
}

// Place builds id with its origin at (x, y).
func (p *Park) Place(id string, x, y int) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	def, found := p.cat.Building(id)
	if !found || def.Hidden {
		return fail(CodeNotFound, "unknown building %q", id)
	}
	if !build.CheckPlacement(p.grid, x, y, def) {
		p.notify("Can't build here!")
		return fail(CodeInvalidPlacement, "cannot place %s at %d,%d", def.Name, x, y)
	}
	if !p.treasury.Debit(def.Price, economy.ReasonBuild) {
		return p.insufficient(def.Price)
	}

	root := p.builder.Place(p.grid, x, y, def)
	p.spawnWorkers(root, def.Workers)
	if p.grid.At(root).Kind.Road() {
		// New road may open a route to a building a worker gave up on.
		p.requestBrokenRepairs()
	}
	slog.Info("building placed", "building", def.ID, "x", x, "y", y, "price", def.Price)
	return succeed(def.Price, "built %s", def.Name)
}

// Demolish clears whatever occupies (x, y). The entrance and natural
// features cannot be removed.
func (p *Park) Demolish(x, y int) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := p.grid.CellAt(x, y)
	switch {
	case c == nil || c.Kind == grid.KindGrass:
		return fail(CodeNotFound, "nothing to demolish at %d,%d", x, y)
	case c.Kind == grid.KindEntrance:
		p.notify("The entrance cannot be demolished!")
		return fail(CodeNotAllowed, "the entrance cannot be demolished")
	case c.Terrain.Blocks():
		p.notify("This land cannot be changed")
		return fail(CodeNotAllowed, "protected terrain at %d,%d", x, y)
	}
	if def, found := p.cat.Building(c.BuildingID); found && def.Protected {
		p.notify("This land cannot be changed")
		return fail(CodeNotAllowed, "%s cannot be demolished", def.Name)
	}

	cost := p.cfg.Gameplay.DemolishCost
	if !p.treasury.Debit(cost, economy.ReasonDemolish) {
		return p.insufficient(cost)
	}

	root := c.RootCoord()
	if def, found := p.cat.Building(c.BuildingID); found && def.Workers > 0 {
		p.dismissWorkers(root)
	}
	p.maintenance.MarkRepaired(root.X, root.Y)
	p.dropTasksFor(root)
	removed, _ := p.builder.Remove(p.grid, x, y)
	slog.Info("building demolished", "building", removed.BuildingID, "root", removed.Root, "cells", removed.Cells)
	return succeed(cost, "demolished %s", removed.BuildingID)
}

// dismissWorkers removes every worker living at home.
func (p *Park) dismissWorkers(home grid.Coord) {
	ids := p.maintenance.UnregisterWorkersByHome(home)
	gone := make(map[guests.ID]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	kept := p.guests[:0]
	for _, g := range p.guests {
		if g.IsWorker() && (gone[g.ID] || g.Worker.Home == home) {
			continue
		}
		kept = append(kept, g)
	}
	for i := len(kept); i < len(p.guests); i++ {
		p.guests[i] = nil
	}
	p.guests = kept
	slog.Info("workers dismissed", "home", home, "count", len(ids))
}

// dropTasksFor clears any worker route into root and any visit marker on it.
func (p *Park) dropTasksFor(root grid.Coord) {
	for _, g := range p.guests {
		if g.Visiting != nil && *g.Visiting == root {
			g.Visiting = nil
		}
		if !g.IsWorker() || g.Worker.Task == nil {
			continue
		}
		if t := g.Worker.Task; !t.ReturningHome && t.Target == root {
			g.Worker.Task = nil
			g.Place(g.Cell())
			g.State = guests.StateIdle
		}
	}
}

func (p *Park) upgradeKey(x, y int) (upgrade.Key, *catalog.Building, bool) {
	root, def, found := p.building(x, y)
	if !found {
		return upgrade.Key{}, nil, false
	}
	return upgrade.Key{BuildingID: def.ID, X: root.X, Y: root.Y}, def, true
}

func upgradeCode(r upgrade.Reason) Code {
	switch r {
	case upgrade.ReasonMaxLevel:
		return CodeMaxLevel
	case upgrade.ReasonInsufficientFunds:
		return CodeInsufficientFunds
	case upgrade.ReasonRequirement:
		return CodeRequirement
	case upgrade.ReasonNotAllowed:
		return CodeNotAllowed
	default:
		return CodeNotFound
	}
}

// Upgrade raises the building at (x, y) one level. A successful upgrade
// also repairs the building and raises its durability.
func (p *Park) Upgrade(x, y int) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, def, found := p.upgradeKey(x, y)
	if !found {
		return fail(CodeNotFound, "no building at %d,%d", x, y)
	}
	before := p.workersFor(def, grid.Coord{X: key.X, Y: key.Y})
	res := p.upgrades.Upgrade(key, p.treasury.Balance())
	if !res.Success {
		if res.Reason == upgrade.ReasonInsufficientFunds {
			p.notify(res.Message)
		}
		return Result{Cost: res.Cost, Message: res.Message, Code: upgradeCode(res.Reason)}
	}
	p.treasury.Debit(res.Cost, economy.ReasonUpgrade)

	p.durability.Repair(key.X, key.Y)
	p.maintenance.MarkRepaired(key.X, key.Y)
	p.durability.SetMaxVisits(key.X, key.Y, maxVisitsAt(def, res.Level))

	root := grid.Coord{X: key.X, Y: key.Y}
	if extra := p.workersFor(def, root) - before; extra > 0 {
		p.spawnWorkers(root, extra)
	}
	p.notify(fmt.Sprintf("%s improved to level %d", def.Name, res.Level))
	slog.Info("building upgraded", "key", key, "level", res.Level, "cost", res.Cost)
	return succeed(res.Cost, "%s", res.Message)
}

// maxVisitsAt grows the durability threshold by a quarter per level.
func maxVisitsAt(def *catalog.Building, level int) int {
	base := float64(def.DurabilityThreshold())
	return int(math.Floor(base * (1 + 0.25*float64(level-1))))
}

// ApplyTheme sets the theme of the building at (x, y).
func (p *Park) ApplyTheme(x, y int, theme string) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, def, found := p.upgradeKey(x, y)
	if !found {
		return fail(CodeNotFound, "no building at %d,%d", x, y)
	}
	res := p.upgrades.ApplyTheme(key, theme, p.treasury.Balance())
	if !res.Success {
		if res.Reason == upgrade.ReasonInsufficientFunds {
			p.notify(res.Message)
		}
		return Result{Cost: res.Cost, Message: res.Message, Code: upgradeCode(res.Reason)}
	}
	p.treasury.Debit(res.Cost, economy.ReasonTheme)
	p.notify(fmt.Sprintf("%s themed %q", def.Name, theme))
	return succeed(res.Cost, "%s", res.Message)
}

func (p *Park) repairCost(key upgrade.Key, def *catalog.Building) float64 {
	return durability.RepairCost(def.Price, p.upgrades.Level(key))
}

// Repair fixes the broken building at (x, y) immediately.
func (p *Park) Repair(x, y int) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, def, found := p.upgradeKey(x, y)
	if !found {
		return fail(CodeNotFound, "no building at %d,%d", x, y)
	}
	if !p.durability.IsBroken(key.X, key.Y) {
		return fail(CodeNotAllowed, "%s is not broken", def.Name)
	}
	cost := p.repairCost(key, def)
	if !p.treasury.Debit(cost, economy.ReasonRepair) {
		return p.insufficient(cost)
	}
	p.durability.Repair(key.X, key.Y)
	p.maintenance.MarkRepaired(key.X, key.Y)
	p.notify(fmt.Sprintf("%s repaired", def.Name))
	return succeed(cost, "repaired %s", def.Name)
}

// RepairAll fixes every broken building, or none if the total is not
// affordable.
func (p *Park) RepairAll() Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	type job struct {
		key  upgrade.Key
		cost float64
	}
	var jobs []job
	total := 0.0
	for _, c := range p.durability.Broken() {
		key, def, found := p.upgradeKey(c.X, c.Y)
		if !found {
			continue
		}
		cost := p.repairCost(key, def)
		jobs = append(jobs, job{key, cost})
		total += cost
	}
	if len(jobs) == 0 {
		p.notify("No broken buildings")
		return fail(CodeNotFound, "no broken buildings")
	}
	if !p.treasury.Debit(total, economy.ReasonRepair) {
		return p.insufficient(total)
	}
	for _, j := range jobs {
		p.durability.Repair(j.key.X, j.key.Y)
		p.maintenance.MarkRepaired(j.key.X, j.key.Y)
	}
	p.notify(fmt.Sprintf("Repaired %d buildings for %s", len(jobs), economy.Format(total)))
	return succeed(total, "repaired %d buildings", len(jobs))
}

// TogglePause flips the pause gate and returns the new state.
func (p *Park) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	slog.Info("pause toggled", "paused", p.paused)
	return p.paused
}

// SetOpen opens or closes the gates. A closed park spawns no visitors.
func (p *Park) SetOpen(open bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed == !open {
		return
	}
	p.closed = !open
	if open {
		p.notify("Park opened!")
	} else {
		p.notify("Park closed!")
	}
}

// PurchasePlot buys a land plot and grows the park onto it.
func (p *Park) PurchasePlot(id string) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	growth, err := p.plots.Purchase(id, p.treasury.Balance())
	var fe *expansion.FundsError
	switch {
	case errors.As(err, &fe):
		return p.insufficient(fe.Price)
	case errors.Is(err, expansion.ErrOwned):
		return fail(CodeNotAllowed, "plot %q already purchased", id)
	case err != nil:
		return fail(CodeNotFound, "plot %q not found", id)
	}
	price := growth.Plot.Price
	p.treasury.Debit(price, economy.ReasonExpansion)

	if err := p.grow(growth); err != nil {
		slog.Error("grow park", "plot", id, "error", err)
	}
	p.notify(fmt.Sprintf("Plot %q purchased for %s", id, economy.Format(price)))
	return succeed(price, "purchased %s", id)
}

// grow resizes the grid for a purchase, shifting everything already placed,
// and seeds the new plot's scenery.
func (p *Park) grow(g expansion.Growth) error {
	entrance := grid.Coord{X: -1}
	if p.entrance >= 0 && p.entrance < len(p.grid.Cells) {
		entrance = p.grid.Cells[p.entrance].Coord()
	}
	if err := p.grid.Resize(g.Width, g.Height, g.DX, g.DY); err != nil {
		return err
	}
	if g.DX != 0 || g.DY != 0 {
		p.durability.Shift(g.DX, g.DY)
		p.casino.Shift(g.DX, g.DY)
		p.upgrades.Shift(g.DX, g.DY)
		p.maintenance.Shift(g.DX, g.DY)
		for _, gs := range p.guests {
			gs.Shift(g.DX, g.DY)
		}
	}
	if entrance.X >= 0 {
		moved := entrance.Add(g.DX, g.DY)
		p.entrance = grid.Index(moved.X, moved.Y, p.grid.Width)
	}
	n := p.seeder.Seed(p.grid, g.Area, g.Plot.Terrain)
	slog.Info("park expanded", "plot", g.Plot.ID, "size", fmt.Sprintf("%dx%d", g.Width, g.Height), "shift", fmt.Sprintf("%d,%d", g.DX, g.DY), "features", n)
	return nil
}
