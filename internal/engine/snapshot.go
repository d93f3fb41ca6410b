package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/VirEgo/park-tycoon/internal/casino"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/expansion"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/guests"
	"github.com/VirEgo/park-tycoon/internal/maintenance"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

// SnapshotVersion is bumped when the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the complete saved state of a park.
type Snapshot struct {
	Version        int                              `json:"version"`
	SavedAt        time.Time                        `json:"saved_at"`
	Money          float64                          `json:"money"`
	Day            int                              `json:"day"`
	TickOfDay      int                              `json:"tick_of_day"`
	Tick           uint64                           `json:"tick"`
	Grid           *grid.Grid                       `json:"grid"`
	Guests         []*guests.Guest                  `json:"guests"`
	NextGuestID    guests.ID                        `json:"next_guest_id"`
	EntranceIndex  int                              `json:"entrance_index"`
	LastPayoutDay  int                              `json:"casino_last_payout_day"`
	Paused         bool                             `json:"paused"`
	Closed         bool                             `json:"closed"`
	Casinos        map[grid.Coord]casino.Record     `json:"casinos"`
	Upgrades       map[upgrade.Key]upgrade.Upgrade  `json:"upgrades"`
	Durability     map[grid.Coord]durability.Status `json:"durability"`
	Expansion      *expansion.State                 `json:"expansion"`
	OwnedCosmetics []string                         `json:"owned_cosmetics"`
}

// Snapshot captures the park. The result shares nothing with the live park.
func (p *Park) Snapshot() *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	gs := make([]*guests.Guest, len(p.guests))
	for i, g := range p.guests {
		gs[i] = g.Clone()
	}
	plots := *p.plots
	plots.Plots = append([]expansion.Plot(nil), p.plots.Plots...)
	return &Snapshot{
		Version:        SnapshotVersion,
		SavedAt:        time.Now().UTC(),
		Money:          p.treasury.Balance(),
		Day:            p.day,
		TickOfDay:      p.tickOfDay,
		Tick:           p.tick,
		Grid:           p.grid.Clone(),
		Guests:         gs,
		NextGuestID:    p.spawner.NextID(),
		EntranceIndex:  p.entrance,
		LastPayoutDay:  p.lastPayoutDay,
		Paused:         p.paused,
		Closed:         p.closed,
		Casinos:        p.casino.Export(),
		Upgrades:       p.upgrades.Export(),
		Durability:     p.durability.Export(),
		Expansion:      &plots,
		OwnedCosmetics: append([]string(nil), p.cosmetics...),
	}
}

// Restore replaces the park with s. Workers are sent home and re-registered,
// every broken building is queued for repair, and the id counter moves past
// the highest id in the save.
func (p *Park) Restore(s *Snapshot) error {
	if s == nil || s.Grid == nil {
		return fmt.Errorf("restore: empty snapshot")
	}
	if len(s.Grid.Cells) != s.Grid.Width*s.Grid.Height {
		return fmt.Errorf("restore: grid %dx%d has %d cells", s.Grid.Width, s.Grid.Height, len(s.Grid.Cells))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.grid = s.Grid.Clone()
	p.treasury.Set(s.Money)
	p.day = max(s.Day, 1)
	p.tickOfDay = s.TickOfDay
	p.tick = s.Tick
	p.entrance = s.EntranceIndex
	p.lastPayoutDay = s.LastPayoutDay
	p.paused = s.Paused
	p.closed = s.Closed
	p.cosmetics = append([]string(nil), s.OwnedCosmetics...)
	p.casino.Restore(s.Casinos)
	p.upgrades.Restore(s.Upgrades)
	p.durability.Restore(s.Durability)
	if s.Expansion != nil {
		plots := *s.Expansion
		plots.Plots = append([]expansion.Plot(nil), s.Expansion.Plots...)
		p.plots = &plots
	} else {
		p.plots = expansion.NewState(p.cfg.GridWidth, p.cfg.GridHeight)
	}
	p.maintenance = maintenance.NewScheduler()
	p.wire()

	p.guests = make([]*guests.Guest, 0, len(s.Guests))
	next := s.NextGuestID
	for _, g := range s.Guests {
		g = g.Clone()
		if g.ID >= next {
			next = g.ID + 1
		}
		if g.IsWorker() {
			g.Worker.Task = nil
			g.Place(g.Worker.Home)
			g.State = guests.StateIdle
			p.maintenance.RegisterWorkers(maintenance.Worker{ID: g.ID, Home: g.Worker.Home})
		}
		p.guests = append(p.guests, g)
	}
	p.spawner.SetNextID(max(next, 1))
	p.requestBrokenRepairs()

	slog.Info("park restored",
		"day", p.day,
		"money", p.treasury.Balance(),
		"guests", len(p.guests),
		"size", fmt.Sprintf("%dx%d", p.grid.Width, p.grid.Height),
		"broken", len(p.durability.Broken()),
	)
	return nil
}
