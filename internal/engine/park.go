package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/VirEgo/park-tycoon/internal/build"
	"github.com/VirEgo/park-tycoon/internal/casino"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/config"
	"github.com/VirEgo/park-tycoon/internal/durability"
	"github.com/VirEgo/park-tycoon/internal/economy"
	"github.com/VirEgo/park-tycoon/internal/expansion"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/guests"
	"github.com/VirEgo/park-tycoon/internal/maintenance"
	"github.com/VirEgo/park-tycoon/internal/rng"
	"github.com/VirEgo/park-tycoon/internal/upgrade"
)

// Park holds the complete park state and wires the subsystems together.
// Every exported method takes the park lock, so the HTTP surface and the
// engine loop can share one Park.
type Park struct {
	mu sync.Mutex

	cfg config.Config
	cat *catalog.Catalog
	rnd rng.Source

	grid        *grid.Grid
	durability  *durability.Tracker
	casino      *casino.Ledger
	upgrades    *upgrade.Registry
	maintenance *maintenance.Scheduler
	treasury    *economy.Treasury
	plots       *expansion.State

	builder *build.Builder
	spawner *guests.Spawner
	sim     *guests.Sim
	seeder  *expansion.Seeder
	notes   *Notifier

	guests        []*guests.Guest
	tick          uint64
	tickOfDay     int
	day           int
	lastPayoutDay int
	entrance      int // Index of the entrance cell, -1 when there is none
	paused        bool
	closed        bool
	cosmetics     []string

	decay guests.DecayRates
	mood  guests.MoodRules
}

// NewPark creates a fresh park. A nil src seeds randomness from cfg.Seed.
func NewPark(cfg config.Config, cat *catalog.Catalog, src rng.Source) *Park {
	if src == nil {
		src = rng.New(cfg.Seed)
	}
	gp := cfg.Gameplay
	p := &Park{
		cfg:   cfg,
		cat:   cat,
		rnd:   src,
		notes: NewNotifier(200),
		decay: guests.DefaultDecay,
		mood: guests.MoodRules{
			MaxDays:        gp.MaxDaysInPark,
			LowNeed:        gp.LowNeedThreshold,
			LowNeedCount:   gp.LowNeedCount,
			MinHappiness:   gp.MinHappiness,
			MinMoneyToStay: gp.MinMoneyToStay,
		},
	}
	p.durability = durability.NewTracker(catalog.DefaultMaxVisits)
	p.casino = casino.NewLedger(casino.Config{
		InitialBank: gp.CasinoInitialBank,
		MaxHistory:  gp.CasinoHistory,
		Winning:     gp.CasinoRedNumbers,
		Pockets:     37,
	}, src)
	p.upgrades = upgrade.NewRegistry(cat)
	p.maintenance = maintenance.NewScheduler()
	p.treasury = economy.NewTreasury(cfg.StartMoney)
	p.spawner = guests.NewSpawner(src, cat.GuestTypes)
	p.reset()
	return p
}

// wire points the helpers at the current subsystems.
func (p *Park) wire() {
	p.builder = &build.Builder{Durability: p.durability, Casino: p.casino, Upgrades: p.upgrades}
	p.sim = &guests.Sim{
		Grid:        p.grid,
		Catalog:     p.cat,
		Durability:  p.durability,
		Casino:      p.casino,
		Upgrades:    p.upgrades,
		Maintenance: p.maintenance,
		Rand:        p.rnd,
		Bet:         p.cfg.Gameplay.GuestBet,
		BaseSpeed:   1,
		OnIncome:    func(amount float64) { p.treasury.Credit(amount, economy.ReasonVisit) },
		Notify:      func(msg string) { p.notify(msg) },
	}
	p.seeder = &expansion.Seeder{
		Catalog: p.cat,
		Builder: p.builder,
		Field:   grid.NewTerrainField(p.cfg.Seed),
		Rand:    p.rnd,
	}
}

// reset lays out a new game: an entrance at the bottom middle with one path
// tile leading in.
func (p *Park) reset() {
	w, h := p.cfg.GridWidth, p.cfg.GridHeight
	p.grid = grid.New(w, h)
	p.durability.Restore(nil)
	p.casino.Restore(nil)
	p.upgrades.Restore(nil)
	p.maintenance = maintenance.NewScheduler()
	p.treasury.Set(p.cfg.StartMoney)
	p.plots = expansion.NewState(w, h)
	p.guests = nil
	p.spawner.SetNextID(1)
	p.tick, p.tickOfDay = 0, 0
	p.day, p.lastPayoutDay = 1, 1
	p.paused, p.closed = false, false
	p.cosmetics = nil
	p.wire()

	ex, ey := w/2, h-1
	p.grid.CellAt(ex, ey).Kind = grid.KindEntrance
	p.entrance = grid.Index(ex, ey, w)
	if def, ok := p.cat.Building("path"); ok {
		p.builder.Place(p.grid, ex, ey-1, def)
	}
}

// Reset starts a new game.
func (p *Park) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	slog.Info("new park", "width", p.grid.Width, "height", p.grid.Height, "money", p.treasury.Balance())
}

func (p *Park) notify(msg string) {
	p.notes.Publish(p.day, msg)
	slog.Debug("notification", "day", p.day, "message", msg)
}

// Notifier exposes the notification sink.
func (p *Park) Notifier() *Notifier {
	return p.notes
}

// Tick runs one coarse step: the clock, casino sweeps, spawning, and needs.
func (p *Park) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return
	}
	p.tick++
	p.tickOfDay++
	if p.tickOfDay >= p.cfg.TicksPerDay {
		p.tickOfDay = 0
		p.day++
		p.newDay()
	}

	p.maybeSpawn()

	for _, g := range p.guests {
		if g.IsWorker() {
			continue
		}
		guests.DecayNeeds(g, p.decay)
		guests.IncrementTime(g, p.cfg.TicksPerDay)
		guests.CheckMood(g, p.mood)
	}
}

// Frame advances movement by dt seconds.
func (p *Park) Frame(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused || dt <= 0 {
		return
	}
	p.guests = p.sim.Update(p.guests, dt)
}

func (p *Park) newDay() {
	if p.day-p.lastPayoutDay >= p.cfg.CasinoPayoutDays {
		p.casinoPayout()
		p.lastPayoutDay = p.day
	}

	report := p.treasury.CloseDay(p.day - 1)
	visitors, workers := p.headcount()
	slog.Info("daily report",
		"day", p.day-1,
		"visitors", visitors,
		"workers", workers,
		"money", economy.Format(p.treasury.Balance()),
		"income", economy.Format(report.Income),
		"expenses", economy.Format(report.Expenses),
		"broken", len(p.durability.Broken()),
		"repair_queue", len(p.maintenance.Queue()),
		"repairing", p.maintenance.Active(),
		"casino_bank", economy.Format(p.casino.TotalBank()),
	)
}

// casinoPayout sweeps every casino's profit into the treasury.
func (p *Park) casinoPayout() {
	total := 0.0
	for _, rec := range p.casino.Records() {
		total += p.casino.Payout(rec.X, rec.Y)
		if c := p.grid.CellAt(rec.X, rec.Y); c != nil {
			c.Payload = grid.GamblingBank(p.casino.InitialBank())
		}
	}
	if total > 0 {
		p.treasury.Credit(total, economy.ReasonCasino)
		p.notify(fmt.Sprintf("Casino payout: %s", economy.Format(total)))
	}
}

func (p *Park) headcount() (visitors, workers int) {
	for _, g := range p.guests {
		if g.IsWorker() {
			workers++
		} else {
			visitors++
		}
	}
	return visitors, workers
}

// capacity is how many visitors the park admits at once.
func (p *Park) capacity() int {
	gp := p.cfg.Gameplay
	return gp.BaseCapacity + gp.CapacityPerBuilding*p.grid.CountKind(grid.KindBuilding)
}

func (p *Park) maybeSpawn() {
	if p.closed || p.entrance < 0 || p.entrance >= len(p.grid.Cells) {
		return
	}
	visitors, _ := p.headcount()
	if visitors >= p.capacity() || p.rnd.Float64() >= p.cfg.Gameplay.SpawnChance {
		return
	}
	gt := p.spawner.PickType(p.grid.CountKind(grid.KindBuilding), p.rating())
	g := p.spawner.Spawn(p.grid.Cells[p.entrance].Coord(), gt)
	p.guests = append(p.guests, g)
}

// rating is 1 to 5 stars from average visitor happiness; an empty park
// rates 3.
func (p *Park) rating() float64 {
	sum, n := 0.0, 0
	for _, g := range p.guests {
		if !g.IsWorker() {
			sum += g.Happiness
			n++
		}
	}
	if n == 0 {
		return 3
	}
	return 1 + 4*(sum/float64(n))/100
}

// spawnWorkers adds n workers living in the building rooted at home.
func (p *Park) spawnWorkers(home grid.Coord, n int) {
	for i := 0; i < n; i++ {
		w := p.spawner.SpawnWorker(home)
		p.guests = append(p.guests, w)
		p.maintenance.RegisterWorkers(maintenance.Worker{ID: w.ID, Home: home})
	}
	if n > 0 {
		slog.Info("workers hired", "home", home, "count", n)
	}
}

// workersFor is the staff a building should have at its current level.
func (p *Park) workersFor(def *catalog.Building, root grid.Coord) int {
	if def.Workers == 0 {
		return 0
	}
	u := p.upgrades.Get(upgrade.Key{BuildingID: def.ID, X: root.X, Y: root.Y})
	return def.Workers + int(u.Bonuses.Workers)
}

// requestBrokenRepairs re-queues every broken building. The scheduler
// ignores ones already queued or assigned.
func (p *Park) requestBrokenRepairs() {
	for _, c := range p.durability.Broken() {
		p.maintenance.RequestRepair(c.X, c.Y)
	}
}
