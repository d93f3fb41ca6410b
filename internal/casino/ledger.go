// Package casino runs the bank of every gambling building. Stakes flow into
// the bank, wins are paid from it, and periodic sweeps move profit above the
// initial float into the park treasury.
package casino

import (
	"sort"
	"time"

	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

// TxType classifies a ledger entry.
type TxType string

const (
	TxWin    TxType = "win"
	TxLose   TxType = "lose"
	TxPayout TxType = "payout"
)

// Transaction is one ledger entry.
type Transaction struct {
	ID        uint64    `json:"id"`
	Type      TxType    `json:"type"`
	Amount    float64   `json:"amount"`
	Bank      float64   `json:"bank"` // Bank after the entry
	Timestamp time.Time `json:"timestamp"`
	GuestID   *uint64   `json:"guest_id,omitempty"`
}

// Record is the ledger of one gambling building.
type Record struct {
	X            int           `json:"x"`
	Y            int           `json:"y"`
	Bank         float64       `json:"bank"`
	TotalVisits  int           `json:"total_visits"`
	TotalWins    int           `json:"total_wins"`
	TotalLosses  int           `json:"total_losses"`
	TotalPayouts float64       `json:"total_payouts"`
	Transactions []Transaction `json:"transactions"`
}

// BetResult is the outcome of one bet.
type BetResult struct {
	Payout    float64 `json:"payout"`
	Outcome   TxType  `json:"outcome"`
	BankAfter float64 `json:"bank_after"`
}

// Config sets the house rules.
type Config struct {
	InitialBank float64
	MaxHistory  int
	// Winning draws out of [0, Pockets). Classic roulette red by default.
	Winning []int
	Pockets int
}

// RouletteRed is the 18-number red set of a single-zero wheel.
var RouletteRed = []int{1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36}

// DefaultConfig returns a 20-unit float, 50-entry history, red-wins wheel.
func DefaultConfig() Config {
	return Config{InitialBank: 20, MaxHistory: 50, Winning: RouletteRed, Pockets: 37}
}

// Ledger holds every casino record keyed by root cell.
type Ledger struct {
	cfg     Config
	winning map[int]bool
	records map[grid.Coord]*Record
	nextTx  uint64
	rnd     rng.Source
	now     func() time.Time
}

// NewLedger creates an empty ledger drawing outcomes from src.
func NewLedger(cfg Config, src rng.Source) *Ledger {
	if cfg.Pockets <= 0 {
		cfg.Pockets = 37
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 50
	}
	w := make(map[int]bool, len(cfg.Winning))
	for _, n := range cfg.Winning {
		w[n] = true
	}
	return &Ledger{
		cfg:     cfg,
		winning: w,
		records: make(map[grid.Coord]*Record),
		nextTx:  1,
		rnd:     src,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// InitialBank returns the float every bank starts at and resets to.
func (l *Ledger) InitialBank() float64 {
	return l.cfg.InitialBank
}

// Init creates the record for the building at (x, y) if it is missing.
func (l *Ledger) Init(x, y int) *Record {
	key := grid.Coord{X: x, Y: y}
	if r, ok := l.records[key]; ok {
		return r
	}
	r := &Record{X: x, Y: y, Bank: l.cfg.InitialBank}
	l.records[key] = r
	return r
}

// Remove drops the record at (x, y).
func (l *Ledger) Remove(x, y int) {
	delete(l.records, grid.Coord{X: x, Y: y})
}

// Bet resolves a stake placed by a guest. The bank takes the stake first,
// and a win pays double the stake, capped at what the bank holds.
func (l *Ledger) Bet(x, y int, guestID uint64, amount float64) BetResult {
	r := l.Init(x, y)
	r.TotalVisits++
	r.Bank += amount

	res := BetResult{Outcome: TxLose}
	if l.winning[l.rnd.Intn(l.cfg.Pockets)] {
		payout := 2 * amount
		if payout > r.Bank {
			payout = r.Bank
		}
		r.Bank -= payout
		r.TotalWins++
		res = BetResult{Payout: payout, Outcome: TxWin}
	} else {
		r.TotalLosses++
	}
	res.BankAfter = r.Bank

	id := guestID
	amt := amount
	if res.Outcome == TxWin {
		amt = res.Payout
	}
	l.append(r, Transaction{Type: res.Outcome, Amount: amt, Bank: r.Bank, GuestID: &id})
	return res
}

// Payout sweeps everything above the initial float out of the bank and
// resets it. The swept amount is never negative.
func (l *Ledger) Payout(x, y int) float64 {
	r, ok := l.records[grid.Coord{X: x, Y: y}]
	if !ok {
		return 0
	}
	amount := r.Bank - l.cfg.InitialBank
	if amount < 0 {
		amount = 0
	}
	r.Bank = l.cfg.InitialBank
	if amount > 0 {
		r.TotalPayouts += amount
		l.append(r, Transaction{Type: TxPayout, Amount: amount, Bank: r.Bank})
	}
	return amount
}

func (l *Ledger) append(r *Record, tx Transaction) {
	tx.ID = l.nextTx
	l.nextTx++
	tx.Timestamp = l.now()
	r.Transactions = append([]Transaction{tx}, r.Transactions...)
	if len(r.Transactions) > l.cfg.MaxHistory {
		r.Transactions = r.Transactions[:l.cfg.MaxHistory]
	}
}

// Get returns a copy of the record at (x, y).
func (l *Ledger) Get(x, y int) (Record, bool) {
	r, ok := l.records[grid.Coord{X: x, Y: y}]
	if !ok {
		return Record{}, false
	}
	return copyRecord(r), true
}

// Records returns copies of every record in row-major order.
func (l *Ledger) Records() []Record {
	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// TotalBank sums every bank.
func (l *Ledger) TotalBank() float64 {
	total := 0.0
	for _, r := range l.records {
		total += r.Bank
	}
	return total
}

// Export returns every record keyed by root cell.
func (l *Ledger) Export() map[grid.Coord]Record {
	out := make(map[grid.Coord]Record, len(l.records))
	for c, r := range l.records {
		out[c] = copyRecord(r)
	}
	return out
}

// Restore replaces every record and re-seeds transaction ids past the
// highest one found.
func (l *Ledger) Restore(in map[grid.Coord]Record) {
	l.records = make(map[grid.Coord]*Record, len(in))
	l.nextTx = 1
	for c, in := range in {
		rec := copyRecord(&in)
		rec.X, rec.Y = c.X, c.Y
		l.records[c] = &rec
		for _, tx := range rec.Transactions {
			if tx.ID >= l.nextTx {
				l.nextTx = tx.ID + 1
			}
		}
	}
}

// Shift moves every record by (dx, dy).
func (l *Ledger) Shift(dx, dy int) {
	moved := make(map[grid.Coord]*Record, len(l.records))
	for c, r := range l.records {
		r.X += dx
		r.Y += dy
		moved[c.Add(dx, dy)] = r
	}
	l.records = moved
}

func copyRecord(r *Record) Record {
	out := *r
	out.Transactions = make([]Transaction, len(r.Transactions))
	copy(out.Transactions, r.Transactions)
	return out
}
