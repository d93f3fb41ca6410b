// Package economy holds the park treasury: every build, upgrade, repair,
// ticket charge, and casino sweep moves money through it.
package economy

import (
	"github.com/dustin/go-humanize"
)

// Ledger categories.
const (
	ReasonVisit     = "visit"
	ReasonCasino    = "casino"
	ReasonBuild     = "build"
	ReasonDemolish  = "demolish"
	ReasonUpgrade   = "upgrade"
	ReasonTheme     = "theme"
	ReasonRepair    = "repair"
	ReasonExpansion = "expansion"
)

// DayReport sums one in-game day of cash flow.
type DayReport struct {
	Day      int                `json:"day"`
	Income   float64            `json:"income"`
	Expenses float64            `json:"expenses"`
	ByReason map[string]float64 `json:"by_reason"`
	Closing  float64            `json:"closing"`
}

// Treasury is the park's cash balance with a running daily tally.
type Treasury struct {
	balance float64
	today   DayReport
	last    DayReport
}

// NewTreasury opens a treasury with the given balance.
func NewTreasury(balance float64) *Treasury {
	return &Treasury{balance: balance, today: DayReport{ByReason: map[string]float64{}}}
}

// Balance returns the current cash.
func (t *Treasury) Balance() float64 {
	return t.balance
}

// Set overwrites the balance, used when restoring a save.
func (t *Treasury) Set(balance float64) {
	t.balance = balance
}

// CanAfford reports whether the balance covers amount.
func (t *Treasury) CanAfford(amount float64) bool {
	return t.balance >= amount
}

// Credit adds income.
func (t *Treasury) Credit(amount float64, reason string) {
	if amount <= 0 {
		return
	}
	t.balance += amount
	t.today.Income += amount
	t.today.ByReason[reason] += amount
}

// Debit spends amount if the balance covers it and reports whether it did.
func (t *Treasury) Debit(amount float64, reason string) bool {
	if amount < 0 || t.balance < amount {
		return false
	}
	t.balance -= amount
	t.today.Expenses += amount
	t.today.ByReason[reason] -= amount
	return true
}

// CloseDay finalizes the running tally as day and starts a new one.
func (t *Treasury) CloseDay(day int) DayReport {
	t.today.Day = day
	t.today.Closing = t.balance
	t.last = t.today
	t.today = DayReport{ByReason: map[string]float64{}}
	return t.last
}

// LastDay returns the most recently closed day.
func (t *Treasury) LastDay() DayReport {
	return t.last
}

// Format renders a money amount for messages, e.g. "$1,250.5".
func Format(amount float64) string {
	return "$" + humanize.CommafWithDigits(amount, 2)
}
