package economy

import "testing"

func TestDebitRefusesOverdraft(t *testing.T) {
	tr := NewTreasury(100)
	if tr.Debit(150, ReasonBuild) {
		t.Fatal("expected overdraft refused")
	}
	if tr.Balance() != 100 {
		t.Fatalf("expected balance unchanged, got %v", tr.Balance())
	}
	if !tr.Debit(100, ReasonBuild) || tr.Balance() != 0 {
		t.Fatalf("expected exact debit to succeed, got %v", tr.Balance())
	}
}

func TestCloseDayTallies(t *testing.T) {
	tr := NewTreasury(10)
	tr.Credit(5, ReasonVisit)
	tr.Credit(3, ReasonCasino)
	tr.Debit(4, ReasonRepair)
	r := tr.CloseDay(2)
	if r.Day != 2 || r.Income != 8 || r.Expenses != 4 || r.Closing != 14 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.ByReason[ReasonRepair] != -4 {
		t.Fatalf("expected repair -4, got %v", r.ByReason[ReasonRepair])
	}
	if next := tr.CloseDay(3); next.Income != 0 || next.Closing != 14 {
		t.Fatalf("expected fresh tally, got %+v", next)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(1250.5); got != "$1,250.5" {
		t.Fatalf("expected $1,250.5, got %s", got)
	}
}
