package durability

import (
	"testing"

	"pgregory.net/rapid"
)

func TestBreakAndRepairCycle(t *testing.T) {
	tr := NewTracker(500)
	tr.Init(2, 3, 1)

	if !tr.RecordVisit(2, 3) {
		t.Fatal("expected first visit to break a maxVisits=1 building")
	}
	if !tr.IsBroken(2, 3) {
		t.Fatal("expected broken")
	}
	tr.Repair(2, 3)
	if tr.IsBroken(2, 3) {
		t.Fatal("expected repaired")
	}
	if tr.RecordVisit(2, 3) {
		t.Fatal("expected first visit after repair not to break")
	}
	if !tr.RecordVisit(2, 3) {
		t.Fatal("expected the following visit to break again")
	}
}

func TestBrokenVisitDoesNotCount(t *testing.T) {
	tr := NewTracker(500)
	tr.Init(0, 0, 2)
	tr.RecordVisit(0, 0)
	tr.RecordVisit(0, 0)
	before, _ := tr.Get(0, 0)
	if !tr.RecordVisit(0, 0) {
		t.Fatal("expected broken building to report true")
	}
	after, _ := tr.Get(0, 0)
	if after.Visits != before.Visits || after.TotalVisits != before.TotalVisits {
		t.Fatalf("expected no increment while broken, got %+v -> %+v", before, after)
	}
}

func TestSecondVisitAfterRepairDoesNotBreak(t *testing.T) {
	tr := NewTracker(500)
	tr.Init(1, 1, 2)
	tr.RecordVisit(1, 1)
	tr.RecordVisit(1, 1)
	tr.Repair(1, 1)
	if tr.RecordVisit(1, 1) {
		t.Fatal("expected first visit after repair to stay below threshold")
	}
}

func TestRepairedBuildingLastsFullThreshold(t *testing.T) {
	tr := NewTracker(500)
	tr.Init(5, 5, 3)
	for !tr.RecordVisit(5, 5) {
	}
	tr.Repair(5, 5)
	for i := 1; i < 3; i++ {
		if tr.RecordVisit(5, 5) {
			t.Fatalf("expected visit %d after repair not to break", i)
		}
	}
	if !tr.RecordVisit(5, 5) {
		t.Fatal("expected the third visit after repair to break")
	}
}

func TestRecordVisitUnknownCreatesStatus(t *testing.T) {
	tr := NewTracker(7)
	if tr.RecordVisit(4, 4) {
		t.Fatal("expected false for unknown building")
	}
	s, ok := tr.Get(4, 4)
	if !ok || s.MaxVisits != 7 {
		t.Fatalf("expected implicit status with default max, got %+v", s)
	}
}

func TestRepairCostRoundsUp(t *testing.T) {
	cases := []struct {
		base  float64
		level int
		want  float64
	}{
		{400, 1, 100},
		{400, 2, 240},
		{1200, 3, 1080},
		{150, 4, 165},
		{50, 5, 75},
		{90, 1, 23}, // 22.5
		{0.25, 2, 1},
	}
	for _, c := range cases {
		if got := RepairCost(c.base, c.level); got != c.want {
			t.Fatalf("RepairCost(%v, %d): expected %v, got %v", c.base, c.level, c.want, got)
		}
	}
}

func TestRecordVisitProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		max := rapid.IntRange(1, 20).Draw(t, "max")
		visits := rapid.IntRange(0, 60).Draw(t, "visits")
		tr := NewTracker(500)
		tr.Init(0, 0, max)

		transitions := 0
		prev := 0
		for i := 0; i < visits; i++ {
			wasBroken := tr.IsBroken(0, 0)
			broke := tr.RecordVisit(0, 0)
			s, _ := tr.Get(0, 0)
			if wasBroken {
				if !broke || s.Visits != prev {
					t.Fatalf("broken building counted a visit: %+v", s)
				}
				continue
			}
			if s.Visits != prev+1 {
				t.Fatalf("expected monotonic increment from %d, got %d", prev, s.Visits)
			}
			if broke {
				transitions++
			}
			prev = s.Visits
		}
		if transitions > 1 {
			t.Fatalf("expected at most one break transition, got %d", transitions)
		}
		s, _ := tr.Get(0, 0)
		if s.Visits > max {
			t.Fatalf("visits %d exceeded threshold %d", s.Visits, max)
		}
	})
}
