package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEngineRunsBothRates(t *testing.T) {
	e := NewEngine()
	e.Interval = 5 * time.Millisecond
	e.FrameInterval = 2 * time.Millisecond

	var ticks, frames atomic.Int64
	e.OnTick = func(uint64) { ticks.Add(1) }
	e.OnFrame = func(dt float64) {
		if dt > maxFrameStep {
			t.Errorf("frame dt %v above cap", dt)
		}
		frames.Add(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ticks.Load() == 0 || frames.Load() == 0 {
		t.Fatalf("expected both rates to fire, got %d ticks %d frames", ticks.Load(), frames.Load())
	}
	if uint64(ticks.Load()) != e.Tick {
		t.Fatalf("expected tick counter %d, got %d", ticks.Load(), e.Tick)
	}
}

func TestParkTime(t *testing.T) {
	if got := ParkTime(3, 30, 60); got != "Day 3, 12:00" {
		t.Fatalf("expected Day 3, 12:00, got %q", got)
	}
	if got := ParkTime(1, 0, 0); got != "Day 1" {
		t.Fatalf("expected Day 1, got %q", got)
	}
}

func TestNotifierFanOut(t *testing.T) {
	n := NewNotifier(2)
	id, ch := n.Subscribe(4)
	n.Publish(1, "a")
	n.Publish(1, "b")
	n.Publish(2, "c")

	if got := n.Since(0); len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Fatalf("expected last two retained, got %+v", got)
	}
	if got := n.Since(2); len(got) != 1 || got[0].Seq != 3 {
		t.Fatalf("expected only seq 3, got %+v", got)
	}
	if first := <-ch; first.Message != "a" {
		t.Fatalf("expected subscriber to see a first, got %q", first.Message)
	}
	n.Unsubscribe(id)
	for range ch {
	}
}
