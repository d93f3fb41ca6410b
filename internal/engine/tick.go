// Package engine drives the park simulation: a coarse tick for time, spawning,
// and needs, and a fine frame update for movement.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// maxFrameStep caps a single frame's dt so a stalled loop does not teleport
// agents across the park.
const maxFrameStep = 0.25

// Engine runs the two simulation rates on one goroutine so that ticks and
// frames never interleave.
type Engine struct {
	Tick          uint64        // Ticks run so far (monotonic)
	Speed         float64       // Multiplier: 1.0 = real-time
	Interval      time.Duration // Base tick interval
	FrameInterval time.Duration // Base frame interval

	// Callbacks populated during setup.
	OnTick  func(tick uint64)
	OnFrame func(dt float64) // dt in simulated seconds
}

// NewEngine creates an engine with the stock 750ms tick and 60Hz frames.
func NewEngine() *Engine {
	return &Engine{
		Speed:         1.0,
		Interval:      750 * time.Millisecond,
		FrameInterval: time.Second / 60,
	}
}

// Run drives both rates until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	speed := e.Speed
	if speed <= 0 {
		speed = 1
	}
	ticker := time.NewTicker(time.Duration(float64(e.Interval) / speed))
	defer ticker.Stop()
	frames := time.NewTicker(time.Duration(float64(e.FrameInterval) / speed))
	defer frames.Stop()

	slog.Info("simulation engine started", "tick", e.Tick, "speed", speed, "interval", e.Interval)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation engine stopped", "tick", e.Tick)
			return nil
		case <-ticker.C:
			e.step()
		case now := <-frames.C:
			dt := now.Sub(last).Seconds() * speed
			last = now
			if dt > maxFrameStep {
				dt = maxFrameStep
			}
			if e.OnFrame != nil {
				e.OnFrame(dt)
			}
		}
	}
}

// step advances the simulation by one tick.
func (e *Engine) step() {
	e.Tick++
	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
}

// ParkTime renders a day and tick-of-day as a clock string. A day is
// ticksPerDay ticks mapped onto 24 hours.
func ParkTime(day, tickOfDay, ticksPerDay int) string {
	if ticksPerDay <= 0 {
		return fmt.Sprintf("Day %d", day)
	}
	minutes := tickOfDay * 24 * 60 / ticksPerDay
	return fmt.Sprintf("Day %d, %d:%02d", day, minutes/60, minutes%60)
}
