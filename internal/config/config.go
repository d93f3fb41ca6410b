// Package config loads park server settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Fields a loaded file omits keep
// their defaults.
type Config struct {
	TickIntervalMs   int     `yaml:"tick_interval_ms"`
	TicksPerDay      int     `yaml:"ticks_per_day"`
	CasinoPayoutDays int     `yaml:"casino_payout_days"`
	GridWidth        int     `yaml:"grid_width"`
	GridHeight       int     `yaml:"grid_height"`
	StartMoney       float64 `yaml:"start_money"`
	Seed             int64   `yaml:"seed"` // 0 draws a random seed
	FrameHz          int     `yaml:"frame_hz"`

	DBPath          string `yaml:"db_path"`
	SnapshotDir     string `yaml:"snapshot_dir"`
	AutosaveSeconds int    `yaml:"autosave_seconds"`
	CatalogPath     string `yaml:"catalog_path"` // Optional building/upgrade overrides

	Addr     string `yaml:"addr"`
	AdminKey string `yaml:"admin_key"`
	LogLevel string `yaml:"log_level"`

	Gameplay Gameplay `yaml:"gameplay"`
}

// Gameplay holds the tunable rules of the simulation.
type Gameplay struct {
	CasinoInitialBank   float64 `yaml:"casino_initial_bank"`
	CasinoHistory       int     `yaml:"casino_history"`
	CasinoRedNumbers    []int   `yaml:"casino_red_numbers"`
	GuestBet            float64 `yaml:"guest_bet"`
	LowNeedThreshold    float64 `yaml:"low_need_threshold"`
	LowNeedCount        int     `yaml:"low_need_count"`
	MaxDaysInPark       int     `yaml:"max_days_in_park"`
	MinMoneyToStay      float64 `yaml:"min_money_to_stay"`
	MinHappiness        float64 `yaml:"min_happiness"`
	DemolishCost        float64 `yaml:"demolish_cost"`
	SpawnChance         float64 `yaml:"spawn_chance"`
	BaseCapacity        int     `yaml:"base_capacity"`
	CapacityPerBuilding int     `yaml:"capacity_per_building"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		TickIntervalMs:   750,
		TicksPerDay:      60,
		CasinoPayoutDays: 10,
		GridWidth:        20,
		GridHeight:       15,
		StartMoney:       5000,
		FrameHz:          60,
		DBPath:           "park.db",
		SnapshotDir:      "snapshots",
		AutosaveSeconds:  30,
		Addr:             ":8080",
		LogLevel:         "info",
		Gameplay: Gameplay{
			CasinoInitialBank:   20,
			CasinoHistory:       50,
			CasinoRedNumbers:    []int{1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36},
			GuestBet:            0.25,
			LowNeedThreshold:    20,
			LowNeedCount:        2,
			MaxDaysInPark:       5,
			MinMoneyToStay:      5,
			MinHappiness:        20,
			DemolishCost:        5,
			SpawnChance:         0.7,
			BaseCapacity:        5,
			CapacityPerBuilding: 3,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs))
	}
	if c.TicksPerDay <= 0 {
		errs = append(errs, fmt.Errorf("ticks_per_day must be positive, got %d", c.TicksPerDay))
	}
	if c.CasinoPayoutDays <= 0 {
		errs = append(errs, fmt.Errorf("casino_payout_days must be positive, got %d", c.CasinoPayoutDays))
	}
	if c.GridWidth < 3 || c.GridHeight < 3 {
		errs = append(errs, fmt.Errorf("grid must be at least 3x3, got %dx%d", c.GridWidth, c.GridHeight))
	}
	if c.FrameHz <= 0 {
		errs = append(errs, fmt.Errorf("frame_hz must be positive, got %d", c.FrameHz))
	}
	if p := c.Gameplay.SpawnChance; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("gameplay.spawn_chance must be in [0,1], got %v", p))
	}
	if c.Gameplay.GuestBet <= 0 {
		errs = append(errs, fmt.Errorf("gameplay.guest_bet must be positive, got %v", c.Gameplay.GuestBet))
	}
	for _, n := range c.Gameplay.CasinoRedNumbers {
		if n < 0 || n > 36 {
			errs = append(errs, fmt.Errorf("gameplay.casino_red_numbers: %d is not a roulette pocket", n))
			break
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TickInterval is the coarse tick period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// FrameInterval is the movement update period.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameHz)
}

// AutosaveInterval is how often the server persists the park. Zero
// disables autosave.
func (c Config) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}
