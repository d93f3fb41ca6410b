// Command parksim runs the park simulation server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/VirEgo/park-tycoon/internal/api"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/config"
	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/persistence"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults apply when empty)")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
		importPath = flag.String("import", "", "start from an exported .json.zst snapshot instead of the database")
		fresh      = flag.Bool("new", false, "ignore any saved park and start a new one")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if v := os.Getenv("PARKSIM_ADMIN_KEY"); v != "" {
		cfg.AdminKey = v
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg, *importPath, *fresh); err != nil {
		slog.Error("parksim exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, importPath string, fresh bool) error {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or start a park ─────────────────────────────────────────
	park := engine.NewPark(cfg, cat, nil)
	if !fresh {
		restore(park, db, importPath)
	}

	// ── Engine ───────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Interval = cfg.TickInterval()
	eng.FrameInterval = cfg.FrameInterval()
	eng.OnTick = func(uint64) { park.Tick() }
	eng.OnFrame = park.Frame

	if cfg.AdminKey == "" {
		slog.Warn("admin key not set; POST endpoints will be disabled")
	}
	srv := &api.Server{
		Park:        park,
		Store:       db,
		SnapshotDir: cfg.SnapshotDir,
		Addr:        cfg.Addr,
		AdminKey:    cfg.AdminKey,
	}

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return eng.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return autosave(ctx, db, park, cfg.AutosaveInterval()) })

	st := park.Status()
	fmt.Printf("\nPark is open: day %d, %d guests, %dx%d.\n", st.Day, st.Visitors, st.Width, st.Height)
	fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.Addr)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	err = g.Wait()

	// Final save on shutdown.
	slog.Info("final save...")
	if _, serr := db.Save(park.Snapshot()); serr != nil {
		slog.Error("final save failed", "error", serr)
	}
	fmt.Println("Simulation stopped. Park saved.")
	return err
}

// restore loads the park from an export or the database. Any failure leaves
// the fresh park in place.
func restore(park *engine.Park, db *persistence.DB, importPath string) {
	var (
		snap *engine.Snapshot
		err  error
	)
	if importPath != "" {
		snap, err = persistence.ImportSnapshot(importPath)
	} else {
		snap, err = db.Load()
	}
	switch {
	case errors.Is(err, persistence.ErrNoSave):
		slog.Info("no saved park found, starting a new one")
		return
	case err != nil:
		slog.Error("failed to load saved park, starting a new one", "error", err)
		return
	}
	if err := park.Restore(snap); err != nil {
		slog.Error("saved park rejected, starting a new one", "error", err)
		park.Reset()
	}
}

func autosave(ctx context.Context, db *persistence.DB, park *engine.Park, every time.Duration) error {
	if every <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := db.Save(park.Snapshot()); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		}
	}
}
