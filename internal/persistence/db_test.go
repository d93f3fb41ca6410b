package persistence

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/config"
	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

func busyPark(t *testing.T) *engine.Park {
	t.Helper()
	p := engine.NewPark(config.Default(), catalog.Default(), rng.New(7))
	for _, b := range []struct {
		id   string
		x, y int
	}{
		{"parkMaintenance", 8, 12},
		{"shooting", 11, 13},
		{"path", 11, 12},
	} {
		if r := p.Place(b.id, b.x, b.y); !r.Success {
			t.Fatalf("place %s: %s", b.id, r.Message)
		}
	}
	if r := p.Upgrade(11, 13); !r.Success {
		t.Fatalf("upgrade: %s", r.Message)
	}
	for i := 0; i < 90; i++ {
		p.Tick()
		p.Frame(0.2)
	}
	return p
}

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "park.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadEmptyDatabase(t *testing.T) {
	db := openTemp(t)
	if _, err := db.Load(); !errors.Is(err, ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTemp(t)
	snap := busyPark(t).Snapshot()
	snap.OwnedCosmetics = []string{"golden-gate"}

	id, err := db.Save(snap)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected a save id")
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(snap.Grid, got.Grid) {
		t.Fatal("grid differs after load")
	}
	if got.Money != snap.Money || got.Day != snap.Day || got.Tick != snap.Tick {
		t.Fatalf("expected money/day/tick %v/%d/%d, got %v/%d/%d",
			snap.Money, snap.Day, snap.Tick, got.Money, got.Day, got.Tick)
	}
	if got.NextGuestID != snap.NextGuestID || got.EntranceIndex != snap.EntranceIndex {
		t.Fatalf("expected next id %d entrance %d, got %d %d",
			snap.NextGuestID, snap.EntranceIndex, got.NextGuestID, got.EntranceIndex)
	}
	if len(got.Guests) != len(snap.Guests) {
		t.Fatalf("expected %d guests, got %d", len(snap.Guests), len(got.Guests))
	}
	if !reflect.DeepEqual(snap.Durability, got.Durability) {
		t.Fatalf("expected durability %v, got %v", snap.Durability, got.Durability)
	}
	if !reflect.DeepEqual(snap.Upgrades, got.Upgrades) {
		t.Fatalf("expected upgrades %v, got %v", snap.Upgrades, got.Upgrades)
	}
	if len(got.OwnedCosmetics) != 1 || got.OwnedCosmetics[0] != "golden-gate" {
		t.Fatalf("expected cosmetics to survive, got %v", got.OwnedCosmetics)
	}
	if got.Expansion == nil || len(got.Expansion.Plots) != len(snap.Expansion.Plots) {
		t.Fatalf("expected expansion plots to survive, got %+v", got.Expansion)
	}

	q := engine.NewPark(config.Default(), catalog.Default(), rng.New(1))
	if err := q.Restore(got); err != nil {
		t.Fatalf("restore loaded save: %v", err)
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	db := openTemp(t)
	p := busyPark(t)
	if _, err := db.Save(p.Snapshot()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	fresh := engine.NewPark(config.Default(), catalog.Default(), rng.New(3)).Snapshot()
	if _, err := db.Save(fresh); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Guests) != 0 {
		t.Fatalf("expected guests of the fresh park only, got %d", len(got.Guests))
	}
	if got.Money != fresh.Money {
		t.Fatalf("expected money %v, got %v", fresh.Money, got.Money)
	}

	saves, err := db.Saves(10)
	if err != nil {
		t.Fatalf("saves: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("expected 2 recorded saves, got %d", len(saves))
	}
}

func TestExportImportSnapshot(t *testing.T) {
	snap := busyPark(t).Snapshot()
	path := filepath.Join(t.TempDir(), "nested", SnapshotName(snap.Day, snap.SavedAt))

	if err := ExportSnapshot(path, snap); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := ImportSnapshot(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(snap.Grid, got.Grid) {
		t.Fatal("grid differs after import")
	}
	if got.Money != snap.Money || len(got.Guests) != len(snap.Guests) {
		t.Fatalf("expected money %v guests %d, got %v %d", snap.Money, len(snap.Guests), got.Money, len(got.Guests))
	}
}

func TestImportRejectsNewerVersion(t *testing.T) {
	snap := engine.NewPark(config.Default(), catalog.Default(), rng.New(3)).Snapshot()
	snap.Version = engine.SnapshotVersion + 1
	path := filepath.Join(t.TempDir(), "future"+SnapshotExt)
	if err := ExportSnapshot(path, snap); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := ImportSnapshot(path); err == nil {
		t.Fatal("expected newer snapshot version to be rejected")
	}
}
