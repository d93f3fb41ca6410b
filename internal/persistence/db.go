// Package persistence stores park state in SQLite and exports portable
// compressed snapshots.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/grid"
	"github.com/VirEgo/park-tycoon/internal/guests"
)

// ErrNoSave is returned by Load when the database holds no saved park.
var ErrNoSave = errors.New("no saved park")

// DB wraps a SQLite connection for park state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		version INTEGER NOT NULL,
		day INTEGER NOT NULL,
		money REAL NOT NULL,
		guests INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS park_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cells (
		idx INTEGER PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		kind TEXT NOT NULL,
		terrain TEXT NOT NULL,
		building_id TEXT NOT NULL,
		is_root INTEGER NOT NULL,
		root_x INTEGER,
		root_y INTEGER,
		payload_kind INTEGER NOT NULL,
		bank REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS guests (
		id INTEGER PRIMARY KEY,
		worker INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledgers (
		name TEXT PRIMARY KEY,
		data_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
	CREATE INDEX IF NOT EXISTS idx_guests_worker ON guests(worker);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type cellRow struct {
	Idx         int           `db:"idx"`
	X           int           `db:"x"`
	Y           int           `db:"y"`
	Kind        string        `db:"kind"`
	Terrain     string        `db:"terrain"`
	BuildingID  string        `db:"building_id"`
	IsRoot      int           `db:"is_root"`
	RootX       sql.NullInt64 `db:"root_x"`
	RootY       sql.NullInt64 `db:"root_y"`
	PayloadKind int           `db:"payload_kind"`
	Bank        float64       `db:"bank"`
}

type guestRow struct {
	ID     int64  `db:"id"`
	Worker int    `db:"worker"`
	Data   string `db:"data_json"`
}

type metaRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

type ledgerRow struct {
	Name string `db:"name"`
	Data string `db:"data_json"`
}

// SaveInfo describes one recorded save.
type SaveInfo struct {
	ID      string  `db:"id" json:"id"`
	SavedAt string  `db:"saved_at" json:"saved_at"`
	Version int     `db:"version" json:"version"`
	Day     int     `db:"day" json:"day"`
	Money   float64 `db:"money" json:"money"`
	Guests  int     `db:"guests" json:"guests"`
}

// Save writes the whole snapshot in one transaction, replacing the previous
// park state, and returns the id of the new save.
func (db *DB) Save(s *engine.Snapshot) (string, error) {
	if s == nil || s.Grid == nil {
		return "", fmt.Errorf("save: empty snapshot")
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := saveMeta(tx, s); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	if err := saveCells(tx, s.Grid); err != nil {
		return "", fmt.Errorf("save cells: %w", err)
	}
	if err := saveGuests(tx, s.Guests); err != nil {
		return "", fmt.Errorf("save guests: %w", err)
	}
	if err := saveLedgers(tx, s); err != nil {
		return "", fmt.Errorf("save ledgers: %w", err)
	}

	id := uuid.NewString()
	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	_, err = tx.Exec(`INSERT INTO saves (id, saved_at, version, day, money, guests)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, savedAt.Format(time.RFC3339Nano), s.Version, s.Day, s.Money, len(s.Guests),
	)
	if err != nil {
		return "", fmt.Errorf("record save: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("park saved", "id", id, "day", s.Day, "guests", len(s.Guests), "cells", len(s.Grid.Cells))
	return id, nil
}

func saveMeta(tx *sqlx.Tx, s *engine.Snapshot) error {
	if _, err := tx.Exec("DELETE FROM park_meta"); err != nil {
		return err
	}
	meta := map[string]string{
		"version":                strconv.Itoa(s.Version),
		"saved_at":               s.SavedAt.Format(time.RFC3339Nano),
		"money":                  strconv.FormatFloat(s.Money, 'g', -1, 64),
		"day":                    strconv.Itoa(s.Day),
		"tick_of_day":            strconv.Itoa(s.TickOfDay),
		"tick":                   strconv.FormatUint(s.Tick, 10),
		"width":                  strconv.Itoa(s.Grid.Width),
		"height":                 strconv.Itoa(s.Grid.Height),
		"next_guest_id":          strconv.FormatUint(s.NextGuestID, 10),
		"entrance_index":         strconv.Itoa(s.EntranceIndex),
		"casino_last_payout_day": strconv.Itoa(s.LastPayoutDay),
		"paused":                 strconv.FormatBool(s.Paused),
		"closed":                 strconv.FormatBool(s.Closed),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO park_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

func saveCells(tx *sqlx.Tx, g *grid.Grid) error {
	if _, err := tx.Exec("DELETE FROM cells"); err != nil {
		return err
	}
	stmt, err := tx.PrepareNamed(`INSERT INTO cells
		(idx, x, y, kind, terrain, building_id, is_root, root_x, root_y, payload_kind, bank)
		VALUES (:idx, :x, :y, :kind, :terrain, :building_id, :is_root, :root_x, :root_y, :payload_kind, :bank)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range g.Cells {
		c := &g.Cells[i]
		row := cellRow{
			Idx:         i,
			X:           c.X,
			Y:           c.Y,
			Kind:        c.Kind.String(),
			Terrain:     c.Terrain.String(),
			BuildingID:  c.BuildingID,
			PayloadKind: int(c.Payload.Kind),
			Bank:        c.Payload.Bank,
		}
		if c.IsRoot {
			row.IsRoot = 1
		}
		if c.Root != nil {
			row.RootX = sql.NullInt64{Int64: int64(c.Root.X), Valid: true}
			row.RootY = sql.NullInt64{Int64: int64(c.Root.Y), Valid: true}
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("insert cell %d: %w", i, err)
		}
	}
	return nil
}

func saveGuests(tx *sqlx.Tx, list []*guests.Guest) error {
	if _, err := tx.Exec("DELETE FROM guests"); err != nil {
		return err
	}
	stmt, err := tx.Preparex("INSERT INTO guests (id, worker, data_json) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range list {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encode guest %d: %w", g.ID, err)
		}
		worker := 0
		if g.IsWorker() {
			worker = 1
		}
		if _, err := stmt.Exec(int64(g.ID), worker, string(data)); err != nil {
			return fmt.Errorf("insert guest %d: %w", g.ID, err)
		}
	}
	return nil
}

func saveLedgers(tx *sqlx.Tx, s *engine.Snapshot) error {
	if _, err := tx.Exec("DELETE FROM ledgers"); err != nil {
		return err
	}
	ledgers := map[string]any{
		"casinos":         s.Casinos,
		"upgrades":        s.Upgrades,
		"durability":      s.Durability,
		"expansion":       s.Expansion,
		"owned_cosmetics": s.OwnedCosmetics,
	}
	for name, v := range ledgers {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO ledgers (name, data_json) VALUES (?, ?)", name, string(data)); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the saved park. It returns ErrNoSave when nothing was saved.
func (db *DB) Load() (*engine.Snapshot, error) {
	var saves int
	if err := db.conn.Get(&saves, "SELECT COUNT(*) FROM saves"); err != nil {
		return nil, fmt.Errorf("count saves: %w", err)
	}
	if saves == 0 {
		return nil, ErrNoSave
	}

	var metaRows []metaRow
	if err := db.conn.Select(&metaRows, "SELECT key, value FROM park_meta"); err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	meta := make(map[string]string, len(metaRows))
	for _, m := range metaRows {
		meta[m.Key] = m.Value
	}
	s, width, height, err := decodeMeta(meta)
	if err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}

	if s.Grid, err = db.loadCells(width, height); err != nil {
		return nil, fmt.Errorf("load cells: %w", err)
	}
	if s.Guests, err = db.loadGuests(); err != nil {
		return nil, fmt.Errorf("load guests: %w", err)
	}
	if err := db.loadLedgers(s); err != nil {
		return nil, fmt.Errorf("load ledgers: %w", err)
	}

	slog.Info("park loaded", "day", s.Day, "guests", len(s.Guests), "size", fmt.Sprintf("%dx%d", width, height))
	return s, nil
}

func decodeMeta(meta map[string]string) (*engine.Snapshot, int, int, error) {
	var errs []error
	atoi := func(key string) int {
		n, err := strconv.Atoi(meta[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}
	atou := func(key string) uint64 {
		n, err := strconv.ParseUint(meta[key], 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}

	s := &engine.Snapshot{
		Version:       atoi("version"),
		Day:           atoi("day"),
		TickOfDay:     atoi("tick_of_day"),
		Tick:          atou("tick"),
		NextGuestID:   atou("next_guest_id"),
		EntranceIndex: atoi("entrance_index"),
		LastPayoutDay: atoi("casino_last_payout_day"),
		Paused:        meta["paused"] == "true",
		Closed:        meta["closed"] == "true",
	}
	width, height := atoi("width"), atoi("height")

	money, err := strconv.ParseFloat(meta["money"], 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("money: %w", err))
	}
	s.Money = money
	if t, err := time.Parse(time.RFC3339Nano, meta["saved_at"]); err == nil {
		s.SavedAt = t
	}
	return s, width, height, errors.Join(errs...)
}

func (db *DB) loadCells(width, height int) (*grid.Grid, error) {
	var rows []cellRow
	if err := db.conn.Select(&rows, "SELECT * FROM cells ORDER BY idx"); err != nil {
		return nil, err
	}
	if len(rows) != width*height {
		return nil, fmt.Errorf("expected %d cells for %dx%d, got %d", width*height, width, height, len(rows))
	}

	g := grid.New(width, height)
	for _, r := range rows {
		if r.Idx < 0 || r.Idx >= len(g.Cells) {
			return nil, fmt.Errorf("cell index %d out of range", r.Idx)
		}
		c := grid.Cell{
			X:          r.X,
			Y:          r.Y,
			BuildingID: r.BuildingID,
			IsRoot:     r.IsRoot != 0,
			Payload:    grid.Payload{Kind: grid.PayloadKind(r.PayloadKind), Bank: r.Bank},
		}
		if err := c.Kind.UnmarshalText([]byte(r.Kind)); err != nil {
			return nil, fmt.Errorf("cell %d: %w", r.Idx, err)
		}
		if err := c.Terrain.UnmarshalText([]byte(r.Terrain)); err != nil {
			return nil, fmt.Errorf("cell %d: %w", r.Idx, err)
		}
		if r.RootX.Valid && r.RootY.Valid {
			c.Root = &grid.Coord{X: int(r.RootX.Int64), Y: int(r.RootY.Int64)}
		}
		g.Cells[r.Idx] = c
	}
	return g, nil
}

func (db *DB) loadGuests() ([]*guests.Guest, error) {
	var rows []guestRow
	if err := db.conn.Select(&rows, "SELECT id, worker, data_json FROM guests ORDER BY id"); err != nil {
		return nil, err
	}
	out := make([]*guests.Guest, 0, len(rows))
	for _, r := range rows {
		var g guests.Guest
		if err := json.Unmarshal([]byte(r.Data), &g); err != nil {
			return nil, fmt.Errorf("decode guest %d: %w", r.ID, err)
		}
		out = append(out, &g)
	}
	return out, nil
}

func (db *DB) loadLedgers(s *engine.Snapshot) error {
	var rows []ledgerRow
	if err := db.conn.Select(&rows, "SELECT name, data_json FROM ledgers"); err != nil {
		return err
	}
	for _, r := range rows {
		var target any
		switch r.Name {
		case "casinos":
			target = &s.Casinos
		case "upgrades":
			target = &s.Upgrades
		case "durability":
			target = &s.Durability
		case "expansion":
			target = &s.Expansion
		case "owned_cosmetics":
			target = &s.OwnedCosmetics
		default:
			slog.Warn("unknown ledger in save", "name", r.Name)
			continue
		}
		if err := json.Unmarshal([]byte(r.Data), target); err != nil {
			return fmt.Errorf("decode %s: %w", r.Name, err)
		}
	}
	return nil
}

// Saves lists recorded saves, newest first.
func (db *DB) Saves(limit int) ([]SaveInfo, error) {
	var saves []SaveInfo
	err := db.conn.Select(&saves,
		"SELECT id, saved_at, version, day, money, guests FROM saves ORDER BY saved_at DESC LIMIT ?",
		limit,
	)
	return saves, err
}
