// Package api serves the park over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/guests"
	"github.com/VirEgo/park-tycoon/internal/persistence"
)

// Store persists snapshots. *persistence.DB satisfies it.
type Store interface {
	Save(s *engine.Snapshot) (string, error)
}

// Server serves the park state over HTTP.
type Server struct {
	Park        *engine.Park
	Store       Store  // Nil disables /save
	SnapshotDir string // Where /save also exports a compressed snapshot. Empty = no export.
	Addr        string
	AdminKey    string // Bearer token for POST endpoints. Empty = POST disabled.

	// Per-IP limits; zero values use the defaults.
	ReadLimit    int
	CommandLimit int

	upgrader websocket.Upgrader
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	reads := NewRateLimiter(orDefault(s.ReadLimit, 600), time.Minute)
	commands := NewRateLimiter(orDefault(s.CommandLimit, 120), time.Minute)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	read := func(h http.HandlerFunc) http.HandlerFunc { return RateLimitMiddleware(reads, h) }
	command := func(h http.HandlerFunc) http.HandlerFunc {
		return RateLimitMiddleware(commands, s.adminOnly(h))
	}

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("GET /api/v1/status", read(s.handleStatus))
	mux.HandleFunc("GET /api/v1/grid", read(s.handleGrid))
	mux.HandleFunc("GET /api/v1/guests", read(s.handleGuests))
	mux.HandleFunc("GET /api/v1/buildings", read(s.handleBuildings))
	mux.HandleFunc("GET /api/v1/building/{x}/{y}", read(s.handleBuilding))
	mux.HandleFunc("GET /api/v1/casinos", read(s.handleCasinos))
	mux.HandleFunc("GET /api/v1/plots", read(s.handlePlots))
	mux.HandleFunc("GET /api/v1/catalog", read(s.handleCatalog))
	mux.HandleFunc("GET /api/v1/notifications", read(s.handleNotifications))
	mux.HandleFunc("GET /api/v1/ws", s.handleWS)

	// Admin endpoints.
	mux.HandleFunc("POST /api/v1/place", command(s.handlePlace))
	mux.HandleFunc("POST /api/v1/demolish", command(s.handleDemolish))
	mux.HandleFunc("POST /api/v1/upgrade", command(s.handleUpgrade))
	mux.HandleFunc("POST /api/v1/theme", command(s.handleTheme))
	mux.HandleFunc("POST /api/v1/repair", command(s.handleRepair))
	mux.HandleFunc("POST /api/v1/repair-all", command(s.handleRepairAll))
	mux.HandleFunc("POST /api/v1/pause", command(s.handlePause))
	mux.HandleFunc("POST /api/v1/park-open", command(s.handleParkOpen))
	mux.HandleFunc("POST /api/v1/plot", command(s.handlePlot))
	mux.HandleFunc("POST /api/v1/save", command(s.handleSave))

	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no admin key set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Park.Status())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Park.Grid())
}

func (s *Server) handleGuests(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")

	type guestSummary struct {
		ID        guests.ID    `json:"id"`
		Type      string       `json:"type"`
		Worker    bool         `json:"worker"`
		X         float64      `json:"x"`
		Y         float64      `json:"y"`
		State     guests.State `json:"state"`
		Money     float64      `json:"money"`
		Happiness float64      `json:"happiness"`
		Needs     guests.Needs `json:"needs"`
		Leaving   bool         `json:"wants_to_leave"`
	}

	result := []guestSummary{}
	for _, g := range s.Park.Guests() {
		switch {
		case kind == "workers" && !g.IsWorker():
			continue
		case kind == "visitors" && g.IsWorker():
			continue
		}
		result = append(result, guestSummary{
			ID:        g.ID,
			Type:      g.Type,
			Worker:    g.IsWorker(),
			X:         g.X,
			Y:         g.Y,
			State:     g.State,
			Money:     g.Money,
			Happiness: g.Happiness,
			Needs:     g.Needs,
			Leaving:   g.WantsToLeave,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Park.Buildings())
}

func (s *Server) handleBuilding(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(r.PathValue("y"))
	if errX != nil || errY != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}
	b, ok := s.Park.Building(x, y)
	if !ok {
		http.Error(w, "no building at that position", http.StatusNotFound)
		return
	}
	writeJSON(w, b)
}

func (s *Server) handleCasinos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Park.Casinos())
}

func (s *Server) handlePlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Park.Plots())
}

// handleCatalog lists the buildings a player can place.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	result := []catalog.Building{}
	for _, b := range s.Park.Catalog().Buildings {
		if !b.Hidden {
			result = append(result, b)
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = n
	}
	notes := s.Park.Notifier().Since(since)
	if notes == nil {
		notes = []engine.Notification{}
	}
	writeJSON(w, notes)
}

type coordRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
		X  int    `json:"x"`
		Y  int    `json:"y"`
	}
	if !decodeCommand(w, r, "place", &req) {
		return
	}
	writeResult(w, s.Park.Place(req.ID, req.X, req.Y))
}

func (s *Server) handleDemolish(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !decodeCommand(w, r, "coord", &req) {
		return
	}
	writeResult(w, s.Park.Demolish(req.X, req.Y))
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !decodeCommand(w, r, "coord", &req) {
		return
	}
	writeResult(w, s.Park.Upgrade(req.X, req.Y))
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Theme string `json:"theme"`
	}
	if !decodeCommand(w, r, "theme", &req) {
		return
	}
	writeResult(w, s.Park.ApplyTheme(req.X, req.Y, req.Theme))
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req coordRequest
	if !decodeCommand(w, r, "coord", &req) {
		return
	}
	writeResult(w, s.Park.Repair(req.X, req.Y))
}

func (s *Server) handleRepairAll(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.Park.RepairAll())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	paused := s.Park.TogglePause()
	writeJSON(w, map[string]bool{"paused": paused})
}

func (s *Server) handleParkOpen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"open"`
	}
	if !decodeCommand(w, r, "park-open", &req) {
		return
	}
	s.Park.SetOpen(req.Open)
	writeJSON(w, map[string]bool{"open": req.Open})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decodeCommand(w, r, "plot", &req) {
		return
	}
	writeResult(w, s.Park.PurchasePlot(req.ID))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	snap := s.Park.Snapshot()
	id, err := s.Store.Save(snap)
	if err != nil {
		slog.Error("save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"id":      id,
		"day":     snap.Day,
		"message": "park saved",
	}
	if s.SnapshotDir != "" {
		path := filepath.Join(s.SnapshotDir, persistence.SnapshotName(snap.Day, snap.SavedAt))
		if err := persistence.ExportSnapshot(path, snap); err != nil {
			slog.Warn("snapshot export failed", "path", path, "error", err)
		} else {
			resp["snapshot"] = path
		}
	}
	writeJSON(w, resp)
}

// writeResult reports a command outcome. Failed commands are game
// conditions, not server errors.
func writeResult(w http.ResponseWriter, res engine.Result) {
	status := http.StatusOK
	switch res.Code {
	case engine.CodeOK:
	case engine.CodeNotFound:
		status = http.StatusNotFound
	case engine.CodeInsufficientFunds:
		status = http.StatusPaymentRequired
	default:
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(res)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
