package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/VirEgo/park-tycoon/internal/api"
	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/config"
	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

func newTestClient(t *testing.T, key string) (*Client, *engine.Park) {
	t.Helper()
	park := engine.NewPark(config.Default(), catalog.Default(), rng.New(42))
	srv := &api.Server{Park: park, AdminKey: "secret"}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL, key), park
}

func TestObserveAndAct(t *testing.T) {
	c, park := newTestClient(t, "secret")
	ctx := context.Background()

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Day != 1 {
		t.Fatalf("expected day 1, got %d", st.Day)
	}

	res, err := c.Place(ctx, "shooting", 11, 13)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected placement to succeed, got %+v", res)
	}

	b, err := c.Building(ctx, 11, 13)
	if err != nil {
		t.Fatalf("building: %v", err)
	}
	if b.ID != "shooting" {
		t.Fatalf("expected shooting, got %s", b.ID)
	}

	paused, err := c.TogglePause(ctx)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !paused || !park.Paused() {
		t.Fatal("expected park paused")
	}
	if err := c.SetOpen(ctx, false); err != nil {
		t.Fatalf("close: %v", err)
	}
	if st, _ := c.Status(ctx); !st.Closed {
		t.Fatal("expected park closed")
	}
}

func TestGameFailuresAreResults(t *testing.T) {
	c, _ := newTestClient(t, "secret")
	ctx := context.Background()

	res, err := c.BuyPlot(ctx, "plot-northeast-1")
	if err != nil {
		t.Fatalf("buy plot: %v", err)
	}
	if res.Success || res.Code != engine.CodeInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %+v", res)
	}

	res, err = c.Demolish(ctx, 0, 0)
	if err != nil {
		t.Fatalf("demolish: %v", err)
	}
	if res.Code != engine.CodeNotFound {
		t.Fatalf("expected not found, got %+v", res)
	}

	res, err = c.RepairAll(ctx)
	if err != nil {
		t.Fatalf("repair all: %v", err)
	}
	if res.Success {
		t.Fatalf("expected nothing to repair, got %+v", res)
	}
}

func TestBadKeyIsAnError(t *testing.T) {
	c, _ := newTestClient(t, "wrong")
	if _, err := c.Place(context.Background(), "shooting", 11, 13); err == nil {
		t.Fatal("expected unauthorized error")
	}
	if _, err := c.Save(context.Background()); err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestSaveWithoutStore(t *testing.T) {
	c, _ := newTestClient(t, "secret")
	if _, err := c.Save(context.Background()); err == nil {
		t.Fatal("expected error when the server has no store")
	}
}
