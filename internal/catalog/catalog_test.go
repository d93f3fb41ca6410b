package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected stock catalog to validate, got %v", err)
	}
	slots, ok := c.Building("slots")
	if !ok || !slots.Gambling || slots.Width != 3 {
		t.Fatalf("expected 3x3 gambling slots, got %+v", slots)
	}
	if b, _ := c.Building("bench"); b.DurabilityThreshold() != 1500 {
		t.Fatalf("expected bench threshold 1500, got %d", b.DurabilityThreshold())
	}
	if b, _ := c.Building("carousel"); b.DurabilityThreshold() != DefaultMaxVisits {
		t.Fatalf("expected default threshold, got %d", b.DurabilityThreshold())
	}
}

func TestVisibleHidesTerrainFeatures(t *testing.T) {
	for _, b := range Default().Visible() {
		if b.ID == "mountain" || b.ID == "pond" {
			t.Fatalf("expected %s to be hidden", b.ID)
		}
	}
}

func TestProfileFallsBackToDefaultLadder(t *testing.T) {
	c := Default()
	p := c.Profile("carousel")
	if p.MaxLevel != DefaultMaxLevel || p.CostMultiplier != 1 {
		t.Fatalf("expected default profile, got %+v", p)
	}
	row, ok := p.CostFor(3)
	if !ok || row.Cost != 1500 || row.Bonus.Income != 25 {
		t.Fatalf("expected level 3 row, got %+v", row)
	}
	if !p.AllowsTheme("horror") {
		t.Fatal("expected unrestricted themes")
	}

	m := c.Profile("parkMaintenance")
	if m.MaxLevel != 4 || m.CostMultiplier != 1.8 {
		t.Fatalf("expected maintenance profile, got %+v", m)
	}
	if m.AllowsTheme("space") {
		t.Fatal("expected maintenance to reject non-default themes")
	}
	if !m.AllowsTheme(DefaultTheme) {
		t.Fatal("expected default theme to stay allowed")
	}
}

func TestLoadOverridesAndAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := `
buildings:
  - id: burger
    name: Big Burger
    category: shop
    price: 999
    income: 3
    width: 2
    height: 2
    satisfies: satiety
    stat_value: 70
    visitable: true
    allowed_on_path: true
  - id: kiosk
    name: Kiosk
    category: shop
    price: 50
    income: 0.2
    width: 1
    height: 1
    visitable: true
    allowed_on_path: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, _ := c.Building("burger")
	if b.Price != 999 || b.Width != 2 {
		t.Fatalf("expected overridden burger, got %+v", b)
	}
	if _, ok := c.Building("kiosk"); !ok {
		t.Fatal("expected appended kiosk")
	}
	if _, ok := c.Building("carousel"); !ok {
		t.Fatal("expected stock rows to survive")
	}
}

func TestLoadRejectsBadFootprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("buildings:\n  - id: blob\n    width: 0\n    height: 1\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}
