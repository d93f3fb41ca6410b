// Package client talks to a running park server over its HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/expansion"
)

// Client reads park state and sends admin commands.
type Client struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

// New creates a Client targeting the given API base URL.
func New(baseURL, adminKey string) *Client {
	return &Client{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Status fetches GET /api/v1/status.
func (c *Client) Status(ctx context.Context) (*engine.Status, error) {
	var st engine.Status
	if err := c.fetchJSON(ctx, "/api/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Buildings fetches every placed building.
func (c *Client) Buildings(ctx context.Context) ([]engine.BuildingView, error) {
	var out []engine.BuildingView
	if err := c.fetchJSON(ctx, "/api/v1/buildings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Building fetches the building covering (x, y).
func (c *Client) Building(ctx context.Context, x, y int) (*engine.BuildingView, error) {
	var b engine.BuildingView
	path := "/api/v1/building/" + strconv.Itoa(x) + "/" + strconv.Itoa(y)
	if err := c.fetchJSON(ctx, path, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Plots fetches the land plots.
func (c *Client) Plots(ctx context.Context) ([]expansion.Plot, error) {
	var out []expansion.Plot
	if err := c.fetchJSON(ctx, "/api/v1/plots", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifications fetches retained notifications newer than since.
func (c *Client) Notifications(ctx context.Context, since uint64) ([]engine.Notification, error) {
	var out []engine.Notification
	path := "/api/v1/notifications?since=" + strconv.FormatUint(since, 10)
	if err := c.fetchJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchJSON GETs a path and decodes the JSON response into target.
func (c *Client) fetchJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
