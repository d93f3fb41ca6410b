package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/VirEgo/park-tycoon/internal/engine"
)

// SaveResult is the response from POST /api/v1/save.
type SaveResult struct {
	ID       string `json:"id"`
	Day      int    `json:"day"`
	Message  string `json:"message"`
	Snapshot string `json:"snapshot,omitempty"`
}

type coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Place builds id with its origin at (x, y).
func (c *Client) Place(ctx context.Context, id string, x, y int) (engine.Result, error) {
	return c.command(ctx, "/api/v1/place", map[string]any{"id": id, "x": x, "y": y})
}

// Demolish clears the building at (x, y).
func (c *Client) Demolish(ctx context.Context, x, y int) (engine.Result, error) {
	return c.command(ctx, "/api/v1/demolish", coord{x, y})
}

// Upgrade raises the building at (x, y) one level.
func (c *Client) Upgrade(ctx context.Context, x, y int) (engine.Result, error) {
	return c.command(ctx, "/api/v1/upgrade", coord{x, y})
}

// Theme applies a theme to the building at (x, y).
func (c *Client) Theme(ctx context.Context, x, y int, theme string) (engine.Result, error) {
	return c.command(ctx, "/api/v1/theme", map[string]any{"x": x, "y": y, "theme": theme})
}

// Repair fixes one broken building.
func (c *Client) Repair(ctx context.Context, x, y int) (engine.Result, error) {
	return c.command(ctx, "/api/v1/repair", coord{x, y})
}

// RepairAll fixes every broken building if the park can pay for all of them.
func (c *Client) RepairAll(ctx context.Context) (engine.Result, error) {
	return c.command(ctx, "/api/v1/repair-all", nil)
}

// BuyPlot purchases a land plot.
func (c *Client) BuyPlot(ctx context.Context, id string) (engine.Result, error) {
	return c.command(ctx, "/api/v1/plot", map[string]string{"id": id})
}

// TogglePause flips the pause gate and returns the new state.
func (c *Client) TogglePause(ctx context.Context) (bool, error) {
	var out struct {
		Paused bool `json:"paused"`
	}
	if err := c.postJSON(ctx, "/api/v1/pause", nil, &out); err != nil {
		return false, err
	}
	return out.Paused, nil
}

// SetOpen opens or closes the park gates.
func (c *Client) SetOpen(ctx context.Context, open bool) error {
	return c.postJSON(ctx, "/api/v1/park-open", map[string]bool{"open": open}, nil)
}

// Save asks the server to persist the park.
func (c *Client) Save(ctx context.Context) (*SaveResult, error) {
	var out SaveResult
	if err := c.postJSON(ctx, "/api/v1/save", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// command posts a game command. Game-level failures come back as a Result
// with Success false, not as an error.
func (c *Client) command(ctx context.Context, path string, payload any) (engine.Result, error) {
	var res engine.Result
	status, body, err := c.post(ctx, path, payload)
	if err != nil {
		return res, err
	}
	switch status {
	case http.StatusOK, http.StatusNotFound, http.StatusPaymentRequired, http.StatusConflict:
	default:
		return res, fmt.Errorf("POST %s returned %d: %s", path, status, string(body))
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return res, fmt.Errorf("decode %s: %w", path, err)
	}
	return res, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) error {
	status, body, err := c.post(ctx, path, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("POST %s returned %d: %s", path, status, string(body))
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AdminKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
