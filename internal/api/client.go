package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pefman/spell-duel/internal/models"
	"github.com/pefman/spell-duel/internal/stats"
)

var defaultHTTPClient = &http.Client{Timeout: 8 * time.Second}

// Config holds API configuration
type Config struct {
	BaseURL string
}

// Client talks to a duel server.
type Client struct {
	config Config
	http   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		config: Config{BaseURL: baseURL},
		http:   defaultHTTPClient,
	}
}

// WithHTTPClient swaps the underlying http.Client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// StatusError is returned for any non-200 reply.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Code)
	}
	return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}
	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var env struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &StatusError{Code: resp.StatusCode, Message: env.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// State fetches GET /api/state.
func (c *Client) State(ctx context.Context) (models.State, error) {
	var st models.State
	err := c.do(ctx, http.MethodGet, "/api/state", nil, &st)
	return st, err
}

// Cast posts a spell for the player.
func (c *Client) Cast(ctx context.Context, spell string) (models.Outcome, error) {
	var o models.Outcome
	err := c.do(ctx, http.MethodPost, "/api/spell", models.SpellRequest{Spell: spell}, &o)
	return o, err
}

// EnemyTurn asks the server to play the enemy.
func (c *Client) EnemyTurn(ctx context.Context) (models.Outcome, error) {
	var o models.Outcome
	err := c.do(ctx, http.MethodPost, "/api/enemy_turn", nil, &o)
	return o, err
}

// Reset restarts the duel.
func (c *Client) Reset(ctx context.Context) (models.Outcome, error) {
	return c.Cast(ctx, "reset")
}

// Stats fetches the battle statistics.
func (c *Client) Stats(ctx context.Context) (stats.Summary, error) {
	var s stats.Summary
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &s)
	return s, err
}
