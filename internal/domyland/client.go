// Package domyland implements the client for the Domyland order-management
// API: authentication, order lookup, status reassignment, and internal chat
// annotations. Bearer tokens are cached with an expiry and refreshed lazily;
// concurrent refreshes collapse into a single auth round-trip.
package domyland

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client defines the Domyland operations the classification pipeline uses.
type Client interface {
	OrderDetails(ctx context.Context, orderID int64) (*OrderDetails, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, update StatusUpdate) (json.RawMessage, error)
	PostChatMessage(ctx context.Context, orderID int64, text string) (json.RawMessage, error)
}

type client struct {
	cfg    *Config
	http   *http.Client
	logger *slog.Logger

	group singleflight.Group

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// New creates a Domyland client with a bounded per-call timeout.
func New(cfg *Config, logger *slog.Logger) Client {
	return &client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "domyland"),
	}
}

func (c *client) OrderDetails(ctx context.Context, orderID int64) (*OrderDetails, error) {
	var details OrderDetails
	path := fmt.Sprintf("/initial-data/dispatcher/order-info/%d", orderID)

	if err := c.call(ctx, "order details", http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *client) UpdateOrderStatus(ctx context.Context, orderID int64, update StatusUpdate) (json.RawMessage, error) {
	var response json.RawMessage
	path := fmt.Sprintf("/orders/%d/status", orderID)

	if err := c.call(ctx, "order status update", http.MethodPut, path, update, &response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) PostChatMessage(ctx context.Context, orderID int64, text string) (json.RawMessage, error) {
	var response json.RawMessage
	body := chatMessageRequest{OrderID: orderID, Text: text, IsImportant: false}

	if err := c.call(ctx, "internal chat post", http.MethodPost, "/order-comments", body, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// call performs an authenticated request. A 401 invalidates the cached token
// and the request is retried once with a fresh one.
func (c *client) call(ctx context.Context, op, method, path string, body, out any) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	status, data, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return fmt.Errorf("domyland %s: %w", op, err)
	}

	if status == http.StatusUnauthorized {
		c.invalidateToken()

		token, err = c.bearerToken(ctx)
		if err != nil {
			return err
		}
		status, data, err = c.do(ctx, method, path, token, body)
		if err != nil {
			return fmt.Errorf("domyland %s: %w", op, err)
		}
	}

	if status < 200 || status > 299 {
		return &UpstreamError{Op: op, Status: status, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("domyland %s: decode response: %w", op, err)
		}
	}
	return nil
}

func (c *client) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("AppName", c.cfg.AppName)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// bearerToken returns the cached token or authenticates for a new one.
// Concurrent callers share a single refresh via singleflight.
func (c *client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExp) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("auth", func() (any, error) {
		token, err := c.authenticate(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.token = token
		c.tokenExp = time.Now().Add(c.cfg.TokenTTLDuration())
		c.mu.Unlock()

		c.logger.Debug("auth token refreshed")
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *client) authenticate(ctx context.Context) (string, error) {
	body := authRequest{
		Email:      c.cfg.Email,
		Password:   c.cfg.Password,
		TenantName: c.cfg.TenantName,
	}

	status, data, err := c.do(ctx, http.MethodPost, "/auth", "", body)
	if err != nil {
		return "", fmt.Errorf("domyland auth: %w", err)
	}
	if status < 200 || status > 299 {
		return "", &UpstreamError{Op: "auth", Status: status, Body: string(data)}
	}

	var auth authResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		return "", fmt.Errorf("domyland auth: decode response: %w", err)
	}
	return auth.Token, nil
}

func (c *client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExp = time.Time{}
	c.mu.Unlock()
}
