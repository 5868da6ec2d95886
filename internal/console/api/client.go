// Package api is the console's client for the greenhouse platform REST API.
// One Client instance is shared by all views; it owns the bearer token it
// attaches to outgoing requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenhouse-iot/console/internal/console/models"
)

// Options configures a Client.
type Options struct {
	// Addr is the base URL of the platform API, e.g. "http://localhost:8080".
	Addr string
	// Timeout bounds each request. Defaults to 20s.
	Timeout time.Duration
}

// Client talks JSON to the platform API.
type Client struct {
	baseURL *url.URL
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(opt Options) (*Client, error) {
	if opt.Addr == "" {
		return nil, errors.New("addr is required")
	}
	u, err := url.Parse(opt.Addr)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.Host == "" {
		return nil, errors.New("invalid addr")
	}

	timeout := opt.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Client{baseURL: u, hc: &http.Client{Timeout: timeout}}, nil
}

// SetToken arms the Authorization header for all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken disarms the Authorization header.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a bearer token. The token is returned to
// the caller (the session store decides whether to arm and persist it).
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	req.Username = username
	req.Password = password

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/user/login", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListUsers returns the user directory. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]models.DirectoryUser, error) {
	var users []models.DirectoryUser
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers a new account. Admin only.
func (c *Client) CreateUser(ctx context.Context, username, password, role string) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	req.Username = username
	req.Password = password
	req.Role = role
	return c.doJSON(ctx, http.MethodPost, "/users", nil, req, nil)
}

// UserUpdate is a partial update for an existing account; nil fields are
// left unchanged.
type UserUpdate struct {
	Username    *string `json:"username,omitempty"`
	NewPassword *string `json:"newPassword,omitempty"`
	Role        *string `json:"role,omitempty"`
}

// UpdateUser applies a partial update to an account. Admin only.
func (c *Client) UpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	return c.doJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, upd, nil)
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}

// ChangeOwnPassword submits a password change for the logged-in account.
// current is empty on the forced first-login change. The platform rejects a
// wrong current password with either 400 or 401; both are reported as
// ErrIncorrectPassword.
func (c *Client) ChangeOwnPassword(ctx context.Context, current, newPassword string) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	req.CurrentPassword = current
	req.NewPassword = newPassword

	err := c.doJSON(ctx, http.MethodPost, "/users/me/password", nil, req, nil)
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusBadRequest {
		return ErrIncorrectPassword
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrIncorrectPassword
	}
	return err
}

// ListDevices returns all devices visible to the session. A 401 is retried
// once: the platform occasionally rejects the first request after a token
// rotation.
func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	err := c.doJSON(ctx, http.MethodGet, "/device", nil, nil, &devices)
	if errors.Is(err, ErrUnauthorized) {
		devices = nil
		err = c.doJSON(ctx, http.MethodGet, "/device", nil, nil, &devices)
	}
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// AssignDevice attaches a device to an owner. Admin only.
func (c *Client) AssignDevice(ctx context.Context, mac, userID string) error {
	p := "/device/" + url.PathEscape(mac) + "/assign/" + url.PathEscape(userID)
	return c.doJSON(ctx, http.MethodPost, p, nil, nil, nil)
}

// DeleteDevice unregisters a device. Admin only.
func (c *Client) DeleteDevice(ctx context.Context, mac string) error {
	return c.doJSON(ctx, http.MethodDelete, "/device/"+url.PathEscape(mac), nil, nil, nil)
}

// GetSettings fetches a device's environmental settings.
func (c *Client) GetSettings(ctx context.Context, mac string) (*models.DeviceSettings, error) {
	q := url.Values{"dev": {mac}}
	var s models.DeviceSettings
	if err := c.doJSON(ctx, http.MethodGet, "/settings", q, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings replaces a device's environmental settings.
func (c *Client) UpdateSettings(ctx context.Context, mac string, s models.Settings) error {
	q := url.Values{"dev": {mac}}
	return c.doJSON(ctx, http.MethodPut, "/settings", q, s, nil)
}

// GetTelemetry returns up to limit most recent samples for a device.
func (c *Client) GetTelemetry(ctx context.Context, mac string, limit int) ([]models.Telemetry, error) {
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var rows []models.Telemetry
	p := "/telemetry/" + url.PathEscape(mac) + "/telemetry"
	if err := c.doJSON(ctx, http.MethodGet, p, q, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTelemetryRange returns the recorded span and online flag for a device.
func (c *Client) GetTelemetryRange(ctx context.Context, mac string) (*models.TelemetryRange, error) {
	var r models.TelemetryRange
	p := "/telemetry/" + url.PathEscape(mac) + "/range"
	if err := c.doJSON(ctx, http.MethodGet, p, nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if t := c.bearer(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&er)
		msg := er.Error
		if msg == "" {
			msg = er.Message
		}
		return fromStatus(resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}
	return nil
}
