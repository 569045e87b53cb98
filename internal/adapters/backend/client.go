// Package backend is the HTTP client for the Project Vantage backend. Every
// request carries the session cookies held in the client's jar, the way a
// browser sends credentialed requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/projectvantage/vantage/internal/domain/model"
	"github.com/projectvantage/vantage/pkg/logger"
	"github.com/projectvantage/vantage/pkg/metrics"
)

// Backend endpoint paths.
const (
	PathLogin     = "/api/login"
	PathSignup    = "/api/signup"
	PathLogout    = "/api/logout"
	PathPing      = "/api/ping"
	PathTrace     = "/api/traceroute"
	PathSummary   = "/api/dashboard/summary"
	PathTimeline  = "/api/dashboard/timeline"
	PathWatchlist = "/api/dashboard/watchlist"
)

const (
	maxResponseBytes = 4 << 20
	requestIDHeader  = "X-Request-ID"
)

// Client talks to one backend origin with one cookie jar.
type Client struct {
	base         *url.URL
	http         *http.Client
	jar          *sessionJar
	transport    http.RoundTripper
	timeout      time.Duration
	sessionPath  string
	portScanPath string
	logger       logger.Logger
}

// New creates a Client for baseURL, e.g. "http://127.0.0.1:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadBaseURL, baseURL)
	}

	c := &Client{
		base:         u,
		jar:          newSessionJar(),
		transport:    http.DefaultTransport,
		sessionPath:  DefaultSessionPath,
		portScanPath: DefaultPortScanPath,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Transport: c.transport,
		Jar:       c.jar,
		Timeout:   c.timeout,
	}
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string { return c.base.String() }

// Cookies returns the session cookies currently held for the backend, with
// the path, domain, expiry and flags they were set with.
func (c *Client) Cookies() []*http.Cookie { return c.jar.withAttributes(c.base) }

// SetCookies seeds the jar, e.g. from a saved session.
func (c *Client) SetCookies(cookies []*http.Cookie) { c.jar.SetCookies(c.base, cookies) }

// ClearCookies drops every cookie the client holds.
func (c *Client) ClearCookies() { c.jar.reset() }

// CheckSession asks the backend whether the session cookie is valid. Any
// non-2xx answer is returned as a *StatusError.
func (c *Client) CheckSession(ctx context.Context) (model.SessionStatus, error) {
	data, err := c.do(ctx, http.MethodGet, c.sessionPath, nil)
	if err != nil {
		return model.SessionStatus{}, err
	}
	status, err := model.DecodeSessionStatus(data)
	if err != nil {
		// The status code already said yes; a body we cannot read does not change that.
		c.logger.Debug(ctx, "ignoring unreadable session body", logger.Error(err))
		return model.SessionStatus{LoggedIn: true}, nil
	}
	return status, nil
}

// Login posts credentials and, on success, the jar holds the session cookie.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.MessageResponse, error) {
	return c.postMessage(ctx, PathLogin, creds)
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, creds model.Credentials) (model.MessageResponse, error) {
	return c.postMessage(ctx, PathSignup, creds)
}

// Logout asks the backend to clear the session.
func (c *Client) Logout(ctx context.Context) (model.MessageResponse, error) {
	return c.postMessage(ctx, PathLogout, nil)
}

// Ping runs a ping from the backend.
func (c *Client) Ping(ctx context.Context, req model.DiagnosticRequest) (model.PingResult, error) {
	data, err := c.do(ctx, http.MethodPost, PathPing, req)
	if err != nil {
		return model.PingResult{}, err
	}
	return model.DecodePingResult(data)
}

// PortScan probes one port from the backend.
func (c *Client) PortScan(ctx context.Context, req model.DiagnosticRequest) (model.PortScanResult, error) {
	data, err := c.do(ctx, http.MethodPost, c.portScanPath, req)
	if err != nil {
		return model.PortScanResult{}, err
	}
	return model.DecodePortScanResult(data)
}

// Traceroute traces the route to a host from the backend.
func (c *Client) Traceroute(ctx context.Context, req model.DiagnosticRequest) (model.TracerouteResult, error) {
	data, err := c.do(ctx, http.MethodPost, PathTrace, req)
	if err != nil {
		return model.TracerouteResult{}, err
	}
	return model.DecodeTracerouteResult(data)
}

// DashboardSummary fetches hero metrics and the overview grid.
func (c *Client) DashboardSummary(ctx context.Context) (model.DashboardSummary, error) {
	data, err := c.do(ctx, http.MethodGet, PathSummary, nil)
	if err != nil {
		return model.DashboardSummary{}, err
	}
	return model.DecodeDashboardSummary(data)
}

// Timeline fetches the incident timeline.
func (c *Client) Timeline(ctx context.Context) ([]model.TimelineEntry, error) {
	data, err := c.do(ctx, http.MethodGet, PathTimeline, nil)
	if err != nil {
		return nil, err
	}
	return model.DecodeTimeline(data)
}

// Watchlist fetches the signal watchlist.
func (c *Client) Watchlist(ctx context.Context) ([]model.WatchlistItem, error) {
	data, err := c.do(ctx, http.MethodGet, PathWatchlist, nil)
	if err != nil {
		return nil, err
	}
	return model.DecodeWatchlist(data)
}

func (c *Client) postMessage(ctx context.Context, path string, body any) (model.MessageResponse, error) {
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return model.MessageResponse{}, err
	}
	return model.DecodeMessage(data)
}

// do sends one request and returns the body of a 2xx response. Transport
// failures wrap ErrNetwork; other statuses come back as *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackendNetworkError(path)
		c.logger.Debug(ctx, "backend request failed",
			logger.String("method", method), logger.String("path", path),
			logger.String("request_id", reqID), logger.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(start)
	metrics.RecordBackendRequest(path, method, strconv.Itoa(resp.StatusCode), float64(elapsed.Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: reading body: %w", ErrNetwork, method, path, err)
	}

	c.logger.Debug(ctx, "backend request",
		logger.String("method", method), logger.String("path", path),
		logger.Int("status", resp.StatusCode), logger.Duration("elapsed", elapsed),
		logger.String("request_id", reqID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Status: resp.StatusCode}
		if msg, derr := model.DecodeMessage(data); derr == nil {
			se.Message = msg.Text()
		}
		return nil, se
	}
	return data, nil
}
