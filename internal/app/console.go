// Package service drives the console pages: it turns form submissions and
// page loads into backend calls and returns view state for the renderers.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/projectvantage/vantage/internal/domain/generation"
	"github.com/projectvantage/vantage/internal/domain/model"
	"github.com/projectvantage/vantage/internal/domain/session"
	"github.com/projectvantage/vantage/internal/view"
	"github.com/projectvantage/vantage/pkg/logger"
	"github.com/projectvantage/vantage/pkg/metrics"
)

// ErrSuperseded is returned for a diagnostic whose response arrived after a
// newer submission of the same tool. The result must not be shown.
var ErrSuperseded = generation.ErrSuperseded

// Backend is the subset of the backend client the console uses.
type Backend interface {
	session.Checker
	Login(ctx context.Context, creds model.Credentials) (model.MessageResponse, error)
	Signup(ctx context.Context, creds model.Credentials) (model.MessageResponse, error)
	Logout(ctx context.Context) (model.MessageResponse, error)
	Ping(ctx context.Context, req model.DiagnosticRequest) (model.PingResult, error)
	PortScan(ctx context.Context, req model.DiagnosticRequest) (model.PortScanResult, error)
	Traceroute(ctx context.Context, req model.DiagnosticRequest) (model.TracerouteResult, error)
	DashboardSummary(ctx context.Context) (model.DashboardSummary, error)
	Timeline(ctx context.Context) ([]model.TimelineEntry, error)
	Watchlist(ctx context.Context) ([]model.WatchlistItem, error)
	ClearCookies()
}

// Console serves one user session against one backend client.
type Console struct {
	backend Backend
	guard   *session.Guard
	tracker generation.Tracker
	logger  logger.Logger

	mu     sync.Mutex
	userID string
}

// New creates a Console backed by b.
func New(b Backend, opts ...Option) *Console {
	c := &Console{backend: b, logger: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.guard = session.NewGuard(b, session.WithLogger(c.logger.Named("session")))
	return c
}

// CheckSession runs the session guard.
func (c *Console) CheckSession(ctx context.Context) session.Result {
	return c.guard.Verify(ctx)
}

// SubmitAuth handles the login and signup forms.
func (c *Console) SubmitAuth(ctx context.Context, mode model.AuthMode, creds model.Credentials) view.AuthForm {
	form := view.AuthForm{Mode: mode, Email: creds.Email}

	creds, err := creds.Validate()
	if err != nil {
		form.Message = &view.Message{Kind: view.MessageError, Text: msgMissingCredentials}
		return form
	}

	call, fallback := c.backend.Login, msgLoginOK
	if mode == model.AuthSignup {
		call, fallback = c.backend.Signup, msgSignupOK
	}

	resp, err := call(ctx, creds)
	if err != nil {
		text, ok := describe(err)
		if !ok {
			c.logger.Warn(ctx, "auth request failed", logger.String("mode", string(mode)), logger.Error(err))
			text = msgAuthNetwork
		}
		form.Message = &view.Message{Kind: view.MessageError, Text: text}
		return form
	}

	text := resp.Text()
	if text == "" {
		text = fallback
	}
	form.Email = ""
	form.Message = &view.Message{Kind: view.MessageSuccess, Text: text}
	if mode == model.AuthLogin {
		form.Navigate = view.PageDashboard
		c.mu.Lock()
		c.userID = creds.Email
		c.mu.Unlock()
	}
	c.logger.Info(ctx, "auth succeeded", logger.String("mode", string(mode)))
	return form
}

// Ping runs the ping form.
func (c *Console) Ping(ctx context.Context, req model.DiagnosticRequest) (view.DiagnosticPanel, error) {
	return runDiagnostic(ctx, c, model.ToolPing, req, c.backend.Ping, view.PingPanel)
}

// PortScan runs the port-scan form.
func (c *Console) PortScan(ctx context.Context, req model.DiagnosticRequest) (view.DiagnosticPanel, error) {
	return runDiagnostic(ctx, c, model.ToolPortScan, req, c.backend.PortScan, view.PortScanPanel)
}

// Traceroute runs the traceroute form.
func (c *Console) Traceroute(ctx context.Context, req model.DiagnosticRequest) (view.DiagnosticPanel, error) {
	return runDiagnostic(ctx, c, model.ToolTraceroute, req, c.backend.Traceroute, view.TraceroutePanel)
}

// RunTool dispatches to the handler for tool.
func (c *Console) RunTool(ctx context.Context, tool model.Tool, req model.DiagnosticRequest) (view.DiagnosticPanel, error) {
	switch tool {
	case model.ToolPing:
		return c.Ping(ctx, req)
	case model.ToolPortScan:
		return c.PortScan(ctx, req)
	case model.ToolTraceroute:
		return c.Traceroute(ctx, req)
	}
	return view.DiagnosticPanel{}, fmt.Errorf("unknown tool %q", tool)
}

// runDiagnostic validates the form, sends it under a fresh generation and
// builds the panel. A response for an older generation yields ErrSuperseded.
func runDiagnostic[T any](
	ctx context.Context,
	c *Console,
	tool model.Tool,
	req model.DiagnosticRequest,
	call func(context.Context, model.DiagnosticRequest) (T, error),
	build func(model.DiagnosticRequest, T) view.DiagnosticPanel,
) (view.DiagnosticPanel, error) {
	req, err := req.Validate(tool)
	if err != nil {
		return view.PromptPanel(tool, req, tool.Prompt()), nil
	}

	metrics.RecordDiagnosticSubmission(string(tool))
	rctx, ticket := c.tracker.Begin(ctx, string(tool))
	res, err := call(rctx, req)
	if cerr := c.tracker.Commit(ticket); cerr != nil {
		metrics.RecordDiagnosticSuperseded(string(tool))
		c.logger.Debug(ctx, "discarding stale diagnostic response",
			logger.String("tool", string(tool)), logger.Any("generation", ticket.Gen))
		return view.DiagnosticPanel{}, cerr
	}

	if err != nil {
		text, ok := describe(err)
		if !ok {
			c.logger.Warn(ctx, "diagnostic request failed", logger.String("tool", string(tool)), logger.Error(err))
			return view.ErrorPanel(tool, req, msgToolNetwork), nil
		}
		return view.ErrorPanel(tool, req, tool.Title()+" failed: "+text), nil
	}
	return build(req, res), nil
}

// LoadDashboard runs the session guard and, if it passes, fetches every
// dashboard section concurrently. ok is false when the user must log in.
func (c *Console) LoadDashboard(ctx context.Context) (view.Dashboard, bool) {
	res := c.guard.Verify(ctx)
	if !res.Allowed() {
		return view.Dashboard{}, false
	}

	d := view.Dashboard{UserID: res.Status.UserID.String()}
	if d.UserID == "" {
		c.mu.Lock()
		d.UserID = c.userID
		c.mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s, err := c.backend.DashboardSummary(ctx)
		if err != nil {
			d.SummaryErr = c.sectionError(ctx, "Summary", err)
			return
		}
		d.Hero = view.HeroCards(s.HeroMetrics)
		if g := s.OverviewGrid; g != nil {
			if err := g.Validate(); err != nil {
				d.OverviewErr = c.sectionError(ctx, "Overview", err)
				return
			}
			d.Overview = view.OverviewCards(g)
		}
	}()
	go func() {
		defer wg.Done()
		entries, err := c.backend.Timeline(ctx)
		if err != nil {
			d.TimelineErr = c.sectionError(ctx, "Timeline", err)
			return
		}
		d.Timeline = view.TimelineItems(entries)
	}()
	go func() {
		defer wg.Done()
		rows, err := c.backend.Watchlist(ctx)
		if err != nil {
			d.WatchlistErr = c.sectionError(ctx, "Watchlist", err)
			return
		}
		d.Watchlist = view.WatchItems(rows)
	}()
	wg.Wait()

	return d, true
}

func (c *Console) sectionError(ctx context.Context, section string, err error) string {
	c.logger.Warn(ctx, "dashboard section failed", logger.String("section", section), logger.Error(err))
	text, ok := describe(err)
	if !ok {
		text = msgToolNetwork
	}
	return fmt.Sprintf(msgSectionUnavailable, section, text)
}

// Logout asks the backend to end the session and always leads to the login
// page. The local cookies are dropped whatever the backend answers.
func (c *Console) Logout(ctx context.Context) view.AuthForm {
	if _, err := c.backend.Logout(ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn(ctx, "logout request failed", logger.Error(err))
	}
	c.backend.ClearCookies()
	c.mu.Lock()
	c.userID = ""
	c.mu.Unlock()
	return view.AuthForm{Mode: model.AuthLogin, Navigate: view.PageLogin}
}
