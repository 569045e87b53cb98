// Package session decides whether protected pages may render. The guard is
// fail-closed: only a positive answer from the backend keeps the user on the page.
package session

import (
	"context"
	"errors"

	"github.com/projectvantage/vantage/internal/domain/model"
	"github.com/projectvantage/vantage/pkg/logger"
	"github.com/projectvantage/vantage/pkg/metrics"
)

// ErrNotAuthenticated is attached to a redirect when the backend answered
// but did not confirm the session.
var ErrNotAuthenticated = errors.New("session not authenticated")

// Checker asks the backend about the current session.
type Checker interface {
	CheckSession(ctx context.Context) (model.SessionStatus, error)
}

// statusCoder is implemented by errors that carry an HTTP answer, meaning the
// backend was reached and said no.
type statusCoder interface {
	StatusCode() int
}

// Decision is the outcome of a session check.
type Decision int

const (
	// RedirectLogin is the zero value so an unset Decision never grants access.
	RedirectLogin Decision = iota
	Stay
)

func (d Decision) String() string {
	if d == Stay {
		return "stay"
	}
	return "redirect-login"
}

// Result carries the decision plus what led to it.
type Result struct {
	Decision Decision
	Status   model.SessionStatus
	Cause    error
}

// Allowed reports whether protected content may be shown.
func (r Result) Allowed() bool { return r.Decision == Stay }

// Guard verifies the session once per page load. No retries.
type Guard struct {
	checker Checker
	logger  logger.Logger
}

// Option applies a configuration option to the Guard.
type Option func(*Guard)

// WithLogger sets a custom logger for the guard.
func WithLogger(l logger.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard creates a Guard backed by checker.
func NewGuard(checker Checker, opts ...Option) *Guard {
	g := &Guard{checker: checker, logger: logger.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Verify issues a single session check. Every error, whether a rejected
// status, a transport failure or a cancelled context, redirects to login.
func (g *Guard) Verify(ctx context.Context) Result {
	if g.checker == nil {
		metrics.RecordSessionCheck(metrics.OutcomeFailed)
		return Result{Decision: RedirectLogin, Cause: errors.New("no session checker configured")}
	}

	status, err := g.checker.CheckSession(ctx)
	if err != nil {
		outcome := metrics.OutcomeFailed
		var sc statusCoder
		if errors.As(err, &sc) {
			outcome = metrics.OutcomeRejected
		}
		metrics.RecordSessionCheck(outcome)
		g.logger.Info(ctx, "session check failed; redirecting to login",
			logger.String("outcome", outcome), logger.Error(err))
		return Result{Decision: RedirectLogin, Cause: errors.Join(ErrNotAuthenticated, err)}
	}

	metrics.RecordSessionCheck(metrics.OutcomeValid)
	return Result{Decision: Stay, Status: status}
}
