package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	service "github.com/projectvantage/vantage/internal/app"
	"github.com/projectvantage/vantage/pkg/logger"
	"github.com/projectvantage/vantage/pkg/metrics"
)

// VisitorCookie names the console's own cookie. It maps a browser to its
// backend session and never carries backend cookies.
const VisitorCookie = "vantage_console"

// ConsoleFactory creates a console with a fresh backend session.
type ConsoleFactory func() (*service.Console, error)

// visitors keeps a bounded set of consoles, one per browser. The least
// recently seen visitor is dropped first and has to log in again.
type visitors struct {
	cache   *lru.Cache[string, *service.Console]
	factory ConsoleFactory
	logger  logger.Logger
}

func newVisitors(size int, factory ConsoleFactory, l logger.Logger) (*visitors, error) {
	vs := &visitors{factory: factory, logger: l}
	// The callback runs after the cache releases its lock, so Len is safe here.
	cache, err := lru.NewWithEvict(size, func(id string, _ *service.Console) {
		metrics.UpdateVisitors(vs.cache.Len())
		vs.logger.Debug(context.Background(), "visitor evicted", logger.String("visitor", id))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create visitor cache: %w", err)
	}
	vs.cache = cache
	return vs, nil
}

// lookup returns the visitor for r without creating one.
func (vs *visitors) lookup(r *http.Request) (*service.Console, bool) {
	c, err := r.Cookie(VisitorCookie)
	if err != nil {
		return nil, false
	}
	return vs.cache.Get(c.Value)
}

// get returns the visitor for r, creating one and setting its cookie when needed.
func (vs *visitors) get(w http.ResponseWriter, r *http.Request) (*service.Console, error) {
	if v, ok := vs.lookup(r); ok {
		return v, nil
	}

	console, err := vs.factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNewConsole, err)
	}
	id := uuid.NewString()
	vs.cache.Add(id, console)
	metrics.UpdateVisitors(vs.cache.Len())

	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	vs.logger.Debug(r.Context(), "visitor created", logger.String("visitor", id))
	return console, nil
}

// forget drops the visitor behind r, if any, and expires its cookie.
func (vs *visitors) forget(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(VisitorCookie)
	if err != nil {
		return
	}
	vs.cache.Remove(c.Value)
	metrics.UpdateVisitors(vs.cache.Len())
	http.SetCookie(w, &http.Cookie{Name: VisitorCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
