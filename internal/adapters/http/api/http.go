// Package api serves the browser console: the login, signup and dashboard
// pages, the diagnostic forms and the metrics endpoint.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	service "github.com/projectvantage/vantage/internal/app"
	"github.com/projectvantage/vantage/internal/domain/model"
	"github.com/projectvantage/vantage/internal/view"
	"github.com/projectvantage/vantage/pkg/logger"
)

const defaultVisitorCacheSize = 1024

// Server wires HTTP routes for the console.
type Server struct {
	healthHandler *HealthHandler
	visitors      *visitors
	logger        logger.Logger
	cacheSize     int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVisitorCacheSize bounds how many visitor sessions are kept.
func WithVisitorCacheSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// NewServer creates a console server. factory is called once per new visitor.
func NewServer(factory ConsoleFactory, opts ...Option) (*Server, error) {
	s := &Server{
		healthHandler: NewHealthHandler(),
		logger:        logger.Nop(),
		cacheSize:     defaultVisitorCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	vs, err := newVisitors(s.cacheSize, factory, s.logger)
	if err != nil {
		return nil, err
	}
	s.visitors = vs
	return s, nil
}

// Register attaches all console routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.handleAuthPage(model.AuthLogin), "login_page"))
	mux.HandleFunc("GET /login.html", MetricsMiddleware(s.handleAuthPage(model.AuthLogin), "login_page"))
	mux.HandleFunc("GET /signup.html", MetricsMiddleware(s.handleAuthPage(model.AuthSignup), "signup_page"))
	mux.HandleFunc("POST /login", MetricsMiddleware(s.handleAuthSubmit(model.AuthLogin), "login"))
	mux.HandleFunc("POST /signup", MetricsMiddleware(s.handleAuthSubmit(model.AuthSignup), "signup"))
	mux.HandleFunc("GET /dashboard.html", MetricsMiddleware(s.handleDashboard, "dashboard"))
	mux.HandleFunc("POST /tools/{tool}", MetricsMiddleware(s.handleTool, "tools"))
	mux.HandleFunc("POST /logout", MetricsMiddleware(s.handleLogout, "logout"))
}

func (s *Server) handleAuthPage(mode model.AuthMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, func(w io.Writer) error {
			return view.RenderAuth(w, view.AuthForm{Mode: mode})
		})
	}
}

func (s *Server) handleAuthSubmit(mode model.AuthMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
			return
		}
		console, err := s.visitors.get(w, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		form := console.SubmitAuth(r.Context(), mode, model.Credentials{
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		})
		if form.Navigate != "" {
			redirect(w, r, form.Navigate)
			return
		}
		s.render(w, r, http.StatusOK, func(w io.Writer) error {
			return view.RenderAuth(w, form)
		})
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	console, ok := s.visitors.lookup(r)
	if !ok {
		redirect(w, r, view.PageLogin)
		return
	}
	d, ok := console.LoadDashboard(r.Context())
	if !ok {
		redirect(w, r, view.PageLogin)
		return
	}
	s.render(w, r, http.StatusOK, func(w io.Writer) error {
		return view.RenderDashboard(w, d)
	})
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := model.ParseTool(r.PathValue("tool"))
	if !ok {
		http.Error(w, ErrUnknownTool.Error(), http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	console, ok := s.visitors.lookup(r)
	if !ok {
		redirect(w, r, view.PageLogin)
		return
	}

	panel, err := console.RunTool(r.Context(), tool, model.DiagnosticRequest{
		Host: r.PostFormValue("host"),
		Port: r.PostFormValue("port"),
	})
	if errors.Is(err, service.ErrSuperseded) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// The page is rebuilt from fresh data; only this submission's panel is shown.
	d, ok := console.LoadDashboard(r.Context())
	if !ok {
		redirect(w, r, view.PageLogin)
		return
	}
	d = d.WithPanel(panel)
	s.render(w, r, http.StatusOK, func(w io.Writer) error {
		return view.RenderDashboard(w, d)
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if console, ok := s.visitors.lookup(r); ok {
		console.Logout(r.Context())
	}
	s.visitors.forget(w, r)
	redirect(w, r, view.PageLogin)
}

// render buffers the page so a template error can still produce a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "console request failed",
		logger.String("path", r.URL.Path), logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, page view.Page) {
	http.Redirect(w, r, "/"+string(page), http.StatusSeeOther)
}
