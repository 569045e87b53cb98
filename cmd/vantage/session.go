package main

import (
	"context"
	"errors"
	"time"

	"github.com/projectvantage/vantage/internal/adapters/backend"
	"github.com/projectvantage/vantage/internal/adapters/repository"
	service "github.com/projectvantage/vantage/internal/app"
	"github.com/projectvantage/vantage/pkg/logger"
)

// session is a console bound to the saved backend cookies.
type session struct {
	console *service.Console
	client  *backend.Client
	store   *repository.FileStore
	email   string
}

func (c *cli) newClient() (*backend.Client, error) {
	return backend.New(c.cfg.BaseURL,
		backend.WithTimeout(c.cfg.RequestTimeout()),
		backend.WithSessionPath(c.cfg.SessionPath),
		backend.WithPortScanPath(c.cfg.PortScanPath),
		backend.WithLogger(c.log.Named("backend")),
	)
}

// openSession restores the cookies saved for the configured backend, if any.
func (c *cli) openSession(ctx context.Context) (*session, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	store, err := repository.NewFileStore(c.cfg.SessionFile, repository.WithLogger(c.log.Named("session-store")))
	if err != nil {
		return nil, err
	}

	s := &session{client: client, store: store}
	saved, err := store.Load(ctx)
	switch {
	case err == nil && saved.BaseURL == client.BaseURL():
		client.SetCookies(saved.HTTPCookies(time.Now()))
		s.email = saved.Email
	case err == nil:
		c.log.Debug(ctx, "saved session belongs to another backend", logger.String("saved", saved.BaseURL))
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrCorrupt):
	default:
		return nil, err
	}

	s.console = service.New(client, service.WithLogger(c.log), service.WithUserID(s.email))
	return s, nil
}

// save writes the client's current cookies back.
func (s *session) save(ctx context.Context) error {
	return s.store.Save(ctx, repository.Session{
		BaseURL: s.client.BaseURL(),
		Email:   s.email,
		Cookies: repository.FromHTTP(s.client.Cookies()),
		SavedAt: time.Now().UTC(),
	})
}
