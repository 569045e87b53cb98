package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectvantage/vantage/internal/adapters/http/api"
	"github.com/projectvantage/vantage/internal/adapters/http/site"
	service "github.com/projectvantage/vantage/internal/app"
	"github.com/projectvantage/vantage/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func (c *cli) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			srv, err := c.newConsoleServer(cmd.Context())
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides addr")
	return cmd
}

func (c *cli) newConsoleServer(ctx context.Context) (*http.Server, error) {
	consoles, err := api.NewServer(func() (*service.Console, error) {
		client, err := c.newClient()
		if err != nil {
			return nil, err
		}
		return service.New(client, service.WithLogger(c.log.Named("console"))), nil
	}, api.WithLogger(c.log.Named("http")), api.WithVisitorCacheSize(c.cfg.VisitorCacheSize))
	if err != nil {
		return nil, err
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	consoles.Register(ctx, mux)

	// Diagnostics may wait on the backend for the whole request timeout.
	writeTimeout := c.cfg.RequestTimeout() + readTimeout
	if c.cfg.RequestTimeoutMS == 0 {
		writeTimeout = 0
	}
	return &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, nil
}

func (c *cli) serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)

	// Start the HTTP server
	go func() {
		c.log.Info(ctx, "starting console", logger.String("addr", srv.Addr), logger.String("backend", c.cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	c.log.Info(ctx, "shutting down console...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.log.Error(ctx, "console shutdown failed", logger.Error(err))
		return err
	}

	c.log.Info(ctx, "console stopped")
	return nil
}
