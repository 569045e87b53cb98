// Package site serves the console's embedded static assets.
package site

import (
	"context"
	"net/http"
)

// Prefix is the URL path the assets are served under.
const Prefix = "/static/"

// Register attaches the asset routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET "+Prefix, http.StripPrefix(Prefix, cacheControl(http.FileServer(FS()))))
}

func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
