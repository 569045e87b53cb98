// Package repository persists the CLI's backend session between commands.
package repository

import (
	"context"
	"net/http"
	"time"
)

// Cookie is the persisted form of one backend cookie.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Session is what the CLI remembers about a login.
type Session struct {
	BaseURL string    `json:"base_url"`
	Email   string    `json:"email,omitempty"`
	Cookies []Cookie  `json:"cookies"`
	SavedAt time.Time `json:"saved_at"`
}

// Store provides read/write access to the saved session.
type Store interface {
	// Load returns the saved session, or ErrNotFound when there is none.
	Load(ctx context.Context) (Session, error)
	// Save replaces the saved session.
	Save(ctx context.Context, s Session) error
	// Clear removes the saved session. Clearing an absent session is not an error.
	Clear(ctx context.Context) error
}

// FromHTTP converts cookies read from a jar.
func FromHTTP(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		})
	}
	return out
}

// HTTPCookies converts saved cookies back for a jar, dropping expired ones.
func (s Session) HTTPCookies(now time.Time) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		out = append(out, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	return out
}
