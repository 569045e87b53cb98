package backend

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// sessionJar is a cookie jar that can be reset while requests are in flight.
// Cookies scoped to a public suffix (e.g. onrender.com) are refused.
//
// cookiejar only hands back name and value, so the attributes of each
// Set-Cookie are kept alongside and merged back in by Cookies.
type sessionJar struct {
	mu    sync.RWMutex
	inner *cookiejar.Jar
	attrs map[string]http.Cookie
	now   func() time.Time
}

func newSessionJar() *sessionJar {
	return &sessionJar{inner: newCookieJar(), attrs: map[string]http.Cookie{}, now: time.Now}
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	for _, c := range cookies {
		a := http.Cookie{
			Name:     c.Name,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			a.Expires = j.now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.attrs[c.Name] = a
	}
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

// withAttributes returns the cookies the jar would send to u, carrying the
// attributes they were set with.
func (j *sessionJar) withAttributes(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	cookies := j.inner.Cookies(u)
	for i, c := range cookies {
		a, ok := j.attrs[c.Name]
		if !ok {
			continue
		}
		a.Value = c.Value
		cookies[i] = &a
	}
	return cookies
}

func (j *sessionJar) reset() {
	j.mu.Lock()
	j.inner = newCookieJar()
	j.attrs = map[string]http.Cookie{}
	j.mu.Unlock()
}
