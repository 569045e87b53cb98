package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/projectvantage/vantage/internal/adapters/repository"
	"github.com/projectvantage/vantage/internal/config"
	"github.com/projectvantage/vantage/pkg/logger"
)

func fakeBackend() *httptest.Server {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("session")
		return err == nil && c.Value == "ok"
	}
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok", Path: "/", MaxAge: 3600, HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful!"})
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})
	mux.HandleFunc("/api/check_session", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"logged_in": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logged_in": true, "user_id": 9})
	})
	mux.HandleFunc("/api/port-scan", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Login required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"host": "x", "port": "443", "status": "open"})
	})
	mux.HandleFunc("/api/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"hero_metrics": map[string]any{"median_latency": "42ms"}})
	})
	mux.HandleFunc("/api/dashboard/timeline", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"timeline": []any{}})
	})
	mux.HandleFunc("/api/dashboard/watchlist", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"watchlist": []any{}})
	})
	return httptest.NewServer(mux)
}

// run executes the CLI once with a fresh root command.
func run(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCommand(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given the CLI against a fake backend", t, func() {
		be := fakeBackend()
		defer be.Close()

		sessionFile := filepath.Join(t.TempDir(), "session.json")
		_ = os.Setenv("VANTAGE_SESSION_FILE", sessionFile)
		_ = os.Setenv("VANTAGE_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
		defer func() {
			_ = os.Unsetenv("VANTAGE_SESSION_FILE")
			_ = os.Unsetenv("VANTAGE_ENV_FILE")
		}()
		base := "--base-url=" + be.URL

		convey.Convey("When logging in with the password on stdin", func() {
			out, err := run("pw\n", "login", "--email", "ops@example.com", base)

			convey.Convey("Then the session is saved for later commands", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Login successful!")
				convey.So(out, convey.ShouldContainSubstring, "dashboard.html")
				data, readErr := os.ReadFile(sessionFile)
				convey.So(readErr, convey.ShouldBeNil)
				var saved repository.Session
				convey.So(json.Unmarshal(data, &saved), convey.ShouldBeNil)
				convey.So(saved.Cookies, convey.ShouldHaveLength, 1)
				convey.So(saved.Cookies[0].HTTPOnly, convey.ShouldBeTrue)
				convey.So(saved.Cookies[0].Expires.IsZero(), convey.ShouldBeFalse)

				out, err = run("", "session", base)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "user_id: 9")

				out, err = run("", "scan", "x", "443", base)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Port 443 is OPEN")

				out, err = run("", "dashboard", base)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "42ms")
			})

			convey.Convey("Then logout removes the saved session", func() {
				out, err := run("", "logout", base)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "login.html")
				_, statErr := os.Stat(sessionFile)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)

				_, err = run("", "dashboard", base)
				convey.So(errors.Is(err, errReported), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the password is wrong", func() {
			out, err := run("", "login", "--email", "ops@example.com", "--password", "nope", base)

			convey.So(errors.Is(err, errReported), convey.ShouldBeTrue)
			convey.So(out, convey.ShouldContainSubstring, "Invalid email or password")
		})

		convey.Convey("When a diagnostic is run without a session", func() {
			out, err := run("", "scan", "x", "443", base)

			convey.So(errors.Is(err, errReported), convey.ShouldBeTrue)
			convey.So(out, convey.ShouldContainSubstring, "Port Scan failed: Login required")
		})

		convey.Convey("When the base URL is invalid", func() {
			_, err := run("", "session", "--base-url=ftp://nope")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, errReported), convey.ShouldBeFalse)
		})
	})
}

func TestConsoleServer(t *testing.T) {
	convey.Convey("Given the serve command", t, func() {
		var out bytes.Buffer
		root := newRootCommand(nil, &out, &bytes.Buffer{})
		root.SetArgs([]string{"serve", "--help"})

		convey.So(root.Execute(), convey.ShouldBeNil)
		convey.So(out.String(), convey.ShouldContainSubstring, "--addr")
	})

	convey.Convey("Given a CLI with default config", t, func() {
		c := &cli{cfg: config.New(), log: logger.Nop()}

		convey.Convey("When the console server is built", func() {
			srv, err := c.newConsoleServer(context.Background())

			convey.So(err, convey.ShouldBeNil)
			convey.So(srv.Addr, convey.ShouldEqual, "127.0.0.1:9090")
			convey.So(srv.WriteTimeout > c.cfg.RequestTimeout(), convey.ShouldBeTrue)

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			w = httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login.html", nil))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When serving is cancelled", func() {
			c.cfg.Addr = "127.0.0.1:0"
			srv, err := c.newConsoleServer(context.Background())
			convey.So(err, convey.ShouldBeNil)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			convey.So(c.serve(ctx, srv), convey.ShouldBeNil)
		})
	})
}
