package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/projectvantage/vantage/internal/adapters/backend"
	"github.com/projectvantage/vantage/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeBackend mimics the Flask backend: login sets a session cookie that the
// session check and dashboard endpoints require.
type fakeBackend struct {
	requests atomic.Int64
	lastBody map[string]string
	reqIDs   []string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("session")
		return err == nil && c.Value == "user-1"
	}

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body
		if r.Header.Get("Content-Type") != "application/json" || body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "user-1", Path: "/", MaxAge: 3600, HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful!"})
	})
	mux.HandleFunc("/api/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "User with this email already exists!"})
	})
	mux.HandleFunc("/api/check_session", func(w http.ResponseWriter, r *http.Request) {
		f.reqIDs = append(f.reqIDs, r.Header.Get("X-Request-ID"))
		if !authed(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"logged_in": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logged_in": true, "user_id": 1})
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["host"] == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Host to ping is required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"host": body["host"], "status": "online", "time": "5ms", "output": "64 bytes"})
	})
	mux.HandleFunc("/api/port_scan", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body
		writeJSON(w, http.StatusOK, map[string]any{"host": body["host"], "port": body["port"], "open": true, "service": "http"})
	})
	mux.HandleFunc("/api/traceroute", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"raw": "1  10.0.0.1"})
	})
	mux.HandleFunc("/api/dashboard/timeline", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"timeline": []map[string]string{{"time": "09:00", "strong": "Spike", "p": "eu"}}})
	})
	mux.HandleFunc("/api/dashboard/watchlist", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		mux.ServeHTTP(w, r)
	})
}

func TestClientAuthFlow(t *testing.T) {
	Convey("Given a client against a fake backend", t, func() {
		fb := &fakeBackend{}
		srv := httptest.NewServer(fb.handler())
		defer srv.Close()

		client, err := backend.New(srv.URL + "/")
		So(err, ShouldBeNil)
		So(client.BaseURL(), ShouldEqual, srv.URL)
		ctx := context.Background()

		Convey("When checking the session before login", func() {
			_, err := client.CheckSession(ctx)

			Convey("Then a status error is returned", func() {
				se, ok := backend.AsStatus(err)
				So(ok, ShouldBeTrue)
				So(se.Status, ShouldEqual, http.StatusUnauthorized)
				So(errors.Is(err, backend.ErrStatus), ShouldBeTrue)
				So(fb.reqIDs[0], ShouldNotBeEmpty)
			})
		})

		Convey("When logging in with the right password", func() {
			msg, err := client.Login(ctx, model.Credentials{Email: "a@b.c", Password: "secret"})

			Convey("Then the session cookie is kept and sent back", func() {
				So(err, ShouldBeNil)
				So(msg.Text(), ShouldEqual, "Login successful!")
				So(fb.lastBody["email"], ShouldEqual, "a@b.c")
				So(client.Cookies(), ShouldHaveLength, 1)

				status, err := client.CheckSession(ctx)
				So(err, ShouldBeNil)
				So(status.LoggedIn, ShouldBeTrue)
				So(status.UserID.String(), ShouldEqual, "1")
			})

			Convey("Then the cookie keeps the attributes it was set with", func() {
				cookies := client.Cookies()
				So(cookies, ShouldHaveLength, 1)
				So(cookies[0].Value, ShouldEqual, "user-1")
				So(cookies[0].Path, ShouldEqual, "/")
				So(cookies[0].HttpOnly, ShouldBeTrue)
				So(cookies[0].Expires.After(time.Now().Add(50*time.Minute)), ShouldBeTrue)
			})

			Convey("And logout clears the backend session", func() {
				_, err := client.Logout(ctx)
				So(err, ShouldBeNil)
				So(client.Cookies(), ShouldBeEmpty)
			})

			Convey("And ClearCookies drops the session locally", func() {
				client.ClearCookies()
				_, err := client.CheckSession(ctx)
				So(errors.Is(err, backend.ErrStatus), ShouldBeTrue)
			})
		})

		Convey("When logging in with a wrong password", func() {
			_, err := client.Login(ctx, model.Credentials{Email: "a@b.c", Password: "nope"})

			Convey("Then the server message is carried on the error", func() {
				se, ok := backend.AsStatus(err)
				So(ok, ShouldBeTrue)
				So(se.Message, ShouldEqual, "Invalid email or password")
				So(err.Error(), ShouldContainSubstring, "401")
			})
		})

		Convey("When signing up with an existing email", func() {
			_, err := client.Signup(ctx, model.Credentials{Email: "a@b.c", Password: "x"})
			se, ok := backend.AsStatus(err)
			So(ok, ShouldBeTrue)
			So(se.Status, ShouldEqual, http.StatusConflict)
		})

		Convey("When cookies are restored from a previous run", func() {
			client.SetCookies([]*http.Cookie{{Name: "session", Value: "user-1"}})

			_, err := client.CheckSession(ctx)
			So(err, ShouldBeNil)
		})
	})
}

func TestClientDiagnostics(t *testing.T) {
	Convey("Given a client configured for the underscore port-scan path", t, func() {
		fb := &fakeBackend{}
		srv := httptest.NewServer(fb.handler())
		defer srv.Close()

		client, err := backend.New(srv.URL, backend.WithPortScanPath("/api/port_scan"), backend.WithTimeout(time.Second))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When pinging a host", func() {
			res, err := client.Ping(ctx, model.DiagnosticRequest{Host: "x"})
			So(err, ShouldBeNil)
			So(res.Host, ShouldEqual, "x")
			So(res.Status, ShouldEqual, model.PingOnline)
			So(res.Output, ShouldEqual, "64 bytes")
		})

		Convey("When the backend rejects a ping", func() {
			_, err := client.Ping(ctx, model.DiagnosticRequest{})
			se, ok := backend.AsStatus(err)
			So(ok, ShouldBeTrue)
			So(se.Message, ShouldEqual, "Host to ping is required")
		})

		Convey("When scanning a port", func() {
			res, err := client.PortScan(ctx, model.DiagnosticRequest{Host: "x", Port: "80"})
			So(err, ShouldBeNil)
			So(fb.lastBody["port"], ShouldEqual, "80")
			So(res.Open(), ShouldBeTrue)
			So(res.Service, ShouldEqual, "http")
		})

		Convey("When tracing a route", func() {
			res, err := client.Traceroute(ctx, model.DiagnosticRequest{Host: "x"})
			So(err, ShouldBeNil)
			So(res.Output, ShouldEqual, "1  10.0.0.1")
		})
	})
}

func TestClientDashboardAndFailures(t *testing.T) {
	Convey("Given a client against a fake backend", t, func() {
		fb := &fakeBackend{}
		srv := httptest.NewServer(fb.handler())
		defer srv.Close()
		client, err := backend.New(srv.URL)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When the watchlist endpoint answers with HTML", func() {
			_, err := client.Watchlist(ctx)
			So(errors.Is(err, model.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the timeline is fetched without a session", func() {
			_, err := client.Timeline(ctx)
			So(errors.Is(err, backend.ErrStatus), ShouldBeTrue)
		})

		Convey("When the backend is down", func() {
			srv.Close()
			_, err := client.CheckSession(ctx)

			Convey("Then the error is a network error", func() {
				So(errors.Is(err, backend.ErrNetwork), ShouldBeTrue)
				_, isStatus := backend.AsStatus(err)
				So(isStatus, ShouldBeFalse)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := client.Ping(cctx, model.DiagnosticRequest{Host: "x"})
			So(errors.Is(err, backend.ErrNetwork), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given invalid base URLs", t, func() {
		for _, u := range []string{"", "localhost:5000", "ftp://host", "http://"} {
			_, err := backend.New(u)
			So(errors.Is(err, backend.ErrBadBaseURL), ShouldBeTrue)
		}
	})
}
