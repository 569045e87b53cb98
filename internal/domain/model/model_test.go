package model_test

import (
	"errors"
	"testing"

	model "github.com/projectvantage/vantage/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCredentials(t *testing.T) {
	convey.Convey("Given credentials from a form", t, func() {
		convey.Convey("When the email is padded", func() {
			c, err := model.Credentials{Email: "  a@b.c ", Password: "pw"}.Validate()

			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Email, convey.ShouldEqual, "a@b.c")
		})

		convey.Convey("When the email is blank", func() {
			_, err := model.Credentials{Email: "   ", Password: "pw"}.Validate()

			convey.So(errors.Is(err, model.ErrMissingInput), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "email")
		})

		convey.Convey("When the password is empty", func() {
			_, err := model.Credentials{Email: "a@b.c"}.Validate()

			convey.So(errors.Is(err, model.ErrMissingInput), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "password")
		})
	})
}

func TestDecodeMessage(t *testing.T) {
	convey.Convey("Given message bodies", t, func() {
		m, err := model.DecodeMessage([]byte(`{"message":"Login successful!"}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.Text(), convey.ShouldEqual, "Login successful!")

		m, err = model.DecodeMessage([]byte(`{"error":"Host to ping is required"}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.Text(), convey.ShouldEqual, "Host to ping is required")

		m, err = model.DecodeMessage(nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.Text(), convey.ShouldBeEmpty)

		_, err = model.DecodeMessage([]byte(`<html>`))
		convey.So(errors.Is(err, model.ErrMalformed), convey.ShouldBeTrue)
	})
}

func TestDecodeSessionStatus(t *testing.T) {
	convey.Convey("Given session check bodies", t, func() {
		s, err := model.DecodeSessionStatus([]byte(`{"logged_in":true,"user_id":7}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(s.LoggedIn, convey.ShouldBeTrue)
		convey.So(s.UserID.String(), convey.ShouldEqual, "7")

		s, err = model.DecodeSessionStatus([]byte(""))
		convey.So(err, convey.ShouldBeNil)
		convey.So(s.LoggedIn, convey.ShouldBeFalse)
	})
}

func TestDiagnosticRequest(t *testing.T) {
	convey.Convey("Given diagnostic form input", t, func() {
		convey.Convey("When the host is empty", func() {
			for _, tool := range model.Tools {
				_, err := model.DiagnosticRequest{Host: "  "}.Validate(tool)
				convey.So(errors.Is(err, model.ErrMissingInput), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When a port scan has no port", func() {
			_, err := model.DiagnosticRequest{Host: "example.com"}.Validate(model.ToolPortScan)
			convey.So(errors.Is(err, model.ErrMissingInput), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "port")
		})

		convey.Convey("When ping receives a stray port", func() {
			r, err := model.DiagnosticRequest{Host: " example.com ", Port: "80"}.Validate(model.ToolPing)
			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Host, convey.ShouldEqual, "example.com")
			convey.So(r.Port, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given tool names", t, func() {
		tool, ok := model.ParseTool("port_scan")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tool, convey.ShouldEqual, model.ToolPortScan)
		convey.So(tool.Title(), convey.ShouldEqual, "Port Scan")

		_, ok = model.ParseTool("nmap")
		convey.So(ok, convey.ShouldBeFalse)

		convey.So(model.ToolPing.Prompt(), convey.ShouldEqual, "Please enter a host to ping.")
	})
}

func TestDecodePingResult(t *testing.T) {
	convey.Convey("Given ping responses", t, func() {
		convey.Convey("When the backend sends status, time and raw_output", func() {
			r, err := model.DecodePingResult([]byte(`{"host":"x","status":"Online","time":"5ms","ip":"10.0.0.1","raw_output":"a","output":"b"}`))

			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Status, convey.ShouldEqual, model.PingOnline)
			convey.So(r.Time, convey.ShouldEqual, "5ms")
			convey.So(r.IP, convey.ShouldEqual, "10.0.0.1")
			convey.So(r.Output, convey.ShouldEqual, "a")
		})

		convey.Convey("When the backend uses the success/min/avg/max shape", func() {
			r, err := model.DecodePingResult([]byte(`{"success":false,"min":1.5,"avg":2,"max":3,"raw":"timeout"}`))

			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Status, convey.ShouldEqual, model.PingOffline)
			convey.So(r.Avg, convey.ShouldEqual, "2")
			convey.So(r.Output, convey.ShouldEqual, "timeout")
		})

		convey.Convey("When the status is absent", func() {
			_, err := model.DecodePingResult([]byte(`{"host":"x","output":"..."}`))

			var fe *model.FieldError
			convey.So(errors.As(err, &fe), convey.ShouldBeTrue)
			convey.So(fe.Field, convey.ShouldEqual, "status")
			convey.So(errors.Is(err, model.ErrMissingField), convey.ShouldBeTrue)
		})

		convey.Convey("When a scalar field holds an object", func() {
			_, err := model.DecodePingResult([]byte(`{"status":"online","time":{"ms":5}}`))
			convey.So(errors.Is(err, model.ErrMalformed), convey.ShouldBeTrue)
		})
	})
}

func TestDecodePortScanResult(t *testing.T) {
	convey.Convey("Given port-scan responses", t, func() {
		r, err := model.DecodePortScanResult([]byte(`{"status":"open","host":"x","port":"80"}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(r.Open(), convey.ShouldBeTrue)
		convey.So(r.Port, convey.ShouldEqual, "80")

		r, err = model.DecodePortScanResult([]byte(`{"open":false,"port":443,"service":"https"}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(r.Status, convey.ShouldEqual, model.PortClosed)
		convey.So(r.Port, convey.ShouldEqual, "443")
		convey.So(r.Service, convey.ShouldEqual, "https")

		_, err = model.DecodePortScanResult([]byte(`{"host":"x","port":"80"}`))
		convey.So(errors.Is(err, model.ErrMissingField), convey.ShouldBeTrue)
	})
}

func TestDecodeTracerouteResult(t *testing.T) {
	convey.Convey("Given traceroute responses", t, func() {
		r, err := model.DecodeTracerouteResult([]byte(`{"raw":"1 hop"}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(r.Output, convey.ShouldEqual, "1 hop")

		r, err = model.DecodeTracerouteResult([]byte(`{"output":"2 hops","raw":"ignored"}`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(r.Output, convey.ShouldEqual, "2 hops")

		_, err = model.DecodeTracerouteResult([]byte(`{}`))
		convey.So(errors.Is(err, model.ErrMissingField), convey.ShouldBeTrue)
	})
}

func TestDecodeDashboard(t *testing.T) {
	convey.Convey("Given dashboard payloads", t, func() {
		convey.Convey("When the summary is complete", func() {
			s, err := model.DecodeDashboardSummary([]byte(`{
				"hero_metrics":{"median_latency":"42ms","active_services":12,"monitored_nodes":8},
				"overview_grid":{
					"signal_quality":{"regions":"5 regions","status":"Stable","details":"ok"},
					"incidents":{"count":2,"status":"Watch","list":["a","b"]},
					"automation":{"resolves":"14","details":"auto"},
					"next_checks":{"count":"3","details":"soon"}}}`))

			convey.So(err, convey.ShouldBeNil)
			convey.So(s.HeroMetrics.ActiveServices.String(), convey.ShouldEqual, "12")
			convey.So(s.OverviewGrid.Incidents.List, convey.ShouldResemble, []model.Text{"a", "b"})
		})

		convey.Convey("When the overview grid lacks a card", func() {
			s, err := model.DecodeDashboardSummary([]byte(`{
				"hero_metrics":{"median_latency":"12ms"},
				"overview_grid":{"signal_quality":{},"incidents":{},"automation":{}}}`))

			convey.Convey("Then the hero metrics still decode", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.HeroMetrics.MedianLatency.String(), convey.ShouldEqual, "12ms")
			})

			convey.Convey("Then the grid reports the missing card", func() {
				var fe *model.FieldError
				convey.So(errors.As(s.OverviewGrid.Validate(), &fe), convey.ShouldBeTrue)
				convey.So(fe.Field, convey.ShouldEqual, "overview_grid.next_checks")
			})
		})

		convey.Convey("When the summary is empty", func() {
			_, err := model.DecodeDashboardSummary([]byte(`{}`))
			convey.So(errors.Is(err, model.ErrMissingField), convey.ShouldBeTrue)
		})

		convey.Convey("When timeline and watchlist arrive", func() {
			tl, err := model.DecodeTimeline([]byte(`{"timeline":[{"time":"09:00","strong":"Spike","p":"eu-west"}]}`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(tl, convey.ShouldHaveLength, 1)
			convey.So(tl[0].Strong.String(), convey.ShouldEqual, "Spike")

			wl, err := model.DecodeWatchlist([]byte(`{"watchlist":[]}`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(wl, convey.ShouldBeEmpty)

			_, err = model.DecodeWatchlist([]byte(`{"items":[]}`))
			convey.So(errors.Is(err, model.ErrMissingField), convey.ShouldBeTrue)
		})
	})
}

func TestText(t *testing.T) {
	convey.Convey("Given Text values", t, func() {
		convey.So(model.Text("").Or("N/A"), convey.ShouldEqual, "N/A")
		convey.So(model.Text("7").Or("N/A"), convey.ShouldEqual, "7")
	})
}
