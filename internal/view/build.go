package view

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/projectvantage/vantage/internal/domain/model"
)

const (
	notAvailable = "N/A"
	noOutput     = "No output"
)

// PingPanel builds the ping result area.
func PingPanel(req model.DiagnosticRequest, res model.PingResult) DiagnosticPanel {
	host := res.Host
	if host == "" {
		host = req.Host
	}
	p := DiagnosticPanel{
		Tool:        model.ToolPing,
		Host:        req.Host,
		StatusClass: "status-" + res.Status,
		Headline:    titleCase(res.Status),
		Raw:         orDefault(res.Output, noOutput),
	}
	p.Details = append(p.Details, "Host: "+host)
	if res.IP != "" {
		p.Details = append(p.Details, "IP: "+res.IP)
	}
	if res.Time != "" {
		p.Details = append(p.Details, "Time: "+res.Time)
	}
	if res.Min != "" || res.Avg != "" || res.Max != "" {
		p.Details = append(p.Details, fmt.Sprintf("Minimum: %sms | Average: %sms | Maximum: %sms",
			orDefault(res.Min, notAvailable), orDefault(res.Avg, notAvailable), orDefault(res.Max, notAvailable)))
	}
	if res.Error != "" {
		p.Details = append(p.Details, "Error: "+res.Error)
	}
	return p
}

// PortScanPanel builds the port-scan result area.
func PortScanPanel(req model.DiagnosticRequest, res model.PortScanResult) DiagnosticPanel {
	host := orDefault(res.Host, req.Host)
	port := orDefault(res.Port, req.Port)
	p := DiagnosticPanel{
		Tool:        model.ToolPortScan,
		Host:        req.Host,
		Port:        req.Port,
		StatusClass: "status-" + res.Status,
		Headline:    fmt.Sprintf("Port %s is %s", port, strings.ToUpper(res.Status)),
		Details:     []string{"Host: " + host},
	}
	if res.Service != "" {
		p.Details = append(p.Details, "Service: "+res.Service)
	}
	return p
}

// TraceroutePanel builds the traceroute result area.
func TraceroutePanel(req model.DiagnosticRequest, res model.TracerouteResult) DiagnosticPanel {
	return DiagnosticPanel{
		Tool:     model.ToolTraceroute,
		Host:     req.Host,
		Headline: "Route to " + req.Host,
		Raw:      orDefault(res.Output, noOutput),
	}
}

// PromptPanel is shown when the form input was rejected before sending.
func PromptPanel(tool model.Tool, req model.DiagnosticRequest, prompt string) DiagnosticPanel {
	return DiagnosticPanel{Tool: tool, Host: req.Host, Port: req.Port, Prompt: prompt}
}

// ErrorPanel is shown when the request failed.
func ErrorPanel(tool model.Tool, req model.DiagnosticRequest, msg string) DiagnosticPanel {
	return DiagnosticPanel{Tool: tool, Host: req.Host, Port: req.Port, Error: msg, StatusClass: "status-error"}
}

// HeroCards maps hero metrics onto the three fixed cards.
func HeroCards(h *model.HeroMetrics) []MetricCard {
	if h == nil {
		return nil
	}
	nodes := ""
	if h.MonitoredNodes != "" {
		nodes = string(h.MonitoredNodes) + " monitored edge nodes"
	}
	return []MetricCard{
		{Label: "Median latency", Value: h.MedianLatency.Or(notAvailable), Trend: string(h.LatencyTrend)},
		{Label: "Active services", Value: h.ActiveServices.Or(notAvailable), Trend: nodes},
		{Label: "Route integrity", Value: h.RouteIntegrity.Or(notAvailable), Trend: string(h.StabilityTrend)},
	}
}

// OverviewCards maps the overview grid onto its four cards.
func OverviewCards(g *model.OverviewGrid) []OverviewCard {
	if g == nil {
		return nil
	}
	var cards []OverviewCard
	if s := g.SignalQuality; s != nil {
		cards = append(cards, OverviewCard{Title: "Signal quality", Heading: string(s.Regions), Pill: string(s.Status), Details: string(s.Details)})
	}
	if i := g.Incidents; i != nil {
		items := make([]string, 0, len(i.List))
		for _, it := range i.List {
			items = append(items, string(it))
		}
		cards = append(cards, OverviewCard{Title: "Incidents", Heading: string(i.Count), Pill: string(i.Status), Items: items})
	}
	if a := g.Automation; a != nil {
		cards = append(cards, OverviewCard{Title: "Automation", Heading: string(a.Resolves), Details: string(a.Details)})
	}
	if n := g.NextChecks; n != nil {
		cards = append(cards, OverviewCard{Title: "Next checks", Heading: string(n.Count), Details: string(n.Details)})
	}
	return cards
}

// TimelineItems maps timeline entries.
func TimelineItems(entries []model.TimelineEntry) []TimelineItem {
	items := make([]TimelineItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, TimelineItem{Time: string(e.Time), Title: string(e.Strong), Body: string(e.P)})
	}
	return items
}

// WatchItems maps watchlist rows.
func WatchItems(rows []model.WatchlistItem) []WatchItem {
	items := make([]WatchItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, WatchItem{
			Item:      string(r.Item),
			Metric:    string(r.Metric),
			PillClass: string(r.StatusPill),
			Value:     string(r.Value),
		})
	}
	return items
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
