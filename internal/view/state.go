// Package view holds per-page view state and the pure functions that render
// it. Nothing here performs I/O other than writing to the supplied writer.
package view

import (
	"github.com/projectvantage/vantage/internal/domain/model"
)

// Page identifies one of the console pages.
type Page string

const (
	PageLogin     Page = "login.html"
	PageSignup    Page = "signup.html"
	PageDashboard Page = "dashboard.html"
)

// MessageKind styles a form message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the text shown under a form.
type Message struct {
	Kind MessageKind
	Text string
}

// Class is the CSS class list of the message element.
func (m Message) Class() string { return "message " + string(m.Kind) }

// IsError reports whether the message is error-styled.
func (m Message) IsError() bool { return m.Kind == MessageError }

// AuthForm is the state of the login or signup page.
type AuthForm struct {
	Mode    model.AuthMode
	Email   string
	Message *Message
	// Navigate is set when the form should leave the page, e.g. after login.
	Navigate Page
}

// Page returns the page this form lives on.
func (f AuthForm) Page() Page {
	if f.Mode == model.AuthSignup {
		return PageSignup
	}
	return PageLogin
}

// DiagnosticPanel is the result area of one diagnostic tool.
type DiagnosticPanel struct {
	Tool model.Tool
	Host string
	Port string

	// Prompt is set when input was rejected locally.
	Prompt string
	// Error is set when the request failed.
	Error string

	StatusClass string
	Headline    string
	Details     []string
	Raw         string
}

// Empty reports whether nothing was submitted yet.
func (p DiagnosticPanel) Empty() bool {
	return p.Prompt == "" && p.Error == "" && p.Headline == "" && p.Raw == ""
}

// MetricCard is one hero metric card.
type MetricCard struct {
	Label string
	Value string
	Trend string
}

// OverviewCard is one card of the overview grid.
type OverviewCard struct {
	Title   string
	Heading string
	Pill    string
	Details string
	Items   []string
}

// TimelineItem is one incident in the timeline.
type TimelineItem struct {
	Time  string
	Title string
	Body  string
}

// WatchItem is one row of the watchlist.
type WatchItem struct {
	Item      string
	Metric    string
	PillClass string
	Value     string
}

// Dashboard is the state of the dashboard page. Each section carries its
// own error so one failed fetch leaves the others intact.
type Dashboard struct {
	UserID string

	Hero       []MetricCard
	SummaryErr string

	Overview    []OverviewCard
	OverviewErr string

	Timeline    []TimelineItem
	TimelineErr string

	Watchlist    []WatchItem
	WatchlistErr string

	Panels     map[model.Tool]DiagnosticPanel
	ActiveTool model.Tool
}

// Panel returns the panel for tool, or an empty one.
func (d Dashboard) Panel(tool model.Tool) DiagnosticPanel {
	if p, ok := d.Panels[tool]; ok {
		return p
	}
	return DiagnosticPanel{Tool: tool}
}

// WithPanel returns a copy of d showing p as the active tool.
func (d Dashboard) WithPanel(p DiagnosticPanel) Dashboard {
	panels := make(map[model.Tool]DiagnosticPanel, len(d.Panels)+1)
	for k, v := range d.Panels {
		panels[k] = v
	}
	panels[p.Tool] = p
	d.Panels = panels
	d.ActiveTool = p.Tool
	return d
}

// ToolPanels returns every tool's panel in display order.
func (d Dashboard) ToolPanels() []DiagnosticPanel {
	out := make([]DiagnosticPanel, 0, len(model.Tools))
	for _, t := range model.Tools {
		out = append(out, d.Panel(t))
	}
	return out
}
