package view

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal renders view state as styled text for the CLI.
type Terminal struct {
	Title      lipgloss.Style
	Section    lipgloss.Style
	Label      lipgloss.Style
	Strong     lipgloss.Style
	Dim        lipgloss.Style
	StatusUp   lipgloss.Style
	StatusDown lipgloss.Style
	StatusWarn lipgloss.Style
	Card       lipgloss.Style
	Raw        lipgloss.Style
}

// NewTerminal builds styles bound to w, so colour is dropped when w is not a terminal.
func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		Title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#268bd2")),
		Section:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#6c71c4")).MarginTop(1),
		Label:      r.NewStyle().Foreground(lipgloss.Color("#839496")),
		Strong:     r.NewStyle().Bold(true),
		Dim:        r.NewStyle().Foreground(lipgloss.Color("#586e75")),
		StatusUp:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#859900")),
		StatusDown: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc322f")),
		StatusWarn: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#b58900")),
		Card:       r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#268bd2")).Padding(0, 1),
		Raw:        r.NewStyle().Foreground(lipgloss.Color("#93a1a1")).PaddingLeft(2),
	}
}

func (t *Terminal) status(class string) lipgloss.Style {
	switch strings.TrimPrefix(class, "status-") {
	case "online", "open", "success", "good", "stable":
		return t.StatusUp
	case "offline", "closed", "error", "bad", "critical":
		return t.StatusDown
	default:
		return t.StatusWarn
	}
}

// Message renders a form message.
func (t *Terminal) Message(m Message) string {
	if m.IsError() {
		return t.StatusDown.Render("✗ ") + m.Text
	}
	return t.StatusUp.Render("✓ ") + m.Text
}

// Auth renders the outcome of a login or signup submission.
func (t *Terminal) Auth(f AuthForm) string {
	var b strings.Builder
	if f.Message != nil {
		b.WriteString(t.Message(*f.Message))
		b.WriteByte('\n')
	}
	if f.Navigate != "" {
		b.WriteString(t.Dim.Render("→ " + string(f.Navigate)))
		b.WriteByte('\n')
	}
	return b.String()
}

// Panel renders one diagnostic result.
func (t *Terminal) Panel(p DiagnosticPanel) string {
	var b strings.Builder
	b.WriteString(t.Title.Render(p.Tool.Title()))
	b.WriteByte('\n')
	switch {
	case p.Prompt != "":
		b.WriteString(t.StatusWarn.Render(p.Prompt))
		b.WriteByte('\n')
		return b.String()
	case p.Error != "":
		b.WriteString(t.StatusDown.Render(p.Error))
		b.WriteByte('\n')
		return b.String()
	}
	if p.Headline != "" {
		b.WriteString(t.status(p.StatusClass).Render("● " + p.Headline))
		b.WriteByte('\n')
	}
	for _, d := range p.Details {
		b.WriteString(t.Label.Render(d))
		b.WriteByte('\n')
	}
	if p.Raw != "" {
		b.WriteString(t.Raw.Render(strings.TrimRight(p.Raw, "\n")))
		b.WriteByte('\n')
	}
	return b.String()
}

// Dashboard renders every dashboard section.
func (t *Terminal) Dashboard(d Dashboard) string {
	var b strings.Builder
	b.WriteString(t.Title.Render("Project Vantage"))
	if d.UserID != "" {
		b.WriteString(t.Dim.Render("  user " + d.UserID))
	}
	b.WriteByte('\n')

	if len(d.Hero) > 0 {
		cards := make([]string, 0, len(d.Hero))
		for _, c := range d.Hero {
			body := t.Label.Render(c.Label) + "\n" + t.Strong.Render(c.Value)
			if c.Trend != "" {
				body += "\n" + t.Dim.Render(c.Trend)
			}
			cards = append(cards, t.Card.Render(body))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteByte('\n')
	}

	b.WriteString(t.Section.Render("Overview"))
	b.WriteByte('\n')
	for _, e := range []string{d.SummaryErr, d.OverviewErr} {
		if e != "" {
			b.WriteString(t.StatusDown.Render(e))
			b.WriteByte('\n')
		}
	}
	for _, c := range d.Overview {
		line := t.Label.Render(c.Title+":") + " " + c.Heading
		if c.Pill != "" {
			line += " " + t.status(strings.ToLower(c.Pill)).Render("["+c.Pill+"]")
		}
		if c.Details != "" {
			line += " " + t.Dim.Render(c.Details)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		for _, it := range c.Items {
			b.WriteString("  - " + it + "\n")
		}
	}

	b.WriteString(t.Section.Render("Incident timeline"))
	b.WriteByte('\n')
	if d.TimelineErr != "" {
		b.WriteString(t.StatusDown.Render(d.TimelineErr))
		b.WriteByte('\n')
	}
	for _, it := range d.Timeline {
		b.WriteString(t.Dim.Render(it.Time) + "  " + t.Strong.Render(it.Title) + "  " + it.Body + "\n")
	}

	b.WriteString(t.Section.Render("Signal watchlist"))
	b.WriteByte('\n')
	if d.WatchlistErr != "" {
		b.WriteString(t.StatusDown.Render(d.WatchlistErr))
		b.WriteByte('\n')
	}
	for _, it := range d.Watchlist {
		b.WriteString(it.Item + " " + t.Dim.Render(it.Metric) + "  " + t.status(it.PillClass).Render(it.Value) + "\n")
	}
	return b.String()
}
