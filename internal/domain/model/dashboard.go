package model

// HeroMetrics backs the three metric cards at the top of the dashboard.
type HeroMetrics struct {
	MedianLatency  Text `json:"median_latency"`
	LatencyTrend   Text `json:"latency_trend"`
	ActiveServices Text `json:"active_services"`
	MonitoredNodes Text `json:"monitored_nodes"`
	RouteIntegrity Text `json:"route_integrity"`
	StabilityTrend Text `json:"stability_trend"`
}

type SignalQuality struct {
	Regions Text `json:"regions"`
	Status  Text `json:"status"`
	Details Text `json:"details"`
}

type Incidents struct {
	Count  Text   `json:"count"`
	Status Text   `json:"status"`
	List   []Text `json:"list"`
}

type Automation struct {
	Resolves Text `json:"resolves"`
	Details  Text `json:"details"`
}

type NextChecks struct {
	Count   Text `json:"count"`
	Details Text `json:"details"`
}

// OverviewGrid backs the four overview cards.
type OverviewGrid struct {
	SignalQuality *SignalQuality `json:"signal_quality"`
	Incidents     *Incidents     `json:"incidents"`
	Automation    *Automation    `json:"automation"`
	NextChecks    *NextChecks    `json:"next_checks"`
}

// DashboardSummary is the body of GET /api/dashboard/summary.
type DashboardSummary struct {
	HeroMetrics  *HeroMetrics  `json:"hero_metrics"`
	OverviewGrid *OverviewGrid `json:"overview_grid"`
}

// DecodeDashboardSummary parses the summary. At least one section must be
// present. The overview grid is checked separately with OverviewGrid.Validate
// so a broken grid does not take the hero metrics down with it.
func DecodeDashboardSummary(data []byte) (DashboardSummary, error) {
	var s DashboardSummary
	if err := decode("dashboard summary", data, &s); err != nil {
		return DashboardSummary{}, err
	}
	if s.HeroMetrics == nil && s.OverviewGrid == nil {
		return DashboardSummary{}, missing("dashboard summary", "hero_metrics")
	}
	return s, nil
}

// Validate reports the first of the four overview cards that is missing.
func (g *OverviewGrid) Validate() error {
	switch {
	case g.SignalQuality == nil:
		return missing("dashboard summary", "overview_grid.signal_quality")
	case g.Incidents == nil:
		return missing("dashboard summary", "overview_grid.incidents")
	case g.Automation == nil:
		return missing("dashboard summary", "overview_grid.automation")
	case g.NextChecks == nil:
		return missing("dashboard summary", "overview_grid.next_checks")
	}
	return nil
}

// TimelineEntry is one incident in the timeline card.
type TimelineEntry struct {
	Time   Text `json:"time"`
	Strong Text `json:"strong"`
	P      Text `json:"p"`
}

// DecodeTimeline parses GET /api/dashboard/timeline.
func DecodeTimeline(data []byte) ([]TimelineEntry, error) {
	var w struct {
		Timeline *[]TimelineEntry `json:"timeline"`
	}
	if err := decode("timeline", data, &w); err != nil {
		return nil, err
	}
	if w.Timeline == nil {
		return nil, missing("timeline", "timeline")
	}
	return *w.Timeline, nil
}

// WatchlistItem is one row of the signal watchlist.
type WatchlistItem struct {
	Item       Text `json:"item"`
	Metric     Text `json:"metric"`
	StatusPill Text `json:"status_pill"`
	Value      Text `json:"value"`
}

// DecodeWatchlist parses GET /api/dashboard/watchlist.
func DecodeWatchlist(data []byte) ([]WatchlistItem, error) {
	var w struct {
		Watchlist *[]WatchlistItem `json:"watchlist"`
	}
	if err := decode("watchlist", data, &w); err != nil {
		return nil, err
	}
	if w.Watchlist == nil {
		return nil, missing("watchlist", "watchlist")
	}
	return *w.Watchlist, nil
}
