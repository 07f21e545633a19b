package models

import "time"

// TrendChartType selects how trend points are aggregated.
type TrendChartType string

const (
	// TrendToolsOnly renders one series per tool (totals only).
	TrendToolsOnly TrendChartType = "tools_only"
	// TrendSeverity splits each point into per-severity counts.
	TrendSeverity TrendChartType = "severity"
	// TrendNone disables trend rendering.
	TrendNone TrendChartType = "none"
)

// ParseTrendChartType converts a string, defaulting to tools_only.
func ParseTrendChartType(s string) TrendChartType {
	switch s {
	case string(TrendSeverity):
		return TrendSeverity
	case string(TrendNone):
		return TrendNone
	default:
		return TrendToolsOnly
	}
}

// ChartConfig configures trend series construction.
type ChartConfig struct {
	// MaxBuilds caps the number of most-recent data points.
	MaxBuilds int `json:"max_builds"`
	// ChartType selects per-tool vs per-severity aggregation.
	ChartType TrendChartType `json:"chart_type"`
	// SeverityBreakdown adds per-severity sub-counts to each point.
	SeverityBreakdown bool `json:"severity_breakdown"`
}

// DefaultChartConfig returns the default configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		MaxBuilds: 50,
		ChartType: TrendToolsOnly,
	}
}

// Normalize fills zero values with defaults.
func (c ChartConfig) Normalize() ChartConfig {
	def := DefaultChartConfig()
	if c.MaxBuilds <= 0 {
		c.MaxBuilds = def.MaxBuilds
	}
	if c.ChartType == "" {
		c.ChartType = def.ChartType
	}
	return c
}

// TrendPoint is one data point of a trend series: one build that carries an
// analysis result. Builds without a result are absent, not zero-filled, so
// a series is sparse rather than evenly spaced.
type TrendPoint struct {
	Build      int              `json:"build" toon:"build"`
	Timestamp  time.Time        `json:"timestamp" toon:"timestamp"`
	Total      int              `json:"total" toon:"total"`
	BySeverity map[Severity]int `json:"by_severity,omitempty" toon:"by_severity,omitempty"`
	ByTool     map[string]int   `json:"by_tool,omitempty" toon:"by_tool,omitempty"`
}

// TrendSeries is a derived, transient series of points ordered by build
// number ascending. Tool is empty for a combined multi-tool series.
type TrendSeries struct {
	Tool   string       `json:"tool,omitempty" toon:"tool,omitempty"`
	Points []TrendPoint `json:"points" toon:"points"`
}
