// Package trend folds a build history into chartable time series: one
// point per result-carrying build, ordered build-ascending, sparse.
package trend

import (
	"fmt"
	"slices"

	"github.com/driftline/driftline/internal/history"
	"github.com/driftline/driftline/pkg/models"
)

// Builder turns histories into trend series.
type Builder struct {
	cfg models.ChartConfig
}

// NewBuilder returns a Builder with the given configuration. Zero config
// fields fall back to defaults.
func NewBuilder(cfg models.ChartConfig) *Builder {
	return &Builder{cfg: cfg.Normalize()}
}

// Build walks the history and produces one series. The walk runs newest
// to oldest and stops once MaxBuilds points are collected, so an old job
// with thousands of builds costs only the most recent window. Points come
// back build-ascending. hist with no results yields an empty series, not
// an error.
func (b *Builder) Build(tool string, hist history.History) (*models.TrendSeries, error) {
	if b.cfg.ChartType == models.TrendNone {
		return &models.TrendSeries{Tool: tool}, nil
	}

	series := &models.TrendSeries{Tool: tool}
	for rec, err := range hist.Records() {
		if err != nil {
			return nil, fmt.Errorf("walk history of %s: %w", tool, err)
		}
		series.Points = append(series.Points, b.point(rec))
		if len(series.Points) >= b.cfg.MaxBuilds {
			break
		}
	}
	slices.Reverse(series.Points)
	return series, nil
}

func (b *Builder) point(rec history.Record) models.TrendPoint {
	p := models.TrendPoint{
		Build:     rec.Build.Number,
		Timestamp: rec.Build.Timestamp,
		Total:     rec.Result.Total,
	}
	if b.cfg.ChartType == models.TrendSeverity || b.cfg.SeverityBreakdown {
		p.BySeverity = rec.Result.BySeverity
	}
	return p
}

// Combine merges per-tool series into one aggregated series: one point per
// build that appears in any input, Total summed across tools, ByTool
// carrying the per-tool split. Severity breakdowns are summed when every
// contributing series carries them.
func Combine(series []*models.TrendSeries) *models.TrendSeries {
	type acc struct {
		point  models.TrendPoint
		byTool map[string]int
	}
	byBuild := make(map[int]*acc)

	for _, s := range series {
		if s == nil {
			continue
		}
		for _, p := range s.Points {
			a, ok := byBuild[p.Build]
			if !ok {
				a = &acc{
					point:  models.TrendPoint{Build: p.Build, Timestamp: p.Timestamp},
					byTool: make(map[string]int),
				}
				byBuild[p.Build] = a
			}
			a.point.Total += p.Total
			a.byTool[s.Tool] += p.Total
			if p.BySeverity != nil {
				if a.point.BySeverity == nil {
					a.point.BySeverity = make(map[models.Severity]int)
				}
				for sev, n := range p.BySeverity {
					a.point.BySeverity[sev] += n
				}
			}
			if p.Timestamp.After(a.point.Timestamp) {
				a.point.Timestamp = p.Timestamp
			}
		}
	}

	combined := &models.TrendSeries{}
	for _, a := range byBuild {
		a.point.ByTool = a.byTool
		combined.Points = append(combined.Points, a.point)
	}
	slices.SortFunc(combined.Points, func(a, b models.TrendPoint) int {
		return a.Build - b.Build
	})
	return combined
}
