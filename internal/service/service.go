// Package service orchestrates the aggregation core over the store: it
// is the layer both the CLI commands and the MCP tools call into.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/driftline/driftline/internal/diff"
	"github.com/driftline/driftline/internal/history"
	"github.com/driftline/driftline/internal/ingest"
	"github.com/driftline/driftline/internal/store"
	"github.com/driftline/driftline/internal/trend"
	"github.com/driftline/driftline/internal/vcs"
	"github.com/driftline/driftline/pkg/config"
	"github.com/driftline/driftline/pkg/models"
)

// ErrNoBaseline is returned when a job/tool pair has no result yet.
var ErrNoBaseline = errors.New("no analysis result recorded")

// Service exposes the driftline operations over one store.
type Service struct {
	store *store.Store
	cfg   *config.Config
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// New creates a service over an open store.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		cfg:   config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

func (s *Service) historyFor(job, tool string) (history.History, error) {
	selector := history.NewByToolSelector(s.store, tool)
	return history.ForJob(job, s.store, selector,
		history.WithMaxWalk(s.cfg.History.MaxWalk))
}

func (s *Service) historyFrom(b models.Build, tool string) history.History {
	selector := history.NewByToolSelector(s.store, tool)
	return history.New(b, s.store, selector,
		history.WithMaxWalk(s.cfg.History.MaxWalk))
}

// Baseline returns the most recent result of a tool on a job.
func (s *Service) Baseline(job, tool string) (*history.Record, error) {
	hist, err := s.historyFor(job, tool)
	if err != nil {
		return nil, err
	}
	rec, err := hist.Baseline()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w for %s on %s", ErrNoBaseline, tool, job)
	}
	return rec, nil
}

// Diff classifies a build's issues against the previous result-carrying
// build. Build 0 means the latest result-carrying build. The first-ever
// result diffs against an absent previous, marking everything new.
func (s *Service) Diff(job, tool string, build int) (*DiffReport, error) {
	current, err := s.resolveResult(job, tool, build)
	if err != nil {
		return nil, err
	}

	previous, err := s.previousResult(job, tool, current.Build)
	if err != nil {
		return nil, err
	}

	var prevSnapshot *models.IssueSnapshot
	prevBuild := 0
	if previous != nil {
		prevSnapshot = previous.Result.Snapshot
		prevBuild = previous.Build.Number
	}

	result := diff.Compute(prevSnapshot, current.Result.Snapshot)
	return &DiffReport{
		Job:           job,
		Tool:          tool,
		Build:         current.Build.Number,
		PreviousBuild: prevBuild,
		Result:        result,
		Counts:        result.Counts(),
	}, nil
}

// DiffReport is a diff with its build coordinates. PreviousBuild is 0
// when the diff ran against an absent previous result.
type DiffReport struct {
	Job           string            `json:"job" toon:"job"`
	Tool          string            `json:"tool" toon:"tool"`
	Build         int               `json:"build" toon:"build"`
	PreviousBuild int               `json:"previous_build,omitempty" toon:"previous_build,omitempty"`
	Counts        models.DiffCounts `json:"counts" toon:"counts"`
	Result        models.DiffResult `json:"result" toon:"result"`
}

func (s *Service) resolveResult(job, tool string, build int) (*history.Record, error) {
	if build == 0 {
		hist, err := s.historyFor(job, tool)
		if err != nil {
			return nil, err
		}
		rec, err := hist.Baseline()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("%w for %s on %s", ErrNoBaseline, tool, job)
		}
		return rec, nil
	}

	b, err := s.store.Build(job, build)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%s has no build %d", job, build)
	}
	res, err := s.store.LoadResult(job, build, tool)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w for %s on %s build %d", ErrNoBaseline, tool, job, build)
	}
	return &history.Record{Build: *b, Result: res}, nil
}

func (s *Service) previousResult(job, tool string, current models.Build) (*history.Record, error) {
	prev, err := s.store.PreviousBuild(&current)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}
	rec, err := s.historyFrom(*prev, tool).Baseline()
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// TrendReport is a series with its regression statistics.
type TrendReport struct {
	Job    string              `json:"job" toon:"job"`
	Series *models.TrendSeries `json:"series" toon:"series"`
	Stats  trend.Stats         `json:"stats" toon:"stats"`
}

// Trend builds the trend series of one tool, or the aggregated series of
// all of the job's tools when tool is empty.
func (s *Service) Trend(job, tool string, cfg models.ChartConfig) (*TrendReport, error) {
	builder := trend.NewBuilder(cfg)

	tools := []string{tool}
	if tool == "" {
		var err error
		tools, err = s.store.Tools(job)
		if err != nil {
			return nil, err
		}
		if len(tools) == 0 {
			return nil, fmt.Errorf("%w on %s", ErrNoBaseline, job)
		}
	}

	series := make([]*models.TrendSeries, 0, len(tools))
	for _, t := range tools {
		hist, err := s.historyFor(job, t)
		if err != nil {
			return nil, err
		}
		ts, err := builder.Build(t, hist)
		if err != nil {
			return nil, err
		}
		series = append(series, ts)
	}

	out := series[0]
	if len(series) > 1 {
		out = trend.Combine(series)
	}
	return &TrendReport{Job: job, Series: out, Stats: trend.ComputeStats(out)}, nil
}

// IngestOptions configures report ingestion.
type IngestOptions struct {
	// Status records the build outcome; defaults to success.
	Status models.BuildStatus
	// BlamePath, when non-empty, resolves issue authors from the git
	// repository containing that path.
	BlamePath string
	// OnProgress is called once per parsed file.
	OnProgress func()
}

// Ingest parses report files, records their builds, and saves one result
// per report. Re-ingesting an identical report is a no-op.
func (s *Service) Ingest(job string, paths []string, opts IngestOptions) ([]*models.AnalysisResult, error) {
	parser := ingest.NewParser(parserOptions(s.cfg)...)
	reports, err := parser.ParseFiles(paths, opts.OnProgress)
	if err != nil {
		return nil, err
	}

	var annotator *vcs.Annotator
	if opts.BlamePath != "" {
		annotator, err = vcs.NewAnnotator(opts.BlamePath)
		if err != nil {
			return nil, err
		}
	}

	status := opts.Status
	if status == "" {
		status = models.BuildSuccess
	}
	now := time.Now().UTC()

	results := make([]*models.AnalysisResult, 0, len(reports))
	for _, r := range reports {
		res, err := r.Result()
		if err != nil {
			return results, fmt.Errorf("report for %s build %d: %w", r.Tool, r.Build, err)
		}
		if annotator != nil {
			annotated := annotator.Annotate(res.Snapshot.Issues())
			res = models.NewAnalysisResult(res.Tool, res.Build, models.NewSnapshot(annotated...))
		}

		if err := s.recordResult(job, status, now, res); err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// recordResult records the build (first writer wins on metadata) and
// appends the result.
func (s *Service) recordResult(job string, status models.BuildStatus, ts time.Time, res *models.AnalysisResult) error {
	existing, err := s.store.Build(job, res.Build)
	if err != nil {
		return err
	}
	if existing == nil {
		b := models.Build{Job: job, Number: res.Build, Status: status, Timestamp: ts}
		if err := s.store.RecordBuild(b); err != nil {
			return err
		}
	}
	if err := s.store.SaveResult(job, res); err != nil {
		return fmt.Errorf("save result of %s build %d: %w", res.Tool, res.Build, err)
	}
	return nil
}

func parserOptions(cfg *config.Config) []ingest.Option {
	var opts []ingest.Option
	if !cfg.Ingest.Validate {
		opts = append(opts, ingest.WithoutValidation())
	}
	if cfg.Ingest.Workers > 0 {
		opts = append(opts, ingest.WithWorkers(cfg.Ingest.Workers))
	}
	return opts
}
