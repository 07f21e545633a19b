// Package history walks a job's build chain backward and exposes the
// analysis results attached along the way: the baseline (most recent
// result), aggregate queries, and a lazy sequence for trend building.
package history

import (
	"errors"
	"fmt"
	"iter"

	"github.com/driftline/driftline/pkg/models"
)

// ErrWalkCycle is returned when the build chain does not strictly decrease
// or exceeds the walk bound. Either means the store handed back a cyclic
// previous-build chain, which is a store bug the walk refuses to follow.
var ErrWalkCycle = errors.New("build chain is not strictly decreasing")

// DefaultMaxWalk bounds a backward walk when no explicit bound is set.
const DefaultMaxWalk = 10000

// Record pairs an analysis result with the build it is attached to.
// Consumers that need build metadata alongside the result (status,
// timestamp) get both in one value.
type Record struct {
	Build  models.Build
	Result *models.AnalysisResult
}

// History is a read-only, lazily evaluated view over the builds at or
// before a start build that carry an analysis result for one tool.
type History interface {
	// HasResults reports whether at least one walked build has a result.
	HasResults() (bool, error)
	// HasMultipleResults reports whether at least two distinct builds
	// have results. A single data point makes a degenerate trend chart.
	HasMultipleResults() (bool, error)
	// Baseline returns the result of the closest build at or before the
	// start that has one, or nil when none exists down to build 1.
	Baseline() (*Record, error)
	// Records yields result-carrying builds in build-descending order.
	// The sequence is lazy and safe to abandon; a store failure or a
	// cyclic chain is yielded as the error element and ends the walk.
	// Ranging again re-creates the walk from the start build.
	Records() iter.Seq2[Record, error]
}

// AnalysisHistory walks backward from a fixed start build.
type AnalysisHistory struct {
	start    models.Build
	builds   BuildSource
	selector Selector
	maxWalk  int
}

// Option configures an AnalysisHistory.
type Option func(*AnalysisHistory)

// WithMaxWalk overrides the defensive walk bound.
func WithMaxWalk(n int) Option {
	return func(h *AnalysisHistory) {
		if n > 0 {
			h.maxWalk = n
		}
	}
}

// New creates a history starting at start (inclusive).
func New(start models.Build, builds BuildSource, selector Selector, opts ...Option) *AnalysisHistory {
	h := &AnalysisHistory{
		start:    start,
		builds:   builds,
		selector: selector,
		maxWalk:  DefaultMaxWalk,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ForJob creates a history anchored at the job's last completed build. A
// job with no completed build yet yields the empty history, which answers
// every query as absent without touching the store.
func ForJob(job string, builds BuildSource, selector Selector, opts ...Option) (History, error) {
	last, err := builds.LastCompletedBuild(job)
	if err != nil {
		return nil, fmt.Errorf("resolve last completed build of %s: %w", job, err)
	}
	if last == nil {
		return Empty(), nil
	}
	return New(*last, builds, selector, opts...), nil
}

// Records implements History.
func (h *AnalysisHistory) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		cur := &h.start
		prevNumber := 0

		for steps := 0; cur != nil; steps++ {
			if steps >= h.maxWalk {
				yield(Record{}, fmt.Errorf("%w: gave up after %d builds at %s #%d",
					ErrWalkCycle, steps, cur.Job, cur.Number))
				return
			}
			if prevNumber != 0 && cur.Number >= prevNumber {
				yield(Record{}, fmt.Errorf("%w: %s #%d follows #%d",
					ErrWalkCycle, cur.Job, cur.Number, prevNumber))
				return
			}
			prevNumber = cur.Number

			if cur.Status.Completed() {
				res, err := h.selector.Find(cur)
				if err != nil {
					yield(Record{}, err)
					return
				}
				if res != nil && !yield(Record{Build: *cur, Result: res}, nil) {
					return
				}
			}

			next, err := h.builds.PreviousBuild(cur)
			if err != nil {
				yield(Record{}, err)
				return
			}
			cur = next
		}
	}
}

// Baseline implements History.
func (h *AnalysisHistory) Baseline() (*Record, error) {
	for rec, err := range h.Records() {
		if err != nil {
			return nil, err
		}
		return &rec, nil
	}
	return nil, nil
}

// HasResults implements History.
func (h *AnalysisHistory) HasResults() (bool, error) {
	rec, err := h.Baseline()
	return rec != nil, err
}

// HasMultipleResults implements History.
func (h *AnalysisHistory) HasMultipleResults() (bool, error) {
	count := 0
	for _, err := range h.Records() {
		if err != nil {
			return false, err
		}
		count++
		if count >= 2 {
			return true, nil
		}
	}
	return false, nil
}

// emptyHistory is the distinguished history of a job with no completed
// build. It never touches the store.
type emptyHistory struct{}

// Empty returns the empty history.
func Empty() History {
	return emptyHistory{}
}

func (emptyHistory) HasResults() (bool, error)         { return false, nil }
func (emptyHistory) HasMultipleResults() (bool, error) { return false, nil }
func (emptyHistory) Baseline() (*Record, error)        { return nil, nil }

func (emptyHistory) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {}
}
