package history

import "github.com/driftline/driftline/pkg/models"

// ResultSource loads analysis results from the build-record store. A nil
// result with a nil error means the build carries no result for the tool,
// which is a normal outcome.
type ResultSource interface {
	LoadResult(job string, build int, tool string) (*models.AnalysisResult, error)
}

// BuildSource navigates the append-only build chain of a job.
type BuildSource interface {
	LastCompletedBuild(job string) (*models.Build, error)
	PreviousBuild(b *models.Build) (*models.Build, error)
}

// Selector locates the analysis result attached to a build, if any.
// Implementations must be deterministic and side-effect free.
type Selector interface {
	Find(b *models.Build) (*models.AnalysisResult, error)
}

// ByToolSelector selects results by tool identity.
type ByToolSelector struct {
	results ResultSource
	tool    string
}

// NewByToolSelector returns a selector for one tool's results.
func NewByToolSelector(results ResultSource, tool string) *ByToolSelector {
	return &ByToolSelector{results: results, tool: tool}
}

// Find returns the build's result for the selector's tool, or nil.
func (s *ByToolSelector) Find(b *models.Build) (*models.AnalysisResult, error) {
	return s.results.LoadResult(b.Job, b.Number, s.tool)
}

// Tool returns the tool identity this selector matches.
func (s *ByToolSelector) Tool() string {
	return s.tool
}
