package models

import "time"

// BuildStatus represents the completion status of a CI build.
type BuildStatus string

const (
	BuildSuccess  BuildStatus = "success"
	BuildUnstable BuildStatus = "unstable"
	BuildFailure  BuildStatus = "failure"
	BuildAborted  BuildStatus = "aborted"
	BuildNotBuilt BuildStatus = "not_built"
)

// String returns the status as a plain string so serializers that rely on
// fmt.Stringer (like toon) render it as its string value.
func (s BuildStatus) String() string { return string(s) }

// Completed reports whether the build finished running. Builds that never
// ran cannot carry analysis results and are skipped by history walks.
func (s BuildStatus) Completed() bool {
	switch s {
	case BuildSuccess, BuildUnstable, BuildFailure, BuildAborted:
		return true
	default:
		return false
	}
}

// Build is one build of a CI job. Builds are immutable and totally ordered
// by number within a job; new builds are always appended at the end.
type Build struct {
	Job       string      `json:"job" toon:"job"`
	Number    int         `json:"number" toon:"number"`
	Status    BuildStatus `json:"status" toon:"status"`
	Timestamp time.Time   `json:"timestamp" toon:"timestamp"`
}
