package models

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// IssueSnapshot is the deduplicated set of issues of one analysis result.
// Issues within a snapshot have unique fingerprints; a tool reporting the
// same finding twice collapses to one issue (last write wins).
type IssueSnapshot struct {
	issues map[Fingerprint]Issue
}

// NewSnapshot builds a snapshot from issues, collapsing duplicates.
func NewSnapshot(issues ...Issue) *IssueSnapshot {
	s := &IssueSnapshot{issues: make(map[Fingerprint]Issue, len(issues))}
	for _, is := range issues {
		s.issues[is.Fingerprint] = is
	}
	return s
}

// Size returns the number of distinct issues.
func (s *IssueSnapshot) Size() int {
	return len(s.issues)
}

// Contains reports whether an issue with the given fingerprint exists.
func (s *IssueSnapshot) Contains(fp Fingerprint) bool {
	_, ok := s.issues[fp]
	return ok
}

// Get returns the issue with the given fingerprint.
func (s *IssueSnapshot) Get(fp Fingerprint) (Issue, bool) {
	is, ok := s.issues[fp]
	return is, ok
}

// Issues returns the issues in deterministic order.
func (s *IssueSnapshot) Issues() []Issue {
	out := make([]Issue, 0, len(s.issues))
	for _, is := range s.issues {
		out = append(out, is)
	}
	SortIssues(out)
	return out
}

// Fingerprints returns all fingerprints in unspecified order.
func (s *IssueSnapshot) Fingerprints() []Fingerprint {
	out := make([]Fingerprint, 0, len(s.issues))
	for fp := range s.issues {
		out = append(out, fp)
	}
	return out
}

// CountBySeverity tallies issues per severity.
func (s *IssueSnapshot) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, is := range s.issues {
		counts[is.Severity]++
	}
	return counts
}

// Hash returns a BLAKE3 content hash of the snapshot's canonical encoding.
// Two snapshots with identical issues hash identically regardless of the
// order issues were added.
func (s *IssueSnapshot) Hash() string {
	h := blake3.New()
	var buf [8]byte
	for _, is := range s.Issues() {
		binary.BigEndian.PutUint64(buf[:], uint64(is.Fingerprint))
		h.Write(buf[:])
		h.Write([]byte(is.Severity))
		h.Write([]byte{0})
		h.Write([]byte(is.File))
		h.Write([]byte{0})
		h.Write([]byte(is.Message))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MarshalJSON encodes the snapshot as a sorted issue array.
func (s *IssueSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Issues())
}

// UnmarshalJSON decodes an issue array, collapsing duplicates.
func (s *IssueSnapshot) UnmarshalJSON(data []byte) error {
	var issues []Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return err
	}
	*s = *NewSnapshot(issues...)
	return nil
}

// AnalysisResult is the outcome of one tool's analysis step attached to one
// build. Immutable after creation.
type AnalysisResult struct {
	Tool         string           `json:"tool"`
	Build        int              `json:"build"`
	Total        int              `json:"total"`
	BySeverity   map[Severity]int `json:"by_severity"`
	SnapshotHash string           `json:"snapshot_hash"`
	Snapshot     *IssueSnapshot   `json:"issues"`
}

// NewAnalysisResult derives totals and the content hash from the snapshot.
func NewAnalysisResult(tool string, build int, snapshot *IssueSnapshot) *AnalysisResult {
	if snapshot == nil {
		snapshot = NewSnapshot()
	}
	return &AnalysisResult{
		Tool:         tool,
		Build:        build,
		Total:        snapshot.Size(),
		BySeverity:   snapshot.CountBySeverity(),
		SnapshotHash: snapshot.Hash(),
		Snapshot:     snapshot,
	}
}
