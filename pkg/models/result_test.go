package models

import (
	"encoding/json"
	"testing"
)

func issue(fp uint64, sev Severity, file string, line int) Issue {
	return Issue{
		Fingerprint: Fingerprint(fp),
		Severity:    sev,
		File:        file,
		StartLine:   line,
		Message:     "m",
	}
}

func TestNewSnapshotCollapsesDuplicates(t *testing.T) {
	first := issue(1, SeverityLow, "a.go", 1)
	second := issue(1, SeverityHigh, "a.go", 1)

	s := NewSnapshot(first, second)

	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", s.Size())
	}
	got, ok := s.Get(Fingerprint(1))
	if !ok {
		t.Fatal("fingerprint 1 missing")
	}
	// Last write wins.
	if got.Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", got.Severity, SeverityHigh)
	}
}

func TestSnapshotIssuesDeterministicOrder(t *testing.T) {
	s := NewSnapshot(
		issue(3, SeverityLow, "b.go", 10),
		issue(1, SeverityLow, "a.go", 20),
		issue(2, SeverityLow, "a.go", 5),
	)

	got := s.Issues()
	want := []string{"a.go", "a.go", "b.go"}
	for i, is := range got {
		if is.File != want[i] {
			t.Fatalf("issues[%d].File = %q, want %q", i, is.File, want[i])
		}
	}
	if got[0].StartLine != 5 {
		t.Errorf("first issue line = %d, want 5", got[0].StartLine)
	}
}

func TestSnapshotHashOrderIndependent(t *testing.T) {
	a := NewSnapshot(issue(1, SeverityLow, "a.go", 1), issue(2, SeverityHigh, "b.go", 2))
	b := NewSnapshot(issue(2, SeverityHigh, "b.go", 2), issue(1, SeverityLow, "a.go", 1))

	if a.Hash() != b.Hash() {
		t.Error("hash depends on insertion order")
	}

	c := NewSnapshot(issue(1, SeverityLow, "a.go", 1))
	if a.Hash() == c.Hash() {
		t.Error("distinct snapshots hash equal")
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	s := NewSnapshot(issue(7, SeverityCritical, "x.go", 3), issue(9, SeverityLow, "y.go", 8))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back IssueSnapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", back.Size())
	}
	if !back.Contains(Fingerprint(7)) || !back.Contains(Fingerprint(9)) {
		t.Error("round trip lost fingerprints")
	}
}

func TestNewAnalysisResult(t *testing.T) {
	snap := NewSnapshot(
		issue(1, SeverityHigh, "a.go", 1),
		issue(2, SeverityHigh, "a.go", 2),
		issue(3, SeverityLow, "b.go", 3),
	)

	res := NewAnalysisResult("golint", 14, snap)

	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if res.BySeverity[SeverityHigh] != 2 || res.BySeverity[SeverityLow] != 1 {
		t.Errorf("BySeverity = %v", res.BySeverity)
	}
	if res.SnapshotHash != snap.Hash() {
		t.Error("SnapshotHash does not match snapshot")
	}
}

func TestNewAnalysisResultNilSnapshot(t *testing.T) {
	res := NewAnalysisResult("golint", 1, nil)
	if res.Total != 0 || res.Snapshot == nil {
		t.Errorf("nil snapshot should yield empty result, got total=%d snapshot=%v", res.Total, res.Snapshot)
	}
}
