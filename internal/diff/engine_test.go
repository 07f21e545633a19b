package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/driftline/driftline/pkg/models"
)

func issue(fp uint64, sev models.Severity) models.Issue {
	return models.Issue{
		Fingerprint: models.Fingerprint(fp),
		Severity:    sev,
		File:        "pkg/app/app.go",
		StartLine:   int(fp),
		Message:     "finding",
	}
}

func snapshot(issues ...models.Issue) *models.IssueSnapshot {
	return models.NewSnapshot(issues...)
}

func fingerprints(issues []models.Issue) []uint64 {
	out := make([]uint64, 0, len(issues))
	for _, is := range issues {
		out = append(out, uint64(is.Fingerprint))
	}
	return out
}

func TestNilPreviousMarksEverythingNew(t *testing.T) {
	cur := snapshot(issue(1, models.SeverityHigh), issue(2, models.SeverityLow))

	res := Compute(nil, cur)

	if diff := cmp.Diff(cur.Issues(), res.New); diff != "" {
		t.Errorf("New mismatch (-want +got):\n%s", diff)
	}
	if len(res.Fixed) != 0 || len(res.Outstanding) != 0 {
		t.Errorf("Fixed/Outstanding = %d/%d, want 0/0", len(res.Fixed), len(res.Outstanding))
	}
}

func TestEmptyPreviousIsAlsoAllNew(t *testing.T) {
	// An empty snapshot and an absent one are distinct inputs that happen
	// to produce the same partition.
	cur := snapshot(issue(1, models.SeverityHigh))

	res := Compute(snapshot(), cur)

	if len(res.New) != 1 || len(res.Fixed) != 0 || len(res.Outstanding) != 0 {
		t.Errorf("partition = %d/%d/%d, want 1/0/0",
			len(res.New), len(res.Fixed), len(res.Outstanding))
	}
}

func TestDisjointSnapshotsHaveNoOutstanding(t *testing.T) {
	a := snapshot(issue(1, models.SeverityLow), issue(2, models.SeverityLow))
	b := snapshot(issue(3, models.SeverityHigh), issue(4, models.SeverityHigh))

	res := Compute(a, b)

	if len(res.Outstanding) != 0 {
		t.Errorf("Outstanding = %v, want empty", fingerprints(res.Outstanding))
	}
	if len(res.New) != 2 || len(res.Fixed) != 2 {
		t.Errorf("New/Fixed = %d/%d, want 2/2", len(res.New), len(res.Fixed))
	}
}

func TestIdenticalSnapshots(t *testing.T) {
	a := snapshot(issue(1, models.SeverityLow), issue(2, models.SeverityHigh))

	res := Compute(a, a)

	if len(res.New) != 0 || len(res.Fixed) != 0 {
		t.Errorf("New/Fixed = %d/%d, want 0/0", len(res.New), len(res.Fixed))
	}
	if diff := cmp.Diff(a.Issues(), res.Outstanding); diff != "" {
		t.Errorf("Outstanding mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffIsAsymmetric(t *testing.T) {
	a := snapshot(issue(1, models.SeverityHigh), issue(2, models.SeverityLow))
	b := snapshot(issue(2, models.SeverityLow), issue(3, models.SeverityHigh))

	ab := Compute(a, b)
	ba := Compute(b, a)

	if diff := cmp.Diff(fingerprints(ab.New), fingerprints(ba.Fixed)); diff != "" {
		t.Errorf("diff(a,b).New != diff(b,a).Fixed:\n%s", diff)
	}
	if diff := cmp.Diff(fingerprints(ab.Fixed), fingerprints(ba.New)); diff != "" {
		t.Errorf("diff(a,b).Fixed != diff(b,a).New:\n%s", diff)
	}
}

func TestConsecutiveBuildScenario(t *testing.T) {
	// Build A reports {f1 high, f2 low}; build B reports {f2 low, f3 high}.
	a := snapshot(issue(1, models.SeverityHigh), issue(2, models.SeverityLow))
	b := snapshot(issue(2, models.SeverityLow), issue(3, models.SeverityHigh))

	res := Compute(a, b)
	counts := res.Counts()

	if counts.New != 1 || counts.Fixed != 1 || counts.Outstanding != 1 {
		t.Fatalf("counts = %+v, want new=1 fixed=1 outstanding=1", counts)
	}
	if res.New[0].Fingerprint != 3 {
		t.Errorf("New = %v, want [f3]", fingerprints(res.New))
	}
	if res.Fixed[0].Fingerprint != 1 {
		t.Errorf("Fixed = %v, want [f1]", fingerprints(res.Fixed))
	}
	if res.Outstanding[0].Fingerprint != 2 {
		t.Errorf("Outstanding = %v, want [f2]", fingerprints(res.Outstanding))
	}
}

func TestOutstandingTakesCurrentCopy(t *testing.T) {
	// Same fingerprint, severity escalated between builds. The current
	// side's attributes must win.
	prev := snapshot(issue(7, models.SeverityLow))
	curIssue := issue(7, models.SeverityCritical)
	curIssue.Message = "finding, reworded"
	cur := snapshot(curIssue)

	res := Compute(prev, cur)

	if len(res.Outstanding) != 1 {
		t.Fatalf("Outstanding = %d issues, want 1", len(res.Outstanding))
	}
	if diff := cmp.Diff(curIssue, res.Outstanding[0]); diff != "" {
		t.Errorf("Outstanding copy mismatch (-want +got):\n%s", diff)
	}
}

func TestNilCurrentFixesEverything(t *testing.T) {
	prev := snapshot(issue(1, models.SeverityLow), issue(2, models.SeverityHigh))

	res := Compute(prev, nil)

	if len(res.New) != 0 || len(res.Outstanding) != 0 {
		t.Errorf("New/Outstanding = %d/%d, want 0/0", len(res.New), len(res.Outstanding))
	}
	if len(res.Fixed) != 2 {
		t.Errorf("Fixed = %v, want both issues", fingerprints(res.Fixed))
	}
}

func TestDeterministicOrder(t *testing.T) {
	a := snapshot(issue(5, models.SeverityLow), issue(3, models.SeverityLow), issue(9, models.SeverityLow))
	b := snapshot(issue(9, models.SeverityLow), issue(4, models.SeverityLow), issue(1, models.SeverityLow))

	first := Compute(a, b)
	for i := 0; i < 10; i++ {
		again := Compute(a, b)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Compute is not deterministic (-first +again):\n%s", diff)
		}
	}
}
