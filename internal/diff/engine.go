// Package diff partitions two issue snapshots into new, fixed, and
// outstanding issues by fingerprint identity.
package diff

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/driftline/driftline/pkg/models"
)

// Compute classifies the issues of current against previous.
//
// A nil previous means no earlier result exists for the tool at all, so
// every current issue is new. That is a different input from an empty
// previous snapshot, although the two happen to produce the same
// partition; keep the branch explicit so the distinction survives
// refactoring.
//
// For fingerprints present on both sides the current copy wins: a
// fingerprint match does not promise that severity, message, or location
// are unchanged.
func Compute(previous, current *models.IssueSnapshot) models.DiffResult {
	if current == nil {
		current = models.NewSnapshot()
	}
	if previous == nil {
		return models.DiffResult{
			New:         current.Issues(),
			Fixed:       nil,
			Outstanding: nil,
		}
	}

	prevSet := fingerprintSet(previous)
	curSet := fingerprintSet(current)

	surviving := roaring64.And(prevSet, curSet)

	res := models.DiffResult{}
	for _, issue := range current.Issues() {
		if surviving.Contains(uint64(issue.Fingerprint)) {
			res.Outstanding = append(res.Outstanding, issue)
		} else {
			res.New = append(res.New, issue)
		}
	}
	for _, issue := range previous.Issues() {
		if !surviving.Contains(uint64(issue.Fingerprint)) {
			res.Fixed = append(res.Fixed, issue)
		}
	}
	return res
}

func fingerprintSet(s *models.IssueSnapshot) *roaring64.Bitmap {
	bm := roaring64.New()
	for _, fp := range s.Fingerprints() {
		bm.Add(uint64(fp))
	}
	return bm
}
