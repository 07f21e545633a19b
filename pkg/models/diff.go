package models

// DiffResult is the new/fixed/outstanding partition of two issue snapshots.
// It is derived and transient; callers own it and nothing persists it.
type DiffResult struct {
	New         []Issue `json:"new" toon:"new"`
	Fixed       []Issue `json:"fixed" toon:"fixed"`
	Outstanding []Issue `json:"outstanding" toon:"outstanding"`
}

// DiffCounts summarizes a diff for counters like [new=1][fixed=1].
type DiffCounts struct {
	New         int `json:"new" toon:"new"`
	Fixed       int `json:"fixed" toon:"fixed"`
	Outstanding int `json:"outstanding" toon:"outstanding"`
}

// Counts returns the partition sizes.
func (d *DiffResult) Counts() DiffCounts {
	return DiffCounts{
		New:         len(d.New),
		Fixed:       len(d.Fixed),
		Outstanding: len(d.Outstanding),
	}
}
