package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Severity represents the urgency of an issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists all severities in ascending weight order.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// String returns the severity as a plain string so serializers that rely on
// fmt.Stringer (like toon) render it as its string value.
func (s Severity) String() string { return string(s) }

// Weight returns a numeric weight for sorting.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s.Weight() > 0
}

// Fingerprint is the stable identity key of an issue. It is derived from
// the issue's location and content, not its raw line number, so issues
// surviving a line shift keep their identity. Fingerprint equality is the
// sole identity used for diffing.
type Fingerprint uint64

// String renders the fingerprint as a fixed-width hex string.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ParseFingerprint parses the hex form produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	return Fingerprint(v), nil
}

// MarshalJSON encodes the fingerprint as its hex string form. Raw uint64
// values would lose precision in JSON consumers that parse numbers as
// float64.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts the hex string form.
func (f *Fingerprint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseFingerprint(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Issue is a single finding reported by a static-analysis tool.
type Issue struct {
	Fingerprint Fingerprint `json:"fingerprint" toon:"fingerprint"`
	Severity    Severity    `json:"severity" toon:"severity"`
	Category    string      `json:"category,omitempty" toon:"category,omitempty"`
	Type        string      `json:"type,omitempty" toon:"type,omitempty"`
	File        string      `json:"file" toon:"file"`
	StartLine   int         `json:"start_line,omitempty" toon:"start_line,omitempty"`
	EndLine     int         `json:"end_line,omitempty" toon:"end_line,omitempty"`
	Message     string      `json:"message,omitempty" toon:"message,omitempty"`
	Author      string      `json:"author,omitempty" toon:"author,omitempty"`
}

// SortIssues orders issues by file, start line, then fingerprint, giving
// deterministic output for tables and serialization.
func SortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		if issues[i].StartLine != issues[j].StartLine {
			return issues[i].StartLine < issues[j].StartLine
		}
		return issues[i].Fingerprint < issues[j].Fingerprint
	})
}
