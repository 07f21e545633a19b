package main

import (
	"testing"

	"github.com/driftline/driftline/pkg/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short stays", "abc", 10, "abc"},
		{"exact stays", "abcde", 5, "abcde"},
		{"long gets ellipsis", "abcdefghij", 8, "abcde..."},
		{"tiny max hard-cuts", "abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestSeverityCells(t *testing.T) {
	counts := map[models.Severity]int{
		models.SeverityHigh: 3,
		models.SeverityLow:  1,
	}

	cells := severityCells(counts)
	headers := severityHeaders()

	if len(cells) != len(headers) {
		t.Fatalf("cells/headers length mismatch: %d vs %d", len(cells), len(headers))
	}
	// Ascending weight order: low, medium, high, critical.
	want := []string{"1", "0", "3", "0"}
	for i, cell := range cells {
		if cell != want[i] {
			t.Errorf("cell[%d] (%s) = %s, want %s", i, headers[i], cell, want[i])
		}
	}
}

func TestIssueRows(t *testing.T) {
	issues := []models.Issue{
		{File: "a.go", StartLine: 12, Severity: models.SeverityHigh, Message: "m", Author: "dev@x"},
	}

	rows := issueRows(issues, false)

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][0] != "a.go:12" {
		t.Errorf("location cell = %q, want a.go:12", rows[0][0])
	}
	if rows[0][2] != "dev@x" {
		t.Errorf("author cell = %q", rows[0][2])
	}
}
