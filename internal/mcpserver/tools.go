package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/driftline/driftline/pkg/models"
)

// JobInput is the base input for all driftline tools.
type JobInput struct {
	Job string `json:"job" jsonschema:"CI job name the results were ingested under."`
}

// BaselineInput selects a tool's most recent result.
type BaselineInput struct {
	JobInput
	Tool          string `json:"tool" jsonschema:"Tool identity, e.g. eslint or golint."`
	IncludeIssues bool   `json:"include_issues,omitempty" jsonschema:"Include the full issue list, not just counts."`
}

// DiffInput selects the build pair to classify.
type DiffInput struct {
	JobInput
	Tool  string `json:"tool" jsonschema:"Tool identity to diff."`
	Build int    `json:"build,omitempty" jsonschema:"Build number to diff against its predecessor. Defaults to the latest result-carrying build."`
}

// TrendInput configures the series query.
type TrendInput struct {
	JobInput
	Tool      string `json:"tool,omitempty" jsonschema:"Tool identity. Empty aggregates all of the job's tools into one series."`
	MaxBuilds int    `json:"max_builds,omitempty" jsonschema:"Cap on the most recent data points. Default 50."`
	Severity  bool   `json:"severity,omitempty" jsonschema:"Break each point down by severity."`
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(out)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleListBuilds(ctx context.Context, req *mcp.CallToolRequest, input JobInput) (*mcp.CallToolResult, any, error) {
	builds, err := s.svc.Store().Builds(input.Job)
	if err != nil {
		return toolError(err.Error())
	}
	if len(builds) == 0 {
		return toolError("no builds recorded for " + input.Job)
	}
	tools, err := s.svc.Store().Tools(input.Job)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(struct {
		Builds []models.Build `json:"builds" toon:"builds"`
		Tools  []string       `json:"tools" toon:"tools"`
	}{builds, tools})
}

func (s *Server) handleGetBaseline(ctx context.Context, req *mcp.CallToolRequest, input BaselineInput) (*mcp.CallToolResult, any, error) {
	rec, err := s.svc.Baseline(input.Job, input.Tool)
	if err != nil {
		return toolError(err.Error())
	}

	out := struct {
		Build      int                     `json:"build" toon:"build"`
		Status     models.BuildStatus      `json:"status" toon:"status"`
		Total      int                     `json:"total" toon:"total"`
		BySeverity map[models.Severity]int `json:"by_severity" toon:"by_severity"`
		Issues     []models.Issue          `json:"issues,omitempty" toon:"issues,omitempty"`
	}{
		Build:      rec.Build.Number,
		Status:     rec.Build.Status,
		Total:      rec.Result.Total,
		BySeverity: rec.Result.BySeverity,
	}
	if input.IncludeIssues {
		out.Issues = rec.Result.Snapshot.Issues()
	}
	return toolResult(out)
}

func (s *Server) handleDiffBuilds(ctx context.Context, req *mcp.CallToolRequest, input DiffInput) (*mcp.CallToolResult, any, error) {
	report, err := s.svc.Diff(input.Job, input.Tool, input.Build)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report)
}

func (s *Server) handleGetTrend(ctx context.Context, req *mcp.CallToolRequest, input TrendInput) (*mcp.CallToolResult, any, error) {
	cfg := models.ChartConfig{
		MaxBuilds:         input.MaxBuilds,
		SeverityBreakdown: input.Severity,
	}
	report, err := s.svc.Trend(input.Job, input.Tool, cfg)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report)
}
