// Package ingest parses generic tool reports into analysis results:
// schema validation, fingerprint assignment, and snapshot construction.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/sourcegraph/conc/pool"

	"github.com/driftline/driftline/pkg/fingerprint"
	"github.com/driftline/driftline/pkg/models"
)

// Report is the generic wire format every tool adapter emits.
type Report struct {
	Tool   string        `json:"tool"`
	Build  int           `json:"build"`
	Issues []ReportIssue `json:"issues"`
}

// ReportIssue is one finding as reported. Fingerprint is an optional
// tool-provided identity override; when empty a stable fingerprint is
// derived from the issue's key attributes.
type ReportIssue struct {
	File        string `json:"file"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Parser validates and converts reports.
type Parser struct {
	validate bool
	workers  int
}

// Option configures a Parser.
type Option func(*Parser)

// WithoutValidation skips schema validation of the raw report. Only safe
// for input this process generated itself.
func WithoutValidation() Option {
	return func(p *Parser) { p.validate = false }
}

// WithWorkers sets the parallel parse worker count.
func WithWorkers(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.workers = n
		}
	}
}

// NewParser returns a Parser with validation enabled.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		validate: true,
		workers:  runtime.NumCPU() * 2,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(reportSchema))
	if err != nil {
		return nil, fmt.Errorf("decode embedded report schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("report.schema.json", doc); err != nil {
		return nil, fmt.Errorf("register report schema: %w", err)
	}
	return c.Compile("report.schema.json")
})

// Parse decodes one report from raw JSON.
func (p *Parser) Parse(data []byte) (*Report, error) {
	if p.validate {
		schema, err := compileSchema()
		if err != nil {
			return nil, err
		}
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("report is not valid JSON: %w", err)
		}
		if err := schema.Validate(inst); err != nil {
			return nil, fmt.Errorf("report rejected by schema: %w", err)
		}
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// ParseFile reads and parses one report file.
func (p *Parser) ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	r, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ProgressFunc is called once per parsed file.
type ProgressFunc func()

// ParseFiles parses report files in parallel. Results keep the order of
// paths. Per-file failures are collected; the first error is returned
// after all workers finish and any successful reports are still handed
// back to the caller.
func (p *Parser) ParseFiles(paths []string, onProgress ProgressFunc) ([]*Report, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	reports := make([]*Report, len(paths))
	errs := make([]error, len(paths))

	wp := pool.New().WithMaxGoroutines(p.workers)
	for i, path := range paths {
		wp.Go(func() {
			reports[i], errs[i] = p.ParseFile(path)
			if onProgress != nil {
				onProgress()
			}
		})
	}
	wp.Wait()

	var ok []*Report
	var firstErr error
	for i, r := range reports {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		ok = append(ok, r)
	}
	return ok, firstErr
}

// Result converts the report into an analysis result. Issues without a
// tool-provided fingerprint get one derived from file, category, type,
// message, and line span. Duplicate fingerprints collapse.
func (r *Report) Result() (*models.AnalysisResult, error) {
	issues := make([]models.Issue, 0, len(r.Issues))
	for i, ri := range r.Issues {
		issue, err := ri.toModel()
		if err != nil {
			return nil, fmt.Errorf("issue %d: %w", i, err)
		}
		issues = append(issues, issue)
	}
	return models.NewAnalysisResult(r.Tool, r.Build, models.NewSnapshot(issues...)), nil
}

func (ri ReportIssue) toModel() (models.Issue, error) {
	sev := models.Severity(ri.Severity)
	if !sev.Valid() {
		return models.Issue{}, fmt.Errorf("unknown severity %q", ri.Severity)
	}

	endLine := ri.EndLine
	if endLine < ri.StartLine {
		endLine = ri.StartLine
	}

	var fp models.Fingerprint
	if ri.Fingerprint != "" {
		fp = fingerprint.FromString(ri.Fingerprint)
	} else {
		fp = fingerprint.Compute(ri.File, ri.Category, ri.Type, ri.Message, ri.StartLine, endLine)
	}

	return models.Issue{
		Fingerprint: fp,
		Severity:    sev,
		Category:    ri.Category,
		Type:        ri.Type,
		File:        ri.File,
		StartLine:   ri.StartLine,
		EndLine:     endLine,
		Message:     ri.Message,
	}, nil
}
