package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/output"
	"github.com/driftline/driftline/internal/service"
	"github.com/driftline/driftline/internal/store"
	"github.com/driftline/driftline/pkg/config"
	"github.com/driftline/driftline/pkg/models"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// openService opens the store and wraps it in a service. The caller must
// call the returned close function.
func openService(c *cli.Context) (*service.Service, *config.Config, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	dir := cfg.Storage.Dir
	if flagDir := c.String("store"); flagDir != "" {
		dir = flagDir
	}

	st, err := store.Open(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	svc := service.New(st, service.WithConfig(cfg))
	return svc, cfg, func() { st.Close() }, nil
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := cfg.Output.Format
	if f := c.String("format"); f != "" {
		format = f
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color)
}

// issueRows converts issues to table rows: file:line, severity, author,
// message.
func issueRows(issues []models.Issue, colored bool) [][]string {
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		sev := string(is.Severity)
		if colored {
			sev = output.SeverityColor(is.Severity, sev)
		}
		rows = append(rows, []string{
			is.File + ":" + strconv.Itoa(is.StartLine),
			sev,
			is.Author,
			truncate(is.Message, 80),
		})
	}
	return rows
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func severityCells(counts map[models.Severity]int) []string {
	cells := make([]string, 0, len(models.Severities()))
	for _, sev := range models.Severities() {
		cells = append(cells, strconv.Itoa(counts[sev]))
	}
	return cells
}

func severityHeaders() []string {
	headers := make([]string, 0, len(models.Severities()))
	for _, sev := range models.Severities() {
		headers = append(headers, string(sev))
	}
	return headers
}
