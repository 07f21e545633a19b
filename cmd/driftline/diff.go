package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/output"
	"github.com/driftline/driftline/internal/service"
	"github.com/driftline/driftline/pkg/models"
)

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Classify a build's issues as new, fixed, or outstanding",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "job",
				Aliases:  []string{"j"},
				Usage:    "CI job name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "tool",
				Aliases:  []string{"t"},
				Usage:    "Tool identity",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "build",
				Aliases: []string{"b"},
				Usage:   "Build number (default: latest with a result)",
			},
			&cli.IntFlag{
				Name:  "fail-on-new",
				Value: -1,
				Usage: "Exit non-zero when new issues exceed this count (quality gate)",
			},
		},
		Action: runDiffCmd,
	}
}

func runDiffCmd(c *cli.Context) error {
	svc, cfg, closeStore, err := openService(c)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := svc.Diff(c.String("job"), c.String("tool"), c.Int("build"))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := renderDiff(formatter, report, cfg.Output.Color); err != nil {
		return err
	}

	if gate := c.Int("fail-on-new"); gate >= 0 && report.Counts.New > gate {
		return fmt.Errorf("quality gate failed: %d new issues (allowed %d)",
			report.Counts.New, gate)
	}
	return nil
}

func renderDiff(formatter *output.Formatter, report *service.DiffReport, colored bool) error {
	title := fmt.Sprintf("Diff: %s build %d", report.Tool, report.Build)
	if report.PreviousBuild > 0 {
		title += fmt.Sprintf(" vs %d", report.PreviousBuild)
	} else {
		title += " (first result)"
	}

	rows := make([][]string, 0,
		len(report.Result.New)+len(report.Result.Fixed)+len(report.Result.Outstanding))
	for _, group := range []struct {
		label  string
		issues []models.Issue
	}{
		{"new", report.Result.New},
		{"fixed", report.Result.Fixed},
		{"outstanding", report.Result.Outstanding},
	} {
		for _, row := range issueRows(group.issues, colored) {
			rows = append(rows, append([]string{group.label}, row...))
		}
	}

	return formatter.Output(&output.Table{
		Title:   title,
		Headers: []string{"Class", "Location", "Severity", "Author", "Message"},
		Rows:    rows,
		Footer: []string{
			"totals",
			"new=" + strconv.Itoa(report.Counts.New),
			"fixed=" + strconv.Itoa(report.Counts.Fixed),
			"outstanding=" + strconv.Itoa(report.Counts.Outstanding),
			"",
		},
		Data: report,
	})
}
