package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/output"
)

func baselineCmd() *cli.Command {
	return &cli.Command{
		Name:  "baseline",
		Usage: "Show the most recent analysis result of a tool",
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
			&cli.BoolFlag{
				Name:  "issues",
				Usage: "List the issues, not just counts",
			},
		},
		Action: runBaselineCmd,
	}
}

func runBaselineCmd(c *cli.Context) error {
	svc, cfg, closeStore, err := openService(c)
	if err != nil {
		return err
	}
	defer closeStore()

	rec, err := svc.Baseline(c.String("job"), c.String("tool"))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if c.Bool("issues") {
		issues := rec.Result.Snapshot.Issues()
		return formatter.Output(&output.Table{
			Title:   "Baseline: " + rec.Result.Tool + " build " + strconv.Itoa(rec.Build.Number),
			Headers: []string{"Location", "Severity", "Author", "Message"},
			Rows:    issueRows(issues, cfg.Output.Color),
			Data:    rec.Result,
		})
	}

	headers := append([]string{"Build", "Status", "Total"}, severityHeaders()...)
	row := append([]string{
		strconv.Itoa(rec.Build.Number),
		string(rec.Build.Status),
		strconv.Itoa(rec.Result.Total),
	}, severityCells(rec.Result.BySeverity)...)

	return formatter.Output(&output.Table{
		Title:   "Baseline: " + rec.Result.Tool,
		Headers: headers,
		Rows:    [][]string{row},
		Data:    rec.Result,
	})
}
