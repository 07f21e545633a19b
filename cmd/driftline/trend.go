package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/output"
	"github.com/driftline/driftline/internal/progress"
	"github.com/driftline/driftline/pkg/models"
)

func trendCmd() *cli.Command {
	return &cli.Command{
		Name:  "trend",
		Usage: "Show issue counts over a job's build history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "job",
				Aliases:  []string{"j"},
				Usage:    "CI job name",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "tool",
				Aliases: []string{"t"},
				Usage:   "Tool identity (default: aggregate all tools)",
			},
			&cli.IntFlag{
				Name:  "max-builds",
				Usage: "Cap on the most recent data points (default from config)",
			},
			&cli.BoolFlag{
				Name:  "severity",
				Usage: "Break each point down by severity",
			},
		},
		Action: runTrendCmd,
	}
}

func runTrendCmd(c *cli.Context) error {
	svc, cfg, closeStore, err := openService(c)
	if err != nil {
		return err
	}
	defer closeStore()

	chartCfg := models.ChartConfig{
		MaxBuilds:         cfg.Trend.MaxBuilds,
		ChartType:         models.ParseTrendChartType(cfg.Trend.ChartType),
		SeverityBreakdown: cfg.Trend.SeverityBreakdown || c.Bool("severity"),
	}
	if n := c.Int("max-builds"); n > 0 {
		chartCfg.MaxBuilds = n
	}

	spinner := progress.NewSpinner("Walking build history")
	report, err := svc.Trend(c.String("job"), c.String("tool"), chartCfg)
	if err != nil {
		spinner.FinishError(err)
		return err
	}
	spinner.FinishSuccess()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	title := "Trend: " + c.String("job")
	if report.Series.Tool != "" {
		title += " / " + report.Series.Tool
	}

	headers := []string{"Build", "Date", "Total"}
	if chartCfg.SeverityBreakdown {
		headers = append(headers, severityHeaders()...)
	}

	rows := make([][]string, 0, len(report.Series.Points))
	for _, p := range report.Series.Points {
		row := []string{
			strconv.Itoa(p.Build),
			p.Timestamp.Format("2006-01-02 15:04"),
			strconv.Itoa(p.Total),
		}
		if chartCfg.SeverityBreakdown {
			row = append(row, severityCells(p.BySeverity)...)
		}
		rows = append(rows, row)
	}

	footer := make([]string, len(headers))
	footer[0] = "slope"
	footer[1] = fmt.Sprintf("%+.2f/build", report.Stats.Slope)
	footer[2] = fmt.Sprintf("r2=%.2f", report.Stats.RSquared)

	return formatter.Output(&output.Table{
		Title:   title,
		Headers: headers,
		Rows:    rows,
		Footer:  footer,
		Data:    report,
	})
}
