package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/progress"
	"github.com/driftline/driftline/internal/service"
	"github.com/driftline/driftline/pkg/models"
)

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Record analysis reports for a build",
		ArgsUsage: "report.json...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "job",
				Aliases:  []string{"j"},
				Usage:    "CI job name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "status",
				Value: string(models.BuildSuccess),
				Usage: "Build status: success, unstable, failure, aborted",
			},
			&cli.BoolFlag{
				Name:  "blame",
				Usage: "Resolve issue authors from git blame",
			},
			&cli.StringFlag{
				Name:  "repo",
				Value: ".",
				Usage: "Repository path for --blame",
			},
		},
		Action: runIngestCmd,
	}
}

func runIngestCmd(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("no report files given")
	}

	status := models.BuildStatus(c.String("status"))
	if !status.Completed() {
		return fmt.Errorf("invalid build status %q", c.String("status"))
	}

	svc, cfg, closeStore, err := openService(c)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := service.IngestOptions{Status: status}
	if c.Bool("blame") || cfg.Ingest.Blame {
		opts.BlamePath = c.String("repo")
	}

	tracker := progress.NewTracker("Parsing reports", len(paths))
	opts.OnProgress = tracker.Tick

	results, err := svc.Ingest(c.String("job"), paths, opts)
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	for _, res := range results {
		formatter.Success("Recorded %s build %d: %d issues", res.Tool, res.Build, res.Total)
	}
	return nil
}
