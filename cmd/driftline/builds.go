package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/output"
)

func buildsCmd() *cli.Command {
	return &cli.Command{
		Name:  "builds",
		Usage: "List recorded builds of a job",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "job",
				Aliases: []string{"j"},
				Usage:   "CI job name (default: list all jobs)",
			},
		},
		Action: runBuildsCmd,
	}
}

func runBuildsCmd(c *cli.Context) error {
	svc, cfg, closeStore, err := openService(c)
	if err != nil {
		return err
	}
	defer closeStore()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	job := c.String("job")
	if job == "" {
		jobs, err := svc.Store().Jobs()
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			formatter.Warning("No builds recorded yet")
			return nil
		}
		rows := make([][]string, 0, len(jobs))
		for _, j := range jobs {
			tools, err := svc.Store().Tools(j)
			if err != nil {
				return err
			}
			rows = append(rows, []string{j, strings.Join(tools, ", ")})
		}
		return formatter.Output(&output.Table{
			Title:   "Jobs",
			Headers: []string{"Job", "Tools"},
			Rows:    rows,
			Data:    jobs,
		})
	}

	builds, err := svc.Store().Builds(job)
	if err != nil {
		return err
	}
	if len(builds) == 0 {
		return fmt.Errorf("no builds recorded for %s", job)
	}

	rows := make([][]string, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, []string{
			strconv.Itoa(b.Number),
			string(b.Status),
			b.Timestamp.Format("2006-01-02 15:04"),
		})
	}
	return formatter.Output(&output.Table{
		Title:   "Builds: " + job,
		Headers: []string{"Number", "Status", "Date"},
		Rows:    rows,
		Data:    builds,
	})
}
