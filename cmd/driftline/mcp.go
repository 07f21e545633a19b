package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/driftline/driftline/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes driftline's
history queries as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "driftline": {
        "command": "driftline",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - list_builds     Recorded builds and tools of a job
  - get_baseline    Most recent result of a tool on a job
  - diff_builds     New/fixed/outstanding issues between builds
  - get_trend       Issue-count series with regression statistics`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	svc, _, closeStore, err := openService(c)
	if err != nil {
		return err
	}
	defer closeStore()

	server := mcpserver.NewServer(svc, version)
	return server.Run(context.Background())
}
