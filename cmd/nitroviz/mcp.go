// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/nitroviz/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running nitroviz as an MCP server, exposing the generators and the N/ST series to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing nitroviz's tools:
  - list_visualizations:     List the available pages
  - generate_visualization:  Generate one or more pages into a project
  - nst_summary:             Return the monthly N/ST series as JSON

The server communicates using the Model Context Protocol (MCP) over stdio
transport.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcpserver.Run(cmd.Context(), Version, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
