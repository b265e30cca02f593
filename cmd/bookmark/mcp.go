package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the bookmark tools over MCP (stdio)",
	Long: `Serve the bookmark tools to an MCP client over stdin/stdout.

Tools:
  fetch-toc         Table of contents as a markdown checklist
  book-info         Metadata as YAML frontmatter
  reading-progress  Score the checklist of a note

Logs go to stderr; stdout carries the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), mcpserver.Deps{
			Sources: a.sources,
			Config:  a.config,
			Logger:  a.logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
