package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/frontmatter"
	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/server/endpoints"
	"github.com/jackzampolin/bookmark/internal/types"
)

var (
	infoIDs    types.Identifiers
	infoFormat string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Look up book metadata as note frontmatter",
	Long: `Look up book metadata and print it as YAML frontmatter.

Sources are tried in sources.info_order (default: litres, googlebooks,
openlibrary). The block is ready to start a new reading note.

Examples:
  bookmark info --litres-id 12345678 > book.md
  bookmark info --isbn 9780441013593 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if infoFormat != "yaml" && infoFormat != "json" {
			return fmt.Errorf("unknown format %q (want yaml or json)", infoFormat)
		}

		a, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out, err := a.chain(resolve.ModeMetadata, cmd.ErrOrStderr()).ResolveMetadata(ctx, infoIDs)
		if err != nil {
			explainNotFound(cmd.ErrOrStderr(), err)
			return err
		}

		w := cmd.OutOrStdout()
		if infoFormat == "json" {
			return api.OutputTo(w, api.OutputFormatJSON, out.Metadata)
		}
		block, err := frontmatter.Render(out.Metadata, out.Source)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, block)
		return err
	},
}

func init() {
	endpoints.AddIdentifierFlags(infoCmd, &infoIDs)
	infoCmd.Flags().StringVar(&infoFormat, "format", "yaml", "yaml (frontmatter) or json")

	rootCmd.AddCommand(infoCmd)
}
