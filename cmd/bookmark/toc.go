package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/server/endpoints"
	"github.com/jackzampolin/bookmark/internal/toc"
	"github.com/jackzampolin/bookmark/internal/types"
)

var (
	tocIDs    types.Identifiers
	tocFormat string
)

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Find a book's table of contents",
	Long: `Find a book's table of contents.

Sources are tried in sources.toc_order (default: litres, labirint,
openlibrary, googlebooks) and the first non-empty answer wins. The search
trail is printed to stderr; stdout only carries the result.

Examples:
  bookmark toc --litres-id 12345678
  bookmark toc --isbn 9785171202442 --format json
  bookmark toc --title "Мастер и Маргарита" >> book.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, err := parseTOCFormat(tocFormat)
		if err != nil {
			return err
		}

		a, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out, err := a.chain(resolve.ModeTOC, cmd.ErrOrStderr()).ResolveTOC(ctx, tocIDs)
		if err != nil {
			explainNotFound(cmd.ErrOrStderr(), err)
			return err
		}

		w := cmd.OutOrStdout()
		switch format {
		case "markdown":
			_, err = fmt.Fprintln(w, toc.RenderMarkdown(a.config.Get().Checklist.Heading, out.Chapters))
			return err
		case "json":
			return api.OutputTo(w, api.OutputFormatJSON, toc.RenderLines(out.Chapters))
		default:
			return api.OutputTo(w, api.OutputFormatYAML, toc.RenderLines(out.Chapters))
		}
	},
}

func parseTOCFormat(s string) (string, error) {
	switch s {
	case "markdown", "md", "":
		return "markdown", nil
	case "json", "yaml":
		return s, nil
	default:
		return "", fmt.Errorf("unknown format %q (want markdown, json or yaml)", s)
	}
}

func init() {
	endpoints.AddIdentifierFlags(tocCmd, &tocIDs)
	tocCmd.Flags().StringVar(&tocFormat, "format", "markdown", "markdown, json or yaml")

	rootCmd.AddCommand(tocCmd)
}
