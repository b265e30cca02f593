package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/progress"
)

var (
	progressFormat  string
	progressTotal   int
	progressPDF     string
	progressHeading string
)

var progressCmd = &cobra.Command{
	Use:   "progress FILE",
	Short: "Score the reading checklist of a note",
	Long: `Score the reading checklist of a markdown note.

Items may carry a page range [12-40] or a weight [w:3]. Page ranges win
when any item has one, then weights, then plain chapter counts. The total
page count comes from --total, else the frontmatter "total:" field, else
the page count of --pdf.

Examples:
  bookmark progress book.md
  bookmark progress book.md --format json
  bookmark progress book.md --pdf book.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch progressFormat {
		case "human", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q (want human, json or yaml)", progressFormat)
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file not found: %s", path)
			}
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		markdown := string(data)

		a, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		heading := progressHeading
		if heading == "" {
			heading = a.config.Get().Progress.Heading
		}

		items, err := progress.ParseSection(markdown, heading)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		total, src, err := progress.TotalPagesHint(progressTotal, markdown, progressPDF)
		if err != nil {
			return err
		}
		a.logger.Debug("scoring checklist", "items", len(items), "total_pages", total, "total_source", string(src))

		result := progress.Score(items, total)
		w := cmd.OutOrStdout()
		switch progressFormat {
		case "json":
			return api.OutputTo(w, api.OutputFormatJSON, result)
		case "yaml":
			return api.OutputTo(w, api.OutputFormatYAML, result)
		default:
			_, err = fmt.Fprintln(w, progress.FormatHuman(result))
			return err
		}
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressFormat, "format", "human", "human, json or yaml")
	progressCmd.Flags().IntVar(&progressTotal, "total", 0, "Total page count of the book")
	progressCmd.Flags().StringVar(&progressPDF, "pdf", "", "Read the total page count from this PDF")
	progressCmd.Flags().StringVar(&progressHeading, "heading", "", "Checklist section heading (default: progress.heading)")

	rootCmd.AddCommand(progressCmd)
}
