package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/svcctx"
	"github.com/jackzampolin/bookmark/internal/toc"
	"github.com/jackzampolin/bookmark/internal/types"
)

// TOCResponse is a resolved table of contents.
type TOCResponse struct {
	RequestID  string               `json:"request_id" yaml:"request_id"`
	Source     string               `json:"source" yaml:"source"`
	SourceURL  string               `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	PreviewURL string               `json:"preview_url,omitempty" yaml:"preview_url,omitempty"`
	Chapters   []types.ChapterEntry `json:"chapters" yaml:"chapters"`
	Lines      []string             `json:"lines" yaml:"lines"`
	Markdown   string               `json:"markdown" yaml:"markdown"`
	Attempts   []resolve.Attempt    `json:"attempts" yaml:"attempts"`
}

// TOCEndpoint handles GET /api/toc.
type TOCEndpoint struct{}

func (e *TOCEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/toc", e.handler
}

func (e *TOCEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Resolve a table of contents
//	@Description	Try the configured sources in order and return the first non-empty table of contents
//	@Tags			books
//	@Produce		json
//	@Param			litres_id	query		string	false	"Litres numeric ID"
//	@Param			isbn		query		string	false	"ISBN"
//	@Param			title		query		string	false	"Book title"
//	@Param			url			query		string	false	"Direct page URL"
//	@Success		200			{object}	TOCResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	NotFoundResponse
//	@Router			/api/toc [get]
func (e *TOCEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ids := identifiersFromQuery(r.URL.Query())

	out, err := chainFor(ctx, resolve.ModeTOC).ResolveTOC(ctx, ids)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	heading := svcctx.ConfigFrom(ctx).Checklist.Heading
	writeJSON(w, http.StatusOK, TOCResponse{
		RequestID:  out.RequestID,
		Source:     out.Source,
		SourceURL:  out.SourceURL,
		PreviewURL: out.PreviewURL,
		Chapters:   out.Chapters,
		Lines:      toc.RenderLines(out.Chapters),
		Markdown:   toc.RenderMarkdown(heading, out.Chapters),
		Attempts:   out.Attempts,
	})
}

func (e *TOCEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ids types.Identifiers
	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Resolve a table of contents on the server",
		Long: `Resolve a table of contents on the server.

With --output text the rendered markdown checklist is printed,
otherwise the full response including the search trail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp TOCResponse
			if err := client.GetQuery(ctx, "/api/toc", identifierParams(ids), &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				fmt.Println(resp.Markdown)
				return nil
			}
			return api.Output(resp)
		},
	}
	AddIdentifierFlags(cmd, &ids)
	return cmd
}
