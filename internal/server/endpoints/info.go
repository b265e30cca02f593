package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/frontmatter"
	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/types"
)

// InfoResponse is a resolved metadata record.
type InfoResponse struct {
	RequestID   string              `json:"request_id" yaml:"request_id"`
	Source      string              `json:"source" yaml:"source"`
	SourceURL   string              `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Metadata    *types.BookMetadata `json:"metadata" yaml:"metadata"`
	Frontmatter string              `json:"frontmatter" yaml:"frontmatter"`
	Attempts    []resolve.Attempt   `json:"attempts" yaml:"attempts"`
}

// InfoEndpoint handles GET /api/info.
type InfoEndpoint struct{}

func (e *InfoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/info", e.handler
}

func (e *InfoEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Resolve book metadata
//	@Description	Try the configured sources in order and return the first metadata record with a title
//	@Tags			books
//	@Produce		json
//	@Param			litres_id	query		string	false	"Litres numeric ID"
//	@Param			isbn		query		string	false	"ISBN"
//	@Param			title		query		string	false	"Book title"
//	@Param			url			query		string	false	"Direct page URL"
//	@Success		200			{object}	InfoResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	NotFoundResponse
//	@Router			/api/info [get]
func (e *InfoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ids := identifiersFromQuery(r.URL.Query())

	out, err := chainFor(ctx, resolve.ModeMetadata).ResolveMetadata(ctx, ids)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	block, err := frontmatter.Render(out.Metadata, out.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		RequestID:   out.RequestID,
		Source:      out.Source,
		SourceURL:   out.SourceURL,
		Metadata:    out.Metadata,
		Frontmatter: block,
		Attempts:    out.Attempts,
	})
}

func (e *InfoEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ids types.Identifiers
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Resolve book metadata on the server",
		Long: `Resolve book metadata on the server.

With --output text the YAML frontmatter block is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp InfoResponse
			if err := client.GetQuery(ctx, "/api/info", identifierParams(ids), &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				fmt.Println(resp.Frontmatter)
				return nil
			}
			return api.Output(resp)
		},
	}
	AddIdentifierFlags(cmd, &ids)
	return cmd
}
