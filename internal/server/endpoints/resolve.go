package endpoints

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/svcctx"
	"github.com/jackzampolin/bookmark/internal/types"
)

// NotFoundResponse is returned with 404 when no source had an answer.
type NotFoundResponse struct {
	Error      string            `json:"error"`
	Guidance   string            `json:"guidance"`
	RequestID  string            `json:"request_id,omitempty"`
	PreviewURL string            `json:"preview_url,omitempty"`
	Attempts   []resolve.Attempt `json:"attempts"`
}

// identifiersFromQuery reads litres_id, isbn, title and url.
func identifiersFromQuery(q url.Values) types.Identifiers {
	return types.Identifiers{
		LitresID:  strings.TrimSpace(q.Get("litres_id")),
		ISBN:      strings.TrimSpace(q.Get("isbn")),
		Title:     strings.TrimSpace(q.Get("title")),
		DirectURL: strings.TrimSpace(q.Get("url")),
	}
}

// identifierParams is the client-side mirror of identifiersFromQuery.
func identifierParams(ids types.Identifiers) map[string]string {
	return map[string]string{
		"litres_id": ids.LitresID,
		"isbn":      ids.ISBN,
		"title":     ids.Title,
		"url":       ids.DirectURL,
	}
}

// AddIdentifierFlags binds the book identifier flags used by every lookup
// command, local or remote.
func AddIdentifierFlags(cmd *cobra.Command, ids *types.Identifiers) {
	cmd.Flags().StringVar(&ids.LitresID, "litres-id", "", "Litres numeric book ID")
	cmd.Flags().StringVar(&ids.ISBN, "isbn", "", "ISBN-10 or ISBN-13")
	cmd.Flags().StringVar(&ids.Title, "title", "", "Book title (used for search)")
	cmd.Flags().StringVar(&ids.DirectURL, "url", "", "Direct book page URL (Labirint or Litres)")
}

// chainFor builds a chain over the registry in the configured order for mode.
func chainFor(ctx context.Context, mode resolve.Mode) *resolve.Chain {
	cfg := svcctx.ConfigFrom(ctx)
	order := cfg.Sources.TOCOrder
	if mode == resolve.ModeMetadata {
		order = cfg.Sources.InfoOrder
	}
	return resolve.NewChain(resolve.Config{
		Sources: svcctx.SourcesFrom(ctx).Ordered(order),
		Logger:  svcctx.LoggerFrom(ctx),
	})
}

// writeResolveError maps chain errors onto status codes.
func writeResolveError(w http.ResponseWriter, err error) {
	var nf *resolve.NotFoundError
	switch {
	case errors.As(err, &nf):
		resp := NotFoundResponse{Error: nf.Error(), Guidance: nf.Guidance(), Attempts: []resolve.Attempt{}}
		if nf.Outcome != nil {
			resp.RequestID = nf.Outcome.RequestID
			resp.PreviewURL = nf.Outcome.PreviewURL
			resp.Attempts = nf.Outcome.Attempts
		}
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, resolve.ErrNoIdentifiers):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
