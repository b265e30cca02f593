package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/progress"
	"github.com/jackzampolin/bookmark/internal/svcctx"
)

// maxNoteBytes bounds the request body of POST /api/progress.
const maxNoteBytes = 4 << 20

// ProgressRequest is the request body for scoring a note.
type ProgressRequest struct {
	Markdown   string `json:"markdown"`
	TotalPages int    `json:"total_pages,omitempty"`
	// Heading overrides progress.heading for this request.
	Heading string `json:"heading,omitempty"`
}

// ProgressResponse is the scored checklist plus a human summary.
type ProgressResponse struct {
	progress.Result  `yaml:",inline"`
	TotalPagesSource progress.HintSource `json:"total_pages_source,omitempty" yaml:"total_pages_source,omitempty"`
	Summary          string              `json:"summary" yaml:"summary"`
}

// ProgressEndpoint handles POST /api/progress.
type ProgressEndpoint struct{}

func (e *ProgressEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/progress", e.handler
}

func (e *ProgressEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Score reading progress
//	@Description	Parse the progress checklist of a markdown note and score it
//	@Tags			progress
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProgressRequest	true	"Note contents"
//	@Success		200		{object}	ProgressResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/progress [post]
func (e *ProgressEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNoteBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TotalPages < 0 {
		writeError(w, http.StatusBadRequest, "total_pages must not be negative")
		return
	}

	heading := req.Heading
	if heading == "" {
		heading = svcctx.ConfigFrom(r.Context()).Progress.Heading
	}

	resp, err := scoreNote(req.Markdown, heading, req.TotalPages)
	if err != nil {
		if errors.Is(err, progress.ErrSectionMissing) || errors.Is(err, progress.ErrEmptySection) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func scoreNote(markdown, heading string, totalPages int) (*ProgressResponse, error) {
	items, err := progress.ParseSection(markdown, heading)
	if err != nil {
		return nil, err
	}
	total, src, err := progress.TotalPagesHint(totalPages, markdown, "")
	if err != nil {
		return nil, err
	}
	result := progress.Score(items, total)
	return &ProgressResponse{
		Result:           result,
		TotalPagesSource: src,
		Summary:          progress.FormatHuman(result),
	}, nil
}

func (e *ProgressEndpoint) Command(getServerURL func() string) *cobra.Command {
	var total int
	var pdfPath, heading string
	cmd := &cobra.Command{
		Use:   "progress FILE",
		Short: "Score a local note on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if total <= 0 && pdfPath != "" {
				if total, err = progress.PDFPageCount(pdfPath); err != nil {
					return err
				}
			}

			client := api.NewClient(getServerURL())
			var resp ProgressResponse
			req := ProgressRequest{Markdown: string(data), TotalPages: total, Heading: heading}
			if err := client.Post(ctx, "/api/progress", req, &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				fmt.Println(resp.Summary)
				return nil
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&total, "total", 0, "Total page count")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Read the total page count from a local PDF")
	cmd.Flags().StringVar(&heading, "heading", "", "Checklist section heading")
	return cmd
}
