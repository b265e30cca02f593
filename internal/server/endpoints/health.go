package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/svcctx"
	"github.com/jackzampolin/bookmark/version"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version,omitempty"`
	Sources []string `json:"sources"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Liveness probe with the list of configured sources
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: version.GitRelease, Sources: []string{}}
	if reg := svcctx.SourcesFrom(r.Context()); reg != nil {
		resp.Sources = reg.List()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			if wait > 0 {
				attempts := uint(wait / healthPollInterval)
				if attempts < 1 {
					attempts = 1
				}
				if err := client.WaitReady(ctx, attempts, healthPollInterval); err != nil {
					return fmt.Errorf("server not ready after %s: %w", wait, err)
				}
			}
			var resp HealthResponse
			if err := client.Get(ctx, "/health", &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			fmt.Printf("Status:  %s\n", resp.Status)
			fmt.Printf("Sources: %v\n", resp.Sources)
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling until the server answers or this much time passes")
	return cmd
}

const healthPollInterval = 500 * time.Millisecond

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
