package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/internal/explorer"
	"github.com/musiclab/dissect/internal/svcctx"
)

// SummaryEndpoint handles GET /api/summary.
type SummaryEndpoint struct{}

var _ api.Endpoint = (*SummaryEndpoint)(nil)

func (e *SummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/summary", e.handler
}

func (e *SummaryEndpoint) RequiresData() bool { return true }

func (e *SummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ds := svcctx.DatasetFrom(r.Context())
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}
	writeJSON(w, http.StatusOK, ds.Summary())
}

func (e *SummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show dataset overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp explorer.Summary
			if err := client.Get(cmd.Context(), "/api/summary", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
