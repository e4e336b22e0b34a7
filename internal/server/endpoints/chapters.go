package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/internal/segment"
	"github.com/musiclab/dissect/internal/svcctx"
)

// ChaptersResponse is the response for the chapter listing.
type ChaptersResponse struct {
	Chapters []segment.Chapter `json:"chapters"`
	Total    int               `json:"total"`
}

// ChaptersEndpoint handles GET /api/chapters.
type ChaptersEndpoint struct{}

var _ api.Endpoint = (*ChaptersEndpoint)(nil)

func (e *ChaptersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/chapters", e.handler
}

func (e *ChaptersEndpoint) RequiresData() bool { return true }

func (e *ChaptersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ds := svcctx.DatasetFrom(r.Context())
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	chapters := ds.Chapters()
	writeJSON(w, http.StatusOK, ChaptersResponse{
		Chapters: chapters,
		Total:    len(chapters),
	})
}

func (e *ChaptersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List detected chapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ChaptersResponse
			if err := client.Get(cmd.Context(), "/api/chapters", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
