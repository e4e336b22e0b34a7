package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/internal/explorer"
	"github.com/musiclab/dissect/internal/svcctx"
)

// SearchResponse is the response for a content search.
type SearchResponse struct {
	Query string               `json:"query"`
	Hits  []explorer.SearchHit `json:"hits"`
	Total int                  `json:"total"`
}

// SearchEndpoint handles GET /api/search.
type SearchEndpoint struct{}

var _ api.Endpoint = (*SearchEndpoint)(nil)

func (e *SearchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/search", e.handler
}

func (e *SearchEndpoint) RequiresData() bool { return true }

func (e *SearchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	caseSensitive := r.URL.Query().Get("case_sensitive") == "true"

	ds := svcctx.DatasetFrom(r.Context())
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	hits := ds.SearchContent(query, caseSensitive)
	writeJSON(w, http.StatusOK, SearchResponse{
		Query: query,
		Hits:  hits,
		Total: len(hits),
	})
}

func (e *SearchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var caseSensitive bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search page text for a phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/search?q=" + url.QueryEscape(args[0])
			if caseSensitive {
				path += "&case_sensitive=true"
			}
			var resp SearchResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match exact case")
	return cmd
}
