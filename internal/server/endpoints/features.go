package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/svcctx"
)

// FeaturesResponse is the response for the feature catalog listing.
type FeaturesResponse struct {
	Features []catalog.CatalogRow `json:"features"`
	Total    int                  `json:"total"`
}

// FeaturesEndpoint handles GET /api/features.
type FeaturesEndpoint struct{}

var _ api.Endpoint = (*FeaturesEndpoint)(nil)

func (e *FeaturesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/features", e.handler
}

func (e *FeaturesEndpoint) RequiresData() bool { return true }

func (e *FeaturesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ds := svcctx.DatasetFrom(r.Context())
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	features := ds.Features()
	writeJSON(w, http.StatusOK, FeaturesResponse{
		Features: features,
		Total:    len(features),
	})
}

func (e *FeaturesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the feature catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FeaturesResponse
			if err := client.Get(cmd.Context(), "/api/features", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// FeatureStatsResponse is the response for ranked feature statistics.
type FeatureStatsResponse struct {
	Stats []catalog.FeatureStatistic `json:"stats"`
	Total int                        `json:"total"`
}

// FeatureStatsEndpoint handles GET /api/features/stats.
type FeatureStatsEndpoint struct{}

var _ api.Endpoint = (*FeatureStatsEndpoint)(nil)

func (e *FeatureStatsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/features/stats", e.handler
}

func (e *FeatureStatsEndpoint) RequiresData() bool { return true }

func (e *FeatureStatsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ds := svcctx.DatasetFrom(r.Context())
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	stats := ds.FeatureStats()
	writeJSON(w, http.StatusOK, FeatureStatsResponse{
		Stats: stats,
		Total: len(stats),
	})
}

func (e *FeatureStatsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ranked feature statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FeatureStatsResponse
			if err := client.Get(cmd.Context(), "/api/features/stats", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
