package endpoints

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/svcctx"
)

// CategoryPagesResponse is the response for a category page listing.
type CategoryPagesResponse struct {
	Category keywords.Category `json:"category"`
	Pages    []int             `json:"pages"`
	Total    int               `json:"total"`
}

// CategoryPagesEndpoint handles GET /api/categories/{name}/pages.
type CategoryPagesEndpoint struct{}

var _ api.Endpoint = (*CategoryPagesEndpoint)(nil)

func (e *CategoryPagesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/categories/{name}/pages", e.handler
}

func (e *CategoryPagesEndpoint) RequiresData() bool { return true }

func (e *CategoryPagesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	name := keywords.Category(r.PathValue("name"))
	if !slices.Contains(keywords.Categories, name) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown category %q", name))
		return
	}

	ds := svcctx.DatasetFrom(r.Context())
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	nums := ds.CategoryPages(name)
	writeJSON(w, http.StatusOK, CategoryPagesResponse{
		Category: name,
		Pages:    nums,
		Total:    len(nums),
	})
}

func (e *CategoryPagesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "category <name>",
		Short: "List pages where a keyword category matched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CategoryPagesResponse
			if err := client.Get(cmd.Context(), "/api/categories/"+args[0]+"/pages", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
