package endpoints

import (
	"github.com/musiclab/dissect/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},

		// Dataset overview
		&SummaryEndpoint{},

		// Pages
		&ListPagesEndpoint{},
		&GetPageEndpoint{},

		// Search
		&SearchEndpoint{},

		// Structure
		&ChaptersEndpoint{},

		// Features
		&FeaturesEndpoint{},
		&FeatureStatsEndpoint{},

		// Categories
		&CategoryPagesEndpoint{},
	}
}
