package datasource

import (
	"context"

	"forecast-service/models"
)

// LocationSource resolves free-text locations to provider location keys
type LocationSource interface {
	// ResolveLocation returns the provider's best match for query.
	// found is false, with a nil error, when the provider has no candidates.
	ResolveLocation(ctx context.Context, query string) (loc models.Location, found bool, err error)

	// Name returns the source's name
	Name() string
}

// ForecastSource fetches five day forecasts for a resolved location key
type ForecastSource interface {
	// FetchForecast returns the headline and daily entries for locationKey
	FetchForecast(ctx context.Context, locationKey string) (models.FiveDayForecast, error)

	// Name returns the source's name
	Name() string
}
