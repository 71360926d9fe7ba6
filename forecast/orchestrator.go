// Package forecast sequences location resolution and forecast retrieval
// into a single per-request outcome.
package forecast

import (
	"context"

	"forecast-service/datasource"
	"forecast-service/models"

	"github.com/rs/zerolog"
)

// Status is the terminal state of one GetForecast call
type Status int

const (
	StatusSuccess Status = iota
	StatusNotFound
	StatusUpstreamError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotFound:
		return "not_found"
	case StatusUpstreamError:
		return "upstream_error"
	default:
		return "unknown"
	}
}

// Result is exactly one of success, not found, or upstream error.
// Headline, Location and Days are only set on success.
type Result struct {
	Status Status

	Headline string
	Location string
	Days     []models.DailyForecast

	// Query is the location the caller asked for
	Query string

	// Err is set only for StatusUpstreamError
	Err *datasource.UpstreamError
}

// Orchestrator resolves a location and then fetches its forecast.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	locations datasource.LocationSource
	forecasts datasource.ForecastSource
	logger    zerolog.Logger
}

// NewOrchestrator creates an orchestrator over the given sources
func NewOrchestrator(locations datasource.LocationSource, forecasts datasource.ForecastSource, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		locations: locations,
		forecasts: forecasts,
		logger:    logger,
	}
}

// GetForecast runs resolve then fetch. The first error is returned unchanged;
// nothing is retried.
func (o *Orchestrator) GetForecast(ctx context.Context, location string) Result {
	loc, found, err := o.locations.ResolveLocation(ctx, location)
	if err != nil {
		return o.upstreamError(location, o.locations.Name(), err)
	}
	if !found {
		o.logger.Info().Str("location", location).Msg("location not found")
		return Result{Status: StatusNotFound, Query: location}
	}

	fc, err := o.forecasts.FetchForecast(ctx, loc.Key)
	if err != nil {
		return o.upstreamError(location, o.forecasts.Name(), err)
	}

	return Result{
		Status:   StatusSuccess,
		Headline: fc.Headline,
		Location: loc.DisplayName(),
		Days:     fc.Days,
		Query:    location,
	}
}

func (o *Orchestrator) upstreamError(location, source string, err error) Result {
	ue := datasource.FromError(source, err)
	o.logger.Warn().
		Str("location", location).
		Str("api", ue.API).
		Stringer("kind", ue.Kind).
		Msg("forecast lookup failed")
	return Result{Status: StatusUpstreamError, Query: location, Err: ue}
}
