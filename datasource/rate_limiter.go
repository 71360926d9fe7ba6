package datasource

import (
	"context"
	"fmt"

	"forecast-service/models"

	"golang.org/x/time/rate"
)

// waitError converts a limiter wait failure into a typed outcome.
// The limiter refuses up front when the wait would overrun the deadline,
// which is reported as a timeout as well.
func waitError(ctx context.Context, api string, err error) *UpstreamError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return FromError(api, ctxErr)
	}
	return &UpstreamError{
		Kind:   KindTimeout,
		API:    api,
		Reason: "rate limit wait would exceed deadline",
		Err:    err,
	}
}

// RateLimitedLocationSource wraps a LocationSource with rate limiting
type RateLimitedLocationSource struct {
	source  LocationSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedLocationSource creates a new rate limited location source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedLocationSource(source LocationSource, rps float64, burst int) *RateLimitedLocationSource {
	return &RateLimitedLocationSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// ResolveLocation resolves a location, respecting rate limits
func (r *RateLimitedLocationSource) ResolveLocation(ctx context.Context, query string) (models.Location, bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Location{}, false, waitError(ctx, r.source.Name(), err)
	}
	return r.source.ResolveLocation(ctx, query)
}

// Name returns the source name
func (r *RateLimitedLocationSource) Name() string {
	return r.name
}

// RateLimitedForecastSource wraps a ForecastSource with rate limiting
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedForecastSource creates a new rate limited forecast source
// rps is the maximum requests per second allowed
// burst is the maximum burst size allowed
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchForecast fetches forecast data, respecting rate limits
func (r *RateLimitedForecastSource) FetchForecast(ctx context.Context, locationKey string) (models.FiveDayForecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.FiveDayForecast{}, waitError(ctx, r.source.Name(), err)
	}
	return r.source.FetchForecast(ctx, locationKey)
}

// Name returns the source name
func (r *RateLimitedForecastSource) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ LocationSource = (*RateLimitedLocationSource)(nil)
	_ ForecastSource = (*RateLimitedForecastSource)(nil)
)
