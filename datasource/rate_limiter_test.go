package datasource

import (
	"context"
	"testing"
	"time"

	"forecast-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
}

func (c *countingSource) Name() string { return "Counting" }

func (c *countingSource) ResolveLocation(ctx context.Context, query string) (models.Location, bool, error) {
	c.calls++
	return models.Location{Key: "1", EnglishName: query, AdministrativeAreaName: "XX"}, true, nil
}

func (c *countingSource) FetchForecast(ctx context.Context, locationKey string) (models.FiveDayForecast, error) {
	c.calls++
	return models.FiveDayForecast{Headline: "ok"}, nil
}

func TestRateLimitedLocationSourceForwards(t *testing.T) {
	src := &countingSource{}
	limited := NewRateLimitedLocationSource(src, 100, 1)

	loc, found, err := limited.ResolveLocation(context.Background(), "Cleveland")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Cleveland", loc.EnglishName)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "Counting [Rate Limited]", limited.Name())
}

func TestRateLimitedForecastSourceTimesOut(t *testing.T) {
	src := &countingSource{}
	// one token, refilled once a minute
	limited := NewRateLimitedForecastSource(src, 1.0/60, 1)

	_, err := limited.FetchForecast(context.Background(), "1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = limited.FetchForecast(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Equal(t, 1, src.calls)
}

func TestRateLimitedSourceCanceled(t *testing.T) {
	src := &countingSource{}
	limited := NewRateLimitedLocationSource(src, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := limited.ResolveLocation(ctx, "Cleveland")
	require.Error(t, err)
	assert.Equal(t, KindCanceled, KindOf(err))
	assert.Equal(t, 0, src.calls)
}
