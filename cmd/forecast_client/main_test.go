package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"forecast-service/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clevelandBody = `{
	"headline": {"text": "Rain at times"},
	"dailyForecasts": [
		{"date": "2024-05-01T07:00:00-04:00", "dateString": "Wednesday, May 1, 2024",
		 "temperature": {"maximum": {"value": 16.7, "valueF": 62}}, "day": {"iconPhrase": "Showers"}}
	],
	"location": "Cleveland, OH"
}`

func TestFetchForecastByLocation(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, clevelandBody)
	}))
	defer srv.Close()

	fc, err := fetchForecast(context.Background(), srv.URL, "New York")
	require.NoError(t, err)
	assert.Equal(t, "/weatherforecast/New York", gotPath)
	assert.Equal(t, "Cleveland, OH", fc.Location)

	_, err = fetchForecast(context.Background(), srv.URL, "")
	require.NoError(t, err)
	assert.Equal(t, "/weatherforecast", gotPath)
}

func TestFetchForecastNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"headline": null, "dailyForecasts": null, "location": "", "error": "No forecast found for location: nowhere"}`)
	}))
	defer srv.Close()

	_, err := fetchForecast(context.Background(), srv.URL, "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No forecast found")
}

func TestRenderUsesSharedConversion(t *testing.T) {
	fc := api.ForecastResponse{
		Headline: &api.Headline{Text: "Rain at times"},
		Location: "Cleveland, OH",
		DailyForecasts: []api.DailyForecast{{
			DateString:  "Wednesday, May 1, 2024",
			Temperature: api.DailyTemperature{Maximum: api.Maximum{Value: 16.7, ValueF: 62}},
			Day:         api.Day{IconPhrase: "Showers"},
		}},
	}

	out := &bytes.Buffer{}
	require.NoError(t, render(out, fc))
	assert.Contains(t, out.String(), "Cleveland, OH")
	assert.Contains(t, out.String(), "62 °F")
	assert.Contains(t, out.String(), "16.7 °C")

	fc.DailyForecasts[0].Temperature.Maximum.ValueF = 63
	assert.Error(t, render(&bytes.Buffer{}, fc))
}
