package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"forecast-service/api"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "forecast-client [location]",
	Short:        "Prints the five day forecast served by the weather service",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		location := ""
		if len(args) == 1 {
			location = args[0]
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		forecast, err := fetchForecast(ctx, baseURL, location)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), forecast)
	},
}

func init() {
	rootCmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:5000", "Weather service base URL")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
}

// fetchForecast calls /weatherforecast, or /weatherforecast/{location} when
// a location is given
func fetchForecast(ctx context.Context, baseURL, location string) (api.ForecastResponse, error) {
	endpoint := baseURL + "/weatherforecast"
	if location != "" {
		endpoint += "/" + url.PathEscape(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return api.ForecastResponse{}, errors.Wrap(err, "failed to create request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return api.ForecastResponse{}, errors.Wrap(err, "failed to fetch forecast")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return api.ForecastResponse{}, errors.Wrap(err, "failed to read response body")
	}

	var forecast api.ForecastResponse
	if err := json.Unmarshal(body, &forecast); err != nil {
		return api.ForecastResponse{}, errors.Wrapf(err, "failed to parse response (status %d)", resp.StatusCode)
	}

	if forecast.DailyForecasts == nil {
		msg := forecast.Error
		if msg == "" {
			msg = resp.Status
		}
		return api.ForecastResponse{}, errors.Errorf("no forecast available: %s", msg)
	}

	return forecast, nil
}

func render(w io.Writer, forecast api.ForecastResponse) error {
	fmt.Fprintf(w, "5 Day Weather Forecast: %s\n", forecast.Location)
	if forecast.Headline != nil && forecast.Headline.Text != "" {
		fmt.Fprintln(w, forecast.Headline.Text)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Temp. (C)", "Temp. (F)", "Summary"})
	for _, day := range forecast.DailyForecasts {
		fahrenheit := day.Temperature.Maximum.Fahrenheit()
		if fahrenheit != day.Temperature.Maximum.ValueF {
			return errors.Errorf("service and client disagree on %s: %v°F vs %v°F",
				day.DateString, day.Temperature.Maximum.ValueF, fahrenheit)
		}
		table.Append([]string{
			day.DateString,
			fmt.Sprintf("%v °C", day.Temperature.Maximum.Value),
			fmt.Sprintf("%v °F", fahrenheit),
			day.Day.IconPhrase,
		})
	}
	table.Render()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
