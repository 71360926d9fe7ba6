package accuweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"forecast-service/datasource"
	"forecast-service/models"
)

// FiveDayForecastResponse represents the 5 Days of Daily Forecasts API response
type FiveDayForecastResponse struct {
	Headline struct {
		Text string `json:"Text"`
	} `json:"Headline"`
	DailyForecasts []struct {
		Date        time.Time `json:"Date"`
		Temperature struct {
			Maximum struct {
				Value *float64 `json:"Value"`
			} `json:"Maximum"`
		} `json:"Temperature"`
		Day struct {
			IconPhrase string `json:"IconPhrase"`
		} `json:"Day"`
	} `json:"DailyForecasts"`
}

// FetchForecast calls the 5 Days of Daily Forecasts API with metric units
func (p *Provider) FetchForecast(ctx context.Context, locationKey string) (models.FiveDayForecast, error) {
	if locationKey == "" {
		return models.FiveDayForecast{}, p.fail(&datasource.UpstreamError{
			Kind:   datasource.KindInvalidRequest,
			API:    FiveDayForecastAPI,
			Reason: "empty location key",
		})
	}

	params := url.Values{}
	params.Set("metric", "true")

	body, ue := p.get(ctx, FiveDayForecastAPI, "/forecasts/v1/daily/5day/"+url.PathEscape(locationKey), params)
	if ue != nil {
		return models.FiveDayForecast{}, ue
	}

	var response FiveDayForecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.FiveDayForecast{}, p.parseFailure(FiveDayForecastAPI, body, err)
	}

	if len(response.DailyForecasts) != models.ForecastDays {
		return models.FiveDayForecast{}, p.parseFailure(FiveDayForecastAPI, body,
			fmt.Errorf("expected %d daily forecasts, got %d", models.ForecastDays, len(response.DailyForecasts)))
	}

	forecast := models.FiveDayForecast{
		Headline: response.Headline.Text,
		Days:     make([]models.DailyForecast, 0, len(response.DailyForecasts)),
	}

	// Provider order is chronological and is kept as-is
	for i, day := range response.DailyForecasts {
		if day.Temperature.Maximum.Value == nil {
			return models.FiveDayForecast{}, p.parseFailure(FiveDayForecastAPI, body,
				fmt.Errorf("daily forecast %d has no maximum temperature", i))
		}
		forecast.Days = append(forecast.Days, models.DailyForecast{
			Date:           day.Date,
			TemperatureMax: models.Temperature{Celsius: *day.Temperature.Maximum.Value},
			SummaryPhrase:  day.Day.IconPhrase,
		})
	}

	return forecast, nil
}
