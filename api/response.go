package api

import (
	"time"

	"forecast-service/datasource"
	"forecast-service/forecast"
	"forecast-service/models"
)

// dateStringLayout is the display form of a forecast date
const dateStringLayout = "Monday, January 2, 2006"

// ForecastResponse is the body of /weatherforecast responses.
// DailyForecasts is null whenever no forecast is available.
type ForecastResponse struct {
	Headline       *Headline       `json:"headline"`
	DailyForecasts []DailyForecast `json:"dailyForecasts"`
	Location       string          `json:"location"`
	Error          string          `json:"error,omitempty"`
}

// Headline is the provider summary of the whole period
type Headline struct {
	Text string `json:"text"`
}

// DailyForecast is one row of the forecast table
type DailyForecast struct {
	Date        time.Time        `json:"date"`
	DateString  string           `json:"dateString"`
	Temperature DailyTemperature `json:"temperature"`
	Day         Day              `json:"day"`
}

// DailyTemperature wraps the daily maximum
type DailyTemperature struct {
	Maximum Maximum `json:"maximum"`
}

// Maximum carries the Celsius value and its derived Fahrenheit value
type Maximum struct {
	Value  float64 `json:"value"`
	ValueF float64 `json:"valueF"`
}

// Day describes daytime conditions
type Day struct {
	IconPhrase string `json:"iconPhrase"`
}

func newForecastResponse(res forecast.Result) ForecastResponse {
	days := make([]DailyForecast, 0, len(res.Days))
	for _, d := range res.Days {
		days = append(days, DailyForecast{
			Date:       d.Date,
			DateString: d.Date.Format(dateStringLayout),
			Temperature: DailyTemperature{Maximum: Maximum{
				Value:  d.TemperatureMax.Celsius,
				ValueF: d.TemperatureMax.Fahrenheit(),
			}},
			Day: Day{IconPhrase: d.SummaryPhrase},
		})
	}
	return ForecastResponse{
		Headline:       &Headline{Text: res.Headline},
		DailyForecasts: days,
		Location:       res.Location,
	}
}

// Fahrenheit recomputes °F for a row the same way the service does
func (m Maximum) Fahrenheit() float64 {
	return models.Fahrenheit(m.Value)
}

// errorMessage describes an upstream failure without leaking provider details
func errorMessage(ue *datasource.UpstreamError) string {
	switch ue.Kind {
	case datasource.KindUnauthorized:
		return "weather provider rejected the configured API key"
	case datasource.KindTimeout:
		return "weather provider did not respond in time"
	case datasource.KindParseFailure:
		return "weather provider returned an unexpected response"
	case datasource.KindCanceled:
		return "request canceled"
	case datasource.KindInvalidRequest:
		return "invalid forecast request"
	default:
		return "weather provider request failed"
	}
}
