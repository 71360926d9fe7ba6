package models

import (
	"time"
)

// Location is the best match returned by a provider's city search
type Location struct {
	Key                    string // provider location key
	EnglishName            string // city name
	AdministrativeAreaName string // state, province or region
}

// DisplayName renders the location the way it is shown to users, e.g. "Cleveland, OH"
func (l Location) DisplayName() string {
	return l.EnglishName + ", " + l.AdministrativeAreaName
}

// DailyForecast is one day of a five day forecast
type DailyForecast struct {
	Date           time.Time
	TemperatureMax Temperature
	SummaryPhrase  string // provider icon phrase, e.g. "Partly sunny"
}

// FiveDayForecast is a normalized forecast as returned by a forecast source
type FiveDayForecast struct {
	Headline string          // provider summary of the whole period
	Days     []DailyForecast // provider order, never re-sorted
}

// ForecastDays is the number of daily entries in a valid forecast
const ForecastDays = 5
