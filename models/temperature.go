package models

import (
	"math"
)

// celsiusPerFahrenheitDegree is the divisor used by every layer that shows °F.
// Changing it changes what users see, so it is pinned by tests.
const celsiusPerFahrenheitDegree = 0.5556

// Fahrenheit converts a Celsius value to whole degrees Fahrenheit.
// Halves round away from zero (math.Round).
func Fahrenheit(celsius float64) float64 {
	return math.Round(32 + celsius/celsiusPerFahrenheitDegree)
}

// Temperature holds a Celsius reading. Fahrenheit is always derived from it.
type Temperature struct {
	Celsius float64
}

// Fahrenheit returns the derived, rounded Fahrenheit value
func (t Temperature) Fahrenheit() float64 {
	return Fahrenheit(t.Celsius)
}
