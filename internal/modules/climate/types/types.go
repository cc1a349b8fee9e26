package types

import "time"

type Station struct {
	ID        int64   `json:"id"`
	Station   string  `json:"station"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Measurement is one daily observation. Prcp and Tobs are nil when the
// source row has no value.
type Measurement struct {
	ID      int64    `json:"id"`
	Station string   `json:"station"`
	Date    string   `json:"date"`
	Prcp    *float64 `json:"prcp"`
	Tobs    *float64 `json:"tobs"`
}

type Precipitation struct {
	Date string   `json:"date"`
	Prcp *float64 `json:"prcp"`
}

type TemperatureObservation struct {
	Station     string   `json:"station"`
	Date        string   `json:"date"`
	Temperature *float64 `json:"temperature"`
}

// DateRange is the span of observation dates in the dataset, inclusive.
type DateRange struct {
	Earliest time.Time
	Latest   time.Time
}

// Contains reports whether d lies within the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Earliest) && !d.After(r.Latest)
}

// TemperatureStats summarizes non-null temperature observations between
// Start and End inclusive. Count is the number of readings aggregated.
type TemperatureStats struct {
	Start time.Time
	End   time.Time
	Count int
	Min   float64
	Avg   float64
	Max   float64
}
