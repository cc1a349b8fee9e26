package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"climate-server/internal/modules/climate/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type stationRow struct {
	Station   string  `validate:"required"`
	Name      string  `validate:"required"`
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Elevation float64
}

type measurementRow struct {
	Station string   `validate:"required"`
	Date    string   `validate:"required,datetime=2006-01-02"`
	Prcp    *float64 `validate:"omitempty,gte=0"`
	Tobs    *float64
}

var (
	stationColumns     = []string{"station", "name", "latitude", "longitude", "elevation"}
	measurementColumns = []string{"station", "date", "prcp", "tobs"}
)

// ParseStations reads the station CSV export (header
// station,name,latitude,longitude,elevation; column order is free).
func ParseStations(r io.Reader) ([]types.Station, error) {
	var out []types.Station
	err := readCSV(r, stationColumns, func(line int, rec map[string]string) error {
		row := stationRow{Station: rec["station"], Name: rec["name"]}
		var err error
		if row.Latitude, err = parseFloat(rec["latitude"]); err != nil {
			return fmt.Errorf("line %d latitude: %w", line, err)
		}
		if row.Longitude, err = parseFloat(rec["longitude"]); err != nil {
			return fmt.Errorf("line %d longitude: %w", line, err)
		}
		if row.Elevation, err = parseFloat(rec["elevation"]); err != nil {
			return fmt.Errorf("line %d elevation: %w", line, err)
		}
		if err := validate.Struct(row); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, types.Station{
			Station:   row.Station,
			Name:      row.Name,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Elevation: row.Elevation,
		})
		return nil
	})
	return out, err
}

// ParseMeasurements reads the measurement CSV export (header
// station,date,prcp,tobs). Empty prcp or tobs cells become NULL.
func ParseMeasurements(r io.Reader) ([]types.Measurement, error) {
	var out []types.Measurement
	err := readCSV(r, measurementColumns, func(line int, rec map[string]string) error {
		row := measurementRow{Station: rec["station"], Date: rec["date"]}
		var err error
		if row.Prcp, err = parseOptionalFloat(rec["prcp"]); err != nil {
			return fmt.Errorf("line %d prcp: %w", line, err)
		}
		if row.Tobs, err = parseOptionalFloat(rec["tobs"]); err != nil {
			return fmt.Errorf("line %d tobs: %w", line, err)
		}
		if err := validate.Struct(row); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, types.Measurement{
			Station: row.Station,
			Date:    row.Date,
			Prcp:    row.Prcp,
			Tobs:    row.Tobs,
		})
		return nil
	})
	return out, err
}

func readCSV(r io.Reader, columns []string, fn func(line int, rec map[string]string) error) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("csv: missing header")
		}
		return fmt.Errorf("csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			return fmt.Errorf("csv: missing column %q", c)
		}
	}

	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("csv line %d: %w", line, err)
		}
		rec := make(map[string]string, len(columns))
		for _, c := range columns {
			rec[c] = strings.TrimSpace(fields[index[c]])
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
