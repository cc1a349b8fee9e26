package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-measurements.sql
var getMeasurementsSQL string

//go:embed sql/get-dataset-counts.sql
var getDatasetCountsSQL string

//go:embed sql/get-date-range.sql
var getDateRangeSQL string

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-busiest-station.sql
var getBusiestStationSQL string

//go:embed sql/get-station-latest-date.sql
var getStationLatestDateSQL string

//go:embed sql/get-station-temperatures-since.sql
var getStationTemperaturesSinceSQL string

//go:embed sql/get-temperature-stats.sql
var getTemperatureStatsSQL string

// ClimateRepository reads the station and measurement tables. Dates go in
// and come out as YYYY-MM-DD text.
type ClimateRepository interface {
	GetStations(ctx context.Context) ([]types.Station, error)
	GetMeasurements(ctx context.Context) ([]types.Measurement, error)
	GetDatasetCounts(ctx context.Context) (stations int, measurements int, err error)
	GetDateRange(ctx context.Context) (earliest string, latest string, ok bool, err error)
	GetPrecipitationSince(ctx context.Context, after string) ([]types.Precipitation, error)
	GetBusiestStation(ctx context.Context) (station string, ok bool, err error)
	GetStationLatestDate(ctx context.Context, station string) (latest string, ok bool, err error)
	GetStationTemperaturesSince(ctx context.Context, station string, after string) ([]types.TemperatureObservation, error)
	GetTemperatureStats(ctx context.Context, start string, end string) (TemperatureAggregate, error)
}

// TemperatureAggregate is the raw aggregate row. Min, Avg and Max are
// invalid when Count is zero.
type TemperatureAggregate struct {
	Count int
	Min   sql.NullFloat64
	Avg   sql.NullFloat64
	Max   sql.NullFloat64
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "stations")

	out := []types.Station{}
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Station, &s.Name, &s.Latitude, &s.Longitude, &s.Elevation); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetMeasurements(ctx context.Context) ([]types.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, getMeasurementsSQL)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "measurements")

	out := []types.Measurement{}
	for rows.Next() {
		var (
			m          types.Measurement
			prcp, tobs sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.Station, &m.Date, &prcp, &tobs); err != nil {
			return nil, err
		}
		m.Prcp = floatPtr(prcp)
		m.Tobs = floatPtr(tobs)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetDatasetCounts(ctx context.Context) (int, int, error) {
	var stations, measurements int
	err := r.db.QueryRowContext(ctx, getDatasetCountsSQL).Scan(&stations, &measurements)
	return stations, measurements, err
}

func (r *repositoryImpl) GetDateRange(ctx context.Context) (string, string, bool, error) {
	var earliest, latest sql.NullString
	if err := r.db.QueryRowContext(ctx, getDateRangeSQL).Scan(&earliest, &latest); err != nil {
		return "", "", false, err
	}
	if !earliest.Valid || !latest.Valid {
		return "", "", false, nil
	}
	return earliest.String, latest.String, true, nil
}

func (r *repositoryImpl) GetPrecipitationSince(ctx context.Context, after string) ([]types.Precipitation, error) {
	rows, err := r.db.QueryContext(ctx, getPrecipitationSinceSQL, after)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "precipitation")

	out := []types.Precipitation{}
	for rows.Next() {
		var (
			p    types.Precipitation
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&p.Date, &prcp); err != nil {
			return nil, err
		}
		p.Prcp = floatPtr(prcp)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetBusiestStation(ctx context.Context) (string, bool, error) {
	var (
		station string
		n       int
	)
	err := r.db.QueryRowContext(ctx, getBusiestStationSQL).Scan(&station, &n)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return station, true, nil
}

func (r *repositoryImpl) GetStationLatestDate(ctx context.Context, station string) (string, bool, error) {
	var latest sql.NullString
	if err := r.db.QueryRowContext(ctx, getStationLatestDateSQL, station).Scan(&latest); err != nil {
		return "", false, err
	}
	return latest.String, latest.Valid, nil
}

func (r *repositoryImpl) GetStationTemperaturesSince(ctx context.Context, station string, after string) ([]types.TemperatureObservation, error) {
	rows, err := r.db.QueryContext(ctx, getStationTemperaturesSinceSQL, station, after)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "station temperatures")

	out := []types.TemperatureObservation{}
	for rows.Next() {
		var (
			o    types.TemperatureObservation
			tobs sql.NullFloat64
		)
		if err := rows.Scan(&o.Station, &o.Date, &tobs); err != nil {
			return nil, err
		}
		o.Temperature = floatPtr(tobs)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureStats(ctx context.Context, start string, end string) (TemperatureAggregate, error) {
	var agg TemperatureAggregate
	err := r.db.QueryRowContext(ctx, getTemperatureStatsSQL, start, end).Scan(&agg.Count, &agg.Min, &agg.Avg, &agg.Max)
	return agg, err
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close "+what+" rows", "error", err)
	}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
