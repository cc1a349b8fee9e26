package service

import (
	"context"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

func (s *Service) Stations(ctx context.Context) ([]types.Station, error) {
	return s.repository.GetStations(ctx)
}

func (s *Service) Measurements(ctx context.Context) ([]types.Measurement, error) {
	return s.repository.GetMeasurements(ctx)
}

// DateRange returns the earliest and latest observation dates.
func (s *Service) DateRange(ctx context.Context) (types.DateRange, error) {
	earliest, latest, ok, err := s.repository.GetDateRange(ctx)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("date range: %w", err)
	}
	if !ok {
		return types.DateRange{}, ErrEmptyDataset
	}
	e, err := parseStoredDate(earliest)
	if err != nil {
		return types.DateRange{}, err
	}
	l, err := parseStoredDate(latest)
	if err != nil {
		return types.DateRange{}, err
	}
	return types.DateRange{Earliest: e, Latest: l}, nil
}

// PrecipitationLastYear returns every reading dated after one year before
// the latest observation, oldest first. Null precipitation is kept.
func (s *Service) PrecipitationLastYear(ctx context.Context) ([]types.Precipitation, error) {
	span, err := s.DateRange(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := types.FormatDate(types.YearBefore(span.Latest))
	out, err := s.repository.GetPrecipitationSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("precipitation since %s: %w", cutoff, err)
	}
	return out, nil
}

// BusiestStation returns the station with the most measurements. Ties go
// to the lexicographically smallest station id.
func (s *Service) BusiestStation(ctx context.Context) (string, error) {
	station, ok, err := s.repository.GetBusiestStation(ctx)
	if err != nil {
		return "", fmt.Errorf("busiest station: %w", err)
	}
	if !ok {
		return "", ErrEmptyDataset
	}
	return station, nil
}

// StationTemperaturesLastYear returns the station's readings dated after
// one year before that station's own latest observation.
func (s *Service) StationTemperaturesLastYear(ctx context.Context, station string) ([]types.TemperatureObservation, error) {
	latest, ok, err := s.repository.GetStationLatestDate(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("latest date for %s: %w", station, err)
	}
	if !ok {
		return nil, ErrUnknownStation
	}
	l, err := parseStoredDate(latest)
	if err != nil {
		return nil, err
	}
	cutoff := types.FormatDate(types.YearBefore(l))
	out, err := s.repository.GetStationTemperaturesSince(ctx, station, cutoff)
	if err != nil {
		return nil, fmt.Errorf("temperatures for %s since %s: %w", station, cutoff, err)
	}
	return out, nil
}

// BusiestStationTemperaturesLastYear combines BusiestStation and
// StationTemperaturesLastYear.
func (s *Service) BusiestStationTemperaturesLastYear(ctx context.Context) ([]types.TemperatureObservation, error) {
	station, err := s.BusiestStation(ctx)
	if err != nil {
		return nil, err
	}
	return s.StationTemperaturesLastYear(ctx, station)
}

// TemperatureStats aggregates non-null temperatures in [start, end].
func (s *Service) TemperatureStats(ctx context.Context, start, end time.Time) (types.TemperatureStats, error) {
	agg, err := s.repository.GetTemperatureStats(ctx, types.FormatDate(start), types.FormatDate(end))
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("temperature stats: %w", err)
	}
	if agg.Count == 0 || !agg.Avg.Valid {
		return types.TemperatureStats{}, &NoDataInRangeError{Start: start, End: end}
	}
	return types.TemperatureStats{
		Start: start,
		End:   end,
		Count: agg.Count,
		Min:   agg.Min.Float64,
		Avg:   agg.Avg.Float64,
		Max:   agg.Max.Float64,
	}, nil
}

// StatsFrom computes statistics from start through the latest observation.
// A start after the latest observation is rejected, not clamped.
func (s *Service) StatsFrom(ctx context.Context, rawStart string) (types.TemperatureStats, error) {
	start, err := parseInputDate(rawStart)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	span, err := s.DateRange(ctx)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	if start.After(span.Latest) {
		return types.TemperatureStats{}, &DateOutOfRangeError{Start: start, Latest: span.Latest}
	}
	return s.TemperatureStats(ctx, start, span.Latest)
}

// StatsBetween computes statistics for the requested interval after
// NormalizeRange has ordered and clamped it.
func (s *Service) StatsBetween(ctx context.Context, rawStart, rawEnd string) (types.TemperatureStats, error) {
	start, err := parseInputDate(rawStart)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	end, err := parseInputDate(rawEnd)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	span, err := s.DateRange(ctx)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	start, end, err = NormalizeRange(start, end, span)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	return s.TemperatureStats(ctx, start, end)
}

// NormalizeRange swaps start and end if they are reversed, rejects an
// interval that does not overlap span at all, and otherwise clamps both
// ends into span.
func NormalizeRange(start, end time.Time, span types.DateRange) (time.Time, time.Time, error) {
	if start.After(end) {
		start, end = end, start
	}
	if start.After(span.Latest) || end.Before(span.Earliest) {
		return time.Time{}, time.Time{}, &DateRangeOutOfBoundsError{Earliest: span.Earliest, Latest: span.Latest}
	}
	if start.Before(span.Earliest) {
		start = span.Earliest
	}
	if end.After(span.Latest) {
		end = span.Latest
	}
	return start, end, nil
}

func parseInputDate(s string) (time.Time, error) {
	t, err := types.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}

func parseStoredDate(s string) (time.Time, error) {
	t, err := types.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored date %q: %w", s, err)
	}
	return t, nil
}
