package service

import (
	"errors"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/types"
)

var (
	// ErrInvalidDateFormat means a date argument is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrEmptyDataset means there are no measurements at all.
	ErrEmptyDataset = errors.New("dataset has no measurements")

	// ErrUnknownStation means the station has no measurements.
	ErrUnknownStation = errors.New("station has no measurements")
)

// DateOutOfRangeError is returned when a start date lies after the
// latest observation.
type DateOutOfRangeError struct {
	Start  time.Time
	Latest time.Time
}

func (e *DateOutOfRangeError) Error() string {
	return fmt.Sprintf("start date %s is after latest available date %s",
		types.FormatDate(e.Start), types.FormatDate(e.Latest))
}

// DateRangeOutOfBoundsError is returned when a requested interval lies
// entirely outside the dataset span.
type DateRangeOutOfBoundsError struct {
	Earliest time.Time
	Latest   time.Time
}

func (e *DateRangeOutOfBoundsError) Error() string {
	return fmt.Sprintf("requested range is outside available dates %s to %s",
		types.FormatDate(e.Earliest), types.FormatDate(e.Latest))
}

// NoDataInRangeError is returned when no temperature readings fall in
// [Start, End].
type NoDataInRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *NoDataInRangeError) Error() string {
	return fmt.Sprintf("no temperature data between %s and %s",
		types.FormatDate(e.Start), types.FormatDate(e.End))
}
