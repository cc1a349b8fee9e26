package controller

import (
	"errors"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
)

// userMessage maps errors caused by the request or by the data it selects
// to the text shown to the caller. ok is false for internal failures.
func userMessage(err error) (msg views.Message, ok bool) {
	var (
		outOfRange  *service.DateOutOfRangeError
		outOfBounds *service.DateRangeOutOfBoundsError
		noData      *service.NoDataInRangeError
	)
	switch {
	case errors.Is(err, service.ErrInvalidDateFormat):
		return views.Message{Headline: "Please enter a valid date format YYYY-mm-dd"}, true
	case errors.As(err, &outOfRange):
		return views.Message{
			Headline: "Entered date is later than data available",
			Hint:     "Please enter a date earlier than " + types.FormatDate(outOfRange.Latest),
		}, true
	case errors.As(err, &outOfBounds):
		return views.Message{
			Headline: "Start and end dates are outside available date range",
			Hint: "Please enter a period between " + types.FormatDate(outOfBounds.Earliest) +
				" and " + types.FormatDate(outOfBounds.Latest),
		}, true
	case errors.As(err, &noData):
		return views.Message{
			Headline: "No temperature data between " + types.FormatDate(noData.Start) +
				" and " + types.FormatDate(noData.End),
		}, true
	case errors.Is(err, service.ErrEmptyDataset):
		return views.Message{Headline: "No data available"}, true
	}
	return views.Message{}, false
}
