package utils

import (
	"time"

	"booking-service/domain"
)

const dateLayout = "2006-01-02"

// ParseDateRange reads the start/end query parameters of inventory reads.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ValidationError{Message: "Invalid start date, expected YYYY-MM-DD"}
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ValidationError{Message: "Invalid end date, expected YYYY-MM-DD"}
	}
	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, domain.ValidationError{Message: "Start date must be before end date"}
	}
	return startDate, endDate, nil
}
