package domain

import "time"

// DateOnly strips the clock from a timestamp, keeping the calendar date in UTC.
// Every stock row and stay boundary is keyed by such a date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey renders a date as its map/cache key.
func DateKey(t time.Time) string {
	return DateOnly(t).Format("2006-01-02")
}

// NightsBetween counts the nights in the half-open range [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}

// EachNight walks the occupied dates of [checkIn, checkOut) in ascending order.
func EachNight(checkIn, checkOut time.Time, fn func(date time.Time) error) error {
	for d := DateOnly(checkIn); d.Before(DateOnly(checkOut)); d = d.AddDate(0, 0, 1) {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}
