package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	errRoomTypeNotFound   error = errors.New("Room type not found")
	errBookingNotFound    error = errors.New("Booking not found")
	errRoomUnitNotFound   error = errors.New("Room unit not found")
	errGuestNotFound      error = errors.New("Guest not found")
	errPaymentNotSettled  error = errors.New("Payment for this booking has not succeeded")
	errUnitUnavailable    error = errors.New("Room unit is not available")
	errRoomTypeMismatch   error = errors.New("Room unit does not belong to the booking's room type")
	errDuplicateInventory error = errors.New("Inventory row already exists for that date")
	errDuplicateReference error = errors.New("Booking reference already exists")
	errDuplicateRoomUnit  error = errors.New("Room number already exists")
	errVersionConflict    error = errors.New("Stock row was modified concurrently")
)

func ErrRoomTypeNotFound() error   { return errRoomTypeNotFound }
func ErrBookingNotFound() error    { return errBookingNotFound }
func ErrRoomUnitNotFound() error   { return errRoomUnitNotFound }
func ErrGuestNotFound() error      { return errGuestNotFound }
func ErrPaymentNotSettled() error  { return errPaymentNotSettled }
func ErrUnitUnavailable() error    { return errUnitUnavailable }
func ErrRoomTypeMismatch() error   { return errRoomTypeMismatch }
func ErrDuplicateInventory() error { return errDuplicateInventory }
func ErrDuplicateReference() error { return errDuplicateReference }
func ErrDuplicateRoomUnit() error  { return errDuplicateRoomUnit }
func ErrVersionConflict() error    { return errVersionConflict }

// ValidationError rejects malformed input before any storage work happens.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// StateError marks a lifecycle transition attempted from the wrong status
// or after its date-based guard has passed.
type StateError struct {
	Message string
}

func (e StateError) Error() string {
	return e.Message
}

// InsufficientStockError lists the dates that made a reservation impossible.
type InsufficientStockError struct {
	RoomTypeID string
	Dates      []time.Time
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for room type %s on %s", e.RoomTypeID, formatDates(e.Dates))
}

// MissingInventoryError lists the dates with no stock row at all.
type MissingInventoryError struct {
	RoomTypeID string
	Dates      []time.Time
}

func (e MissingInventoryError) Error() string {
	return fmt.Sprintf("No inventory defined for room type %s on %s", e.RoomTypeID, formatDates(e.Dates))
}

func formatDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, DateKey(d))
	}
	return strings.Join(parts, ", ")
}

// IsConflict reports whether an error belongs to the conflict family:
// contended stock, duplicates, payment precondition, unit contention.
func IsConflict(err error) bool {
	if errors.Is(err, errDuplicateInventory) ||
		errors.Is(err, errDuplicateReference) ||
		errors.Is(err, errDuplicateRoomUnit) ||
		errors.Is(err, errPaymentNotSettled) ||
		errors.Is(err, errUnitUnavailable) ||
		errors.Is(err, errRoomTypeMismatch) ||
		errors.Is(err, errVersionConflict) {
		return true
	}
	var insufficient InsufficientStockError
	return errors.As(err, &insufficient)
}

// IsNotFound reports whether an error belongs to the not-found family.
func IsNotFound(err error) bool {
	return errors.Is(err, errRoomTypeNotFound) ||
		errors.Is(err, errBookingNotFound) ||
		errors.Is(err, errRoomUnitNotFound) ||
		errors.Is(err, errGuestNotFound)
}
