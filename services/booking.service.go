package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"booking-service/domain"
)

// BookingService drives the booking lifecycle state machine and orchestrates
// the inventory ledger, the rate resolver and room unit assignment inside
// transactional boundaries.
type BookingService interface {
	CreateBooking(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID primitive.ObjectID) (*domain.Booking, error)
	CheckIn(ctx context.Context, bookingID primitive.ObjectID, roomUnitID *primitive.ObjectID) (*domain.Booking, error)
	CheckOut(ctx context.Context, bookingID primitive.ObjectID) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID primitive.ObjectID, reason string) (*domain.Booking, error)
	ModifyBooking(ctx context.Context, bookingID primitive.ObjectID, req *domain.ModifyBookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID primitive.ObjectID) (*domain.Booking, error)
	GetBookingsByGuest(ctx context.Context, guestID string) (domain.Bookings, error)
}
