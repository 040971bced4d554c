package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"booking-service/domain"
)

// RateService resolves nightly prices: the daily override when present,
// the room type's base price otherwise.
type RateService interface {
	PriceRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) (*domain.PriceQuote, error)
	SetDailyRate(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, price float64) (*domain.DailyRate, error)
}
