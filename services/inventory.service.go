package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"booking-service/domain"
)

// InventoryService is the stock ledger. ReserveRange and ReleaseRange are
// all-or-nothing across the whole half-open date range.
type InventoryService interface {
	ReserveRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time, quantity int) error
	ReleaseRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time, quantity int) error
	CheckAvailability(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time, quantity int) (*domain.Availability, error)
	SeedRange(ctx context.Context, roomTypeID primitive.ObjectID, startDate, endDate time.Time, totalStock int) ([]*domain.RoomInventoryDay, error)
	GetInventory(ctx context.Context, roomTypeID primitive.ObjectID, startDate, endDate time.Time) ([]*domain.RoomInventoryDay, error)
}
