package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"booking-service/domain"
)

// RoomUnitService assigns physical rooms to bookings and keeps the
// housekeeping status cycle (AVAILABLE -> OCCUPIED -> DIRTY) audited.
type RoomUnitService interface {
	Assign(ctx context.Context, booking *domain.Booking, unitID primitive.ObjectID) (*domain.RoomUnit, error)
	Release(ctx context.Context, unitID primitive.ObjectID, actor, reason string) error
	SetStatus(ctx context.Context, unitID primitive.ObjectID, status domain.UnitStatus, actor, reason string) (*domain.RoomUnit, error)
	AddRoomUnit(ctx context.Context, unit *domain.RoomUnit) error
	GetUnitsByRoomType(ctx context.Context, roomTypeID primitive.ObjectID) ([]*domain.RoomUnit, error)
	History(ctx context.Context, unitID primitive.ObjectID) ([]*domain.UnitStatusChange, error)
}
