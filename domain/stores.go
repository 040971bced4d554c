package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TxRunner executes fn inside one atomic unit of work. A nested call from
// within a running transaction joins it instead of opening a new one.
// Implementations retry fn on version conflicts before giving up.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// InventoryStore persists the per-date stock rows. The conditional writes
// match on the row's current version and report false when another writer
// got there first.
type InventoryStore interface {
	// DaysInRange returns the rows covering [checkIn, checkOut), ascending by date.
	DaysInRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) ([]*RoomInventoryDay, error)
	// DecrementDay takes qty rooms off one row, guarded by version and
	// available_count >= qty.
	DecrementDay(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, qty int, version int64) (bool, error)
	// IncrementDayClamped credits qty rooms back, capping at total_stock.
	IncrementDayClamped(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, qty int, version int64) (bool, error)
	// InsertDay creates a fresh row; ErrDuplicateInventory when the
	// (room type, date) pair already exists.
	InsertDay(ctx context.Context, day *RoomInventoryDay) error
	// UpdateDayStock rewrites total and available counts, guarded by version.
	UpdateDayStock(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, totalStock, availableCount int, version int64) (bool, error)
}

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	GetByGuest(ctx context.Context, guestID string) (Bookings, error)
	// UpdateWithStatus persists the booking only while its stored status
	// still equals expected; false means a concurrent transition won.
	UpdateWithStatus(ctx context.Context, booking *Booking, expected BookingStatus) (bool, error)
}

// CatalogStore reads the room-type catalog and daily-rate overrides owned
// by the administrative services.
type CatalogStore interface {
	GetRoomType(ctx context.Context, id primitive.ObjectID) (*RoomType, error)
	// RatesInRange returns override prices for [checkIn, checkOut) keyed by DateKey.
	RatesInRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) (map[string]float64, error)
	UpsertDailyRate(ctx context.Context, rate *DailyRate) error
}

type RoomUnitStore interface {
	Insert(ctx context.Context, unit *RoomUnit) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*RoomUnit, error)
	ListByRoomType(ctx context.Context, roomTypeID primitive.ObjectID) ([]*RoomUnit, error)
	// UpdateStatus flips the unit from one status to another, guarded by the
	// current status; false when the unit was not in the expected status.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to UnitStatus) (bool, error)
}

// UnitHistoryStore is the append-only housekeeping audit log.
type UnitHistoryStore interface {
	Append(ctx context.Context, change *UnitStatusChange) error
	ByUnit(ctx context.Context, unitID string) ([]*UnitStatusChange, error)
}
