package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomType is the catalog record bookings reference. Administrative edits
// happen outside this service; here it is read-only.
type RoomType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	BasePrice float64            `bson:"base_price" json:"base_price"`
	Capacity  int                `bson:"capacity" json:"capacity"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

func (rt *RoomType) IsDeleted() bool {
	return rt.DeletedAt != nil
}

// DailyRate overrides the room type's base price for one calendar date.
type DailyRate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomTypeID primitive.ObjectID `bson:"room_type_id" json:"room_type_id"`
	Date       time.Time          `bson:"date" json:"date"`
	Price      float64            `bson:"price" json:"price"`
}

type NightPrice struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceQuote is the Rate Resolver's answer for a stay range.
type PriceQuote struct {
	Nights []NightPrice `json:"nights"`
	Total  float64      `json:"total"`
}
