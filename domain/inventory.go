package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomInventoryDay is the per-room-type, per-date stock row. AvailableCount
// stays within [0, TotalStock]; Version only ever grows and guards every
// write against concurrent modification.
type RoomInventoryDay struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomTypeID     primitive.ObjectID `bson:"room_type_id" json:"room_type_id"`
	Date           time.Time          `bson:"date" json:"date"`
	TotalStock     int                `bson:"total_stock" json:"total_stock"`
	AvailableCount int                `bson:"available_count" json:"available_count"`
	Version        int64              `bson:"version" json:"version"`
}

type Availability struct {
	Available         bool `json:"available"`
	MinRoomsAvailable int  `json:"min_rooms_available"`
}
