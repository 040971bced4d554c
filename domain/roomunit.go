package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UnitStatus string

const (
	UnitAvailable   UnitStatus = "AVAILABLE"
	UnitOccupied    UnitStatus = "OCCUPIED"
	UnitDirty       UnitStatus = "DIRTY"
	UnitMaintenance UnitStatus = "MAINTENANCE"
)

func (s UnitStatus) Valid() bool {
	switch s {
	case UnitAvailable, UnitOccupied, UnitDirty, UnitMaintenance:
		return true
	}
	return false
}

// RoomUnit is a physical, numbered room instance of a room type.
type RoomUnit struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomTypeID primitive.ObjectID `bson:"room_type_id" json:"room_type_id"`
	RoomNumber string             `bson:"room_number" json:"room_number"`
	Floor      int                `bson:"floor" json:"floor"`
	Status     UnitStatus         `bson:"status" json:"status"`
}

// UnitStatusChange is one audit record of a unit's housekeeping history.
type UnitStatusChange struct {
	UnitID    string     `json:"unit_id"`
	OldStatus UnitStatus `json:"old_status"`
	NewStatus UnitStatus `json:"new_status"`
	Actor     string     `json:"actor"`
	Reason    string     `json:"reason"`
	ChangedAt time.Time  `json:"changed_at"`
}
