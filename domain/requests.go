package domain

import (
	"encoding/json"
	"io"
	"time"
)

type CreateBookingRequest struct {
	GuestID         string    `json:"guest_id" validate:"required"`
	RoomTypeID      string    `json:"room_type_id" validate:"required"`
	CheckInDate     time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate    time.Time `json:"check_out_date" validate:"required"`
	SpecialRequests string    `json:"special_requests" validate:"max=500"`
}

// ModifyBookingRequest carries only the fields being changed; nil means keep.
type ModifyBookingRequest struct {
	CheckInDate     *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate    *time.Time `json:"check_out_date,omitempty"`
	RoomTypeID      *string    `json:"room_type_id,omitempty"`
	SpecialRequests *string    `json:"special_requests,omitempty" validate:"omitempty,max=500"`
}

type CheckInRequest struct {
	RoomUnitID *string `json:"room_unit_id,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type CheckAvailabilityRequest struct {
	RoomTypeID   string    `json:"room_type_id" validate:"required"`
	CheckInDate  time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate time.Time `json:"check_out_date" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
}

type SeedInventoryRequest struct {
	RoomTypeID string    `json:"room_type_id" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	TotalStock int       `json:"total_stock" validate:"gte=0"`
}

type SetDailyRateRequest struct {
	RoomTypeID string    `json:"room_type_id" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	Price      float64   `json:"price" validate:"required,gt=0"`
}

type AddRoomUnitRequest struct {
	RoomTypeID string `json:"room_type_id" validate:"required"`
	RoomNumber string `json:"room_number" validate:"required,max=10"`
	Floor      int    `json:"floor" validate:"gte=0"`
}

type SetUnitStatusRequest struct {
	Status UnitStatus `json:"status" validate:"required"`
	Actor  string     `json:"actor" validate:"required"`
	Reason string     `json:"reason" validate:"max=500"`
}

func (r *CreateBookingRequest) FromJSON(rd io.Reader) error {
	d := json.NewDecoder(rd)
	return d.Decode(r)
}

func (r *CreateBookingRequest) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(r)
}
