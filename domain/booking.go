package domain

import (
	"encoding/json"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	Pending    BookingStatus = "PENDING"
	Confirmed  BookingStatus = "CONFIRMED"
	CheckedIn  BookingStatus = "CHECKED_IN"
	CheckedOut BookingStatus = "CHECKED_OUT"
	Cancelled  BookingStatus = "CANCELLED"
)

// allowed lifecycle transitions; anything absent here is rejected
var bookingTransitions = map[BookingStatus][]BookingStatus{
	Pending:   {Confirmed, Cancelled},
	Confirmed: {CheckedIn, Cancelled},
	CheckedIn: {CheckedOut},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave this status.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Booking struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Reference       string              `bson:"reference" json:"reference"`
	GuestID         string              `bson:"guest_id" json:"guest_id"`
	RoomTypeID      primitive.ObjectID  `bson:"room_type_id" json:"room_type_id"`
	RoomUnitID      *primitive.ObjectID `bson:"room_unit_id,omitempty" json:"room_unit_id,omitempty"`
	CheckInDate     time.Time           `bson:"check_in_date" json:"check_in_date"`
	CheckOutDate    time.Time           `bson:"check_out_date" json:"check_out_date"`
	TotalPrice      float64             `bson:"total_price" json:"total_price"`
	Status          BookingStatus       `bson:"status" json:"status"`
	SpecialRequests string              `bson:"special_requests,omitempty" json:"special_requests,omitempty"`
	CancelReason    string              `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

// Nights counts the occupied nights of the half-open stay range.
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckInDate, b.CheckOutDate)
}

type Bookings []*Booking

func (bookings Bookings) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(bookings)
}

func (b *Booking) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(b)
}
