package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	BookingCreated    = "booking.created"
	BookingConfirmed  = "booking.confirmed"
	BookingCheckedIn  = "booking.checked_in"
	BookingCheckedOut = "booking.checked_out"
	BookingCancelled  = "booking.cancelled"
	BookingModified   = "booking.modified"
)

// BookingEvent is the message other services (notification, reporting)
// consume after a lifecycle transition commits.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	GuestID    string    `json:"guest_id"`
	RoomTypeID string    `json:"room_type_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error
}

type NatsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *log.Logger
	Tracer  trace.Tracer
}

func NewNatsPublisher(host, port, user, pass, subject string, logger *log.Logger, tracer trace.Tracer) (*NatsPublisher, error) {
	url := fmt.Sprintf("nats://%s:%s@%s:%s", user, pass, host, port)
	conn, err := nats.Connect(url)
	if err != nil {
		logger.Println(err)
		return nil, err
	}
	return &NatsPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
		Tracer:  tracer,
	}, nil
}

func (p *NatsPublisher) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	_, span := p.Tracer.Start(ctx, "NatsPublisher.PublishBookingEvent")
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.logger.Println(err)
		return err
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.logger.Println(err)
		return err
	}
	return nil
}

func (p *NatsPublisher) Close() {
	p.conn.Close()
}
