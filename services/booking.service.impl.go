package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
	"booking-service/events"
	"booking-service/utils"
)

// attempts at a fresh reference before giving up; a loop, not recursion,
// so sustained collisions cannot grow the stack
const referenceAttempts = 5

type BookingServiceImpl struct {
	bookings  domain.BookingStore
	inventory InventoryService
	rates     RateService
	units     RoomUnitService
	guests    GuestClient
	payments  PaymentClient
	publisher events.Publisher
	tx        domain.TxRunner
	logger    *log.Logger
	Tracer    trace.Tracer

	maxStayNights int
	now           func() time.Time
}

func NewBookingServiceImpl(bookings domain.BookingStore, inventory InventoryService, rates RateService,
	units RoomUnitService, guests GuestClient, payments PaymentClient, publisher events.Publisher,
	tx domain.TxRunner, maxStayNights int, logger *log.Logger, tracer trace.Tracer) BookingService {
	return &BookingServiceImpl{
		bookings:      bookings,
		inventory:     inventory,
		rates:         rates,
		units:         units,
		guests:        guests,
		payments:      payments,
		publisher:     publisher,
		tx:            tx,
		logger:        logger,
		Tracer:        tracer,
		maxStayNights: maxStayNights,
		now:           time.Now,
	}
}

// CreateBooking validates, prices, reserves stock and persists the booking
// as one atomic unit of work: a failed reservation leaves nothing behind.
func (s *BookingServiceImpl) CreateBooking(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	roomTypeID, err := primitive.ObjectIDFromHex(req.RoomTypeID)
	if err != nil {
		return nil, domain.ValidationError{Message: "Invalid room type id"}
	}

	checkIn := domain.DateOnly(req.CheckInDate)
	checkOut := domain.DateOnly(req.CheckOutDate)
	if err := s.validateStay(checkIn, checkOut); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	exists, err := s.guests.GuestExists(ctx, req.GuestID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !exists {
		span.SetStatus(codes.Error, "Guest not found")
		return nil, domain.ErrGuestNotFound()
	}

	quote, err := s.rates.PriceRange(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking := &domain.Booking{
		GuestID:         req.GuestID,
		RoomTypeID:      roomTypeID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		TotalPrice:      quote.Total,
		Status:          domain.Pending,
		SpecialRequests: req.SpecialRequests,
	}

	// the reference collides only against the unique index; regenerate and
	// replay the unit of work a bounded number of times
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		booking.Reference, err = utils.NewBookingReference(s.now())
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		createdAt := s.now().UTC()
		booking.ID = primitive.NilObjectID
		booking.CreatedAt = createdAt
		booking.UpdatedAt = createdAt

		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := s.inventory.ReserveRange(ctx, roomTypeID, checkIn, checkOut, 1); err != nil {
				return err
			}
			return s.bookings.Insert(ctx, booking)
		})
		if err == nil {
			s.publish(ctx, events.BookingCreated, booking)
			span.SetStatus(codes.Ok, "Booking created")
			return booking, nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference()) {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		s.logger.Println("booking reference collision, regenerating:", booking.Reference)
	}

	span.SetStatus(codes.Error, "Could not generate a unique booking reference")
	return nil, domain.ErrDuplicateReference()
}

// ConfirmBooking moves PENDING to CONFIRMED once the payment record reports
// SUCCESS. Stock was already held at create time, so no inventory change.
func (s *BookingServiceImpl) ConfirmBooking(ctx context.Context, bookingID primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.ConfirmBooking")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if booking.Status != domain.Pending {
		span.SetStatus(codes.Error, "Wrong status for confirmation")
		return nil, domain.StateError{Message: "Only a pending booking can be confirmed"}
	}

	paid, err := s.payments.PaymentSucceeded(ctx, bookingID.Hex())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !paid {
		span.SetStatus(codes.Error, "Payment not settled")
		return nil, domain.ErrPaymentNotSettled()
	}

	if err := s.transition(ctx, booking, domain.Pending, domain.Confirmed); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publish(ctx, events.BookingConfirmed, booking)
	span.SetStatus(codes.Ok, "Booking confirmed")
	return booking, nil
}

// CheckIn moves CONFIRMED to CHECKED_IN on or after the check-in date and
// optionally assigns a physical unit. Without a unit the guest is checked
// in unassigned; a unit can be attached later through assignment.
func (s *BookingServiceImpl) CheckIn(ctx context.Context, bookingID primitive.ObjectID, roomUnitID *primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CheckIn")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if booking.Status != domain.Confirmed {
		span.SetStatus(codes.Error, "Wrong status for check-in")
		return nil, domain.StateError{Message: "Only a confirmed booking can be checked in"}
	}
	if s.today().Before(booking.CheckInDate) {
		span.SetStatus(codes.Error, "Too early for check-in")
		return nil, domain.StateError{Message: "Cannot check in before the check-in date"}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if roomUnitID != nil {
			if _, err := s.units.Assign(ctx, booking, *roomUnitID); err != nil {
				return err
			}
			booking.RoomUnitID = roomUnitID
		}
		booking.Status = domain.CheckedIn
		booking.UpdatedAt = s.now().UTC()
		ok, err := s.bookings.UpdateWithStatus(ctx, booking, domain.Confirmed)
		if err != nil {
			return err
		}
		if !ok {
			return domain.StateError{Message: "Booking was modified concurrently"}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publish(ctx, events.BookingCheckedIn, booking)
	span.SetStatus(codes.Ok, "Booking checked in")
	return booking, nil
}

// CheckOut ends the stay. The assigned unit, if any, goes DIRTY for
// housekeeping. Stock is never recredited here: the stay is consumed.
func (s *BookingServiceImpl) CheckOut(ctx context.Context, bookingID primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CheckOut")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if booking.Status != domain.CheckedIn {
		span.SetStatus(codes.Error, "Wrong status for check-out")
		return nil, domain.StateError{Message: "Only a checked-in booking can be checked out"}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if booking.RoomUnitID != nil {
			if err := s.units.Release(ctx, *booking.RoomUnitID, "booking:"+booking.Reference, "check-out"); err != nil {
				return err
			}
		}
		booking.Status = domain.CheckedOut
		booking.UpdatedAt = s.now().UTC()
		ok, err := s.bookings.UpdateWithStatus(ctx, booking, domain.CheckedIn)
		if err != nil {
			return err
		}
		if !ok {
			return domain.StateError{Message: "Booking was modified concurrently"}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publish(ctx, events.BookingCheckedOut, booking)
	span.SetStatus(codes.Ok, "Booking checked out")
	return booking, nil
}

// CancelBooking releases the held nights and flips the booking to CANCELLED
// in one unit of work; a failed release fails the whole cancellation.
func (s *BookingServiceImpl) CancelBooking(ctx context.Context, bookingID primitive.ObjectID, reason string) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CancelBooking")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.Cancelled) {
		span.SetStatus(codes.Error, "Wrong status for cancellation")
		return nil, domain.StateError{Message: "Booking can no longer be cancelled"}
	}
	if !s.today().Before(booking.CheckInDate) {
		span.SetStatus(codes.Error, "Check-in already started")
		return nil, domain.StateError{Message: "Cannot cancel after check-in has started"}
	}

	previous := booking.Status
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.inventory.ReleaseRange(ctx, booking.RoomTypeID, booking.CheckInDate, booking.CheckOutDate, 1); err != nil {
			return err
		}
		booking.Status = domain.Cancelled
		booking.CancelReason = reason
		booking.UpdatedAt = s.now().UTC()
		ok, err := s.bookings.UpdateWithStatus(ctx, booking, previous)
		if err != nil {
			return err
		}
		if !ok {
			return domain.StateError{Message: "Booking was modified concurrently"}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publish(ctx, events.BookingCancelled, booking)
	span.SetStatus(codes.Ok, "Booking cancelled")
	return booking, nil
}

// ModifyBooking changes the dates and/or room type of a PENDING booking.
// The old range is released and the new one reserved in the same unit of
// work: when the new reservation fails, the transaction aborts and the
// booking keeps its original dates and held stock.
func (s *BookingServiceImpl) ModifyBooking(ctx context.Context, bookingID primitive.ObjectID, req *domain.ModifyBookingRequest) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.ModifyBooking")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if booking.Status != domain.Pending {
		span.SetStatus(codes.Error, "Wrong status for modification")
		return nil, domain.StateError{Message: "Only a pending booking can be modified"}
	}

	newCheckIn := booking.CheckInDate
	newCheckOut := booking.CheckOutDate
	newRoomTypeID := booking.RoomTypeID
	if req.CheckInDate != nil {
		newCheckIn = domain.DateOnly(*req.CheckInDate)
	}
	if req.CheckOutDate != nil {
		newCheckOut = domain.DateOnly(*req.CheckOutDate)
	}
	if req.RoomTypeID != nil {
		newRoomTypeID, err = primitive.ObjectIDFromHex(*req.RoomTypeID)
		if err != nil {
			return nil, domain.ValidationError{Message: "Invalid room type id"}
		}
	}
	if err := s.validateStay(newCheckIn, newCheckOut); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	original := *booking
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.inventory.ReleaseRange(ctx, original.RoomTypeID, original.CheckInDate, original.CheckOutDate, 1); err != nil {
			return err
		}
		quote, err := s.rates.PriceRange(ctx, newRoomTypeID, newCheckIn, newCheckOut)
		if err != nil {
			return err
		}
		if err := s.inventory.ReserveRange(ctx, newRoomTypeID, newCheckIn, newCheckOut, 1); err != nil {
			return err
		}

		booking.RoomTypeID = newRoomTypeID
		booking.CheckInDate = newCheckIn
		booking.CheckOutDate = newCheckOut
		booking.TotalPrice = quote.Total
		if req.SpecialRequests != nil {
			booking.SpecialRequests = *req.SpecialRequests
		}
		booking.UpdatedAt = s.now().UTC()
		ok, err := s.bookings.UpdateWithStatus(ctx, booking, domain.Pending)
		if err != nil {
			return err
		}
		if !ok {
			return domain.StateError{Message: "Booking was modified concurrently"}
		}
		return nil
	})
	if err != nil {
		// the aborted transaction kept the original booking and stock
		*booking = original
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publish(ctx, events.BookingModified, booking)
	span.SetStatus(codes.Ok, "Booking modified")
	return booking, nil
}

func (s *BookingServiceImpl) GetBooking(ctx context.Context, bookingID primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return booking, nil
}

func (s *BookingServiceImpl) GetBookingsByGuest(ctx context.Context, guestID string) (domain.Bookings, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetBookingsByGuest")
	defer span.End()

	bookings, err := s.bookings.GetByGuest(ctx, guestID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return bookings, nil
}

// transition persists a plain status flip guarded by the expected previous
// status.
func (s *BookingServiceImpl) transition(ctx context.Context, booking *domain.Booking, from, to domain.BookingStatus) error {
	booking.Status = to
	booking.UpdatedAt = s.now().UTC()
	ok, err := s.bookings.UpdateWithStatus(ctx, booking, from)
	if err != nil {
		return err
	}
	if !ok {
		booking.Status = from
		return domain.StateError{Message: "Booking was modified concurrently"}
	}
	return nil
}

func (s *BookingServiceImpl) validateStay(checkIn, checkOut time.Time) error {
	if checkIn.Before(s.today()) {
		return domain.ValidationError{Message: "Check-in date must not be in the past"}
	}
	if !checkIn.Before(checkOut) {
		return domain.ValidationError{Message: "Check-in date must be before check-out date"}
	}
	if domain.NightsBetween(checkIn, checkOut) > s.maxStayNights {
		return domain.ValidationError{Message: "Stay exceeds the maximum number of nights"}
	}
	return nil
}

func (s *BookingServiceImpl) today() time.Time {
	return domain.DateOnly(s.now())
}

// publish emits a lifecycle event after the transition committed. Delivery
// is best effort: a publish failure is logged, never unwound.
func (s *BookingServiceImpl) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}
	event := &events.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  booking.ID.Hex(),
		Reference:  booking.Reference,
		GuestID:    booking.GuestID,
		RoomTypeID: booking.RoomTypeID.Hex(),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.logger.Println("failed to publish booking event:", err)
	}
}
