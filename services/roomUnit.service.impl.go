package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
)

type RoomUnitServiceImpl struct {
	units   domain.RoomUnitStore
	history domain.UnitHistoryStore
	logger  *log.Logger
	Tracer  trace.Tracer
}

func NewRoomUnitServiceImpl(units domain.RoomUnitStore, history domain.UnitHistoryStore, logger *log.Logger, tracer trace.Tracer) RoomUnitService {
	return &RoomUnitServiceImpl{
		units:   units,
		history: history,
		logger:  logger,
		Tracer:  tracer,
	}
}

// Assign hands a physical unit to a booking at check-in. The unit must
// belong to the booking's room type and currently be AVAILABLE.
func (s *RoomUnitServiceImpl) Assign(ctx context.Context, booking *domain.Booking, unitID primitive.ObjectID) (*domain.RoomUnit, error) {
	ctx, span := s.Tracer.Start(ctx, "RoomUnitService.Assign")
	defer span.End()

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if unit.RoomTypeID != booking.RoomTypeID {
		span.SetStatus(codes.Error, "Room type mismatch")
		return nil, domain.ErrRoomTypeMismatch()
	}
	if unit.Status != domain.UnitAvailable {
		span.SetStatus(codes.Error, "Unit not available")
		return nil, domain.ErrUnitUnavailable()
	}

	ok, err := s.units.UpdateStatus(ctx, unitID, domain.UnitAvailable, domain.UnitOccupied)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !ok {
		// lost the unit to a concurrent assignment between read and write
		span.SetStatus(codes.Error, "Unit not available")
		return nil, domain.ErrUnitUnavailable()
	}

	if err := s.appendHistory(ctx, unit, domain.UnitAvailable, domain.UnitOccupied, "booking:"+booking.Reference, "check-in assignment"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	unit.Status = domain.UnitOccupied
	span.SetStatus(codes.Ok, "Unit assigned")
	return unit, nil
}

// Release flips an occupied unit to DIRTY at check-out; housekeeping picks
// it up from there.
func (s *RoomUnitServiceImpl) Release(ctx context.Context, unitID primitive.ObjectID, actor, reason string) error {
	ctx, span := s.Tracer.Start(ctx, "RoomUnitService.Release")
	defer span.End()

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ok, err := s.units.UpdateStatus(ctx, unitID, domain.UnitOccupied, domain.UnitDirty)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "Unit is not occupied")
		return domain.StateError{Message: "Room unit is not occupied"}
	}

	if err := s.appendHistory(ctx, unit, domain.UnitOccupied, domain.UnitDirty, actor, reason); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "Unit released")
	return nil
}

// SetStatus is the administrative housekeeping transition (DIRTY ->
// AVAILABLE, -> MAINTENANCE, ...). The caller is assumed authorized; every
// change lands in the audit log.
func (s *RoomUnitServiceImpl) SetStatus(ctx context.Context, unitID primitive.ObjectID, status domain.UnitStatus, actor, reason string) (*domain.RoomUnit, error) {
	ctx, span := s.Tracer.Start(ctx, "RoomUnitService.SetStatus")
	defer span.End()

	if !status.Valid() {
		return nil, domain.ValidationError{Message: "Unknown room unit status"}
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if unit.Status == status {
		return unit, nil
	}

	ok, err := s.units.UpdateStatus(ctx, unitID, unit.Status, status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !ok {
		span.SetStatus(codes.Error, "Unit status changed concurrently")
		return nil, domain.ErrVersionConflict()
	}

	if err := s.appendHistory(ctx, unit, unit.Status, status, actor, reason); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	unit.Status = status
	span.SetStatus(codes.Ok, "Unit status updated")
	return unit, nil
}

func (s *RoomUnitServiceImpl) AddRoomUnit(ctx context.Context, unit *domain.RoomUnit) error {
	ctx, span := s.Tracer.Start(ctx, "RoomUnitService.AddRoomUnit")
	defer span.End()

	if unit.Status == "" {
		unit.Status = domain.UnitAvailable
	}
	if !unit.Status.Valid() {
		return domain.ValidationError{Message: "Unknown room unit status"}
	}
	if err := s.units.Insert(ctx, unit); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *RoomUnitServiceImpl) GetUnitsByRoomType(ctx context.Context, roomTypeID primitive.ObjectID) ([]*domain.RoomUnit, error) {
	ctx, span := s.Tracer.Start(ctx, "RoomUnitService.GetUnitsByRoomType")
	defer span.End()

	units, err := s.units.ListByRoomType(ctx, roomTypeID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return units, nil
}

func (s *RoomUnitServiceImpl) History(ctx context.Context, unitID primitive.ObjectID) ([]*domain.UnitStatusChange, error) {
	ctx, span := s.Tracer.Start(ctx, "RoomUnitService.History")
	defer span.End()

	changes, err := s.history.ByUnit(ctx, unitID.Hex())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return changes, nil
}

func (s *RoomUnitServiceImpl) appendHistory(ctx context.Context, unit *domain.RoomUnit, from, to domain.UnitStatus, actor, reason string) error {
	return s.history.Append(ctx, &domain.UnitStatusChange{
		UnitID:    unit.ID.Hex(),
		OldStatus: from,
		NewStatus: to,
		Actor:     actor,
		Reason:    reason,
		ChangedAt: time.Now().UTC(),
	})
}
