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

type InventoryServiceImpl struct {
	store  domain.InventoryStore
	tx     domain.TxRunner
	logger *log.Logger
	Tracer trace.Tracer
}

func NewInventoryServiceImpl(store domain.InventoryStore, tx domain.TxRunner, logger *log.Logger, tracer trace.Tracer) InventoryService {
	return &InventoryServiceImpl{
		store:  store,
		tx:     tx,
		logger: logger,
		Tracer: tracer,
	}
}

// ReserveRange decrements every stock row in [checkIn, checkOut) by quantity
// inside one unit of work. Rows are visited in ascending date order so two
// reservations contending on overlapping ranges cannot deadlock. Any short
// or missing date aborts the whole operation with nothing committed.
func (s *InventoryServiceImpl) ReserveRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time, quantity int) error {
	ctx, span := s.Tracer.Start(ctx, "InventoryService.ReserveRange")
	defer span.End()

	if err := validateRange(checkIn, checkOut, quantity); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		days, err := s.loadFullRange(ctx, roomTypeID, checkIn, checkOut)
		if err != nil {
			return err
		}

		var short []time.Time
		for _, day := range days {
			if day.AvailableCount < quantity {
				short = append(short, day.Date)
			}
		}
		if len(short) > 0 {
			return domain.InsufficientStockError{RoomTypeID: roomTypeID.Hex(), Dates: short}
		}

		for _, day := range days {
			ok, err := s.store.DecrementDay(ctx, roomTypeID, day.Date, quantity, day.Version)
			if err != nil {
				return err
			}
			if !ok {
				// another writer moved the row since we read it; abort so the
				// transaction runner replays the whole reservation
				return domain.ErrVersionConflict()
			}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "Range reserved")
	return nil
}

// ReleaseRange credits quantity back onto every row of the range, clamped
// at total_stock in case the ceiling was lowered administratively while the
// booking held the rooms. Rows that disappeared are skipped rather than
// failing the release.
func (s *InventoryServiceImpl) ReleaseRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time, quantity int) error {
	ctx, span := s.Tracer.Start(ctx, "InventoryService.ReleaseRange")
	defer span.End()

	if err := validateRange(checkIn, checkOut, quantity); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		days, err := s.store.DaysInRange(ctx, roomTypeID, checkIn, checkOut)
		if err != nil {
			return err
		}
		for _, day := range days {
			ok, err := s.store.IncrementDayClamped(ctx, roomTypeID, day.Date, quantity, day.Version)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrVersionConflict()
			}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "Range released")
	return nil
}

func (s *InventoryServiceImpl) CheckAvailability(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time, quantity int) (*domain.Availability, error) {
	ctx, span := s.Tracer.Start(ctx, "InventoryService.CheckAvailability")
	defer span.End()

	if err := validateRange(checkIn, checkOut, quantity); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	days, err := s.store.DaysInRange(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(days) < domain.NightsBetween(checkIn, checkOut) {
		return &domain.Availability{Available: false, MinRoomsAvailable: 0}, nil
	}

	min := days[0].AvailableCount
	for _, day := range days[1:] {
		if day.AvailableCount < min {
			min = day.AvailableCount
		}
	}
	return &domain.Availability{
		Available:         min >= quantity,
		MinRoomsAvailable: min,
	}, nil
}

// SeedRange creates the stock rows for [startDate, endDate) or, where a row
// already exists, rewrites its ceiling; the available count moves by the
// same delta, floored at zero.
func (s *InventoryServiceImpl) SeedRange(ctx context.Context, roomTypeID primitive.ObjectID, startDate, endDate time.Time, totalStock int) ([]*domain.RoomInventoryDay, error) {
	ctx, span := s.Tracer.Start(ctx, "InventoryService.SeedRange")
	defer span.End()

	if !domain.DateOnly(startDate).Before(domain.DateOnly(endDate)) {
		return nil, domain.ValidationError{Message: "Start date must be before end date"}
	}
	if totalStock < 0 {
		return nil, domain.ValidationError{Message: "Total stock must not be negative"}
	}

	var seeded []*domain.RoomInventoryDay
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		seeded = seeded[:0]
		return domain.EachNight(startDate, endDate, func(date time.Time) error {
			day := &domain.RoomInventoryDay{
				RoomTypeID:     roomTypeID,
				Date:           date,
				TotalStock:     totalStock,
				AvailableCount: totalStock,
			}
			err := s.store.InsertDay(ctx, day)
			if err == nil {
				seeded = append(seeded, day)
				return nil
			}
			if err != domain.ErrDuplicateInventory() {
				return err
			}

			updated, uerr := s.adjustExistingDay(ctx, roomTypeID, date, totalStock)
			if uerr != nil {
				return uerr
			}
			seeded = append(seeded, updated)
			return nil
		})
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "Inventory seeded")
	return seeded, nil
}

func (s *InventoryServiceImpl) adjustExistingDay(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, totalStock int) (*domain.RoomInventoryDay, error) {
	days, err := s.store.DaysInRange(ctx, roomTypeID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if len(days) != 1 {
		return nil, domain.ErrVersionConflict()
	}
	existing := days[0]

	delta := totalStock - existing.TotalStock
	available := existing.AvailableCount + delta
	if available < 0 {
		available = 0
	}
	if available > totalStock {
		available = totalStock
	}

	ok, err := s.store.UpdateDayStock(ctx, roomTypeID, date, totalStock, available, existing.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrVersionConflict()
	}

	existing.TotalStock = totalStock
	existing.AvailableCount = available
	existing.Version++
	return existing, nil
}

func (s *InventoryServiceImpl) GetInventory(ctx context.Context, roomTypeID primitive.ObjectID, startDate, endDate time.Time) ([]*domain.RoomInventoryDay, error) {
	ctx, span := s.Tracer.Start(ctx, "InventoryService.GetInventory")
	defer span.End()

	days, err := s.store.DaysInRange(ctx, roomTypeID, startDate, endDate)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return days, nil
}

// loadFullRange reads the rows of the half-open range and fails with the
// missing dates when any calendar date has no row.
func (s *InventoryServiceImpl) loadFullRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) ([]*domain.RoomInventoryDay, error) {
	days, err := s.store.DaysInRange(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*domain.RoomInventoryDay, len(days))
	for _, day := range days {
		byDate[domain.DateKey(day.Date)] = day
	}

	var missing []time.Time
	_ = domain.EachNight(checkIn, checkOut, func(date time.Time) error {
		if _, ok := byDate[domain.DateKey(date)]; !ok {
			missing = append(missing, date)
		}
		return nil
	})
	if len(missing) > 0 {
		return nil, domain.MissingInventoryError{RoomTypeID: roomTypeID.Hex(), Dates: missing}
	}
	return days, nil
}

func validateRange(checkIn, checkOut time.Time, quantity int) error {
	if quantity <= 0 {
		return domain.ValidationError{Message: "Quantity must be positive"}
	}
	if !domain.DateOnly(checkIn).Before(domain.DateOnly(checkOut)) {
		return domain.ValidationError{Message: "Check-in date must be before check-out date"}
	}
	return nil
}
