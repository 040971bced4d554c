package services

import (
	"context"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
)

// RoomTypeCache is the read-through cache in front of the catalog store.
type RoomTypeCache interface {
	GetRoomType(ctx context.Context, id string) (*domain.RoomType, bool)
	PostRoomType(ctx context.Context, roomType *domain.RoomType)
}

type RateServiceImpl struct {
	catalog domain.CatalogStore
	cache   RoomTypeCache
	logger  *log.Logger
	Tracer  trace.Tracer
}

func NewRateServiceImpl(catalog domain.CatalogStore, cache RoomTypeCache, logger *log.Logger, tracer trace.Tracer) RateService {
	return &RateServiceImpl{
		catalog: catalog,
		cache:   cache,
		logger:  logger,
		Tracer:  tracer,
	}
}

// PriceRange quotes every night of [checkIn, checkOut). Pure read: soft-
// deleted or unknown room types fail, an empty override set means every
// night falls back to the base price.
func (s *RateServiceImpl) PriceRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) (*domain.PriceQuote, error) {
	ctx, span := s.Tracer.Start(ctx, "RateService.PriceRange")
	defer span.End()

	if !domain.DateOnly(checkIn).Before(domain.DateOnly(checkOut)) {
		return nil, domain.ValidationError{Message: "Check-in date must be before check-out date"}
	}

	roomType, err := s.lookupRoomType(ctx, roomTypeID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	overrides, err := s.catalog.RatesInRange(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	quote := &domain.PriceQuote{}
	_ = domain.EachNight(checkIn, checkOut, func(date time.Time) error {
		price := roomType.BasePrice
		if override, ok := overrides[domain.DateKey(date)]; ok {
			price = override
		}
		quote.Nights = append(quote.Nights, domain.NightPrice{Date: date, Price: price})
		quote.Total += price
		return nil
	})
	quote.Total = math.Round(quote.Total*100) / 100

	span.SetStatus(codes.Ok, "Range priced")
	return quote, nil
}

func (s *RateServiceImpl) SetDailyRate(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, price float64) (*domain.DailyRate, error) {
	ctx, span := s.Tracer.Start(ctx, "RateService.SetDailyRate")
	defer span.End()

	if price <= 0 {
		return nil, domain.ValidationError{Message: "Price must be positive"}
	}
	if _, err := s.lookupRoomType(ctx, roomTypeID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	rate := &domain.DailyRate{
		RoomTypeID: roomTypeID,
		Date:       domain.DateOnly(date),
		Price:      price,
	}
	if err := s.catalog.UpsertDailyRate(ctx, rate); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rate, nil
}

func (s *RateServiceImpl) lookupRoomType(ctx context.Context, roomTypeID primitive.ObjectID) (*domain.RoomType, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetRoomType(ctx, roomTypeID.Hex()); ok {
			if cached.IsDeleted() {
				return nil, domain.ErrRoomTypeNotFound()
			}
			return cached, nil
		}
	}

	roomType, err := s.catalog.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.PostRoomType(ctx, roomType)
	}
	if roomType.IsDeleted() {
		return nil, domain.ErrRoomTypeNotFound()
	}
	return roomType, nil
}
