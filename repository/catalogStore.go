package repository

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
)

// MongoCatalogStore reads the room-type catalog and daily-rate overrides.
// The catalog rows themselves are written by the administrative services;
// this service only consumes them.
type MongoCatalogStore struct {
	roomTypes *mongo.Collection
	rates     *mongo.Collection
	logger    *log.Logger
	Tracer    trace.Tracer
}

func NewMongoCatalogStore(roomTypes, rates *mongo.Collection, logger *log.Logger, tracer trace.Tracer) *MongoCatalogStore {
	return &MongoCatalogStore{
		roomTypes: roomTypes,
		rates:     rates,
		logger:    logger,
		Tracer:    tracer,
	}
}

func (s *MongoCatalogStore) GetRoomType(ctx context.Context, id primitive.ObjectID) (*domain.RoomType, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoCatalogStore.GetRoomType")
	defer span.End()

	var roomType domain.RoomType
	err := s.roomTypes.FindOne(ctx, bson.M{"_id": id}).Decode(&roomType)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoomTypeNotFound()
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	return &roomType, nil
}

func (s *MongoCatalogStore) RatesInRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) (map[string]float64, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoCatalogStore.RatesInRange")
	defer span.End()

	filter := bson.M{
		"room_type_id": roomTypeID,
		"date": bson.M{
			"$gte": domain.DateOnly(checkIn),
			"$lt":  domain.DateOnly(checkOut),
		},
	}
	cursor, err := s.rates.Find(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	var rates []*domain.DailyRate
	if err = cursor.All(ctx, &rates); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}

	overrides := make(map[string]float64, len(rates))
	for _, rate := range rates {
		overrides[domain.DateKey(rate.Date)] = rate.Price
	}
	return overrides, nil
}

func (s *MongoCatalogStore) UpsertDailyRate(ctx context.Context, rate *domain.DailyRate) error {
	ctx, span := s.Tracer.Start(ctx, "MongoCatalogStore.UpsertDailyRate")
	defer span.End()

	filter := bson.M{
		"room_type_id": rate.RoomTypeID,
		"date":         domain.DateOnly(rate.Date),
	}
	update := bson.M{"$set": bson.M{"price": rate.Price}}
	opts := options.Update().SetUpsert(true)
	_, err := s.rates.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return err
	}
	return nil
}
