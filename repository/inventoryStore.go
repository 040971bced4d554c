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

// MongoInventoryStore owns the inventory_days collection. Every write is a
// single conditional update matching on the row's version, so two writers
// racing on the same date row cannot both win.
type MongoInventoryStore struct {
	days   *mongo.Collection
	logger *log.Logger
	Tracer trace.Tracer
}

func NewMongoInventoryStore(days *mongo.Collection, logger *log.Logger, tracer trace.Tracer) *MongoInventoryStore {
	return &MongoInventoryStore{
		days:   days,
		logger: logger,
		Tracer: tracer,
	}
}

// EnsureIndexes creates the unique (room_type_id, date) index that makes
// duplicate stock rows impossible.
func (s *MongoInventoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.days.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room_type_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		s.logger.Println(err)
	}
	return err
}

func (s *MongoInventoryStore) DaysInRange(ctx context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) ([]*domain.RoomInventoryDay, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoInventoryStore.DaysInRange")
	defer span.End()

	filter := bson.M{
		"room_type_id": roomTypeID,
		"date": bson.M{
			"$gte": domain.DateOnly(checkIn),
			"$lt":  domain.DateOnly(checkOut),
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.days.Find(ctx, filter, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	var days []*domain.RoomInventoryDay
	if err = cursor.All(ctx, &days); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	return days, nil
}

func (s *MongoInventoryStore) DecrementDay(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, qty int, version int64) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoInventoryStore.DecrementDay")
	defer span.End()

	filter := bson.M{
		"room_type_id":    roomTypeID,
		"date":            domain.DateOnly(date),
		"version":         version,
		"available_count": bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"available_count": -qty, "version": 1},
	}
	result, err := s.days.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (s *MongoInventoryStore) IncrementDayClamped(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, qty int, version int64) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoInventoryStore.IncrementDayClamped")
	defer span.End()

	filter := bson.M{
		"room_type_id": roomTypeID,
		"date":         domain.DateOnly(date),
		"version":      version,
	}
	// pipeline update: credit qty but never above total_stock, in case the
	// ceiling was lowered while the booking held the rooms
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"available_count": bson.M{
				"$min": bson.A{
					bson.M{"$add": bson.A{"$available_count", qty}},
					"$total_stock",
				},
			},
			"version": bson.M{"$add": bson.A{"$version", 1}},
		}}},
	}
	result, err := s.days.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (s *MongoInventoryStore) InsertDay(ctx context.Context, day *domain.RoomInventoryDay) error {
	ctx, span := s.Tracer.Start(ctx, "MongoInventoryStore.InsertDay")
	defer span.End()

	day.Date = domain.DateOnly(day.Date)
	_, err := s.days.InsertOne(ctx, day)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateInventory()
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return err
	}
	return nil
}

func (s *MongoInventoryStore) UpdateDayStock(ctx context.Context, roomTypeID primitive.ObjectID, date time.Time, totalStock, availableCount int, version int64) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoInventoryStore.UpdateDayStock")
	defer span.End()

	filter := bson.M{
		"room_type_id": roomTypeID,
		"date":         domain.DateOnly(date),
		"version":      version,
	}
	update := bson.M{
		"$set": bson.M{"total_stock": totalStock, "available_count": availableCount},
		"$inc": bson.M{"version": 1},
	}
	result, err := s.days.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return false, err
	}
	return result.MatchedCount == 1, nil
}
