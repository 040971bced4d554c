package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
)

type MongoRoomUnitStore struct {
	units  *mongo.Collection
	logger *log.Logger
	Tracer trace.Tracer
}

func NewMongoRoomUnitStore(units *mongo.Collection, logger *log.Logger, tracer trace.Tracer) *MongoRoomUnitStore {
	return &MongoRoomUnitStore{
		units:  units,
		logger: logger,
		Tracer: tracer,
	}
}

func (s *MongoRoomUnitStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.units.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		s.logger.Println(err)
	}
	return err
}

func (s *MongoRoomUnitStore) Insert(ctx context.Context, unit *domain.RoomUnit) error {
	ctx, span := s.Tracer.Start(ctx, "MongoRoomUnitStore.Insert")
	defer span.End()

	if unit.ID.IsZero() {
		unit.ID = primitive.NewObjectID()
	}
	_, err := s.units.InsertOne(ctx, unit)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRoomUnit()
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return err
	}
	return nil
}

func (s *MongoRoomUnitStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoomUnit, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoRoomUnitStore.GetByID")
	defer span.End()

	var unit domain.RoomUnit
	err := s.units.FindOne(ctx, bson.M{"_id": id}).Decode(&unit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoomUnitNotFound()
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	return &unit, nil
}

func (s *MongoRoomUnitStore) ListByRoomType(ctx context.Context, roomTypeID primitive.ObjectID) ([]*domain.RoomUnit, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoRoomUnitStore.ListByRoomType")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "room_number", Value: 1}})
	cursor, err := s.units.Find(ctx, bson.M{"room_type_id": roomTypeID}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	var units []*domain.RoomUnit
	if err = cursor.All(ctx, &units); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	return units, nil
}

func (s *MongoRoomUnitStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.UnitStatus) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoRoomUnitStore.UpdateStatus")
	defer span.End()

	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}
	result, err := s.units.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return false, err
	}
	return result.MatchedCount == 1, nil
}
