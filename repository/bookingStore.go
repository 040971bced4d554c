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

type MongoBookingStore struct {
	bookings *mongo.Collection
	logger   *log.Logger
	Tracer   trace.Tracer
}

func NewMongoBookingStore(bookings *mongo.Collection, logger *log.Logger, tracer trace.Tracer) *MongoBookingStore {
	return &MongoBookingStore{
		bookings: bookings,
		logger:   logger,
		Tracer:   tracer,
	}
}

// EnsureIndexes creates the unique reference index that backs the bounded
// reference-collision retry.
func (s *MongoBookingStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		s.logger.Println(err)
	}
	return err
}

func (s *MongoBookingStore) Insert(ctx context.Context, booking *domain.Booking) error {
	ctx, span := s.Tracer.Start(ctx, "MongoBookingStore.Insert")
	defer span.End()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	_, err := s.bookings.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReference()
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return err
	}
	return nil
}

func (s *MongoBookingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoBookingStore.GetByID")
	defer span.End()

	var booking domain.Booking
	err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound()
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	return &booking, nil
}

func (s *MongoBookingStore) GetByGuest(ctx context.Context, guestID string) (domain.Bookings, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoBookingStore.GetByGuest")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "check_in_date", Value: 1}})
	cursor, err := s.bookings.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	var bookings domain.Bookings
	if err = cursor.All(ctx, &bookings); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return nil, err
	}
	return bookings, nil
}

func (s *MongoBookingStore) UpdateWithStatus(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "MongoBookingStore.UpdateWithStatus")
	defer span.End()

	filter := bson.M{"_id": booking.ID, "status": expected}
	update := bson.M{"$set": bson.M{
		"room_type_id":     booking.RoomTypeID,
		"room_unit_id":     booking.RoomUnitID,
		"check_in_date":    booking.CheckInDate,
		"check_out_date":   booking.CheckOutDate,
		"total_price":      booking.TotalPrice,
		"status":           booking.Status,
		"special_requests": booking.SpecialRequests,
		"cancel_reason":    booking.CancelReason,
		"updated_at":       booking.UpdatedAt,
	}}
	result, err := s.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println(err)
		return false, err
	}
	return result.MatchedCount == 1, nil
}
