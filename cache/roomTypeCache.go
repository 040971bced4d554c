package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
)

const (
	cacheRoomType = "roomtypes:%s"
	roomTypeTTL   = 300 * time.Second
)

// RoomTypeCache keeps catalog rows in Redis so the rate resolver does not
// hit Mongo for every quoted night. A miss or a Redis failure just falls
// through to the store.
type RoomTypeCache struct {
	cli    *redis.Client
	logger *log.Logger
	Tracer trace.Tracer
}

// Construct Redis client
func New(logger *log.Logger, tracer trace.Tracer) *RoomTypeCache {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisAddress := fmt.Sprintf("%s:%s", redisHost, redisPort)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &RoomTypeCache{
		cli:    client,
		logger: logger,
		Tracer: tracer,
	}
}

func (rc *RoomTypeCache) Ping() {
	val, _ := rc.cli.Ping().Result()
	rc.logger.Println(val)
}

func (rc *RoomTypeCache) PostRoomType(ctx context.Context, roomType *domain.RoomType) {
	_, span := rc.Tracer.Start(ctx, "RoomTypeCache.PostRoomType")
	defer span.End()

	key := constructRoomTypeKey(roomType.ID.Hex())
	value, err := json.Marshal(roomType)
	if err != nil {
		span.SetStatus(codes.Error, "Error marshaling room type for cache"+err.Error())
		rc.logger.Println(err)
		return
	}

	if err := rc.cli.Set(key, value, roomTypeTTL).Err(); err != nil {
		span.SetStatus(codes.Error, "Error setting room type in Redis"+err.Error())
		rc.logger.Println(err)
	}
}

func (rc *RoomTypeCache) GetRoomType(ctx context.Context, id string) (*domain.RoomType, bool) {
	_, span := rc.Tracer.Start(ctx, "RoomTypeCache.GetRoomType")
	defer span.End()

	value, err := rc.cli.Get(constructRoomTypeKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.SetStatus(codes.Error, "Error getting room type from Redis"+err.Error())
			rc.logger.Println(err)
		}
		return nil, false
	}

	var roomType domain.RoomType
	if err := json.Unmarshal(value, &roomType); err != nil {
		span.SetStatus(codes.Error, "Error unmarshaling cached room type"+err.Error())
		rc.logger.Println(err)
		return nil, false
	}
	return &roomType, true
}

func (rc *RoomTypeCache) InvalidateRoomType(ctx context.Context, id string) {
	_, span := rc.Tracer.Start(ctx, "RoomTypeCache.InvalidateRoomType")
	defer span.End()

	if err := rc.cli.Del(constructRoomTypeKey(id)).Err(); err != nil {
		rc.logger.Println(err)
	}
}

func constructRoomTypeKey(id string) string {
	return fmt.Sprintf(cacheRoomType, id)
}
