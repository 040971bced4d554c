package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"booking-service/domain"
)

func TestPriceRangeBasePriceOnly(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(120, 2)

	quote, err := env.rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"))
	require.NoError(t, err)
	require.Len(t, quote.Nights, 3)
	assert.Equal(t, 360.0, quote.Total)
	for _, night := range quote.Nights {
		assert.Equal(t, 120.0, night.Price)
	}
}

func TestPriceRangeOverrideWinsPerNight(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	_, err := env.rates.SetDailyRate(context.Background(), roomTypeID, date("2024-06-02"), 150)
	require.NoError(t, err)

	quote, err := env.rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-03"))
	require.NoError(t, err)
	require.Len(t, quote.Nights, 2)
	assert.Equal(t, 100.0, quote.Nights[0].Price)
	assert.Equal(t, 150.0, quote.Nights[1].Price)
	assert.Equal(t, 250.0, quote.Total)

	// the override applies to its own night only; other room types keep base
	other := env.addRoomType(100, 2)
	quote, err = env.rates.PriceRange(context.Background(), other, date("2024-06-01"), date("2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, 200.0, quote.Total)
}

func TestPriceRangeRoundsToCents(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(33.333, 2)

	quote, err := env.rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Total)
}

func TestPriceRangeUnknownOrDeletedRoomType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rates.PriceRange(context.Background(), primitive.NewObjectID(), date("2024-06-01"), date("2024-06-03"))
	require.ErrorIs(t, err, domain.ErrRoomTypeNotFound())

	roomTypeID := env.addRoomType(100, 2)
	env.deleteRoomType(roomTypeID)
	_, err = env.rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-03"))
	require.ErrorIs(t, err, domain.ErrRoomTypeNotFound())
}

func TestPriceRangeRejectsEmptyRange(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)

	var vErr domain.ValidationError
	_, err := env.rates.PriceRange(context.Background(), roomTypeID, date("2024-06-03"), date("2024-06-03"))
	require.ErrorAs(t, err, &vErr)
}

func TestSetDailyRateValidatesPrice(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)

	var vErr domain.ValidationError
	_, err := env.rates.SetDailyRate(context.Background(), roomTypeID, date("2024-06-01"), 0)
	require.ErrorAs(t, err, &vErr)
	_, err = env.rates.SetDailyRate(context.Background(), roomTypeID, date("2024-06-01"), -10)
	require.ErrorAs(t, err, &vErr)

	rate, err := env.rates.SetDailyRate(context.Background(), roomTypeID, date("2024-06-01"), 99.5)
	require.NoError(t, err)
	assert.Equal(t, 99.5, rate.Price)

	// upsert: the newest price wins
	_, err = env.rates.SetDailyRate(context.Background(), roomTypeID, date("2024-06-01"), 110)
	require.NoError(t, err)
	quote, err := env.rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 110.0, quote.Total)
}

// mapRoomTypeCache stands in for the redis cache in front of the catalog.
type mapRoomTypeCache struct {
	mu     sync.Mutex
	items  map[string]*domain.RoomType
	hits   int
	misses int
}

func newMapRoomTypeCache() *mapRoomTypeCache {
	return &mapRoomTypeCache{items: make(map[string]*domain.RoomType)}
}

func (c *mapRoomTypeCache) GetRoomType(_ context.Context, id string) (*domain.RoomType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	roomType, ok := c.items[id]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return roomType, ok
}

func (c *mapRoomTypeCache) PostRoomType(_ context.Context, roomType *domain.RoomType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[roomType.ID.Hex()] = roomType
}

func TestPriceRangeReadsThroughCache(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)

	cache := newMapRoomTypeCache()
	rates := NewRateServiceImpl(&memCatalogStore{env.db}, cache, env.bookings.(*BookingServiceImpl).logger, env.bookings.(*BookingServiceImpl).Tracer)

	_, err := rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)

	_, err = rates.PriceRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}
