package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-service/domain"
)

func TestSeedRangeCreatesOneRowPerNight(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)

	seeded, err := env.inventory.SeedRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 5)
	require.NoError(t, err)
	require.Len(t, seeded, 3)

	for _, day := range seeded {
		assert.Equal(t, 5, day.TotalStock)
		assert.Equal(t, 5, day.AvailableCount)
	}
	// end date is exclusive
	days, err := env.inventory.GetInventory(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-10"))
	require.NoError(t, err)
	assert.Len(t, days, 3)
}

func TestSeedRangeReseedMovesAvailableByDelta(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-02", 5)

	require.NoError(t, env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"), 3))

	// raising the ceiling 5 -> 8 moves available 2 -> 5
	_, err := env.inventory.SeedRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"), 8)
	require.NoError(t, err)
	day := env.day(roomTypeID, "2024-06-01")
	assert.Equal(t, 8, day.TotalStock)
	assert.Equal(t, 5, day.AvailableCount)

	// lowering it 8 -> 2 would push available to -1; it floors at zero
	_, err = env.inventory.SeedRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"), 2)
	require.NoError(t, err)
	day = env.day(roomTypeID, "2024-06-01")
	assert.Equal(t, 2, day.TotalStock)
	assert.Equal(t, 0, day.AvailableCount)
}

func TestReserveRangeDecrementsEveryNight(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-05", 3)

	err := env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, env.day(roomTypeID, "2024-06-01").AvailableCount)
	assert.Equal(t, 1, env.day(roomTypeID, "2024-06-02").AvailableCount)
	assert.Equal(t, 1, env.day(roomTypeID, "2024-06-03").AvailableCount)
	// check-out day is not an occupied night
	assert.Equal(t, 3, env.day(roomTypeID, "2024-06-04").AvailableCount)
}

func TestReserveRangeAllOrNothingOnShortDay(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-04", 3)

	// drain the middle night only
	require.NoError(t, env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-02"), date("2024-06-03"), 3))

	err := env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 1)
	var insufficient domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, roomTypeID.Hex(), insufficient.RoomTypeID)
	require.Len(t, insufficient.Dates, 1)
	assert.Equal(t, date("2024-06-02"), insufficient.Dates[0])

	// the nights before and after the short one kept their full stock
	assert.Equal(t, 3, env.day(roomTypeID, "2024-06-01").AvailableCount)
	assert.Equal(t, 3, env.day(roomTypeID, "2024-06-03").AvailableCount)
}

func TestReserveRangeMissingDateFailsWholeRange(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-03", 3)

	err := env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-05"), 1)
	var missing domain.MissingInventoryError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Dates, 2)

	assert.Equal(t, 3, env.day(roomTypeID, "2024-06-01").AvailableCount)
	assert.Equal(t, 3, env.day(roomTypeID, "2024-06-02").AvailableCount)
}

func TestReserveRangeRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)

	var vErr domain.ValidationError
	err := env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-03"), date("2024-06-01"), 1)
	require.ErrorAs(t, err, &vErr)

	err = env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-03"), 0)
	require.ErrorAs(t, err, &vErr)

	err = env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-03"), -2)
	require.ErrorAs(t, err, &vErr)
}

func TestReleaseRangeRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-04", 4)

	require.NoError(t, env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 2))
	require.NoError(t, env.inventory.ReleaseRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 2))

	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		assert.Equal(t, 4, env.day(roomTypeID, d).AvailableCount, d)
	}
}

func TestReleaseRangeClampsAtLoweredCeiling(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-02", 5)

	require.NoError(t, env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"), 4))

	// ceiling drops to 2 while 4 rooms are out; available floors at 0
	_, err := env.inventory.SeedRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"), 2)
	require.NoError(t, err)

	// releasing the 4 rooms back must not overshoot the new ceiling
	require.NoError(t, env.inventory.ReleaseRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-02"), 4))
	day := env.day(roomTypeID, "2024-06-01")
	assert.Equal(t, 2, day.TotalStock)
	assert.Equal(t, 2, day.AvailableCount)
}

func TestCheckAvailabilityReportsRangeMinimum(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-04", 5)
	require.NoError(t, env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-02"), date("2024-06-03"), 3))

	avail, err := env.inventory.CheckAvailability(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 2)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 2, avail.MinRoomsAvailable)

	avail, err = env.inventory.CheckAvailability(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 3)
	require.NoError(t, err)
	assert.False(t, avail.Available)
}

func TestCheckAvailabilityUnseededDatesAreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-03", 5)

	avail, err := env.inventory.CheckAvailability(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-05"), 1)
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, 0, avail.MinRoomsAvailable)
}

// Hammers one date range from many goroutines and checks the ledger
// invariants afterwards: counts never negative, never above the ceiling,
// and successful reservations exactly account for the missing rooms.
func TestReserveRangeConcurrentNeverOversells(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-06", 10)

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-06"), 1)
			if err == nil {
				mu.Lock()
				reserved++
				mu.Unlock()
				return
			}
			var insufficient domain.InsufficientStockError
			if !errors.As(err, &insufficient) {
				t.Errorf("unexpected reserve error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, reserved)
	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05"} {
		day := env.day(roomTypeID, d)
		assert.Equal(t, 0, day.AvailableCount, d)
		assert.GreaterOrEqual(t, day.AvailableCount, 0, d)
		assert.LessOrEqual(t, day.AvailableCount, day.TotalStock, d)
	}
}

func TestReserveReleaseConcurrentRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	roomTypeID := env.addRoomType(100, 2)
	env.seed(roomTypeID, "2024-06-01", "2024-06-04", 20)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := env.inventory.ReserveRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 1); err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			if err := env.inventory.ReleaseRange(context.Background(), roomTypeID, date("2024-06-01"), date("2024-06-04"), 1); err != nil {
				t.Errorf("release: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		assert.Equal(t, 20, env.day(roomTypeID, d).AvailableCount, d)
	}
}
