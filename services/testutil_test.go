package services

import (
	"context"
	"io"
	"log"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
	"booking-service/events"
)

// memDB backs the in-memory store fakes. It mimics the storage contract the
// mongo repositories provide: per-row conditional writes plus transactions
// that roll everything back on error.
type memDB struct {
	mu        sync.Mutex
	days      map[string]*domain.RoomInventoryDay
	bookings  map[primitive.ObjectID]*domain.Booking
	refs      map[string]primitive.ObjectID
	roomTypes map[primitive.ObjectID]*domain.RoomType
	rates     map[string]float64
	units     map[primitive.ObjectID]*domain.RoomUnit
	history   []*domain.UnitStatusChange
}

func newMemDB() *memDB {
	return &memDB{
		days:      make(map[string]*domain.RoomInventoryDay),
		bookings:  make(map[primitive.ObjectID]*domain.Booking),
		refs:      make(map[string]primitive.ObjectID),
		roomTypes: make(map[primitive.ObjectID]*domain.RoomType),
		rates:     make(map[string]float64),
		units:     make(map[primitive.ObjectID]*domain.RoomUnit),
	}
}

func dayKey(roomTypeID primitive.ObjectID, date time.Time) string {
	return roomTypeID.Hex() + "|" + domain.DateKey(date)
}

func (db *memDB) snapshot() *memDB {
	clone := newMemDB()
	for k, v := range db.days {
		d := *v
		clone.days[k] = &d
	}
	for k, v := range db.bookings {
		b := *v
		clone.bookings[k] = &b
	}
	for k, v := range db.refs {
		clone.refs[k] = v
	}
	for k, v := range db.roomTypes {
		rt := *v
		clone.roomTypes[k] = &rt
	}
	for k, v := range db.rates {
		clone.rates[k] = v
	}
	for k, v := range db.units {
		u := *v
		clone.units[k] = &u
	}
	clone.history = append(clone.history, db.history...)
	return clone
}

func (db *memDB) restore(snap *memDB) {
	db.days = snap.days
	db.bookings = snap.bookings
	db.refs = snap.refs
	db.roomTypes = snap.roomTypes
	db.rates = snap.rates
	db.units = snap.units
	db.history = snap.history
}

type txKey struct{}

// memTxRunner serializes transactions on one mutex and restores a snapshot
// when the unit of work fails, so aborted operations leave no side effects.
type memTxRunner struct {
	db   *memDB
	txMu sync.Mutex
}

func (tr *memTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	tr.txMu.Lock()
	defer tr.txMu.Unlock()

	tr.db.mu.Lock()
	snap := tr.db.snapshot()
	tr.db.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		tr.db.mu.Lock()
		tr.db.restore(snap)
		tr.db.mu.Unlock()
	}
	return err
}

type memInventoryStore struct {
	db *memDB
}

func (s *memInventoryStore) DaysInRange(_ context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) ([]*domain.RoomInventoryDay, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var days []*domain.RoomInventoryDay
	for _, day := range s.db.days {
		if day.RoomTypeID != roomTypeID {
			continue
		}
		if day.Date.Before(domain.DateOnly(checkIn)) || !day.Date.Before(domain.DateOnly(checkOut)) {
			continue
		}
		d := *day
		days = append(days, &d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

func (s *memInventoryStore) DecrementDay(_ context.Context, roomTypeID primitive.ObjectID, date time.Time, qty int, version int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	day, ok := s.db.days[dayKey(roomTypeID, date)]
	if !ok || day.Version != version || day.AvailableCount < qty {
		return false, nil
	}
	day.AvailableCount -= qty
	day.Version++
	return true, nil
}

func (s *memInventoryStore) IncrementDayClamped(_ context.Context, roomTypeID primitive.ObjectID, date time.Time, qty int, version int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	day, ok := s.db.days[dayKey(roomTypeID, date)]
	if !ok || day.Version != version {
		return false, nil
	}
	day.AvailableCount += qty
	if day.AvailableCount > day.TotalStock {
		day.AvailableCount = day.TotalStock
	}
	day.Version++
	return true, nil
}

func (s *memInventoryStore) InsertDay(_ context.Context, day *domain.RoomInventoryDay) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := dayKey(day.RoomTypeID, day.Date)
	if _, exists := s.db.days[key]; exists {
		return domain.ErrDuplicateInventory()
	}
	d := *day
	d.Date = domain.DateOnly(d.Date)
	s.db.days[key] = &d
	return nil
}

func (s *memInventoryStore) UpdateDayStock(_ context.Context, roomTypeID primitive.ObjectID, date time.Time, totalStock, availableCount int, version int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	day, ok := s.db.days[dayKey(roomTypeID, date)]
	if !ok || day.Version != version {
		return false, nil
	}
	day.TotalStock = totalStock
	day.AvailableCount = availableCount
	day.Version++
	return true, nil
}

type memBookingStore struct {
	db *memDB
}

func (s *memBookingStore) Insert(_ context.Context, booking *domain.Booking) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.refs[booking.Reference]; exists {
		return domain.ErrDuplicateReference()
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	b := *booking
	s.db.bookings[booking.ID] = &b
	s.db.refs[booking.Reference] = booking.ID
	return nil
}

func (s *memBookingStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	booking, ok := s.db.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound()
	}
	b := *booking
	return &b, nil
}

func (s *memBookingStore) GetByGuest(_ context.Context, guestID string) (domain.Bookings, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var bookings domain.Bookings
	for _, booking := range s.db.bookings {
		if booking.GuestID == guestID {
			b := *booking
			bookings = append(bookings, &b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CheckInDate.Before(bookings[j].CheckInDate) })
	return bookings, nil
}

func (s *memBookingStore) UpdateWithStatus(_ context.Context, booking *domain.Booking, expected domain.BookingStatus) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.bookings[booking.ID]
	if !ok || existing.Status != expected {
		return false, nil
	}
	b := *booking
	s.db.bookings[booking.ID] = &b
	return true, nil
}

type memCatalogStore struct {
	db *memDB
}

func (s *memCatalogStore) GetRoomType(_ context.Context, id primitive.ObjectID) (*domain.RoomType, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	roomType, ok := s.db.roomTypes[id]
	if !ok {
		return nil, domain.ErrRoomTypeNotFound()
	}
	rt := *roomType
	return &rt, nil
}

func (s *memCatalogStore) RatesInRange(_ context.Context, roomTypeID primitive.ObjectID, checkIn, checkOut time.Time) (map[string]float64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	overrides := make(map[string]float64)
	_ = domain.EachNight(checkIn, checkOut, func(date time.Time) error {
		if price, ok := s.db.rates[dayKey(roomTypeID, date)]; ok {
			overrides[domain.DateKey(date)] = price
		}
		return nil
	})
	return overrides, nil
}

func (s *memCatalogStore) UpsertDailyRate(_ context.Context, rate *domain.DailyRate) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.rates[dayKey(rate.RoomTypeID, rate.Date)] = rate.Price
	return nil
}

type memUnitStore struct {
	db *memDB
}

func (s *memUnitStore) Insert(_ context.Context, unit *domain.RoomUnit) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.units {
		if existing.RoomNumber == unit.RoomNumber {
			return domain.ErrDuplicateRoomUnit()
		}
	}
	if unit.ID.IsZero() {
		unit.ID = primitive.NewObjectID()
	}
	u := *unit
	s.db.units[unit.ID] = &u
	return nil
}

func (s *memUnitStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RoomUnit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	unit, ok := s.db.units[id]
	if !ok {
		return nil, domain.ErrRoomUnitNotFound()
	}
	u := *unit
	return &u, nil
}

func (s *memUnitStore) ListByRoomType(_ context.Context, roomTypeID primitive.ObjectID) ([]*domain.RoomUnit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var units []*domain.RoomUnit
	for _, unit := range s.db.units {
		if unit.RoomTypeID == roomTypeID {
			u := *unit
			units = append(units, &u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].RoomNumber < units[j].RoomNumber })
	return units, nil
}

func (s *memUnitStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to domain.UnitStatus) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	unit, ok := s.db.units[id]
	if !ok || unit.Status != from {
		return false, nil
	}
	unit.Status = to
	return true, nil
}

type memHistoryStore struct {
	db *memDB
}

func (s *memHistoryStore) Append(_ context.Context, change *domain.UnitStatusChange) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c := *change
	s.db.history = append(s.db.history, &c)
	return nil
}

func (s *memHistoryStore) ByUnit(_ context.Context, unitID string) ([]*domain.UnitStatusChange, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var changes []*domain.UnitStatusChange
	for _, change := range s.db.history {
		if change.UnitID == unitID {
			c := *change
			changes = append(changes, &c)
		}
	}
	return changes, nil
}

type fakeGuestClient struct {
	exists bool
	err    error
}

func (c *fakeGuestClient) GuestExists(context.Context, string) (bool, error) {
	return c.exists, c.err
}

type fakePaymentClient struct {
	paid bool
	err  error
}

func (c *fakePaymentClient) PaymentSucceeded(context.Context, string) (bool, error) {
	return c.paid, c.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, event *events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type testEnv struct {
	t         *testing.T
	db        *memDB
	tx        *memTxRunner
	inventory InventoryService
	rates     RateService
	units     RoomUnitService
	bookings  BookingService
	guest     *fakeGuestClient
	payment   *fakePaymentClient
	publisher *recordingPublisher
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	db := newMemDB()
	tx := &memTxRunner{db: db}
	logger := log.New(io.Discard, "", 0)
	tracer := trace.NewNoopTracerProvider().Tracer("test")

	env := &testEnv{
		t:         t,
		db:        db,
		tx:        tx,
		guest:     &fakeGuestClient{exists: true},
		payment:   &fakePaymentClient{paid: true},
		publisher: &recordingPublisher{},
		now:       time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
	}

	env.inventory = NewInventoryServiceImpl(&memInventoryStore{db}, tx, logger, tracer)
	env.rates = NewRateServiceImpl(&memCatalogStore{db}, nil, logger, tracer)
	env.units = NewRoomUnitServiceImpl(&memUnitStore{db}, &memHistoryStore{db}, logger, tracer)
	env.bookings = NewBookingServiceImpl(&memBookingStore{db}, env.inventory, env.rates,
		env.units, env.guest, env.payment, env.publisher, tx, 10, logger, tracer)
	env.bookings.(*BookingServiceImpl).now = func() time.Time { return env.now }

	return env
}

func (env *testEnv) addRoomType(basePrice float64, capacity int) primitive.ObjectID {
	id := primitive.NewObjectID()
	env.db.mu.Lock()
	defer env.db.mu.Unlock()
	env.db.roomTypes[id] = &domain.RoomType{
		ID:        id,
		Name:      "Test Room",
		BasePrice: basePrice,
		Capacity:  capacity,
	}
	return id
}

func (env *testEnv) deleteRoomType(id primitive.ObjectID) {
	env.db.mu.Lock()
	defer env.db.mu.Unlock()
	deletedAt := env.now
	env.db.roomTypes[id].DeletedAt = &deletedAt
}

func (env *testEnv) addUnit(roomTypeID primitive.ObjectID, roomNumber string, status domain.UnitStatus) primitive.ObjectID {
	id := primitive.NewObjectID()
	env.db.mu.Lock()
	defer env.db.mu.Unlock()
	env.db.units[id] = &domain.RoomUnit{
		ID:         id,
		RoomTypeID: roomTypeID,
		RoomNumber: roomNumber,
		Floor:      1,
		Status:     status,
	}
	return id
}

func (env *testEnv) seed(roomTypeID primitive.ObjectID, start, end string, totalStock int) {
	_, err := env.inventory.SeedRange(context.Background(), roomTypeID, date(start), date(end), totalStock)
	require.NoError(env.t, err)
}

func (env *testEnv) day(roomTypeID primitive.ObjectID, on string) *domain.RoomInventoryDay {
	env.db.mu.Lock()
	defer env.db.mu.Unlock()
	day, ok := env.db.days[dayKey(roomTypeID, date(on))]
	require.True(env.t, ok, "no inventory row for %s", on)
	d := *day
	return &d
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
