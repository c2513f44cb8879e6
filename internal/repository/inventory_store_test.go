package repository

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/model"
    "github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

type fakeFlights struct {
    rows   map[uint64]*model.Flight
    prices map[uint64]map[flight.CabinClass]int
}

func (f *fakeFlights) GetByID(_ context.Context, id uint64) (*model.Flight, error) {
    row, ok := f.rows[id]
    if !ok {
        return nil, flight.ErrFlightNotFound
    }
    return row, nil
}

func (f *fakeFlights) GetPricings(_ context.Context, flightID uint64) (map[flight.CabinClass]int, error) {
    return f.prices[flightID], nil
}

type fakeLayouts struct {
    layouts map[uint64]*flight.AircraftLayout
}

func (f *fakeLayouts) GetLayout(_ context.Context, id uint64) (*flight.AircraftLayout, error) {
    l, ok := f.layouts[id]
    if !ok {
        return nil, ErrAircraftTypeNotFound
    }
    return l, nil
}

// fakeBookings is an in-memory BookingWriter. failCreate forces the
// next Create to fail so rollback behaviour can be observed.
type fakeBookings struct {
    mu         sync.Mutex
    nextID     uint64
    rows       map[uint64]*flight.Booking
    failCreate bool
}

func newFakeBookings() *fakeBookings {
    return &fakeBookings{nextID: 1, rows: make(map[uint64]*flight.Booking)}
}

func (f *fakeBookings) Create(_ context.Context, b *flight.Booking) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    if f.failCreate {
        return errors.New("simulated write failure")
    }
    b.ID = f.nextID
    f.nextID++
    cp := *b
    cp.Seats = append([]flight.Seat(nil), b.Seats...)
    f.rows[b.ID] = &cp
    return nil
}

func (f *fakeBookings) Delete(_ context.Context, bookingID uint64) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    delete(f.rows, bookingID)
    return nil
}

func (f *fakeBookings) LoadByFlight(_ context.Context, flightID uint64) ([]*flight.Booking, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []*flight.Booking
    for _, b := range f.rows {
        if b.FlightID == flightID {
            cp := *b
            out = append(out, &cp)
        }
    }
    return out, nil
}

func (f *fakeBookings) OwnerOf(_ context.Context, bookingID uint64) (uint64, uint64, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    b, ok := f.rows[bookingID]
    if !ok {
        return 0, 0, errors.New("no rows")
    }
    return b.UserID, b.FlightID, nil
}

func (f *fakeBookings) count() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return len(f.rows)
}

const testFlightID = 7

func newTestStore() (*InventoryStore, *fakeBookings) {
    layout := &flight.AircraftLayout{
        Name: "ATR-72",
        Zones: []flight.SeatingZone{
            {Class: flight.Business, FirstRow: 1, LastRow: 2, SeatsPerRow: 2},
            {Class: flight.Economy, FirstRow: 10, LastRow: 12, SeatsPerRow: 4},
        },
    }
    flights := &fakeFlights{
        rows: map[uint64]*model.Flight{
            testFlightID: {ID: testFlightID, Name: "NZ0005", AircraftTypeID: 3},
        },
        prices: map[uint64]map[flight.CabinClass]int{
            testFlightID: {flight.Business: 900, flight.Economy: 250},
        },
    }
    layouts := &fakeLayouts{layouts: map[uint64]*flight.AircraftLayout{3: layout}}
    bookings := newFakeBookings()
    return NewInventoryStore(flights, layouts, bookings), bookings
}

func TestReserveAndPersist(t *testing.T) {
    store, bookings := newTestStore()

    b, err := store.Reserve(context.Background(), 42, testFlightID, []string{"10A", "10B"})
    require.NoError(t, err)
    assert.NotZero(t, b.ID)
    assert.Equal(t, 500, b.Price())
    assert.Equal(t, 1, bookings.count())

    remaining, err := store.SeatsRemaining(context.Background(), testFlightID, nil)
    require.NoError(t, err)
    assert.Equal(t, 14, remaining)
}

func TestReserveConcurrentDisjointSeats(t *testing.T) {
    store, bookings := newTestStore()

    codes := []string{"10A", "10B", "10C", "10D", "11A", "11B", "11C", "11D", "12A", "12B", "12C", "12D"}
    var wg sync.WaitGroup
    errs := make([]error, len(codes))
    for i, code := range codes {
        wg.Add(1)
        go func(i int, code string) {
            defer wg.Done()
            _, errs[i] = store.Reserve(context.Background(), uint64(100+i), testFlightID, []string{code})
        }(i, code)
    }
    wg.Wait()

    for i, err := range errs {
        assert.NoError(t, err, "seat %s", codes[i])
    }
    assert.Equal(t, len(codes), bookings.count())

    remaining, err := store.SeatsRemaining(context.Background(), testFlightID, nil)
    require.NoError(t, err)
    assert.Equal(t, 4, remaining) // only business left
}

func TestReserveContentionExactlyOneWins(t *testing.T) {
    store, _ := newTestStore()

    const attempts = 16
    var wg sync.WaitGroup
    errs := make([]error, attempts)
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = store.Reserve(context.Background(), uint64(i+1), testFlightID, []string{"1A"})
        }(i)
    }
    wg.Wait()

    wins := 0
    for _, err := range errs {
        if err == nil {
            wins++
        } else {
            assert.ErrorIs(t, err, flight.ErrSeatAlreadyBooked)
        }
    }
    assert.Equal(t, 1, wins)
}

func TestReservePersistFailureRollsBack(t *testing.T) {
    store, bookings := newTestStore()
    bookings.failCreate = true

    _, err := store.Reserve(context.Background(), 1, testFlightID, []string{"10A"})
    require.Error(t, err)
    assert.Equal(t, 0, bookings.count())

    // The seat must still be reservable once the write path recovers.
    bookings.failCreate = false
    _, err = store.Reserve(context.Background(), 1, testFlightID, []string{"10A"})
    assert.NoError(t, err)
}

func TestCancelBooking(t *testing.T) {
    store, bookings := newTestStore()

    b, err := store.Reserve(context.Background(), 42, testFlightID, []string{"2B"})
    require.NoError(t, err)

    _, err = store.CancelBooking(context.Background(), 99, b.ID)
    assert.ErrorIs(t, err, ErrForbidden)

    flightID, err := store.CancelBooking(context.Background(), 42, b.ID)
    require.NoError(t, err)
    assert.Equal(t, uint64(testFlightID), flightID)
    assert.Equal(t, 0, bookings.count())

    _, err = store.CancelBooking(context.Background(), 42, b.ID)
    assert.ErrorIs(t, err, ErrBookingNotFound)

    // Seat is free again.
    _, err = store.Reserve(context.Background(), 7, testFlightID, []string{"2B"})
    assert.NoError(t, err)
}

func TestSeatsRemainingUnknownFlight(t *testing.T) {
    store, _ := newTestStore()
    _, err := store.SeatsRemaining(context.Background(), 9999, nil)
    assert.ErrorIs(t, err, flight.ErrFlightNotFound)
}

func TestLoadRestoresPersistedBookings(t *testing.T) {
    store, bookings := newTestStore()
    bookings.rows[5] = &flight.Booking{
        ID: 5, UserID: 11, FlightID: testFlightID,
        Seats: []flight.Seat{{Code: "10A", Price: 250}, {Code: "10B", Price: 250}},
    }
    bookings.nextID = 6

    remaining, err := store.SeatsRemaining(context.Background(), testFlightID, nil)
    require.NoError(t, err)
    assert.Equal(t, 14, remaining)

    _, err = store.Reserve(context.Background(), 2, testFlightID, []string{"10A"})
    assert.ErrorIs(t, err, flight.ErrSeatAlreadyBooked)
}

func TestGetBookingInfoSnapshot(t *testing.T) {
    store, _ := newTestStore()
    _, err := store.Reserve(context.Background(), 1, testFlightID, []string{"1A", "10D"})
    require.NoError(t, err)

    info, err := store.GetBookingInfo(context.Background(), testFlightID)
    require.NoError(t, err)
    assert.Equal(t, "ATR-72", info.AircraftType)
    assert.Equal(t, 14, info.SeatsRemaining)
    assert.ElementsMatch(t, []string{"1A", "10D"}, info.BookedSeats)

    require.Len(t, info.Zones, 2)
    assert.Equal(t, flight.Business, info.Zones[0].CabinClass)
    assert.Equal(t, 900, info.Zones[0].Price)
    assert.Equal(t, 3, info.Zones[0].SeatsRemaining)
    assert.Equal(t, 11, info.Zones[1].SeatsRemaining)
}

// A watcher on a full cabin class must be woken when a cancellation
// frees enough seats.
func TestCancelWakesSubscriber(t *testing.T) {
    store, _ := newTestStore()

    // Fill business completely.
    var bookingID uint64
    for i, code := range []string{"1A", "1B", "2A", "2B"} {
        b, err := store.Reserve(context.Background(), uint64(i+1), testFlightID, []string{code})
        require.NoError(t, err)
        if code == "2A" {
            bookingID = b.ID
        }
    }

    registry := subscription.NewRegistry()
    dispatcher := subscription.NewDispatcher(registry, store, 2, 8)
    defer dispatcher.Stop()

    class := flight.Business
    req := subscription.NewRequest(50, testFlightID, 1, &class)
    registry.Add(req)

    // Nothing free yet, so the watch stays pending.
    resolved := dispatcher.EvaluateOne(context.Background(), req)
    assert.False(t, resolved)

    _, err := store.CancelBooking(context.Background(), 3, bookingID)
    require.NoError(t, err)
    dispatcher.NotifyFlightChanged(testFlightID)

    select {
    case outcome := <-req.Reply().Done():
        assert.Equal(t, subscription.Available, outcome)
    case <-time.After(2 * time.Second):
        t.Fatal("subscriber was not woken after cancellation")
    }
    assert.Equal(t, 0, registry.Len())
}
