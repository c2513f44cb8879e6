package repository

import (
    "context"
    "errors"
    "sort"
    "sync"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup matches no row
// or the booking belongs to another user.
var ErrBookingNotFound = errors.New("booking not found")

// FlightMetaSource supplies the flight row and its price table.
type FlightMetaSource interface {
    GetByID(ctx context.Context, id uint64) (*model.Flight, error)
    GetPricings(ctx context.Context, flightID uint64) (map[flight.CabinClass]int, error)
}

// LayoutSource supplies the seating layout of an aircraft type.
type LayoutSource interface {
    GetLayout(ctx context.Context, aircraftTypeID uint64) (*flight.AircraftLayout, error)
}

// BookingWriter persists booking aggregates. The inventory store calls
// it while holding a flight's lock, so writes for one flight never
// interleave.
type BookingWriter interface {
    Create(ctx context.Context, b *flight.Booking) error
    Delete(ctx context.Context, bookingID uint64) error
    LoadByFlight(ctx context.Context, flightID uint64) ([]*flight.Booking, error)
    OwnerOf(ctx context.Context, bookingID uint64) (userID, flightID uint64, err error)
}

// InventoryStore owns the in-memory seat inventories and serializes all
// access to them. Each flight has its own lock, so operations on
// different flights proceed in parallel while operations on the same
// flight take turns. Inventories are built lazily from the database the
// first time a flight is touched and kept resident afterwards; the
// database write happens inside the same exclusive window as the
// in-memory mutation, so the two never disagree.
//
// SeatsRemaining makes the store usable as the dispatcher's flight
// source for subscription evaluation.
type InventoryStore struct {
    flights  FlightMetaSource
    layouts  LayoutSource
    bookings BookingWriter

    mu      sync.Mutex // guards entries map only
    entries map[uint64]*inventoryEntry
}

// inventoryEntry pairs one flight's inventory with the lock that
// serializes access to it. inv stays nil until the first load succeeds.
type inventoryEntry struct {
    mu  sync.Mutex
    inv *flight.Inventory
}

// NewInventoryStore constructs an InventoryStore over the given
// persistence sources.
func NewInventoryStore(flights FlightMetaSource, layouts LayoutSource, bookings BookingWriter) *InventoryStore {
    return &InventoryStore{
        flights:  flights,
        layouts:  layouts,
        bookings: bookings,
        entries:  make(map[uint64]*inventoryEntry),
    }
}

// entry returns the lock entry for a flight, creating it on first use.
func (s *InventoryStore) entry(flightID uint64) *inventoryEntry {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.entries[flightID]
    if !ok {
        e = &inventoryEntry{}
        s.entries[flightID] = e
    }
    return e
}

// checkout locks a flight's entry and ensures its inventory is loaded.
// The caller must unlock e.mu when done. On error the entry is already
// unlocked.
func (s *InventoryStore) checkout(ctx context.Context, flightID uint64) (*inventoryEntry, error) {
    e := s.entry(flightID)
    e.mu.Lock()
    if e.inv == nil {
        inv, err := s.load(ctx, flightID)
        if err != nil {
            e.mu.Unlock()
            return nil, err
        }
        e.inv = inv
    }
    return e, nil
}

// load assembles a flight's inventory from its row, the aircraft
// layout, the price table and the existing bookings.
func (s *InventoryStore) load(ctx context.Context, flightID uint64) (*flight.Inventory, error) {
    f, err := s.flights.GetByID(ctx, flightID)
    if err != nil {
        return nil, err
    }
    layout, err := s.layouts.GetLayout(ctx, f.AircraftTypeID)
    if err != nil {
        return nil, err
    }
    prices, err := s.flights.GetPricings(ctx, flightID)
    if err != nil {
        return nil, err
    }
    inv := flight.NewInventory(flightID, layout, prices)
    existing, err := s.bookings.LoadByFlight(ctx, flightID)
    if err != nil {
        return nil, err
    }
    for _, b := range existing {
        inv.Restore(b)
    }
    return inv, nil
}

// Reserve books the requested seats for the user on the given flight.
// Validation, the in-memory mutation and the database write all happen
// under the flight's lock; if the write fails the in-memory booking is
// rolled back, so a failed reservation leaves no trace.
func (s *InventoryStore) Reserve(ctx context.Context, userID, flightID uint64, seatCodes []string) (*flight.Booking, error) {
    e, err := s.checkout(ctx, flightID)
    if err != nil {
        return nil, err
    }
    defer e.mu.Unlock()

    b, err := e.inv.Reserve(userID, seatCodes)
    if err != nil {
        return nil, err
    }
    if err := s.bookings.Create(ctx, b); err != nil {
        e.inv.Cancel(b)
        return nil, err
    }
    return b, nil
}

// CancelBooking deletes a booking owned by the given user, freeing its
// seats. It returns ErrBookingNotFound when the booking does not exist
// and ErrForbidden when it belongs to someone else. The freed flight id
// is returned so the caller can notify subscribers.
func (s *InventoryStore) CancelBooking(ctx context.Context, userID, bookingID uint64) (flightID uint64, err error) {
    owner, flightID, err := s.bookings.OwnerOf(ctx, bookingID)
    if err != nil {
        return 0, ErrBookingNotFound
    }
    if owner != userID {
        return 0, ErrForbidden
    }

    e, err := s.checkout(ctx, flightID)
    if err != nil {
        return 0, err
    }
    defer e.mu.Unlock()

    b := e.inv.BookingByID(bookingID)
    if b == nil {
        // Deleted concurrently between the ownership check and taking
        // the flight lock.
        return 0, ErrBookingNotFound
    }
    if err := s.bookings.Delete(ctx, bookingID); err != nil {
        return 0, err
    }
    e.inv.Cancel(b)
    return flightID, nil
}

// SeatsRemaining reports how many seats are still free on a flight,
// either across the whole aircraft or within one cabin class. It
// returns flight.ErrFlightNotFound for unknown flights, which tells the
// subscription dispatcher to fail the watch rather than keep it.
func (s *InventoryStore) SeatsRemaining(ctx context.Context, flightID uint64, class *flight.CabinClass) (int, error) {
    e, err := s.checkout(ctx, flightID)
    if err != nil {
        return 0, err
    }
    defer e.mu.Unlock()

    if class != nil {
        return e.inv.SeatsRemainingIn(*class), nil
    }
    return e.inv.SeatsRemaining(), nil
}

// ZoneAvailability describes one cabin class of a flight: its seat map
// extent, price and how many of its seats are still free.
type ZoneAvailability struct {
    CabinClass     flight.CabinClass `json:"cabin_class"`
    FirstRow       int               `json:"first_row"`
    LastRow        int               `json:"last_row"`
    SeatsPerRow    int               `json:"seats_per_row"`
    Price          int               `json:"price"`
    SeatsRemaining int               `json:"seats_remaining"`
}

// BookingInfo is the availability snapshot clients use to pick seats:
// the aircraft layout with per-class pricing and remaining counts plus
// the full list of already-booked seat codes.
type BookingInfo struct {
    FlightID       uint64             `json:"flight_id"`
    AircraftType   string             `json:"aircraft_type"`
    SeatsRemaining int                `json:"seats_remaining"`
    Zones          []ZoneAvailability `json:"zones"`
    BookedSeats    []string           `json:"booked_seats"`
}

// GetBookingInfo returns the availability snapshot for a flight. The
// snapshot is consistent: it is taken in one exclusive window, so the
// booked-seat list and the remaining counts always agree.
func (s *InventoryStore) GetBookingInfo(ctx context.Context, flightID uint64) (*BookingInfo, error) {
    e, err := s.checkout(ctx, flightID)
    if err != nil {
        return nil, err
    }
    defer e.mu.Unlock()

    inv := e.inv
    info := &BookingInfo{
        FlightID:       flightID,
        AircraftType:   inv.Layout.Name,
        SeatsRemaining: inv.SeatsRemaining(),
        Zones:          make([]ZoneAvailability, 0, len(inv.Layout.Zones)),
        BookedSeats:    make([]string, 0),
    }
    for _, z := range inv.Layout.Zones {
        info.Zones = append(info.Zones, ZoneAvailability{
            CabinClass:     z.Class,
            FirstRow:       z.FirstRow,
            LastRow:        z.LastRow,
            SeatsPerRow:    z.SeatsPerRow,
            Price:          inv.PriceFor(z.Class),
            SeatsRemaining: inv.SeatsRemainingIn(z.Class),
        })
    }
    for code := range inv.BookedSeats() {
        info.BookedSeats = append(info.BookedSeats, code)
    }
    sort.Strings(info.BookedSeats)
    return info, nil
}
