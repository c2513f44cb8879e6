package flight

import "errors"

// Domain failures reported by Inventory.Reserve.  ErrInvalidSeatCode and
// ErrUnknownSeat (seatcode.go, layout.go) complete the set.
var (
    // ErrEmptyBooking is returned when a reservation requests zero seats.
    ErrEmptyBooking = errors.New("cannot make a booking for 0 seats")
    // ErrSeatAlreadyBooked is returned when any requested seat is already
    // part of an existing booking on the flight.  The reservation fails as
    // a whole; no subset of the requested seats is booked.
    ErrSeatAlreadyBooked = errors.New("one or more seats are already booked")
    // ErrFlightNotFound is returned by inventory lookups for flight ids
    // that do not exist.  Pending subscriptions observing it are resolved
    // with a terminal NotFound outcome.
    ErrFlightNotFound = errors.New("flight not found")
)

// Seat is a single booked seat: its code and the price it was sold at.
// Seats are immutable values owned by the Booking that created them.
type Seat struct {
    Code  string `json:"seat_code"`
    Price int    `json:"price"`
}

// Booking groups the seats reserved together by one user on one flight.
// Bookings are created only through Inventory.Reserve and destroyed only
// through Inventory.Cancel.  The ID is zero until the booking has been
// persisted; the inventory store assigns it after the database commit.
type Booking struct {
    ID       uint64 // assigned on commit
    UserID   uint64 // owning user, lookup only
    FlightID uint64 // owning flight, lookup only
    Seats    []Seat // non-empty; codes unique within the booking
}

// Price returns the total price of the booking, summed over its seats.
func (b *Booking) Price() int {
    total := 0
    for _, s := range b.Seats {
        total += s.Price
    }
    return total
}

// SeatCodes returns the codes of all seats in the booking.
func (b *Booking) SeatCodes() []string {
    codes := make([]string, 0, len(b.Seats))
    for _, s := range b.Seats {
        codes = append(codes, s.Code)
    }
    return codes
}

// Inventory is the aggregate owning one flight's bookings.  It enforces
// the core invariant that booked seat codes are pairwise disjoint across
// bookings and that every booked code exists on the flight's aircraft.
//
// Inventory is NOT safe for concurrent use.  All mutations and the reads
// used to decide conflicts must run inside the per-flight exclusive
// window supplied by the inventory store (see repository.InventoryStore).
type Inventory struct {
    FlightID uint64
    Layout   *AircraftLayout
    // Prices maps cabin class to the per-seat price on this flight.  A
    // class with no entry prices at 0 and implicitly has no seats sold
    // at a nonzero fare.
    Prices   map[CabinClass]int
    bookings []*Booking
}

// NewInventory builds an empty inventory for the given flight.
func NewInventory(flightID uint64, layout *AircraftLayout, prices map[CabinClass]int) *Inventory {
    if prices == nil {
        prices = map[CabinClass]int{}
    }
    return &Inventory{FlightID: flightID, Layout: layout, Prices: prices}
}

// Restore re-attaches a previously persisted booking to the aggregate.
// It is used by the loader when rebuilding an inventory from the
// database and performs no validation: the rows were validated when the
// booking was originally made.
func (inv *Inventory) Restore(b *Booking) {
    inv.bookings = append(inv.bookings, b)
}

// Bookings returns the current bookings.  The returned slice is a copy;
// the bookings themselves are shared and must not be mutated.
func (inv *Inventory) Bookings() []*Booking {
    out := make([]*Booking, len(inv.bookings))
    copy(out, inv.bookings)
    return out
}

// BookedSeats returns the set of booked seat codes across all bookings,
// computed fresh from the live booking collection.
func (inv *Inventory) BookedSeats() map[string]struct{} {
    booked := make(map[string]struct{})
    for _, b := range inv.bookings {
        for _, s := range b.Seats {
            booked[s.Code] = struct{}{}
        }
    }
    return booked
}

// SeatsRemaining returns the number of unbooked seats on the flight.
func (inv *Inventory) SeatsRemaining() int {
    return inv.Layout.TotalSeats() - len(inv.BookedSeats())
}

// SeatsRemainingIn returns the number of unbooked seats of the given
// cabin class: the class's zone capacity minus the booked codes that
// classify into that class.
func (inv *Inventory) SeatsRemainingIn(class CabinClass) int {
    booked := 0
    for code := range inv.BookedSeats() {
        if c, err := inv.Layout.Classify(code); err == nil && c == class {
            booked++
        }
    }
    return inv.Layout.ZoneSeatCount(class) - booked
}

// PriceFor returns the per-seat price of the given cabin class on this
// flight, defaulting to 0 when the price table has no entry.
func (inv *Inventory) PriceFor(class CabinClass) int {
    return inv.Prices[class]
}

// Reserve attempts to book the given seats for the given user.  Either
// every requested seat is reserved together or none is:
//
//   - ErrEmptyBooking when seatCodes is empty,
//   - ErrInvalidSeatCode / ErrUnknownSeat when any code fails parsing or
//     does not exist on the aircraft,
//   - ErrSeatAlreadyBooked when any code intersects the booked-seat set.
//
// On success the new booking is part of the aggregate and returned with
// a zero ID; the caller persists it, assigns the generated ID, and must
// then trigger notification re-evaluation for this flight.
func (inv *Inventory) Reserve(userID uint64, seatCodes []string) (*Booking, error) {
    if len(seatCodes) == 0 {
        return nil, ErrEmptyBooking
    }

    // Validate every code and resolve its price before touching state.
    // Duplicate codes within one request collapse into a single seat.
    booked := inv.BookedSeats()
    seats := make([]Seat, 0, len(seatCodes))
    seen := make(map[string]struct{}, len(seatCodes))
    for _, code := range seatCodes {
        class, err := inv.Layout.Classify(code)
        if err != nil {
            return nil, err
        }
        if _, dup := seen[code]; dup {
            continue
        }
        seen[code] = struct{}{}
        if _, taken := booked[code]; taken {
            return nil, ErrSeatAlreadyBooked
        }
        seats = append(seats, Seat{Code: code, Price: inv.PriceFor(class)})
    }

    b := &Booking{UserID: userID, FlightID: inv.FlightID, Seats: seats}
    inv.bookings = append(inv.bookings, b)
    return b, nil
}

// Cancel removes the booking from the aggregate, freeing its seats.  It
// is an idempotent no-op when the booking is already absent.  Callers
// must trigger notification re-evaluation after a cancellation commits,
// since freed seats always increase availability.
func (inv *Inventory) Cancel(b *Booking) {
    for i, cur := range inv.bookings {
        if cur == b || (b.ID != 0 && cur.ID == b.ID) {
            inv.bookings = append(inv.bookings[:i], inv.bookings[i+1:]...)
            return
        }
    }
}

// BookingByID returns the booking with the given id, or nil when the
// flight holds no such booking.
func (inv *Inventory) BookingByID(id uint64) *Booking {
    for _, b := range inv.bookings {
        if b.ID == id {
            return b
        }
    }
    return nil
}
