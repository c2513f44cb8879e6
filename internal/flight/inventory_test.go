package flight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-reservation/internal/flight"
)

func testInventory() *flight.Inventory {
	return flight.NewInventory(1, testLayout(), map[flight.CabinClass]int{
		flight.Business: 90000,
		flight.Economy:  25000,
	})
}

func TestReserve(t *testing.T) {
	inv := testInventory()

	b, err := inv.Reserve(7, []string{"12A", "12B"})
	require.NoError(t, err)
	require.Len(t, b.Seats, 2)
	assert.Equal(t, uint64(7), b.UserID)
	assert.Equal(t, uint64(1), b.FlightID)
	assert.Equal(t, 50000, b.Price())
	assert.ElementsMatch(t, []string{"12A", "12B"}, b.SeatCodes())

	booked := inv.BookedSeats()
	assert.Contains(t, booked, "12A")
	assert.Contains(t, booked, "12B")
	assert.Equal(t, 140, inv.SeatsRemaining())
	assert.Equal(t, 124, inv.SeatsRemainingIn(flight.Economy))
	assert.Equal(t, 16, inv.SeatsRemainingIn(flight.Business))
}

func TestReserveConflicts(t *testing.T) {
	inv := testInventory()

	_, err := inv.Reserve(1, []string{"12A"})
	require.NoError(t, err)

	// Booking the same seat again fails.
	_, err = inv.Reserve(2, []string{"12A"})
	assert.ErrorIs(t, err, flight.ErrSeatAlreadyBooked)

	// A partially conflicting request fails atomically: 12B must not be
	// booked on the side.
	_, err = inv.Reserve(2, []string{"12B", "12A"})
	assert.ErrorIs(t, err, flight.ErrSeatAlreadyBooked)
	_, ok := inv.BookedSeats()["12B"]
	assert.False(t, ok, "failed reservation must not book any of its seats")
	assert.Equal(t, 141, inv.SeatsRemaining())
}

func TestReserveValidation(t *testing.T) {
	inv := testInventory()

	_, err := inv.Reserve(1, nil)
	assert.ErrorIs(t, err, flight.ErrEmptyBooking)
	_, err = inv.Reserve(1, []string{})
	assert.ErrorIs(t, err, flight.ErrEmptyBooking)

	for _, code := range []string{"", "12", "12a", "A12"} {
		_, err = inv.Reserve(1, []string{code})
		assert.ErrorIs(t, err, flight.ErrInvalidSeatCode, "code %q", code)
	}

	// Well-formed but not on this aircraft.
	_, err = inv.Reserve(1, []string{"99A"})
	assert.ErrorIs(t, err, flight.ErrUnknownSeat)

	// A single bad code poisons the whole request.
	_, err = inv.Reserve(1, []string{"12A", "bogus"})
	assert.ErrorIs(t, err, flight.ErrInvalidSeatCode)
	assert.Empty(t, inv.BookedSeats())
}

func TestReserveCollapsesDuplicateCodes(t *testing.T) {
	inv := testInventory()

	b, err := inv.Reserve(1, []string{"12A", "12A"})
	require.NoError(t, err)
	assert.Len(t, b.Seats, 1)
}

func TestPricingDefaultsToZero(t *testing.T) {
	// No price entry for economy: its seats sell at 0.
	inv := flight.NewInventory(1, testLayout(), map[flight.CabinClass]int{
		flight.Business: 90000,
	})
	b, err := inv.Reserve(1, []string{"12A"})
	require.NoError(t, err)
	assert.Equal(t, 0, b.Price())
	assert.Equal(t, 0, inv.PriceFor(flight.Economy))
	assert.Equal(t, 90000, inv.PriceFor(flight.Business))
}

func TestCancel(t *testing.T) {
	inv := testInventory()

	b, err := inv.Reserve(1, []string{"1A", "1B"})
	require.NoError(t, err)
	assert.Equal(t, 140, inv.SeatsRemaining())

	inv.Cancel(b)
	assert.Equal(t, 142, inv.SeatsRemaining())
	assert.Empty(t, inv.BookedSeats())

	// Cancelling an already-removed booking is a no-op, not an error.
	inv.Cancel(b)
	assert.Equal(t, 142, inv.SeatsRemaining())

	// The freed seats can be booked again.
	_, err = inv.Reserve(2, []string{"1A"})
	require.NoError(t, err)
}

func TestRestoreAndBookingByID(t *testing.T) {
	inv := testInventory()
	inv.Restore(&flight.Booking{ID: 42, UserID: 9, FlightID: 1, Seats: []flight.Seat{{Code: "2A", Price: 90000}}})

	require.NotNil(t, inv.BookingByID(42))
	assert.Nil(t, inv.BookingByID(43))
	assert.Equal(t, 141, inv.SeatsRemaining())
	assert.Equal(t, 15, inv.SeatsRemainingIn(flight.Business))
}
