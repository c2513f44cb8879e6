package flight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-reservation/internal/flight"
)

// testLayout is a small two-class aircraft: business rows 1-4 with four
// seats per row, economy rows 10-30 with six seats per row.
func testLayout() *flight.AircraftLayout {
	return &flight.AircraftLayout{
		Name: "Test Widebody",
		Zones: []flight.SeatingZone{
			{Class: flight.Business, FirstRow: 1, LastRow: 4, SeatsPerRow: 4},
			{Class: flight.Economy, FirstRow: 10, LastRow: 30, SeatsPerRow: 6},
		},
	}
}

func TestClassify(t *testing.T) {
	l := testLayout()

	class, err := l.Classify("2C")
	require.NoError(t, err)
	assert.Equal(t, flight.Business, class)

	class, err = l.Classify("12A")
	require.NoError(t, err)
	assert.Equal(t, flight.Economy, class)

	// Structurally valid but outside every zone.
	_, err = l.Classify("5A")
	assert.ErrorIs(t, err, flight.ErrUnknownSeat)
	_, err = l.Classify("31A")
	assert.ErrorIs(t, err, flight.ErrUnknownSeat)

	// Row inside a zone but the letter exceeds the zone width.
	_, err = l.Classify("2E")
	assert.ErrorIs(t, err, flight.ErrUnknownSeat)
	_, err = l.Classify("12G")
	assert.ErrorIs(t, err, flight.ErrUnknownSeat)

	// Malformed codes keep their own error kind.
	_, err = l.Classify("12a")
	assert.ErrorIs(t, err, flight.ErrInvalidSeatCode)
}

func TestSeatCounts(t *testing.T) {
	l := testLayout()
	assert.Equal(t, 16, l.ZoneSeatCount(flight.Business))
	assert.Equal(t, 126, l.ZoneSeatCount(flight.Economy))
	assert.Equal(t, 0, l.ZoneSeatCount(flight.First))
	assert.Equal(t, 142, l.TotalSeats())
}

func TestValidCabinClass(t *testing.T) {
	assert.True(t, flight.ValidCabinClass("ECONOMY"))
	assert.True(t, flight.ValidCabinClass("FIRST"))
	assert.False(t, flight.ValidCabinClass("economy"))
	assert.False(t, flight.ValidCabinClass("COACH"))
	assert.False(t, flight.ValidCabinClass(""))
}
