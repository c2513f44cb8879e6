package flight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-reservation/internal/flight"
)

func TestParseSeatCode(t *testing.T) {
	row, letter, err := flight.ParseSeatCode("12A")
	require.NoError(t, err)
	assert.Equal(t, 12, row)
	assert.Equal(t, byte('A'), letter)

	row, letter, err = flight.ParseSeatCode("100C")
	require.NoError(t, err)
	assert.Equal(t, 100, row)
	assert.Equal(t, byte('C'), letter)

	// Row 0 is structurally valid; whether it exists is the layout's call.
	row, _, err = flight.ParseSeatCode("0B")
	require.NoError(t, err)
	assert.Equal(t, 0, row)
}

func TestParseSeatCodeRejectsMalformed(t *testing.T) {
	for _, code := range []string{"", "12", "12a", "A12", "B", "-1A", "1.5A", "12AB", "12 A"} {
		_, _, err := flight.ParseSeatCode(code)
		assert.ErrorIs(t, err, flight.ErrInvalidSeatCode, "code %q should be rejected", code)
	}
}
