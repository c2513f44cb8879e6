package flight // package flight contains the seat-inventory domain for scheduled flights

import (
    "errors"  // sentinel error values for domain failures
    "strconv" // parsing the numeric row portion of a seat code
)

// ErrInvalidSeatCode is returned when a seat code does not match the
// expected `<row><letter>` format, e.g. "12A" or "100C".  The row must
// parse as a non-negative integer and the trailing character must be a
// single uppercase ASCII letter.
var ErrInvalidSeatCode = errors.New("invalid seat code")

// ParseSeatCode splits a seat code into its row number and seat letter.
// Codes are ASCII strings of the form `^[0-9]+[A-Z]$`.  The function is
// pure and performs no lookups against any aircraft layout; use
// AircraftLayout.Classify to check that a parsed code actually exists
// on a given aircraft.
func ParseSeatCode(code string) (row int, letter byte, err error) {
    // An empty string has neither a row nor a letter.  A single
    // character could only be a letter with no row, which is equally
    // malformed.
    if len(code) < 2 {
        return 0, 0, ErrInvalidSeatCode
    }
    letter = code[len(code)-1]
    if letter < 'A' || letter > 'Z' {
        return 0, 0, ErrInvalidSeatCode
    }
    row, convErr := strconv.Atoi(code[:len(code)-1])
    if convErr != nil || row < 0 {
        return 0, 0, ErrInvalidSeatCode
    }
    return row, letter, nil
}
