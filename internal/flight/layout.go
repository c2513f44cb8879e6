package flight

import "errors"

// ErrUnknownSeat is returned when a seat code is structurally valid but
// no seating zone of the aircraft covers it, either because the row is
// outside every zone or because the letter exceeds the zone's width.
var ErrUnknownSeat = errors.New("seat not present on aircraft")

// CabinClass is a fare/seating category.  Cabin classes determine both
// the zone a seat belongs to and the per-seat price on a flight.
type CabinClass string

// The cabin classes recognised by the service.  These values are stored
// verbatim in the seat_pricings and seating_zones tables.
const (
    Economy        CabinClass = "ECONOMY"
    PremiumEconomy CabinClass = "PREMIUM_ECONOMY"
    Business       CabinClass = "BUSINESS"
    First          CabinClass = "FIRST"
)

// ValidCabinClass reports whether s names one of the recognised cabin
// classes.  Handlers use it to reject unknown class filters before they
// reach the domain.
func ValidCabinClass(s string) bool {
    switch CabinClass(s) {
    case Economy, PremiumEconomy, Business, First:
        return true
    }
    return false
}

// SeatingZone is a contiguous range of rows on an aircraft type, all
// belonging to one cabin class.  Rows FirstRow..LastRow are inclusive
// and each row holds SeatsPerRow seats lettered from 'A'.
type SeatingZone struct {
    Class       CabinClass // cabin class of every seat in the zone
    FirstRow    int        // first row of the zone (inclusive)
    LastRow     int        // last row of the zone (inclusive)
    SeatsPerRow int        // seats per row, lettered 'A'..('A'+SeatsPerRow-1)
}

// Contains reports whether the given row/letter pair falls inside this
// zone.
func (z SeatingZone) Contains(row int, letter byte) bool {
    if row < z.FirstRow || row > z.LastRow {
        return false
    }
    return int(letter-'A') < z.SeatsPerRow
}

// NumSeats returns the total number of seats in the zone.
func (z SeatingZone) NumSeats() int {
    return (z.LastRow - z.FirstRow + 1) * z.SeatsPerRow
}

// AircraftLayout is the static seating description of an aircraft type.
// It is immutable after construction; repositories build one per
// aircraft type from the seating_zones table and share it between all
// flights operating that type.
type AircraftLayout struct {
    Name  string        // aircraft type name, e.g. "Boeing 787-9"
    Zones []SeatingZone // seating zones; row ranges do not overlap
}

// Classify parses the given seat code and returns the cabin class of
// the zone covering it.  It returns ErrInvalidSeatCode for malformed
// codes and ErrUnknownSeat for well-formed codes that no zone covers.
func (l *AircraftLayout) Classify(code string) (CabinClass, error) {
    row, letter, err := ParseSeatCode(code)
    if err != nil {
        return "", err
    }
    for _, z := range l.Zones {
        if z.Contains(row, letter) {
            return z.Class, nil
        }
    }
    return "", ErrUnknownSeat
}

// ZoneSeatCount returns the total number of seats of the given cabin
// class across all zones.  A class with no zones has zero seats.
func (l *AircraftLayout) ZoneSeatCount(class CabinClass) int {
    total := 0
    for _, z := range l.Zones {
        if z.Class == class {
            total += z.NumSeats()
        }
    }
    return total
}

// TotalSeats returns the number of seats on the aircraft, summed over
// all zones.
func (l *AircraftLayout) TotalSeats() int {
    total := 0
    for _, z := range l.Zones {
        total += z.NumSeats()
    }
    return total
}
