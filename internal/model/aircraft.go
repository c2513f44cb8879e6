package model

// AircraftType represents a row in the `aircraft_types` table.  The
// seating description lives in the related seating_zones rows; the
// repository assembles both into a flight.AircraftLayout.
//
// Fields:
//  ID   – primary key identifier.
//  Name – aircraft type name, unique, e.g. "Boeing 787-9".
type AircraftType struct {
    ID   uint64 // aircraft_types.id
    Name string // aircraft_types.name
}

// SeatingZone represents a row in the `seating_zones` table: one
// contiguous block of rows on an aircraft type, all of one cabin class.
//
// Fields:
//  ID             – primary key identifier.
//  AircraftTypeID – aircraft type this zone belongs to.
//  CabinClass     – cabin class name (ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST).
//  FirstRow       – first row of the zone, inclusive.
//  LastRow        – last row of the zone, inclusive.
//  SeatsPerRow    – seats per row, lettered from 'A'.
type SeatingZone struct {
    ID             uint64 // seating_zones.id
    AircraftTypeID uint64 // seating_zones.aircraft_type_id
    CabinClass     string // seating_zones.cabin_class
    FirstRow       int    // seating_zones.first_row
    LastRow        int    // seating_zones.last_row
    SeatsPerRow    int    // seating_zones.seats_per_row
}
