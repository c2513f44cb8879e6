package model

import "time"

// Airport represents a row in the `airports` table.  Airports are
// referenced by flights as origin and destination, and their IANA time
// zone is used to interpret departure-date searches in local time.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – full airport name, e.g. "Auckland International Airport".
//  Code      – three-letter IATA code, stored upper-case.
//  TimeZone  – IANA zone name, e.g. "Pacific/Auckland".
//  CreatedAt – timestamp when the airport was created.
type Airport struct {
    ID        uint64    // airports.id
    Name      string    // airports.name
    Code      string    // airports.code
    TimeZone  string    // airports.time_zone
    CreatedAt time.Time // airports.created_at
}
