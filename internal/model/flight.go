package model

import "time"

// Flight represents a row in the `flights` table: one scheduled flight
// identified by an airline code such as "NZ-103", between two airports,
// operated by a particular aircraft type.  Departure and arrival times
// are stored in UTC.
//
// Fields:
//  ID                   – primary key identifier.
//  Name                 – airline flight code, e.g. "NZ-103".
//  OriginAirportID      – airport the flight departs from.
//  DestinationAirportID – airport the flight arrives at.
//  AircraftTypeID       – aircraft type operating the flight.
//  DepartureTime        – departure time in UTC.
//  ArrivalTime          – arrival time in UTC.
//  CreatedAt            – timestamp when the flight was created.
type Flight struct {
    ID                   uint64    // flights.id
    Name                 string    // flights.name
    OriginAirportID      uint64    // flights.origin_airport_id
    DestinationAirportID uint64    // flights.destination_airport_id
    AircraftTypeID       uint64    // flights.aircraft_type_id
    DepartureTime        time.Time // flights.departure_time
    ArrivalTime          time.Time // flights.arrival_time
    CreatedAt            time.Time // flights.created_at
}

// SeatPricing represents a row in the `seat_pricings` table: the
// per-seat price of one cabin class on one flight.  A cabin class with
// no row prices at 0 and implicitly has no seats of that class for
// sale.
//
// Fields:
//  FlightID   – flight the price applies to.
//  CabinClass – cabin class name.
//  Price      – per-seat price in currency minor units.
type SeatPricing struct {
    FlightID   uint64 // seat_pricings.flight_id
    CabinClass string // seat_pricings.cabin_class
    Price      int    // seat_pricings.price
}
