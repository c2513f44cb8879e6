package model

import "time"

// Booking records a user's reservation of one or more seats on a
// flight.  The seats themselves live in booking_seats; both sides are
// written in a single transaction so a booking is never visible without
// its seats.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who made the booking.
//  FlightID   – flight the seats are booked on.
//  PaymentRef – external payment reference, if any.
//  CreatedAt  – creation timestamp.
type Booking struct {
    ID         uint64    // bookings.id
    UserID     uint64    // bookings.user_id
    FlightID   uint64    // bookings.flight_id
    PaymentRef *string   // bookings.payment_ref (nullable)
    CreatedAt  time.Time // bookings.created_at
}

// BookingSeat represents a row in the `booking_seats` table: one seat
// reserved under a booking, with the price it was sold at.  Seat codes
// are unique per flight across all bookings.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking the seat belongs to.
//  FlightID  – denormalized flight id enforcing per-flight seat uniqueness.
//  SeatCode  – seat code, e.g. "12A".
//  Price     – price in currency minor units.
type BookingSeat struct {
    ID        uint64 // booking_seats.id
    BookingID uint64 // booking_seats.booking_id
    FlightID  uint64 // booking_seats.flight_id
    SeatCode  string // booking_seats.seat_code
    Price     int    // booking_seats.price
}
