// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a seat booking is successfully
// made. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64   `json:"booking_id"`
    UserID      uint64   `json:"user_id"`
    FlightID    uint64   `json:"flight_id"`
    FlightName  string   `json:"flight_name"`
    Origin      string   `json:"origin"`
    Destination string   `json:"destination"`
    DepartsAt   string   `json:"departs_at"`
    SeatCodes   []string `json:"seats"`
    TotalPrice  int      `json:"total_price"`
    ConfirmedAt string   `json:"confirmed_at"`
}
