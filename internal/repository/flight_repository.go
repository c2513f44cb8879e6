// Package repository: this file defines persistence for flights and
// their per-cabin-class seat pricing. A flight references an origin and
// destination airport plus the aircraft type operating it; absence of a
// pricing row for a cabin class means seats of that class price at 0.
package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/model"
)

// FlightRepo manages persistence for flights and seat pricings.
type FlightRepo struct {
    db *sql.DB
}

// NewFlightRepo constructs a FlightRepo with the given DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
    return &FlightRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *FlightRepo) DB() *sql.DB {
    return r.db
}

// Create inserts a flight together with its seat pricings in a single
// transaction. A duplicate flight name yields ErrConflict.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight, pricings []model.SeatPricing) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const q = `INSERT INTO flights (name, origin_airport_id, destination_airport_id, aircraft_type_id, departure_time, arrival_time)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, f.Name, f.OriginAirportID, f.DestinationAirportID, f.AircraftTypeID,
        f.DepartureTime.UTC(), f.ArrivalTime.UTC())
    if err != nil {
        if isDuplicateKey(err) {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    f.ID = uint64(id)

    const pq = `INSERT INTO seat_pricings (flight_id, cabin_class, price) VALUES (?, ?, ?)`
    for i := range pricings {
        pricings[i].FlightID = f.ID
        if _, err := tx.ExecContext(ctx, pq, f.ID, pricings[i].CabinClass, pricings[i].Price); err != nil {
            return err
        }
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID retrieves a flight row by id. It returns the shared domain
// sentinel flight.ErrFlightNotFound when no row exists, so callers and
// the subscription dispatcher observe the same error kind.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
    const q = `SELECT id, name, origin_airport_id, destination_airport_id, aircraft_type_id, departure_time, arrival_time, created_at
               FROM flights WHERE id = ?`
    var f model.Flight
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &f.ID, &f.Name, &f.OriginAirportID, &f.DestinationAirportID, &f.AircraftTypeID,
        &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, flight.ErrFlightNotFound
        }
        return nil, err
    }
    return &f, nil
}

// GetPricings loads the per-cabin-class price table of a flight.
func (r *FlightRepo) GetPricings(ctx context.Context, flightID uint64) (map[flight.CabinClass]int, error) {
    const q = `SELECT cabin_class, price FROM seat_pricings WHERE flight_id = ?`
    rows, err := r.db.QueryContext(ctx, q, flightID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    prices := make(map[flight.CabinClass]int)
    for rows.Next() {
        var (
            class string
            price int
        )
        if err := rows.Scan(&class, &price); err != nil {
            return nil, err
        }
        prices[flight.CabinClass(class)] = price
    }
    return prices, rows.Err()
}
