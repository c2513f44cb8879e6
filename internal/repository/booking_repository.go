package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
)

// BookingRepo provides persistence for bookings and their seats.
// Bookings group together one or more seats for a particular flight and
// user; the seats live in the booking_seats table. All timestamp fields
// are stored in UTC.
//
// The write methods are Tx-scoped: the inventory store calls them
// inside the transaction that forms a flight's exclusive-access window,
// so the database commit and the in-memory aggregate mutation agree.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin a
// transaction spanning booking writes.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking and all of its seats within the scope of
// an existing transaction. It populates the generated ID on the given
// booking. The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *flight.Booking) error {
    const q = `INSERT INTO bookings (user_id, flight_id) VALUES (?, ?)`
    res, err := tx.ExecContext(ctx, q, b.UserID, b.FlightID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)

    // Bulk insert the seats in a single statement. The UNIQUE
    // (flight_id, seat_code) index is the database-side backstop for
    // the disjointness invariant the aggregate already enforces.
    query := `INSERT INTO booking_seats (booking_id, flight_id, seat_code, price) VALUES `
    args := make([]interface{}, 0, len(b.Seats)*4)
    for i, s := range b.Seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, b.ID, b.FlightID, s.Code, s.Price)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        if isDuplicateKey(err) {
            return flight.ErrSeatAlreadyBooked
        }
        return err
    }
    return nil
}

// Create persists a booking and its seats in a single transaction.
func (r *BookingRepo) Create(ctx context.Context, b *flight.Booking) error {
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
    if err := r.CreateTx(ctx, tx, b); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// DeleteTx removes a booking and its seats within the scope of an
// existing transaction. Deleting an absent booking is a no-op.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
    if _, err := tx.ExecContext(ctx, `DELETE FROM booking_seats WHERE booking_id = ?`, bookingID); err != nil {
        return err
    }
    _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
    return err
}

// Delete removes a booking and its seats in a single transaction.
func (r *BookingRepo) Delete(ctx context.Context, bookingID uint64) error {
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
    if err := r.DeleteTx(ctx, tx, bookingID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// LoadByFlight rebuilds the booking aggregates of one flight from the
// database. It is used by the inventory store the first time a flight
// is checked out after startup.
func (r *BookingRepo) LoadByFlight(ctx context.Context, flightID uint64) ([]*flight.Booking, error) {
    const q = `SELECT b.id, b.user_id, bs.seat_code, bs.price
               FROM bookings b
               JOIN booking_seats bs ON bs.booking_id = b.id
               WHERE b.flight_id = ?
               ORDER BY b.id, bs.id`
    rows, err := r.db.QueryContext(ctx, q, flightID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var (
        out []*flight.Booking
        cur *flight.Booking
    )
    for rows.Next() {
        var (
            id, userID uint64
            code       string
            price      int
        )
        if err := rows.Scan(&id, &userID, &code, &price); err != nil {
            return nil, err
        }
        if cur == nil || cur.ID != id {
            cur = &flight.Booking{ID: id, UserID: userID, FlightID: flightID}
            out = append(out, cur)
        }
        cur.Seats = append(cur.Seats, flight.Seat{Code: code, Price: price})
    }
    return out, rows.Err()
}

// BookingDetail encapsulates a booking along with the flight information
// needed to display it to its owner.
type BookingDetail struct {
    ID            uint64        `json:"id"`
    FlightID      uint64        `json:"flight_id"`
    FlightName    string        `json:"flight_name"`
    Origin        string        `json:"origin"`
    Destination   string        `json:"destination"`
    DepartureTime time.Time     `json:"departure_time"`
    ArrivalTime   time.Time     `json:"arrival_time"`
    TotalPrice    int           `json:"total_price"`
    Seats         []flight.Seat `json:"seats"`
}

const bookingDetailSelect = `SELECT b.id, b.flight_id, f.name, o.name, d.name, f.departure_time, f.arrival_time
    FROM bookings b
    JOIN flights f  ON f.id = b.flight_id
    JOIN airports o ON o.id = f.origin_airport_id
    JOIN airports d ON d.id = f.destination_airport_id`

// ListByUser returns all bookings made by the given user, sorted by the
// flight's departure time in ascending order.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = bookingDetailSelect + `
    WHERE b.user_id = ?
    ORDER BY f.departure_time ASC, b.id ASC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]BookingDetail, 0)
    for rows.Next() {
        var det BookingDetail
        if err := rows.Scan(&det.ID, &det.FlightID, &det.FlightName, &det.Origin, &det.Destination,
            &det.DepartureTime, &det.ArrivalTime); err != nil {
            return nil, err
        }
        out = append(out, det)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    for i := range out {
        if err := r.fillSeats(ctx, &out[i]); err != nil {
            return nil, err
        }
    }
    return out, nil
}

// GetByIDForUser returns a single booking owned by the given user. When
// no such booking exists (or it belongs to someone else) sql.ErrNoRows
// is returned.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
    const q = bookingDetailSelect + `
    WHERE b.id = ? AND b.user_id = ?`
    var det BookingDetail
    err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &det.ID, &det.FlightID, &det.FlightName, &det.Origin, &det.Destination,
        &det.DepartureTime, &det.ArrivalTime,
    )
    if err != nil {
        return nil, err
    }
    if err := r.fillSeats(ctx, &det); err != nil {
        return nil, err
    }
    return &det, nil
}

// OwnerOf returns the user id owning a booking, or sql.ErrNoRows when
// the booking does not exist.
func (r *BookingRepo) OwnerOf(ctx context.Context, bookingID uint64) (userID, flightID uint64, err error) {
    err = r.db.QueryRowContext(ctx,
        `SELECT user_id, flight_id FROM bookings WHERE id = ?`, bookingID).Scan(&userID, &flightID)
    return userID, flightID, err
}

// fillSeats populates the seat list and total price of a detail row.
// Ordering by row id keeps output deterministic.
func (r *BookingRepo) fillSeats(ctx context.Context, det *BookingDetail) error {
    const q = `SELECT seat_code, price FROM booking_seats WHERE booking_id = ? ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, det.ID)
    if err != nil {
        return err
    }
    defer rows.Close()

    det.Seats = det.Seats[:0]
    det.TotalPrice = 0
    for rows.Next() {
        var s flight.Seat
        if err := rows.Scan(&s.Code, &s.Price); err != nil {
            return err
        }
        det.Seats = append(det.Seats, s)
        det.TotalPrice += s.Price
    }
    return rows.Err()
}
