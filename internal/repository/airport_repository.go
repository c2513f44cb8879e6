// Package repository contains data access logic separated from HTTP
// handlers. This file defines repository methods for airports. Airports
// are referenced by flights as origin and destination; their IANA time
// zone is used when interpreting departure-date searches.
package repository

import (
    "context"      // context allows passing deadlines and cancellation signals to DB operations
    "database/sql" // sql provides generic database operations and drivers
    "errors"       // errors is used to define custom error values
    "strings"

    "github.com/iliyamo/flight-seat-reservation/internal/model"
)

// ErrAirportNotFound is returned when no airport matches a lookup.
var ErrAirportNotFound = errors.New("airport not found")

// AirportRepo encapsulates all database queries related to airports.
type AirportRepo struct {
    db *sql.DB // db is the underlying database connection pool
}

// NewAirportRepo constructs an AirportRepo with the provided DB handle.
func NewAirportRepo(db *sql.DB) *AirportRepo {
    return &AirportRepo{db: db}
}

// Create inserts a new airport. On success the airport's ID field is
// populated with the auto-generated value. The IATA code is stored
// upper-case; a duplicate code yields ErrConflict.
func (r *AirportRepo) Create(ctx context.Context, a *model.Airport) error {
    a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
    const q = "INSERT INTO airports (name, code, time_zone) VALUES (?, ?, ?)"
    res, err := r.db.ExecContext(ctx, q, a.Name, a.Code, a.TimeZone)
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
    a.ID = uint64(id)

    // Follow-up SELECT to populate the default timestamp field.
    const sel = "SELECT created_at FROM airports WHERE id = ?"
    return r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt)
}

// GetByID fetches an airport by its ID. It returns ErrAirportNotFound
// if no row is found.
func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (*model.Airport, error) {
    const q = "SELECT id, name, code, time_zone, created_at FROM airports WHERE id = ?"
    var a model.Airport
    if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Code, &a.TimeZone, &a.CreatedAt); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrAirportNotFound
        }
        return nil, err
    }
    return &a, nil
}

// FindByQuery resolves a user-supplied airport query the same way
// flight search does: a case-insensitive substring match on the name or
// an exact match on the IATA code. The first match wins; it returns
// ErrAirportNotFound when nothing matches.
func (r *AirportRepo) FindByQuery(ctx context.Context, query string) (*model.Airport, error) {
    query = strings.ToLower(strings.TrimSpace(query))
    const q = `SELECT id, name, code, time_zone, created_at FROM airports
               WHERE LOWER(name) LIKE ? OR LOWER(code) = ?
               ORDER BY id LIMIT 1`
    var a model.Airport
    err := r.db.QueryRowContext(ctx, q, "%"+query+"%", query).Scan(&a.ID, &a.Name, &a.Code, &a.TimeZone, &a.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrAirportNotFound
        }
        return nil, err
    }
    return &a, nil
}

// Search lists airports matching the query by name substring or exact
// code, ordered by name. An empty query lists all airports.
func (r *AirportRepo) Search(ctx context.Context, query string) ([]model.Airport, error) {
    query = strings.ToLower(strings.TrimSpace(query))
    const q = `SELECT id, name, code, time_zone, created_at FROM airports
               WHERE ? = '' OR LOWER(name) LIKE ? OR LOWER(code) = ?
               ORDER BY name ASC`
    rows, err := r.db.QueryContext(ctx, q, query, "%"+query+"%", query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Airport, 0)
    for rows.Next() {
        var a model.Airport
        if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.TimeZone, &a.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
