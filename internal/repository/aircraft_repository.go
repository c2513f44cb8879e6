package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/model"
)

// ErrAircraftTypeNotFound is returned when an aircraft type lookup
// matches no row.
var ErrAircraftTypeNotFound = errors.New("aircraft type not found")

// AircraftRepo manages persistence for aircraft types and their seating
// zones, and assembles both into the immutable flight.AircraftLayout
// used by the inventory core.
type AircraftRepo struct {
    db *sql.DB
}

// NewAircraftRepo constructs an AircraftRepo with the given DB handle.
func NewAircraftRepo(db *sql.DB) *AircraftRepo {
    return &AircraftRepo{db: db}
}

// Create inserts an aircraft type together with its seating zones in a
// single transaction; an aircraft type is never visible without its
// zones. A duplicate name yields ErrConflict.
func (r *AircraftRepo) Create(ctx context.Context, t *model.AircraftType, zones []model.SeatingZone) error {
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

    res, err := tx.ExecContext(ctx, "INSERT INTO aircraft_types (name) VALUES (?)", t.Name)
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
    t.ID = uint64(id)

    const zq = `INSERT INTO seating_zones (aircraft_type_id, cabin_class, first_row, last_row, seats_per_row)
                VALUES (?, ?, ?, ?, ?)`
    for i := range zones {
        zones[i].AircraftTypeID = t.ID
        zres, err := tx.ExecContext(ctx, zq, t.ID, zones[i].CabinClass, zones[i].FirstRow, zones[i].LastRow, zones[i].SeatsPerRow)
        if err != nil {
            return err
        }
        zid, err := zres.LastInsertId()
        if err != nil {
            return err
        }
        zones[i].ID = uint64(zid)
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetLayout loads the aircraft type with the given id and builds its
// flight.AircraftLayout from the seating_zones rows. It returns
// ErrAircraftTypeNotFound when the type does not exist.
func (r *AircraftRepo) GetLayout(ctx context.Context, id uint64) (*flight.AircraftLayout, error) {
    var name string
    err := r.db.QueryRowContext(ctx, "SELECT name FROM aircraft_types WHERE id = ?", id).Scan(&name)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrAircraftTypeNotFound
        }
        return nil, err
    }

    const q = `SELECT cabin_class, first_row, last_row, seats_per_row
               FROM seating_zones WHERE aircraft_type_id = ? ORDER BY first_row ASC`
    rows, err := r.db.QueryContext(ctx, q, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    layout := &flight.AircraftLayout{Name: name}
    for rows.Next() {
        var (
            class       string
            first, last int
            perRow      int
        )
        if err := rows.Scan(&class, &first, &last, &perRow); err != nil {
            return nil, err
        }
        layout.Zones = append(layout.Zones, flight.SeatingZone{
            Class:       flight.CabinClass(class),
            FirstRow:    first,
            LastRow:     last,
            SeatsPerRow: perRow,
        })
    }
    return layout, rows.Err()
}
