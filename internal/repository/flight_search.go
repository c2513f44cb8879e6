package repository

import (
    "context"
    "strings"
    "time"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
)

// FlightSearchQuery defines filters for searching flights. Origin and
// Destination match airport names by case-insensitive substring or IATA
// codes exactly, mirroring how clients describe airports. When
// DepartureMin/DepartureMax are non-nil the departure time must fall
// inside the window (both bounds in UTC).
type FlightSearchQuery struct {
    Origin       string
    Destination  string
    DepartureMin *time.Time
    DepartureMax *time.Time
}

// FlightRow is the flight representation returned by searches and
// detail lookups: the flight plus the airport and aircraft names a
// client needs to display it.
type FlightRow struct {
    ID              uint64    `json:"id"`
    Name            string    `json:"name"`
    Origin          string    `json:"origin"`
    OriginCode      string    `json:"origin_code"`
    Destination     string    `json:"destination"`
    DestinationCode string    `json:"destination_code"`
    AircraftType    string    `json:"aircraft_type"`
    DepartureTime   time.Time `json:"departure_time"`
    ArrivalTime     time.Time `json:"arrival_time"`
}

const flightRowSelect = `SELECT
        f.id,
        f.name,
        o.name AS origin_name,
        o.code AS origin_code,
        d.name AS destination_name,
        d.code AS destination_code,
        a.name AS aircraft_type,
        f.departure_time,
        f.arrival_time
    FROM flights f
    JOIN airports o       ON o.id = f.origin_airport_id
    JOIN airports d       ON d.id = f.destination_airport_id
    JOIN aircraft_types a ON a.id = f.aircraft_type_id`

// Search finds flights between the queried airports, optionally inside
// a departure window, ordered by departure time ascending.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearchQuery) ([]FlightRow, error) {
    origin := "%" + lower(q.Origin) + "%"
    destination := "%" + lower(q.Destination) + "%"

    sqlText := flightRowSelect + `
    WHERE (LOWER(o.name) LIKE ? OR LOWER(o.code) = ?)
      AND (LOWER(d.name) LIKE ? OR LOWER(d.code) = ?)`
    args := []any{origin, lower(q.Origin), destination, lower(q.Destination)}

    if q.DepartureMin != nil && q.DepartureMax != nil {
        sqlText += `
      AND f.departure_time >= ? AND f.departure_time <= ?`
        args = append(args, q.DepartureMin.UTC(), q.DepartureMax.UTC())
    }
    sqlText += `
    ORDER BY f.departure_time ASC`

    rows, err := r.db.QueryContext(ctx, sqlText, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]FlightRow, 0)
    for rows.Next() {
        var fr FlightRow
        if err := rows.Scan(
            &fr.ID, &fr.Name,
            &fr.Origin, &fr.OriginCode,
            &fr.Destination, &fr.DestinationCode,
            &fr.AircraftType,
            &fr.DepartureTime, &fr.ArrivalTime,
        ); err != nil {
            return nil, err
        }
        out = append(out, fr)
    }
    return out, rows.Err()
}

// GetRow returns the display row for a single flight, or
// flight.ErrFlightNotFound via GetByID semantics when absent.
func (r *FlightRepo) GetRow(ctx context.Context, id uint64) (*FlightRow, error) {
    rows, err := r.db.QueryContext(ctx, flightRowSelect+` WHERE f.id = ?`, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    if !rows.Next() {
        if err := rows.Err(); err != nil {
            return nil, err
        }
        return nil, flight.ErrFlightNotFound
    }
    var fr FlightRow
    if err := rows.Scan(
        &fr.ID, &fr.Name,
        &fr.Origin, &fr.OriginCode,
        &fr.Destination, &fr.DestinationCode,
        &fr.AircraftType,
        &fr.DepartureTime, &fr.ArrivalTime,
    ); err != nil {
        return nil, err
    }
    return &fr, rows.Err()
}

func lower(s string) string {
    return strings.ToLower(strings.TrimSpace(s))
}
