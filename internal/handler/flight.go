package handler

import (
    "errors"   // errors.Is comparisons against domain sentinels
    "net/http" // HTTP status codes
    "strconv"  // parsing query parameters
    "strings"  // query parameter normalization
    "time"     // departure window arithmetic

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/repository"
)

// FlightHandler serves the public flight catalogue: searching flights,
// fetching details, airport lookups and the seat-availability snapshot
// used when choosing seats. All endpoints are read-only.
type FlightHandler struct {
    Flights  *repository.FlightRepo
    Airports *repository.AirportRepo
    Store    *repository.InventoryStore
}

// NewFlightHandler constructs a FlightHandler; all dependencies must be
// non-nil.
func NewFlightHandler(flights *repository.FlightRepo, airports *repository.AirportRepo, store *repository.InventoryStore) *FlightHandler {
    if flights == nil || airports == nil || store == nil {
        panic("nil dependency passed to NewFlightHandler")
    }
    return &FlightHandler{Flights: flights, Airports: airports, Store: store}
}

// Search handles GET /v1/flights. Origin and destination are required
// and match airport names by substring or codes exactly. An optional
// departureDate (YYYY-MM-DD) narrows results to flights departing that
// day; dayRange widens the window by that many days on either side.
// The date is interpreted in the origin airport's local time zone, so
// "2026-09-01" means that calendar day at the origin, not in UTC.
func (h *FlightHandler) Search(c echo.Context) error {
    origin := strings.TrimSpace(c.QueryParam("origin"))
    destination := strings.TrimSpace(c.QueryParam("destination"))
    if origin == "" || destination == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination are required"})
    }

    q := repository.FlightSearchQuery{Origin: origin, Destination: destination}

    if dateStr := strings.TrimSpace(c.QueryParam("departureDate")); dateStr != "" {
        dayRange := 0
        if rs := strings.TrimSpace(c.QueryParam("dayRange")); rs != "" {
            n, err := strconv.Atoi(rs)
            if err != nil || n < 0 {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dayRange"})
            }
            dayRange = n
        }

        originAirport, err := h.Airports.FindByQuery(c.Request().Context(), origin)
        if err != nil {
            if errors.Is(err, repository.ErrAirportNotFound) {
                // Unknown origin matches no flights.
                return c.JSON(http.StatusOK, echo.Map{"items": []repository.FlightRow{}})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        loc, err := time.LoadLocation(originAirport.TimeZone)
        if err != nil {
            loc = time.UTC
        }
        date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid departureDate, want YYYY-MM-DD"})
        }
        min := date.AddDate(0, 0, -dayRange)
        max := date.AddDate(0, 0, dayRange+1).Add(-time.Second)
        q.DepartureMin = &min
        q.DepartureMax = &max
    }

    items, err := h.Flights.Search(c.Request().Context(), q)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFlight handles GET /v1/flights/:id.
func (h *FlightHandler) GetFlight(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
    }
    row, err := h.Flights.GetRow(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, flight.ErrFlightNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": row})
}

// GetBookingInfo handles GET /v1/flights/:id/booking-info. It returns
// the seating zones with pricing and remaining counts plus all booked
// seat codes, taken as one consistent snapshot.
func (h *FlightHandler) GetBookingInfo(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
    }
    info, err := h.Store.GetBookingInfo(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, flight.ErrFlightNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": info})
}

// ListAirports handles GET /v1/airports. An optional query matches
// airport names by substring or codes exactly; without it all airports
// are listed.
func (h *FlightHandler) ListAirports(c echo.Context) error {
    items, err := h.Airports.Search(c.Request().Context(), c.QueryParam("query"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
