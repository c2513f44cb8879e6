package handler

import (
    "errors"   // errors.Is comparisons
    "net/http" // HTTP status codes
    "strings"  // input normalization
    "time"     // timestamp parsing

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/model"
    "github.com/iliyamo/flight-seat-reservation/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage the
// catalogue: airports, aircraft types and flights. Role enforcement
// happens in middleware; these handlers assume an ADMIN caller.
type AdminHandler struct {
    Airports *repository.AirportRepo
    Aircraft *repository.AircraftRepo
    Flights  *repository.FlightRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(airports *repository.AirportRepo, aircraft *repository.AircraftRepo, flights *repository.FlightRepo) *AdminHandler {
    if airports == nil || aircraft == nil || flights == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Airports: airports, Aircraft: aircraft, Flights: flights}
}

type createAirportReq struct {
    Name     string `json:"name"`
    Code     string `json:"code"`      // IATA code, stored upper-case
    TimeZone string `json:"time_zone"` // IANA zone name, e.g. Pacific/Auckland
}

// CreateAirport handles POST /v1/admin/airports.
func (h *AdminHandler) CreateAirport(c echo.Context) error {
    var req createAirportReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
    req.TimeZone = strings.TrimSpace(req.TimeZone)
    if req.Name == "" || req.Code == "" || req.TimeZone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, code and time_zone are required"})
    }
    if len(req.Code) != 3 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code must be a 3-letter IATA code"})
    }
    if _, err := time.LoadLocation(req.TimeZone); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "time_zone must be a valid IANA zone"})
    }

    a := &model.Airport{Name: req.Name, Code: req.Code, TimeZone: req.TimeZone}
    if err := h.Airports.Create(c.Request().Context(), a); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "airport code already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create airport"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": a})
}

type zoneReq struct {
    CabinClass  string `json:"cabin_class"`
    FirstRow    int    `json:"first_row"`
    LastRow     int    `json:"last_row"`
    SeatsPerRow int    `json:"seats_per_row"`
}

type createAircraftReq struct {
    Name  string    `json:"name"`
    Zones []zoneReq `json:"zones"`
}

// CreateAircraftType handles POST /v1/admin/aircraft-types. Zones must
// not overlap: each row of the aircraft belongs to at most one cabin
// class.
func (h *AdminHandler) CreateAircraftType(c echo.Context) error {
    var req createAircraftReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if len(req.Zones) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seating zone is required"})
    }

    zones := make([]model.SeatingZone, 0, len(req.Zones))
    rowTaken := make(map[int]struct{})
    for _, z := range req.Zones {
        class := strings.ToUpper(strings.TrimSpace(z.CabinClass))
        if !flight.ValidCabinClass(class) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin_class: " + z.CabinClass})
        }
        if z.FirstRow < 1 || z.LastRow < z.FirstRow {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row range"})
        }
        if z.SeatsPerRow < 1 || z.SeatsPerRow > 26 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats_per_row must be between 1 and 26"})
        }
        for row := z.FirstRow; row <= z.LastRow; row++ {
            if _, taken := rowTaken[row]; taken {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "seating zones overlap"})
            }
            rowTaken[row] = struct{}{}
        }
        zones = append(zones, model.SeatingZone{
            CabinClass:  class,
            FirstRow:    z.FirstRow,
            LastRow:     z.LastRow,
            SeatsPerRow: z.SeatsPerRow,
        })
    }

    t := &model.AircraftType{Name: req.Name}
    if err := h.Aircraft.Create(c.Request().Context(), t, zones); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "aircraft type already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create aircraft type"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "item":  t,
        "zones": zones,
    })
}

type pricingReq struct {
    CabinClass string `json:"cabin_class"`
    Price      int    `json:"price"`
}

type createFlightReq struct {
    Name                 string       `json:"name"`
    OriginAirportID      uint64       `json:"origin_airport_id"`
    DestinationAirportID uint64       `json:"destination_airport_id"`
    AircraftTypeID       uint64       `json:"aircraft_type_id"`
    DepartureTime        time.Time    `json:"departure_time"`
    ArrivalTime          time.Time    `json:"arrival_time"`
    Pricings             []pricingReq `json:"pricings"`
}

// CreateFlight handles POST /v1/admin/flights. Referenced airports and
// aircraft type must exist and the arrival must follow the departure.
func (h *AdminHandler) CreateFlight(c echo.Context) error {
    var req createFlightReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if req.OriginAirportID == 0 || req.DestinationAirportID == 0 || req.AircraftTypeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin_airport_id, destination_airport_id and aircraft_type_id are required"})
    }
    if req.OriginAirportID == req.DestinationAirportID {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
    }
    if req.DepartureTime.IsZero() || req.ArrivalTime.IsZero() || !req.ArrivalTime.After(req.DepartureTime) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be after departure_time"})
    }

    ctx := c.Request().Context()
    if _, err := h.Airports.GetByID(ctx, req.OriginAirportID); err != nil {
        if errors.Is(err, repository.ErrAirportNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin airport not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if _, err := h.Airports.GetByID(ctx, req.DestinationAirportID); err != nil {
        if errors.Is(err, repository.ErrAirportNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "destination airport not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if _, err := h.Aircraft.GetLayout(ctx, req.AircraftTypeID); err != nil {
        if errors.Is(err, repository.ErrAircraftTypeNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "aircraft type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    pricings := make([]model.SeatPricing, 0, len(req.Pricings))
    seen := make(map[string]struct{})
    for _, p := range req.Pricings {
        class := strings.ToUpper(strings.TrimSpace(p.CabinClass))
        if !flight.ValidCabinClass(class) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin_class: " + p.CabinClass})
        }
        if p.Price < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
        }
        if _, dup := seen[class]; dup {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate pricing for " + class})
        }
        seen[class] = struct{}{}
        pricings = append(pricings, model.SeatPricing{CabinClass: class, Price: p.Price})
    }

    f := &model.Flight{
        Name:                 req.Name,
        OriginAirportID:      req.OriginAirportID,
        DestinationAirportID: req.DestinationAirportID,
        AircraftTypeID:       req.AircraftTypeID,
        DepartureTime:        req.DepartureTime.UTC(),
        ArrivalTime:          req.ArrivalTime.UTC(),
    }
    if err := h.Flights.Create(ctx, f, pricings); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "flight name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create flight"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": f})
}
