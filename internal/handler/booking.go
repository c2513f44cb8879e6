package handler

import (
    "context"      // background context for async event publishing
    "database/sql" // sentinel errors returned from repository
    "errors"       // errors.Is comparisons
    "net/http"     // HTTP status codes
    "strconv"      // Location header formatting
    "strings"      // seat code normalization
    "time"         // event timestamps and publish timeout

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/queue"
    "github.com/iliyamo/flight-seat-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/flight-seat-reservation/internal/service"
    "github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

// BookingHandler serves booking creation, listing and cancellation for
// authenticated customers. Every change to a flight's seat map is
// followed by a dispatcher notification so pending seat watches get
// re-evaluated, and successful bookings are published to the message
// broker for downstream consumers.
type BookingHandler struct {
    Store      *repository.InventoryStore
    Bookings   *repository.BookingRepo
    Flights    *repository.FlightRepo
    Dispatcher *subscription.Dispatcher
}

// NewBookingHandler constructs a BookingHandler; the dispatcher may be
// nil in tests, in which case notifications are skipped.
func NewBookingHandler(store *repository.InventoryStore, bookings *repository.BookingRepo, flights *repository.FlightRepo, dispatcher *subscription.Dispatcher) *BookingHandler {
    if store == nil || bookings == nil || flights == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Store: store, Bookings: bookings, Flights: flights, Dispatcher: dispatcher}
}

type createBookingReq struct {
    FlightID uint64   `json:"flight_id"`
    Seats    []string `json:"seats"`
}

// CreateBooking handles POST /v1/bookings. The body names a flight and
// the seat codes to book. The whole request succeeds or fails as one
// unit: if any seat is invalid or already taken, nothing is booked.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.FlightID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id is required"})
    }
    // Codes pass through untouched: the inventory core owns validation
    // and deliberately rejects lowercase or malformed codes.
    codes := make([]string, 0, len(req.Seats))
    for _, s := range req.Seats {
        if s = strings.TrimSpace(s); s != "" {
            codes = append(codes, s)
        }
    }
    if len(codes) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
    }

    ctx := c.Request().Context()
    b, err := h.Store.Reserve(ctx, userID, req.FlightID, codes)
    if err != nil {
        switch {
        case errors.Is(err, flight.ErrFlightNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
        case errors.Is(err, flight.ErrSeatAlreadyBooked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are already booked"})
        case errors.Is(err, flight.ErrInvalidSeatCode), errors.Is(err, flight.ErrUnknownSeat), errors.Is(err, flight.ErrEmptyBooking):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }

    // Seat map changed: re-evaluate pending watches on this flight.
    if h.Dispatcher != nil {
        h.Dispatcher.NotifyFlightChanged(req.FlightID)
    }
    h.publishConfirmed(b)

    c.Response().Header().Set(echo.HeaderLocation, "/v1/bookings/"+strconv.FormatUint(b.ID, 10))
    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id":  b.ID,
        "flight_id":   b.FlightID,
        "seats":       b.SeatCodes(),
        "total_price": b.Price(),
    })
}

// publishConfirmed emits a BookingConfirmedEvent in the background.
// Broker failures only affect downstream logging, never the booking.
func (h *BookingHandler) publishConfirmed(b *flight.Booking) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()

        ev := queue.BookingConfirmedEvent{
            BookingID:   b.ID,
            UserID:      b.UserID,
            FlightID:    b.FlightID,
            SeatCodes:   b.SeatCodes(),
            TotalPrice:  b.Price(),
            ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
        }
        if row, err := h.Flights.GetRow(ctx, b.FlightID); err == nil {
            ev.FlightName = row.Name
            ev.Origin = row.Origin
            ev.Destination = row.Destination
            ev.DepartsAt = row.DepartureTime.UTC().Format(time.RFC3339)
        }
        _ = queue_publisher.PublishBookingConfirmed(ctx, ev)
    }()
}

// ListBookings handles GET /v1/bookings. Bookings are ordered by the
// flight's departure time, soonest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id. A booking belonging to
// another user reads as not found.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    detail, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// DeleteBooking handles DELETE /v1/bookings/:id. Cancelling frees the
// seats and notifies watchers waiting for availability on that flight.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    flightID, err := h.Store.CancelBooking(c.Request().Context(), userID, id)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete booking"})
    }

    if h.Dispatcher != nil {
        h.Dispatcher.NotifyFlightChanged(flightID)
    }
    return c.NoContent(http.StatusNoContent)
}
