package handler

import (
    "net/http" // HTTP status codes
    "strings"  // cabin class normalization

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

// SubscribeHandler serves seat-availability watches. A subscribe call
// parks the HTTP request until the watched flight can seat the caller,
// so clients long-poll instead of hammering the availability endpoint.
type SubscribeHandler struct {
    Registry   *subscription.Registry
    Dispatcher *subscription.Dispatcher
}

// NewSubscribeHandler constructs a SubscribeHandler; both dependencies
// must be non-nil.
func NewSubscribeHandler(registry *subscription.Registry, dispatcher *subscription.Dispatcher) *SubscribeHandler {
    if registry == nil || dispatcher == nil {
        panic("nil dependency passed to NewSubscribeHandler")
    }
    return &SubscribeHandler{Registry: registry, Dispatcher: dispatcher}
}

type subscribeReq struct {
    NumSeats   int    `json:"num_seats"`
    CabinClass string `json:"cabin_class"` // optional; empty watches the whole aircraft
}

// Subscribe handles POST /v1/flights/:id/subscribe. The request blocks
// until at least num_seats seats are free on the flight (optionally
// within one cabin class), then answers 204. Unknown flights answer
// 404, either immediately or when the flight disappears while waiting.
// A client that gives up and disconnects is silently deregistered.
func (h *SubscribeHandler) Subscribe(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    flightID, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
    }

    var req subscribeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.NumSeats < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "num_seats must be at least 1"})
    }
    var class *flight.CabinClass
    if s := strings.ToUpper(strings.TrimSpace(req.CabinClass)); s != "" {
        if !flight.ValidCabinClass(s) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin_class"})
        }
        cc := flight.CabinClass(s)
        class = &cc
    }

    sub := subscription.NewRequest(userID, flightID, req.NumSeats, class)
    h.Registry.Add(sub)

    ctx := c.Request().Context()

    // Evaluate once up front so an already-satisfiable watch answers
    // without waiting for the next flight change.
    h.Dispatcher.EvaluateOne(ctx, sub)

    select {
    case outcome := <-sub.Reply().Done():
        if outcome == subscription.NotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
        }
        return c.NoContent(http.StatusNoContent)
    case <-ctx.Done():
        // Client went away; drop the watch if it is still pending.
        h.Registry.Remove(sub)
        return nil
    }
}
