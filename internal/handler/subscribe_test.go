package handler_test

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
    "github.com/iliyamo/flight-seat-reservation/internal/handler"
    "github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

// seatTable is a FlightSource backed by a plain map, safe for
// concurrent reads and updates.
type seatTable struct {
    mu    sync.Mutex
    seats map[uint64]int
}

func (s *seatTable) SeatsRemaining(_ context.Context, flightID uint64, _ *flight.CabinClass) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    n, ok := s.seats[flightID]
    if !ok {
        return 0, flight.ErrFlightNotFound
    }
    return n, nil
}

func (s *seatTable) set(flightID uint64, n int) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.seats[flightID] = n
}

func newSubscribeFixture(t *testing.T, seats map[uint64]int) (*handler.SubscribeHandler, *subscription.Registry, *subscription.Dispatcher, *seatTable) {
    t.Helper()
    source := &seatTable{seats: seats}
    registry := subscription.NewRegistry()
    dispatcher := subscription.NewDispatcher(registry, source, 2, 8)
    t.Cleanup(dispatcher.Stop)
    return handler.NewSubscribeHandler(registry, dispatcher), registry, dispatcher, source
}

func subscribeCtx(e *echo.Echo, flightID, userID string, body string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodPost, "/v1/flights/"+flightID+"/subscribe", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/flights/:id/subscribe")
    c.SetParamNames("id")
    c.SetParamValues(flightID)
    c.Set("user_id", userID)
    return c, rec
}

func TestSubscribeAnswersImmediatelyWhenSatisfiable(t *testing.T) {
    h, registry, _, _ := newSubscribeFixture(t, map[uint64]int{7: 3})
    e := echo.New()

    c, rec := subscribeCtx(e, "7", "42", `{"num_seats": 2}`)
    require.NoError(t, h.Subscribe(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.Equal(t, 0, registry.Len())
}

func TestSubscribeUnknownFlightAnswers404(t *testing.T) {
    h, registry, _, _ := newSubscribeFixture(t, map[uint64]int{})
    e := echo.New()

    c, rec := subscribeCtx(e, "99", "42", `{"num_seats": 1}`)
    require.NoError(t, h.Subscribe(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Equal(t, 0, registry.Len())
}

func TestSubscribeParksUntilFlightChanges(t *testing.T) {
    h, registry, dispatcher, source := newSubscribeFixture(t, map[uint64]int{7: 1})
    e := echo.New()

    c, rec := subscribeCtx(e, "7", "42", `{"num_seats": 4}`)
    done := make(chan error, 1)
    go func() { done <- h.Subscribe(c) }()

    // The watch must stay parked while seats are short.
    time.Sleep(100 * time.Millisecond)
    select {
    case <-done:
        t.Fatal("subscribe answered before seats were available")
    default:
    }
    assert.Equal(t, 1, registry.Len())

    source.set(7, 4)
    dispatcher.NotifyFlightChanged(7)

    select {
    case err := <-done:
        require.NoError(t, err)
    case <-time.After(2 * time.Second):
        t.Fatal("subscribe did not answer after seats freed up")
    }
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.Equal(t, 0, registry.Len())
}

func TestSubscribeValidation(t *testing.T) {
    h, _, _, _ := newSubscribeFixture(t, map[uint64]int{7: 3})
    e := echo.New()

    c, rec := subscribeCtx(e, "7", "42", `{"num_seats": 0}`)
    require.NoError(t, h.Subscribe(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = subscribeCtx(e, "7", "42", `{"num_seats": 1, "cabin_class": "STEERAGE"}`)
    require.NoError(t, h.Subscribe(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = subscribeCtx(e, "0", "42", `{"num_seats": 1}`)
    require.NoError(t, h.Subscribe(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
