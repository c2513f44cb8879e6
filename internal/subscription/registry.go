// Package subscription implements the availability-subscription core: a
// registry of outstanding "tell me when N seats free up" requests and the
// background dispatcher that resolves them when flight inventory changes.
package subscription

import (
    "sync"

    "github.com/google/uuid"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
)

// Outcome is the terminal result delivered through a reply handle.
type Outcome int

const (
    // Available means the requested number of seats is now free.
    Available Outcome = iota
    // NotFound means the target flight does not exist (or vanished);
    // the waiter is released with an error signal.
    NotFound
)

// Reply is a one-shot sink for a subscription outcome.  Resolve may be
// called from any goroutine; only the first call delivers, every later
// call is a silent no-op.  The waiting side receives the outcome from
// Done exactly once.
type Reply struct {
    once sync.Once
    ch   chan Outcome
}

// NewReply returns an unresolved reply handle.
func NewReply() *Reply {
    // Buffer of one so Resolve never blocks on a slow or absent reader.
    return &Reply{ch: make(chan Outcome, 1)}
}

// Resolve delivers the outcome.  At most one call has any effect.
func (r *Reply) Resolve(o Outcome) {
    r.once.Do(func() { r.ch <- o })
}

// Done returns the channel the outcome is delivered on.
func (r *Reply) Done() <-chan Outcome {
    return r.ch
}

// Request is one outstanding availability subscription: which user wants
// how many seats on which flight, optionally restricted to a cabin
// class, plus the reply handle used exactly once to deliver the result.
// Identity is the request object itself; the same user may hold several
// subscriptions for the same flight.
type Request struct {
    ID       uuid.UUID          // for logging/tracing only
    UserID   uint64             // subscribing user
    FlightID uint64             // target flight
    NumSeats int                // desired seat count, positive
    Class    *flight.CabinClass // nil means any cabin class
    reply    *Reply
}

// NewRequest builds a subscription request with a fresh reply handle.
func NewRequest(userID, flightID uint64, numSeats int, class *flight.CabinClass) *Request {
    return &Request{
        ID:       uuid.New(),
        UserID:   userID,
        FlightID: flightID,
        NumSeats: numSeats,
        Class:    class,
        reply:    NewReply(),
    }
}

// Reply returns the request's reply handle.
func (r *Request) Reply() *Reply {
    return r.reply
}

// Registry holds all unresolved subscription requests.  A single mutex
// guards the storage; it is held only for the duration of one map
// operation, never across a notification scan.
type Registry struct {
    mu   sync.Mutex
    subs map[*Request]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
    return &Registry{subs: make(map[*Request]struct{})}
}

// Add inserts a request.  There is no uniqueness constraint beyond
// object identity.
func (reg *Registry) Add(req *Request) {
    reg.mu.Lock()
    defer reg.mu.Unlock()
    reg.subs[req] = struct{}{}
}

// Remove deletes a request without resolving it, e.g. when the waiting
// client disconnects.  Removing an absent request is a no-op.
func (reg *Registry) Remove(req *Request) {
    reg.mu.Lock()
    defer reg.mu.Unlock()
    delete(reg.subs, req)
}

// Take removes the request and reports whether it was still present.
// Removal is the commit point for resolution: of all concurrent
// evaluators, exactly the one whose Take returns true may invoke the
// reply handle.
func (reg *Registry) Take(req *Request) bool {
    reg.mu.Lock()
    defer reg.mu.Unlock()
    if _, ok := reg.subs[req]; !ok {
        return false
    }
    delete(reg.subs, req)
    return true
}

// ForFlight returns a snapshot of all current requests targeting the
// given flight.  Adds and removes made after the snapshot is taken are
// not reflected.
func (reg *Registry) ForFlight(flightID uint64) []*Request {
    reg.mu.Lock()
    defer reg.mu.Unlock()
    out := make([]*Request, 0)
    for req := range reg.subs {
        if req.FlightID == flightID {
            out = append(out, req)
        }
    }
    return out
}

// Len returns the number of unresolved requests.
func (reg *Registry) Len() int {
    reg.mu.Lock()
    defer reg.mu.Unlock()
    return len(reg.subs)
}
