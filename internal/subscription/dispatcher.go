package subscription

import (
    "context"
    "errors"
    "log"
    "sync"

    "github.com/iliyamo/flight-seat-reservation/internal/flight"
)

// FlightSource is the dispatcher's read-only view of flight inventory.
// SeatsRemaining reports how many unbooked seats the flight currently
// has, restricted to a cabin class when class is non-nil.  It must
// return flight.ErrFlightNotFound for unknown flight ids and must
// observe state at least as fresh as the mutation that triggered the
// evaluation.
type FlightSource interface {
    SeatsRemaining(ctx context.Context, flightID uint64, class *flight.CabinClass) (int, error)
}

// Dispatcher re-evaluates the registry whenever a flight's inventory
// changes, off the mutating caller's path.  A fixed pool of workers
// consumes flight-id events from a buffered channel; each event is one
// re-evaluation pass over that flight's subscriptions.  Two back-to-back
// changes to one flight may coalesce into passes that each observe the
// latest state, which is sufficient: every request satisfiable after the
// last change is resolved by the pass that follows it.
type Dispatcher struct {
    registry *Registry
    source   FlightSource

    events chan uint64
    ctx    context.Context
    cancel context.CancelFunc
    wg     sync.WaitGroup
}

// NewDispatcher builds a dispatcher over the given registry and
// inventory source.  workers is the size of the background pool and
// queueSize the capacity of the event buffer; both must be positive.
// The pool starts immediately; call Stop on shutdown.
func NewDispatcher(registry *Registry, source FlightSource, workers, queueSize int) *Dispatcher {
    ctx, cancel := context.WithCancel(context.Background())
    d := &Dispatcher{
        registry: registry,
        source:   source,
        events:   make(chan uint64, queueSize),
        ctx:      ctx,
        cancel:   cancel,
    }
    d.wg.Add(workers)
    for i := 0; i < workers; i++ {
        go d.worker()
    }
    return d
}

// Stop terminates the worker pool.  In-flight evaluations finish;
// queued events are dropped.  Unresolved subscriptions stay in the
// registry and are torn down by their transport owners.
func (d *Dispatcher) Stop() {
    d.cancel()
    d.wg.Wait()
}

// NotifyFlightChanged schedules an asynchronous re-evaluation of every
// subscription targeting the given flight.  It never blocks the caller:
// when the event buffer is full, the handoff moves to its own goroutine.
// Callers must invoke it only after the inventory mutation has durably
// committed, so that workers observe post-mutation state.
func (d *Dispatcher) NotifyFlightChanged(flightID uint64) {
    select {
    case d.events <- flightID:
    case <-d.ctx.Done():
    default:
        // Buffer full.  The wake-up must not be dropped or a satisfiable
        // subscription could wait forever.
        go func() {
            select {
            case d.events <- flightID:
            case <-d.ctx.Done():
            }
        }()
    }
}

func (d *Dispatcher) worker() {
    defer d.wg.Done()
    for {
        select {
        case <-d.ctx.Done():
            return
        case flightID := <-d.events:
            d.processFlight(d.ctx, flightID)
        }
    }
}

// processFlight runs one evaluation pass over the snapshot of
// subscriptions for a flight, resolving each satisfied entry exactly
// once.
func (d *Dispatcher) processFlight(ctx context.Context, flightID uint64) {
    for _, req := range d.registry.ForFlight(flightID) {
        d.EvaluateOne(ctx, req)
    }
}

// EvaluateOne applies the satisfaction test to a single request and,
// when satisfied, resolves its reply handle and removes it from the
// registry.  It returns true when the request was resolved by this
// call.  Removal via Registry.Take is the commit point, so a request
// evaluated concurrently by the subscribe path and a worker is resolved
// at most once.  It is also invoked synchronously right after subscribe
// so that already-satisfiable requests resolve without waiting for a
// flight change.
func (d *Dispatcher) EvaluateOne(ctx context.Context, req *Request) bool {
    remaining, err := d.source.SeatsRemaining(ctx, req.FlightID, req.Class)
    switch {
    case errors.Is(err, flight.ErrFlightNotFound):
        if d.registry.Take(req) {
            req.Reply().Resolve(NotFound)
            return true
        }
        return false
    case err != nil:
        // Transient failure: leave the request pending, the next flight
        // change re-evaluates it.
        log.Printf("subscription-dispatcher: evaluate %s (flight %d): %v", req.ID, req.FlightID, err)
        return false
    }
    if remaining < req.NumSeats {
        return false
    }
    if d.registry.Take(req) {
        req.Reply().Resolve(Available)
        return true
    }
    return false
}
