package subscription_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-reservation/internal/flight"
	"github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

// fakeSource is an in-memory FlightSource with per-flight seat counts.
type fakeSource struct {
	mu    sync.Mutex
	seats map[uint64]int // whole-flight remaining seats
}

func newFakeSource() *fakeSource {
	return &fakeSource{seats: make(map[uint64]int)}
}

func (f *fakeSource) set(flightID uint64, remaining int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seats[flightID] = remaining
}

func (f *fakeSource) SeatsRemaining(_ context.Context, flightID uint64, _ *flight.CabinClass) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.seats[flightID]
	if !ok {
		return 0, flight.ErrFlightNotFound
	}
	return n, nil
}

func awaitOutcome(t *testing.T, r *subscription.Reply) subscription.Outcome {
	t.Helper()
	select {
	case out := <-r.Done():
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription outcome")
		return 0
	}
}

func TestEvaluateOneResolvesImmediatelySatisfiable(t *testing.T) {
	reg := subscription.NewRegistry()
	src := newFakeSource()
	src.set(10, 3)
	d := subscription.NewDispatcher(reg, src, 2, 8)
	defer d.Stop()

	req := subscription.NewRequest(1, 10, 2, nil)
	reg.Add(req)
	assert.True(t, d.EvaluateOne(context.Background(), req))
	assert.Equal(t, subscription.Available, awaitOutcome(t, req.Reply()))
	assert.Equal(t, 0, reg.Len(), "resolved request must leave the registry")
}

func TestEvaluateOneNotFound(t *testing.T) {
	reg := subscription.NewRegistry()
	d := subscription.NewDispatcher(reg, newFakeSource(), 1, 8)
	defer d.Stop()

	req := subscription.NewRequest(1, 404, 1, nil)
	reg.Add(req)
	assert.True(t, d.EvaluateOne(context.Background(), req))
	assert.Equal(t, subscription.NotFound, awaitOutcome(t, req.Reply()))
	assert.Equal(t, 0, reg.Len())
}

func TestPendingRequestResolvesWhenSeatsFreeUp(t *testing.T) {
	reg := subscription.NewRegistry()
	src := newFakeSource()
	src.set(10, 3)
	d := subscription.NewDispatcher(reg, src, 2, 8)
	defer d.Stop()

	req := subscription.NewRequest(1, 10, 5, nil)
	reg.Add(req)
	require.False(t, d.EvaluateOne(context.Background(), req), "3 < 5 must stay pending")
	require.Equal(t, 1, reg.Len())

	// A change that still leaves too few seats keeps it pending.
	src.set(10, 4)
	d.NotifyFlightChanged(10)
	select {
	case out := <-req.Reply().Done():
		t.Fatalf("request resolved too early: %v", out)
	case <-time.After(100 * time.Millisecond):
	}

	// Enough seats free up after a cancellation: resolve now.
	src.set(10, 5)
	d.NotifyFlightChanged(10)
	assert.Equal(t, subscription.Available, awaitOutcome(t, req.Reply()))
	assert.Equal(t, 0, reg.Len())
}

func TestUnrelatedFlightChangeDoesNotResolve(t *testing.T) {
	reg := subscription.NewRegistry()
	src := newFakeSource()
	src.set(10, 0)
	src.set(11, 100)
	d := subscription.NewDispatcher(reg, src, 2, 8)
	defer d.Stop()

	req := subscription.NewRequest(1, 10, 1, nil)
	reg.Add(req)
	d.NotifyFlightChanged(11)

	select {
	case out := <-req.Reply().Done():
		t.Fatalf("unrelated flight change resolved the request: %v", out)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, reg.Len())
}

func TestExactlyOnceUnderConcurrentTriggers(t *testing.T) {
	reg := subscription.NewRegistry()
	src := newFakeSource()
	src.set(10, 10)
	d := subscription.NewDispatcher(reg, src, 4, 64)
	defer d.Stop()

	req := subscription.NewRequest(1, 10, 1, nil)
	reg.Add(req)

	// Hammer the dispatcher with concurrent triggers and a concurrent
	// subscribe-time evaluation; the reply must fire exactly once.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.NotifyFlightChanged(10)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.EvaluateOne(context.Background(), req)
	}()
	wg.Wait()

	assert.Equal(t, subscription.Available, awaitOutcome(t, req.Reply()))

	// Give any straggling worker passes time to double-fire, then check
	// that no second outcome arrived.
	time.Sleep(150 * time.Millisecond)
	select {
	case out := <-req.Reply().Done():
		t.Fatalf("reply fired twice, second outcome %v", out)
	default:
	}
	assert.Equal(t, 0, reg.Len())
}

func TestNotifyDoesNotBlockWhenQueueIsFull(t *testing.T) {
	reg := subscription.NewRegistry()
	src := newFakeSource()
	src.set(10, 1)
	// Tiny queue and a single worker to force the overflow path.
	d := subscription.NewDispatcher(reg, src, 1, 1)
	defer d.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			d.NotifyFlightChanged(10)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyFlightChanged blocked the mutation path")
	}
}

func TestClassFilterIsForwardedToSource(t *testing.T) {
	reg := subscription.NewRegistry()
	src := &classAwareSource{economy: 5, business: 0}
	d := subscription.NewDispatcher(reg, src, 1, 8)
	defer d.Stop()

	business := flight.Business
	req := subscription.NewRequest(1, 10, 1, &business)
	reg.Add(req)
	assert.False(t, d.EvaluateOne(context.Background(), req), "no business seats free")

	economy := flight.Economy
	req2 := subscription.NewRequest(1, 10, 2, &economy)
	reg.Add(req2)
	assert.True(t, d.EvaluateOne(context.Background(), req2))
	assert.Equal(t, subscription.Available, awaitOutcome(t, req2.Reply()))
}

// classAwareSource distinguishes cabin classes, unlike fakeSource.
type classAwareSource struct {
	economy  int
	business int
}

func (s *classAwareSource) SeatsRemaining(_ context.Context, _ uint64, class *flight.CabinClass) (int, error) {
	if class == nil {
		return s.economy + s.business, nil
	}
	switch *class {
	case flight.Business:
		return s.business, nil
	default:
		return s.economy, nil
	}
}
