package subscription_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-reservation/internal/flight"
	"github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

func TestRegistryAddRemove(t *testing.T) {
	reg := subscription.NewRegistry()
	req := subscription.NewRequest(1, 10, 2, nil)

	reg.Add(req)
	assert.Equal(t, 1, reg.Len())

	reg.Remove(req)
	assert.Equal(t, 0, reg.Len())

	// Removing again is a no-op.
	reg.Remove(req)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryAllowsDuplicateUserFlightPairs(t *testing.T) {
	reg := subscription.NewRegistry()
	a := subscription.NewRequest(1, 10, 2, nil)
	b := subscription.NewRequest(1, 10, 2, nil)

	reg.Add(a)
	reg.Add(b)
	assert.Equal(t, 2, reg.Len())
	assert.Len(t, reg.ForFlight(10), 2)
}

func TestRegistryForFlightSnapshots(t *testing.T) {
	reg := subscription.NewRegistry()
	class := flight.Business
	a := subscription.NewRequest(1, 10, 2, nil)
	b := subscription.NewRequest(2, 10, 1, &class)
	c := subscription.NewRequest(3, 11, 4, nil)
	reg.Add(a)
	reg.Add(b)
	reg.Add(c)

	snap := reg.ForFlight(10)
	assert.ElementsMatch(t, []*subscription.Request{a, b}, snap)

	// Mutations after the snapshot do not change it.
	reg.Remove(a)
	assert.Len(t, snap, 2)
	assert.Len(t, reg.ForFlight(10), 1)
}

func TestTakeIsExclusive(t *testing.T) {
	reg := subscription.NewRegistry()
	req := subscription.NewRequest(1, 10, 2, nil)
	reg.Add(req)

	const racers = 32
	wins := make(chan bool, racers)
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			wins <- reg.Take(req)
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	assert.Equal(t, 1, won, "exactly one concurrent Take must succeed")
	assert.Equal(t, 0, reg.Len())
}

func TestReplyResolvesOnce(t *testing.T) {
	r := subscription.NewReply()
	r.Resolve(subscription.Available)
	r.Resolve(subscription.NotFound) // ignored

	out := <-r.Done()
	require.Equal(t, subscription.Available, out)

	select {
	case extra := <-r.Done():
		t.Fatalf("reply delivered a second outcome: %v", extra)
	default:
	}
}
