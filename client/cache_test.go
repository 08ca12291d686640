package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiringCache_ComputesOnceWithinTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cache := NewExpiringCache[uint64](time.Minute).withClock(func() time.Time { return now })

	var calls atomic.Int32
	compute := func(context.Context) (uint64, error) {
		calls.Add(1)
		return 100, nil
	}

	for i := 0; i < 5; i++ {
		v, err := cache.GetOrCompute(context.Background(), "gas", compute)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), v)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestExpiringCache_RecomputesAfterExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cache := NewExpiringCache[uint64](time.Minute).withClock(func() time.Time { return now })

	var calls atomic.Int32
	compute := func(context.Context) (uint64, error) {
		calls.Add(1)
		return uint64(calls.Load()), nil
	}

	v, err := cache.GetOrCompute(context.Background(), "gas", compute)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	// Still fresh one second before expiry.
	now = now.Add(time.Minute - time.Second)
	v, err = cache.GetOrCompute(context.Background(), "gas", compute)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	// Expired exactly at the TTL boundary.
	now = now.Add(time.Second)
	v, err = cache.GetOrCompute(context.Background(), "gas", compute)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}

func TestExpiringCache_CoalescesConcurrentCallers(t *testing.T) {
	cache := NewExpiringCache[uint64](time.Minute)

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (uint64, error) {
		calls.Add(1)
		<-release
		return 100, nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]uint64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cache.GetOrCompute(context.Background(), "gas", compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every caller time to reach the cache before releasing the one
	// in-flight computation.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent callers share one computation")
	for _, v := range results {
		assert.Equal(t, uint64(100), v)
	}
}

func TestExpiringCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewExpiringCache[uint64](time.Minute)
	boom := errors.New("node unreachable")

	var calls atomic.Int32
	_, err := cache.GetOrCompute(context.Background(), "gas", func(context.Context) (uint64, error) {
		calls.Add(1)
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := cache.GetOrCompute(context.Background(), "gas", func(context.Context) (uint64, error) {
		calls.Add(1)
		return 100, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), v)
	assert.Equal(t, int32(2), calls.Load(), "the failed result must not be served again")
}

func TestExpiringCache_WaiterHonorsContext(t *testing.T) {
	cache := NewExpiringCache[uint64](time.Minute)

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	go func() {
		_, _ = cache.GetOrCompute(context.Background(), "gas", func(context.Context) (uint64, error) {
			close(started)
			<-release
			return 100, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.GetOrCompute(ctx, "gas", func(context.Context) (uint64, error) {
		t.Fatal("waiter must not start a second computation")
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExpiringCache_Invalidate(t *testing.T) {
	cache := NewExpiringCache[uint64](time.Minute)

	var calls atomic.Int32
	compute := func(context.Context) (uint64, error) {
		calls.Add(1)
		return uint64(calls.Load()), nil
	}

	v, err := cache.GetOrCompute(context.Background(), "gas", compute)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	cache.Invalidate("gas")

	v, err = cache.GetOrCompute(context.Background(), "gas", compute)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}
