package client

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/bramble-sdk/types"
)

func TestSequenceCounter_Sequential(t *testing.T) {
	c := NewSequenceCounter(7)

	assert.Equal(t, uint64(7), c.Peek())
	assert.Equal(t, uint64(7), c.Next())
	assert.Equal(t, uint64(8), c.Next())
	assert.Equal(t, uint64(9), c.Peek())
}

func TestSequenceCounter_ConcurrentClaimsAreGapFree(t *testing.T) {
	const submitters = 20

	c := NewSequenceCounter(0)

	var (
		mu      sync.Mutex
		claimed = make(map[uint64]struct{}, submitters)
		wg      sync.WaitGroup
	)
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq := c.Next()
			mu.Lock()
			claimed[seq] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Exactly {0, ..., 19}: no duplicates, no gaps.
	require.Len(t, claimed, submitters)
	for seq := uint64(0); seq < submitters; seq++ {
		assert.Contains(t, claimed, seq)
	}
	assert.Equal(t, uint64(submitters), c.Peek())
}

func TestSequenceCounterFromChain(t *testing.T) {
	node := &fakeNodeAPI{account: &AccountInfo{SequenceNumber: 42}}

	c, err := SequenceCounterFromChain(context.Background(), node, types.AddressOne)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.Next())
}

func TestSequenceCounterFromChain_Error(t *testing.T) {
	node := &fakeNodeAPI{accountErr: &APIError{StatusCode: 404, Message: "account not found"}}

	_, err := SequenceCounterFromChain(context.Background(), node, types.AddressOne)
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
}
