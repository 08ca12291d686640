package client

import (
	"context"
	"sync/atomic"

	"github.com/blockberries/bramble-sdk/types"
)

// SequenceCounter assigns gap-free, strictly increasing sequence numbers to
// concurrent submitters from one sender.
//
// INVARIANT: Every Next() call returns a unique value, and the set of
// returned values is contiguous from the starting point.
type SequenceCounter struct {
	next atomic.Uint64
}

// NewSequenceCounter creates a counter whose first Next() returns start.
func NewSequenceCounter(start uint64) *SequenceCounter {
	c := &SequenceCounter{}
	c.next.Store(start)
	return c
}

// SequenceCounterFromChain initializes a counter from the account's on-chain
// sequence number.
func SequenceCounterFromChain(ctx context.Context, node NodeAPI, addr types.AccountAddress) (*SequenceCounter, error) {
	info, err := node.AccountInfo(ctx, addr)
	if err != nil {
		return nil, err
	}
	return NewSequenceCounter(info.SequenceNumber), nil
}

// Next atomically claims and returns the next sequence number.
func (c *SequenceCounter) Next() uint64 {
	return c.next.Add(1) - 1
}

// Peek returns the next unclaimed sequence number without claiming it.
func (c *SequenceCounter) Peek() uint64 {
	return c.next.Load()
}
