package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/bramble-sdk/account"
	"github.com/blockberries/bramble-sdk/bcs"
	"github.com/blockberries/bramble-sdk/types"
)

const testChainId = 4

func newTestPayload(t *testing.T, amount uint64) types.TransactionPayload {
	t.Helper()

	recipient, err := types.ParseAddress("0xb0b")
	require.NoError(t, err)

	ser := bcs.NewSerializer()
	ser.WriteU64(amount)

	return types.TransactionPayload{Payload: &types.EntryFunction{
		Module:   types.ModuleId{Address: types.AddressOne, Name: "coin"},
		Function: "transfer",
		Args:     [][]byte{bcs.MustMarshal(recipient), ser.Bytes()},
	}}
}

// decodeSubmission parses one submitted body back into a signed transaction.
func decodeSubmission(t *testing.T, body []byte) *types.SignedTransaction {
	t.Helper()
	signed := &types.SignedTransaction{}
	require.NoError(t, bcs.Unmarshal(body, signed))
	return signed
}

func TestSubmitWorker_AssignsSequentialNumbers(t *testing.T) {
	const payloads = 20

	node := &fakeNodeAPI{
		submitFn: func(signedTxn []byte) (*PendingTransaction, error) {
			signed := &types.SignedTransaction{}
			if err := bcs.Unmarshal(signedTxn, signed); err != nil {
				return nil, err
			}
			return &PendingTransaction{
				Hash:           fmt.Sprintf("0x%02x", signed.Transaction.SequenceNumber),
				SequenceNumber: signed.Transaction.SequenceNumber,
			}, nil
		},
	}
	signer, err := account.GenerateEd25519Account()
	require.NoError(t, err)

	w := NewSubmitWorker(node, signer, NewSequenceCounter(0), testChainId,
		WithWorkerCount(4))
	w.Start(context.Background())

	for i := 0; i < payloads; i++ {
		seq, err := w.Enqueue(context.Background(), newTestPayload(t, uint64(i)))
		require.NoError(t, err)
		assert.Equal(t, uint64(i), seq, "enqueue order determines sequence order")
	}
	w.Close()

	claimed := make(map[uint64]struct{}, payloads)
	for result := range w.Results() {
		require.NoError(t, result.Err)
		require.NotNil(t, result.Pending)
		assert.Equal(t, result.SequenceNumber, result.Pending.SequenceNumber)
		claimed[result.SequenceNumber] = struct{}{}
	}

	// Exactly {0, ..., 19} despite four concurrent workers.
	require.Len(t, claimed, payloads)
	for seq := uint64(0); seq < payloads; seq++ {
		assert.Contains(t, claimed, seq)
	}
}

func TestSubmitWorker_SubmitsVerifiableTransactions(t *testing.T) {
	node := &fakeNodeAPI{}
	signer, err := account.GenerateEd25519Account()
	require.NoError(t, err)

	start := time.Unix(1_700_000_000, 0)
	w := NewSubmitWorker(node, signer, NewSequenceCounter(9), testChainId,
		WithWorkerCount(1),
		WithGas(50_000, 120),
		WithExpirationTTL(10*time.Minute),
		withWorkerTime(func() time.Time { return start }))
	w.Start(context.Background())

	_, err = w.Enqueue(context.Background(), newTestPayload(t, 1_000))
	require.NoError(t, err)
	w.Close()
	for range w.Results() {
	}

	require.Len(t, node.submissions, 1)
	signed := decodeSubmission(t, node.submissions[0])

	assert.Equal(t, signer.Address(), signed.Transaction.Sender)
	assert.Equal(t, uint64(9), signed.Transaction.SequenceNumber)
	assert.Equal(t, uint64(50_000), signed.Transaction.MaxGasAmount)
	assert.Equal(t, uint64(120), signed.Transaction.GasUnitPrice)
	assert.Equal(t, uint64(start.Add(10*time.Minute).Unix()), signed.Transaction.ExpirationTimestampSecs)
	assert.Equal(t, uint8(testChainId), signed.Transaction.ChainId)
	assert.True(t, signed.Verify(), "the submitted signature verifies against the rebuilt signing message")
}

func TestSubmitWorker_SubmissionErrorReachesResults(t *testing.T) {
	boom := &APIError{StatusCode: 400, ErrorCode: "vm_error", Message: "sequence number too old"}
	node := &fakeNodeAPI{
		submitFn: func([]byte) (*PendingTransaction, error) { return nil, boom },
	}
	signer, err := account.GenerateEd25519Account()
	require.NoError(t, err)

	w := NewSubmitWorker(node, signer, NewSequenceCounter(0), testChainId, WithWorkerCount(1))
	w.Start(context.Background())

	_, err = w.Enqueue(context.Background(), newTestPayload(t, 1))
	require.NoError(t, err)
	w.Close()

	result, ok := <-w.Results()
	require.True(t, ok)
	assert.Equal(t, uint64(0), result.SequenceNumber)
	assert.Nil(t, result.Pending)

	apiErr, apiOk := AsAPIError(result.Err)
	require.True(t, apiOk)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestSubmitWorker_EnqueueHonorsContext(t *testing.T) {
	node := &fakeNodeAPI{}
	signer, err := account.GenerateEd25519Account()
	require.NoError(t, err)

	// One-slot queue and no running workers, so the second enqueue blocks.
	w := NewSubmitWorker(node, signer, NewSequenceCounter(0), testChainId, WithQueueSize(1))

	_, err = w.Enqueue(context.Background(), newTestPayload(t, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Enqueue(ctx, newTestPayload(t, 2))
	assert.True(t, errors.Is(err, context.Canceled))
}

// More payloads than the queue and result buffer hold: a consumer draining
// Results concurrently keeps the workers moving and Close still returns.
func TestSubmitWorker_ConcurrentDrainPastBufferCapacity(t *testing.T) {
	const payloads = 12

	node := &fakeNodeAPI{}
	signer, err := account.GenerateEd25519Account()
	require.NoError(t, err)

	w := NewSubmitWorker(node, signer, NewSequenceCounter(0), testChainId,
		WithWorkerCount(2), WithQueueSize(2))
	w.Start(context.Background())

	done := make(chan map[uint64]struct{})
	go func() {
		claimed := make(map[uint64]struct{}, payloads)
		for result := range w.Results() {
			assert.NoError(t, result.Err)
			claimed[result.SequenceNumber] = struct{}{}
		}
		done <- claimed
	}()

	for i := 0; i < payloads; i++ {
		_, err := w.Enqueue(context.Background(), newTestPayload(t, uint64(i)))
		require.NoError(t, err)
	}
	w.Close()

	claimed := <-done
	require.Len(t, claimed, payloads)
	for seq := uint64(0); seq < payloads; seq++ {
		assert.Contains(t, claimed, seq)
	}
	assert.Len(t, node.submissions, payloads)
}

func TestSubmitWorker_CloseDrainsQueue(t *testing.T) {
	node := &fakeNodeAPI{}
	signer, err := account.GenerateEd25519Account()
	require.NoError(t, err)

	w := NewSubmitWorker(node, signer, NewSequenceCounter(0), testChainId, WithWorkerCount(2))
	w.Start(context.Background())

	const payloads = 5
	for i := 0; i < payloads; i++ {
		_, err := w.Enqueue(context.Background(), newTestPayload(t, uint64(i)))
		require.NoError(t, err)
	}
	w.Close()

	var results int
	for result := range w.Results() {
		require.NoError(t, result.Err)
		results++
	}
	assert.Equal(t, payloads, results, "close waits for every queued payload")
	assert.Len(t, node.submissions, payloads)
}
