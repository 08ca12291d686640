package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/blockberries/bramble-sdk/types"
)

// fetchResult is one scripted response of the fake node.
type fetchResult struct {
	txn *Transaction
	err error
}

// fakeNodeAPI serves scripted responses. Transaction fetches and long polls
// consume one shared script in order; once exhausted the last entry repeats.
type fakeNodeAPI struct {
	mu     sync.Mutex
	script []fetchResult
	cursor int

	fetchCalls    int
	longPollCalls int

	submitFn    func(signedTxn []byte) (*PendingTransaction, error)
	submissions [][]byte

	account    *AccountInfo
	accountErr error

	gas      *GasEstimate
	gasErr   error
	gasCalls int
}

func (f *fakeNodeAPI) next() fetchResult {
	if f.cursor < len(f.script)-1 {
		f.cursor++
		return f.script[f.cursor-1]
	}
	return f.script[len(f.script)-1]
}

func (f *fakeNodeAPI) SubmitTransaction(_ context.Context, signedTxn []byte) (*PendingTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, signedTxn)
	if f.submitFn == nil {
		return &PendingTransaction{Hash: "0xfeed"}, nil
	}
	return f.submitFn(signedTxn)
}

func (f *fakeNodeAPI) TransactionByHash(_ context.Context, _ string) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	r := f.next()
	return r.txn, r.err
}

func (f *fakeNodeAPI) WaitByHash(_ context.Context, _ string) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.longPollCalls++
	r := f.next()
	return r.txn, r.err
}

func (f *fakeNodeAPI) EstimateGasPrice(_ context.Context) (*GasEstimate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gasCalls++
	return f.gas, f.gasErr
}

func (f *fakeNodeAPI) AccountInfo(_ context.Context, _ types.AccountAddress) (*AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.account, f.accountErr
}

// fakeClock advances simulated time by exactly the slept duration, so a test
// can assert the precise backoff schedule.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func notFoundErr() error {
	return &APIError{StatusCode: http.StatusNotFound, Message: "transaction not found"}
}

func serverErr() error {
	return &APIError{StatusCode: http.StatusInternalServerError, Message: "internal error"}
}

func pendingTxn(hash string) *Transaction {
	return &Transaction{Type: TransactionVariantPending, Hash: hash}
}

func committedTxn(hash string, success bool, vmStatus string) *Transaction {
	return &Transaction{
		Type:     TransactionVariantUser,
		Hash:     hash,
		Version:  512,
		Success:  &success,
		VMStatus: vmStatus,
	}
}
