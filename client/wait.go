package client

import (
	"context"
	"time"

	"cosmossdk.io/log"
)

// Finality wait defaults.
const (
	// DefaultWaitTimeout bounds one WaitForTransaction call end to end.
	DefaultWaitTimeout = 30 * time.Second

	// DefaultPollInterval is the first active-polling backoff delay.
	DefaultPollInterval = 200 * time.Millisecond

	// DefaultBackoffMultiplier grows the delay after each poll.
	DefaultBackoffMultiplier = 1.5
)

// waitClock abstracts time for the wait loop so tests drive it
// deterministically.
type waitClock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitConfig carries the knobs of one finality wait.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
	multiplier   float64
	checkSuccess bool
	clock        waitClock
	logger       log.Logger
}

// WaitOption configures WaitForTransaction.
type WaitOption func(*waitConfig)

// WithWaitTimeout overrides the overall wait timeout.
func WithWaitTimeout(d time.Duration) WaitOption {
	return func(c *waitConfig) { c.timeout = d }
}

// WithPollInterval overrides the initial backoff delay.
func WithPollInterval(d time.Duration) WaitOption {
	return func(c *waitConfig) { c.pollInterval = d }
}

// WithBackoffMultiplier overrides the backoff growth factor.
func WithBackoffMultiplier(m float64) WaitOption {
	return func(c *waitConfig) { c.multiplier = m }
}

// WithoutSuccessCheck makes a committed-but-failed transaction return
// normally instead of as a TransactionFailedError.
func WithoutSuccessCheck() WaitOption {
	return func(c *waitConfig) { c.checkSuccess = false }
}

// WithWaitLogger sets the logger. Defaults to a no-op logger.
func WithWaitLogger(l log.Logger) WaitOption {
	return func(c *waitConfig) { c.logger = l }
}

// withWaitClock injects a clock. Test hook.
func withWaitClock(clk waitClock) WaitOption {
	return func(c *waitConfig) { c.clock = clk }
}

// WaitForTransaction polls node until the transaction with hash leaves the
// pending state or the timeout elapses.
//
// The sequence is: one immediate fetch, then one server-side long poll, then
// active polling with geometric backoff. Fetches within one call are
// strictly sequential. A 404 means not yet indexed and polling continues;
// 5xx and transport errors are retried; any other client error aborts
// immediately.
//
// Terminal outcomes: the committed transaction on success, a
// TransactionFailedError when it committed with success=false (unless
// disabled via WithoutSuccessCheck), a WaitTimeoutError when the timeout
// elapses while still pending, or the last fetch error when no fetch ever
// succeeded.
//
// Abandoning the wait never affects the submitted transaction; it only
// stops local polling.
func WaitForTransaction(ctx context.Context, node NodeAPI, hash string, opts ...WaitOption) (*Transaction, error) {
	cfg := waitConfig{
		timeout:      DefaultWaitTimeout,
		pollInterval: DefaultPollInterval,
		multiplier:   DefaultBackoffMultiplier,
		checkSuccess: true,
		clock:        realClock{},
		logger:       log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	deadline := cfg.clock.Now().Add(cfg.timeout)

	var (
		last    *Transaction
		lastErr error
	)

	// observe classifies one fetch result. done=true means the caller
	// should return (txn, err) immediately.
	observe := func(txn *Transaction, err error) (*Transaction, error, bool) {
		if err != nil {
			apiErr, ok := AsAPIError(err)
			if ok && !apiErr.IsRetryable() {
				// Terminal client error propagates unchanged.
				return nil, err, true
			}
			if ok && apiErr.IsNotFound() {
				// Not yet indexed: still pending, not an error.
				return nil, nil, false
			}
			cfg.logger.Debug("transaction fetch failed, will retry", "hash", hash, "err", err)
			lastErr = err
			return nil, nil, false
		}
		last, lastErr = txn, nil
		if txn.IsPending() {
			return nil, nil, false
		}
		if cfg.checkSuccess && !txn.Succeeded() {
			return nil, &TransactionFailedError{Hash: hash, VMStatus: txn.VMStatus, Txn: txn}, true
		}
		return txn, nil, true
	}

	// Immediate fetch: zero extra latency for already-committed
	// transactions.
	if txn, err, done := observe(node.TransactionByHash(ctx, hash)); done {
		return txn, err
	}

	// One long poll before falling back to active polling.
	if txn, err, done := observe(node.WaitByHash(ctx, hash)); done {
		return txn, err
	}

	interval := cfg.pollInterval
	for {
		if !cfg.clock.Now().Before(deadline) {
			break
		}
		if err := cfg.clock.Sleep(ctx, interval); err != nil {
			return nil, err
		}
		interval = time.Duration(float64(interval) * cfg.multiplier)

		if txn, err, done := observe(node.TransactionByHash(ctx, hash)); done {
			return txn, err
		}
	}

	// Timed out. If no fetch ever succeeded, the last error explains more
	// than a generic timeout would.
	if last == nil && lastErr != nil {
		return nil, lastErr
	}
	return nil, &WaitTimeoutError{Hash: hash, Last: last, LastErr: lastErr}
}
