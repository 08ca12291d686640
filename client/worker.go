package client

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"

	"github.com/blockberries/bramble-sdk/account"
	"github.com/blockberries/bramble-sdk/bcs"
	"github.com/blockberries/bramble-sdk/types"
)

// Submit worker defaults.
const (
	DefaultWorkerCount   = 4
	DefaultQueueSize     = 64
	DefaultExpirationTTL = 5 * time.Minute
)

// submitJob is one enqueued payload with its pre-assigned sequence number.
type submitJob struct {
	sequenceNumber uint64
	payload        types.TransactionPayload
}

// SubmitResult is the outcome of one payload's sign-and-submit.
type SubmitResult struct {
	// SequenceNumber is the sequence number the payload was assigned.
	SequenceNumber uint64

	// Pending is the node's acknowledgement, nil on error.
	Pending *PendingTransaction

	// Err is the signing or submission failure, nil on success.
	Err error
}

// SubmitWorker signs and submits a stream of payloads from one sender with
// bounded concurrency. Sequence numbers are claimed at enqueue time, so the
// assignment order matches the enqueue order and stays gap-free even while
// a fixed pool of workers signs and submits concurrently.
//
// Results are delivered on a channel; downstream code consumes the stream
// instead of registering callbacks. The result buffer holds as many entries
// as the queue, so once the total number of enqueued payloads exceeds the
// queue capacity the caller must drain Results concurrently with
// submission: workers block on a full result buffer, and a Close issued
// with no consumer draining would then wait on them forever.
type SubmitWorker struct {
	node    NodeAPI
	signer  account.Signer
	seq     *SequenceCounter
	logger  log.Logger
	now     func() time.Time
	workers int

	maxGasAmount  uint64
	gasUnitPrice  uint64
	expirationTTL time.Duration
	chainId       uint8

	queue   chan submitJob
	results chan SubmitResult
	wg      sync.WaitGroup
}

// WorkerOption configures a SubmitWorker.
type WorkerOption func(*SubmitWorker)

// WithWorkerCount sets the number of concurrent sign-and-submit workers.
func WithWorkerCount(n int) WorkerOption {
	return func(w *SubmitWorker) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithQueueSize sets the bounded queue capacity.
func WithQueueSize(n int) WorkerOption {
	return func(w *SubmitWorker) {
		if n > 0 {
			w.queue = make(chan submitJob, n)
		}
	}
}

// WithGas sets the max gas amount and gas unit price for built transactions.
func WithGas(maxGasAmount, gasUnitPrice uint64) WorkerOption {
	return func(w *SubmitWorker) {
		w.maxGasAmount = maxGasAmount
		w.gasUnitPrice = gasUnitPrice
	}
}

// WithExpirationTTL sets how far in the future built transactions expire.
func WithExpirationTTL(d time.Duration) WorkerOption {
	return func(w *SubmitWorker) { w.expirationTTL = d }
}

// WithWorkerLogger sets the logger. Defaults to a no-op logger.
func WithWorkerLogger(l log.Logger) WorkerOption {
	return func(w *SubmitWorker) { w.logger = l }
}

// withWorkerTime injects a clock. Test hook.
func withWorkerTime(now func() time.Time) WorkerOption {
	return func(w *SubmitWorker) { w.now = now }
}

// NewSubmitWorker creates a worker for signer's payloads on the given chain.
// seq must be initialized to the sender's next on-chain sequence number.
func NewSubmitWorker(node NodeAPI, signer account.Signer, seq *SequenceCounter, chainId uint8, opts ...WorkerOption) *SubmitWorker {
	w := &SubmitWorker{
		node:          node,
		signer:        signer,
		seq:           seq,
		logger:        log.NewNopLogger(),
		now:           time.Now,
		workers:       DefaultWorkerCount,
		maxGasAmount:  100_000,
		gasUnitPrice:  100,
		expirationTTL: DefaultExpirationTTL,
		chainId:       chainId,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.queue == nil {
		w.queue = make(chan submitJob, DefaultQueueSize)
	}
	w.results = make(chan SubmitResult, cap(w.queue))
	return w
}

// Start launches the worker pool. Results arrive on Results() until Close.
func (w *SubmitWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

// Enqueue claims the next sequence number for payload and queues it for
// signing and submission. Blocks while the queue is full.
func (w *SubmitWorker) Enqueue(ctx context.Context, payload types.TransactionPayload) (uint64, error) {
	job := submitJob{sequenceNumber: w.seq.Next(), payload: payload}
	select {
	case w.queue <- job:
		return job.sequenceNumber, nil
	case <-ctx.Done():
		return job.sequenceNumber, ctx.Err()
	}
}

// Results returns the result stream. Closed after Close drains the queue.
// Drain it concurrently whenever more payloads are enqueued than the queue
// capacity; deferring consumption until after Close is safe only below that
// bound.
func (w *SubmitWorker) Results() <-chan SubmitResult {
	return w.results
}

// Close stops accepting payloads, waits for in-flight work, and closes the
// result stream. Blocks until every queued result is delivered, so a
// consumer must already be draining Results when more payloads were
// enqueued than the result buffer holds.
func (w *SubmitWorker) Close() {
	close(w.queue)
	w.wg.Wait()
	close(w.results)
}

func (w *SubmitWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for job := range w.queue {
		result := w.submit(ctx, job)
		select {
		case w.results <- result:
		case <-ctx.Done():
			return
		}
	}
}

// submit builds, signs, and submits one transaction.
func (w *SubmitWorker) submit(ctx context.Context, job submitJob) SubmitResult {
	raw := &types.RawTransaction{
		Sender:                  w.signer.Address(),
		SequenceNumber:          job.sequenceNumber,
		Payload:                 job.payload,
		MaxGasAmount:            w.maxGasAmount,
		GasUnitPrice:            w.gasUnitPrice,
		ExpirationTimestampSecs: uint64(w.now().Add(w.expirationTTL).Unix()),
		ChainId:                 w.chainId,
	}

	auth, err := w.signer.SignTransactionWithAuthenticator(raw)
	if err != nil {
		return SubmitResult{SequenceNumber: job.sequenceNumber, Err: err}
	}
	signed := &types.SignedTransaction{
		Transaction:   raw,
		Authenticator: types.NewTransactionAuthenticator(auth),
	}
	encoded, err := bcs.Marshal(signed)
	if err != nil {
		return SubmitResult{SequenceNumber: job.sequenceNumber, Err: err}
	}

	pending, err := w.node.SubmitTransaction(ctx, encoded)
	if err != nil {
		w.logger.Debug("submission failed", "sequence", job.sequenceNumber, "err", err)
		return SubmitResult{SequenceNumber: job.sequenceNumber, Err: err}
	}
	return SubmitResult{SequenceNumber: job.sequenceNumber, Pending: pending}
}
