package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSchemeUnresolved indicates the on-chain authentication key matches
	// neither the legacy nor the unified derivation of the supplied key, so
	// the originating scheme cannot be determined.
	ErrSchemeUnresolved = errors.New("on-chain authentication key matches neither scheme derivation")
)

// APIError is a structured node error: HTTP-like status code, machine
// readable error code, and optional VM-level status code. The client
// consumes only these fields, never the transport details.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`

	// ErrorCode is the node's machine-readable error code string.
	ErrorCode string `json:"error_code"`

	// VMErrorCode is the VM status code, present when execution reached
	// the VM.
	VMErrorCode *int64 `json:"vm_error_code"`

	// Message is the human-readable error description.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("node API error %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("node API error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error is a 404. During finality polling
// this means "not yet indexed", not failure.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRetryable reports whether polling may continue past this error:
// not-found and server-side errors are retryable, any other client error is
// terminal.
func (e *APIError) IsRetryable() bool {
	return e.IsNotFound() || e.StatusCode >= 500
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// WaitTimeoutError reports that a finality wait gave up while the
// transaction was still pending. It carries the last snapshot and the last
// fetch error, so callers can render state without re-querying.
type WaitTimeoutError struct {
	// Hash is the transaction being waited on.
	Hash string

	// Last is the most recent transaction snapshot, nil if no fetch ever
	// succeeded.
	Last *Transaction

	// LastErr is the most recent fetch error, nil if the final fetch
	// succeeded.
	LastErr error
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("wait for transaction %s timed out, transaction still pending", e.Hash)
}

func (e *WaitTimeoutError) Unwrap() error {
	return e.LastErr
}

// AsWaitTimeout extracts a WaitTimeoutError from an error chain.
func AsWaitTimeout(err error) (*WaitTimeoutError, bool) {
	var timeoutErr *WaitTimeoutError
	ok := errors.As(err, &timeoutErr)
	return timeoutErr, ok
}

// TransactionFailedError reports that a transaction committed on chain but
// execution failed. It carries the VM status for rendering.
type TransactionFailedError struct {
	// Hash is the failed transaction.
	Hash string

	// VMStatus is the on-chain failure status string.
	VMStatus string

	// Txn is the committed transaction snapshot.
	Txn *Transaction
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s executed but failed: %s", e.Hash, e.VMStatus)
}

// AsTransactionFailed extracts a TransactionFailedError from an error chain.
func AsTransactionFailed(err error) (*TransactionFailedError, bool) {
	var failedErr *TransactionFailedError
	ok := errors.As(err, &failedErr)
	return failedErr, ok
}
