// Package client implements the node boundary for the Bramble SDK: submit,
// fetch, finality waiting, sequence assignment, and batch submission.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cosmossdk.io/log"

	"github.com/blockberries/bramble-sdk/types"
)

// TransactionVariant tags the node's transaction representation.
type TransactionVariant string

const (
	TransactionVariantPending         TransactionVariant = "pending_transaction"
	TransactionVariantUser            TransactionVariant = "user_transaction"
	TransactionVariantGenesis         TransactionVariant = "genesis_transaction"
	TransactionVariantBlockMetadata   TransactionVariant = "block_metadata_transaction"
	TransactionVariantStateCheckpoint TransactionVariant = "state_checkpoint_transaction"
)

// Transaction is the node's view of a transaction. Pending transactions
// carry no execution outcome; committed ones carry success and VM status.
type Transaction struct {
	// Type tags the variant.
	Type TransactionVariant `json:"type"`

	// Hash is the transaction hash in 0x hex form.
	Hash string `json:"hash"`

	// Version is the ledger version, present once committed.
	Version uint64 `json:"version,string,omitempty"`

	// Success reports the execution outcome, nil while pending.
	Success *bool `json:"success,omitempty"`

	// VMStatus is the VM execution status string, empty while pending.
	VMStatus string `json:"vm_status,omitempty"`
}

// IsPending reports whether the transaction has not yet committed.
func (t *Transaction) IsPending() bool {
	return t.Type == TransactionVariantPending
}

// Succeeded reports whether the transaction committed and executed
// successfully.
func (t *Transaction) Succeeded() bool {
	return !t.IsPending() && t.Success != nil && *t.Success
}

// PendingTransaction is the node's acknowledgement of a submission.
type PendingTransaction struct {
	// Hash identifies the transaction for later polling.
	Hash string `json:"hash"`

	// SequenceNumber echoes the submitted sequence number.
	SequenceNumber uint64 `json:"sequence_number,string"`
}

// AccountInfo is the on-chain account state the SDK consumes: the next
// sequence number and the current authentication key.
type AccountInfo struct {
	SequenceNumber    uint64 `json:"sequence_number,string"`
	AuthenticationKey string `json:"authentication_key"`
}

// GasEstimate is the node's current gas price estimate in octas per unit.
type GasEstimate struct {
	GasEstimate              uint64  `json:"gas_estimate"`
	DeprioritizedGasEstimate *uint64 `json:"deprioritized_gas_estimate,omitempty"`
	PrioritizedGasEstimate   *uint64 `json:"prioritized_gas_estimate,omitempty"`
}

// NodeAPI is the collaborator boundary to a Bramble node. Implementations
// return *APIError for any non-success response.
type NodeAPI interface {
	// SubmitTransaction submits signed transaction bytes.
	SubmitTransaction(ctx context.Context, signedTxn []byte) (*PendingTransaction, error)

	// TransactionByHash fetches a transaction by its hash. A transaction
	// not yet indexed surfaces as a 404 APIError.
	TransactionByHash(ctx context.Context, hash string) (*Transaction, error)

	// WaitByHash is the long-poll form of TransactionByHash: the node holds
	// the request server-side until the transaction commits or its own wait
	// bound elapses.
	WaitByHash(ctx context.Context, hash string) (*Transaction, error)

	// EstimateGasPrice fetches the node's current gas price estimate.
	EstimateGasPrice(ctx context.Context) (*GasEstimate, error)

	// AccountInfo fetches sequence number and authentication key for addr.
	AccountInfo(ctx context.Context, addr types.AccountAddress) (*AccountInfo, error)
}

// bcsContentType is the submit body encoding.
const bcsContentType = "application/x.bramble.signed_transaction+bcs"

// HTTPNodeAPI implements NodeAPI over the node's REST interface.
type HTTPNodeAPI struct {
	baseURL *url.URL
	client  *http.Client
	logger  log.Logger
}

// NodeOption configures an HTTPNodeAPI.
type NodeOption func(*HTTPNodeAPI)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) NodeOption {
	return func(n *HTTPNodeAPI) { n.client = c }
}

// WithNodeLogger sets the logger. Defaults to a no-op logger.
func WithNodeLogger(l log.Logger) NodeOption {
	return func(n *HTTPNodeAPI) { n.logger = l }
}

// NewHTTPNodeAPI creates a node client for the given base URL, e.g.
// "https://fullnode.mainnet.bramble.dev/v1".
func NewHTTPNodeAPI(baseURL string, opts ...NodeOption) (*HTTPNodeAPI, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid node URL %q: %w", baseURL, err)
	}
	n := &HTTPNodeAPI{
		baseURL: parsed,
		client:  http.DefaultClient,
		logger:  log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// SubmitTransaction posts signed transaction bytes.
func (n *HTTPNodeAPI) SubmitTransaction(ctx context.Context, signedTxn []byte) (*PendingTransaction, error) {
	out := &PendingTransaction{}
	if err := n.do(ctx, http.MethodPost, "/transactions", signedTxn, out); err != nil {
		return nil, err
	}
	n.logger.Debug("submitted transaction", "hash", out.Hash)
	return out, nil
}

// TransactionByHash fetches a transaction by hash.
func (n *HTTPNodeAPI) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	out := &Transaction{}
	if err := n.do(ctx, http.MethodGet, "/transactions/by_hash/"+url.PathEscape(hash), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// WaitByHash issues the server-side long poll for a transaction.
func (n *HTTPNodeAPI) WaitByHash(ctx context.Context, hash string) (*Transaction, error) {
	out := &Transaction{}
	if err := n.do(ctx, http.MethodGet, "/transactions/wait_by_hash/"+url.PathEscape(hash), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGasPrice fetches the current gas price estimate.
func (n *HTTPNodeAPI) EstimateGasPrice(ctx context.Context) (*GasEstimate, error) {
	out := &GasEstimate{}
	if err := n.do(ctx, http.MethodGet, "/estimate_gas_price", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AccountInfo fetches on-chain account state.
func (n *HTTPNodeAPI) AccountInfo(ctx context.Context, addr types.AccountAddress) (*AccountInfo, error) {
	out := &AccountInfo{}
	if err := n.do(ctx, http.MethodGet, "/accounts/"+addr.String(), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// do executes one request and decodes either the success body into out or
// the error body into an APIError.
func (n *HTTPNodeAPI) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, n.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", bcsContentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Error bodies are best-effort JSON; fall back to the raw text.
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
