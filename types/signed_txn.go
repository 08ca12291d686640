package types

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/blockberries/bramble-sdk/bcs"
)

// transactionHashSalt domain-separates user transaction hashes.
const transactionHashSalt = "BRAMBLE::Transaction"

// userTransactionHashVariant is the transaction enum position of a user
// transaction, hashed ahead of the body.
const userTransactionHashVariant = 0

var (
	txnHashOnce   sync.Once
	txnHashPrefix [32]byte
)

// SignedTransaction is the fully signed submittable form: the raw
// transaction plus every approval the ledger requires.
type SignedTransaction struct {
	Transaction   *RawTransaction
	Authenticator TransactionAuthenticator
}

// Verify reports whether every signature in the authenticator covers this
// transaction's signing message.
func (t *SignedTransaction) Verify() bool {
	return t.Authenticator.Verify(t.Transaction)
}

// Hash computes the on-chain transaction hash of the signed transaction:
// SHA3-256 over the domain prefix, the user-transaction variant byte, and
// the canonical encoding. Returned in 0x hex form, as the node reports it.
func (t *SignedTransaction) Hash() (string, error) {
	txnHashOnce.Do(func() {
		txnHashPrefix = sha3.Sum256([]byte(transactionHashSalt))
	})

	encoded, err := bcs.Marshal(t)
	if err != nil {
		return "", err
	}
	h := sha3.New256()
	h.Write(txnHashPrefix[:])
	h.Write([]byte{userTransactionHashVariant})
	h.Write(encoded)
	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

// MarshalBCS writes the raw transaction then the authenticator.
func (t *SignedTransaction) MarshalBCS(s *bcs.Serializer) error {
	if err := t.Transaction.MarshalBCS(s); err != nil {
		return err
	}
	return t.Authenticator.MarshalBCS(s)
}

// UnmarshalBCS reads the raw transaction then the authenticator.
func (t *SignedTransaction) UnmarshalBCS(d *bcs.Deserializer) error {
	raw := &RawTransaction{}
	if err := raw.UnmarshalBCS(d); err != nil {
		return err
	}
	if err := t.Authenticator.UnmarshalBCS(d); err != nil {
		return err
	}
	t.Transaction = raw
	return nil
}
