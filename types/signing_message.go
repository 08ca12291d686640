package types

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/blockberries/bramble-sdk/bcs"
)

// Domain separation strings for signing messages. The 32-byte SHA3-256 of
// the string is prepended to the transaction encoding, so a signature over a
// transaction can never be replayed as a signature over any other kind of
// message.
const (
	rawTransactionSalt         = "BRAMBLE::RawTransaction"
	rawTransactionWithDataSalt = "BRAMBLE::RawTransactionWithData"
)

// RawTransactionWithData variant tags.
const (
	rawTransactionWithDataVariantMultiAgent         = 0
	rawTransactionWithDataVariantMultiAgentFeePayer = 1
)

var (
	saltOnce             sync.Once
	rawTxnPrefix         [32]byte
	rawTxnWithDataPrefix [32]byte
)

func signingPrefixes() (txn, withData [32]byte) {
	saltOnce.Do(func() {
		rawTxnPrefix = sha3.Sum256([]byte(rawTransactionSalt))
		rawTxnWithDataPrefix = sha3.Sum256([]byte(rawTransactionWithDataSalt))
	})
	return rawTxnPrefix, rawTxnWithDataPrefix
}

func prefixedSigningMessage(prefix [32]byte, body bcs.Marshaler) ([]byte, error) {
	encoded, err := bcs.Marshal(body)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(prefix)+len(encoded))
	out = append(out, prefix[:]...)
	return append(out, encoded...), nil
}

// SigningMessage returns the exact bytes a single signer must sign:
// SHA3-256 of the raw-transaction salt followed by the canonical encoding.
//
// INVARIANT: Deterministic. Equal transactions yield byte-identical signing
// messages regardless of which signer asks.
func (t *RawTransaction) SigningMessage() ([]byte, error) {
	prefix, _ := signingPrefixes()
	return prefixedSigningMessage(prefix, t)
}

// MultiAgentRawTransaction extends a raw transaction with the ordered
// secondary signer addresses. Address order is part of the signed bytes:
// every signer must see the same order or their signatures cover different
// messages.
type MultiAgentRawTransaction struct {
	Raw              RawTransaction
	SecondarySigners []AccountAddress
}

// MarshalBCS writes the variant tag, the raw transaction, then the ordered
// secondary addresses.
func (t *MultiAgentRawTransaction) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(rawTransactionWithDataVariantMultiAgent)
	if err := t.Raw.MarshalBCS(s); err != nil {
		return err
	}
	return bcs.SerializeSequence(s, t.SecondarySigners)
}

// SigningMessage returns the bytes every participant of a multi-agent
// transaction signs.
func (t *MultiAgentRawTransaction) SigningMessage() ([]byte, error) {
	_, prefix := signingPrefixes()
	return prefixedSigningMessage(prefix, t)
}

// FeePayerRawTransaction extends the multi-agent form with a trailing fee
// payer address.
//
// When the fee payer is not yet chosen, AddressZero stands in as the
// placeholder. Every participant, the eventual fee payer included, signs
// over the same placeholder form, so the two sides can co-sign in either
// order and still produce identical signing messages.
type FeePayerRawTransaction struct {
	Raw              RawTransaction
	SecondarySigners []AccountAddress
	FeePayer         AccountAddress
}

// MarshalBCS writes the variant tag, the raw transaction, the ordered
// secondary addresses, then the fee payer address.
func (t *FeePayerRawTransaction) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(rawTransactionWithDataVariantMultiAgentFeePayer)
	if err := t.Raw.MarshalBCS(s); err != nil {
		return err
	}
	if err := bcs.SerializeSequence(s, t.SecondarySigners); err != nil {
		return err
	}
	return t.FeePayer.MarshalBCS(s)
}

// SigningMessage returns the bytes every participant of a fee-payer
// transaction signs.
func (t *FeePayerRawTransaction) SigningMessage() ([]byte, error) {
	_, prefix := signingPrefixes()
	return prefixedSigningMessage(prefix, t)
}
