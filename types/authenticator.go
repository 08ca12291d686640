package types

import (
	"fmt"

	"github.com/blockberries/bramble-sdk/bcs"
	"github.com/blockberries/bramble-sdk/crypto"
)

// AccountAuthenticatorVariant is the ULEB128 tag selecting an account
// authenticator form. Values mirror the crypto.Scheme discriminators.
type AccountAuthenticatorVariant uint32

const (
	AccountAuthenticatorEd25519      AccountAuthenticatorVariant = 0
	AccountAuthenticatorMultiEd25519 AccountAuthenticatorVariant = 1
	AccountAuthenticatorSingleKey    AccountAuthenticatorVariant = 2
	AccountAuthenticatorMultiKey     AccountAuthenticatorVariant = 3
)

// AccountAuthenticatorImpl is one member of the account authenticator union:
// a (public key, signature) pairing for one signing scheme.
type AccountAuthenticatorImpl interface {
	bcs.Marshaler
	// Verify reports whether the held signature covers message under the
	// held public key.
	Verify(message []byte) bool
}

// AccountAuthenticator proves one account approved a signing message. It is
// the per-signer unit attached to transactions, self-describing on the wire.
type AccountAuthenticator struct {
	Variant AccountAuthenticatorVariant
	Auth    AccountAuthenticatorImpl
}

// Verify reports whether the authenticator's signature covers message.
func (a AccountAuthenticator) Verify(message []byte) bool {
	return a.Auth.Verify(message)
}

// MarshalBCS writes the variant tag then the member's fields.
func (a AccountAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(uint64(a.Variant))
	return a.Auth.MarshalBCS(s)
}

// UnmarshalBCS reads the variant tag and dispatches to the matching member.
func (a *AccountAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch AccountAuthenticatorVariant(tag) {
	case AccountAuthenticatorEd25519:
		a.Auth = &Ed25519Authenticator{}
	case AccountAuthenticatorMultiEd25519:
		a.Auth = &MultiEd25519Authenticator{}
	case AccountAuthenticatorSingleKey:
		a.Auth = &SingleKeyAuthenticator{}
	case AccountAuthenticatorMultiKey:
		a.Auth = &MultiKeyAuthenticator{}
	default:
		return fmt.Errorf("%w: account authenticator variant %d", bcs.ErrInvalidVariant, tag)
	}
	a.Variant = AccountAuthenticatorVariant(tag)
	return a.Auth.(bcs.Unmarshaler).UnmarshalBCS(d)
}

// Ed25519Authenticator is the legacy single-signer form: a bare Ed25519
// public key and signature with no inner scheme tags.
type Ed25519Authenticator struct {
	PubKey *crypto.Ed25519PublicKey
	Sig    *crypto.Ed25519Signature
}

func (a *Ed25519Authenticator) Verify(message []byte) bool {
	return a.PubKey.VerifySignature(message, a.Sig)
}

func (a *Ed25519Authenticator) MarshalBCS(s *bcs.Serializer) error {
	if err := a.PubKey.MarshalBCS(s); err != nil {
		return err
	}
	return a.Sig.MarshalBCS(s)
}

func (a *Ed25519Authenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	pub := &crypto.Ed25519PublicKey{}
	if err := pub.UnmarshalBCS(d); err != nil {
		return err
	}
	sig := &crypto.Ed25519Signature{}
	if err := sig.UnmarshalBCS(d); err != nil {
		return err
	}
	a.PubKey, a.Sig = pub, sig
	return nil
}

// MultiEd25519Authenticator is the legacy K-of-N multi-signature form.
type MultiEd25519Authenticator struct {
	PubKey *crypto.MultiEd25519PublicKey
	Sig    *crypto.MultiEd25519Signature
}

func (a *MultiEd25519Authenticator) Verify(message []byte) bool {
	return a.PubKey.VerifySignature(message, a.Sig)
}

func (a *MultiEd25519Authenticator) MarshalBCS(s *bcs.Serializer) error {
	if err := a.PubKey.MarshalBCS(s); err != nil {
		return err
	}
	return a.Sig.MarshalBCS(s)
}

func (a *MultiEd25519Authenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	pub := &crypto.MultiEd25519PublicKey{}
	if err := pub.UnmarshalBCS(d); err != nil {
		return err
	}
	sig := &crypto.MultiEd25519Signature{}
	if err := sig.UnmarshalBCS(d); err != nil {
		return err
	}
	a.PubKey, a.Sig = pub, sig
	return nil
}

// SingleKeyAuthenticator is the unified single-key form: scheme-tagged key
// and signature, self-describing across Ed25519, secp256k1, and keyless.
type SingleKeyAuthenticator struct {
	PubKey *crypto.AnyPublicKey
	Sig    *crypto.AnySignature
}

func (a *SingleKeyAuthenticator) Verify(message []byte) bool {
	return a.PubKey.VerifySignature(message, a.Sig)
}

func (a *SingleKeyAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	if err := a.PubKey.MarshalBCS(s); err != nil {
		return err
	}
	return a.Sig.MarshalBCS(s)
}

func (a *SingleKeyAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	pub := &crypto.AnyPublicKey{}
	if err := pub.UnmarshalBCS(d); err != nil {
		return err
	}
	sig := &crypto.AnySignature{}
	if err := sig.UnmarshalBCS(d); err != nil {
		return err
	}
	a.PubKey, a.Sig = pub, sig
	return nil
}

// MultiKeyAuthenticator is the unified K-of-N form: the full member key set
// plus the bitmap-indexed signature collection.
type MultiKeyAuthenticator struct {
	PubKey *crypto.MultiKey
	Sig    *crypto.MultiKeySignature
}

func (a *MultiKeyAuthenticator) Verify(message []byte) bool {
	return a.PubKey.VerifySignature(message, a.Sig)
}

func (a *MultiKeyAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	if err := a.PubKey.MarshalBCS(s); err != nil {
		return err
	}
	return a.Sig.MarshalBCS(s)
}

func (a *MultiKeyAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	pub := &crypto.MultiKey{}
	if err := pub.UnmarshalBCS(d); err != nil {
		return err
	}
	sig := &crypto.MultiKeySignature{}
	if err := sig.UnmarshalBCS(d); err != nil {
		return err
	}
	a.PubKey, a.Sig = pub, sig
	return nil
}

// ============================================================================
// Transaction Authenticator
// ============================================================================

// TransactionAuthenticatorVariant is the ULEB128 tag selecting a
// transaction-level authenticator form.
type TransactionAuthenticatorVariant uint32

const (
	TransactionAuthenticatorEd25519      TransactionAuthenticatorVariant = 0
	TransactionAuthenticatorMultiEd25519 TransactionAuthenticatorVariant = 1
	TransactionAuthenticatorMultiAgent   TransactionAuthenticatorVariant = 2
	TransactionAuthenticatorFeePayer     TransactionAuthenticatorVariant = 3
	TransactionAuthenticatorSingleSender TransactionAuthenticatorVariant = 4
)

// TransactionAuthenticatorImpl is one member of the transaction
// authenticator union.
type TransactionAuthenticatorImpl interface {
	bcs.Marshaler
	// Verify reports whether every signature the authenticator carries
	// covers the signing message the raw transaction implies for this
	// authenticator shape.
	Verify(raw *RawTransaction) bool
}

// TransactionAuthenticator couples a raw transaction with the complete set
// of approvals the ledger requires: sender, optional secondary signers, and
// optional fee payer.
type TransactionAuthenticator struct {
	Variant TransactionAuthenticatorVariant
	Auth    TransactionAuthenticatorImpl
}

// NewTransactionAuthenticator wraps a sender account authenticator in the
// transaction-level form matching its scheme: the legacy variants keep their
// dedicated tags, everything else rides in SingleSender.
func NewTransactionAuthenticator(sender AccountAuthenticator) TransactionAuthenticator {
	switch sender.Variant {
	case AccountAuthenticatorEd25519:
		return TransactionAuthenticator{
			Variant: TransactionAuthenticatorEd25519,
			Auth:    &Ed25519TxnAuthenticator{Sender: sender.Auth.(*Ed25519Authenticator)},
		}
	case AccountAuthenticatorMultiEd25519:
		return TransactionAuthenticator{
			Variant: TransactionAuthenticatorMultiEd25519,
			Auth:    &MultiEd25519TxnAuthenticator{Sender: sender.Auth.(*MultiEd25519Authenticator)},
		}
	default:
		return TransactionAuthenticator{
			Variant: TransactionAuthenticatorSingleSender,
			Auth:    &SingleSenderTxnAuthenticator{Sender: sender},
		}
	}
}

// Verify reports whether every carried signature covers the transaction.
func (a TransactionAuthenticator) Verify(raw *RawTransaction) bool {
	return a.Auth.Verify(raw)
}

// MarshalBCS writes the variant tag then the member's fields.
func (a TransactionAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(uint64(a.Variant))
	return a.Auth.MarshalBCS(s)
}

// UnmarshalBCS reads the variant tag and dispatches to the matching member.
func (a *TransactionAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch TransactionAuthenticatorVariant(tag) {
	case TransactionAuthenticatorEd25519:
		a.Auth = &Ed25519TxnAuthenticator{}
	case TransactionAuthenticatorMultiEd25519:
		a.Auth = &MultiEd25519TxnAuthenticator{}
	case TransactionAuthenticatorMultiAgent:
		a.Auth = &MultiAgentTxnAuthenticator{}
	case TransactionAuthenticatorFeePayer:
		a.Auth = &FeePayerTxnAuthenticator{}
	case TransactionAuthenticatorSingleSender:
		a.Auth = &SingleSenderTxnAuthenticator{}
	default:
		return fmt.Errorf("%w: transaction authenticator variant %d", bcs.ErrInvalidVariant, tag)
	}
	a.Variant = TransactionAuthenticatorVariant(tag)
	return a.Auth.(bcs.Unmarshaler).UnmarshalBCS(d)
}

// Ed25519TxnAuthenticator is the legacy single-sender transaction form.
// The inner pair is carried without an account-authenticator tag.
type Ed25519TxnAuthenticator struct {
	Sender *Ed25519Authenticator
}

func (a *Ed25519TxnAuthenticator) Verify(raw *RawTransaction) bool {
	message, err := raw.SigningMessage()
	if err != nil {
		return false
	}
	return a.Sender.Verify(message)
}

func (a *Ed25519TxnAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	return a.Sender.MarshalBCS(s)
}

func (a *Ed25519TxnAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	sender := &Ed25519Authenticator{}
	if err := sender.UnmarshalBCS(d); err != nil {
		return err
	}
	a.Sender = sender
	return nil
}

// MultiEd25519TxnAuthenticator is the legacy multi-signature transaction
// form.
type MultiEd25519TxnAuthenticator struct {
	Sender *MultiEd25519Authenticator
}

func (a *MultiEd25519TxnAuthenticator) Verify(raw *RawTransaction) bool {
	message, err := raw.SigningMessage()
	if err != nil {
		return false
	}
	return a.Sender.Verify(message)
}

func (a *MultiEd25519TxnAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	return a.Sender.MarshalBCS(s)
}

func (a *MultiEd25519TxnAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	sender := &MultiEd25519Authenticator{}
	if err := sender.UnmarshalBCS(d); err != nil {
		return err
	}
	a.Sender = sender
	return nil
}

// SingleSenderTxnAuthenticator carries any single account authenticator as
// the sole sender approval.
type SingleSenderTxnAuthenticator struct {
	Sender AccountAuthenticator
}

func (a *SingleSenderTxnAuthenticator) Verify(raw *RawTransaction) bool {
	message, err := raw.SigningMessage()
	if err != nil {
		return false
	}
	return a.Sender.Verify(message)
}

func (a *SingleSenderTxnAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	return a.Sender.MarshalBCS(s)
}

func (a *SingleSenderTxnAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	return a.Sender.UnmarshalBCS(d)
}

// MultiAgentTxnAuthenticator carries the sender approval plus the ordered
// secondary signer approvals.
//
// INVARIANT: SecondaryAddresses and SecondaryAuths are index-aligned, and
// the address order matches the order used to build the signing message.
type MultiAgentTxnAuthenticator struct {
	Sender             AccountAuthenticator
	SecondaryAddresses []AccountAddress
	SecondaryAuths     []AccountAuthenticator
}

func (a *MultiAgentTxnAuthenticator) Verify(raw *RawTransaction) bool {
	if len(a.SecondaryAddresses) != len(a.SecondaryAuths) {
		return false
	}
	extended := &MultiAgentRawTransaction{Raw: *raw, SecondarySigners: a.SecondaryAddresses}
	message, err := extended.SigningMessage()
	if err != nil {
		return false
	}
	if !a.Sender.Verify(message) {
		return false
	}
	for _, auth := range a.SecondaryAuths {
		if !auth.Verify(message) {
			return false
		}
	}
	return true
}

func (a *MultiAgentTxnAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	if err := a.Sender.MarshalBCS(s); err != nil {
		return err
	}
	if err := bcs.SerializeSequence(s, a.SecondaryAddresses); err != nil {
		return err
	}
	return bcs.SerializeSequence(s, a.SecondaryAuths)
}

func (a *MultiAgentTxnAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := a.Sender.UnmarshalBCS(d); err != nil {
		return err
	}
	addrs, err := bcs.DeserializeSequence[AccountAddress](d)
	if err != nil {
		return err
	}
	auths, err := bcs.DeserializeSequence[AccountAuthenticator](d)
	if err != nil {
		return err
	}
	if len(addrs) != len(auths) {
		return fmt.Errorf("%w: %d addresses, %d authenticators",
			ErrSignerCountMismatch, len(addrs), len(auths))
	}
	a.SecondaryAddresses, a.SecondaryAuths = addrs, auths
	return nil
}

// FeePayerTxnAuthenticator extends the multi-agent form with the fee payer's
// address and approval.
type FeePayerTxnAuthenticator struct {
	Sender             AccountAuthenticator
	SecondaryAddresses []AccountAddress
	SecondaryAuths     []AccountAuthenticator
	FeePayerAddress    AccountAddress
	FeePayerAuth       AccountAuthenticator
}

func (a *FeePayerTxnAuthenticator) Verify(raw *RawTransaction) bool {
	if len(a.SecondaryAddresses) != len(a.SecondaryAuths) {
		return false
	}
	extended := &FeePayerRawTransaction{
		Raw:              *raw,
		SecondarySigners: a.SecondaryAddresses,
		FeePayer:         a.FeePayerAddress,
	}
	message, err := extended.SigningMessage()
	if err != nil {
		return false
	}
	if !a.Sender.Verify(message) {
		return false
	}
	for _, auth := range a.SecondaryAuths {
		if !auth.Verify(message) {
			return false
		}
	}
	return a.FeePayerAuth.Verify(message)
}

func (a *FeePayerTxnAuthenticator) MarshalBCS(s *bcs.Serializer) error {
	if err := a.Sender.MarshalBCS(s); err != nil {
		return err
	}
	if err := bcs.SerializeSequence(s, a.SecondaryAddresses); err != nil {
		return err
	}
	if err := bcs.SerializeSequence(s, a.SecondaryAuths); err != nil {
		return err
	}
	if err := a.FeePayerAddress.MarshalBCS(s); err != nil {
		return err
	}
	return a.FeePayerAuth.MarshalBCS(s)
}

func (a *FeePayerTxnAuthenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := a.Sender.UnmarshalBCS(d); err != nil {
		return err
	}
	addrs, err := bcs.DeserializeSequence[AccountAddress](d)
	if err != nil {
		return err
	}
	auths, err := bcs.DeserializeSequence[AccountAuthenticator](d)
	if err != nil {
		return err
	}
	if len(addrs) != len(auths) {
		return fmt.Errorf("%w: %d addresses, %d authenticators",
			ErrSignerCountMismatch, len(addrs), len(auths))
	}
	var feePayer AccountAddress
	if err := feePayer.UnmarshalBCS(d); err != nil {
		return err
	}
	var feePayerAuth AccountAuthenticator
	if err := feePayerAuth.UnmarshalBCS(d); err != nil {
		return err
	}
	a.SecondaryAddresses, a.SecondaryAuths = addrs, auths
	a.FeePayerAddress, a.FeePayerAuth = feePayer, feePayerAuth
	return nil
}
