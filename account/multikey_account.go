package account

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/blockberries/bramble-sdk/crypto"
	"github.com/blockberries/bramble-sdk/types"
)

// MemberKey binds one held private key to its index in a multi-key member
// list.
type MemberKey struct {
	Index int
	Key   crypto.PrivateKey
}

// MultiKeyAccount signs under the unified K-of-N scheme. It holds the full
// member public key set plus the subset of member private keys this party
// controls; signing produces contributions for exactly that subset.
type MultiKeyAccount struct {
	key     *crypto.MultiKey
	members []MemberKey
	address types.AccountAddress
}

// NewMultiKeyAccount binds a multi-key account to the key set and the held
// member keys.
//
// PRECONDITION: Every member index is in range, each held key's public key
// matches the member it claims, and enough keys are held to meet the
// threshold.
func NewMultiKeyAccount(key *crypto.MultiKey, members []MemberKey, addrOverride ...types.AccountAddress) (*MultiKeyAccount, error) {
	if len(members) < int(key.SignaturesRequired) {
		return nil, fmt.Errorf("%w: hold %d of %d required",
			ErrNotEnoughSigners, len(members), key.SignaturesRequired)
	}

	held := make([]MemberKey, len(members))
	copy(held, members)
	sort.Slice(held, func(i, j int) bool { return held[i].Index < held[j].Index })

	for _, m := range held {
		if m.Index < 0 || m.Index >= len(key.PublicKeys) {
			return nil, fmt.Errorf("%w: index %d with %d members",
				ErrMemberIndexOutOfRange, m.Index, len(key.PublicKeys))
		}
		wrapped, err := crypto.WrapPublicKey(m.Key.PublicKey())
		if err != nil {
			return nil, err
		}
		member := key.PublicKeys[m.Index]
		if member.Variant != wrapped.Variant || !bytes.Equal(member.Bytes(), wrapped.Bytes()) {
			return nil, fmt.Errorf("held key for member %d does not match the member public key", m.Index)
		}
	}

	return &MultiKeyAccount{
		key:     key,
		members: held,
		address: resolveAddress(key.AuthKey(), addrOverride),
	}, nil
}

// Sign signs message with every held member key and assembles the bitmap
// signature.
func (a *MultiKeyAccount) Sign(message []byte) (crypto.Signature, error) {
	parts := make([]crypto.IndexedSignature, 0, len(a.members))
	for _, m := range a.members {
		sig, err := m.Key.Sign(message)
		if err != nil {
			return nil, err
		}
		wrapped, err := crypto.WrapSignature(sig)
		if err != nil {
			return nil, err
		}
		parts = append(parts, crypto.IndexedSignature{Index: m.Index, Signature: wrapped})
	}
	return crypto.NewMultiKeySignature(parts)
}

// SignTransaction signs the transaction's signing message.
func (a *MultiKeyAccount) SignTransaction(raw *types.RawTransaction) (crypto.Signature, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return nil, err
	}
	return a.Sign(message)
}

// SignWithAuthenticator signs and packages the multi-key authenticator.
func (a *MultiKeyAccount) SignWithAuthenticator(message []byte) (types.AccountAuthenticator, error) {
	sig, err := a.Sign(message)
	if err != nil {
		return types.AccountAuthenticator{}, err
	}
	return types.AccountAuthenticator{
		Variant: types.AccountAuthenticatorMultiKey,
		Auth: &types.MultiKeyAuthenticator{
			PubKey: a.key,
			Sig:    sig.(*crypto.MultiKeySignature),
		},
	}, nil
}

// SignTransactionWithAuthenticator signs the transaction's signing message
// and packages the multi-key authenticator.
func (a *MultiKeyAccount) SignTransactionWithAuthenticator(raw *types.RawTransaction) (types.AccountAuthenticator, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return types.AccountAuthenticator{}, err
	}
	return a.SignWithAuthenticator(message)
}

// Address returns the bound address.
func (a *MultiKeyAccount) Address() types.AccountAddress {
	return a.address
}

// PublicKey returns the full member key set.
func (a *MultiKeyAccount) PublicKey() crypto.PublicKey {
	return a.key
}

// Scheme returns SchemeMultiKey.
func (a *MultiKeyAccount) Scheme() crypto.Scheme {
	return crypto.SchemeMultiKey
}

// AuthKey returns the multi-key authentication key.
func (a *MultiKeyAccount) AuthKey() crypto.AuthenticationKey {
	return a.key.AuthKey()
}
