// Package account binds addresses to signing capabilities. An account pairs
// one address with one key variant and produces the authenticator shape its
// scheme requires.
package account

import (
	"github.com/blockberries/bramble-sdk/crypto"
	"github.com/blockberries/bramble-sdk/types"
)

// Signer is the capability an account exposes: sign bytes or transactions,
// with or without authenticator packaging.
type Signer interface {
	// Sign signs an arbitrary byte message.
	Sign(message []byte) (crypto.Signature, error)

	// SignTransaction derives the transaction's signing message and signs it.
	SignTransaction(raw *types.RawTransaction) (crypto.Signature, error)

	// SignWithAuthenticator signs and packages the result with the public
	// key in the scheme's authenticator shape.
	SignWithAuthenticator(message []byte) (types.AccountAuthenticator, error)

	// SignTransactionWithAuthenticator combines SignTransaction and
	// authenticator packaging.
	SignTransactionWithAuthenticator(raw *types.RawTransaction) (types.AccountAuthenticator, error)

	// Address returns the bound account address.
	Address() types.AccountAddress

	// PublicKey returns the verification key.
	PublicKey() crypto.PublicKey

	// Scheme returns the authenticator scheme the account signs under.
	Scheme() crypto.Scheme

	// AuthKey returns the authentication key the current key material
	// derives. After rotation this differs from the address.
	AuthKey() crypto.AuthenticationKey
}

// resolveAddress picks the explicit override when given, otherwise the
// address a fresh authentication key derives.
func resolveAddress(ak crypto.AuthenticationKey, override []types.AccountAddress) types.AccountAddress {
	if len(override) > 0 {
		return override[0]
	}
	return types.AddressFromAuthKey(ak)
}

// FromPrivateKey builds a signer for an arbitrary private key.
//
// A secp256k1 key only exists under the unified scheme and resolves
// directly. A bare Ed25519 key is ambiguous: with an explicit address the
// legacy scheme is assumed (matching pre-unified accounts), without one the
// ambiguity is surfaced as ErrSchemeAmbiguous rather than guessed. Callers
// that need the definitive answer for an existing address resolve it
// against the on-chain authentication key.
func FromPrivateKey(priv crypto.PrivateKey, addrOverride ...types.AccountAddress) (Signer, error) {
	switch key := priv.(type) {
	case *crypto.Ed25519PrivateKey:
		if len(addrOverride) == 0 {
			return nil, ErrSchemeAmbiguous
		}
		return NewEd25519Account(key, addrOverride...)
	default:
		return NewSingleKeyAccount(priv, addrOverride...)
	}
}
