package account

import (
	"fmt"

	"github.com/blockberries/bramble-sdk/crypto"
	"github.com/blockberries/bramble-sdk/types"
)

// SingleKeyAccount signs under the unified single-key scheme: scheme-tagged
// key and signature, scheme byte 0x02 in the authentication key. The inner
// key may be Ed25519 or secp256k1.
type SingleKeyAccount struct {
	priv    crypto.PrivateKey
	pub     *crypto.AnyPublicKey
	address types.AccountAddress
}

// GenerateSingleKeyAccount creates a unified account with a fresh random key
// of the given variant.
func GenerateSingleKeyAccount(variant crypto.AnyVariant) (*SingleKeyAccount, error) {
	var (
		priv crypto.PrivateKey
		err  error
	)
	switch variant {
	case crypto.AnyVariantEd25519:
		priv, err = crypto.GenerateEd25519PrivateKey()
	case crypto.AnyVariantSecp256k1:
		priv, err = crypto.GenerateSecp256k1PrivateKey()
	default:
		return nil, fmt.Errorf("%w: %s (supported: ed25519, secp256k1)", crypto.ErrUnsupportedScheme, variant)
	}
	if err != nil {
		return nil, err
	}
	return NewSingleKeyAccount(priv)
}

// NewSingleKeyAccount binds a unified account to priv. Without an override
// the address is derived from the wrapped key's authentication key.
func NewSingleKeyAccount(priv crypto.PrivateKey, addrOverride ...types.AccountAddress) (*SingleKeyAccount, error) {
	pub, err := crypto.WrapPublicKey(priv.PublicKey())
	if err != nil {
		return nil, err
	}
	return &SingleKeyAccount{
		priv:    priv,
		pub:     pub,
		address: resolveAddress(pub.AuthKey(), addrOverride),
	}, nil
}

// SingleKeyAccountFromDerivationPath derives a unified account of the given
// variant from a mnemonic and BIP44 path.
func SingleKeyAccountFromDerivationPath(variant crypto.AnyVariant, path, mnemonic string) (*SingleKeyAccount, error) {
	var (
		priv crypto.PrivateKey
		err  error
	)
	switch variant {
	case crypto.AnyVariantEd25519:
		priv, err = crypto.Ed25519PrivateKeyFromDerivationPath(path, mnemonic)
	case crypto.AnyVariantSecp256k1:
		priv, err = crypto.Secp256k1PrivateKeyFromDerivationPath(path, mnemonic)
	default:
		return nil, fmt.Errorf("%w: %s (supported: ed25519, secp256k1)", crypto.ErrUnsupportedScheme, variant)
	}
	if err != nil {
		return nil, err
	}
	return NewSingleKeyAccount(priv)
}

// Sign signs message and wraps the result in its scheme-tagged form.
func (a *SingleKeyAccount) Sign(message []byte) (crypto.Signature, error) {
	sig, err := a.priv.Sign(message)
	if err != nil {
		return nil, err
	}
	return crypto.WrapSignature(sig)
}

// SignTransaction signs the transaction's signing message.
func (a *SingleKeyAccount) SignTransaction(raw *types.RawTransaction) (crypto.Signature, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return nil, err
	}
	return a.Sign(message)
}

// SignWithAuthenticator signs and packages the single-key authenticator.
func (a *SingleKeyAccount) SignWithAuthenticator(message []byte) (types.AccountAuthenticator, error) {
	sig, err := a.Sign(message)
	if err != nil {
		return types.AccountAuthenticator{}, err
	}
	return types.AccountAuthenticator{
		Variant: types.AccountAuthenticatorSingleKey,
		Auth: &types.SingleKeyAuthenticator{
			PubKey: a.pub,
			Sig:    sig.(*crypto.AnySignature),
		},
	}, nil
}

// SignTransactionWithAuthenticator signs the transaction's signing message
// and packages the single-key authenticator.
func (a *SingleKeyAccount) SignTransactionWithAuthenticator(raw *types.RawTransaction) (types.AccountAuthenticator, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return types.AccountAuthenticator{}, err
	}
	return a.SignWithAuthenticator(message)
}

// Address returns the bound address.
func (a *SingleKeyAccount) Address() types.AccountAddress {
	return a.address
}

// PublicKey returns the scheme-tagged public key.
func (a *SingleKeyAccount) PublicKey() crypto.PublicKey {
	return a.pub
}

// Scheme returns SchemeSingleKey.
func (a *SingleKeyAccount) Scheme() crypto.Scheme {
	return crypto.SchemeSingleKey
}

// AuthKey returns the unified authentication key of the current key.
func (a *SingleKeyAccount) AuthKey() crypto.AuthenticationKey {
	return a.pub.AuthKey()
}

// Rotate produces the account's post-rotation binding: the same address
// signing with newPriv.
func (a *SingleKeyAccount) Rotate(newPriv crypto.PrivateKey) (*SingleKeyAccount, error) {
	return NewSingleKeyAccount(newPriv, a.address)
}
