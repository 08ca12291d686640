package account

import (
	"github.com/blockberries/bramble-sdk/crypto"
	"github.com/blockberries/bramble-sdk/types"
)

// Ed25519Account signs under the legacy Ed25519 scheme: bare key and
// signature, scheme byte 0x00 in the authentication key.
type Ed25519Account struct {
	priv    *crypto.Ed25519PrivateKey
	address types.AccountAddress
}

// GenerateEd25519Account creates a legacy account with a fresh random key.
func GenerateEd25519Account() (*Ed25519Account, error) {
	priv, err := crypto.GenerateEd25519PrivateKey()
	if err != nil {
		return nil, err
	}
	return NewEd25519Account(priv)
}

// NewEd25519Account binds a legacy account to priv. Without an override the
// address is derived from the key's legacy authentication key; an override
// reconstructs an existing (possibly rotated) account.
func NewEd25519Account(priv *crypto.Ed25519PrivateKey, addrOverride ...types.AccountAddress) (*Ed25519Account, error) {
	return &Ed25519Account{
		priv:    priv,
		address: resolveAddress(priv.PublicKey().AuthKey(), addrOverride),
	}, nil
}

// Ed25519AccountFromDerivationPath derives a legacy account from a mnemonic
// and BIP44 path using SLIP-10.
func Ed25519AccountFromDerivationPath(path, mnemonic string) (*Ed25519Account, error) {
	priv, err := crypto.Ed25519PrivateKeyFromDerivationPath(path, mnemonic)
	if err != nil {
		return nil, err
	}
	return NewEd25519Account(priv)
}

// Sign signs message with the bare Ed25519 key.
func (a *Ed25519Account) Sign(message []byte) (crypto.Signature, error) {
	return a.priv.Sign(message)
}

// SignTransaction signs the transaction's signing message.
func (a *Ed25519Account) SignTransaction(raw *types.RawTransaction) (crypto.Signature, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return nil, err
	}
	return a.Sign(message)
}

// SignWithAuthenticator signs and packages the legacy authenticator.
func (a *Ed25519Account) SignWithAuthenticator(message []byte) (types.AccountAuthenticator, error) {
	sig, err := a.priv.Sign(message)
	if err != nil {
		return types.AccountAuthenticator{}, err
	}
	return types.AccountAuthenticator{
		Variant: types.AccountAuthenticatorEd25519,
		Auth: &types.Ed25519Authenticator{
			PubKey: a.priv.PublicKey().(*crypto.Ed25519PublicKey),
			Sig:    sig.(*crypto.Ed25519Signature),
		},
	}, nil
}

// SignTransactionWithAuthenticator signs the transaction's signing message
// and packages the legacy authenticator.
func (a *Ed25519Account) SignTransactionWithAuthenticator(raw *types.RawTransaction) (types.AccountAuthenticator, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return types.AccountAuthenticator{}, err
	}
	return a.SignWithAuthenticator(message)
}

// Address returns the bound address.
func (a *Ed25519Account) Address() types.AccountAddress {
	return a.address
}

// PublicKey returns the bare Ed25519 public key.
func (a *Ed25519Account) PublicKey() crypto.PublicKey {
	return a.priv.PublicKey()
}

// Scheme returns SchemeEd25519.
func (a *Ed25519Account) Scheme() crypto.Scheme {
	return crypto.SchemeEd25519
}

// AuthKey returns the legacy authentication key of the current key.
func (a *Ed25519Account) AuthKey() crypto.AuthenticationKey {
	return a.priv.PublicKey().AuthKey()
}

// Rotate produces the account's post-rotation binding: the same address
// signing with newPriv. The on-chain rotation transaction itself is the
// caller's responsibility; after it commits, the address's authentication
// key matches the new key while the address stays fixed.
func (a *Ed25519Account) Rotate(newPriv *crypto.Ed25519PrivateKey) *Ed25519Account {
	return &Ed25519Account{priv: newPriv, address: a.address}
}
