package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blockberries/bramble-sdk/crypto"
	"github.com/blockberries/bramble-sdk/types"
)

// ResolveOriginatingScheme determines whether addr was originated by pub
// under the legacy Ed25519 scheme or the unified single-key scheme, by
// comparing the account's on-chain authentication key against both
// derivations.
//
// The same Ed25519 key material produces different authentication keys under
// the two schemes, so the chain is the only authority on which one an
// existing account uses. Returns ErrSchemeUnresolved when neither derivation
// matches, which happens after key rotation or when pub is simply not the
// account's key.
func ResolveOriginatingScheme(ctx context.Context, node NodeAPI, addr types.AccountAddress, pub *crypto.Ed25519PublicKey) (crypto.Scheme, error) {
	info, err := node.AccountInfo(ctx, addr)
	if err != nil {
		return 0, err
	}

	onChain, err := parseAuthKey(info.AuthenticationKey)
	if err != nil {
		return 0, fmt.Errorf("account %s: %w", addr, err)
	}

	if pub.AuthKey() == onChain {
		return crypto.SchemeEd25519, nil
	}
	wrapped, err := crypto.WrapPublicKey(pub)
	if err != nil {
		return 0, err
	}
	if wrapped.AuthKey() == onChain {
		return crypto.SchemeSingleKey, nil
	}
	return 0, fmt.Errorf("%w: address %s", ErrSchemeUnresolved, addr)
}

// parseAuthKey decodes the node's 0x-prefixed hex authentication key.
func parseAuthKey(s string) (crypto.AuthenticationKey, error) {
	var out crypto.AuthenticationKey
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, fmt.Errorf("invalid authentication key %q: %w", s, err)
	}
	if len(data) != crypto.AuthenticationKeySize {
		return out, fmt.Errorf("invalid authentication key %q: got %d bytes", s, len(data))
	}
	copy(out[:], data)
	return out, nil
}
