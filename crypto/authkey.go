package crypto

import (
	"encoding/hex"

	"github.com/blockberries/bramble-sdk/bcs"
	"golang.org/x/crypto/sha3"
)

// AuthenticationKeySize is the authentication key length in bytes.
const AuthenticationKeySize = 32

// AuthenticationKey proves control of an account address.
//
// Derived as SHA3-256(serialized public key || scheme byte). For a fresh
// account the derived address equals the authentication key; after on-chain
// key rotation the two diverge, which is why accounts accept an explicit
// address override.
type AuthenticationKey [AuthenticationKeySize]byte

// DeriveAuthKey computes SHA3-256(keyMaterial || scheme byte).
//
// INVARIANT: Deterministic; equal inputs always produce equal keys.
func DeriveAuthKey(keyMaterial []byte, scheme Scheme) AuthenticationKey {
	h := sha3.New256()
	h.Write(keyMaterial)
	h.Write([]byte{byte(scheme)})

	var out AuthenticationKey
	copy(out[:], h.Sum(nil))
	return out
}

// Bytes returns the 32 raw bytes.
func (a AuthenticationKey) Bytes() []byte {
	return a[:]
}

// String returns the 0x-prefixed full hex form.
func (a AuthenticationKey) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalBCS writes the key as 32 raw bytes, no length prefix.
func (a AuthenticationKey) MarshalBCS(s *bcs.Serializer) error {
	s.WriteFixedBytes(a[:])
	return nil
}

// UnmarshalBCS reads 32 raw bytes.
func (a *AuthenticationKey) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadFixedBytes(AuthenticationKeySize)
	if err != nil {
		return err
	}
	copy(a[:], data)
	return nil
}
