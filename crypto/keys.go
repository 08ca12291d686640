package crypto

import (
	"crypto/subtle"
	"runtime"

	"github.com/blockberries/bramble-sdk/bcs"
)

// Zeroize securely overwrites a byte slice with zeros.
// Used to clear sensitive data (private keys, seeds) from memory.
//
// subtle.XORBytes(b, b, b) XORs each byte with itself; crypto/subtle
// functions resist dead-store elimination, and runtime.KeepAlive keeps the
// slice live until the zeroing completes.
func Zeroize(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.XORBytes(b, b, b)
	runtime.KeepAlive(b)
}

// PublicKey is a verification key of any supported scheme.
//
// Every public key serializes itself canonically (bcs.Marshaler) and derives
// its own authentication key; the scheme byte folded into the derivation is
// fixed by the concrete type.
type PublicKey interface {
	bcs.Marshaler

	// Bytes returns the raw public key bytes (no scheme tag, no length prefix).
	Bytes() []byte

	// Scheme returns the authenticator scheme this key authenticates under.
	Scheme() Scheme

	// VerifySignature verifies a signature over message.
	// Never panics or errors on malformed input: a signature of the wrong
	// type, length, or scheme simply fails verification.
	VerifySignature(message []byte, sig Signature) bool

	// AuthKey derives the authentication key:
	// SHA3-256(serialized public key || scheme byte).
	AuthKey() AuthenticationKey
}

// Signature is a signature of any supported scheme.
type Signature interface {
	bcs.Marshaler

	// Bytes returns the raw signature bytes.
	Bytes() []byte
}

// PrivateKey is a signing key of any supported single-signer scheme.
type PrivateKey interface {
	// Bytes returns the raw private key bytes.
	// WARNING: handle with care; call Zeroize when done.
	Bytes() []byte

	// Variant returns the AnyPublicKey variant of the corresponding public key.
	Variant() AnyVariant

	// PublicKey returns the corresponding public key.
	PublicKey() PublicKey

	// Sign deterministically signs message.
	Sign(message []byte) (Signature, error)

	// Zeroize overwrites the private key bytes with zeros.
	// After calling Zeroize the key is no longer usable.
	Zeroize()
}

// bytesEqual compares key material in constant time.
func bytesEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
