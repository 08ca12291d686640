// Package crypto provides the key, signature, and authentication-key
// primitives for the Bramble SDK.
package crypto

import "fmt"

// Scheme is the one-byte authenticator scheme discriminator. It selects both
// the authenticator shape a signer produces and the authentication-key
// derivation domain.
type Scheme uint8

const (
	// SchemeEd25519 is the legacy single-signer Ed25519 scheme.
	SchemeEd25519 Scheme = 0

	// SchemeMultiEd25519 is the legacy K-of-N Ed25519 multi-signature scheme.
	SchemeMultiEd25519 Scheme = 1

	// SchemeSingleKey is the unified single-key scheme. The public key is
	// wrapped in a scheme-tagged AnyPublicKey, making it self-describing
	// on the wire.
	SchemeSingleKey Scheme = 2

	// SchemeMultiKey is the unified K-of-N scheme over AnyPublicKey members.
	SchemeMultiKey Scheme = 3
)

// String returns a human-readable scheme name.
func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeMultiEd25519:
		return "multi-ed25519"
	case SchemeSingleKey:
		return "single-key"
	case SchemeMultiKey:
		return "multi-key"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// IsValid returns true if the scheme is a recognized discriminator.
func (s Scheme) IsValid() bool {
	switch s {
	case SchemeEd25519, SchemeMultiEd25519, SchemeSingleKey, SchemeMultiKey:
		return true
	default:
		return false
	}
}

// AnyVariant is the ULEB128 variant tag carried by AnyPublicKey and
// AnySignature wrappers.
type AnyVariant uint32

const (
	// AnyVariantEd25519 wraps an Ed25519 key or signature.
	AnyVariantEd25519 AnyVariant = 0

	// AnyVariantSecp256k1 wraps a secp256k1 ECDSA key or signature.
	AnyVariantSecp256k1 AnyVariant = 1

	// AnyVariantKeyless wraps a keyless key or signature. The payload is
	// carried opaquely: local verification depends on on-chain JWK state
	// and is resolved through the client, not here.
	AnyVariantKeyless AnyVariant = 3
)

// String returns a human-readable variant name.
func (v AnyVariant) String() string {
	switch v {
	case AnyVariantEd25519:
		return "ed25519"
	case AnyVariantSecp256k1:
		return "secp256k1"
	case AnyVariantKeyless:
		return "keyless"
	default:
		return fmt.Sprintf("variant(%d)", uint32(v))
	}
}

// supportedGenerationVariants names the variants for which this
// implementation can produce private key material.
const supportedGenerationVariants = "ed25519, secp256k1"
