package crypto

import (
	"fmt"

	"github.com/blockberries/bramble-sdk/bcs"
)

// AnyPublicKey is the self-describing single-key wrapper: one leading
// ULEB128 variant tag ahead of the inner key's serialization, so a decoder
// can dispatch to the correct variant without external context.
//
// This wrapper is what lets single-key and multi-key accounts mix schemes
// on the wire.
type AnyPublicKey struct {
	Variant AnyVariant
	PubKey  PublicKey
}

// WrapPublicKey wraps a concrete public key in its AnyPublicKey form.
// Only keys that exist as single-key variants can be wrapped.
func WrapPublicKey(pub PublicKey) (*AnyPublicKey, error) {
	switch pub.(type) {
	case *Ed25519PublicKey:
		return &AnyPublicKey{Variant: AnyVariantEd25519, PubKey: pub}, nil
	case *Secp256k1PublicKey:
		return &AnyPublicKey{Variant: AnyVariantSecp256k1, PubKey: pub}, nil
	case *KeylessPublicKey:
		return &AnyPublicKey{Variant: AnyVariantKeyless, PubKey: pub}, nil
	default:
		return nil, fmt.Errorf("%w: %T has no single-key variant (supported: %s)",
			ErrUnsupportedScheme, pub, supportedGenerationVariants)
	}
}

// Bytes returns the inner key's raw bytes.
func (k *AnyPublicKey) Bytes() []byte {
	return k.PubKey.Bytes()
}

// Scheme returns SchemeSingleKey.
func (k *AnyPublicKey) Scheme() Scheme {
	return SchemeSingleKey
}

// VerifySignature verifies an AnySignature whose variant matches this key's.
// A bare (unwrapped) signature or a variant mismatch fails verification.
func (k *AnyPublicKey) VerifySignature(message []byte, sig Signature) bool {
	anySig, ok := sig.(*AnySignature)
	if !ok || anySig.Variant != k.Variant {
		return false
	}
	return k.PubKey.VerifySignature(message, anySig.Sig)
}

// AuthKey derives the unified authentication key:
// SHA3-256(BCS(AnyPublicKey) || 0x02).
func (k *AnyPublicKey) AuthKey() AuthenticationKey {
	return DeriveAuthKey(bcs.MustMarshal(k), SchemeSingleKey)
}

// MarshalBCS writes the variant tag then the inner key.
func (k *AnyPublicKey) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(uint64(k.Variant))
	return k.PubKey.MarshalBCS(s)
}

// UnmarshalBCS reads the variant tag and dispatches to the matching
// inner-key decoder.
func (k *AnyPublicKey) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch AnyVariant(tag) {
	case AnyVariantEd25519:
		inner := &Ed25519PublicKey{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		k.Variant, k.PubKey = AnyVariantEd25519, inner
	case AnyVariantSecp256k1:
		inner := &Secp256k1PublicKey{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		k.Variant, k.PubKey = AnyVariantSecp256k1, inner
	case AnyVariantKeyless:
		inner := &KeylessPublicKey{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		k.Variant, k.PubKey = AnyVariantKeyless, inner
	default:
		return fmt.Errorf("%w: AnyPublicKey variant %d", bcs.ErrInvalidVariant, tag)
	}
	return nil
}

// AnySignature is the self-describing signature wrapper matching AnyPublicKey.
type AnySignature struct {
	Variant AnyVariant
	Sig     Signature
}

// WrapSignature wraps a concrete signature in its AnySignature form.
func WrapSignature(sig Signature) (*AnySignature, error) {
	switch sig.(type) {
	case *Ed25519Signature:
		return &AnySignature{Variant: AnyVariantEd25519, Sig: sig}, nil
	case *Secp256k1Signature:
		return &AnySignature{Variant: AnyVariantSecp256k1, Sig: sig}, nil
	case *KeylessSignature:
		return &AnySignature{Variant: AnyVariantKeyless, Sig: sig}, nil
	default:
		return nil, fmt.Errorf("%w: %T has no single-key variant (supported: %s)",
			ErrUnsupportedScheme, sig, supportedGenerationVariants)
	}
}

// Bytes returns the inner signature's raw bytes.
func (s *AnySignature) Bytes() []byte {
	return s.Sig.Bytes()
}

// MarshalBCS writes the variant tag then the inner signature.
func (s *AnySignature) MarshalBCS(ser *bcs.Serializer) error {
	ser.WriteUleb128(uint64(s.Variant))
	return s.Sig.MarshalBCS(ser)
}

// UnmarshalBCS reads the variant tag and dispatches to the matching
// inner-signature decoder.
func (s *AnySignature) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch AnyVariant(tag) {
	case AnyVariantEd25519:
		inner := &Ed25519Signature{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		s.Variant, s.Sig = AnyVariantEd25519, inner
	case AnyVariantSecp256k1:
		inner := &Secp256k1Signature{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		s.Variant, s.Sig = AnyVariantSecp256k1, inner
	case AnyVariantKeyless:
		inner := &KeylessSignature{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		s.Variant, s.Sig = AnyVariantKeyless, inner
	default:
		return fmt.Errorf("%w: AnySignature variant %d", bcs.ErrInvalidVariant, tag)
	}
	return nil
}

// KeylessPublicKey carries a keyless public key opaquely.
//
// Keyless validity depends on on-chain JWK state, so local verification
// always fails; callers that need a definitive answer resolve it through
// the node. The opaque payload keeps multi-key sets containing keyless
// members round-trippable.
type KeylessPublicKey struct {
	data []byte
}

// Bytes returns the opaque payload.
func (k *KeylessPublicKey) Bytes() []byte {
	return k.data
}

// Scheme returns SchemeSingleKey.
func (k *KeylessPublicKey) Scheme() Scheme {
	return SchemeSingleKey
}

// VerifySignature always returns false: keyless verification requires
// on-chain JWK state and cannot be decided locally.
func (k *KeylessPublicKey) VerifySignature(message []byte, sig Signature) bool {
	return false
}

// AuthKey derives the single-key authentication key of the wrapped form.
func (k *KeylessPublicKey) AuthKey() AuthenticationKey {
	any := &AnyPublicKey{Variant: AnyVariantKeyless, PubKey: k}
	return any.AuthKey()
}

// MarshalBCS writes the opaque payload as a byte vector.
func (k *KeylessPublicKey) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBytes(k.data)
	return nil
}

// UnmarshalBCS reads the opaque payload.
func (k *KeylessPublicKey) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	k.data = data
	return nil
}

// KeylessSignature carries a keyless signature opaquely.
type KeylessSignature struct {
	data []byte
}

// Bytes returns the opaque payload.
func (s *KeylessSignature) Bytes() []byte {
	return s.data
}

// MarshalBCS writes the opaque payload as a byte vector.
func (s *KeylessSignature) MarshalBCS(ser *bcs.Serializer) error {
	ser.WriteBytes(s.data)
	return nil
}

// UnmarshalBCS reads the opaque payload.
func (s *KeylessSignature) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	s.data = data
	return nil
}
