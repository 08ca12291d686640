package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/blockberries/bramble-sdk/bcs"
)

const (
	// Ed25519PublicKeySize is the raw public key length.
	Ed25519PublicKeySize = ed25519.PublicKeySize
	// Ed25519PrivateKeySize is the seed length exposed by Bytes().
	Ed25519PrivateKeySize = ed25519.SeedSize
	// Ed25519SignatureSize is the raw signature length.
	Ed25519SignatureSize = ed25519.SignatureSize
)

// Ed25519PublicKey is an Ed25519 verification key.
//
// As a standalone PublicKey it authenticates under the legacy Ed25519
// scheme; wrap it in an AnyPublicKey for the unified single-key scheme.
// The two derive different authentication keys from the same key bytes.
type Ed25519PublicKey struct {
	key ed25519.PublicKey
}

// NewEd25519PublicKey creates a public key from 32 raw bytes.
func NewEd25519PublicKey(data []byte) (*Ed25519PublicKey, error) {
	if len(data) != Ed25519PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d",
			ErrInvalidKeyLength, Ed25519PublicKeySize, len(data))
	}
	key := make(ed25519.PublicKey, Ed25519PublicKeySize)
	copy(key, data)
	return &Ed25519PublicKey{key: key}, nil
}

// Bytes returns a copy of the raw 32-byte public key.
func (k *Ed25519PublicKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out
}

// Scheme returns the legacy Ed25519 scheme.
func (k *Ed25519PublicKey) Scheme() Scheme {
	return SchemeEd25519
}

// VerifySignature verifies an Ed25519 signature over message.
// Returns false for signatures of any other type or length.
func (k *Ed25519PublicKey) VerifySignature(message []byte, sig Signature) bool {
	s, ok := sig.(*Ed25519Signature)
	if !ok || len(s.sig) != Ed25519SignatureSize {
		return false
	}
	return ed25519.Verify(k.key, message, s.sig)
}

// AuthKey derives the legacy authentication key:
// SHA3-256(raw public key bytes || 0x00).
func (k *Ed25519PublicKey) AuthKey() AuthenticationKey {
	return DeriveAuthKey(k.key, SchemeEd25519)
}

// Equals checks public key equality in constant time.
func (k *Ed25519PublicKey) Equals(other *Ed25519PublicKey) bool {
	return other != nil && bytesEqual(k.key, other.key)
}

// MarshalBCS writes the key as a length-prefixed byte vector.
func (k *Ed25519PublicKey) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBytes(k.key)
	return nil
}

// UnmarshalBCS reads a length-prefixed byte vector and validates its size.
func (k *Ed25519PublicKey) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(data) != Ed25519PublicKeySize {
		return fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d",
			ErrInvalidKeyLength, Ed25519PublicKeySize, len(data))
	}
	k.key = ed25519.PublicKey(data)
	return nil
}

// Ed25519Signature is a 64-byte Ed25519 signature.
type Ed25519Signature struct {
	sig []byte
}

// NewEd25519Signature creates a signature from 64 raw bytes.
func NewEd25519Signature(data []byte) (*Ed25519Signature, error) {
	if len(data) != Ed25519SignatureSize {
		return nil, fmt.Errorf("%w: ed25519 signature must be %d bytes, got %d",
			ErrInvalidSignatureLength, Ed25519SignatureSize, len(data))
	}
	sig := make([]byte, Ed25519SignatureSize)
	copy(sig, data)
	return &Ed25519Signature{sig: sig}, nil
}

// Bytes returns a copy of the raw 64-byte signature.
func (s *Ed25519Signature) Bytes() []byte {
	out := make([]byte, len(s.sig))
	copy(out, s.sig)
	return out
}

// MarshalBCS writes the signature as a length-prefixed byte vector.
func (s *Ed25519Signature) MarshalBCS(ser *bcs.Serializer) error {
	ser.WriteBytes(s.sig)
	return nil
}

// UnmarshalBCS reads a length-prefixed byte vector and validates its size.
func (s *Ed25519Signature) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(data) != Ed25519SignatureSize {
		return fmt.Errorf("%w: ed25519 signature must be %d bytes, got %d",
			ErrInvalidSignatureLength, Ed25519SignatureSize, len(data))
	}
	s.sig = data
	return nil
}

// Ed25519PrivateKey is an Ed25519 signing key.
type Ed25519PrivateKey struct {
	key ed25519.PrivateKey
}

// GenerateEd25519PrivateKey generates a key from crypto/rand.
func GenerateEd25519PrivateKey() (*Ed25519PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return &Ed25519PrivateKey{key: priv}, nil
}

// NewEd25519PrivateKey creates a private key from a 32-byte seed.
// The caller should zero the input after this call returns.
func NewEd25519PrivateKey(seed []byte) (*Ed25519PrivateKey, error) {
	if len(seed) != Ed25519PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d",
			ErrInvalidKeyLength, Ed25519PrivateKeySize, len(seed))
	}
	return &Ed25519PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Bytes returns the 32-byte seed.
// WARNING: handle with care; call Zeroize when done.
func (k *Ed25519PrivateKey) Bytes() []byte {
	return k.key.Seed()
}

// Variant returns AnyVariantEd25519.
func (k *Ed25519PrivateKey) Variant() AnyVariant {
	return AnyVariantEd25519
}

// PublicKey returns the corresponding Ed25519 public key.
func (k *Ed25519PrivateKey) PublicKey() PublicKey {
	pub := k.key.Public().(ed25519.PublicKey)
	return &Ed25519PublicKey{key: pub}
}

// Sign deterministically signs message per RFC 8032.
func (k *Ed25519PrivateKey) Sign(message []byte) (Signature, error) {
	return &Ed25519Signature{sig: ed25519.Sign(k.key, message)}, nil
}

// Zeroize overwrites the private key with zeros.
func (k *Ed25519PrivateKey) Zeroize() {
	Zeroize(k.key)
}
