package crypto

import (
	"fmt"

	"github.com/blockberries/bramble-sdk/bcs"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secp256k1ecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const (
	// Secp256k1PublicKeySize is the uncompressed public key length
	// (0x04 prefix plus two 32-byte coordinates), which is the wire form.
	Secp256k1PublicKeySize = 65
	// Secp256k1PrivateKeySize is the scalar length.
	Secp256k1PrivateKeySize = 32
	// Secp256k1SignatureSize is the raw (r || s) signature length.
	Secp256k1SignatureSize = 64
)

// Secp256k1PublicKey is a secp256k1 ECDSA verification key.
//
// secp256k1 has no legacy scheme: it authenticates only through the unified
// single-key scheme, so the standalone key reports SchemeSingleKey and its
// AuthKey is derived from the AnyPublicKey-wrapped form.
type Secp256k1PublicKey struct {
	key *secp256k1.PublicKey
}

// NewSecp256k1PublicKey creates a public key from 65 uncompressed bytes.
func NewSecp256k1PublicKey(data []byte) (*Secp256k1PublicKey, error) {
	if len(data) != Secp256k1PublicKeySize {
		return nil, fmt.Errorf("%w: secp256k1 public key must be %d bytes (uncompressed), got %d",
			ErrInvalidKeyLength, Secp256k1PublicKeySize, len(data))
	}
	key, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyLength, err)
	}
	return &Secp256k1PublicKey{key: key}, nil
}

// Bytes returns the 65-byte uncompressed public key.
func (k *Secp256k1PublicKey) Bytes() []byte {
	return k.key.SerializeUncompressed()
}

// Scheme returns SchemeSingleKey.
func (k *Secp256k1PublicKey) Scheme() Scheme {
	return SchemeSingleKey
}

// VerifySignature verifies an ECDSA signature over SHA3-256(message).
// Expects a 64-byte (r || s) signature; returns false on any malformed input.
func (k *Secp256k1PublicKey) VerifySignature(message []byte, sig Signature) bool {
	s, ok := sig.(*Secp256k1Signature)
	if !ok || len(s.sig) != Secp256k1SignatureSize {
		return false
	}

	var r, sv secp256k1.ModNScalar
	if overflow := r.SetByteSlice(s.sig[:32]); overflow {
		return false
	}
	if overflow := sv.SetByteSlice(s.sig[32:]); overflow {
		return false
	}

	digest := sha3.Sum256(message)
	return secp256k1ecdsa.NewSignature(&r, &sv).Verify(digest[:], k.key)
}

// AuthKey derives the single-key authentication key of the wrapped form.
func (k *Secp256k1PublicKey) AuthKey() AuthenticationKey {
	any := &AnyPublicKey{Variant: AnyVariantSecp256k1, PubKey: k}
	return any.AuthKey()
}

// Equals checks public key equality in constant time.
func (k *Secp256k1PublicKey) Equals(other *Secp256k1PublicKey) bool {
	return other != nil && bytesEqual(k.Bytes(), other.Bytes())
}

// MarshalBCS writes the key as a length-prefixed byte vector.
func (k *Secp256k1PublicKey) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBytes(k.Bytes())
	return nil
}

// UnmarshalBCS reads a length-prefixed byte vector and parses the point.
func (k *Secp256k1PublicKey) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	parsed, err := NewSecp256k1PublicKey(data)
	if err != nil {
		return err
	}
	k.key = parsed.key
	return nil
}

// Secp256k1Signature is a 64-byte (r || s) ECDSA signature.
type Secp256k1Signature struct {
	sig []byte
}

// NewSecp256k1Signature creates a signature from 64 raw bytes.
func NewSecp256k1Signature(data []byte) (*Secp256k1Signature, error) {
	if len(data) != Secp256k1SignatureSize {
		return nil, fmt.Errorf("%w: secp256k1 signature must be %d bytes, got %d",
			ErrInvalidSignatureLength, Secp256k1SignatureSize, len(data))
	}
	sig := make([]byte, Secp256k1SignatureSize)
	copy(sig, data)
	return &Secp256k1Signature{sig: sig}, nil
}

// Bytes returns the raw 64-byte signature.
func (s *Secp256k1Signature) Bytes() []byte {
	return s.sig
}

// MarshalBCS writes the signature as a length-prefixed byte vector.
func (s *Secp256k1Signature) MarshalBCS(ser *bcs.Serializer) error {
	ser.WriteBytes(s.sig)
	return nil
}

// UnmarshalBCS reads a length-prefixed byte vector and validates its size.
func (s *Secp256k1Signature) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(data) != Secp256k1SignatureSize {
		return fmt.Errorf("%w: secp256k1 signature must be %d bytes, got %d",
			ErrInvalidSignatureLength, Secp256k1SignatureSize, len(data))
	}
	s.sig = data
	return nil
}

// Secp256k1PrivateKey is a secp256k1 ECDSA signing key.
type Secp256k1PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateSecp256k1PrivateKey generates a key from crypto/rand.
func GenerateSecp256k1PrivateKey() (*Secp256k1PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}
	return &Secp256k1PrivateKey{key: key}, nil
}

// NewSecp256k1PrivateKey creates a private key from a 32-byte scalar.
// The caller should zero the input after this call returns.
func NewSecp256k1PrivateKey(data []byte) (*Secp256k1PrivateKey, error) {
	if len(data) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: secp256k1 private key must be %d bytes, got %d",
			ErrInvalidKeyLength, Secp256k1PrivateKeySize, len(data))
	}
	return &Secp256k1PrivateKey{key: secp256k1.PrivKeyFromBytes(data)}, nil
}

// Bytes returns the 32-byte scalar.
// WARNING: handle with care; call Zeroize when done.
func (k *Secp256k1PrivateKey) Bytes() []byte {
	return k.key.Serialize()
}

// Variant returns AnyVariantSecp256k1.
func (k *Secp256k1PrivateKey) Variant() AnyVariant {
	return AnyVariantSecp256k1
}

// PublicKey returns the corresponding secp256k1 public key.
func (k *Secp256k1PrivateKey) PublicKey() PublicKey {
	return &Secp256k1PublicKey{key: k.key.PubKey()}
}

// Sign signs SHA3-256(message) with an RFC 6979 deterministic nonce.
// Returns a 64-byte (r || s) signature.
func (k *Secp256k1PrivateKey) Sign(message []byte) (Signature, error) {
	digest := sha3.Sum256(message)
	sig := secp256k1ecdsa.Sign(k.key, digest[:])

	out := make([]byte, Secp256k1SignatureSize)
	r := sig.R()
	s := sig.S()
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	copy(out[:32], rBytes[:])
	copy(out[32:], sBytes[:])
	return &Secp256k1Signature{sig: out}, nil
}

// Zeroize overwrites the private key with zeros.
func (k *Secp256k1PrivateKey) Zeroize() {
	k.key.Zero()
}
