package crypto

import (
	"fmt"

	"github.com/blockberries/bramble-sdk/bcs"
)

// MultiEd25519PublicKey is the legacy K-of-N Ed25519 multi-signature key.
//
// Wire form is a single byte vector: the 32-byte member keys concatenated in
// order, followed by one threshold byte. Member order fixes bitmap indices,
// exactly as in the unified MultiKey.
type MultiEd25519PublicKey struct {
	PublicKeys         []*Ed25519PublicKey
	SignaturesRequired uint8
}

// NewMultiEd25519PublicKey creates a legacy K-of-N key, validating the
// threshold.
func NewMultiEd25519PublicKey(keys []*Ed25519PublicKey, signaturesRequired uint8) (*MultiEd25519PublicKey, error) {
	if len(keys) == 0 || len(keys) > MaxMultiKeyMembers {
		return nil, fmt.Errorf("%w: member count %d out of [1,%d]",
			ErrInvalidThreshold, len(keys), MaxMultiKeyMembers)
	}
	if signaturesRequired == 0 || int(signaturesRequired) > len(keys) {
		return nil, fmt.Errorf("%w: %d-of-%d", ErrInvalidThreshold, signaturesRequired, len(keys))
	}
	return &MultiEd25519PublicKey{PublicKeys: keys, SignaturesRequired: signaturesRequired}, nil
}

// Bytes returns the concatenated member keys followed by the threshold byte.
func (k *MultiEd25519PublicKey) Bytes() []byte {
	out := make([]byte, 0, len(k.PublicKeys)*Ed25519PublicKeySize+1)
	for _, pk := range k.PublicKeys {
		out = append(out, pk.Bytes()...)
	}
	return append(out, k.SignaturesRequired)
}

// Scheme returns SchemeMultiEd25519.
func (k *MultiEd25519PublicKey) Scheme() Scheme {
	return SchemeMultiEd25519
}

// VerifySignature verifies a MultiEd25519Signature against message.
func (k *MultiEd25519PublicKey) VerifySignature(message []byte, sig Signature) bool {
	ms, ok := sig.(*MultiEd25519Signature)
	if !ok {
		return false
	}
	if ms.Bitmap.Count() != len(ms.Signatures) {
		return false
	}
	if len(ms.Signatures) < int(k.SignaturesRequired) {
		return false
	}

	sigIdx := 0
	for member := 0; member < len(k.PublicKeys); member++ {
		if !ms.Bitmap.IsSet(member) {
			continue
		}
		if sigIdx >= len(ms.Signatures) {
			return false
		}
		if !k.PublicKeys[member].VerifySignature(message, ms.Signatures[sigIdx]) {
			return false
		}
		sigIdx++
	}
	return sigIdx == len(ms.Signatures)
}

// AuthKey derives the legacy multi-signature authentication key:
// SHA3-256(concatenated keys || threshold || 0x01).
func (k *MultiEd25519PublicKey) AuthKey() AuthenticationKey {
	return DeriveAuthKey(k.Bytes(), SchemeMultiEd25519)
}

// MarshalBCS writes the whole key set as one length-prefixed byte vector.
func (k *MultiEd25519PublicKey) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBytes(k.Bytes())
	return nil
}

// UnmarshalBCS reads the byte vector and splits it into member keys and
// threshold, re-validating the threshold invariant.
func (k *MultiEd25519PublicKey) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(data) < 1 || (len(data)-1)%Ed25519PublicKeySize != 0 {
		return fmt.Errorf("%w: multi-ed25519 public key has irregular length %d",
			ErrInvalidKeyLength, len(data))
	}
	n := (len(data) - 1) / Ed25519PublicKeySize
	keys := make([]*Ed25519PublicKey, n)
	for i := 0; i < n; i++ {
		pk, err := NewEd25519PublicKey(data[i*Ed25519PublicKeySize : (i+1)*Ed25519PublicKeySize])
		if err != nil {
			return err
		}
		keys[i] = pk
	}
	mk, err := NewMultiEd25519PublicKey(keys, data[len(data)-1])
	if err != nil {
		return err
	}
	*k = *mk
	return nil
}

// MultiEd25519Signature is the legacy multi-signature: concatenated 64-byte
// signatures in member order followed by the 4-byte signer bitmap, all in one
// byte vector.
type MultiEd25519Signature struct {
	Signatures []*Ed25519Signature
	Bitmap     SignerBitmap
}

// NewMultiEd25519Signature assembles a legacy multi-signature from
// per-member contributions, slotting by index as NewMultiKeySignature does.
func NewMultiEd25519Signature(parts []IndexedSignature) (*MultiEd25519Signature, error) {
	ordered := make([]*Ed25519Signature, MaxMultiKeyMembers)
	var bitmap SignerBitmap
	for _, p := range parts {
		inner, ok := p.Signature.Sig.(*Ed25519Signature)
		if !ok {
			return nil, fmt.Errorf("%w: legacy multi-signature member %d is not ed25519",
				ErrUnsupportedScheme, p.Index)
		}
		if err := bitmap.Set(p.Index); err != nil {
			return nil, err
		}
		if ordered[p.Index] != nil {
			return nil, fmt.Errorf("%w: duplicate signature for member %d", ErrBitmapMismatch, p.Index)
		}
		ordered[p.Index] = inner
	}

	sigs := make([]*Ed25519Signature, 0, len(parts))
	for _, s := range ordered {
		if s != nil {
			sigs = append(sigs, s)
		}
	}
	if len(sigs) != len(parts) {
		return nil, ErrBitmapMismatch
	}
	return &MultiEd25519Signature{Signatures: sigs, Bitmap: bitmap}, nil
}

// Bytes returns the concatenated signatures followed by the bitmap.
func (s *MultiEd25519Signature) Bytes() []byte {
	out := make([]byte, 0, len(s.Signatures)*Ed25519SignatureSize+SignerBitmapSize)
	for _, sig := range s.Signatures {
		out = append(out, sig.Bytes()...)
	}
	return append(out, s.Bitmap[:]...)
}

// MarshalBCS writes the whole signature as one length-prefixed byte vector.
func (s *MultiEd25519Signature) MarshalBCS(ser *bcs.Serializer) error {
	ser.WriteBytes(s.Bytes())
	return nil
}

// UnmarshalBCS reads the byte vector and splits it into signatures and
// bitmap, checking population against the signature count.
func (s *MultiEd25519Signature) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(data) < SignerBitmapSize || (len(data)-SignerBitmapSize)%Ed25519SignatureSize != 0 {
		return fmt.Errorf("%w: multi-ed25519 signature has irregular length %d",
			ErrInvalidSignatureLength, len(data))
	}
	n := (len(data) - SignerBitmapSize) / Ed25519SignatureSize
	sigs := make([]*Ed25519Signature, n)
	for i := 0; i < n; i++ {
		sig, err := NewEd25519Signature(data[i*Ed25519SignatureSize : (i+1)*Ed25519SignatureSize])
		if err != nil {
			return err
		}
		sigs[i] = sig
	}
	var bitmap SignerBitmap
	copy(bitmap[:], data[len(data)-SignerBitmapSize:])
	if bitmap.Count() != n {
		return fmt.Errorf("%w: %d bits set, %d signatures", ErrBitmapMismatch, bitmap.Count(), n)
	}
	s.Signatures = sigs
	s.Bitmap = bitmap
	return nil
}
