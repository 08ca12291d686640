package crypto

import (
	"fmt"

	"github.com/blockberries/bramble-sdk/bcs"
)

// MaxMultiKeyMembers bounds the member count so the signer bitmap fits in
// four bytes.
const MaxMultiKeyMembers = 32

// SignerBitmapSize is the fixed signer-bitmap width in bytes.
const SignerBitmapSize = 4

// SignerBitmap records which member indices of a multi-key produced
// signatures. Bit i (big-endian bit order: byte i/8, mask 0x80 >> i%8)
// is set iff member i signed.
type SignerBitmap [SignerBitmapSize]byte

// Set marks member index as having signed.
func (b *SignerBitmap) Set(index int) error {
	if index < 0 || index >= MaxMultiKeyMembers {
		return fmt.Errorf("%w: bitmap index %d out of [0,%d)", ErrBitmapMismatch, index, MaxMultiKeyMembers)
	}
	b[index/8] |= 0x80 >> (index % 8)
	return nil
}

// IsSet reports whether member index signed.
func (b SignerBitmap) IsSet(index int) bool {
	if index < 0 || index >= MaxMultiKeyMembers {
		return false
	}
	return b[index/8]&(0x80>>(index%8)) != 0
}

// Count returns the number of set bits.
func (b SignerBitmap) Count() int {
	n := 0
	for i := 0; i < MaxMultiKeyMembers; i++ {
		if b.IsSet(i) {
			n++
		}
	}
	return n
}

// MultiKey is a K-of-N public key over AnyPublicKey members.
//
// INVARIANT: 1 <= SignaturesRequired <= len(PublicKeys) <= MaxMultiKeyMembers.
// Member order is significant: it fixes the bitmap index of every member.
type MultiKey struct {
	PublicKeys         []*AnyPublicKey
	SignaturesRequired uint8
}

// NewMultiKey creates a K-of-N multi-key, validating the threshold.
func NewMultiKey(keys []*AnyPublicKey, signaturesRequired uint8) (*MultiKey, error) {
	if len(keys) == 0 || len(keys) > MaxMultiKeyMembers {
		return nil, fmt.Errorf("%w: member count %d out of [1,%d]",
			ErrInvalidThreshold, len(keys), MaxMultiKeyMembers)
	}
	if signaturesRequired == 0 || int(signaturesRequired) > len(keys) {
		return nil, fmt.Errorf("%w: %d-of-%d", ErrInvalidThreshold, signaturesRequired, len(keys))
	}
	return &MultiKey{PublicKeys: keys, SignaturesRequired: signaturesRequired}, nil
}

// Bytes returns the canonical serialization of the whole key set.
func (k *MultiKey) Bytes() []byte {
	return bcs.MustMarshal(k)
}

// Scheme returns SchemeMultiKey.
func (k *MultiKey) Scheme() Scheme {
	return SchemeMultiKey
}

// VerifySignature verifies a MultiKeySignature against message.
//
// Checks, in order: the signature is the multi-key form, its bitmap
// population matches its signature list, the set-bit count meets the
// threshold, and every listed signature verifies under the member key its
// bitmap position names.
func (k *MultiKey) VerifySignature(message []byte, sig Signature) bool {
	ms, ok := sig.(*MultiKeySignature)
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
	// A bit set beyond the member range would leave signatures unconsumed.
	return sigIdx == len(ms.Signatures)
}

// AuthKey derives the multi-key authentication key:
// SHA3-256(BCS(MultiKey) || 0x03).
func (k *MultiKey) AuthKey() AuthenticationKey {
	return DeriveAuthKey(bcs.MustMarshal(k), SchemeMultiKey)
}

// MarshalBCS writes the member sequence then the threshold byte.
func (k *MultiKey) MarshalBCS(s *bcs.Serializer) error {
	if err := bcs.SerializeSequence(s, k.PublicKeys); err != nil {
		return err
	}
	s.WriteU8(k.SignaturesRequired)
	return nil
}

// UnmarshalBCS reads the member sequence and threshold, re-validating the
// threshold invariant.
func (k *MultiKey) UnmarshalBCS(d *bcs.Deserializer) error {
	keys, err := bcs.DeserializeSequence[AnyPublicKey](d)
	if err != nil {
		return err
	}
	required, err := d.ReadU8()
	if err != nil {
		return err
	}
	ptrs := make([]*AnyPublicKey, len(keys))
	for i := range keys {
		ptrs[i] = &keys[i]
	}
	mk, err := NewMultiKey(ptrs, required)
	if err != nil {
		return err
	}
	*k = *mk
	return nil
}

// MultiKeySignature pairs an ordered signature list with the bitmap naming
// which members produced them. Signature j corresponds to the j-th set bit.
type MultiKeySignature struct {
	Signatures []*AnySignature
	Bitmap     SignerBitmap
}

// IndexedSignature is one member's contribution to a multi-key signature.
type IndexedSignature struct {
	Index     int
	Signature *AnySignature
}

// NewMultiKeySignature assembles a multi-key signature from per-member
// contributions. Input order does not matter: entries are slotted by index,
// so any assembly order produces identical wire bytes.
func NewMultiKeySignature(parts []IndexedSignature) (*MultiKeySignature, error) {
	ordered := make([]*AnySignature, MaxMultiKeyMembers)
	var bitmap SignerBitmap
	for _, p := range parts {
		if err := bitmap.Set(p.Index); err != nil {
			return nil, err
		}
		if ordered[p.Index] != nil {
			return nil, fmt.Errorf("%w: duplicate signature for member %d", ErrBitmapMismatch, p.Index)
		}
		ordered[p.Index] = p.Signature
	}

	sigs := make([]*AnySignature, 0, len(parts))
	for _, s := range ordered {
		if s != nil {
			sigs = append(sigs, s)
		}
	}
	if len(sigs) != len(parts) {
		return nil, ErrBitmapMismatch
	}
	return &MultiKeySignature{Signatures: sigs, Bitmap: bitmap}, nil
}

// Bytes returns the canonical serialization.
func (s *MultiKeySignature) Bytes() []byte {
	return bcs.MustMarshal(s)
}

// MarshalBCS writes the signature sequence then the bitmap as a byte vector.
func (s *MultiKeySignature) MarshalBCS(ser *bcs.Serializer) error {
	if err := bcs.SerializeSequence(ser, s.Signatures); err != nil {
		return err
	}
	ser.WriteBytes(s.Bitmap[:])
	return nil
}

// UnmarshalBCS reads the signature sequence and bitmap, checking that the
// bitmap population matches the signature count.
func (s *MultiKeySignature) UnmarshalBCS(d *bcs.Deserializer) error {
	sigs, err := bcs.DeserializeSequence[AnySignature](d)
	if err != nil {
		return err
	}
	raw, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(raw) != SignerBitmapSize {
		return fmt.Errorf("%w: bitmap must be %d bytes, got %d", ErrBitmapMismatch, SignerBitmapSize, len(raw))
	}
	var bitmap SignerBitmap
	copy(bitmap[:], raw)
	if bitmap.Count() != len(sigs) {
		return fmt.Errorf("%w: %d bits set, %d signatures", ErrBitmapMismatch, bitmap.Count(), len(sigs))
	}

	ptrs := make([]*AnySignature, len(sigs))
	for i := range sigs {
		ptrs[i] = &sigs[i]
	}
	s.Signatures = ptrs
	s.Bitmap = bitmap
	return nil
}
