// Package bcs implements the canonical binary serialization scheme used for
// all on-chain data, signing messages, and authenticators.
//
// Every supported value has exactly one encoding:
//   - Fixed-width integers are little-endian with a fixed byte count.
//   - Lengths and enum tags are minimal-length unsigned LEB128.
//   - Byte vectors and sequences carry a ULEB128 count prefix.
//   - Optional values carry a single presence byte (0x00/0x01).
//   - Fixed-size byte arrays are written raw, with no prefix.
//
// INVARIANT: For every supported value v, Unmarshal(Marshal(v)) == v, and the
// encoding is the unique byte string that decodes to v.
package bcs

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Marshaler is implemented by types that can serialize themselves into a
// Serializer using a fixed field order.
type Marshaler interface {
	MarshalBCS(s *Serializer) error
}

// Unmarshaler is implemented by types that can reconstruct themselves from a
// Deserializer, consuming exactly the bytes their Marshaler produced.
type Unmarshaler interface {
	UnmarshalBCS(d *Deserializer) error
}

// Serializer writes values into a growable byte buffer.
// The zero value is ready to use.
//
// Not safe for concurrent use; each serialization owns its Serializer.
type Serializer struct {
	buf []byte
}

// NewSerializer creates a Serializer with a small preallocated buffer.
func NewSerializer() *Serializer {
	return &Serializer{buf: make([]byte, 0, 64)}
}

// Bytes returns the serialized bytes accumulated so far.
// The returned slice aliases the internal buffer; callers that keep writing
// must copy it first.
func (s *Serializer) Bytes() []byte {
	return s.buf
}

// Len returns the number of bytes written so far.
func (s *Serializer) Len() int {
	return len(s.buf)
}

// WriteU8 writes a fixed 1-byte unsigned integer.
func (s *Serializer) WriteU8(v uint8) {
	s.buf = append(s.buf, v)
}

// WriteU16 writes a fixed 2-byte little-endian unsigned integer.
func (s *Serializer) WriteU16(v uint16) {
	s.buf = binary.LittleEndian.AppendUint16(s.buf, v)
}

// WriteU32 writes a fixed 4-byte little-endian unsigned integer.
func (s *Serializer) WriteU32(v uint32) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, v)
}

// WriteU64 writes a fixed 8-byte little-endian unsigned integer.
func (s *Serializer) WriteU64(v uint64) {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, v)
}

// WriteU128 writes a fixed 16-byte little-endian unsigned integer.
// Returns ErrValueOutOfRange if v is negative or wider than 128 bits.
func (s *Serializer) WriteU128(v *big.Int) error {
	return s.writeBigLE(v, 16)
}

// WriteU256 writes a fixed 32-byte little-endian unsigned integer.
// Returns ErrValueOutOfRange if v is negative or wider than 256 bits.
func (s *Serializer) WriteU256(v *big.Int) error {
	return s.writeBigLE(v, 32)
}

// writeBigLE writes v as width little-endian bytes.
func (s *Serializer) writeBigLE(v *big.Int, width int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("%w: u%d cannot encode negative or nil value", ErrValueOutOfRange, width*8)
	}
	if v.BitLen() > width*8 {
		return fmt.Errorf("%w: value needs %d bits, u%d holds %d", ErrValueOutOfRange, v.BitLen(), width*8, width*8)
	}
	le := make([]byte, width)
	be := v.Bytes() // big-endian, minimal length
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	s.buf = append(s.buf, le...)
	return nil
}

// WriteBool writes a boolean as a single 0x00/0x01 byte.
func (s *Serializer) WriteBool(v bool) {
	if v {
		s.buf = append(s.buf, 1)
	} else {
		s.buf = append(s.buf, 0)
	}
}

// WriteUleb128 writes v as a minimal-length unsigned LEB128.
//
// INVARIANT: The emitted encoding is always canonical; the final byte never
// has the continuation bit set and is non-zero unless v == 0.
func (s *Serializer) WriteUleb128(v uint64) {
	for v >= 0x80 {
		s.buf = append(s.buf, byte(v)|0x80)
		v >>= 7
	}
	s.buf = append(s.buf, byte(v))
}

// WriteBytes writes a byte vector: ULEB128 length prefix followed by the
// raw bytes. An empty (or nil) slice encodes as the single byte 0x00.
func (s *Serializer) WriteBytes(v []byte) {
	s.WriteUleb128(uint64(len(v)))
	s.buf = append(s.buf, v...)
}

// WriteFixedBytes writes the bytes raw, with no length prefix.
// Used for fixed-size values such as 32-byte addresses and hashes, where the
// decoder knows the width from the type.
func (s *Serializer) WriteFixedBytes(v []byte) {
	s.buf = append(s.buf, v...)
}

// WriteString writes a UTF-8 string as a byte vector.
func (s *Serializer) WriteString(v string) {
	s.WriteBytes([]byte(v))
}

// WriteOptionBytes writes an optional byte vector: a presence byte followed
// by the vector encoding iff present.
func (s *Serializer) WriteOptionBytes(v []byte, present bool) {
	s.WriteBool(present)
	if present {
		s.WriteBytes(v)
	}
}
