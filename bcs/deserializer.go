package bcs

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// maxUleb128Bytes bounds a u64 ULEB128 at its widest legal encoding
// (9 full groups of 7 bits plus one final bit).
const maxUleb128Bytes = 10

// Deserializer reads values from an immutable byte buffer.
//
// INVARIANT: 0 <= pos <= len(data) at all times.
// A failed read returns an error and does not advance the cursor, so a decode
// failure never leaves a partially consumed value visible to the caller.
//
// Not safe for concurrent use; each decode owns its Deserializer.
type Deserializer struct {
	data []byte
	pos  int
}

// NewDeserializer creates a Deserializer over data.
// The buffer is not copied; callers must not mutate it during decoding.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int {
	return len(d.data) - d.pos
}

// take consumes exactly n bytes, or fails without advancing.
func (d *Deserializer) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", ErrValueOutOfRange, n)
	}
	if d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, d.Remaining())
	}
	out := d.data[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

// ReadU8 reads a fixed 1-byte unsigned integer.
func (d *Deserializer) ReadU8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a fixed 2-byte little-endian unsigned integer.
func (d *Deserializer) ReadU16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a fixed 4-byte little-endian unsigned integer.
func (d *Deserializer) ReadU32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a fixed 8-byte little-endian unsigned integer.
func (d *Deserializer) ReadU64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU128 reads a fixed 16-byte little-endian unsigned integer.
func (d *Deserializer) ReadU128() (*big.Int, error) {
	return d.readBigLE(16)
}

// ReadU256 reads a fixed 32-byte little-endian unsigned integer.
func (d *Deserializer) ReadU256() (*big.Int, error) {
	return d.readBigLE(32)
}

func (d *Deserializer) readBigLE(width int) (*big.Int, error) {
	le, err := d.take(width)
	if err != nil {
		return nil, err
	}
	be := make([]byte, width)
	for i, b := range le {
		be[width-1-i] = b
	}
	return new(big.Int).SetBytes(be), nil
}

// ReadBool reads a boolean byte.
// Any byte other than 0x00 or 0x01 is a decode error.
func (d *Deserializer) ReadBool() (bool, error) {
	b, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, b)
	}
}

// ReadUleb128 reads a canonical unsigned LEB128 value.
//
// Rejected inputs:
//   - truncated encodings (continuation bit set on the last available byte)
//   - values that overflow 64 bits
//   - non-minimal encodings: a final byte of 0x00 in a multi-byte encoding
//     contributes nothing and exists only to pad the length
//
// SECURITY: Canonical-length enforcement keeps the encoding a bijection;
// without it a signing message would have multiple valid byte forms.
func (d *Deserializer) ReadUleb128() (uint64, error) {
	var value uint64
	var shift uint
	for i := 0; i < maxUleb128Bytes; i++ {
		if d.pos+i >= len(d.data) {
			return 0, fmt.Errorf("%w: ULEB128 truncated", ErrUnexpectedEOF)
		}
		b := d.data[d.pos+i]
		group := uint64(b & 0x7f)
		if shift == 63 && group > 1 {
			return 0, ErrUleb128Overflow
		}
		value |= group << shift
		if b&0x80 == 0 {
			if i > 0 && b == 0 {
				return 0, ErrNonCanonicalUleb128
			}
			d.pos += i + 1
			return value, nil
		}
		shift += 7
	}
	return 0, ErrUleb128Overflow
}

// ReadBytes reads a byte vector: ULEB128 length prefix followed by raw bytes.
// The returned slice is a copy and safe to retain.
func (d *Deserializer) ReadBytes() ([]byte, error) {
	start := d.pos
	n, err := d.ReadUleb128()
	if err != nil {
		return nil, err
	}
	if n > uint64(d.Remaining()) {
		d.pos = start
		return nil, fmt.Errorf("%w: byte vector of length %d exceeds %d remaining bytes",
			ErrUnexpectedEOF, n, d.Remaining())
	}
	raw, err := d.take(int(n))
	if err != nil {
		d.pos = start
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

// ReadFixedBytes reads exactly n raw bytes with no length prefix.
// The returned slice is a copy and safe to retain.
func (d *Deserializer) ReadFixedBytes(n int) ([]byte, error) {
	raw, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

// ReadString reads a UTF-8 string encoded as a byte vector.
func (d *Deserializer) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
