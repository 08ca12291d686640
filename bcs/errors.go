package bcs

import "errors"

var (
	// ErrUnexpectedEOF is returned when the deserializer runs out of bytes
	// before a value is fully decoded.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrNonCanonicalUleb128 is returned when a ULEB128 encoding uses more
	// bytes than the minimal representation of its value.
	//
	// SECURITY: Accepting non-minimal varints would make the signing-message
	// encoding malleable. Rejection is a correctness requirement, not hardening.
	ErrNonCanonicalUleb128 = errors.New("non-canonical ULEB128 encoding")

	// ErrUleb128Overflow is returned when a ULEB128 value does not fit in 64 bits.
	ErrUleb128Overflow = errors.New("ULEB128 value overflows u64")

	// ErrInvalidBool is returned when a boolean byte is neither 0x00 nor 0x01.
	ErrInvalidBool = errors.New("invalid boolean byte")

	// ErrTrailingBytes is returned by top-level Unmarshal when input remains
	// after the value has been fully decoded.
	ErrTrailingBytes = errors.New("trailing bytes after value")

	// ErrInvalidVariant is returned when an enum tag does not name a known variant.
	ErrInvalidVariant = errors.New("invalid variant tag")

	// ErrValueOutOfRange is returned when a value cannot be represented in the
	// requested width (negative or too-wide big integers, oversized lengths).
	ErrValueOutOfRange = errors.New("value out of range")
)
