package bcs

import "fmt"

// Marshal serializes a value to its canonical byte encoding.
func Marshal(v Marshaler) ([]byte, error) {
	s := NewSerializer()
	if err := v.MarshalBCS(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// MustMarshal serializes a value and panics on failure.
// Intended for tests and for values whose serialization cannot fail.
func MustMarshal(v Marshaler) []byte {
	b, err := Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("bcs: marshal failed: %v", err))
	}
	return b
}

// Unmarshal decodes a top-level value from data.
//
// Top-level decodes must consume the entire input; trailing bytes are an
// error. Nested decodes use Unmarshaler directly, where the outer structure
// knows where the stream continues.
func Unmarshal(data []byte, v Unmarshaler) error {
	d := NewDeserializer(data)
	if err := v.UnmarshalBCS(d); err != nil {
		return err
	}
	if d.Remaining() != 0 {
		return fmt.Errorf("%w: %d bytes remain", ErrTrailingBytes, d.Remaining())
	}
	return nil
}

// SerializeSequence writes a ULEB128 count followed by each element's
// encoding, preserving order.
func SerializeSequence[T Marshaler](s *Serializer, items []T) error {
	s.WriteUleb128(uint64(len(items)))
	for i := range items {
		if err := items[i].MarshalBCS(s); err != nil {
			return fmt.Errorf("sequence element %d: %w", i, err)
		}
	}
	return nil
}

// DeserializeSequence reads a ULEB128 count followed by that many elements.
//
// The count is validated against the remaining input before any allocation,
// so a forged length prefix cannot trigger an oversized allocation.
func DeserializeSequence[T any, PT interface {
	Unmarshaler
	*T
}](d *Deserializer) ([]T, error) {
	n, err := d.ReadUleb128()
	if err != nil {
		return nil, err
	}
	// Every element occupies at least one byte on the wire.
	if n > uint64(d.Remaining()) {
		return nil, fmt.Errorf("%w: sequence of %d elements exceeds %d remaining bytes",
			ErrUnexpectedEOF, n, d.Remaining())
	}
	items := make([]T, n)
	for i := range items {
		if err := PT(&items[i]).UnmarshalBCS(d); err != nil {
			return nil, fmt.Errorf("sequence element %d: %w", i, err)
		}
	}
	return items, nil
}

// SerializeOption writes a presence byte, then the value's encoding iff
// v is non-nil.
func SerializeOption[T Marshaler](s *Serializer, v *T) error {
	if v == nil {
		s.WriteBool(false)
		return nil
	}
	s.WriteBool(true)
	return (*v).MarshalBCS(s)
}

// DeserializeOption reads a presence byte and, iff set, the value.
// An absent optional reads nothing beyond the presence byte.
func DeserializeOption[T any, PT interface {
	Unmarshaler
	*T
}](d *Deserializer) (*T, error) {
	present, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	var v T
	if err := PT(&v).UnmarshalBCS(d); err != nil {
		return nil, err
	}
	return &v, nil
}
