package crypto

import (
	"fmt"
	"strings"
)

// Keystore provides named persistent storage for account signing keys.
// Implementations must be thread-safe.
type Keystore interface {
	// Store saves a key record under record.Name.
	// Returns ErrKeystoreExists if the name is already taken.
	Store(record KeyRecord) error

	// Load retrieves a key record by name.
	// Returns ErrKeystoreNotFound if the name is unknown.
	Load(name string) (KeyRecord, error)

	// Delete removes a key record.
	// Returns ErrKeystoreNotFound if the name is unknown.
	Delete(name string) error

	// List returns all stored key names.
	List() ([]string, error)
}

// KeyRecord is a stored private key with the metadata needed to
// reconstruct it.
type KeyRecord struct {
	// Name is the unique identifier for this key.
	Name string `json:"name"`

	// Variant names the key's scheme so PrivateKey can reconstruct it.
	Variant AnyVariant `json:"variant"`

	// KeyData is the raw private key bytes.
	KeyData []byte `json:"key_data"`
}

// PrivateKey reconstructs the signing key from the record.
func (r KeyRecord) PrivateKey() (PrivateKey, error) {
	return PrivateKeyFromBytes(r.Variant, r.KeyData)
}

// Wipe zeroizes the record's key material.
func (r *KeyRecord) Wipe() {
	Zeroize(r.KeyData)
}

// clone deep-copies a record so stores never share byte slices with callers.
func (r KeyRecord) clone() KeyRecord {
	out := KeyRecord{Name: r.Name, Variant: r.Variant}
	if r.KeyData != nil {
		out.KeyData = make([]byte, len(r.KeyData))
		copy(out.KeyData, r.KeyData)
	}
	return out
}

// NewKeyRecord captures a private key under a name.
func NewKeyRecord(name string, key PrivateKey) (KeyRecord, error) {
	if err := validateKeyName(name); err != nil {
		return KeyRecord{}, err
	}
	data := key.Bytes()
	record := KeyRecord{Name: name, Variant: key.Variant()}
	record.KeyData = make([]byte, len(data))
	copy(record.KeyData, data)
	return record, nil
}

// PrivateKeyFromBytes reconstructs a private key of the given variant from
// raw bytes. Keyless has no local key material and is rejected.
func PrivateKeyFromBytes(variant AnyVariant, data []byte) (PrivateKey, error) {
	switch variant {
	case AnyVariantEd25519:
		return NewEd25519PrivateKey(data)
	case AnyVariantSecp256k1:
		return NewSecp256k1PrivateKey(data)
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)",
			ErrUnsupportedScheme, variant, supportedGenerationVariants)
	}
}

// validateKeyName enforces the naming rules shared by every store backend:
// non-empty, at most 255 bytes, no path separators or control characters.
func validateKeyName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidKeyName)
	}
	if len(name) > 255 {
		return fmt.Errorf("%w: name exceeds 255 bytes", ErrInvalidKeyName)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: name contains forbidden characters", ErrInvalidKeyName)
	}
	return nil
}
