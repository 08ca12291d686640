package crypto

import "errors"

var (
	// ErrUnsupportedScheme is returned when key generation, derivation, or
	// local verification is requested for a scheme this implementation does
	// not support. The error message names the supported schemes.
	ErrUnsupportedScheme = errors.New("unsupported signature scheme")

	// ErrInvalidKeyLength is returned when raw key bytes have the wrong size
	// for their scheme.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidSignatureLength is returned when raw signature bytes have the
	// wrong size for their scheme.
	ErrInvalidSignatureLength = errors.New("invalid signature length")

	// ErrInvalidDerivationPath is returned when a BIP44 path is malformed or
	// not acceptable for the requested scheme. No key material is produced.
	ErrInvalidDerivationPath = errors.New("invalid derivation path")

	// ErrInvalidMnemonic is returned when a mnemonic fails wordlist or
	// checksum validation. No key material is produced.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidThreshold is returned when a multi-key threshold is zero or
	// exceeds the member count.
	ErrInvalidThreshold = errors.New("invalid signature threshold")

	// ErrBitmapMismatch is returned when a multi-key signature's bitmap
	// population does not match its signature count.
	ErrBitmapMismatch = errors.New("signature bitmap does not match signature count")
)

// Keystore errors.
var (
	// ErrKeystoreNotFound is returned when a named key is not in the store.
	ErrKeystoreNotFound = errors.New("key not found in store")

	// ErrKeystoreExists is returned when storing a name that already exists.
	ErrKeystoreExists = errors.New("key already exists in store")

	// ErrKeystoreIO is returned when a backend I/O failure occurs.
	ErrKeystoreIO = errors.New("keystore I/O error")

	// ErrInvalidKeyName is returned when a key name fails validation.
	ErrInvalidKeyName = errors.New("invalid key name")

	// ErrKeychainUnavailable is returned when the OS keychain cannot be
	// accessed. Common causes:
	//   - Linux: D-Bus not running, or no secret service daemon
	//   - Headless environments: no session for authentication prompts
	ErrKeychainUnavailable = errors.New("keychain unavailable")
)
