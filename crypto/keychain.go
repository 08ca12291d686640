package crypto

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	// keychainKeyPrefix namespaces key entries within the service.
	keychainKeyPrefix = "key:"
	// keychainListKey holds the name index. Keychain APIs have no native
	// "list all" operation, so an index entry is maintained alongside keys.
	keychainListKey = "_keylist"
)

// KeychainKeystore implements Keystore on the OS keychain:
//   - macOS: Keychain
//   - Windows: Credential Store
//   - Linux: Secret Service (libsecret)
//
// The keychain provides encryption at rest; records are stored as JSON.
// Thread-safe via RWMutex.
type KeychainKeystore struct {
	serviceName string
	mu          sync.RWMutex
}

// NewKeychainKeystore creates a keystore backed by the OS keychain.
// The serviceName identifies this application's keys in the keychain.
//
// Returns ErrKeychainUnavailable if the keychain cannot be accessed
// (no D-Bus / secret service daemon on Linux, headless sessions).
func NewKeychainKeystore(serviceName string) (*KeychainKeystore, error) {
	if serviceName == "" {
		return nil, fmt.Errorf("%w: service name cannot be empty", ErrKeystoreIO)
	}

	// Probe with a read so availability problems surface at construction
	// rather than on first Store.
	_, err := keyring.Get(serviceName, keychainListKey)
	if err != nil && err != keyring.ErrNotFound {
		return nil, fmt.Errorf("%w: %v", ErrKeychainUnavailable, err)
	}

	return &KeychainKeystore{serviceName: serviceName}, nil
}

// Store saves a record to the keychain, rejecting duplicate names.
func (ks *KeychainKeystore) Store(record KeyRecord) error {
	if err := validateKeyName(record.Name); err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	entry := keychainKeyPrefix + record.Name
	if _, err := keyring.Get(ks.serviceName, entry); err == nil {
		return ErrKeystoreExists
	} else if err != keyring.ErrNotFound {
		return fmt.Errorf("%w: failed to check existing key: %v", ErrKeystoreIO, err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal key record: %v", ErrKeystoreIO, err)
	}
	if err := keyring.Set(ks.serviceName, entry, string(data)); err != nil {
		return fmt.Errorf("%w: failed to store key in keychain: %v", ErrKeystoreIO, err)
	}

	if err := ks.updateIndex(func(names []string) []string {
		return append(names, record.Name)
	}); err != nil {
		// Roll back the orphaned entry.
		_ = keyring.Delete(ks.serviceName, entry)
		return err
	}
	return nil
}

// Load retrieves a record from the keychain.
func (ks *KeychainKeystore) Load(name string) (KeyRecord, error) {
	if err := validateKeyName(name); err != nil {
		return KeyRecord{}, err
	}

	ks.mu.RLock()
	defer ks.mu.RUnlock()

	raw, err := keyring.Get(ks.serviceName, keychainKeyPrefix+name)
	if err == keyring.ErrNotFound {
		return KeyRecord{}, ErrKeystoreNotFound
	}
	if err != nil {
		return KeyRecord{}, fmt.Errorf("%w: failed to load key from keychain: %v", ErrKeystoreIO, err)
	}

	var record KeyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return KeyRecord{}, fmt.Errorf("%w: failed to parse key record: %v", ErrKeystoreIO, err)
	}
	return record, nil
}

// Delete removes a record from the keychain.
func (ks *KeychainKeystore) Delete(name string) error {
	if err := validateKeyName(name); err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	entry := keychainKeyPrefix + name
	if _, err := keyring.Get(ks.serviceName, entry); err == keyring.ErrNotFound {
		return ErrKeystoreNotFound
	} else if err != nil {
		return fmt.Errorf("%w: failed to check key existence: %v", ErrKeystoreIO, err)
	}

	if err := keyring.Delete(ks.serviceName, entry); err != nil {
		return fmt.Errorf("%w: failed to delete key from keychain: %v", ErrKeystoreIO, err)
	}

	// Index update failure after a successful delete is tolerated; the
	// index self-corrects on the next successful update.
	_ = ks.updateIndex(func(names []string) []string {
		out := names[:0]
		for _, n := range names {
			if n != name {
				out = append(out, n)
			}
		}
		return out
	})
	return nil
}

// List returns all stored key names from the index.
func (ks *KeychainKeystore) List() ([]string, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	names, err := ks.readIndex()
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (ks *KeychainKeystore) readIndex() ([]string, error) {
	raw, err := keyring.Get(ks.serviceName, keychainListKey)
	if err == keyring.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read key index: %v", ErrKeystoreIO, err)
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("%w: failed to parse key index: %v", ErrKeystoreIO, err)
	}
	return names, nil
}

func (ks *KeychainKeystore) updateIndex(mutate func([]string) []string) error {
	names, err := ks.readIndex()
	if err != nil {
		return err
	}
	updated, err := json.Marshal(mutate(names))
	if err != nil {
		return fmt.Errorf("%w: failed to marshal key index: %v", ErrKeystoreIO, err)
	}
	if err := keyring.Set(ks.serviceName, keychainListKey, string(updated)); err != nil {
		return fmt.Errorf("%w: failed to update key index: %v", ErrKeystoreIO, err)
	}
	return nil
}
