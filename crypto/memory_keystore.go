package crypto

import "sync"

// MemoryKeystore implements Keystore with in-memory storage.
// Thread-safe via RWMutex. Keys are held in plaintext, so this store suits
// tests and ephemeral processes only.
type MemoryKeystore struct {
	mu   sync.RWMutex
	keys map[string]KeyRecord
}

// NewMemoryKeystore creates an empty in-memory keystore.
func NewMemoryKeystore() *MemoryKeystore {
	return &MemoryKeystore{keys: make(map[string]KeyRecord, 16)}
}

// Store saves a record, rejecting duplicate names.
func (m *MemoryKeystore) Store(record KeyRecord) error {
	if err := validateKeyName(record.Name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[record.Name]; exists {
		return ErrKeystoreExists
	}
	// Deep copy so later caller mutation cannot reach the stored key.
	m.keys[record.Name] = record.clone()
	return nil
}

// Load retrieves a record copy by name.
// Callers should Wipe the returned record when done.
func (m *MemoryKeystore) Load(name string) (KeyRecord, error) {
	if err := validateKeyName(name); err != nil {
		return KeyRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.keys[name]
	if !ok {
		return KeyRecord{}, ErrKeystoreNotFound
	}
	return record.clone(), nil
}

// Delete removes a record, zeroizing its key material.
func (m *MemoryKeystore) Delete(name string) error {
	if err := validateKeyName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.keys[name]
	if !ok {
		return ErrKeystoreNotFound
	}
	record.Wipe()
	delete(m.keys, name)
	return nil
}

// List returns all stored key names.
func (m *MemoryKeystore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.keys))
	for name := range m.keys {
		names = append(names, name)
	}
	return names, nil
}
