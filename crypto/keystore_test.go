package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(t *testing.T, name string) KeyRecord {
	t.Helper()
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	record, err := NewKeyRecord(name, key)
	require.NoError(t, err)
	return record
}

func TestMemoryKeystore_StoreLoadDelete(t *testing.T) {
	ks := NewMemoryKeystore()
	record := newTestRecord(t, "alice")

	require.NoError(t, ks.Store(record))

	loaded, err := ks.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, record.Name, loaded.Name)
	assert.Equal(t, record.Variant, loaded.Variant)
	assert.Equal(t, record.KeyData, loaded.KeyData)

	// The loaded record reconstructs a working signer.
	priv, err := loaded.PrivateKey()
	require.NoError(t, err)
	sig, err := priv.Sign([]byte("hello"))
	require.NoError(t, err)
	assert.True(t, priv.PublicKey().VerifySignature([]byte("hello"), sig))

	require.NoError(t, ks.Delete("alice"))
	_, err = ks.Load("alice")
	assert.ErrorIs(t, err, ErrKeystoreNotFound)
}

func TestMemoryKeystore_DuplicateName(t *testing.T) {
	ks := NewMemoryKeystore()
	require.NoError(t, ks.Store(newTestRecord(t, "alice")))
	assert.ErrorIs(t, ks.Store(newTestRecord(t, "alice")), ErrKeystoreExists)
}

func TestMemoryKeystore_NotFound(t *testing.T) {
	ks := NewMemoryKeystore()
	_, err := ks.Load("missing")
	assert.ErrorIs(t, err, ErrKeystoreNotFound)
	assert.ErrorIs(t, ks.Delete("missing"), ErrKeystoreNotFound)
}

func TestMemoryKeystore_List(t *testing.T) {
	ks := NewMemoryKeystore()
	require.NoError(t, ks.Store(newTestRecord(t, "alice")))
	require.NoError(t, ks.Store(newTestRecord(t, "bob")))

	names, err := ks.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

// Stored records must not alias caller-held byte slices.
func TestMemoryKeystore_Isolation(t *testing.T) {
	ks := NewMemoryKeystore()
	record := newTestRecord(t, "alice")
	require.NoError(t, ks.Store(record))

	original := make([]byte, len(record.KeyData))
	copy(original, record.KeyData)

	// Wiping the caller's copy must not reach the stored record.
	record.Wipe()
	loaded, err := ks.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, original, loaded.KeyData)

	// Mutating a loaded copy must not reach the store either.
	loaded.KeyData[0] ^= 0xff
	again, err := ks.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, original, again.KeyData)
}

func TestValidateKeyName(t *testing.T) {
	ks := NewMemoryKeystore()

	invalid := []string{
		"",
		strings.Repeat("x", 256),
		"a/b",
		"a\\b",
		"a\x00b",
	}
	for _, name := range invalid {
		err := ks.Store(KeyRecord{Name: name, Variant: AnyVariantEd25519, KeyData: make([]byte, Ed25519PrivateKeySize)})
		assert.ErrorIs(t, err, ErrInvalidKeyName, "%q", name)
		_, err = ks.Load(name)
		assert.ErrorIs(t, err, ErrInvalidKeyName, "%q", name)
	}

	assert.NoError(t, ks.Store(newTestRecord(t, "dots.and-dashes_ok")))
}
