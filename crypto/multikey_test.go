package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/bramble-sdk/bcs"
)

// newTestMultiKey builds an n-member multi-key and returns the member
// private keys alongside it.
func newTestMultiKey(t *testing.T, n int, required uint8) (*MultiKey, []*Ed25519PrivateKey) {
	t.Helper()

	privs := make([]*Ed25519PrivateKey, n)
	pubs := make([]*AnyPublicKey, n)
	for i := 0; i < n; i++ {
		priv, err := GenerateEd25519PrivateKey()
		require.NoError(t, err)
		privs[i] = priv
		wrapped, err := WrapPublicKey(priv.PublicKey())
		require.NoError(t, err)
		pubs[i] = wrapped
	}
	mk, err := NewMultiKey(pubs, required)
	require.NoError(t, err)
	return mk, privs
}

// signMember produces member i's wrapped signature over message.
func signMember(t *testing.T, priv *Ed25519PrivateKey, index int, message []byte) IndexedSignature {
	t.Helper()
	sig, err := priv.Sign(message)
	require.NoError(t, err)
	wrapped, err := WrapSignature(sig)
	require.NoError(t, err)
	return IndexedSignature{Index: index, Signature: wrapped}
}

func TestNewMultiKey_InvalidThreshold(t *testing.T) {
	priv, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	wrapped, err := WrapPublicKey(priv.PublicKey())
	require.NoError(t, err)

	_, err = NewMultiKey([]*AnyPublicKey{wrapped}, 0)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewMultiKey([]*AnyPublicKey{wrapped}, 2)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewMultiKey(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestMultiKey_SignVerify(t *testing.T) {
	mk, privs := newTestMultiKey(t, 3, 2)
	message := []byte("2 of 3")

	sig, err := NewMultiKeySignature([]IndexedSignature{
		signMember(t, privs[0], 0, message),
		signMember(t, privs[2], 2, message),
	})
	require.NoError(t, err)

	assert.True(t, mk.VerifySignature(message, sig))
	assert.True(t, sig.Bitmap.IsSet(0))
	assert.False(t, sig.Bitmap.IsSet(1))
	assert.True(t, sig.Bitmap.IsSet(2))
}

func TestMultiKey_BelowThreshold(t *testing.T) {
	mk, privs := newTestMultiKey(t, 3, 2)
	message := []byte("1 of 3")

	sig, err := NewMultiKeySignature([]IndexedSignature{
		signMember(t, privs[1], 1, message),
	})
	require.NoError(t, err)

	assert.False(t, mk.VerifySignature(message, sig))
}

// A signature slotted under the wrong member index must not verify.
func TestMultiKey_WrongIndex(t *testing.T) {
	mk, privs := newTestMultiKey(t, 3, 2)
	message := []byte("index swap")

	sig, err := NewMultiKeySignature([]IndexedSignature{
		signMember(t, privs[0], 1, message), // member 0's signature under index 1
		signMember(t, privs[2], 2, message),
	})
	require.NoError(t, err)

	assert.False(t, mk.VerifySignature(message, sig))
}

// Assembly order must not affect the wire bytes: contributions are slotted
// by member index.
func TestMultiKeySignature_OrderIndependent(t *testing.T) {
	_, privs := newTestMultiKey(t, 3, 2)
	message := []byte("order independence")

	a := signMember(t, privs[0], 0, message)
	b := signMember(t, privs[2], 2, message)

	sigAB, err := NewMultiKeySignature([]IndexedSignature{a, b})
	require.NoError(t, err)
	sigBA, err := NewMultiKeySignature([]IndexedSignature{b, a})
	require.NoError(t, err)

	assert.Equal(t, bcs.MustMarshal(sigAB), bcs.MustMarshal(sigBA))
}

func TestMultiKeySignature_DuplicateIndex(t *testing.T) {
	_, privs := newTestMultiKey(t, 2, 1)
	message := []byte("dup")

	a := signMember(t, privs[0], 0, message)
	_, err := NewMultiKeySignature([]IndexedSignature{a, a})
	assert.ErrorIs(t, err, ErrBitmapMismatch)
}

func TestMultiKey_BCSRoundTrip(t *testing.T) {
	mk, privs := newTestMultiKey(t, 3, 2)
	message := []byte("round trip")

	data := bcs.MustMarshal(mk)
	var outKey MultiKey
	require.NoError(t, bcs.Unmarshal(data, &outKey))
	assert.Equal(t, mk.SignaturesRequired, outKey.SignaturesRequired)
	assert.Len(t, outKey.PublicKeys, 3)
	assert.Equal(t, mk.AuthKey(), outKey.AuthKey())

	sig, err := NewMultiKeySignature([]IndexedSignature{
		signMember(t, privs[0], 0, message),
		signMember(t, privs[1], 1, message),
	})
	require.NoError(t, err)

	sigData := bcs.MustMarshal(sig)
	var outSig MultiKeySignature
	require.NoError(t, bcs.Unmarshal(sigData, &outSig))
	assert.True(t, outKey.VerifySignature(message, &outSig))
}

func TestMultiKeySignature_BitmapMismatchRejected(t *testing.T) {
	_, privs := newTestMultiKey(t, 2, 1)
	sig, err := NewMultiKeySignature([]IndexedSignature{
		signMember(t, privs[0], 0, []byte("m")),
	})
	require.NoError(t, err)

	// Set an extra bit without a matching signature.
	data := bcs.MustMarshal(sig)
	data[len(data)-SignerBitmapSize] |= 0x40

	var out MultiKeySignature
	err = bcs.Unmarshal(data, &out)
	assert.ErrorIs(t, err, ErrBitmapMismatch)
}

// ============================================================================
// Legacy MultiEd25519 Tests
// ============================================================================

func TestMultiEd25519_SignVerifyRoundTrip(t *testing.T) {
	privs := make([]*Ed25519PrivateKey, 3)
	pubs := make([]*Ed25519PublicKey, 3)
	for i := range privs {
		priv, err := GenerateEd25519PrivateKey()
		require.NoError(t, err)
		privs[i] = priv
		pubs[i] = priv.PublicKey().(*Ed25519PublicKey)
	}

	mk, err := NewMultiEd25519PublicKey(pubs, 2)
	require.NoError(t, err)

	message := []byte("legacy 2 of 3")
	sig, err := NewMultiEd25519Signature([]IndexedSignature{
		signMember(t, privs[1], 1, message),
		signMember(t, privs[2], 2, message),
	})
	require.NoError(t, err)
	assert.True(t, mk.VerifySignature(message, sig))

	keyData := bcs.MustMarshal(mk)
	var outKey MultiEd25519PublicKey
	require.NoError(t, bcs.Unmarshal(keyData, &outKey))
	assert.Equal(t, mk.AuthKey(), outKey.AuthKey())

	sigData := bcs.MustMarshal(sig)
	var outSig MultiEd25519Signature
	require.NoError(t, bcs.Unmarshal(sigData, &outSig))
	assert.True(t, outKey.VerifySignature(message, &outSig))
}

func TestMultiEd25519_IrregularLengthRejected(t *testing.T) {
	var out MultiEd25519PublicKey
	// 34 bytes: not a whole number of 32-byte keys plus threshold.
	err := bcs.Unmarshal(append([]byte{34}, make([]byte, 34)...), &out)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	// 33 bytes parses as one key plus threshold, but threshold zero is
	// rejected.
	err = bcs.Unmarshal(append([]byte{33}, make([]byte, 33)...), &out)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}
