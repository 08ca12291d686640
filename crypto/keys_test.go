package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/bramble-sdk/bcs"
)

// ============================================================================
// Key Generation Tests
// ============================================================================

func TestGenerateEd25519PrivateKey(t *testing.T) {
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)

	assert.Equal(t, AnyVariantEd25519, key.Variant())
	assert.Len(t, key.Bytes(), Ed25519PrivateKeySize)
	assert.Len(t, key.PublicKey().Bytes(), Ed25519PublicKeySize)
}

func TestGenerateSecp256k1PrivateKey(t *testing.T) {
	key, err := GenerateSecp256k1PrivateKey()
	require.NoError(t, err)

	assert.Equal(t, AnyVariantSecp256k1, key.Variant())
	assert.Len(t, key.Bytes(), Secp256k1PrivateKeySize)
	assert.Len(t, key.PublicKey().Bytes(), Secp256k1PublicKeySize)
}

func TestPrivateKeyFromBytes_RoundTrip(t *testing.T) {
	ed, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	restored, err := PrivateKeyFromBytes(AnyVariantEd25519, ed.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ed.PublicKey().Bytes(), restored.PublicKey().Bytes())

	k1, err := GenerateSecp256k1PrivateKey()
	require.NoError(t, err)
	restored, err = PrivateKeyFromBytes(AnyVariantSecp256k1, k1.Bytes())
	require.NoError(t, err)
	assert.Equal(t, k1.PublicKey().Bytes(), restored.PublicKey().Bytes())
}

func TestPrivateKeyFromBytes_UnsupportedScheme(t *testing.T) {
	_, err := PrivateKeyFromBytes(AnyVariantKeyless, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrUnsupportedScheme)
	// The error names the supported schemes.
	assert.Contains(t, err.Error(), "ed25519")
	assert.Contains(t, err.Error(), "secp256k1")
}

// ============================================================================
// Sign / Verify Tests
// ============================================================================

func TestSignVerify_Ed25519(t *testing.T) {
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)

	message := []byte("message to sign")
	sig, err := key.Sign(message)
	require.NoError(t, err)
	assert.Len(t, sig.Bytes(), Ed25519SignatureSize)

	assert.True(t, key.PublicKey().VerifySignature(message, sig))
}

func TestSignVerify_Secp256k1(t *testing.T) {
	key, err := GenerateSecp256k1PrivateKey()
	require.NoError(t, err)

	message := []byte("message to sign")
	sig, err := key.Sign(message)
	require.NoError(t, err)
	assert.Len(t, sig.Bytes(), Secp256k1SignatureSize)

	assert.True(t, key.PublicKey().VerifySignature(message, sig))
}

// Verification soundness: any single-bit flip in message or signature must
// fail verification.
func TestSignVerify_BitFlips(t *testing.T) {
	keys := map[string]PrivateKey{}

	ed, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	keys["ed25519"] = ed

	k1, err := GenerateSecp256k1PrivateKey()
	require.NoError(t, err)
	keys["secp256k1"] = k1

	for name, key := range keys {
		t.Run(name, func(t *testing.T) {
			message := []byte("bit flip soundness")
			sig, err := key.Sign(message)
			require.NoError(t, err)
			pub := key.PublicKey()

			for i := 0; i < len(message)*8; i++ {
				flipped := make([]byte, len(message))
				copy(flipped, message)
				flipped[i/8] ^= 1 << (i % 8)
				assert.False(t, pub.VerifySignature(flipped, sig), "message bit %d", i)
			}

			sigBytes := sig.Bytes()
			for i := 0; i < len(sigBytes)*8; i++ {
				flipped := make([]byte, len(sigBytes))
				copy(flipped, sigBytes)
				flipped[i/8] ^= 1 << (i % 8)

				var mangled Signature
				switch key.Variant() {
				case AnyVariantEd25519:
					mangled, err = NewEd25519Signature(flipped)
				default:
					mangled, err = NewSecp256k1Signature(flipped)
				}
				require.NoError(t, err)
				assert.False(t, pub.VerifySignature(message, mangled), "signature bit %d", i)
			}
		})
	}
}

func TestVerify_WrongSignatureType(t *testing.T) {
	ed, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	k1, err := GenerateSecp256k1PrivateKey()
	require.NoError(t, err)

	message := []byte("cross-scheme")
	edSig, err := ed.Sign(message)
	require.NoError(t, err)

	// A signature of the wrong concrete type fails without panicking.
	assert.False(t, k1.PublicKey().VerifySignature(message, edSig))
}

// Mutating the slices returned by Bytes must not corrupt the key or
// signature they came from.
func TestEd25519_BytesReturnsCopy(t *testing.T) {
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	pub := key.PublicKey().(*Ed25519PublicKey)

	message := []byte("defensive copy")
	sig, err := key.Sign(message)
	require.NoError(t, err)

	pubBytes := pub.Bytes()
	sigBytes := sig.Bytes()
	for i := range pubBytes {
		pubBytes[i] ^= 0xff
	}
	for i := range sigBytes {
		sigBytes[i] ^= 0xff
	}

	assert.NotEqual(t, pubBytes, pub.Bytes())
	assert.NotEqual(t, sigBytes, sig.Bytes())
	assert.True(t, pub.VerifySignature(message, sig))
}

// ============================================================================
// Authentication Key Tests
// ============================================================================

func TestAuthKey_Deterministic(t *testing.T) {
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)

	pub := key.PublicKey()
	assert.Equal(t, pub.AuthKey(), pub.AuthKey())
}

func TestAuthKey_DistinctKeys(t *testing.T) {
	a, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	b, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicKey().AuthKey(), b.PublicKey().AuthKey())
}

// The same Ed25519 key bytes derive different authentication keys under the
// legacy and unified schemes.
func TestAuthKey_LegacyVsUnified(t *testing.T) {
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)

	legacy := key.PublicKey().AuthKey()

	wrapped, err := WrapPublicKey(key.PublicKey())
	require.NoError(t, err)
	unified := wrapped.AuthKey()

	assert.NotEqual(t, legacy, unified)
}

func TestAuthKey_BCSRoundTrip(t *testing.T) {
	key, err := GenerateEd25519PrivateKey()
	require.NoError(t, err)
	ak := key.PublicKey().AuthKey()

	data := bcs.MustMarshal(ak)
	assert.Len(t, data, AuthenticationKeySize)

	var out AuthenticationKey
	require.NoError(t, bcs.Unmarshal(data, &out))
	assert.Equal(t, ak, out)
}

// ============================================================================
// Zeroize Tests
// ============================================================================

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zeroize(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)

	Zeroize(nil) // must not panic
}
