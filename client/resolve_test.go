package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/bramble-sdk/crypto"
	"github.com/blockberries/bramble-sdk/types"
)

func testEd25519PublicKey(t *testing.T) *crypto.Ed25519PublicKey {
	t.Helper()
	priv, err := crypto.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	return priv.PublicKey().(*crypto.Ed25519PublicKey)
}

func TestResolveOriginatingScheme_Legacy(t *testing.T) {
	pub := testEd25519PublicKey(t)
	node := &fakeNodeAPI{account: &AccountInfo{
		SequenceNumber:    3,
		AuthenticationKey: pub.AuthKey().String(),
	}}

	scheme, err := ResolveOriginatingScheme(context.Background(), node, types.AddressOne, pub)
	require.NoError(t, err)
	assert.Equal(t, crypto.SchemeEd25519, scheme)
}

func TestResolveOriginatingScheme_SingleKey(t *testing.T) {
	pub := testEd25519PublicKey(t)
	wrapped, err := crypto.WrapPublicKey(pub)
	require.NoError(t, err)

	node := &fakeNodeAPI{account: &AccountInfo{
		AuthenticationKey: wrapped.AuthKey().String(),
	}}

	scheme, err := ResolveOriginatingScheme(context.Background(), node, types.AddressOne, pub)
	require.NoError(t, err)
	assert.Equal(t, crypto.SchemeSingleKey, scheme)
}

func TestResolveOriginatingScheme_Unresolved(t *testing.T) {
	// A rotated account: the on-chain key belongs to some other key material.
	other := testEd25519PublicKey(t)
	node := &fakeNodeAPI{account: &AccountInfo{
		AuthenticationKey: other.AuthKey().String(),
	}}

	_, err := ResolveOriginatingScheme(context.Background(), node, types.AddressOne, testEd25519PublicKey(t))
	require.ErrorIs(t, err, ErrSchemeUnresolved)
}

func TestResolveOriginatingScheme_FetchError(t *testing.T) {
	node := &fakeNodeAPI{accountErr: &APIError{StatusCode: 404, Message: "account not found"}}

	_, err := ResolveOriginatingScheme(context.Background(), node, types.AddressOne, testEd25519PublicKey(t))
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
}

func TestResolveOriginatingScheme_MalformedAuthKey(t *testing.T) {
	for _, key := range []string{"0xzz", "0x1234", ""} {
		node := &fakeNodeAPI{account: &AccountInfo{AuthenticationKey: key}}
		_, err := ResolveOriginatingScheme(context.Background(), node, types.AddressOne, testEd25519PublicKey(t))
		assert.Error(t, err, "authentication key %q must be rejected", key)
	}
}
