package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/bramble-sdk/bcs"
)

func TestParseTypeTag_Primitives(t *testing.T) {
	cases := map[string]TypeTagVariant{
		"bool":    TypeTagBool,
		"u8":      TypeTagU8,
		"u16":     TypeTagU16,
		"u32":     TypeTagU32,
		"u64":     TypeTagU64,
		"u128":    TypeTagU128,
		"u256":    TypeTagU256,
		"address": TypeTagAddress,
		"signer":  TypeTagSigner,
	}
	for input, variant := range cases {
		tag, err := ParseTypeTag(input)
		require.NoError(t, err, input)
		assert.Equal(t, variant, tag.Value.Variant(), input)
		assert.Equal(t, input, tag.String(), input)
	}
}

func TestParseTypeTag_Vector(t *testing.T) {
	tag, err := ParseTypeTag("vector<vector<u8>>")
	require.NoError(t, err)
	assert.Equal(t, "vector<vector<u8>>", tag.String())

	outer, ok := tag.Value.(*VectorTag)
	require.True(t, ok)
	inner, ok := outer.TypeParam.Value.(*VectorTag)
	require.True(t, ok)
	assert.Equal(t, TypeTagU8, inner.TypeParam.Value.Variant())
}

func TestParseTypeTag_Struct(t *testing.T) {
	tag, err := ParseTypeTag("0x1::coin::CoinStore<0x1::bramble_coin::BrambleCoin>")
	require.NoError(t, err)

	st, ok := tag.Value.(*StructTag)
	require.True(t, ok)
	assert.Equal(t, AddressOne, st.Address)
	assert.Equal(t, "coin", st.Module)
	assert.Equal(t, "CoinStore", st.Name)
	require.Len(t, st.TypeParams, 1)

	param, ok := st.TypeParams[0].Value.(*StructTag)
	require.True(t, ok)
	assert.Equal(t, "bramble_coin", param.Module)
	assert.Equal(t, "BrambleCoin", param.Name)
}

func TestParseTypeTag_MultipleTypeParams(t *testing.T) {
	tag, err := ParseTypeTag("0x1::pair::Pair<u64, 0x1::coin::Coin>")
	require.NoError(t, err)

	st, ok := tag.Value.(*StructTag)
	require.True(t, ok)
	require.Len(t, st.TypeParams, 2)
	assert.Equal(t, TypeTagU64, st.TypeParams[0].Value.Variant())
	assert.Equal(t, TypeTagStruct, st.TypeParams[1].Value.Variant())
}

func TestParseTypeTag_Invalid(t *testing.T) {
	cases := []string{
		"",
		"u9",
		"vector",
		"vector<u8",
		"vector<>",
		"0x1::coin",
		"0x1::coin::Coin<",
		"0x1::coin::Coin<u8",
		"u8 trailing",
		"zz::coin::Coin",
	}
	for _, input := range cases {
		_, err := ParseTypeTag(input)
		assert.ErrorIs(t, err, ErrInvalidTypeTag, "%q", input)
	}
}

func TestTypeTag_BCSRoundTrip(t *testing.T) {
	inputs := []string{
		"u8",
		"bool",
		"address",
		"vector<u64>",
		"0x1::coin::CoinStore<0x1::bramble_coin::BrambleCoin>",
		"vector<0x1::pair::Pair<u8, vector<address>>>",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tag, err := ParseTypeTag(input)
			require.NoError(t, err)

			data := bcs.MustMarshal(tag)
			var out TypeTag
			require.NoError(t, bcs.Unmarshal(data, &out))
			// Decoded tags render identically and re-encode identically.
			assert.Equal(t, tag.String(), out.String())
			assert.Equal(t, data, bcs.MustMarshal(out))
		})
	}
}

func TestTypeTag_InvalidVariantRejected(t *testing.T) {
	var out TypeTag
	err := bcs.Unmarshal([]byte{0x0b}, &out)
	assert.ErrorIs(t, err, bcs.ErrInvalidVariant)
}
