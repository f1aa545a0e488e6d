package idl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_UnmarshalPrimitives(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		kind TypeKind
	}{
		{`"bool"`, TypeBool},
		{`"u8"`, TypeU8},
		{`"i8"`, TypeI8},
		{`"u16"`, TypeU16},
		{`"i16"`, TypeI16},
		{`"u32"`, TypeU32},
		{`"i32"`, TypeI32},
		{`"u64"`, TypeU64},
		{`"i64"`, TypeI64},
		{`"u128"`, TypeU128},
		{`"i128"`, TypeI128},
		{`"f32"`, TypeF32},
		{`"f64"`, TypeF64},
		{`"bytes"`, TypeBytes},
		{`"string"`, TypeString},
		{`"publicKey"`, TypePublicKey},
		{`"pubkey"`, TypePublicKey},
	} {
		var parsed Type
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &parsed), tc.raw)
		assert.Equal(t, tc.kind, parsed.Kind, tc.raw)
	}
}

func TestType_UnmarshalContainers(t *testing.T) {
	var vec Type
	require.NoError(t, json.Unmarshal([]byte(`{"vec":"u8"}`), &vec))
	require.Equal(t, TypeVec, vec.Kind)
	require.Equal(t, TypeU8, vec.Elem.Kind)

	var opt Type
	require.NoError(t, json.Unmarshal([]byte(`{"option":{"defined":"Foo"}}`), &opt))
	require.Equal(t, TypeOption, opt.Kind)
	require.Equal(t, TypeDefined, opt.Elem.Kind)
	require.Equal(t, "Foo", opt.Elem.Defined)

	var arr Type
	require.NoError(t, json.Unmarshal([]byte(`{"array":["u16",32]}`), &arr))
	require.Equal(t, TypeArray, arr.Kind)
	require.Equal(t, TypeU16, arr.Elem.Kind)
	require.Equal(t, 32, arr.Len)
}

func TestType_UnmarshalDefinedBothDialects(t *testing.T) {
	var legacy Type
	require.NoError(t, json.Unmarshal([]byte(`{"defined":"MyType"}`), &legacy))
	require.Equal(t, TypeDefined, legacy.Kind)
	require.Equal(t, "MyType", legacy.Defined)

	var spec Type
	require.NoError(t, json.Unmarshal([]byte(`{"defined":{"name":"MyType"}}`), &spec))
	require.Equal(t, TypeDefined, spec.Kind)
	require.Equal(t, "MyType", spec.Defined)

	assert.Equal(t, legacy, spec)
}

func TestType_UnmarshalInvalid(t *testing.T) {
	for _, raw := range []string{
		`"u256"`,
		`{"defined":{}}`,
		`{"array":["u8"]}`,
		`{"array":["u8",-1]}`,
		`{}`,
	} {
		var parsed Type
		err := json.Unmarshal([]byte(raw), &parsed)
		require.Error(t, err, raw)
	}

	var parsed Type
	err := json.Unmarshal([]byte(`{"defined":{}}`), &parsed)
	require.ErrorIs(t, err, ErrUnknownDefinedType)
}

func TestEnumVariant_PayloadShapes(t *testing.T) {
	var unit EnumVariant
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Empty"}`), &unit))
	assert.Equal(t, VariantUnit, unit.Shape)

	var named EnumVariant
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Pair","fields":[{"name":"x","type":"u8"},{"name":"y","type":"u8"}]}`), &named))
	assert.Equal(t, VariantNamed, named.Shape)
	require.Len(t, named.Fields, 2)
	assert.Equal(t, "x", named.Fields[0].Name)

	var tuple EnumVariant
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Point","fields":["u64",{"defined":"Foo"}]}`), &tuple))
	assert.Equal(t, VariantTuple, tuple.Shape)
	require.Len(t, tuple.Tuple, 2)
	assert.Equal(t, TypeU64, tuple.Tuple[0].Kind)
	assert.Equal(t, "Foo", tuple.Tuple[1].Defined)
}

func TestTypeDefinition_Fingerprint(t *testing.T) {
	var a, b, c TypeDefinition
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","type":{"kind":"struct","fields":[{"name":"x","type":"u8"}]}}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"B","type":{"kind":"struct","fields":[{"name":"x","type":"u8"}]}}`), &b))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"C","type":{"kind":"struct","fields":[{"name":"x","type":"u16"}]}}`), &c))

	// Identical shapes fingerprint identically regardless of name; the
	// cache key adds the name on top.
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	var enum TypeDefinition
	require.NoError(t, json.Unmarshal([]byte(`{"name":"E","type":{"kind":"enum","variants":[{"name":"U"},{"name":"T","fields":["u8"]},{"name":"N","fields":[{"name":"v","type":"u8"}]}]}}`), &enum))
	assert.NotEmpty(t, enum.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), enum.Fingerprint())
}

func TestTypeDefinition_Alias(t *testing.T) {
	var alias TypeDefinition
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Amount","type":{"kind":"alias","value":"u64"}}`), &alias))
	require.Equal(t, DefinitionAlias, alias.Kind)
	require.NotNil(t, alias.Alias)
	assert.Equal(t, TypeU64, alias.Alias.Kind)
}

func TestDiscriminator_Unmarshal(t *testing.T) {
	var disc Discriminator
	require.NoError(t, json.Unmarshal([]byte(`[1,2,3,4,5,6,7,8]`), &disc))
	assert.Equal(t, Discriminator{1, 2, 3, 4, 5, 6, 7, 8}, disc)

	var empty Discriminator
	require.NoError(t, json.Unmarshal([]byte(`[]`), &empty))
	assert.Nil(t, empty)

	var short Discriminator
	require.ErrorIs(t, json.Unmarshal([]byte(`[1,2,3]`), &short), ErrInvalidDiscriminator)

	var outOfRange Discriminator
	require.ErrorIs(t, json.Unmarshal([]byte(`[1,2,3,4,5,6,7,256]`), &outOfRange), ErrInvalidDiscriminator)

	var negative Discriminator
	require.ErrorIs(t, json.Unmarshal([]byte(`[1,2,3,4,5,6,7,-1]`), &negative), ErrInvalidDiscriminator)
}
