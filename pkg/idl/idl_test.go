package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDocument = `{
	"version": "0.1.0",
	"name": "counter",
	"instructions": [
		{
			"name": "initialize",
			"accounts": [
				{"name": "counter", "isMut": true, "isSigner": false},
				{"name": "authority", "isMut": false, "isSigner": true}
			],
			"args": [{"name": "start", "type": "u64"}]
		}
	],
	"accounts": [
		{
			"name": "Counter",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "authority", "type": "publicKey"},
					{"name": "count", "type": "u64"}
				]
			}
		}
	],
	"events": [
		{
			"name": "Incremented",
			"fields": [{"name": "count", "type": "u64", "index": false}]
		}
	],
	"errors": [
		{"code": 6000, "name": "Overflow", "msg": "counter overflowed"}
	]
}`

const specDocument = `{
	"address": "vmT2hAx4N2U6DyjYxgQHER4VGC8tHJCfHNsSepBKCJZ",
	"metadata": {"name": "counter", "version": "0.2.0", "spec": "0.1.0"},
	"instructions": [
		{
			"name": "initialize",
			"discriminator": [175, 175, 109, 31, 13, 152, 155, 237],
			"accounts": [
				{"name": "counter", "writable": true},
				{"name": "authority", "signer": true}
			],
			"args": [{"name": "start", "type": "u64"}]
		}
	],
	"accounts": [
		{
			"name": "Counter",
			"discriminator": [255, 176, 4, 245, 188, 253, 124, 25]
		}
	],
	"types": [
		{
			"name": "Counter",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "authority", "type": "pubkey"},
					{"name": "count", "type": "u64"}
				]
			}
		}
	]
}`

func TestParse_LegacyDialect(t *testing.T) {
	document, err := Parse([]byte(legacyDocument))
	require.NoError(t, err)

	assert.Equal(t, DialectLegacy, document.Dialect())
	assert.Equal(t, "counter", document.Name)
	assert.Equal(t, "0.1.0", document.Version)

	// The legacy account embeds its type body.
	require.Len(t, document.Accounts, 1)
	account := document.Accounts[0]
	assert.Nil(t, account.Discriminator)
	require.NotNil(t, account.TypeDef)
	assert.Equal(t, DefinitionStruct, account.TypeDef.Kind)
	require.Len(t, account.TypeDef.Fields, 2)
	assert.Equal(t, TypePublicKey, account.TypeDef.Fields[0].Type.Kind)

	// isMut/isSigner normalize to the canonical flags.
	require.Len(t, document.Instructions, 1)
	accounts := document.Instructions[0].Accounts
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Writable)
	assert.False(t, accounts[0].Signer)
	assert.False(t, accounts[1].Writable)
	assert.True(t, accounts[1].Signer)

	require.Len(t, document.Events, 1)
	require.Len(t, document.Events[0].Fields, 1)

	require.Len(t, document.Errors, 1)
	assert.Equal(t, uint32(6000), document.Errors[0].Code)
	assert.Equal(t, "Overflow", document.Errors[0].Name)
}

func TestParse_SpecDialect(t *testing.T) {
	document, err := Parse([]byte(specDocument))
	require.NoError(t, err)

	assert.Equal(t, DialectSpec, document.Dialect())

	// Name and version fall back to the metadata block.
	assert.Equal(t, "counter", document.Name)
	assert.Equal(t, "0.2.0", document.Version)

	require.Len(t, document.Accounts, 1)
	account := document.Accounts[0]
	assert.Nil(t, account.TypeDef)
	assert.Equal(t, Discriminator{255, 176, 4, 245, 188, 253, 124, 25}, account.Discriminator)

	accounts := document.Instructions[0].Accounts
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Writable)
	assert.True(t, accounts[1].Signer)
}

func TestParse_DialectDetectionByDiscriminator(t *testing.T) {
	// No metadata.spec and no address, but a precomputed instruction
	// discriminator still marks the spec dialect.
	document, err := Parse([]byte(`{
		"name": "p",
		"instructions": [{"name": "go", "discriminator": [1,2,3,4,5,6,7,8], "accounts": [], "args": []}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, DialectSpec, document.Dialect())
}

func TestParse_InvalidAddress(t *testing.T) {
	_, err := Parse([]byte(`{"name": "p", "address": "not-base58-0OIl"}`))
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestParse_DuplicateNames(t *testing.T) {
	_, err := Parse([]byte(`{
		"name": "p",
		"accounts": [
			{"name": "State", "type": {"kind": "struct", "fields": []}},
			{"name": "State", "type": {"kind": "struct", "fields": []}}
		]
	}`))
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = Parse([]byte(`{
		"name": "p",
		"instructions": [
			{"name": "go", "accounts": [], "args": []},
			{"name": "go", "accounts": [], "args": []}
		]
	}`))
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestParse_MalformedDiscriminator(t *testing.T) {
	_, err := Parse([]byte(`{
		"name": "p",
		"accounts": [{"name": "State", "discriminator": [1, 2, 3]}]
	}`))
	require.ErrorIs(t, err, ErrInvalidDiscriminator)
}

func TestParse_AccountMetaDefaults(t *testing.T) {
	document, err := Parse([]byte(`{
		"name": "p",
		"instructions": [{"name": "go", "accounts": [{"name": "plain"}], "args": []}]
	}`))
	require.NoError(t, err)

	meta := document.Instructions[0].Accounts[0]
	assert.False(t, meta.Writable)
	assert.False(t, meta.Signer)
	assert.False(t, meta.Optional)
}
