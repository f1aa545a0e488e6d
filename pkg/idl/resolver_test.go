package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structDef(name string, fields ...Field) TypeDefinition {
	return TypeDefinition{Name: name, Kind: DefinitionStruct, Fields: fields}
}

func TestLookupType(t *testing.T) {
	types := []TypeDefinition{
		structDef("A", Field{Name: "x", Type: Type{Kind: TypeU8}}),
		structDef("B"),
	}

	def, err := LookupType(types, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", def.Name)

	_, err = LookupType(types, "Ghost")
	require.ErrorIs(t, err, ErrTypeNotFound)
	assert.Contains(t, err.Error(), "Ghost")

	_, err = LookupType(nil, "A")
	require.ErrorIs(t, err, ErrTypesNotProvided)

	ambiguous := append(types, structDef("A"))
	_, err = LookupType(ambiguous, "A")
	require.ErrorIs(t, err, ErrAmbiguousType)
}

func TestAccountTypeDefinition(t *testing.T) {
	embedded := &TypeDefinition{Name: "State", Kind: DefinitionStruct}
	document := &Idl{
		Types: []TypeDefinition{structDef("Counter")},
	}

	// Legacy: the embedded body wins, no lookup happens.
	def, err := document.AccountTypeDefinition(&Account{Name: "State", TypeDef: embedded})
	require.NoError(t, err)
	assert.Same(t, embedded, def)

	// Spec: resolved from the shared types list by name.
	def, err = document.AccountTypeDefinition(&Account{Name: "Counter"})
	require.NoError(t, err)
	assert.Equal(t, "Counter", def.Name)

	_, err = document.AccountTypeDefinition(&Account{Name: "Missing"})
	require.ErrorIs(t, err, ErrTypeNotFound)
	assert.Contains(t, err.Error(), "Missing")
}

func TestEventTypeDefinition(t *testing.T) {
	document := &Idl{
		Types: []TypeDefinition{structDef("TradeEvent", Field{Name: "amount", Type: Type{Kind: TypeU64}})},
	}

	// Legacy inline fields synthesize a struct definition.
	inline := document.EventTypeDefinition(&Event{
		Name:   "Fired",
		Fields: []Field{{Name: "slot", Type: Type{Kind: TypeU64}}},
	})
	assert.Equal(t, DefinitionStruct, inline.Kind)
	require.Len(t, inline.Fields, 1)
	assert.Equal(t, "slot", inline.Fields[0].Name)

	// Spec events resolve through the shared types list.
	resolved := document.EventTypeDefinition(&Event{Name: "TradeEvent"})
	require.Len(t, resolved.Fields, 1)
	assert.Equal(t, "amount", resolved.Fields[0].Name)

	// An event absent from both falls back to an empty struct.
	empty := document.EventTypeDefinition(&Event{Name: "Unknown"})
	assert.Equal(t, DefinitionStruct, empty.Kind)
	assert.Empty(t, empty.Fields)
}

func TestValidate_DirectSelfReference(t *testing.T) {
	document := &Idl{
		Types: []TypeDefinition{
			structDef("Node", Field{Name: "next", Type: Type{Kind: TypeDefined, Defined: "Node"}}),
		},
	}
	err := document.Validate()
	require.ErrorIs(t, err, ErrRecursiveType)
	assert.Contains(t, err.Error(), "Node")
}

func TestValidate_MutualRecursion(t *testing.T) {
	document := &Idl{
		Types: []TypeDefinition{
			structDef("A", Field{Name: "b", Type: Type{Kind: TypeDefined, Defined: "B"}}),
			structDef("B", Field{Name: "a", Type: Type{Kind: TypeDefined, Defined: "A"}}),
		},
	}
	require.ErrorIs(t, document.Validate(), ErrRecursiveType)
}

func TestValidate_AliasCycle(t *testing.T) {
	document := &Idl{
		Types: []TypeDefinition{
			{Name: "X", Kind: DefinitionAlias, Alias: &Type{Kind: TypeDefined, Defined: "Y"}},
			{Name: "Y", Kind: DefinitionAlias, Alias: &Type{Kind: TypeDefined, Defined: "X"}},
		},
	}
	require.ErrorIs(t, document.Validate(), ErrRecursiveType)
}

func TestValidate_MediatedSelfReferenceAllowed(t *testing.T) {
	// Self-reference behind Vec/Option/Array defers resolution and is a
	// supported shape.
	document := &Idl{
		Types: []TypeDefinition{
			structDef("Tree",
				Field{Name: "children", Type: Type{Kind: TypeVec, Elem: &Type{Kind: TypeDefined, Defined: "Tree"}}},
			),
			structDef("List",
				Field{Name: "next", Type: Type{Kind: TypeOption, Elem: &Type{Kind: TypeDefined, Defined: "List"}}},
			),
		},
	}
	require.NoError(t, document.Validate())
}

func TestValidate_SharedDependencyNotACycle(t *testing.T) {
	// Two structs referencing the same third type is a DAG, not a cycle.
	shared := Type{Kind: TypeDefined, Defined: "Shared"}
	document := &Idl{
		Types: []TypeDefinition{
			structDef("Shared"),
			structDef("A", Field{Name: "s", Type: shared}),
			structDef("B", Field{Name: "s", Type: shared}),
		},
	}
	require.NoError(t, document.Validate())
}
