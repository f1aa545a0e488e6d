package idl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// TypeKind enumerates the members of the IDL type union.
type TypeKind uint8

const (
	TypeBool TypeKind = iota
	TypeU8
	TypeI8
	TypeU16
	TypeI16
	TypeU32
	TypeI32
	TypeU64
	TypeI64
	TypeU128
	TypeI128
	TypeF32
	TypeF64
	TypeBytes
	TypeString
	TypePublicKey
	TypeVec
	TypeOption
	TypeArray
	TypeDefined
)

// primitiveTokens maps the JSON spelling of every primitive to its kind.
// The legacy dialect spells the key type "publicKey", the spec dialect
// "pubkey"; both map to the same primitive.
var primitiveTokens = map[string]TypeKind{
	"bool":      TypeBool,
	"u8":        TypeU8,
	"i8":        TypeI8,
	"u16":       TypeU16,
	"i16":       TypeI16,
	"u32":       TypeU32,
	"i32":       TypeI32,
	"u64":       TypeU64,
	"i64":       TypeI64,
	"u128":      TypeU128,
	"i128":      TypeI128,
	"f32":       TypeF32,
	"f64":       TypeF64,
	"bytes":     TypeBytes,
	"string":    TypeString,
	"publicKey": TypePublicKey,
	"pubkey":    TypePublicKey,
}

var kindTokens = map[TypeKind]string{
	TypeBool:      "bool",
	TypeU8:        "u8",
	TypeI8:        "i8",
	TypeU16:       "u16",
	TypeI16:       "i16",
	TypeU32:       "u32",
	TypeI32:       "i32",
	TypeU64:       "u64",
	TypeI64:       "i64",
	TypeU128:      "u128",
	TypeI128:      "i128",
	TypeF32:       "f32",
	TypeF64:       "f64",
	TypeBytes:     "bytes",
	TypeString:    "string",
	TypePublicKey: "publicKey",
}

// Type is the canonical representation of an IDL type reference. It is a
// tagged union: Elem is set for Vec/Option/Array, Len for Array, and
// Defined for references to user defined types. Values are constructed
// once at parse time and never mutated.
type Type struct {
	Kind    TypeKind
	Elem    *Type
	Len     int
	Defined string
}

// UnmarshalJSON accepts every type spelling of both dialects: a bare
// primitive token, {"vec": T}, {"option": T}, {"array": [T, N]}, and
// {"defined": "Name"} or {"defined": {"name": "Name"}}.
func (t *Type) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		kind, ok := primitiveTokens[token]
		if !ok {
			return errors.Wrapf(ErrUnknownTypeFormat, "primitive %q", token)
		}
		t.Kind = kind
		return nil
	}

	var wrapper struct {
		Vec     *Type             `json:"vec"`
		Option  *Type             `json:"option"`
		Array   []json.RawMessage `json:"array"`
		Defined json.RawMessage   `json:"defined"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return errors.Wrap(ErrUnknownTypeFormat, err.Error())
	}

	switch {
	case wrapper.Vec != nil:
		t.Kind = TypeVec
		t.Elem = wrapper.Vec
	case wrapper.Option != nil:
		t.Kind = TypeOption
		t.Elem = wrapper.Option
	case wrapper.Array != nil:
		if len(wrapper.Array) != 2 {
			return errors.Wrap(ErrUnknownTypeFormat, "array must be [type, length]")
		}
		var elem Type
		if err := json.Unmarshal(wrapper.Array[0], &elem); err != nil {
			return err
		}
		var length int
		if err := json.Unmarshal(wrapper.Array[1], &length); err != nil {
			return errors.Wrap(ErrUnknownTypeFormat, "array length must be an integer")
		}
		if length < 0 {
			return errors.Wrapf(ErrUnknownTypeFormat, "negative array length %d", length)
		}
		t.Kind = TypeArray
		t.Elem = &elem
		t.Len = length
	case wrapper.Defined != nil:
		name, err := definedTypeName(wrapper.Defined)
		if err != nil {
			return err
		}
		t.Kind = TypeDefined
		t.Defined = name
	default:
		return errors.Wrapf(ErrUnknownTypeFormat, "%s", string(data))
	}
	return nil
}

// definedTypeName extracts the referenced type name from either dialect:
// a bare string (legacy) or an object carrying a name (spec).
func definedTypeName(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name, nil
	}

	return "", errors.Wrapf(ErrUnknownDefinedType, "%s", string(raw))
}

// String renders the canonical signature of the type. Signatures feed the
// layout cache fingerprint, so the rendering must be deterministic.
func (t Type) String() string {
	switch t.Kind {
	case TypeVec:
		return "vec<" + t.Elem.String() + ">"
	case TypeOption:
		return "option<" + t.Elem.String() + ">"
	case TypeArray:
		return fmt.Sprintf("[%s;%d]", t.Elem.String(), t.Len)
	case TypeDefined:
		return t.Defined
	default:
		return kindTokens[t.Kind]
	}
}

// Field is a named slot of a struct, event or instruction argument list.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// VariantShape classifies an enum variant's payload.
type VariantShape uint8

const (
	VariantUnit VariantShape = iota
	VariantNamed
	VariantTuple
)

// EnumVariant is one constructor of an enum definition. The payload shape
// is classified once at parse time: named fields, positional types, or no
// payload at all.
type EnumVariant struct {
	Name   string
	Shape  VariantShape
	Fields []Field
	Tuple  []Type
}

func (v *EnumVariant) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string            `json:"name"`
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrUnknownTypeFormat, err.Error())
	}

	v.Name = raw.Name
	if len(raw.Fields) == 0 {
		v.Shape = VariantUnit
		return nil
	}

	// The payload is named if the first element is an object carrying a
	// "name" key. Bare type objects ({"vec": ...}, {"defined": ...}) never
	// carry one at the top level.
	var probe map[string]json.RawMessage
	named := false
	if err := json.Unmarshal(raw.Fields[0], &probe); err == nil {
		_, named = probe["name"]
	}

	if named {
		v.Shape = VariantNamed
		v.Fields = make([]Field, len(raw.Fields))
		for i, rawField := range raw.Fields {
			if err := json.Unmarshal(rawField, &v.Fields[i]); err != nil {
				return errors.Wrapf(err, "variant %s field %d", raw.Name, i)
			}
		}
		return nil
	}

	v.Shape = VariantTuple
	v.Tuple = make([]Type, len(raw.Fields))
	for i, rawType := range raw.Fields {
		if err := json.Unmarshal(rawType, &v.Tuple[i]); err != nil {
			return errors.Wrapf(err, "variant %s slot %d", raw.Name, i)
		}
	}
	return nil
}

// DefinitionKind enumerates the bodies a user defined type can have.
type DefinitionKind uint8

const (
	DefinitionStruct DefinitionKind = iota
	DefinitionEnum
	DefinitionAlias
)

// TypeDefinition is a named user defined type: a struct, an enum, or a
// transparent alias of another type.
type TypeDefinition struct {
	Name     string
	Kind     DefinitionKind
	Fields   []Field
	Variants []EnumVariant
	Alias    *Type
}

func (d *TypeDefinition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrUnknownTypeFormat, err.Error())
	}
	if raw.Type == nil {
		return errors.Wrapf(ErrUnknownTypeFormat, "type %s has no body", raw.Name)
	}

	d.Name = raw.Name
	return d.unmarshalBody(raw.Type)
}

// unmarshalBody parses the {"kind": ...} body shared by type definitions
// and legacy accounts that embed their definition inline.
func (d *TypeDefinition) unmarshalBody(data []byte) error {
	var body struct {
		Kind     string        `json:"kind"`
		Fields   []Field       `json:"fields"`
		Variants []EnumVariant `json:"variants"`
		Value    *Type         `json:"value"`
		Alias    *Type         `json:"alias"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return errors.Wrapf(err, "type %s", d.Name)
	}

	switch body.Kind {
	case "struct":
		d.Kind = DefinitionStruct
		d.Fields = body.Fields
	case "enum":
		d.Kind = DefinitionEnum
		d.Variants = body.Variants
	case "alias", "type":
		target := body.Value
		if target == nil {
			target = body.Alias
		}
		if target == nil {
			return errors.Wrapf(ErrUnknownTypeFormat, "alias %s has no target", d.Name)
		}
		d.Kind = DefinitionAlias
		d.Alias = target
	default:
		return errors.Wrapf(ErrUnknownTypeFormat, "type %s has kind %q", d.Name, body.Kind)
	}
	return nil
}

// Fingerprint returns a deterministic structural serialization of the
// definition. Two definitions with the same fingerprint have identical
// wire shapes; the layout cache keys on (name, fingerprint) so distinct
// names never share a cached layout instance.
func (d *TypeDefinition) Fingerprint() string {
	var b strings.Builder
	switch d.Kind {
	case DefinitionStruct:
		b.WriteString("struct{")
		for _, field := range d.Fields {
			b.WriteString(field.Name)
			b.WriteByte(':')
			b.WriteString(field.Type.String())
			b.WriteByte(';')
		}
		b.WriteByte('}')
	case DefinitionEnum:
		b.WriteString("enum{")
		for _, variant := range d.Variants {
			b.WriteString(variant.Name)
			switch variant.Shape {
			case VariantNamed:
				b.WriteByte('{')
				for _, field := range variant.Fields {
					b.WriteString(field.Name)
					b.WriteByte(':')
					b.WriteString(field.Type.String())
					b.WriteByte(';')
				}
				b.WriteByte('}')
			case VariantTuple:
				b.WriteByte('(')
				for _, t := range variant.Tuple {
					b.WriteString(t.String())
					b.WriteByte(';')
				}
				b.WriteByte(')')
			}
			b.WriteByte(';')
		}
		b.WriteByte('}')
	case DefinitionAlias:
		b.WriteString("alias:")
		b.WriteString(d.Alias.String())
	}
	return b.String()
}

// Discriminator is the precomputed 8-byte tag the spec dialect attaches to
// accounts, instructions and events. The JSON form is an integer array.
type Discriminator []byte

func (d *Discriminator) UnmarshalJSON(data []byte) error {
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return errors.Wrap(ErrInvalidDiscriminator, err.Error())
	}
	if len(vals) == 0 {
		*d = nil
		return nil
	}
	if len(vals) != DiscriminatorSize {
		return errors.Wrapf(ErrInvalidDiscriminator, "%d values, want %d", len(vals), DiscriminatorSize)
	}

	out := make([]byte, len(vals))
	for i, v := range vals {
		if v < 0 || v > 255 {
			return errors.Wrapf(ErrInvalidDiscriminator, "value %d at index %d out of range", v, i)
		}
		out[i] = byte(v)
	}
	*d = out
	return nil
}

// DiscriminatorSize is the exact byte length of every discriminator.
const DiscriminatorSize = 8
