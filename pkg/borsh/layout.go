// Package borsh derives binary layouts for canonical IDL types and packs
// values into the borsh wire encoding: little-endian fixed-width
// primitives, u32 length prefixes for variable containers, one-byte tags
// for options and enum variants.
package borsh

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/code-idl/pkg/idl"
)

// Layout describes how a single canonical IDL type is packed into and
// unpacked from its byte representation. Layouts are immutable and safe
// for concurrent use once derived.
type Layout interface {
	Encode(w *bytes.Buffer, v interface{}) error
	Decode(r *bytes.Reader) (interface{}, error)
}

// Engine derives layouts over one document's type definition list and
// memoizes the result per named type. The cache is owned by the engine,
// so concurrent loading of multiple documents never shares mutable state.
type Engine struct {
	types []idl.TypeDefinition

	mu      sync.Mutex
	layouts map[string]Layout
}

// NewEngine creates a derivation engine over a document's shared type
// definitions.
func NewEngine(types []idl.TypeDefinition) *Engine {
	return &Engine{
		types:   types,
		layouts: make(map[string]Layout),
	}
}

// ForType maps a canonical IDL type to its layout. Defined references
// resolve lazily on first use, which makes recursive references behind
// Vec/Option/Array representable.
func (e *Engine) ForType(t idl.Type) (Layout, error) {
	switch t.Kind {
	case idl.TypeBool:
		return boolLayout{}, nil
	case idl.TypeU8:
		return u8Layout{}, nil
	case idl.TypeI8:
		return i8Layout{}, nil
	case idl.TypeU16:
		return u16Layout{}, nil
	case idl.TypeI16:
		return i16Layout{}, nil
	case idl.TypeU32:
		return u32Layout{}, nil
	case idl.TypeI32:
		return i32Layout{}, nil
	case idl.TypeU64:
		return u64Layout{}, nil
	case idl.TypeI64:
		return i64Layout{}, nil
	case idl.TypeU128:
		return u128Layout{}, nil
	case idl.TypeI128:
		return u128Layout{signed: true}, nil
	case idl.TypeF32:
		return f32Layout{}, nil
	case idl.TypeF64:
		return f64Layout{}, nil
	case idl.TypeBytes:
		return bytesLayout{}, nil
	case idl.TypeString:
		return stringLayout{}, nil
	case idl.TypePublicKey:
		return pubkeyLayout{}, nil
	case idl.TypeVec:
		elem, err := e.ForType(*t.Elem)
		if err != nil {
			return nil, err
		}
		return vecLayout{elem: elem}, nil
	case idl.TypeOption:
		elem, err := e.ForType(*t.Elem)
		if err != nil {
			return nil, err
		}
		return optionLayout{elem: elem}, nil
	case idl.TypeArray:
		elem, err := e.ForType(*t.Elem)
		if err != nil {
			return nil, err
		}
		return arrayLayout{elem: elem, length: t.Len}, nil
	case idl.TypeDefined:
		return &definedLayout{engine: e, name: t.Defined}, nil
	}
	return nil, errors.Wrapf(ErrTypeNotImplemented, "%s", t.String())
}

// ForDefinition returns the layout for a named type definition. Layouts
// are memoized by (name, structural fingerprint): repeated resolution of
// the same named type returns one shared instance, while distinct names
// with identical shapes keep distinct instances.
func (e *Engine) ForDefinition(def *idl.TypeDefinition) (Layout, error) {
	key := def.Name + "|" + def.Fingerprint()

	e.mu.Lock()
	cached, ok := e.layouts[key]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	layout, err := e.build(def)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.layouts[key]; ok {
		// Another caller computed it first; keep their instance.
		return existing, nil
	}
	e.layouts[key] = layout
	return layout, nil
}

func (e *Engine) build(def *idl.TypeDefinition) (Layout, error) {
	switch def.Kind {
	case idl.DefinitionStruct:
		fields := make([]fieldLayout, len(def.Fields))
		for i, field := range def.Fields {
			layout, err := e.forBareType(field.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "struct %s field %s", def.Name, field.Name)
			}
			fields[i] = fieldLayout{name: field.Name, layout: layout}
		}
		return &structLayout{name: def.Name, fields: fields}, nil

	case idl.DefinitionEnum:
		if len(def.Variants) > 256 {
			return nil, errors.Wrapf(ErrTypeNotImplemented, "enum %s has %d variants", def.Name, len(def.Variants))
		}
		variants := make([]variantLayout, len(def.Variants))
		for i, variant := range def.Variants {
			built := variantLayout{name: variant.Name, shape: variant.Shape}
			switch variant.Shape {
			case idl.VariantNamed:
				built.fields = make([]fieldLayout, len(variant.Fields))
				for j, field := range variant.Fields {
					layout, err := e.ForType(field.Type)
					if err != nil {
						return nil, errors.Wrapf(err, "enum %s variant %s field %s", def.Name, variant.Name, field.Name)
					}
					built.fields[j] = fieldLayout{name: field.Name, layout: layout}
				}
			case idl.VariantTuple:
				built.tuple = make([]Layout, len(variant.Tuple))
				for j, t := range variant.Tuple {
					layout, err := e.ForType(t)
					if err != nil {
						return nil, errors.Wrapf(err, "enum %s variant %s slot %d", def.Name, variant.Name, j)
					}
					built.tuple[j] = layout
				}
			}
			variants[i] = built
		}
		return &enumLayout{name: def.Name, variants: variants}, nil

	case idl.DefinitionAlias:
		return e.forBareType(*def.Alias)
	}
	return nil, errors.Wrapf(ErrTypeNotImplemented, "definition %s", def.Name)
}

// forBareType resolves a bare Defined reference immediately so a dangling
// name fails while the layout is built, not on first use. Struct fields
// and alias targets take this path; references behind Vec/Option/Array
// and enum variant payloads stay lazy, which keeps recursive shapes
// representable. Document validation rejects cycles over these bare
// edges, so eager resolution terminates.
func (e *Engine) forBareType(t idl.Type) (Layout, error) {
	if t.Kind == idl.TypeDefined {
		return e.resolveDefined(t.Defined)
	}
	return e.ForType(t)
}

func (e *Engine) resolveDefined(name string) (Layout, error) {
	def, err := idl.LookupType(e.types, name)
	if err != nil {
		return nil, err
	}
	return e.ForDefinition(def)
}

// definedLayout defers resolution of a named type reference until first
// use, so deriving a container's layout never recurses into the referenced
// definition.
type definedLayout struct {
	engine *Engine
	name   string

	once     sync.Once
	resolved Layout
	err      error
}

func (l *definedLayout) resolve() (Layout, error) {
	l.once.Do(func() {
		l.resolved, l.err = l.engine.resolveDefined(l.name)
	})
	return l.resolved, l.err
}

func (l *definedLayout) Encode(w *bytes.Buffer, v interface{}) error {
	resolved, err := l.resolve()
	if err != nil {
		return err
	}
	return resolved.Encode(w, v)
}

func (l *definedLayout) Decode(r *bytes.Reader) (interface{}, error) {
	resolved, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return resolved.Decode(r)
}

// Marshal packs a value with the given layout.
func Marshal(l Layout, v interface{}) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := l.Encode(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal unpacks a value with the given layout. Trailing bytes are
// tolerated; on-chain account data is frequently zero-padded past the
// encoded payload.
func Unmarshal(l Layout, data []byte) (interface{}, error) {
	return l.Decode(bytes.NewReader(data))
}
