package borsh

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/code-payments/code-idl/pkg/idl"
)

type fieldLayout struct {
	name   string
	layout Layout
}

// structLayout is the ordered concatenation of its field layouts. Field
// order is part of the wire contract and matches the declaration order
// exactly. Values are map[string]interface{} keyed by field name.
type structLayout struct {
	name   string
	fields []fieldLayout
}

func (l *structLayout) Encode(w *bytes.Buffer, v interface{}) error {
	m, ok := v.(map[string]interface{})
	if !ok {
		return errors.Wrapf(ErrValueType, "struct %s wants map[string]interface{}, got %T", l.name, v)
	}
	for _, field := range l.fields {
		// A missing key encodes as nil, which only an option accepts.
		if err := field.layout.Encode(w, m[field.name]); err != nil {
			return errors.Wrapf(err, "struct %s field %s", l.name, field.name)
		}
	}
	return nil
}

func (l *structLayout) Decode(r *bytes.Reader) (interface{}, error) {
	out := make(map[string]interface{}, len(l.fields))
	for _, field := range l.fields {
		val, err := field.layout.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "struct %s field %s", l.name, field.name)
		}
		out[field.name] = val
	}
	return out, nil
}

// EnumValue is the decoded form of an enum. Fields is nil for a unit
// variant, map[string]interface{} for a named payload, and []interface{}
// for a tuple payload.
type EnumValue struct {
	Name   string
	Fields interface{}
}

type variantLayout struct {
	name   string
	shape  idl.VariantShape
	fields []fieldLayout
	tuple  []Layout
}

// enumLayout is a one-byte variant index in declaration order, followed by
// the selected variant's payload.
type enumLayout struct {
	name     string
	variants []variantLayout
}

func (l *enumLayout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(EnumValue)
	if !ok {
		if ptr, isPtr := v.(*EnumValue); isPtr {
			val, ok = *ptr, true
		}
	}
	if !ok {
		return errors.Wrapf(ErrValueType, "enum %s wants EnumValue, got %T", l.name, v)
	}

	for i, variant := range l.variants {
		if variant.name != val.Name {
			continue
		}
		if err := w.WriteByte(byte(i)); err != nil {
			return err
		}
		return l.encodePayload(w, variant, val)
	}
	return errors.Wrapf(ErrValueType, "enum %s has no variant %s", l.name, val.Name)
}

func (l *enumLayout) encodePayload(w *bytes.Buffer, variant variantLayout, val EnumValue) error {
	switch variant.shape {
	case idl.VariantUnit:
		return nil

	case idl.VariantNamed:
		m, ok := val.Fields.(map[string]interface{})
		if !ok {
			return errors.Wrapf(ErrValueType, "variant %s wants named fields, got %T", variant.name, val.Fields)
		}
		for _, field := range variant.fields {
			if err := field.layout.Encode(w, m[field.name]); err != nil {
				return errors.Wrapf(err, "variant %s field %s", variant.name, field.name)
			}
		}
		return nil

	case idl.VariantTuple:
		items, ok := val.Fields.([]interface{})
		if !ok {
			return errors.Wrapf(ErrValueType, "variant %s wants positional fields, got %T", variant.name, val.Fields)
		}
		if len(items) != len(variant.tuple) {
			return errors.Wrapf(ErrValueType, "variant %s has %d values, want %d", variant.name, len(items), len(variant.tuple))
		}
		for i, layout := range variant.tuple {
			if err := layout.Encode(w, items[i]); err != nil {
				return errors.Wrapf(err, "variant %s slot %d", variant.name, i)
			}
		}
		return nil
	}
	return errors.Wrapf(ErrValueType, "variant %s has unknown shape", variant.name)
}

func (l *enumLayout) Decode(r *bytes.Reader) (interface{}, error) {
	idx, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read enum %s tag", l.name)
	}
	if int(idx) >= len(l.variants) {
		return nil, errors.Wrapf(ErrInvalidData, "enum %s variant index %d out of range", l.name, idx)
	}

	variant := l.variants[idx]
	out := EnumValue{Name: variant.name}
	switch variant.shape {
	case idl.VariantNamed:
		m := make(map[string]interface{}, len(variant.fields))
		for _, field := range variant.fields {
			val, err := field.layout.Decode(r)
			if err != nil {
				return nil, errors.Wrapf(err, "variant %s field %s", variant.name, field.name)
			}
			m[field.name] = val
		}
		out.Fields = m

	case idl.VariantTuple:
		items := make([]interface{}, len(variant.tuple))
		for i, layout := range variant.tuple {
			val, err := layout.Decode(r)
			if err != nil {
				return nil, errors.Wrapf(err, "variant %s slot %d", variant.name, i)
			}
			items[i] = val
		}
		out.Fields = items
	}
	return out, nil
}
