package borsh

import (
	"bytes"

	"github.com/pkg/errors"
)

// vecLayout is a u32 length prefix followed by that many element
// encodings.
type vecLayout struct {
	elem Layout
}

func (l vecLayout) Encode(w *bytes.Buffer, v interface{}) error {
	items, ok := v.([]interface{})
	if !ok {
		return errors.Wrapf(ErrValueType, "want []interface{}, got %T", v)
	}
	if err := writeLen(w, len(items)); err != nil {
		return err
	}
	for i, item := range items {
		if err := l.elem.Encode(w, item); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (l vecLayout) Decode(r *bytes.Reader) (interface{}, error) {
	n, err := readLen(r, "vec")
	if err != nil {
		return nil, err
	}
	items := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		item, err := l.elem.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		items = append(items, item)
	}
	return items, nil
}

// optionLayout is a one-byte presence tag followed conditionally by the
// inner encoding. An absent value is a nil interface.
type optionLayout struct {
	elem Layout
}

func (l optionLayout) Encode(w *bytes.Buffer, v interface{}) error {
	if v == nil {
		return w.WriteByte(0)
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	return l.elem.Encode(w, v)
}

func (l optionLayout) Decode(r *bytes.Reader) (interface{}, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read option tag")
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		return l.elem.Decode(r)
	default:
		return nil, errors.Wrapf(ErrInvalidData, "option tag 0x%x", tag)
	}
}

// arrayLayout is exactly length contiguous element encodings, no prefix.
type arrayLayout struct {
	elem   Layout
	length int
}

func (l arrayLayout) Encode(w *bytes.Buffer, v interface{}) error {
	items, ok := v.([]interface{})
	if !ok {
		return errors.Wrapf(ErrValueType, "want []interface{}, got %T", v)
	}
	if len(items) != l.length {
		return errors.Wrapf(ErrValueType, "array has %d elements, want %d", len(items), l.length)
	}
	for i, item := range items {
		if err := l.elem.Encode(w, item); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (l arrayLayout) Decode(r *bytes.Reader) (interface{}, error) {
	items := make([]interface{}, l.length)
	for i := 0; i < l.length; i++ {
		item, err := l.elem.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		items[i] = item
	}
	return items, nil
}
