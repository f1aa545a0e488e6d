package borsh

import (
	"errors"
)

var (
	// ErrTypeNotImplemented indicates a type reached the derivation engine
	// in a shape with no defined binary mapping.
	ErrTypeNotImplemented = errors.New("borsh: type not implemented")

	// ErrValueType indicates an encode call with a Go value that does not
	// match the layout.
	ErrValueType = errors.New("borsh: unexpected value type")

	// ErrInvalidData indicates wire bytes that cannot be decoded: a bad
	// bool or option tag, an out-of-range variant index, or a length
	// prefix overrunning the buffer.
	ErrInvalidData = errors.New("borsh: invalid data")
)
