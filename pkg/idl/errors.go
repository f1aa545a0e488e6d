package idl

import (
	"errors"
)

var (
	// ErrUnknownTypeFormat indicates a type record that doesn't match any
	// known dialect shape.
	ErrUnknownTypeFormat = errors.New("idl: unrecognized type format")

	// ErrUnknownDefinedType indicates a defined-type reference that is
	// neither a bare string nor an object carrying a name.
	ErrUnknownDefinedType = errors.New("idl: unrecognized defined type format")

	// ErrTypesNotProvided indicates a defined-type reference was resolved
	// against an empty type definition list.
	ErrTypesNotProvided = errors.New("idl: user defined types not provided")

	// ErrTypeNotFound indicates a named type reference with no matching
	// definition.
	ErrTypeNotFound = errors.New("idl: type definition not found")

	// ErrAmbiguousType indicates more than one definition shares a name.
	ErrAmbiguousType = errors.New("idl: ambiguous type definition")

	// ErrDuplicateName indicates two entities in the same category share
	// a name.
	ErrDuplicateName = errors.New("idl: duplicate name")

	// ErrRecursiveType indicates a type definition that directly contains
	// itself without Vec/Option/Array indirection.
	ErrRecursiveType = errors.New("idl: unsupported recursive type definition")

	// ErrInvalidDiscriminator indicates a malformed precomputed
	// discriminator.
	ErrInvalidDiscriminator = errors.New("idl: invalid discriminator")

	// ErrInvalidAddress indicates a program address that is not valid
	// base58.
	ErrInvalidAddress = errors.New("idl: invalid program address")
)
