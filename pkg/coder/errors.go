package coder

import (
	"errors"
)

var (
	// ErrDuplicateDiscriminator indicates two distinct names in the same
	// category map to the same 8 bytes.
	ErrDuplicateDiscriminator = errors.New("duplicate discriminator")

	// ErrUnknownName indicates an encode request for a name the document
	// does not declare.
	ErrUnknownName = errors.New("unknown name")

	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrInvalidEventData       = errors.New("unexpected event data")
)
