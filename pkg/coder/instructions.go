package coder

import (
	"github.com/pkg/errors"

	"github.com/code-payments/code-idl/pkg/borsh"
	"github.com/code-payments/code-idl/pkg/idl"
)

// InstructionCoder encodes and decodes instruction data: an 8-byte
// discriminator in the "global" namespace followed by the borsh encoding
// of the argument fields. Decoding is strict.
type InstructionCoder struct {
	layouts  map[string]borsh.Layout
	accounts map[string][]idl.InstructionAccount
	index    *discriminatorIndex
}

// NewInstructionCoder builds argument layouts and discriminator indices
// for every instruction the document declares.
func NewInstructionCoder(document *idl.Idl, engine *borsh.Engine) (*InstructionCoder, error) {
	c := &InstructionCoder{
		layouts:  make(map[string]borsh.Layout, len(document.Instructions)),
		accounts: make(map[string][]idl.InstructionAccount, len(document.Instructions)),
		index:    newDiscriminatorIndex(),
	}

	for i := range document.Instructions {
		ix := &document.Instructions[i]

		// The argument list encodes as an anonymous struct in declaration
		// order.
		def := &idl.TypeDefinition{
			Name:   ix.Name,
			Kind:   idl.DefinitionStruct,
			Fields: ix.Args,
		}
		layout, err := engine.ForDefinition(def)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %s", ix.Name)
		}
		c.layouts[ix.Name] = layout
		c.accounts[ix.Name] = ix.Accounts

		disc := resolveDiscriminator(NamespaceInstruction, ix.Name, ix.Discriminator)
		if err := c.index.add(ix.Name, disc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DecodedInstruction is a decoded argument payload tagged with the
// resolved instruction name.
type DecodedInstruction struct {
	Name string
	Args interface{}
}

// Encode serializes the arguments of the named instruction and prepends
// its discriminator.
func (c *InstructionCoder) Encode(name string, args interface{}) ([]byte, error) {
	disc, ok := c.index.discriminator(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "instruction %s", name)
	}

	payload, err := borsh.Marshal(c.layouts[name], args)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode instruction %s", name)
	}

	out := make([]byte, 0, DiscriminatorSize+len(payload))
	out = append(out, disc...)
	return append(out, payload...), nil
}

// Decode reads the leading discriminator, resolves the instruction it
// tags, and parses the remaining bytes as that instruction's arguments.
func (c *InstructionCoder) Decode(data []byte) (*DecodedInstruction, error) {
	if len(data) < DiscriminatorSize {
		return nil, ErrInvalidInstructionData
	}

	name, ok := c.index.name(data[:DiscriminatorSize])
	if !ok {
		return nil, errors.Wrap(ErrInvalidInstructionData, "unknown discriminator")
	}

	args, err := borsh.Unmarshal(c.layouts[name], data[DiscriminatorSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode instruction %s", name)
	}
	return &DecodedInstruction{Name: name, Args: args}, nil
}

// Accounts returns the normalized accounts metadata of a named
// instruction, in declaration order.
func (c *InstructionCoder) Accounts(name string) ([]idl.InstructionAccount, error) {
	accounts, ok := c.accounts[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "instruction %s", name)
	}
	return accounts, nil
}

// Discriminator returns the 8-byte tag of a named instruction.
func (c *InstructionCoder) Discriminator(name string) ([]byte, error) {
	disc, ok := c.index.discriminator(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "instruction %s", name)
	}
	return disc, nil
}

// Names returns every instruction name in sorted order.
func (c *InstructionCoder) Names() []string {
	return c.index.names()
}
