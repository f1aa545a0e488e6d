package idl

import (
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Dialect identifies which of the two incompatible IDL schemas a document
// was written in.
type Dialect uint8

const (
	// DialectLegacy is the original schema: discriminators are always
	// derived from names and account type bodies are embedded inline.
	DialectLegacy Dialect = iota

	// DialectSpec is the versioned schema: discriminators are precomputed
	// and account/event bodies live in the shared types list.
	DialectSpec
)

func (d Dialect) String() string {
	switch d {
	case DialectSpec:
		return "spec"
	default:
		return "legacy"
	}
}

// Metadata is the optional top-level metadata block. The presence of the
// spec field signals the spec dialect.
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Spec        string `json:"spec"`
	Description string `json:"description"`
}

// Account declares a program account. Legacy documents embed the full type
// body on the record; spec documents carry only a name and a precomputed
// discriminator and defer the body to the types list.
type Account struct {
	Name          string
	Discriminator Discriminator

	// TypeDef is the embedded definition in the legacy dialect, nil
	// otherwise.
	TypeDef *TypeDefinition
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name          string          `json:"name"`
		Discriminator Discriminator   `json:"discriminator"`
		Type          json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.Name = raw.Name
	a.Discriminator = raw.Discriminator
	if raw.Type != nil {
		def := &TypeDefinition{Name: raw.Name}
		if err := def.unmarshalBody(raw.Type); err != nil {
			return errors.Wrapf(err, "account %s", raw.Name)
		}
		a.TypeDef = def
	}
	return nil
}

// Event declares a program event. Legacy documents carry the field list
// inline; spec documents defer it to the types list.
type Event struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
	Fields        []Field       `json:"fields"`
}

// InstructionAccount is the normalized accounts metadata of an
// instruction. The two dialects spell the flags differently (writable vs
// isMut, signer vs isSigner); both are accepted and default to false.
type InstructionAccount struct {
	Name     string
	Writable bool
	Signer   bool
	Optional bool
	Address  string
}

func (m *InstructionAccount) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string `json:"name"`
		Writable   *bool  `json:"writable"`
		IsMut      *bool  `json:"isMut"`
		Signer     *bool  `json:"signer"`
		IsSigner   *bool  `json:"isSigner"`
		Optional   *bool  `json:"optional"`
		IsOptional *bool  `json:"isOptional"`
		Address    string `json:"address"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Name = raw.Name
	m.Writable = boolAlias(raw.Writable, raw.IsMut)
	m.Signer = boolAlias(raw.Signer, raw.IsSigner)
	m.Optional = boolAlias(raw.Optional, raw.IsOptional)
	m.Address = raw.Address
	return nil
}

func boolAlias(preferred, fallback *bool) bool {
	if preferred != nil {
		return *preferred
	}
	if fallback != nil {
		return *fallback
	}
	return false
}

// Instruction declares a program instruction: its accounts metadata and
// argument fields, plus a precomputed discriminator in the spec dialect.
type Instruction struct {
	Name          string               `json:"name"`
	Discriminator Discriminator        `json:"discriminator"`
	Accounts      []InstructionAccount `json:"accounts"`
	Args          []Field              `json:"args"`
}

// ErrorCode is one entry of the program's error table.
type ErrorCode struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// Idl is the canonical in-memory form of a parsed IDL document. It is
// immutable after Parse; every derived artifact (layouts, discriminator
// indices) is built from this one shape regardless of the source dialect.
type Idl struct {
	Version      string
	Name         string
	Address      string
	Metadata     *Metadata
	Instructions []Instruction
	Accounts     []Account
	Types        []TypeDefinition
	Events       []Event
	Errors       []ErrorCode

	dialect Dialect
}

// Parse loads an IDL document from its JSON encoding, normalizes both
// dialects into the canonical model, and validates the document level
// invariants.
func Parse(data []byte) (*Idl, error) {
	var raw struct {
		Version      string           `json:"version"`
		Name         string           `json:"name"`
		Address      string           `json:"address"`
		Metadata     *Metadata        `json:"metadata"`
		Instructions []Instruction    `json:"instructions"`
		Accounts     []Account        `json:"accounts"`
		Types        []TypeDefinition `json:"types"`
		Events       []Event          `json:"events"`
		Errors       []ErrorCode      `json:"errors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal idl document")
	}

	document := &Idl{
		Version:      raw.Version,
		Name:         raw.Name,
		Address:      raw.Address,
		Metadata:     raw.Metadata,
		Instructions: raw.Instructions,
		Accounts:     raw.Accounts,
		Types:        raw.Types,
		Events:       raw.Events,
		Errors:       raw.Errors,
	}

	// The spec dialect moves name/version under metadata.
	if document.Metadata != nil {
		if document.Name == "" {
			document.Name = document.Metadata.Name
		}
		if document.Version == "" {
			document.Version = document.Metadata.Version
		}
	}

	if document.Address != "" {
		if _, err := base58.Decode(document.Address); err != nil {
			return nil, errors.Wrapf(ErrInvalidAddress, "%s", document.Address)
		}
	}

	document.dialect = detectDialect(document)

	if err := document.Validate(); err != nil {
		return nil, err
	}
	return document, nil
}

// Dialect reports which schema the document was written in.
func (i *Idl) Dialect() Dialect {
	return i.dialect
}

// detectDialect checks the markers in order: a metadata spec field, a
// top-level address, or any precomputed discriminator marks the spec
// dialect.
func detectDialect(document *Idl) Dialect {
	if document.Metadata != nil && document.Metadata.Spec != "" {
		return DialectSpec
	}
	if document.Address != "" {
		return DialectSpec
	}
	for _, ix := range document.Instructions {
		if len(ix.Discriminator) > 0 {
			return DialectSpec
		}
	}
	for _, acc := range document.Accounts {
		if len(acc.Discriminator) > 0 {
			return DialectSpec
		}
	}
	return DialectLegacy
}
