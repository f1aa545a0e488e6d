package idl

import (
	"github.com/pkg/errors"
)

// LookupType resolves a defined-type reference against a definition list
// by exact name match. Zero or multiple matches fail; a match is never
// picked arbitrarily.
func LookupType(types []TypeDefinition, name string) (*TypeDefinition, error) {
	if len(types) == 0 {
		return nil, errors.Wrapf(ErrTypesNotProvided, "resolving %s", name)
	}

	var found *TypeDefinition
	count := 0
	for i := range types {
		if types[i].Name == name {
			found = &types[i]
			count++
		}
	}

	if count == 0 {
		return nil, errors.Wrapf(ErrTypeNotFound, "%s", name)
	}
	if count > 1 {
		return nil, errors.Wrapf(ErrAmbiguousType, "%s defined %d times", name, count)
	}
	return found, nil
}

// ResolveType resolves a defined-type reference against the document's
// shared type list.
func (i *Idl) ResolveType(name string) (*TypeDefinition, error) {
	return LookupType(i.Types, name)
}

// AccountTypeDefinition returns the type definition backing an account.
// The legacy dialect embeds it on the account record; the spec dialect
// requires a lookup into the shared type list by the account's name.
func (i *Idl) AccountTypeDefinition(account *Account) (*TypeDefinition, error) {
	if account.TypeDef != nil {
		return account.TypeDef, nil
	}

	def, err := i.ResolveType(account.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "account %s", account.Name)
	}
	return def, nil
}

// EventTypeDefinition returns the type definition backing an event. Legacy
// events carry their fields inline and get a synthesized struct
// definition; spec events are looked up in the shared type list. An event
// absent from both decodes as an empty struct.
func (i *Idl) EventTypeDefinition(event *Event) *TypeDefinition {
	if event.Fields != nil {
		return &TypeDefinition{
			Name:   event.Name,
			Kind:   DefinitionStruct,
			Fields: event.Fields,
		}
	}

	if def, err := i.ResolveType(event.Name); err == nil {
		return def
	}
	return &TypeDefinition{Name: event.Name, Kind: DefinitionStruct}
}

// Validate checks the document level invariants: unique names within every
// category and the absence of direct self-containment in the type graph.
func (i *Idl) Validate() error {
	if err := uniqueAccountNames(i.Accounts); err != nil {
		return err
	}
	if err := uniqueEventNames(i.Events); err != nil {
		return err
	}
	if err := uniqueInstructionNames(i.Instructions); err != nil {
		return err
	}
	return i.checkDirectRecursion()
}

func uniqueAccountNames(accounts []Account) error {
	seen := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		if _, ok := seen[acc.Name]; ok {
			return errors.Wrapf(ErrDuplicateName, "account %s", acc.Name)
		}
		seen[acc.Name] = struct{}{}
	}
	return nil
}

func uniqueEventNames(events []Event) error {
	seen := make(map[string]struct{}, len(events))
	for _, event := range events {
		if _, ok := seen[event.Name]; ok {
			return errors.Wrapf(ErrDuplicateName, "event %s", event.Name)
		}
		seen[event.Name] = struct{}{}
	}
	return nil
}

func uniqueInstructionNames(instructions []Instruction) error {
	seen := make(map[string]struct{}, len(instructions))
	for _, ix := range instructions {
		if _, ok := seen[ix.Name]; ok {
			return errors.Wrapf(ErrDuplicateName, "instruction %s", ix.Name)
		}
		seen[ix.Name] = struct{}{}
	}
	return nil
}

// checkDirectRecursion rejects type definitions that contain themselves
// without Vec/Option/Array indirection. Such a shape has no finite wire
// encoding, so it fails fast here instead of recursing at encode time.
// Containment edges follow struct fields and alias targets whose type is
// a bare Defined reference; references behind a container defer resolution
// and are representable.
func (i *Idl) checkDirectRecursion() error {
	edges := make(map[string][]string, len(i.Types))
	for idx := range i.Types {
		def := &i.Types[idx]
		switch def.Kind {
		case DefinitionStruct:
			for _, field := range def.Fields {
				if field.Type.Kind == TypeDefined {
					edges[def.Name] = append(edges[def.Name], field.Type.Defined)
				}
			}
		case DefinitionAlias:
			if def.Alias.Kind == TypeDefined {
				edges[def.Name] = append(edges[def.Name], def.Alias.Defined)
			}
		}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(edges))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return errors.Wrapf(ErrRecursiveType, "%s", name)
		case done:
			return nil
		}
		state[name] = visiting
		for _, next := range edges[name] {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for idx := range i.Types {
		if err := visit(i.Types[idx].Name); err != nil {
			return err
		}
	}
	return nil
}
