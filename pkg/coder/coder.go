// Package coder composes binary layouts with 8-byte discriminators into
// encode/decode operations for the three wire entity kinds of a program:
// accounts, instructions and events.
package coder

import (
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-idl/pkg/borsh"
	"github.com/code-payments/code-idl/pkg/idl"
)

// Coder bundles the account, instruction and event coders for one loaded
// IDL document. All derived layouts and indices are built once here and
// are immutable afterwards.
type Coder struct {
	Accounts     *AccountCoder
	Instructions *InstructionCoder
	Events       *EventCoder

	log *logrus.Entry
}

// New builds every coder over a shared layout derivation engine owned by
// the document.
func New(document *idl.Idl) (*Coder, error) {
	engine := borsh.NewEngine(document.Types)

	accounts, err := NewAccountCoder(document, engine)
	if err != nil {
		return nil, err
	}
	instructions, err := NewInstructionCoder(document, engine)
	if err != nil {
		return nil, err
	}
	events, err := NewEventCoder(document, engine)
	if err != nil {
		return nil, err
	}

	c := &Coder{
		Accounts:     accounts,
		Instructions: instructions,
		Events:       events,
		log:          logrus.StandardLogger().WithField("type", "coder"),
	}

	c.log.WithFields(logrus.Fields{
		"program":      document.Name,
		"dialect":      document.Dialect().String(),
		"accounts":     len(document.Accounts),
		"instructions": len(document.Instructions),
		"events":       len(document.Events),
		"types":        len(document.Types),
	}).Debug("constructed program coder")

	return c, nil
}
