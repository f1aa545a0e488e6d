package coder

import (
	"github.com/pkg/errors"

	"github.com/code-payments/code-idl/pkg/borsh"
	"github.com/code-payments/code-idl/pkg/idl"
)

// EventCoder encodes and decodes event frames. Unlike accounts and
// instructions, decoding is lenient: event streams carry frames emitted by
// unrelated programs, so an unknown discriminator yields no event rather
// than an error.
type EventCoder struct {
	layouts map[string]borsh.Layout
	index   *discriminatorIndex
}

// NewEventCoder builds layouts and discriminator indices for every event
// the document declares.
func NewEventCoder(document *idl.Idl, engine *borsh.Engine) (*EventCoder, error) {
	c := &EventCoder{
		layouts: make(map[string]borsh.Layout, len(document.Events)),
		index:   newDiscriminatorIndex(),
	}

	for i := range document.Events {
		event := &document.Events[i]

		layout, err := engine.ForDefinition(document.EventTypeDefinition(event))
		if err != nil {
			return nil, errors.Wrapf(err, "event %s", event.Name)
		}
		c.layouts[event.Name] = layout

		disc := resolveDiscriminator(NamespaceEvent, event.Name, event.Discriminator)
		if err := c.index.add(event.Name, disc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DecodedEvent is a decoded event payload tagged with the resolved event
// name.
type DecodedEvent struct {
	Name string
	Data interface{}
}

// Encode serializes the value with the named event's layout and prepends
// its discriminator.
func (c *EventCoder) Encode(name string, v interface{}) ([]byte, error) {
	disc, ok := c.index.discriminator(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "event %s", name)
	}

	payload, err := borsh.Marshal(c.layouts[name], v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode event %s", name)
	}

	out := make([]byte, 0, DiscriminatorSize+len(payload))
	out = append(out, disc...)
	return append(out, payload...), nil
}

// Decode parses an event frame. A frame shorter than the discriminator is
// an error; a frame with an unrecognized discriminator returns (nil, nil)
// so callers can skip foreign events.
func (c *EventCoder) Decode(data []byte) (*DecodedEvent, error) {
	if len(data) < DiscriminatorSize {
		return nil, ErrInvalidEventData
	}

	name, ok := c.index.name(data[:DiscriminatorSize])
	if !ok {
		return nil, nil
	}

	value, err := borsh.Unmarshal(c.layouts[name], data[DiscriminatorSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode event %s", name)
	}
	return &DecodedEvent{Name: name, Data: value}, nil
}

// Names returns every event name in sorted order.
func (c *EventCoder) Names() []string {
	return c.index.names()
}
