package coder

import (
	"crypto/sha256"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/pkg/errors"

	"github.com/code-payments/code-idl/pkg/idl"
)

// DiscriminatorSize is the exact byte length of every wire discriminator.
const DiscriminatorSize = idl.DiscriminatorSize

// Namespace selects the derivation prefix for an entity category.
type Namespace string

const (
	NamespaceAccount     Namespace = "account"
	NamespaceInstruction Namespace = "global"
	NamespaceEvent       Namespace = "event"
)

// Derive computes the discriminator for a namespaced name: the first 8
// bytes of sha256("<namespace>:<name>"). This is a cross-implementation
// wire contract and must be bit-for-bit reproducible.
func Derive(ns Namespace, name string) []byte {
	digest := sha256.Sum256([]byte(string(ns) + ":" + name))
	return digest[:DiscriminatorSize]
}

// resolveDiscriminator prefers the precomputed discriminator carried by a
// spec dialect record and derives one from the namespaced name otherwise.
func resolveDiscriminator(ns Namespace, name string, precomputed idl.Discriminator) []byte {
	if len(precomputed) > 0 {
		return precomputed
	}
	return Derive(ns, name)
}

// discriminatorIndex is the bidirectional name<->discriminator mapping of
// one entity category. Name iteration is sorted so downstream code
// emission is deterministic.
type discriminatorIndex struct {
	byName *treemap.Map
	byDisc map[string]string
}

func newDiscriminatorIndex() *discriminatorIndex {
	return &discriminatorIndex{
		byName: treemap.NewWithStringComparator(),
		byDisc: make(map[string]string),
	}
}

func (x *discriminatorIndex) add(name string, disc []byte) error {
	if len(disc) != DiscriminatorSize {
		return errors.Wrapf(idl.ErrInvalidDiscriminator, "%s has %d bytes", name, len(disc))
	}
	if _, ok := x.byName.Get(name); ok {
		return errors.Wrapf(ErrDuplicateDiscriminator, "name %s registered twice", name)
	}
	if prev, ok := x.byDisc[string(disc)]; ok {
		return errors.Wrapf(ErrDuplicateDiscriminator, "%s collides with %s", name, prev)
	}

	x.byName.Put(name, disc)
	x.byDisc[string(disc)] = name
	return nil
}

func (x *discriminatorIndex) discriminator(name string) ([]byte, bool) {
	v, ok := x.byName.Get(name)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (x *discriminatorIndex) name(disc []byte) (string, bool) {
	name, ok := x.byDisc[string(disc)]
	return name, ok
}

// names returns every registered name in sorted order.
func (x *discriminatorIndex) names() []string {
	out := make([]string, 0, x.byName.Size())
	for _, key := range x.byName.Keys() {
		out = append(out, key.(string))
	}
	return out
}
