package coder

import (
	"github.com/pkg/errors"

	"github.com/code-payments/code-idl/pkg/borsh"
	"github.com/code-payments/code-idl/pkg/idl"
)

// AccountCoder encodes and decodes account data framed by an 8-byte
// discriminator. Decoding is strict: an unknown discriminator is an
// error.
type AccountCoder struct {
	layouts map[string]borsh.Layout
	index   *discriminatorIndex
}

// NewAccountCoder builds layouts and discriminator indices for every
// account the document declares.
func NewAccountCoder(document *idl.Idl, engine *borsh.Engine) (*AccountCoder, error) {
	c := &AccountCoder{
		layouts: make(map[string]borsh.Layout, len(document.Accounts)),
		index:   newDiscriminatorIndex(),
	}

	for i := range document.Accounts {
		account := &document.Accounts[i]

		def, err := document.AccountTypeDefinition(account)
		if err != nil {
			return nil, err
		}
		layout, err := engine.ForDefinition(def)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", account.Name)
		}
		c.layouts[account.Name] = layout

		disc := resolveDiscriminator(NamespaceAccount, account.Name, account.Discriminator)
		if err := c.index.add(account.Name, disc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DecodedAccount is a decoded account payload tagged with the resolved
// account name.
type DecodedAccount struct {
	Name string
	Data interface{}
}

// Encode serializes the value with the named account's layout and
// prepends its discriminator.
func (c *AccountCoder) Encode(name string, v interface{}) ([]byte, error) {
	disc, ok := c.index.discriminator(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "account %s", name)
	}

	payload, err := borsh.Marshal(c.layouts[name], v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode account %s", name)
	}

	out := make([]byte, 0, DiscriminatorSize+len(payload))
	out = append(out, disc...)
	return append(out, payload...), nil
}

// Decode reads the leading discriminator, resolves the account it tags,
// and parses the remaining bytes with that account's layout.
func (c *AccountCoder) Decode(data []byte) (*DecodedAccount, error) {
	if len(data) < DiscriminatorSize {
		return nil, ErrInvalidAccountData
	}

	name, ok := c.index.name(data[:DiscriminatorSize])
	if !ok {
		return nil, errors.Wrap(ErrInvalidAccountData, "unknown discriminator")
	}

	value, err := borsh.Unmarshal(c.layouts[name], data[DiscriminatorSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode account %s", name)
	}
	return &DecodedAccount{Name: name, Data: value}, nil
}

// Discriminator returns the 8-byte tag of a named account.
func (c *AccountCoder) Discriminator(name string) ([]byte, error) {
	disc, ok := c.index.discriminator(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "account %s", name)
	}
	return disc, nil
}

// Names returns every account name in sorted order.
func (c *AccountCoder) Names() []string {
	return c.index.names()
}
