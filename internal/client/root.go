package client

import (
	"context"
	"fmt"
	"slices"

	"nathanbeddoewebdev/safecore/internal/codec"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/data"
)

// Entry is a file listed in a root directory. Map is the immutable name of
// the file's sealed data map.
type Entry struct {
	Name string
	Map  data.Name
}

// Directory is an account's root directory. It is stored as mutable data,
// sealed to the account's public key.
type Directory struct {
	Entries []Entry
}

// Lookup returns the entry called name.
func (d *Directory) Lookup(name string) (Entry, bool) {
	i := slices.IndexFunc(d.Entries, func(e Entry) bool { return e.Name == name })
	if i < 0 {
		return Entry{}, false
	}
	return d.Entries[i], true
}

// Set adds e, replacing any entry with the same name.
func (d *Directory) Set(e Entry) {
	if i := slices.IndexFunc(d.Entries, func(x Entry) bool { return x.Name == e.Name }); i >= 0 {
		d.Entries[i] = e
		return
	}
	d.Entries = append(d.Entries, e)
}

func (d *Directory) MarshalWire(e *codec.Encoder) {
	for i := range d.Entries {
		e.Message(1, &d.Entries[i])
	}
}

func (d *Directory) UnmarshalField(f codec.Field) error {
	if f.Num != 1 {
		return nil
	}
	var e Entry
	if err := f.Message(&e); err != nil {
		return err
	}
	d.Entries = append(d.Entries, e)
	return nil
}

func (e *Entry) MarshalWire(enc *codec.Encoder) {
	enc.String(1, e.Name)
	enc.Bytes(2, e.Map[:])
}

func (e *Entry) UnmarshalField(f codec.Field) error {
	switch f.Num {
	case 1:
		s, err := f.String()
		if err != nil {
			return err
		}
		e.Name = s
	case 2:
		b, err := f.Bytes()
		if err != nil {
			return err
		}
		n, err := data.NameFromBytes(b)
		if err != nil {
			return err
		}
		e.Map = n
	}
	return nil
}

func (e *Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("entry name: %w", codec.ErrMissingField)
	}
	return nil
}

// RootName is the network name of the root directory of the account with
// public key pub.
func RootName(pub *[crypt.KeySize]byte) data.Name {
	return data.NameOf(append([]byte("safecore/root/"), pub[:]...))
}

// CreateRoot stores an empty root directory for kp. It fails with
// RootDirectoryExists if the account already has one.
func (c *Client) CreateRoot(ctx context.Context, kp *crypt.KeyPair) error {
	sealed, err := c.sealRoot(kp, &Directory{})
	if err != nil {
		return err
	}
	err = c.PutMutable(ctx, RootName(&kp.Public), sealed)
	if code, ok := dataCode(err); ok && code == data.CodeDataExists {
		return coreerr.ErrRootDirectoryExists
	}
	return err
}

// Root fetches and opens the root directory of kp.
func (c *Client) Root(ctx context.Context, kp *crypt.KeyPair) (*Directory, error) {
	md, err := c.GetMutable(ctx, RootName(&kp.Public))
	if err != nil {
		return nil, err
	}
	plain, err := crypt.OpenAnonymous(kp, md.Value)
	if err != nil {
		return nil, err
	}
	var d Directory
	if err := codec.Unmarshal(plain, &d); err != nil {
		return nil, toError(err)
	}
	return &d, nil
}

// UpdateRoot replaces the root directory of kp. The root must have been
// fetched with Root since its last change.
func (c *Client) UpdateRoot(ctx context.Context, kp *crypt.KeyPair, d *Directory) error {
	sealed, err := c.sealRoot(kp, d)
	if err != nil {
		return err
	}
	return c.UpdateMutable(ctx, RootName(&kp.Public), sealed)
}

func (c *Client) sealRoot(kp *crypt.KeyPair, d *Directory) ([]byte, error) {
	if err := c.checkWritable(); err != nil {
		return nil, err
	}
	return crypt.SealAnonymous(&kp.Public, codec.Marshal(d), nil)
}
