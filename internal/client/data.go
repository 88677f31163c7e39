package client

import (
	"context"

	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/protocol"
)

// PutImmutable stores value under its content address and returns it.
func (c *Client) PutImmutable(ctx context.Context, value []byte) (data.Name, error) {
	if err := c.checkWritable(); err != nil {
		return data.Name{}, err
	}
	if len(value) > data.MaxImmutableSize {
		return data.Name{}, coreerr.FromData(data.Errorf(data.CodeExceededSize, "%d bytes exceeds limit of %d", len(value), data.MaxImmutableSize))
	}

	name := data.NameOf(value)
	resp, err := c.call(ctx, &protocol.Request{Op: protocol.OpPutImmutable, Name: name, Value: value})
	if err != nil {
		return data.Name{}, err
	}
	if err := expect(resp, protocol.ResponseOK); err != nil {
		return data.Name{}, err
	}
	return name, nil
}

// GetImmutable fetches the value stored under name and checks that it
// hashes to name.
func (c *Client) GetImmutable(ctx context.Context, name data.Name) ([]byte, error) {
	resp, err := c.call(ctx, &protocol.Request{Op: protocol.OpGetImmutable, Name: name})
	if err != nil {
		return nil, err
	}
	if err := expect(resp, protocol.ResponseValue); err != nil {
		return nil, err
	}

	d := data.ImmutableData{Value: resp.Value}
	if err := d.Validate(name); err != nil {
		return nil, toError(err)
	}
	return d.Value, nil
}

// PutMutable creates mutable data at version zero.
func (c *Client) PutMutable(ctx context.Context, name data.Name, value []byte) error {
	if err := c.checkWritable(); err != nil {
		return err
	}
	resp, err := c.call(ctx, &protocol.Request{Op: protocol.OpPutMutable, Name: name, Value: value})
	if err != nil {
		return err
	}
	if err := expect(resp, protocol.ResponseOK); err != nil {
		return err
	}
	c.remember(ctx, name, 0)
	return nil
}

// GetMutable fetches mutable data and records its version for UpdateMutable.
func (c *Client) GetMutable(ctx context.Context, name data.Name) (*data.MutableData, error) {
	resp, err := c.call(ctx, &protocol.Request{Op: protocol.OpGetMutable, Name: name})
	if err != nil {
		return nil, err
	}
	if err := expect(resp, protocol.ResponseValue); err != nil {
		return nil, err
	}
	c.remember(ctx, name, resp.Version)
	return &data.MutableData{Name: name, Version: resp.Version, Value: resp.Value}, nil
}

// CachedVersion returns the last version of name this client has seen.
func (c *Client) CachedVersion(name data.Name) (uint64, error) {
	v, ok := c.versions.Get(name)
	if !ok {
		return 0, coreerr.ErrVersionCacheMiss
	}
	return v, nil
}

// UpdateMutable replaces the value of name with the version after the
// cached one. Without a cached version it fails with VersionCacheMiss;
// fetch the data with GetMutable first.
func (c *Client) UpdateMutable(ctx context.Context, name data.Name, value []byte) error {
	if err := c.checkWritable(); err != nil {
		return err
	}
	current, err := c.CachedVersion(name)
	if err != nil {
		return err
	}

	next := current + 1
	resp, err := c.call(ctx, &protocol.Request{Op: protocol.OpUpdateMutable, Name: name, Value: value, Version: next})
	if err != nil {
		if code, ok := dataCode(err); ok && code == data.CodeInvalidVersion {
			// Someone else updated it; the cached version is stale.
			if ierr := c.versions.Invalidate(name); ierr != nil {
				c.log(ctx).WithError(ierr).Warn("failed to invalidate version cache")
			}
		}
		return err
	}
	if err := expect(resp, protocol.ResponseOK); err != nil {
		return err
	}
	c.remember(ctx, name, next)
	return nil
}

func (c *Client) remember(ctx context.Context, name data.Name, version uint64) {
	if err := c.versions.Set(name, version); err != nil {
		c.log(ctx).WithError(err).WithField("name", name).Warn("failed to cache version")
	}
}
