// Package vault implements an in-memory data vault answering protocol
// requests. It backs `safecore vault serve` and the client tests.
package vault

import (
	"context"
	"sync"

	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/log"
	"nathanbeddoewebdev/safecore/internal/protocol"
)

// Vault stores immutable and mutable data in memory.
type Vault struct {
	mu        sync.RWMutex
	immutable map[data.Name][]byte
	mutable   map[data.Name]data.MutableData
}

// New returns an empty vault.
func New() *Vault {
	return &Vault{
		immutable: make(map[data.Name][]byte),
		mutable:   make(map[data.Name]data.MutableData),
	}
}

// Handle decodes a request frame, applies it and returns the encoded
// response. It has the signature of transport.Handler.
func (v *Vault) Handle(ctx context.Context, frame []byte) []byte {
	req, err := protocol.DecodeRequest(frame)
	if err != nil {
		log.G(ctx).WithError(err).Warn("vault: rejecting malformed request")
		return protocol.ErrorResponse(0, data.Errorf(data.CodeNetworkOther, "malformed request")).Encode()
	}

	resp, derr := v.apply(req)
	if derr != nil {
		log.G(ctx).WithFields(log.Fields{"op": req.Op, "name": req.Name, "code": derr.Code}).Debug("vault: request refused")
		resp = protocol.ErrorResponse(req.ID, derr)
	}
	return resp.Encode()
}

func (v *Vault) apply(req *protocol.Request) (*protocol.Response, *data.Error) {
	ok := &protocol.Response{ID: req.ID, Type: protocol.ResponseOK}

	switch req.Op {
	case protocol.OpPutImmutable:
		d := data.ImmutableData{Value: req.Value}
		if err := d.Validate(req.Name); err != nil {
			return nil, err.(*data.Error)
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		v.immutable[req.Name] = req.Value
		return ok, nil

	case protocol.OpGetImmutable:
		v.mu.RLock()
		defer v.mu.RUnlock()
		value, found := v.immutable[req.Name]
		if !found {
			return nil, data.Errorf(data.CodeNoSuchData, "immutable %s", req.Name)
		}
		return &protocol.Response{ID: req.ID, Type: protocol.ResponseValue, Value: value}, nil

	case protocol.OpPutMutable:
		if err := checkSize(req.Value); err != nil {
			return nil, err
		}
		if req.Version != 0 {
			return nil, data.Errorf(data.CodeInvalidVersion, "new data must start at version 0, got %d", req.Version)
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, found := v.mutable[req.Name]; found {
			return nil, data.Errorf(data.CodeDataExists, "mutable %s", req.Name)
		}
		v.mutable[req.Name] = data.MutableData{Name: req.Name, Value: req.Value}
		return ok, nil

	case protocol.OpGetMutable:
		v.mu.RLock()
		defer v.mu.RUnlock()
		md, found := v.mutable[req.Name]
		if !found {
			return nil, data.Errorf(data.CodeNoSuchData, "mutable %s", req.Name)
		}
		return &protocol.Response{ID: req.ID, Type: protocol.ResponseValue, Value: md.Value, Version: md.Version}, nil

	case protocol.OpUpdateMutable:
		if err := checkSize(req.Value); err != nil {
			return nil, err
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		md, found := v.mutable[req.Name]
		if !found {
			return nil, data.Errorf(data.CodeNoSuchData, "mutable %s", req.Name)
		}
		if req.Version != md.Version+1 {
			return nil, data.Errorf(data.CodeInvalidVersion, "expected version %d, got %d", md.Version+1, req.Version)
		}
		v.mutable[req.Name] = data.MutableData{Name: req.Name, Version: req.Version, Value: req.Value}
		return ok, nil
	}
	return nil, data.Errorf(data.CodeNetworkOther, "unsupported operation %s", req.Op)
}

func checkSize(value []byte) *data.Error {
	if len(value) > data.MaxImmutableSize {
		return data.Errorf(data.CodeExceededSize, "%d bytes exceeds limit of %d", len(value), data.MaxImmutableSize)
	}
	return nil
}

// Loopback connects a client directly to a vault without a network.
type Loopback struct {
	Vault *Vault
}

// RoundTrip hands req to the vault.
func (l Loopback) RoundTrip(ctx context.Context, req []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Vault.Handle(ctx, req), nil
}
