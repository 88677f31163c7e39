package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameTooLarge is returned when a peer announces a frame larger than
	// MaxFrameSize, or when a caller tries to send one.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")

	// ErrNoPeers is returned by Bootstrap when it was given no addresses.
	ErrNoPeers = errors.New("no bootstrap peers configured")
)

// Error describes a failed transport operation.
type Error struct {
	// Op is the step that failed, e.g. "listen", "dial" or "roundtrip".
	Op string

	// Peer is the remote peer ID or address, when known.
	Peer string

	Err error
}

func (e *Error) Error() string {
	if e.Peer != "" {
		return fmt.Sprintf("transport: %s %s: %v", e.Op, e.Peer, e.Err)
	}
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
