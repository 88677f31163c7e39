package transport

import (
	"context"

	"github.com/libp2p/go-libp2p/core/network"
	"github.com/multiformats/go-multiaddr"

	"nathanbeddoewebdev/safecore/internal/events"
	"nathanbeddoewebdev/safecore/internal/log"
)

// EventType identifies a network event.
type EventType uint8

const (
	// EventBootstrapped carries the connection to the first reachable
	// bootstrap peer.
	EventBootstrapped EventType = iota + 1
	// EventBootstrapFailed carries the error of the last failed dial.
	EventBootstrapFailed
	EventConnected
	EventDisconnected
)

func (t EventType) String() string {
	switch t {
	case EventBootstrapped:
		return "bootstrapped"
	case EventBootstrapFailed:
		return "bootstrap-failed"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Event is emitted on the channels passed to Bootstrap and Watch.
type Event struct {
	Type EventType
	Peer string
	Conn *Conn
	Err  *Error
}

// Bootstrap dials addrs in order until one succeeds and reports the outcome
// as a single event on out, then closes out. It is meant to run in its own
// goroutine; if the receiver has gone away the result is dropped.
func (n *Node) Bootstrap(ctx context.Context, addrs []string, out *events.Sender[Event]) {
	defer out.Close()
	logger := log.G(ctx)

	ev := Event{Type: EventBootstrapFailed, Err: &Error{Op: "bootstrap", Err: ErrNoPeers}}
	for _, addr := range addrs {
		conn, err := n.Dial(ctx, addr)
		if err == nil {
			ev = Event{Type: EventBootstrapped, Peer: conn.Peer(), Conn: conn}
			break
		}
		logger.WithError(err).WithField("addr", addr).Debug("bootstrap dial failed")
		ev = Event{Type: EventBootstrapFailed, Peer: addr, Err: err.(*Error)}
		if ctx.Err() != nil {
			break
		}
	}

	if err := out.Send(ctx, ev); err != nil {
		logger.WithError(err).Debug("bootstrap result dropped")
	}
}

// Watch reports every peer connection and disconnection on out until ctx
// ends or the receiver hangs up, then closes out.
func (n *Node) Watch(ctx context.Context, out *events.Sender[Event]) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notify := func(t EventType) func(network.Network, network.Conn) {
		return func(_ network.Network, c network.Conn) {
			ev := Event{Type: t, Peer: c.RemotePeer().String()}
			// Notifiee callbacks must not block the swarm.
			go func() {
				if err := out.Send(ctx, ev); err != nil {
					cancel()
				}
			}()
		}
	}
	bundle := &network.NotifyBundle{
		ConnectedF:    notify(EventConnected),
		DisconnectedF: notify(EventDisconnected),
	}
	n.host.Network().Notify(bundle)
	defer n.host.Network().StopNotify(bundle)

	select {
	case <-ctx.Done():
	case <-n.ctx.Done():
	}
	cancel()
	out.Close()
}

// IsAddr reports whether s parses as a multiaddr.
func IsAddr(s string) bool {
	_, err := multiaddr.NewMultiaddr(s)
	return err == nil
}
