// Package transport moves request and response frames between a client and
// vaults over libp2p streams.
//
// Each request opens a new stream on ProtocolID, writes one uvarint
// length-prefixed msgio frame, half-closes, and reads one frame back.
// libp2p secures and multiplexes the underlying connection.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/libp2p/go-msgio"
	"github.com/multiformats/go-multiaddr"

	"nathanbeddoewebdev/safecore/internal/log"
)

const (
	// ProtocolID identifies the request protocol.
	ProtocolID = protocol.ID("/safecore/req/1.0.0")

	// MaxFrameSize bounds a single request or response.
	MaxFrameSize = 4 << 20
)

// Handler answers a request frame with a response frame.
type Handler func(ctx context.Context, req []byte) []byte

// Config configures a Node.
type Config struct {
	// ListenAddrs are multiaddrs to listen on. A node without listen
	// addresses can only dial out.
	ListenAddrs []string
}

// Node is a libp2p host speaking the request protocol.
type Node struct {
	host host.Host

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	handler Handler
}

// New starts a node.
func New(cfg Config) (*Node, error) {
	opts := []libp2p.Option{libp2p.NoListenAddrs}
	if len(cfg.ListenAddrs) > 0 {
		opts = []libp2p.Option{libp2p.ListenAddrStrings(cfg.ListenAddrs...)}
	}

	h, err := libp2p.New(opts...)
	if err != nil {
		return nil, &Error{Op: "listen", Err: err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Node{host: h, ctx: ctx, cancel: cancel}
	h.SetStreamHandler(ProtocolID, n.serveStream)
	return n, nil
}

// ID returns the node's peer ID.
func (n *Node) ID() string { return n.host.ID().String() }

// Addrs returns the full multiaddrs, including /p2p/<id>, that other nodes
// can dial.
func (n *Node) Addrs() []string {
	addrs, err := peer.AddrInfoToP2pAddrs(&peer.AddrInfo{ID: n.host.ID(), Addrs: n.host.Addrs()})
	if err != nil {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}

// Handle sets the function answering inbound requests. Requests arriving
// while no handler is set are answered with an empty frame.
func (n *Node) Handle(h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = h
}

// Dial connects to the peer at addr, a multiaddr ending in /p2p/<id>.
func (n *Node) Dial(ctx context.Context, addr string) (*Conn, error) {
	ma, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return nil, &Error{Op: "dial", Peer: addr, Err: err}
	}
	info, err := peer.AddrInfoFromP2pAddr(ma)
	if err != nil {
		return nil, &Error{Op: "dial", Peer: addr, Err: err}
	}
	if err := n.host.Connect(ctx, *info); err != nil {
		return nil, &Error{Op: "dial", Peer: info.ID.String(), Err: err}
	}
	log.G(ctx).WithField("peer", info.ID.String()).Debug("connected")
	return &Conn{node: n, peer: info.ID}, nil
}

// Close stops the node and drops every connection.
func (n *Node) Close() error {
	n.cancel()
	if err := n.host.Close(); err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}

func (n *Node) serveStream(s network.Stream) {
	defer s.Close()
	logger := log.G(n.ctx).WithField("peer", s.Conn().RemotePeer().String())

	req, err := readFrame(s)
	if err != nil {
		logger.WithError(err).Warn("bad request frame")
		s.Reset()
		return
	}

	n.mu.RLock()
	h := n.handler
	n.mu.RUnlock()

	var resp []byte
	if h != nil {
		resp = h(n.ctx, req)
	}
	if err := writeFrame(s, resp); err != nil {
		logger.WithError(err).Warn("failed to write response")
		s.Reset()
	}
}

// Conn is a connection to one peer.
type Conn struct {
	node *Node
	peer peer.ID
}

// Peer returns the remote peer ID.
func (c *Conn) Peer() string { return c.peer.String() }

// RoundTrip sends req and waits for the response. If ctx ends first the
// stream is reset and the returned *Error wraps ctx.Err().
func (c *Conn) RoundTrip(ctx context.Context, req []byte) ([]byte, error) {
	fail := func(err error) error {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return &Error{Op: "roundtrip", Peer: c.peer.String(), Err: err}
	}

	s, err := c.node.host.NewStream(ctx, c.peer, ProtocolID)
	if err != nil {
		return nil, fail(err)
	}
	defer s.Close()
	stop := context.AfterFunc(ctx, func() { s.Reset() })
	defer stop()

	if err := writeFrame(s, req); err != nil {
		return nil, fail(err)
	}
	if err := s.CloseWrite(); err != nil {
		return nil, fail(err)
	}
	resp, err := readFrame(s)
	if err != nil {
		return nil, fail(err)
	}
	return resp, nil
}

func writeFrame(w io.Writer, b []byte) error {
	if len(b) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(b))
	}
	return msgio.NewVarintWriter(w).WriteMsg(b)
}

// readFrame reads one frame. The reader consumes the length prefix a byte at
// a time, so nothing past the frame is taken from r.
func readFrame(r io.Reader) ([]byte, error) {
	b, err := msgio.NewVarintReaderSize(r, MaxFrameSize).ReadMsg()
	if errors.Is(err, msgio.ErrMsgTooLarge) {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrFrameTooLarge, MaxFrameSize)
	}
	return b, err
}
