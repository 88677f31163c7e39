// Package client is the storage client. Every exported operation reports
// failure as a *coreerr.Error, whatever subsystem it came from.
package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"nathanbeddoewebdev/safecore/internal/cache"
	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/events"
	"nathanbeddoewebdev/safecore/internal/log"
	"nathanbeddoewebdev/safecore/internal/protocol"
	"nathanbeddoewebdev/safecore/internal/retry"
	"nathanbeddoewebdev/safecore/internal/transport"
)

// RoundTripper sends one encoded request and returns the encoded response.
// *transport.Conn and vault.Loopback implement it.
type RoundTripper interface {
	RoundTrip(ctx context.Context, req []byte) ([]byte, error)
}

// Bootstrapper reports the outcome of joining the network on out.
// *transport.Node implements it.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, addrs []string, out *events.Sender[transport.Event])
}

// Notification is sent to the observer when the client connects.
type Notification struct {
	Event transport.EventType
	Peer  string
}

// Client talks to vaults over a RoundTripper.
type Client struct {
	cfg      *config.Config
	versions *cache.Versions
	logger   *logrus.Entry
	retry    retry.Config
	observer *events.Sender[Notification]

	nextID atomic.Uint64

	mu   sync.RWMutex
	conn RoundTripper
}

// Option configures a Client.
type Option func(*Client)

// WithVersionCache sets the cache of mutable data versions. Without one the
// client keeps versions in memory for its own lifetime.
func WithVersionCache(v *cache.Versions) Option {
	return func(c *Client) { c.versions = v }
}

// WithLogger sets the logger used instead of the one carried by the
// operation's context.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetry sets the retry policy for requests.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithObserver sets a channel that receives connection notifications.
func WithObserver(s *events.Sender[Notification]) Option {
	return func(c *Client) { c.observer = s }
}

// New returns a client using conn, which may be nil until Connect is called.
func New(cfg *config.Config, conn RoundTripper, opts ...Option) *Client {
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := &Client{
		cfg:   cfg,
		conn:  conn,
		retry: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.versions == nil {
		c.versions = cache.New("", 0)
	}
	return c
}

func (c *Client) log(ctx context.Context) *logrus.Entry {
	if c.logger != nil {
		return c.logger
	}
	return log.G(ctx)
}

// Connect joins the network through the first reachable address in addrs,
// or the configured bootstrap peers when addrs is empty.
func (c *Client) Connect(ctx context.Context, b Bootstrapper, addrs []string) error {
	if len(addrs) == 0 {
		addrs = c.cfg.BootstrapPeers
	}

	tx, rx := events.New[transport.Event](1)
	defer rx.Close()
	go b.Bootstrap(ctx, addrs, tx)

	ev, err := rx.Recv(ctx)
	if err != nil {
		return toError(err)
	}

	switch ev.Type {
	case transport.EventBootstrapped:
	case transport.EventBootstrapFailed:
		if ev.Err == nil {
			return coreerr.Unexpected("bootstrap failed without an error")
		}
		return coreerr.FromTransport(ev.Err)
	default:
		c.log(ctx).WithField("event", ev.Type).Warn("unexpected event while bootstrapping")
		return coreerr.ErrReceivedUnexpectedEvent
	}
	if ev.Conn == nil {
		return coreerr.Unexpected("bootstrapped without a connection")
	}

	c.mu.Lock()
	c.conn = ev.Conn
	c.mu.Unlock()
	c.log(ctx).WithField("peer", ev.Peer).Debug("connected")

	if c.observer != nil {
		if err := c.observer.Send(ctx, Notification{Event: ev.Type, Peer: ev.Peer}); err != nil {
			return toError(err)
		}
	}
	return nil
}

func (c *Client) connection() RoundTripper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Client) checkWritable() error {
	if c.cfg.ReadOnly {
		return coreerr.ErrOperationForbidden
	}
	return nil
}

// call sends req, retrying transient failures, and returns a response that
// answers it and is not an error response.
func (c *Client) call(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var resp *protocol.Response
	err := retry.Do(ctx, c.retry, retry.IsRetryable, func() error {
		var err error
		resp, err = c.roundTrip(ctx, req)
		return err
	})
	if err != nil {
		c.log(ctx).WithError(err).WithField("op", req.Op).Debug("request failed")
		return nil, toError(err)
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	conn := c.connection()
	if conn == nil {
		return nil, coreerr.Unexpected("client is not connected")
	}
	req.ID = c.nextID.Add(1)

	rctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	raw, err := conn.RoundTrip(rctx, req.Encode())
	if err != nil {
		if ce := coreerr.FromContext(rctx.Err()); ce != nil {
			return nil, ce
		}
		if ce, ok := coreerr.Classify(err); ok {
			return nil, ce
		}
		return nil, coreerr.FromTransport(&transport.Error{Op: "roundtrip", Err: err})
	}

	resp, err := protocol.DecodeResponse(raw)
	if err != nil {
		return nil, toError(err)
	}
	if resp.ID != req.ID {
		c.log(ctx).WithFields(log.Fields{"want": req.ID, "got": resp.ID}).Warn("response id mismatch")
		return nil, coreerr.ErrReceivedUnexpectedData
	}
	if derr := resp.Err(); derr != nil {
		return nil, coreerr.FromData(derr)
	}
	return resp, nil
}

// expect checks the response shape of a successful call.
func expect(resp *protocol.Response, t protocol.ResponseType) error {
	if resp.Type != t {
		return coreerr.ErrReceivedUnexpectedData
	}
	return nil
}

// toError converts any failure to a *coreerr.Error. Errors of no known
// subsystem become Unexpected since they can only come from this package.
func toError(err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := coreerr.Classify(err); ok {
		return ce
	}
	return coreerr.Unexpectedf("unclassified failure: %v", err)
}

// dataCode returns the code of the data error inside err.
func dataCode(err error) (data.Code, bool) {
	var de *data.Error
	if errors.As(err, &de) {
		return de.Code, true
	}
	return 0, false
}
