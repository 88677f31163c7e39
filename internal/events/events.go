// Package events provides a typed, closable event channel between a
// producer goroutine and a single consumer.
//
// Unlike a bare channel, either side may hang up: a Send after the receiver
// went away reports *SendError instead of blocking forever, and a Recv after
// the sender closed reports RecvError instead of returning a zero value.
package events

import (
	"context"
	"sync"
)

// SendError is returned by Sender.Send when the value could not be delivered.
type SendError struct {
	// Disconnected is true when the receiver hung up, false when the
	// sender itself had already been closed.
	Disconnected bool
}

func (e *SendError) Error() string {
	if e.Disconnected {
		return "send failed because receiver is gone"
	}
	return "send failed because sender is closed"
}

// RecvError is returned by Receiver.Recv once the sender has closed and every
// buffered value has been consumed. It carries no detail.
type RecvError struct{}

func (RecvError) Error() string { return "receiving on a closed channel" }

type pipe[T any] struct {
	ch      chan T
	done    chan struct{} // closed when the receiver hangs up
	closing chan struct{} // closed when the sender starts closing

	mu         sync.Mutex
	sendClosed bool
	inflight   sync.WaitGroup // sends that passed the sendClosed check
	recvOnce   sync.Once
}

// Sender is the producing half of an event channel.
type Sender[T any] struct{ p *pipe[T] }

// Receiver is the consuming half of an event channel.
type Receiver[T any] struct{ p *pipe[T] }

// New returns a connected Sender and Receiver with the given buffer size.
func New[T any](buffer int) (*Sender[T], *Receiver[T]) {
	if buffer < 0 {
		buffer = 0
	}
	p := &pipe[T]{
		ch:      make(chan T, buffer),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	return &Sender[T]{p: p}, &Receiver[T]{p: p}
}

// Send delivers v, blocking until there is buffer space, the receiver hangs
// up, the sender is closed, or ctx ends.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	p := s.p
	p.mu.Lock()
	if p.sendClosed {
		p.mu.Unlock()
		return &SendError{}
	}
	p.inflight.Add(1)
	p.mu.Unlock()
	defer p.inflight.Done()

	select {
	case <-p.done:
		return &SendError{Disconnected: true}
	default:
	}

	select {
	case p.ch <- v:
		return nil
	case <-p.done:
		return &SendError{Disconnected: true}
	case <-p.closing:
		return &SendError{}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more values will be sent. Sends blocked at the time
// fail with *SendError. Close does not wait on the receiver and is safe to
// call more than once.
func (s *Sender[T]) Close() {
	p := s.p
	p.mu.Lock()
	if p.sendClosed {
		p.mu.Unlock()
		return
	}
	p.sendClosed = true
	close(p.closing)
	p.mu.Unlock()

	// Blocked sends leave through closing; ch is closed once none remain.
	p.inflight.Wait()
	close(p.ch)
}

// Recv returns the next value. It returns RecvError once the sender closed
// and the buffer is empty, or ctx.Err() if ctx ends first.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-r.p.ch:
		if !ok {
			return zero, RecvError{}
		}
		return v, nil
	case <-r.p.done:
		return zero, RecvError{}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close hangs up the receiving side; pending and future sends fail with
// *SendError. It is safe to call more than once.
func (r *Receiver[T]) Close() {
	r.p.recvOnce.Do(func() { close(r.p.done) })
}
