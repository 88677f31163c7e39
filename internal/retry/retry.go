// Package retry re-runs operations that failed with a transient error.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"

	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/log"
)

// Predicate reports whether a failed attempt should be tried again.
type Predicate func(error) bool

// Config bounds the attempts made by Do and the pause between them.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultConfig is used by the client unless overridden.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Do calls fn until it succeeds, fails with an error shouldRetry rejects,
// or MaxAttempts is reached. The error of the last attempt is returned
// unchanged; if ctx ends first, ctx.Err() is returned.
func Do(ctx context.Context, cfg Config, shouldRetry Predicate, fn func() error) error {
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}
	attempts := max(cfg.MaxAttempts, 1)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil || attempt >= attempts || !shouldRetry(err) {
			return err
		}

		pause := cfg.delay(attempt)
		log.G(ctx).WithError(err).WithFields(log.Fields{"attempt": attempt, "delay": pause}).Debug("retrying")
		if pause <= 0 {
			continue
		}

		t := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// IsRetryable treats request timeouts and transport failures as transient.
// Cancellation never is. Errors from outside the client fall back to
// deadline and net.Error timeout checks.
func IsRetryable(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return false
	}

	if kind, ok := coreerr.KindOf(err); ok {
		switch kind {
		case coreerr.KindRequestTimeout, coreerr.KindTransport:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// delay is the full-jitter exponential backoff after a failed attempt:
// uniform in [0, min(MaxDelay, BaseDelay*2^(attempt-1))].
func (c Config) delay(attempt int) time.Duration {
	if c.BaseDelay <= 0 {
		return 0
	}
	ceiling := c.BaseDelay << (max(attempt, 1) - 1)
	if ceiling <= 0 || (c.MaxDelay > 0 && ceiling > c.MaxDelay) {
		ceiling = c.MaxDelay
	}
	if ceiling <= 0 {
		return 0
	}
	return rand.N(ceiling + 1)
}
