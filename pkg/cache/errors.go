package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNetwork marks transport failures talking to a remote backend.
var ErrNetwork = errors.New("network error")

// transientError is a failure worth another attempt.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// IsTransient reports whether err is a transport failure a backend retries.
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// classify turns a Redis client error into a transient ErrNetwork unless it
// is a miss or a context error, which are returned unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return transientError{fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
}

// backoff retries transient failures, doubling the delay after each one.
type backoff struct {
	attempts int
	delay    time.Duration
}

var defaultBackoff = backoff{attempts: 3, delay: 100 * time.Millisecond}

// do calls fn until it succeeds, fails permanently, runs out of attempts or
// ctx ends. It returns the last error.
func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.delay
	for i := 1; ; i++ {
		err := fn()
		if err == nil || !IsTransient(err) || i >= b.attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
