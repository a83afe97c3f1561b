package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	bferrors "github.com/matzehuels/barnsley/pkg/errors"
)

// Sentinel errors for caching operations.
var (
	// ErrNetwork is returned when a network backend cannot be reached.
	ErrNetwork = errors.New("network error")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("cache closed")
)

// unreachable reports a backend that failed its startup ping. The result
// carries NETWORK_ERROR, or TIMEOUT when the ping ran out of time, and
// matches [ErrNetwork] with errors.Is.
func unreachable(backend string, err error, timedOut bool) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		timedOut = true
	}
	code := bferrors.ErrCodeNetwork
	if timedOut {
		code = bferrors.ErrCodeTimeout
	}
	return bferrors.Wrap(code, fmt.Errorf("%w: %v", ErrNetwork, err), "%s unreachable", backend)
}

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff interval; tests shorten it.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff retries fn up to 3 times with exponential backoff.
// Only errors wrapped with Retryable will trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
