package webclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

type AttemptFunc func() (status int, body []byte, err error)

// DoWithRetry runs fn up to attempts times, retrying only when the attempt was
// rate limited (429) or timed out. The backoff between attempts is fixed;
// every other failure is returned immediately.
func DoWithRetry(ctx context.Context, attempts int, backoff time.Duration, fn AttemptFunc) (int, []byte, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var (
		status int
		body   []byte
		err    error
	)
	for i := 0; i < attempts; i++ {
		status, body, err = fn()
		if !Retryable(status, err) || i == attempts-1 {
			return status, body, err
		}

		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return status, body, ctx.Err()
		case <-t.C:
		}
	}
	return status, body, err
}

// Retryable reports whether an attempt outcome warrants another try.
func Retryable(status int, err error) bool {
	return status == http.StatusTooManyRequests || IsTimeout(err)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
