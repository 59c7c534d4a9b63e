package webclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoWithRetryRetriesOnceOn429(t *testing.T) {
	calls := 0
	status, body, err := DoWithRetry(context.Background(), 2, time.Millisecond, func() (int, []byte, error) {
		calls++
		if calls == 1 {
			return http.StatusTooManyRequests, nil, fmt.Errorf("status 429")
		}
		return http.StatusOK, []byte("ok"), nil
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []byte("ok"), body)
	require.Equal(t, 2, calls)
}

func TestDoWithRetryRetriesOnTimeout(t *testing.T) {
	calls := 0
	_, _, err := DoWithRetry(context.Background(), 2, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 0, nil, context.DeadlineExceeded
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 2, calls)
}

func TestDoWithRetryDoesNotRetryServerErrors(t *testing.T) {
	calls := 0
	status, _, err := DoWithRetry(context.Background(), 2, time.Millisecond, func() (int, []byte, error) {
		calls++
		return http.StatusInternalServerError, nil, fmt.Errorf("status 500")
	})
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, 1, calls)
}

func TestDoWithRetryStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, _, err := DoWithRetry(ctx, 2, time.Minute, func() (int, []byte, error) {
		calls++
		return http.StatusTooManyRequests, nil, fmt.Errorf("status 429")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestIsTimeout(t *testing.T) {
	require.True(t, IsTimeout(context.DeadlineExceeded))
	require.True(t, IsTimeout(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	require.False(t, IsTimeout(nil))
	require.False(t, IsTimeout(errors.New("boom")))
}
