package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{Timeout: time.Second, MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func begin(t *testing.T, job string) context.Context {
	t.Helper()
	ctx, cancel := Begin(context.Background(), job, time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestExecute_RetriesTransientErrors(t *testing.T) {
	var attempts []int
	err := Execute(begin(t, "auto_sync"), fastPolicy(), func(ctx context.Context) error {
		run, ok := FromContext(ctx)
		require.True(t, ok)
		attempts = append(attempts, run.Attempt)
		if len(attempts) < 3 {
			return errors.New("bot api returned status 503: unavailable")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, attempts)
}

func TestExecute_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Execute(begin(t, "cleanup_stale"), fastPolicy(), func(context.Context) error {
		calls++
		return errors.New("permission denied for table recordings")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleanup_stale failed after 1 attempt(s)")
	assert.Equal(t, 1, calls)
}

func TestExecute_RecoversPanics(t *testing.T) {
	calls := 0
	err := Execute(begin(t, "auto_sync"), fastPolicy(), func(context.Context) error {
		calls++
		panic("boom")
	})
	assert.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, calls)
}

func TestExecute_GivesUpAfterMaxAttempts(t *testing.T) {
	p := fastPolicy()
	p.MaxAttempts = 2
	calls := 0
	err := Execute(begin(t, "auto_sync"), p, func(context.Context) error {
		calls++
		return errors.New("dial tcp: connection refused")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempt(s)")
	assert.Equal(t, 2, calls)
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "auto_sync", 0)
	cancel()
	calls := 0
	err := Execute(ctx, fastPolicy(), func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestBegin(t *testing.T) {
	ctx := begin(t, "cleanup_stale")
	run, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "cleanup_stale", run.Job)
	assert.NotEqual(t, [16]byte{}, [16]byte(run.ID))
	assert.False(t, run.StartedAt.IsZero())

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(context.DeadlineExceeded))
	assert.True(t, Retryable(errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")))
	assert.True(t, Retryable(errors.New("bot api returned status 429: slow down")))
	assert.False(t, Retryable(errors.New("record not found")))
	assert.False(t, Retryable(context.Canceled))
	assert.False(t, Retryable(nil))
}
