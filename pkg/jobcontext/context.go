// Package jobcontext carries the metadata of a background maintenance run and
// executes it with retry and panic recovery.
package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type runKey struct{}

// Run identifies one execution of a background job
type Run struct {
	ID        uuid.UUID
	Job       string
	Attempt   int
	StartedAt time.Time
}

// Policy bounds a run: overall timeout, attempts and the retry delay range
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy is used by the maintenance scheduler
func DefaultPolicy() Policy {
	return Policy{
		Timeout:     5 * time.Minute,
		MaxAttempts: 3,
		BaseDelay:   5 * time.Second,
		MaxDelay:    time.Minute,
	}
}

// ErrPanic wraps a panic raised inside a job
var ErrPanic = errors.New("job panicked")

// Begin derives a run context for job, bounded by timeout when positive
func Begin(parent context.Context, job string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.WithValue(parent, runKey{}, Run{
		ID:        uuid.New(),
		Job:       job,
		StartedAt: time.Now().UTC(),
	})
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// FromContext returns the run stored by Begin. Attempt is zero based.
func FromContext(ctx context.Context) (Run, bool) {
	run, ok := ctx.Value(runKey{}).(Run)
	return run, ok
}

// Execute calls fn until it succeeds, returns a non-retryable error or the
// attempts of p are used up. Panics are recovered and never retried.
func Execute(ctx context.Context, p Policy, fn func(context.Context) error) error {
	run, _ := FromContext(ctx)
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	attempts := 0
	op := func() error {
		run.Attempt = attempts
		attempts++

		err := protect(context.WithValue(ctx, runKey{}, run), fn)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(p.MaxAttempts-1)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return fmt.Errorf("%s failed after %d attempt(s): %w", jobName(run), attempts, err)
	}
	return nil
}

func (p Policy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.BaseDelay > 0 {
		b.InitialInterval = p.BaseDelay
	}
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func protect(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fn(ctx)
}

func jobName(run Run) string {
	if run.Job == "" {
		return "job"
	}
	return run.Job
}

// Retryable reports whether err looks transient: timeouts, network failures,
// Postgres deadlocks, rate limits and upstream 5xx from the bot API.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, ErrPanic) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
	"deadlock",
	"40001",
	"40p01",
	"too many requests",
	"status 429",
	"status 5",
	"service unavailable",
	"bad gateway",
}
