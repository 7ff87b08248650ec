package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// SQLite primary result codes for a database held by another connection.
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// RetryConfig configures retries of snapshot writes.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// RetryableFunc optionally overrides Retryable.
	RetryableFunc func(error) bool
}

// DefaultRetry is the standard retry configuration.
var DefaultRetry = RetryConfig{
	MaxAttempts:    4,
	InitialBackoff: 50 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// NoRetry disables retries.
var NoRetry = RetryConfig{
	MaxAttempts: 1,
}

// Retryable reports whether err is a busy or locked SQLite database, the
// only failures a later attempt can fix.
func Retryable(err error) bool {
	var coded interface{ Code() int }
	if !errors.As(err, &coded) {
		return false
	}
	switch coded.Code() & 0xff {
	case sqliteBusy, sqliteLocked:
		return true
	}
	return false
}

// PutWithRetry is Put with retries of transient store failures. It returns
// the stored size and the number of attempts made.
func PutWithRetry(ctx context.Context, store Store, s *Snapshot, cfg RetryConfig) (size, attempts int, err error) {
	data, err := s.Marshal()
	if err != nil {
		return 0, 0, fmt.Errorf("encode snapshot: %w", err)
	}
	retryable := cfg.RetryableFunc
	if retryable == nil {
		retryable = Retryable
	}

	backoff := cfg.InitialBackoff
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, attempt - 1, err
		}
		err := store.Save(s.ChainID, s.Round, data)
		if err == nil {
			return len(data), attempt, nil
		}
		if !retryable(err) || attempt >= cfg.MaxAttempts {
			return 0, attempt, err
		}

		select {
		case <-ctx.Done():
			return 0, attempt, ctx.Err()
		case <-time.After(withJitter(backoff, cfg.Jitter)):
		}
		backoff = min(time.Duration(float64(backoff)*cfg.BackoffFactor), cfg.MaxBackoff)
	}
}

// withJitter returns base +/- base*jitter*U(-1, 1).
func withJitter(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}
	return time.Duration(float64(base) + float64(base)*jitter*(rand.Float64()*2-1))
}
