package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// RetryConfig bounds retries of failed payroll queries. One attempt means
// no retry.
type RetryConfig struct {
	Attempts uint   `toml:"attempts"`
	Delay    string `toml:"delay"`
}

// RetryEnv maps config fields to environment variable names for override injection.
type RetryEnv struct {
	Attempts string
	Delay    string
}

// DelayDuration returns Delay as a time.Duration.
func (c *RetryConfig) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Delay)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RetryConfig) Finalize(env *RetryEnv) error {
	if c.Attempts == 0 {
		c.Attempts = 1
	}
	if c.Delay == "" {
		c.Delay = "250ms"
	}
	if env != nil {
		if v := os.Getenv(env.Attempts); env.Attempts != "" && v != "" {
			if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
				c.Attempts = uint(n)
			}
		}
		if v := os.Getenv(env.Delay); env.Delay != "" && v != "" {
			c.Delay = v
		}
	}
	if _, err := time.ParseDuration(c.Delay); err != nil {
		return fmt.Errorf("invalid delay: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *RetryConfig) Merge(overlay *RetryConfig) {
	if overlay.Attempts != 0 {
		c.Attempts = overlay.Attempts
	}
	if overlay.Delay != "" {
		c.Delay = overlay.Delay
	}
}

// RetryingStore retries DataFetchErrors from the wrapped Store.
// NotFoundErrors are final and returned on the first attempt.
type RetryingStore struct {
	next     Store
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// NewRetryingStore decorates next with cfg's retry policy.
func NewRetryingStore(next Store, cfg *RetryConfig, logger *slog.Logger) *RetryingStore {
	return &RetryingStore{
		next:     next,
		attempts: max(cfg.Attempts, 1),
		delay:    cfg.DelayDuration(),
		logger:   logger.With("system", "records"),
	}
}

func (r *RetryingStore) Fetch(ctx context.Context, q Query) (Result, error) {
	var result Result
	err := retry.Do(
		func() error {
			var err error
			result, err = r.next.Fetch(ctx, q)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var df *requests.DataFetchError
			return errors.As(err, &df)
		}),
		retry.OnRetry(func(n uint, err error) {
			r.logger.WarnContext(ctx, "payroll query failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		var df *requests.DataFetchError
		var nf *requests.NotFoundError
		if !errors.As(err, &df) && !errors.As(err, &nf) {
			err = &requests.DataFetchError{Err: err}
		}
		return nil, err
	}
	return result, nil
}
