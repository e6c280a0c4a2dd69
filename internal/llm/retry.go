package llm

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryConfig bounds the hardened call path: a per-attempt timeout and a
// small fixed number of attempts with jittered delay between them.
type RetryConfig struct {
	MaxAttempts int
	Timeout     time.Duration
	Delay       time.Duration
}

type retryGateway struct {
	next   Gateway
	cfg    RetryConfig
	logger *zap.Logger
}

// WithRetry wraps next with a per-call timeout and bounded retry with
// jitter. Exhaustion returns the last error unchanged, so callers see the
// same upstream-failure kind whether or not a retry happened.
func WithRetry(next Gateway, cfg RetryConfig, logger *zap.Logger) Gateway {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 500 * time.Millisecond
	}
	return &retryGateway{next: next, cfg: cfg, logger: logger}
}

func (r *retryGateway) Name() string { return r.next.Name() }

func (r *retryGateway) Complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		text, err := r.next.Complete(callCtx, system, user)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == r.cfg.MaxAttempts {
			break
		}
		// Half-to-full base delay, so concurrent retries don't align.
		delay := r.cfg.Delay/2 + time.Duration(rand.Int63n(int64(r.cfg.Delay)/2+1))
		r.logger.Warn("model call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.cfg.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}
