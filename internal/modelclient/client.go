// internal/modelclient/client.go

// Package modelclient talks to the remote vision model that decides the next
// device action. The raw providers speak their endpoint dialects; Resilient
// wraps any of them with the retry and circuit-breaker policies that keep a
// flapping endpoint from cascading into the execution path.
package modelclient

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/taskwizard/taskwizard/internal/config"
)

// Request is one model turn: the standing instructions, the user-visible
// prompt, and optionally the current screenshot.
type Request struct {
	System   string
	Prompt   string
	ImagePNG []byte // Raw PNG bytes of the current screen; nil when absent.
}

// Client produces raw model text for a request. Implementations classify
// HTTP failures as *StatusError so the resilience layer can tell transient
// from terminal.
type Client interface {
	Query(ctx context.Context, req Request) (string, error)
}

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
)

// Resilient composes the retry and circuit-breaker policies around an inner
// Client. It never panics past its boundary; every outcome is a classified
// error or a payload.
type Resilient struct {
	inner   Client
	breaker *Breaker
	limiter *rate.Limiter
	logger  *zap.Logger

	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewResilient wraps inner with the policies from cfg. The breaker belongs
// to the endpoint configuration; the caller resets it when reconfiguring.
func NewResilient(inner Client, breaker *Breaker, cfg config.ModelConfig, logger *zap.Logger) *Resilient {
	r := &Resilient{
		inner:        inner,
		breaker:      breaker,
		logger:       logger.Named("model_client"),
		maxAttempts:  cfg.MaxAttempts,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = defaultMaxAttempts
	}
	if cfg.RequestsPerMin > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMin/60.0), 1)
	}
	return r
}

// Query executes the call under both policies: the breaker is consulted
// before every attempt, failed attempts back off exponentially (1s, 2s,
// doubling up to a 10s cap), and only transient statuses are retried; auth
// and other terminal rejections abort immediately.
func (r *Resilient) Query(ctx context.Context, req Request) (string, error) {
	b := r.newBackOff()

	var out string
	attempt := 0

	operation := func() error {
		attempt++
		if err := r.breaker.Allow(); err != nil {
			// Fail fast without touching the network; retrying will not
			// change the breaker's mind within this call.
			return backoff.Permanent(err)
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		resp, err := r.inner.Query(ctx, req)
		if err == nil {
			r.breaker.RecordSuccess()
			out = resp
			return nil
		}
		r.breaker.RecordFailure()

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.Auth() {
				r.logger.Error("model query rejected, not retrying",
					zap.Int("status", statusErr.Code))
				return backoff.Permanent(err)
			}
			if !statusErr.Transient() {
				// A definitive rejection (400, 404, ...) will not change on
				// the next attempt.
				r.logger.Error("model query failed terminally, not retrying",
					zap.Int("status", statusErr.Code))
				return backoff.Permanent(err)
			}
		}

		r.logger.Warn("model query failed, will retry",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.maxAttempts),
			zap.Error(err))
		return err
	}

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx))
	if err != nil {
		return "", err
	}
	return out, nil
}

// newBackOff builds the per-call retry schedule: deterministic doubling from
// initialDelay, capped at maxDelay, with no elapsed-time cutoff.
func (r *Resilient) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = r.maxDelay
	b.MaxElapsedTime = 0
	return b
}
