package classify

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"logihub/internal/apperr"
	"logihub/internal/domain"
	"logihub/internal/logx"
)

// Retrying retries transient provider failures with bounded exponential
// backoff. Validation errors and not-found results pass through untouched.
type Retrying struct {
	next        Classifier
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	log         logx.Logger
	retries     prometheus.Counter
}

// NewRetrying wraps next with a retry policy. retries may be nil.
func NewRetrying(next Classifier, maxAttempts int, baseDelay, maxDelay time.Duration, log logx.Logger, retries prometheus.Counter) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = logx.Nop()
	}
	return &Retrying{
		next:        next,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		log:         log,
		retries:     retries,
	}
}

// Classify implements Classifier.
func (r *Retrying) Classify(ctx context.Context, description string, category domain.Category) (domain.Classification, error) {
	var cl domain.Classification
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		cl, err = r.next.Classify(ctx, description, category)
		return err
	})
	return cl, err
}

// Candidates implements Classifier.
func (r *Retrying) Candidates(ctx context.Context, description string) ([]domain.Candidate, error) {
	var out []domain.Candidate
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.Candidates(ctx, description)
		return err
	})
	return out, err
}

func (r *Retrying) do(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil || !errors.Is(lastErr, apperr.ErrUnavailable) {
			return lastErr
		}

		if attempt == r.maxAttempts {
			break
		}

		backoff := r.baseDelay << (attempt - 1)
		if r.maxDelay > 0 && backoff > r.maxDelay {
			backoff = r.maxDelay
		}
		r.log.Warn("classification attempt failed, retrying",
			logx.Int("attempt", attempt),
			logx.Duration("backoff", backoff),
			logx.Any("error", lastErr),
		)
		if r.retries != nil {
			r.retries.Inc()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return lastErr
}
