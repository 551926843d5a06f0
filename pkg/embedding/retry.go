package embedding

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"docgrounder-be/pkg/apperr"
)

// RetryingProvider wraps a Provider with bounded exponential backoff. When all
// attempts fail the error is reported as EmbeddingUnavailable, which the worker
// treats as a terminal task failure rather than requesting a redelivery.
type RetryingProvider struct {
	inner       Provider
	maxAttempts uint
	baseDelay   time.Duration
	timeout     time.Duration
}

var _ Provider = &RetryingProvider{}

func NewRetryingProvider(inner Provider, maxRetries int, baseDelay, timeout time.Duration) *RetryingProvider {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RetryingProvider{
		inner:       inner,
		maxAttempts: uint(maxRetries),
		baseDelay:   baseDelay,
		timeout:     timeout,
	}
}

func (p *RetryingProvider) Model() string {
	return p.inner.Model()
}

func (p *RetryingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			vectors, err := p.inner.Embed(attemptCtx, texts)
			if err != nil {
				return err
			}
			result = vectors
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.maxAttempts),
		retry.Delay(p.baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingUnavailable, "embedding provider unavailable", err)
	}
	return result, nil
}
