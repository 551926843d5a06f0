package llm

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"docgrounder-be/pkg/apperr"
)

// RetryingProvider wraps an LLMProvider with bounded exponential backoff.
// Exhausted attempts surface as GenerationUnavailable; the caller must not
// record a conversation turn in that case.
type RetryingProvider struct {
	inner       LLMProvider
	maxAttempts uint
	baseDelay   time.Duration
	timeout     time.Duration
}

var _ LLMProvider = &RetryingProvider{}

func NewRetryingProvider(inner LLMProvider, maxRetries int, baseDelay, timeout time.Duration) *RetryingProvider {
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

func (p *RetryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	var result string

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			answer, err := p.inner.Chat(attemptCtx, history, options...)
			if err != nil {
				return err
			}
			result = answer
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.maxAttempts),
		retry.Delay(p.baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", apperr.Wrap(apperr.KindGenerationUnavailable, "generation provider unavailable", err)
	}
	return result, nil
}

func (p *RetryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
