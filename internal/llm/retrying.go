package llm

import (
	"context"
	"errors"

	"github.com/finospark/finospark/internal/common"
)

// retryingClient wraps a Client with retry-on-failure behavior. The pipeline
// itself never retries; opting into this decorator at the composition root is
// the deliberate caller-level policy choice, since the upstream call is costly
// and rate-limit accounting has already happened by the time it runs.
type retryingClient struct {
	inner Client
	opts  common.RetryOptions
}

// NewRetryingClient decorates client so that timeouts, network failures, 429s
// and 5xx responses are retried up to opts.MaxAttempts. Other failures pass
// through after a single attempt.
func NewRetryingClient(client Client, opts common.RetryOptions) Client {
	return &retryingClient{inner: client, opts: opts}
}

func (c *retryingClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var result string
	var lastErr error

	err := common.WithRetry(ctx, func() error {
		text, err := c.inner.Complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			return &common.RetryableError{Err: err, Retryable: isRetryable(err)}
		}
		result = text
		lastErr = nil
		return nil
	}, c.opts)

	if err != nil {
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}

	return result, nil
}

func isRetryable(err error) bool {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Retryable()
	}
	return false
}
