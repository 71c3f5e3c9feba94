// Package llm is the inference gateway: it performs the single external call to
// a text-generation endpoint and maps every anticipated failure mode of that
// call onto a typed error.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends one system instruction and one user instruction to the
	// provider and returns the raw completion text. It makes exactly one
	// attempt; retry policy is the caller's concern.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds configuration for an LLM provider client. Temperature is sent
// verbatim, zero included; the config layer resolves the 0.2 default so the
// clients never have to guess whether zero means "unset".
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// UpstreamErrorKind categorizes upstream call failures.
type UpstreamErrorKind string

const (
	// KindTimeout means the call exceeded its deadline.
	KindTimeout UpstreamErrorKind = "timeout"
	// KindHTTPError means the provider answered with a non-2xx status.
	KindHTTPError UpstreamErrorKind = "http_error"
	// KindNetworkError means the call failed before an HTTP status arrived.
	KindNetworkError UpstreamErrorKind = "network_error"
)

// UpstreamError describes a failed call to the inference endpoint. Status is
// only set for KindHTTPError so the caller can tell "try again" (timeout, 429,
// 5xx) from "don't" (other 4xx) conditions.
type UpstreamError struct {
	Err    error
	Body   string
	Kind   UpstreamErrorKind
	Status int
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindHTTPError:
		return fmt.Sprintf("upstream API error (status %d): %s", e.Status, e.Body)
	case KindTimeout:
		return fmt.Sprintf("upstream request timed out: %v", e.Err)
	default:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth another attempt.
func (e *UpstreamError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindNetworkError:
		return true
	case KindHTTPError:
		return e.Status == 429 || e.Status >= 500
	}
	return false
}

// wrapTransportError classifies an http.Client error as timeout or network.
func wrapTransportError(ctx context.Context, err error) *UpstreamError {
	if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}
	return &UpstreamError{Kind: KindNetworkError, Err: err}
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeouter); ok && t.Timeout() {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}
