// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// ErrMissingAPIKey indicates that no LLM credential is configured.
	ErrMissingAPIKey = errors.New("LLM API key not configured")
	// ErrNoTransactions indicates an analysis request with an empty batch.
	ErrNoTransactions = errors.New("no transactions to analyze")
)
