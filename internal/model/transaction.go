// Package model defines the data types that flow through the analysis pipeline.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format transactions must use.
const DateLayout = "2006-01-02"

// Transaction represents a single financial transaction submitted for analysis.
// It is immutable once received and lives only for one analysis request.
type Transaction struct {
	Date     string  `json:"date"`
	Currency string  `json:"currency"`
	Merchant string  `json:"merchant"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Amount   float64 `json:"amount"`
}

// AnalysisRequest is one batch of transactions plus optional free-text notes.
// It is owned by a single pipeline invocation and never mutated after validation.
type AnalysisRequest struct {
	UserID       string        `json:"user_id"`
	Notes        string        `json:"notes,omitempty"`
	Transactions []Transaction `json:"transactions"`
}

// ValidationError identifies the first request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the request against the input contract. It fails fast on the
// first violation and has no side effects.
func (r *AnalysisRequest) Validate() error {
	if r.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if len(r.Transactions) == 0 {
		return &ValidationError{Field: "transactions", Reason: "at least one transaction is required"}
	}
	for i, txn := range r.Transactions {
		if err := txn.Validate(); err != nil {
			if vErr, ok := err.(*ValidationError); ok {
				return &ValidationError{
					Field:  fmt.Sprintf("transactions[%d].%s", i, vErr.Field),
					Reason: vErr.Reason,
				}
			}
			return err
		}
	}
	return nil
}

// Validate checks a single transaction's shape and ranges.
func (t *Transaction) Validate() error {
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a valid %s date", t.Date, DateLayout)}
	}
	if t.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must be non-negative"}
	}
	if !validCurrencyCode(t.Currency) {
		return &ValidationError{Field: "currency", Reason: fmt.Sprintf("%q is not a 3-letter currency code", t.Currency)}
	}
	return nil
}

// validCurrencyCode checks the format only. There is deliberately no lookup
// against a currency table.
func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
