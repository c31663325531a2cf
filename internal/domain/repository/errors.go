package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors for the forecast pipeline. Wrap with symbol context via
// the *Error constructors; match with errors.Is.
var (
	ErrQuoteUnavailable   = errors.New("quote unavailable")
	ErrHistoryUnavailable = errors.New("history unavailable")
	ErrInsufficientData   = errors.New("insufficient data")
	ErrModelNotFound      = errors.New("model not found")
)

// QuoteUnavailableError wraps ErrQuoteUnavailable with symbol context.
func QuoteUnavailableError(symbol string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w for %s: %v", ErrQuoteUnavailable, symbol, cause)
	}
	return fmt.Errorf("%w for %s", ErrQuoteUnavailable, symbol)
}

// HistoryUnavailableError wraps ErrHistoryUnavailable with symbol context.
func HistoryUnavailableError(symbol string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w for %s: %v", ErrHistoryUnavailable, symbol, cause)
	}
	return fmt.Errorf("%w for %s", ErrHistoryUnavailable, symbol)
}

// InsufficientDataError wraps ErrInsufficientData with the observed and
// required sample counts.
func InsufficientDataError(got, need int) error {
	return fmt.Errorf("%w: need at least %d price points, got %d", ErrInsufficientData, need, got)
}

// ModelNotFoundError wraps ErrModelNotFound with symbol context.
func ModelNotFoundError(symbol string) error {
	return fmt.Errorf("%w for %s: train first", ErrModelNotFound, symbol)
}
