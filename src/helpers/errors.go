package helpers

import (
	"errors"
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Error taxonomy for the snapshot pipeline. Per-symbol failures are isolated:
// they are collected as annotations next to the successful results and never
// abort processing of the remaining symbols.
// -----------------------------------------------------------------------------

// ErrNoData marks a retrieval that returned an empty but valid series.
var ErrNoData = errors.New("no data available")

// -----------------------------------------------------------------------------

// ProviderError wraps a retrieval failure (network, timeout, unknown symbol).
type ProviderError struct {
	Symbol string
	Cause  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider failure for %s: %v", e.Symbol, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// -----------------------------------------------------------------------------

// MetadataError marks a display-name/sector lookup that failed while price
// history succeeded. The snapshot falls back to the raw symbol string.
type MetadataError struct {
	Symbol string
	Cause  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata lookup failed for %s: %v", e.Symbol, e.Cause)
}

func (e *MetadataError) Unwrap() error {
	return e.Cause
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts fn up to maxRetries times with exponential backoff.
func RetryWithBackoff(operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxRetries-1 {
			break
		}
		time.Sleep(baseDelay * (1 << attempt))
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, maxRetries, lastErr)
}
