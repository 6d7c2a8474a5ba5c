package modlate

import "fmt"

// FormatError indicates that a mod file did not match its expected structure.
// Extraction is all-or-nothing: a FormatError means no translation work was
// started and no output will be written for the file.
type FormatError struct {
	Format  string
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("format error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("format error (%s): %s", e.Format, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// RequestError indicates a malformed translation request (empty source text,
// unsupported language pair). It is never retried.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// UnavailableError indicates that a translation request exhausted its retry
// budget. The unit keeps its source text.
type UnavailableError struct {
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translation unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("translation unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// MergeError indicates a skeleton/unit alignment violation. This is a
// programming invariant failure, not an expected runtime condition; it is
// fatal for the affected file only.
type MergeError struct {
	UnitID  string
	Message string
}

func (e *MergeError) Error() string {
	if e.UnitID != "" {
		return fmt.Sprintf("merge error (unit %s): %s", e.UnitID, e.Message)
	}
	return fmt.Sprintf("merge error: %s", e.Message)
}

// CacheError indicates a cache persistence failure. The pipeline degrades to
// an in-memory cache and surfaces a warning in the job report.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a transport-level provider failure (API error,
// rate limit, network). Retryable failures are retried by the Client before
// surfacing as UnavailableError.
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the provider returned a different number of
// translations than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
