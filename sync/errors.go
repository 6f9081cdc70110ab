package sync

import "errors"

// ErrNotConnected marks the absence of a usable integration record. It is a
// steady no-op state, not a failure.
var ErrNotConnected = errors.New("calendar integration not connected")

// AuthError means the stored grant could not produce a usable access token.
// It aborts the current sync attempt; the next scheduled pass retries.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "token refresh failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProviderError wraps a failed provider API call. Per-task occurrences
// inside reconciliation are logged and skipped; anything earlier aborts the
// pass.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return "provider call failed (" + e.Op + "): " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }
