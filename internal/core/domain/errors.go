package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent request-level failures.
// These are distinct from per-file failures, which are recorded as
// FileError values on the owning gist's SearchResult instead.
var (
	// ErrUpstreamUnavailable indicates the upstream API could not be
	// reached, or rate-limit retries were exhausted while listing gists.
	// Fatal to the whole request: partial gist lists are never returned.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrRateLimited indicates the upstream signalled throttling.
	// Handled internally by waiting and retrying; never surfaced past
	// the gist lister.
	ErrRateLimited = errors.New("rate limited")

	// ErrUpstreamMalformed indicates an upstream response could not be
	// parsed into gist descriptors. A protocol mismatch, not transient
	// load, so it is never retried.
	ErrUpstreamMalformed = errors.New("upstream response malformed")

	// ErrUserNotFound indicates the upstream explicitly signalled that
	// the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPattern indicates the search pattern is a malformed
	// regular expression. Detected before any network work.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidInput indicates malformed or missing request input.
	ErrInvalidInput = errors.New("invalid input")
)

// FetchError is a per-file fetch failure carrying its classification.
// It is recovered locally by the orchestrator and recorded on the owning
// gist's SearchResult, never propagated as a request failure.
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOfFetchError extracts the ErrorKind from a FetchFile error,
// defaulting to ErrorKindFetchFailed for untyped failures.
func KindOfFetchError(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ErrorKindFetchFailed
}
