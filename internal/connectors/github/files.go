package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
	"github.com/custodia-labs/gistgrep/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.FileFetcher = (*Fetcher)(nil)

const (
	// DefaultFetchTimeout is the per-file fetch deadline.
	DefaultFetchTimeout = 30 * time.Second

	// MaxFileSize caps how many bytes one file fetch will read.
	MaxFileSize = 10 << 20 // 10 MiB

	// sizeToleranceBytes is the fixed slack allowed between declared and
	// actual size before a transfer counts as truncated.
	sizeToleranceBytes = 64
)

// Fetcher downloads raw gist file content.
// It is stateless beyond its HTTP client and makes a single attempt per
// file; retry policy belongs to the caller.
type Fetcher struct {
	http    *http.Client
	timeout time.Duration
}

// NewFetcher creates a fetcher with the given per-file timeout.
// timeout <= 0 means DefaultFetchTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		http:    &http.Client{},
		timeout: timeout,
	}
}

// FetchFile implements driven.FileFetcher.
//
// Cancellation of the parent context propagates as context.Canceled so
// the caller can tell an abandoned request from a per-file failure; all
// other failures come back as *domain.FetchError.
func (f *Fetcher) FetchFile(ctx context.Context, ref domain.FileRef) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.RawURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.ErrorKindFetchFailed, Err: err}
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, classifyFetchError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{
			Kind: domain.ErrorKindFetchFailed,
			Err:  fmt.Errorf("unexpected status %d for %s", resp.StatusCode, ref.RawURL),
		}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxFileSize+1))
	if err != nil {
		return nil, classifyFetchError(ctx, err)
	}
	if int64(len(content)) > MaxFileSize {
		return nil, &domain.FetchError{
			Kind: domain.ErrorKindFetchFailed,
			Err:  fmt.Errorf("file exceeds %d byte limit", int64(MaxFileSize)),
		}
	}

	if err := checkDeclaredSize(ref, int64(len(content))); err != nil {
		return nil, err
	}

	return content, nil
}

// checkDeclaredSize guards against truncated transfers by comparing the
// actual byte count with the size the listing declared. A small tolerance
// absorbs newline normalisation; beyond it the divergence is an error.
func checkDeclaredSize(ref domain.FileRef, actual int64) error {
	if ref.DeclaredSize <= 0 {
		return nil
	}

	diff := actual - ref.DeclaredSize
	if diff < 0 {
		diff = -diff
	}

	tolerance := ref.DeclaredSize / 10
	if tolerance < sizeToleranceBytes {
		tolerance = sizeToleranceBytes
	}

	if diff > tolerance {
		return &domain.FetchError{
			Kind: domain.ErrorKindSizeMismatch,
			Err:  fmt.Errorf("declared %d bytes, got %d", ref.DeclaredSize, actual),
		}
	}
	return nil
}

// classifyFetchError distinguishes timeouts, cancellation and plain
// transport failures.
func classifyFetchError(ctx context.Context, err error) error {
	// The per-file deadline expiring is a timeout; the parent request
	// being cancelled is not a per-file matter at all.
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.FetchError{Kind: domain.ErrorKindFetchTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.FetchError{Kind: domain.ErrorKindFetchTimeout, Err: err}
	}

	return &domain.FetchError{Kind: domain.ErrorKindFetchFailed, Err: err}
}
