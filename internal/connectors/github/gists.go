package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
	"github.com/custodia-labs/gistgrep/internal/core/ports/driven"
)

// Ensure Lister implements the interface.
var _ driven.GistLister = (*Lister)(nil)

const (
	// DefaultMaxRetries bounds rate-limit retries per page.
	DefaultMaxRetries = 3

	// minRetryWait floors the wait between retries so a zero or stale
	// retry-after signal cannot turn the loop into a busy spin.
	minRetryWait = time.Second
)

// Lister walks every page of a user's public gist listing.
// The page walk is strictly sequential: each page's cursor depends on the
// prior page's response, so pages are never fetched in parallel.
type Lister struct {
	client     *Client
	maxRetries int
}

// NewLister creates a lister. maxRetries <= 0 means DefaultMaxRetries.
func NewLister(client *Client, maxRetries int) *Lister {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Lister{client: client, maxRetries: maxRetries}
}

// ListGists implements driven.GistLister.
//
// Rate limiting is absorbed here: on a rate-limited page the lister waits
// at least the signalled duration and retries the same page, up to the
// retry bound. Exhausting the bound surfaces ErrUpstreamUnavailable for
// the whole listing. A malformed page fails immediately; a parse failure
// indicates a protocol mismatch, not transient load.
func (l *Lister) ListGists(ctx context.Context, username string) (<-chan domain.GistDescriptor, <-chan error) {
	descChan := make(chan domain.GistDescriptor)
	errChan := make(chan error, 1)

	go func() {
		defer close(descChan)
		defer close(errChan)

		page := 0
		for {
			descriptors, next, err := l.fetchPageWithRetry(ctx, username, page)
			if err != nil {
				errChan <- err
				return
			}

			for _, desc := range descriptors {
				select {
				case descChan <- desc:
				case <-ctx.Done():
					errChan <- ctx.Err()
					return
				}
			}

			if next == 0 {
				return
			}
			page = next
		}
	}()

	return descChan, errChan
}

// fetchPageWithRetry fetches one page, retrying on rate limiting.
func (l *Lister) fetchPageWithRetry(ctx context.Context, username string, page int) ([]domain.GistDescriptor, int, error) {
	var lastErr error

	for attempt := 0; attempt < l.maxRetries; attempt++ {
		descriptors, next, err := l.client.ListGistPage(ctx, username, page)
		if err == nil {
			return descriptors, next, nil
		}

		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) {
			return nil, 0, err
		}
		lastErr = err

		wait := rateErr.RetryAfter
		if wait < minRetryWait {
			wait = minRetryWait
		}
		log.Debug().
			Str("username", username).
			Int("page", page).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("gist listing rate limited, backing off")

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, 0, fmt.Errorf("%w: rate limit retries exhausted: %v", domain.ErrUpstreamUnavailable, lastErr)
}
