package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// RateLimitError indicates the upstream signalled throttling.
// RetryAfter is how long the caller should wait before retrying.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limited, retry after %s", e.RetryAfter)
}

// Unwrap ties the error into the domain taxonomy so callers can use
// errors.Is(err, domain.ErrRateLimited).
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// classifyListError maps a go-github listing error onto the domain
// taxonomy. Context errors pass through untouched so cancellation is
// distinguishable from upstream trouble.
func classifyListError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{RetryAfter: time.Until(rateErr.Rate.Reset.Time)}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		retryAfter := time.Minute
		if abuseErr.RetryAfter != nil {
			retryAfter = *abuseErr.RetryAfter
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) {
		if respErr.Response != nil && respErr.Response.StatusCode == 404 {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, respErr.Message)
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	// go-github surfaces response decode failures as raw json errors.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamMalformed, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}
