// Package github implements the upstream connector for the GitHub gist API.
//
// It comprises three pieces:
//
//   - Client: one-page-at-a-time gist listing over go-github, with
//     dual-strategy rate limiting (proactive token bucket plus reactive
//     quota headers)
//   - Lister: the sequential page walk, absorbing rate-limit retries
//   - Fetcher: raw file content downloads with per-file timeouts
//
// All requests are unauthenticated; only public gists are read. The
// anonymous quota is 60 requests per hour, which the rate limiter spends
// carefully rather than trying to stretch.
//
// # Error Mapping
//
// go-github's typed errors are folded into the domain taxonomy:
//
//   - rate limit / abuse responses: RateLimitError with a retry-after,
//     consumed inside Lister and never surfaced past it
//   - 404 on the listing: domain.ErrUserNotFound
//   - undecodable responses: domain.ErrUpstreamMalformed, never retried
//   - anything else: domain.ErrUpstreamUnavailable
//
// Per-file download failures are *domain.FetchError values classified as
// fetch_timeout, fetch_failed or size_mismatch; they are recorded against
// the owning gist rather than failing the search.
package github
