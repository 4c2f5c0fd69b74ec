package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

const (
	// DefaultTimeout is the HTTP request timeout for API calls.
	DefaultTimeout = 30 * time.Second

	// DefaultPerPage is the page size requested from the listing API.
	DefaultPerPage = 100
)

// Client wraps the go-github client with gist listing helpers and
// rate limiting. It performs unauthenticated requests only; gistgrep
// reads public gists exclusively.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
	perPage     int
}

// NewClient creates an upstream API client. baseURL overrides the API
// endpoint (used against test servers); empty means api.github.com.
func NewClient(baseURL string) (*Client, error) {
	client := gh.NewClient(&http.Client{Timeout: DefaultTimeout})

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &Client{
		gh:          client,
		rateLimiter: NewRateLimiter(),
		perPage:     DefaultPerPage,
	}, nil
}

// ListGistPage fetches one page of username's public gists.
// page 0 means the first page. The returned next value is the cursor for
// the following page, or 0 when the listing is exhausted. The cursor
// never leaves this package's callers; it is not part of any result.
func (c *Client) ListGistPage(ctx context.Context, username string, page int) ([]domain.GistDescriptor, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	opts := &gh.GistListOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: c.perPage},
	}

	gists, resp, err := c.gh.Gists.List(ctx, username, opts)
	if err != nil {
		return nil, 0, classifyListError(err)
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)

	descriptors := make([]domain.GistDescriptor, 0, len(gists))
	for _, g := range gists {
		desc, err := mapGist(g)
		if err != nil {
			return nil, 0, err
		}
		descriptors = append(descriptors, desc)
	}

	return descriptors, resp.NextPage, nil
}

// mapGist validates one listed gist into a descriptor. Entries missing
// required fields map to ErrUpstreamMalformed rather than producing
// descriptors with undefined fields.
func mapGist(g *gh.Gist) (domain.GistDescriptor, error) {
	if g == nil || g.GetID() == "" {
		return domain.GistDescriptor{}, fmt.Errorf("%w: gist entry without id", domain.ErrUpstreamMalformed)
	}

	desc := domain.GistDescriptor{
		ID:        g.GetID(),
		Owner:     g.GetOwner().GetLogin(),
		HTMLURL:   g.GetHTMLURL(),
		UpdatedAt: g.GetUpdatedAt().Time,
	}

	// The API reports files as a name-keyed map; iterate in sorted name
	// order so descriptors are stable across runs.
	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, string(name))
	}
	sort.Strings(names)

	desc.Files = make([]domain.FileRef, 0, len(names))
	for _, name := range names {
		f := g.Files[gh.GistFilename(name)]
		if f.GetRawURL() == "" {
			return domain.GistDescriptor{}, fmt.Errorf("%w: file %q without raw url", domain.ErrUpstreamMalformed, name)
		}
		desc.Files = append(desc.Files, domain.FileRef{
			Name:         name,
			RawURL:       f.GetRawURL(),
			DeclaredSize: int64(f.GetSize()),
			DeclaredType: f.GetType(),
		})
	}

	return desc, nil
}
