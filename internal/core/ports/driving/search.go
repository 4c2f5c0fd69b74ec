package driving

import (
	"context"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// GistSearchService answers which of a user's public gists contain a pattern.
type GistSearchService interface {
	// Search lists every public gist of username, fetches their files and
	// reports the gists whose content matches pattern. Results follow the
	// upstream listing order. Per-file failures are tolerated and recorded
	// on the owning gist; listing failures and cancellation fail the whole
	// request with no partial results.
	Search(ctx context.Context, username, pattern string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
