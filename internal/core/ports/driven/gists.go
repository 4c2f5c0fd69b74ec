package driven

import (
	"context"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// GistLister streams the full set of public gist descriptors for a user.
type GistLister interface {
	// ListGists walks every page of the user's gist listing and sends
	// descriptors in page order. Both channels are closed when the walk
	// finishes. A value on the error channel means the listing is
	// incomplete and MUST be treated as fatal: partial gist lists would
	// silently under-report matches.
	//
	// The sequence is lazy, finite and non-restartable; call ListGists
	// again for a fresh walk.
	ListGists(ctx context.Context, username string) (<-chan domain.GistDescriptor, <-chan error)
}

// FileFetcher retrieves raw content for one file reference.
type FileFetcher interface {
	// FetchFile downloads the bytes behind ref.RawURL. It makes a single
	// attempt; retry policy belongs to the caller. Failures are returned
	// as *domain.FetchError so callers can record the kind against the
	// owning gist.
	FetchFile(ctx context.Context, ref domain.FileRef) ([]byte, error)
}
