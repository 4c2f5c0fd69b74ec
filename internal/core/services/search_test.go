package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// stubLister streams a fixed descriptor list, ending with an optional error.
type stubLister struct {
	gists []domain.GistDescriptor
	err   error
	calls int
}

func (s *stubLister) ListGists(ctx context.Context, _ string) (<-chan domain.GistDescriptor, <-chan error) {
	s.calls++
	descChan := make(chan domain.GistDescriptor)
	errChan := make(chan error, 1)

	go func() {
		defer close(descChan)
		defer close(errChan)
		for _, g := range s.gists {
			select {
			case descChan <- g:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
		if s.err != nil {
			errChan <- s.err
		}
	}()

	return descChan, errChan
}

// stubFetcher serves canned content keyed by raw URL.
type stubFetcher struct {
	mu       sync.Mutex
	content  map[string][]byte
	errs     map[string]error
	delays   map[string]time.Duration
	blocked  chan struct{} // non-nil: every fetch parks until closed or ctx done
	inFlight int
	maxSeen  int
}

func (f *stubFetcher) FetchFile(ctx context.Context, ref domain.FileRef) ([]byte, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.blocked != nil {
		select {
		case <-f.blocked:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d := f.delays[ref.RawURL]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[ref.RawURL]; ok {
		return nil, err
	}
	return f.content[ref.RawURL], nil
}

func gist(id string, fileNames ...string) domain.GistDescriptor {
	g := domain.GistDescriptor{
		ID:      id,
		Owner:   "octocat",
		HTMLURL: "https://gist.github.com/octocat/" + id,
	}
	for _, name := range fileNames {
		g.Files = append(g.Files, domain.FileRef{
			Name:   name,
			RawURL: "raw://" + id + "/" + name,
		})
	}
	return g
}

func raw(gistID, fileName string) string {
	return "raw://" + gistID + "/" + fileName
}

func TestGistSearch_Search(t *testing.T) {
	t.Run("invalid pattern fails before any listing", func(t *testing.T) {
		lister := &stubLister{}
		svc := NewGistSearch(lister, &stubFetcher{}, nil, 0)

		_, err := svc.Search(context.Background(), "octocat", `[broken`, domain.SearchOptions{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPattern)
		assert.Zero(t, lister.calls, "pattern validation must precede network work")
	})

	t.Run("empty username is rejected", func(t *testing.T) {
		svc := NewGistSearch(&stubLister{}, &stubFetcher{}, nil, 0)

		_, err := svc.Search(context.Background(), "  ", "x", domain.SearchOptions{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("user with zero gists yields empty results", func(t *testing.T) {
		svc := NewGistSearch(&stubLister{}, &stubFetcher{}, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "x", domain.SearchOptions{})

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("matches text files and skips binary files", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{gist("g1", "a.txt", "blob.bin")}}
		fetcher := &stubFetcher{content: map[string][]byte{
			raw("g1", "a.txt"):    []byte("well hello there"),
			raw("g1", "blob.bin"): append([]byte("hello"), 0x00, 0x01, 0x02),
		}}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "hello", domain.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "g1", results[0].GistID)
		assert.Equal(t, []string{"a.txt"}, results[0].MatchedFiles)
		assert.Empty(t, results[0].FetchErrors, "binary files are skipped, not errors")
	})

	t.Run("results follow listing order not completion order", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{
			gist("g1", "slow.txt"),
			gist("g2", "fast.txt"),
		}}
		fetcher := &stubFetcher{
			content: map[string][]byte{
				raw("g1", "slow.txt"): []byte("needle"),
				raw("g2", "fast.txt"): []byte("needle"),
			},
			delays: map[string]time.Duration{
				raw("g1", "slow.txt"): 100 * time.Millisecond,
			},
		}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "needle", domain.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "g1", results[0].GistID)
		assert.Equal(t, "g2", results[1].GistID)
	})

	t.Run("matched files follow the gist's file order", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{gist("g1", "a.txt", "b.txt", "c.txt")}}
		fetcher := &stubFetcher{
			content: map[string][]byte{
				raw("g1", "a.txt"): []byte("needle"),
				raw("g1", "b.txt"): []byte("nothing"),
				raw("g1", "c.txt"): []byte("needle"),
			},
			delays: map[string]time.Duration{
				raw("g1", "a.txt"): 50 * time.Millisecond,
			},
		}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "needle", domain.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, []string{"a.txt", "c.txt"}, results[0].MatchedFiles)
	})

	t.Run("per-file failure does not abort the batch", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{
			gist("g1", "broken.txt", "good.txt"),
			gist("g2", "other.txt"),
		}}
		fetcher := &stubFetcher{
			content: map[string][]byte{
				raw("g1", "good.txt"):  []byte("needle"),
				raw("g2", "other.txt"): []byte("needle"),
			},
			errs: map[string]error{
				raw("g1", "broken.txt"): &domain.FetchError{Kind: domain.ErrorKindFetchTimeout},
			},
		}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "needle", domain.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, []string{"good.txt"}, results[0].MatchedFiles)
		require.Len(t, results[0].FetchErrors, 1)
		assert.Equal(t, "broken.txt", results[0].FetchErrors[0].FileName)
		assert.Equal(t, domain.ErrorKindFetchTimeout, results[0].FetchErrors[0].Kind)
		assert.Equal(t, []string{"other.txt"}, results[1].MatchedFiles)
	})

	t.Run("gist with only errors is reported without matches", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{
			gist("g1", "broken.txt"),
			gist("g2", "quiet.txt"),
		}}
		fetcher := &stubFetcher{
			content: map[string][]byte{
				raw("g2", "quiet.txt"): []byte("no match here"),
			},
			errs: map[string]error{
				raw("g1", "broken.txt"): &domain.FetchError{Kind: domain.ErrorKindFetchFailed},
			},
		}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "needle", domain.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "g1", results[0].GistID)
		assert.Empty(t, results[0].MatchedFiles)
		require.Len(t, results[0].FetchErrors, 1)
	})

	t.Run("case flag controls matching", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{gist("g1", "a.txt")}}
		fetcher := &stubFetcher{content: map[string][]byte{
			raw("g1", "a.txt"): []byte("Hello"),
		}}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		insensitive, err := svc.Search(context.Background(), "octocat", "hello", domain.SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, insensitive, 1)

		sensitive, err := svc.Search(context.Background(), "octocat", "hello", domain.SearchOptions{CaseSensitive: true})
		require.NoError(t, err)
		assert.Empty(t, sensitive)
	})

	t.Run("listing failure is fatal to the request", func(t *testing.T) {
		lister := &stubLister{
			gists: []domain.GistDescriptor{gist("g1", "a.txt")},
			err:   domain.ErrUpstreamUnavailable,
		}
		svc := NewGistSearch(lister, &stubFetcher{}, nil, 0)

		results, err := svc.Search(context.Background(), "octocat", "x", domain.SearchOptions{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Nil(t, results, "partial gist lists are never returned")
	})

	t.Run("unknown user propagates", func(t *testing.T) {
		lister := &stubLister{err: domain.ErrUserNotFound}
		svc := NewGistSearch(lister, &stubFetcher{}, nil, 0)

		_, err := svc.Search(context.Background(), "ghost", "x", domain.SearchOptions{})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("cancellation returns no partial results", func(t *testing.T) {
		lister := &stubLister{gists: []domain.GistDescriptor{
			gist("g1", "a.txt"),
			gist("g2", "b.txt"),
		}}
		fetcher := &stubFetcher{
			content: map[string][]byte{
				raw("g1", "a.txt"): []byte("needle"),
				raw("g2", "b.txt"): []byte("needle"),
			},
			blocked: make(chan struct{}),
		}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		results, err := svc.Search(ctx, "octocat", "needle", domain.SearchOptions{})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Nil(t, results, "cancellation is all-or-nothing")
	})

	t.Run("concurrency cap bounds in-flight fetches", func(t *testing.T) {
		var files []string
		for i := 0; i < 20; i++ {
			files = append(files, string(rune('a'+i))+".txt")
		}
		lister := &stubLister{gists: []domain.GistDescriptor{gist("g1", files...)}}

		fetcher := &stubFetcher{
			content: map[string][]byte{},
			delays:  map[string]time.Duration{},
		}
		for _, name := range files {
			fetcher.content[raw("g1", name)] = []byte("needle")
			fetcher.delays[raw("g1", name)] = 10 * time.Millisecond
		}
		svc := NewGistSearch(lister, fetcher, nil, 0)

		_, err := svc.Search(context.Background(), "octocat", "needle", domain.SearchOptions{Concurrency: 3})

		require.NoError(t, err)
		assert.LessOrEqual(t, fetcher.maxSeen, 3, "request-wide cap must hold")
		assert.Greater(t, fetcher.maxSeen, 1, "fetches should actually run concurrently")
	})
}
