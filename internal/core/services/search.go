package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
	"github.com/custodia-labs/gistgrep/internal/core/ports/driven"
	"github.com/custodia-labs/gistgrep/internal/core/ports/driving"
	"github.com/custodia-labs/gistgrep/internal/match"
	"github.com/custodia-labs/gistgrep/internal/sniff"
)

// Ensure GistSearch implements the interface.
var _ driving.GistSearchService = (*GistSearch)(nil)

// DefaultConcurrency caps simultaneous in-flight file fetches per request.
// The cap is request-wide, not per-gist, to protect the upstream from
// burst load.
const DefaultConcurrency = 10

// GistSearch coordinates the gist search pipeline.
type GistSearch struct {
	lister      driven.GistLister
	fetcher     driven.FileFetcher
	sniffer     *sniff.Sniffer
	concurrency int
}

// NewGistSearch creates the search orchestrator.
// concurrency <= 0 means DefaultConcurrency.
func NewGistSearch(lister driven.GistLister, fetcher driven.FileFetcher, sniffer *sniff.Sniffer, concurrency int) *GistSearch {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if sniffer == nil {
		sniffer = sniff.New(0, 0)
	}
	return &GistSearch{
		lister:      lister,
		fetcher:     fetcher,
		sniffer:     sniffer,
		concurrency: concurrency,
	}
}

// fileTask is one unit of fan-out work: a file reference tagged with the
// index of its owning gist in listing order.
type fileTask struct {
	gistIdx int
	ref     domain.FileRef
}

// fileOutcome is the resolution of one fileTask. Exactly one of matched,
// failed or neither (skipped / no match) applies.
type fileOutcome struct {
	gistIdx  int
	fileName string
	matched  bool
	failed   bool
	kind     domain.ErrorKind
}

// gistAccumulator gathers outcomes for one gist. Only the collector
// loop touches accumulators, so no locking is needed.
type gistAccumulator struct {
	matched map[string]bool
	errs    []domain.FileError
}

// Search implements driving.GistSearchService.
func (s *GistSearch) Search(ctx context.Context, username, pattern string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if pattern == "" {
		return nil, fmt.Errorf("%w: pattern is required", domain.ErrInvalidInput)
	}

	// Validate the pattern before any network work.
	matcher, err := match.New(pattern, match.Options{
		CaseSensitive: opts.CaseSensitive,
		Literal:       opts.Literal,
	})
	if err != nil {
		return nil, err
	}

	gists, err := s.collectGists(ctx, username)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("username", username).Int("gists", len(gists)).Msg("gist listing complete")

	if len(gists) == 0 {
		return []domain.SearchResult{}, nil
	}

	accumulators, err := s.fanOut(ctx, gists, matcher, opts)
	if err != nil {
		return nil, err
	}

	return assembleResults(gists, accumulators), nil
}

// collectGists drains the lister into a slice. Any listing error is fatal:
// an incomplete gist set would silently under-report matches.
func (s *GistSearch) collectGists(ctx context.Context, username string) ([]domain.GistDescriptor, error) {
	descChan, errChan := s.lister.ListGists(ctx, username)

	var gists []domain.GistDescriptor
	for desc := range descChan {
		gists = append(gists, desc)
	}
	if err := <-errChan; err != nil {
		return nil, wrapCancellation(err)
	}
	return gists, nil
}

// fanOut dispatches every file of every gist to a bounded worker pool and
// collects outcomes. The collector loop is the single point mutating the
// per-gist accumulators.
func (s *GistSearch) fanOut(ctx context.Context, gists []domain.GistDescriptor, matcher *match.Matcher, opts domain.SearchOptions) ([]gistAccumulator, error) {
	var flat []fileTask
	for i, g := range gists {
		for _, ref := range g.Files {
			flat = append(flat, fileTask{gistIdx: i, ref: ref})
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = s.concurrency
	}
	if concurrency > len(flat) {
		concurrency = len(flat)
	}

	tasks := make(chan fileTask)
	outcomes := make(chan fileOutcome)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, matcher, tasks, outcomes)
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()
	go func() {
		defer close(tasks)
		for _, task := range flat {
			select {
			case tasks <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	accumulators := make([]gistAccumulator, len(gists))
	for outcome := range outcomes {
		acc := &accumulators[outcome.gistIdx]
		switch {
		case outcome.failed:
			acc.errs = append(acc.errs, domain.FileError{
				FileName: outcome.fileName,
				Kind:     outcome.kind,
			})
		case outcome.matched:
			if acc.matched == nil {
				acc.matched = make(map[string]bool)
			}
			acc.matched[outcome.fileName] = true
		}
	}

	// All-or-nothing on cancellation: in-flight results are discarded.
	if err := ctx.Err(); err != nil {
		return nil, wrapCancellation(err)
	}
	return accumulators, nil
}

// worker resolves tasks until the task channel closes or the request is
// cancelled. Per-file failures become outcomes, never errors.
func (s *GistSearch) worker(ctx context.Context, matcher *match.Matcher, tasks <-chan fileTask, outcomes chan<- fileOutcome) {
	for task := range tasks {
		if ctx.Err() != nil {
			return
		}

		outcome, ok := s.processFile(ctx, matcher, task)
		if !ok {
			return
		}
		select {
		case outcomes <- outcome:
		case <-ctx.Done():
			return
		}
	}
}

// processFile fetches, classifies and matches one file. The second return
// is false when the request was cancelled and the outcome must be
// discarded rather than recorded.
func (s *GistSearch) processFile(ctx context.Context, matcher *match.Matcher, task fileTask) (fileOutcome, bool) {
	outcome := fileOutcome{gistIdx: task.gistIdx, fileName: task.ref.Name}

	content, err := s.fetcher.FetchFile(ctx, task.ref)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return fileOutcome{}, false
		}
		outcome.failed = true
		outcome.kind = domain.KindOfFetchError(err)
		return outcome, true
	}

	// Binary files are skipped, not an error.
	if !s.sniffer.IsText(content) {
		log.Debug().Str("file", task.ref.Name).Msg("skipping binary file")
		return outcome, true
	}

	outcome.matched = matcher.Match(content)
	return outcome, true
}

// assembleResults emits results in listing order. A gist appears when it
// has at least one match or at least one fetch error; matched file names
// follow the gist's own file order, not fetch-completion order.
func assembleResults(gists []domain.GistDescriptor, accumulators []gistAccumulator) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(gists))
	for i, g := range gists {
		acc := accumulators[i]
		if len(acc.matched) == 0 && len(acc.errs) == 0 {
			continue
		}

		result := domain.SearchResult{
			GistID:       g.ID,
			HTMLURL:      g.HTMLURL,
			MatchedFiles: make([]string, 0, len(acc.matched)),
			FetchErrors:  acc.errs,
		}
		for _, ref := range g.Files {
			if acc.matched[ref.Name] {
				result.MatchedFiles = append(result.MatchedFiles, ref.Name)
			}
		}
		results = append(results, result)
	}
	return results
}

// wrapCancellation folds context errors into the request-level taxonomy
// while keeping errors.Is(err, context.Canceled) intact.
func wrapCancellation(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return err
}
