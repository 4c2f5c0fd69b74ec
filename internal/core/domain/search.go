package domain

// ErrorKind classifies a per-file fetch failure.
type ErrorKind string

const (
	// ErrorKindFetchTimeout indicates the file fetch exceeded its deadline.
	ErrorKindFetchTimeout ErrorKind = "fetch_timeout"

	// ErrorKindFetchFailed indicates a network failure or non-2xx response.
	ErrorKindFetchFailed ErrorKind = "fetch_failed"

	// ErrorKindSizeMismatch indicates the fetched byte count diverged from
	// the declared size beyond tolerance (likely a truncated transfer).
	ErrorKindSizeMismatch ErrorKind = "size_mismatch"
)

// FileError records a per-file failure against the gist it belongs to.
// File-level failures are never fatal to the search; they ride along
// with whatever matches the rest of the gist produced.
type FileError struct {
	// FileName is the name of the file that failed.
	FileName string `json:"file_name"`

	// Kind classifies the failure.
	Kind ErrorKind `json:"kind"`
}

// SearchOptions configures a single search request.
type SearchOptions struct {
	// CaseSensitive controls pattern case sensitivity. Default false.
	CaseSensitive bool

	// Literal treats the pattern as a plain substring instead of a
	// regular expression.
	Literal bool

	// Concurrency caps simultaneous in-flight file fetches across the
	// whole request. Zero means the service default.
	Concurrency int
}

// SearchResult is the per-gist outcome of one search request.
// A gist appears in the result set when it has at least one matched
// file or at least one fetch error; gists with neither are omitted.
type SearchResult struct {
	// GistID is the upstream gist identifier.
	GistID string `json:"gist_id"`

	// HTMLURL is the browsable location of the gist.
	HTMLURL string `json:"html_url"`

	// MatchedFiles are the names of files whose content matched the
	// pattern, in the gist's file order.
	MatchedFiles []string `json:"matched_files"`

	// FetchErrors are the per-file failures of this gist, in the order
	// they were observed.
	FetchErrors []FileError `json:"errors,omitempty"`
}

// HasMatches reports whether the result carries at least one matched file.
func (r SearchResult) HasMatches() bool {
	return len(r.MatchedFiles) > 0
}
