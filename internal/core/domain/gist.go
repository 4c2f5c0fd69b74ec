package domain

import "time"

// GistDescriptor represents one gist as listed by the upstream API.
// It is immutable once constructed from an API page.
type GistDescriptor struct {
	// ID is the upstream gist identifier.
	ID string

	// Owner is the login of the user owning the gist.
	Owner string

	// HTMLURL is the browsable location of the gist.
	HTMLURL string

	// Files are the file references of the gist, in stable name order.
	Files []FileRef

	// UpdatedAt is the last modification time reported upstream.
	UpdatedAt time.Time
}

// FileRef is a reference to one raw file within a gist.
type FileRef struct {
	// Name is the file name within the gist.
	Name string

	// RawURL is the location the raw content can be fetched from.
	RawURL string

	// DeclaredSize is the byte count the listing claims for the file.
	DeclaredSize int64

	// DeclaredType is the content type the listing claims for the file.
	// Never trusted for text/binary classification; see the sniffer.
	DeclaredType string
}

// FetchedFile holds the raw bytes of one file after fetching.
// It lives only for the duration of a single search request.
type FetchedFile struct {
	// Ref is the reference the content was fetched for.
	Ref FileRef

	// Content is the raw bytes.
	Content []byte

	// IsText is the sniffer's classification of Content.
	IsText bool
}
