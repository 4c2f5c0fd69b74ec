// Package domain defines the core business entities for Gistgrep.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - GistDescriptor: metadata for one gist as listed upstream
//   - FileRef: a reference to one raw file within a gist
//   - FetchedFile: the bytes of a file after fetching and classification
//   - SearchResult: per-gist match outcome for one search request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
