// Package match tests text buffers against a search pattern.
//
// A Matcher is compiled once per search request so pattern validation
// happens before any network work, then reused across every fetched file.
package match

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

// Options configures pattern compilation.
type Options struct {
	// CaseSensitive controls whether matching distinguishes case.
	CaseSensitive bool

	// Literal treats the pattern as a plain substring rather than a
	// regular expression.
	Literal bool
}

// Matcher tests text buffers against a compiled pattern.
// It is stateless after construction and safe for concurrent use.
type Matcher struct {
	re *regexp.Regexp
}

// New compiles pattern according to opts.
// Returns domain.ErrInvalidPattern wrapped with the compile error when the
// pattern is a malformed regular expression. Literal patterns cannot fail.
func New(pattern string, opts Options) (*Matcher, error) {
	if opts.Literal {
		pattern = regexp.QuoteMeta(pattern)
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
	}
	return &Matcher{re: re}, nil
}

// Match reports whether the buffer contains the pattern.
// The scan stops at the first match.
func (m *Matcher) Match(text []byte) bool {
	return m.re.Match(text)
}

// MatchString reports whether the string contains the pattern.
func (m *Matcher) MatchString(text string) bool {
	return m.re.MatchString(text)
}
