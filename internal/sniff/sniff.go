// Package sniff classifies byte buffers as text or binary.
//
// Classification never trusts the content type declared by the upstream
// listing. It combines magic-byte detection (github.com/gabriel-vasile/
// mimetype) with a byte heuristic: a NUL byte or a high ratio of
// non-printable bytes in the leading window marks the buffer binary.
// Magic-byte detection catches binary formats whose leading bytes are
// all printable, such as PDF.
package sniff

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// DefaultSniffLen is how many leading bytes the heuristic inspects.
	DefaultSniffLen = 512

	// DefaultBinaryThreshold is the non-printable ratio above which a
	// buffer is declared binary.
	DefaultBinaryThreshold = 0.30
)

// Sniffer classifies buffers as text or binary.
// It is deterministic and has no failure mode: every buffer receives a
// classification, and an empty buffer is text, vacuously.
type Sniffer struct {
	sniffLen  int
	threshold float64
}

// New creates a sniffer inspecting up to sniffLen leading bytes.
// Non-positive arguments fall back to the defaults.
func New(sniffLen int, threshold float64) *Sniffer {
	if sniffLen <= 0 {
		sniffLen = DefaultSniffLen
	}
	if threshold <= 0 {
		threshold = DefaultBinaryThreshold
	}
	return &Sniffer{sniffLen: sniffLen, threshold: threshold}
}

// IsText reports whether buf should be treated as text.
func (s *Sniffer) IsText(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}

	head := buf
	if len(head) > s.sniffLen {
		head = head[:s.sniffLen]
	}

	nonPrintable := 0
	for _, b := range head {
		if b == 0x00 {
			return false
		}
		if !printable(b) {
			nonPrintable++
		}
	}
	if float64(nonPrintable)/float64(len(head)) > s.threshold {
		return false
	}

	// The heuristic passed, but printable-ASCII binary formats (PDF,
	// PostScript) slip through it. Confirm against magic bytes.
	return textualMIME(mimetype.Detect(head))
}

// printable reports whether b is an acceptable byte for text content:
// common whitespace, printable ASCII, or any high byte (multi-byte
// encodings are not penalised).
func printable(b byte) bool {
	switch b {
	case '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return b >= 0x20 && b != 0x7f
}

// textualMIME walks the detected type's ancestry looking for text/plain,
// which mimetype uses as the root of all textual formats. Unknown content
// detects as application/octet-stream and is left to the heuristic's
// verdict, so it counts as text here.
func textualMIME(m *mimetype.MIME) bool {
	for t := m; t != nil; t = t.Parent() {
		if t.Is("text/plain") || strings.HasPrefix(t.String(), "text/") {
			return true
		}
	}
	return m.String() == "application/octet-stream"
}
