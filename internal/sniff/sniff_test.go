package sniff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffer_IsText(t *testing.T) {
	s := New(0, 0)

	t.Run("plain source code is text", func(t *testing.T) {
		assert.True(t, s.IsText([]byte("package main\n\nfunc main() {}\n")))
	})

	t.Run("empty buffer is text", func(t *testing.T) {
		assert.True(t, s.IsText(nil))
		assert.True(t, s.IsText([]byte{}))
	})

	t.Run("null byte marks binary", func(t *testing.T) {
		assert.False(t, s.IsText([]byte("MZ\x00\x00 not an exe really")))
	})

	t.Run("high non-printable ratio marks binary", func(t *testing.T) {
		buf := bytes.Repeat([]byte{0x01, 0x02, 'a'}, 100)
		assert.False(t, s.IsText(buf))
	})

	t.Run("pdf magic bytes mark binary despite printable header", func(t *testing.T) {
		assert.False(t, s.IsText([]byte("%PDF-1.4 some printable pdf header")))
	})

	t.Run("utf8 multi-byte content is text", func(t *testing.T) {
		assert.True(t, s.IsText([]byte("héllo wörld — ünïcode")))
	})

	t.Run("only the leading window is inspected", func(t *testing.T) {
		buf := append(bytes.Repeat([]byte("a"), DefaultSniffLen), 0x00)
		assert.True(t, s.IsText(buf))
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		buf := []byte("some ordinary text")
		first := s.IsText(buf)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, s.IsText(buf))
		}
	})
}
