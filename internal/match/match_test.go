package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("compiles a valid regular expression", func(t *testing.T) {
		m, err := New(`func \w+\(`, Options{CaseSensitive: true})

		require.NoError(t, err)
		assert.True(t, m.MatchString("func main() {"))
	})

	t.Run("rejects a malformed regular expression", func(t *testing.T) {
		m, err := New(`[unclosed`, Options{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPattern)
		assert.Nil(t, m)
	})

	t.Run("literal mode never fails", func(t *testing.T) {
		m, err := New(`[unclosed`, Options{Literal: true})

		require.NoError(t, err)
		assert.True(t, m.MatchString("prefix [unclosed suffix"))
		assert.False(t, m.MatchString("nothing here"))
	})
}

func TestMatcher_Match(t *testing.T) {
	t.Run("case insensitive by default", func(t *testing.T) {
		m, err := New("hello", Options{})
		require.NoError(t, err)

		assert.True(t, m.Match([]byte("Hello")))
		assert.True(t, m.Match([]byte("say HELLO twice")))
	})

	t.Run("case sensitive when flagged", func(t *testing.T) {
		m, err := New("hello", Options{CaseSensitive: true})
		require.NoError(t, err)

		assert.False(t, m.Match([]byte("Hello")))
		assert.True(t, m.Match([]byte("hello")))
	})

	t.Run("literal metacharacters are not special", func(t *testing.T) {
		m, err := New("a.b", Options{Literal: true, CaseSensitive: true})
		require.NoError(t, err)

		assert.True(t, m.Match([]byte("x a.b y")))
		assert.False(t, m.Match([]byte("x aXb y")))
	})

	t.Run("matches anywhere in the buffer", func(t *testing.T) {
		m, err := New("needle", Options{})
		require.NoError(t, err)

		assert.True(t, m.Match([]byte("hay hay hay needle hay")))
		assert.False(t, m.Match([]byte("")))
	})
}
