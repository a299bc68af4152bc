package scanner

import (
	"errors"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_PeekDoesNotAdvance(t *testing.T) {
	s := New("héllo")
	r, ok := s.PeekOne()
	require.True(t, ok)
	require.Equal(t, 'h', r)
	require.Equal(t, "hél", s.PeekMany(3))
	require.Equal(t, 0, s.Offset())
}

func TestScanner_ConsumeOneRespectsMultiByteRunes(t *testing.T) {
	s := New("é→x")

	r, ok := s.ConsumeOne()
	require.True(t, ok)
	require.Equal(t, 'é', r)
	require.Equal(t, 2, s.Offset())

	r, ok = s.ConsumeOne()
	require.True(t, ok)
	require.Equal(t, '→', r)
	require.Equal(t, 5, s.Offset())

	r, ok = s.ConsumeOne()
	require.True(t, ok)
	require.Equal(t, 'x', r)
	require.True(t, s.IsEnd())

	_, ok = s.ConsumeOne()
	require.False(t, ok)
	require.Equal(t, s.Len(), s.Offset())
}

func TestScanner_PeekOneAtEnd(t *testing.T) {
	s := New("")
	_, ok := s.PeekOne()
	require.False(t, ok)
	require.True(t, s.IsEnd())
	require.Equal(t, "", s.PeekMany(4))
}

func TestScanner_PeekAt(t *testing.T) {
	s := New("a→c")
	r, ok := s.PeekAt(1)
	require.True(t, ok)
	require.Equal(t, '→', r)
	r, ok = s.PeekAt(2)
	require.True(t, ok)
	require.Equal(t, 'c', r)
	_, ok = s.PeekAt(3)
	require.False(t, ok)
}

func TestScanner_ConsumeWhile(t *testing.T) {
	s := New("###  Title")
	require.Equal(t, "###", s.ConsumeWhile(func(r rune) bool { return r == '#' }))
	require.Equal(t, "  ", s.SkipSpaces())
	require.Equal(t, "Title", s.Rest())
}

func TestScanner_ConsumeExpect(t *testing.T) {
	s := New("```go")
	require.NoError(t, s.ConsumeExpect("```"))
	require.Equal(t, 3, s.Offset())

	err := s.ConsumeExpect("rust")
	require.Error(t, err)

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 3, mismatch.Offset)
	assert.Equal(t, "rust", mismatch.Expected)
	assert.Equal(t, "go", mismatch.Found)
	assert.Equal(t, 3, s.Offset(), "failed expectation must not move the cursor")
}

func TestScanner_ConsumeExpectAtEnd(t *testing.T) {
	s := New("")
	err := s.ConsumeExpect(")")
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, EOF, mismatch.Found)
}

func TestScanner_SkipWhitespaceIncludesNewlines(t *testing.T) {
	s := New(" \t\n\n  x")
	require.Equal(t, " \t\n\n  ", s.SkipWhitespace())
	r, _ := s.PeekOne()
	require.Equal(t, 'x', r)
}

func TestScanner_PeekLine(t *testing.T) {
	s := New("first line\nsecond")
	require.Equal(t, "first line", s.PeekLine())
	s.ConsumeWhile(func(r rune) bool { return r != '\n' })
	require.Equal(t, "", s.PeekLine())
	s.ConsumeOne()
	require.Equal(t, "second", s.PeekLine())
}

func TestScanner_Position(t *testing.T) {
	s := New("ab\ncé\nx")
	require.Equal(t, Position{Line: 1, Column: 1}, s.Position(0))
	require.Equal(t, Position{Line: 2, Column: 1}, s.Position(3))
	require.Equal(t, Position{Line: 2, Column: 3}, s.Position(6))
	require.Equal(t, Position{Line: 3, Column: 2}, s.Position(100))
}

// The cursor must stay within [0, len(buffer)] whatever sequence of
// operations is applied, including over invalid UTF-8.
func TestScanner_CursorStaysInBounds(t *testing.T) {
	inputs := []string{"", "a", "é", "\xff\xfe", "# x\n\n```", "→→→", "a\xc3"}
	ops := []func(*Scanner){
		func(s *Scanner) { s.ConsumeOne() },
		func(s *Scanner) { s.SkipWhitespace() },
		func(s *Scanner) { s.ConsumeWhile(unicode.IsLetter) },
		func(s *Scanner) { _ = s.ConsumeExpect("```") },
		func(s *Scanner) { s.PeekMany(10) },
		func(s *Scanner) { s.ConsumeWhile(func(rune) bool { return true }) },
	}

	for _, in := range inputs {
		for i := range ops {
			s := New(in)
			for step := 0; step < 8; step++ {
				prev := s.Offset()
				ops[(i+step)%len(ops)](s)
				require.GreaterOrEqual(t, s.Offset(), prev, "cursor moved backwards on %q", in)
				require.GreaterOrEqual(t, s.Offset(), 0)
				require.LessOrEqual(t, s.Offset(), s.Len(), "cursor overran %q", in)
			}
		}
	}
}
