// Package scanner provides a rune cursor over an immutable text buffer.
//
// A Scanner never mutates the buffer it reads and its cursor only moves
// forward. All lookahead and consumption primitives operate on Unicode scalar
// values decoded from UTF-8; invalid bytes decode as utf8.RuneError with a
// width of one so the cursor always makes progress.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EOF is the textual representation used for "nothing left" in mismatch reports.
const EOF = "EOF"

// Scanner is a forward-only cursor over a string.
type Scanner struct {
	src string
	pos int
}

// New returns a Scanner positioned at offset 0 of src.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// Offset returns the current byte offset of the cursor.
func (s *Scanner) Offset() int { return s.pos }

// Len returns the byte length of the underlying buffer.
func (s *Scanner) Len() int { return len(s.src) }

// IsEnd reports whether the cursor has reached the end of the buffer.
func (s *Scanner) IsEnd() bool { return s.pos >= len(s.src) }

// Rest returns the unread remainder of the buffer.
func (s *Scanner) Rest() string { return s.src[s.pos:] }

// PeekOne returns the rune at the cursor. ok is false at end of input.
func (s *Scanner) PeekOne() (r rune, ok bool) {
	if s.IsEnd() {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(s.src[s.pos:])
	return r, true
}

// PeekAt returns the n-th rune after the cursor (0 is the rune at the cursor).
func (s *Scanner) PeekAt(n int) (rune, bool) {
	i := s.pos
	for ; n > 0 && i < len(s.src); n-- {
		_, w := utf8.DecodeRuneInString(s.src[i:])
		i += w
	}
	if i >= len(s.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.src[i:])
	return r, true
}

// PeekMany returns up to n runes starting at the cursor without advancing.
func (s *Scanner) PeekMany(n int) string {
	i := s.pos
	for ; n > 0 && i < len(s.src); n-- {
		_, w := utf8.DecodeRuneInString(s.src[i:])
		i += w
	}
	return s.src[s.pos:i]
}

// PeekLine returns the remainder of the current line, excluding the line terminator.
func (s *Scanner) PeekLine() string {
	rest := s.src[s.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// StartsWith reports whether the unread buffer begins with lit.
func (s *Scanner) StartsWith(lit string) bool {
	return strings.HasPrefix(s.src[s.pos:], lit)
}

// ConsumeOne returns the rune at the cursor and advances past it.
func (s *Scanner) ConsumeOne() (rune, bool) {
	if s.IsEnd() {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w
	return r, true
}

// ConsumeWhile advances while pred holds for the rune at the cursor and
// returns the consumed span.
func (s *Scanner) ConsumeWhile(pred func(rune) bool) string {
	start := s.pos
	for s.pos < len(s.src) {
		r, w := utf8.DecodeRuneInString(s.src[s.pos:])
		if !pred(r) {
			break
		}
		s.pos += w
	}
	return s.src[start:s.pos]
}

// ConsumeExpect advances past lit if the unread buffer starts with it.
// Otherwise the cursor is left untouched and a *MismatchError is returned.
func (s *Scanner) ConsumeExpect(lit string) error {
	if s.StartsWith(lit) {
		s.pos += len(lit)
		return nil
	}
	found := s.PeekMany(utf8.RuneCountInString(lit))
	if found == "" {
		found = EOF
	}
	return &MismatchError{Offset: s.pos, Expected: lit, Found: found}
}

// SkipWhitespace consumes a maximal run of whitespace, line terminators included.
func (s *Scanner) SkipWhitespace() string {
	return s.ConsumeWhile(unicode.IsSpace)
}

// SkipSpaces consumes spaces and tabs only.
func (s *Scanner) SkipSpaces() string {
	return s.ConsumeWhile(IsBlank)
}

// Position converts a byte offset of this buffer into a 1-based line and column.
// Columns count runes, not bytes.
func (s *Scanner) Position(offset int) Position {
	if offset > len(s.src) {
		offset = len(s.src)
	}
	if offset < 0 {
		offset = 0
	}
	head := s.src[:offset]
	line := strings.Count(head, "\n") + 1
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return Position{Line: line, Column: utf8.RuneCountInString(head[lineStart:]) + 1}
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// IsBlank reports whether r is a space or a tab.
func IsBlank(r rune) bool { return r == ' ' || r == '\t' }

// MismatchError reports that an expected literal was not found at Offset.
type MismatchError struct {
	Offset   int
	Expected string
	Found    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("offset %d: expected %q but found %q", e.Offset, e.Expected, e.Found)
}
