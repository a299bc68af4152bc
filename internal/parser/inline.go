package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// parseInlines collects inline nodes until the closing run of closing (when
// non-nil), a blank line, end of input, or the end of the line in a list item.
func (p *parser) parseInlines(closing *delim) ([]ast.Inline, error) {
	var out []ast.Inline
	for {
		if closing != nil && p.atClosing(*closing) {
			return out, nil
		}
		if p.atInlineEnd() {
			return out, nil
		}

		r, _ := p.s.PeekOne()
		next, _ := p.s.PeekAt(1)
		switch {
		case p.atNewline():
			out = p.lineBreak(out)
		case r == '\\' && p.atEscapedNewline():
			p.s.ConsumeOne()
			p.consumeNewline()
			p.s.SkipSpaces()
			out = append(out, &ast.HardBreak{})
		case r == '`':
			span, err := p.codeSpan()
			if err != nil {
				return nil, err
			}
			out = append(out, span)
		case r == '*' || r == '_':
			if !p.opensEmphasis(r) {
				out = appendText(out, p.s.ConsumeWhile(func(c rune) bool { return c == r }))
				continue
			}
			em, err := p.parseEmphasis()
			if err != nil {
				return nil, err
			}
			out = append(out, em)
		case r == '[':
			link, err := p.link()
			if err != nil {
				return nil, err
			}
			out = append(out, link)
		case r == '!' && next == '[':
			img, err := p.image()
			if err != nil {
				return nil, err
			}
			out = append(out, img)
		default:
			out = appendText(out, p.parseText())
		}
	}
}

// appendText merges s into a trailing Text node so adjacent literal runs
// produce a single node.
func appendText(out []ast.Inline, s string) []ast.Inline {
	if s == "" {
		return out
	}
	if n := len(out); n > 0 {
		if t, ok := out[n-1].(*ast.Text); ok {
			t.Value += s
			return out
		}
	}
	return append(out, &ast.Text{Value: s})
}

// lineBreak consumes a line terminator inside a paragraph. Two or more
// trailing spaces turn it into a hard break.
func (p *parser) lineBreak(out []ast.Inline) []ast.Inline {
	hard := false
	if n := len(out); n > 0 {
		if t, ok := out[n-1].(*ast.Text); ok && strings.HasSuffix(t.Value, "  ") {
			hard = true
			t.Value = strings.TrimRight(t.Value, " ")
			if t.Value == "" {
				out = out[:n-1]
			}
		}
	}
	p.consumeNewline()
	p.s.SkipSpaces()
	if hard {
		return append(out, &ast.HardBreak{})
	}
	return append(out, &ast.SoftBreak{})
}

func (p *parser) atNewline() bool {
	return p.s.StartsWith("\n") || p.s.StartsWith("\r\n")
}

// atEscapedNewline reports a backslash that ends a line which the paragraph
// continues past.
func (p *parser) atEscapedNewline() bool {
	if p.lineOnly {
		return false
	}
	rest := p.s.Rest()[1:]
	if !strings.HasPrefix(rest, "\n") && !strings.HasPrefix(rest, "\r\n") {
		return false
	}
	return !p.endsInline(rest)
}

// atInlineEnd reports whether the current inline run is over.
func (p *parser) atInlineEnd() bool {
	if p.s.IsEnd() || p.atCloser() {
		return true
	}
	if !p.atNewline() {
		return false
	}
	return p.lineOnly || p.endsInline(p.s.Rest())
}

// endsInline inspects the line that follows the terminator rest starts with.
// Inline content stops at a blank line, end of input, the closing tag of the
// enclosing component, or a line that opens another block.
func (p *parser) endsInline(rest string) bool {
	_, after, _ := strings.Cut(rest, "\n")
	line, _, _ := strings.Cut(after, "\n")
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return true
	}
	trimmed := strings.TrimLeft(line, " \t")
	if c := p.closer(); c != "" && closes(trimmed, c) {
		return true
	}
	if strings.HasPrefix(trimmed, "|") {
		// A pipe line only interrupts when a delimiter row follows it.
		_, next, _ := strings.Cut(after, "\n")
		next, _, _ = strings.Cut(next, "\n")
		return isDelimiterRow(splitRow(strings.TrimRight(next, "\r")))
	}
	return opensBlock(trimmed)
}

// opensBlock reports whether line starts a heading, fence, blockquote, list
// item, thematic break or tag, any of which interrupts a paragraph.
func opensBlock(line string) bool {
	switch {
	case strings.HasPrefix(line, fence), strings.HasPrefix(line, ">"):
		return true
	case strings.HasPrefix(line, "<"):
		r, _ := utf8.DecodeRuneInString(line[1:])
		return unicode.IsLetter(r)
	case strings.HasPrefix(line, "#"):
		rest := strings.TrimLeft(line, "#")
		return rest == "" || rest[0] == ' ' || rest[0] == '\t'
	}
	if _, _, ok := listMarker(line); ok {
		return true
	}
	return isThematicBreak(line)
}

func (p *parser) codeSpan() (*ast.InlineCode, error) {
	start := p.s.Offset()
	if err := p.expect("`", "code span"); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for {
		sb.WriteString(p.s.ConsumeWhile(func(r rune) bool { return r != '`' && r != '\n' }))
		if p.s.StartsWith("`") {
			p.s.ConsumeOne()
			break
		}
		// A code span may wrap onto the next line of its paragraph; the line
		// terminator reads as a space.
		if p.s.IsEnd() || p.lineOnly || p.endsInline(p.s.Rest()) {
			return nil, p.unterminated("code span", start, "`")
		}
		p.s.ConsumeOne()
		code := strings.TrimSuffix(sb.String(), "\r")
		sb.Reset()
		sb.WriteString(code)
		sb.WriteByte(' ')
	}
	return &ast.InlineCode{Code: sb.String()}, nil
}

// opensEmphasis reports whether the delimiter run at the cursor opens
// emphasis. A run followed by whitespace or end of input is literal text.
func (p *parser) opensEmphasis(c rune) bool {
	rest := strings.TrimLeft(p.s.Rest(), string(c))
	if rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsSpace(r)
}

func (p *parser) parseEmphasis() (ast.Inline, error) {
	start := p.s.Offset()
	c, _ := p.s.PeekOne()
	d := delim{char: c, n: 1}
	if next, ok := p.s.PeekAt(1); ok && next == c {
		d.n = 2
	}
	construct := "emphasis"
	if d.n == 2 {
		construct = "strong"
	}
	if err := p.enter(construct); err != nil {
		return nil, err
	}
	defer p.leave()

	run := strings.Repeat(string(c), d.n)
	_ = p.s.ConsumeExpect(run)

	p.delims = append(p.delims, d)
	children, err := p.parseInlines(&d)
	p.delims = p.delims[:len(p.delims)-1]
	if err != nil {
		return nil, err
	}
	if !p.atClosing(d) {
		return nil, p.unterminated(construct, start, run)
	}
	_ = p.s.ConsumeExpect(run)

	if d.n == 2 {
		return &ast.Strong{Delimiter: c, Children: children}, nil
	}
	return &ast.Emphasis{Delimiter: c, Children: children}, nil
}

// atClosing reports whether the cursor sits on the closing run for d, the
// innermost open delimiter. A longer run also closes d when the surplus
// exactly closes the enclosing delimiter of the same character, as in
// "***both***".
func (p *parser) atClosing(d delim) bool {
	rest := p.s.Rest()
	run := len(rest) - len(strings.TrimLeft(rest, string(d.char)))
	if run == d.n {
		return true
	}
	if run < d.n || len(p.delims) < 2 {
		return false
	}
	outer := p.delims[len(p.delims)-2]
	return outer.char == d.char && run == d.n+outer.n
}

// parseText collects a literal run up to the next rune that starts another
// inline construct. It always consumes at least one rune.
func (p *parser) parseText() string {
	var sb strings.Builder
	var prev rune
	for !p.s.IsEnd() {
		r, _ := p.s.PeekOne()
		next, _ := p.s.PeekAt(1)
		if p.stopsText(r, next, prev) {
			break
		}
		if r == '\\' && isASCIIPunct(next) {
			p.s.ConsumeOne()
			r = next
		}
		p.s.ConsumeOne()
		sb.WriteRune(r)
		prev = r
	}
	if sb.Len() == 0 {
		if r, ok := p.s.ConsumeOne(); ok {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (p *parser) stopsText(r, next, prev rune) bool {
	switch r {
	case '`', '*', '[', '\n':
		return true
	case '_':
		// snake_case stays literal.
		return !isAlnum(prev) || !isAlnum(next)
	case '\r':
		return next == '\n'
	case '!':
		return next == '['
	case '<':
		return p.atCloser()
	case '\\':
		return next == '\n' || next == '\r'
	}
	return false
}

func (p *parser) link() (*ast.Link, error) {
	start := p.s.Offset()
	alt, url, title, err := p.linkParts(start, "link")
	if err != nil {
		return nil, err
	}
	return &ast.Link{URL: url, Alt: alt, Title: title}, nil
}

func (p *parser) image() (*ast.Image, error) {
	start := p.s.Offset()
	if err := p.expect("!", "image"); err != nil {
		return nil, err
	}
	alt, url, title, err := p.linkParts(start, "image")
	if err != nil {
		return nil, err
	}
	return &ast.Image{URL: url, Alt: alt, Title: title}, nil
}

// linkParts parses [alt](url "title"). Whitespace inside the destination is
// skipped; an empty title is treated as absent.
func (p *parser) linkParts(start int, construct string) (alt, url string, title *string, err error) {
	if err = p.expect("[", construct); err != nil {
		return "", "", nil, err
	}
	alt = p.s.ConsumeWhile(func(r rune) bool { return r != ']' && r != '\n' })
	if !p.s.StartsWith("]") {
		return "", "", nil, p.unterminated(construct+" text", start, "]")
	}
	p.s.ConsumeOne()
	if err = p.expect("(", construct); err != nil {
		return "", "", nil, err
	}

	var sb strings.Builder
	for {
		p.s.SkipSpaces()
		r, ok := p.s.PeekOne()
		if !ok || r == '\n' || r == '\r' {
			return "", "", nil, p.unterminated(construct, start, ")")
		}
		if r == '"' || r == '\'' || r == ')' {
			break
		}
		sb.WriteString(p.s.ConsumeWhile(func(r rune) bool {
			return !unicode.IsSpace(r) && r != '"' && r != '\'' && r != ')'
		}))
	}
	url = sb.String()

	if q, _ := p.s.PeekOne(); q == '"' || q == '\'' {
		titleStart := p.s.Offset()
		p.s.ConsumeOne()
		t := p.s.ConsumeWhile(func(r rune) bool { return r != q && r != '\n' })
		if !p.s.StartsWith(string(q)) {
			return "", "", nil, p.unterminated(construct+" title", titleStart, string(q))
		}
		p.s.ConsumeOne()
		if t != "" {
			title = &t
		}
		p.s.SkipSpaces()
	}

	if r, ok := p.s.PeekOne(); !ok || r == '\n' || r == '\r' {
		return "", "", nil, p.unterminated(construct, start, ")")
	}
	if err = p.expect(")", construct); err != nil {
		return "", "", nil, err
	}
	return alt, url, title, nil
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIIPunct(r rune) bool {
	return r < utf8.RuneSelf && unicode.IsPunct(r) || strings.ContainsRune("$+<=>^`|~", r)
}
