package parser

import (
	"strconv"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/scanner"
)

const fence = "```"

// parseBlocks parses blocks until end of input or the closing tag of the
// innermost open component.
func (p *parser) parseBlocks() ([]ast.Block, error) {
	var blocks []ast.Block
	for {
		p.s.SkipWhitespace()
		if p.s.IsEnd() || p.atCloser() {
			return blocks, nil
		}
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
}

func (p *parser) parseBlock() (ast.Block, error) {
	r, _ := p.s.PeekOne()
	switch {
	case r == '#':
		return p.parseHeading()
	case r == '`':
		if p.s.StartsWith(fence) {
			return p.parseCodeBlock()
		}
		return standalone(p, p.codeSpan)
	case r == '>':
		return p.parseBlockquote()
	case r == '!':
		return standalone(p, p.image)
	case r == '[':
		return standalone(p, p.link)
	case r == '<':
		return p.parseTag()
	case r == '|':
		return p.parseTable()
	case p.atThematicBreak():
		return p.parseThematicBreak()
	case p.atListItem():
		return p.parseList()
	case unicode.IsLetter(r), isDigit(r), isListIndicator(r):
		// Indicator runes that do not form a list marker ("*bold*", "2024 was")
		// open a paragraph.
		return p.parseParagraph()
	default:
		return nil, p.unexpected()
	}
}

func (p *parser) parseHeading() (ast.Block, error) {
	marks := p.s.ConsumeWhile(func(r rune) bool { return r == '#' })
	if r, ok := p.s.PeekOne(); !ok || !unicode.IsSpace(r) {
		return nil, p.mismatch("heading", "whitespace")
	}
	p.s.SkipSpaces()
	text := p.s.PeekLine()
	if i := closerIndex(text, p.closer()); i >= 0 {
		text = text[:i]
	}
	_ = p.s.ConsumeExpect(text)
	p.consumeNewline()
	return &ast.Heading{Level: len(marks), Text: strings.TrimRight(text, " \t\r")}, nil
}

func (p *parser) parseCodeBlock() (ast.Block, error) {
	start := p.s.Offset()
	if err := p.expect(fence, "code block"); err != nil {
		return nil, err
	}
	infoOffset := p.s.Offset()
	info := p.s.ConsumeWhile(notNewline)
	if !p.consumeNewline() {
		return nil, p.unterminated("code block", start, fence)
	}
	language, meta, err := splitInfo(info)
	if err != nil {
		return nil, &Error{
			Kind:      KindScanMismatch,
			Offset:    infoOffset,
			Construct: "code block info",
			Expected:  "language followed by attributes",
			Found:     strconv.Quote(info),
			Err:       err,
		}
	}

	var lines []string
	for {
		if p.s.IsEnd() {
			return nil, p.unterminated("code block", start, fence)
		}
		line := p.s.ConsumeWhile(notNewline)
		if strings.TrimSpace(line) == fence {
			p.consumeNewline()
			break
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		if !p.consumeNewline() {
			return nil, p.unterminated("code block", start, fence)
		}
	}
	return &ast.CodeBlock{Language: language, Code: strings.Join(lines, "\n"), Meta: meta}, nil
}

// splitInfo separates a fence info string into the language tag and the
// remaining metadata tokens.
func splitInfo(info string) (string, []string, error) {
	info = strings.TrimSpace(info)
	if info == "" {
		return "", nil, nil
	}
	language, rest, _ := strings.Cut(info, " ")
	if i := strings.IndexAny(language, "\t{"); i >= 0 {
		language, rest = language[:i], language[i:]+" "+rest
	}
	meta, err := splitAttrs(rest)
	if err != nil {
		return "", nil, err
	}
	return language, meta, nil
}

func (p *parser) parseBlockquote() (ast.Block, error) {
	if err := p.enter("blockquote"); err != nil {
		return nil, err
	}
	defer p.leave()

	var sb strings.Builder
	var lines []lineMap
	for {
		p.s.SkipSpaces()
		if err := p.expect(">", "blockquote"); err != nil {
			return nil, err
		}
		if r, ok := p.s.PeekOne(); ok && r == ' ' {
			p.s.ConsumeOne()
		}
		lines = append(lines, lineMap{inner: sb.Len(), outer: p.s.Offset()})
		sb.WriteString(p.s.ConsumeWhile(notNewline))
		if !p.consumeNewline() {
			break
		}
		sb.WriteByte('\n')
		if !strings.HasPrefix(strings.TrimLeft(p.s.PeekLine(), " \t"), ">") {
			break
		}
	}

	children, err := p.subParse(sb.String(), lines)
	if err != nil {
		return nil, err
	}
	return &ast.Blockquote{Children: children}, nil
}

func (p *parser) parseThematicBreak() (ast.Block, error) {
	p.s.ConsumeWhile(notNewline)
	p.consumeNewline()
	return &ast.ThematicBreak{}, nil
}

func (p *parser) atThematicBreak() bool {
	return isThematicBreak(p.s.PeekLine())
}

// isThematicBreak reports whether line is three or more identical '-', '*' or
// '_' runes and nothing else.
func isThematicBreak(line string) bool {
	line = strings.TrimRight(line, " \t\r")
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	return strings.Count(line, string(c)) == len(line)
}

func (p *parser) parseList() (ast.Block, error) {
	first, _ := p.s.PeekOne()
	list := &ast.List{Ordered: isDigit(first)}

	for {
		if list.Ordered {
			offset := p.s.Offset()
			digits := p.s.ConsumeWhile(isDigit)
			n, err := strconv.Atoi(digits)
			if err != nil {
				return nil, p.malformedNumber(digits, offset, err)
			}
			if list.Start == nil {
				list.Start = ast.IntPtr(n)
			}
			if err := p.expect(".", "list item"); err != nil {
				return nil, err
			}
		} else {
			p.s.ConsumeOne()
		}
		if r, ok := p.s.PeekOne(); !ok || !scanner.IsBlank(r) {
			return nil, p.mismatch("list item", "whitespace")
		}
		p.s.SkipSpaces()

		item, err := p.parseListItem()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)

		// Keep going while another item of the same kind follows directly.
		if !p.consumeNewline() {
			break
		}
		ordered, marker, ok := listMarker(p.s.PeekLine())
		if !ok || ordered != list.Ordered || (!ordered && marker != first) {
			break
		}
	}
	return list, nil
}

func (p *parser) parseListItem() (ast.Block, error) {
	saved := p.lineOnly
	p.lineOnly = true
	defer func() { p.lineOnly = saved }()

	children, err := p.parseInlines(nil)
	if err != nil {
		return nil, err
	}
	return &ast.Paragraph{Children: children}, nil
}

func (p *parser) atListItem() bool {
	_, _, ok := listMarker(p.s.PeekLine())
	return ok
}

// listMarker recognizes "- ", "* ", "_ ", "+ " and "12. " at the start of line.
func listMarker(line string) (ordered bool, marker rune, ok bool) {
	if line == "" {
		return false, 0, false
	}
	c := rune(line[0])
	if isListIndicator(c) {
		return false, c, len(line) > 1 && scanner.IsBlank(rune(line[1]))
	}
	i := 0
	for i < len(line) && isDigit(rune(line[i])) {
		i++
	}
	if i == 0 || i+1 >= len(line) || line[i] != '.' || !scanner.IsBlank(rune(line[i+1])) {
		return false, 0, false
	}
	return true, 0, true
}

func (p *parser) parseParagraph() (ast.Block, error) {
	children, err := p.parseInlines(nil)
	if err != nil {
		return nil, err
	}
	return &ast.Paragraph{Children: children}, nil
}

// blockInline is a node that may stand alone at block level.
type blockInline interface {
	ast.Block
	ast.Inline
}

// standalone parses a link, image or code span at block level. When more
// text follows on the same line the node opens a paragraph instead.
func standalone[T blockInline](p *parser, parse func() (T, error)) (ast.Block, error) {
	n, err := parse()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.s.PeekLine()) == "" {
		return n, nil
	}
	rest, err := p.parseInlines(nil)
	if err != nil {
		return nil, err
	}
	return &ast.Paragraph{Children: append([]ast.Inline{n}, rest...)}, nil
}

// consumeNewline consumes a line terminator ("\n" or "\r\n") if present.
func (p *parser) consumeNewline() bool {
	if p.s.StartsWith("\r\n") {
		_ = p.s.ConsumeExpect("\r\n")
		return true
	}
	if p.s.StartsWith("\n") {
		p.s.ConsumeOne()
		return true
	}
	return false
}

func notNewline(r rune) bool { return r != '\n' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isListIndicator(r rune) bool {
	return r == '*' || r == '_' || r == '+' || r == '-'
}
