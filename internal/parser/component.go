package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/scc/internal/ast"
)

var (
	tagNameRe = regexp.MustCompile(`^[A-Za-z][\w.-]*`)
	// Vue directives and bindings: v-if, :prop, @event.
	vueAttrRe = regexp.MustCompile(`\s(v-[\w-]+|[:@][\w.-]+)`)
)

type componentDialect int

const (
	dialectReact componentDialect = iota
	dialectVue
)

// parseTag dispatches on the tag that starts at the cursor. Capitalized names
// are React components; hyphenated names or Vue directives mark Vue
// components; anything else is raw HTML passed through untouched.
func (p *parser) parseTag() (ast.Block, error) {
	if r, ok := p.s.PeekAt(1); !ok || !unicode.IsLetter(r) {
		return p.parseHTML()
	}
	line := p.s.PeekLine()
	name := tagNameRe.FindString(line[1:])
	first, _ := utf8.DecodeRuneInString(name)
	switch {
	case name == "":
		return p.parseHTML()
	case unicode.IsUpper(first):
		return p.parseComponent(name, dialectReact)
	case strings.Contains(name, "-"), vueAttrRe.MatchString(line):
		return p.parseComponent(name, dialectVue)
	default:
		return p.parseHTML()
	}
}

func (p *parser) parseComponent(name string, dialect componentDialect) (ast.Block, error) {
	start := p.s.Offset()
	if err := p.enter("component"); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.expect("<"+name, "component"); err != nil {
		return nil, err
	}
	attrStart := p.s.Offset()
	raw, selfClosing, err := p.scanTagAttrs(start, name)
	if err != nil {
		return nil, err
	}
	props, err := splitAttrs(raw)
	if err != nil {
		return nil, &Error{
			Kind:      KindScanMismatch,
			Offset:    attrStart,
			Construct: "component attributes",
			Expected:  "name, name=value or {expression}",
			Found:     strconv.Quote(strings.TrimSpace(raw)),
			Err:       err,
		}
	}

	var children []ast.Block
	if !selfClosing {
		closer := "</" + name
		p.closers = append(p.closers, closer)
		children, err = p.parseBlocks()
		p.closers = p.closers[:len(p.closers)-1]
		if err != nil {
			return nil, err
		}
		if !p.s.StartsWith(closer) {
			return nil, p.unterminated("<"+name+">", start, closer+">")
		}
		_ = p.s.ConsumeExpect(closer)
		p.s.SkipSpaces()
		if err := p.expect(">", "closing tag"); err != nil {
			return nil, err
		}
	}

	if dialect == dialectVue {
		return &ast.VueComponent{Name: name, Props: props, Children: children}, nil
	}
	return &ast.ReactComponent{Name: name, Props: props, Children: children}, nil
}

// scanTagAttrs consumes the rest of an opening tag up to its unquoted,
// unbraced '>' and returns the attribute text. The tag may span lines.
func (p *parser) scanTagAttrs(start int, name string) (string, bool, error) {
	var sb strings.Builder
	var quote rune
	depth := 0
	for {
		r, ok := p.s.ConsumeOne()
		if !ok {
			return "", false, p.unterminated("<"+name, start, ">")
		}
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case r == '>' && depth == 0:
			raw := strings.TrimRight(sb.String(), " \t\r\n")
			if strings.HasSuffix(raw, "/") {
				return strings.TrimSuffix(raw, "/"), true, nil
			}
			return raw, false, nil
		}
		sb.WriteRune(r)
	}
}

// parseHTML passes raw markup through up to the next blank line or the
// closing tag of the enclosing component.
func (p *parser) parseHTML() (ast.Block, error) {
	var lines []string
	closer := p.closer()
	for {
		line := p.s.PeekLine()
		if len(lines) > 0 && (strings.TrimSpace(line) == "" || (closer != "" && closes(strings.TrimLeft(line, " \t"), closer))) {
			break
		}
		if i := closerIndex(line, closer); i > 0 {
			_ = p.s.ConsumeExpect(line[:i])
			lines = append(lines, line[:i])
			break
		}
		_ = p.s.ConsumeExpect(line)
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		if !p.consumeNewline() {
			break
		}
	}
	return &ast.HTML{Raw: strings.Join(lines, "\n")}, nil
}

// closerIndex returns the byte index of closer within line, or -1.
func closerIndex(line, closer string) int {
	if closer == "" {
		return -1
	}
	for i := 0; i < len(line); {
		j := strings.Index(line[i:], closer)
		if j < 0 {
			return -1
		}
		if closes(line[i+j:], closer) {
			return i + j
		}
		i += j + len(closer)
	}
	return -1
}

// closer returns the closing-tag prefix of the innermost open component.
func (p *parser) closer() string {
	if len(p.closers) == 0 {
		return ""
	}
	return p.closers[len(p.closers)-1]
}

func (p *parser) atCloser() bool {
	c := p.closer()
	return c != "" && closes(p.s.Rest(), c)
}

// closes reports whether s starts with the closing tag prefix closer followed
// by '>' or whitespace, so "</Tab" does not match "</Tabs>".
func closes(s, closer string) bool {
	if !strings.HasPrefix(s, closer) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[len(closer):])
	return r == '>' || unicode.IsSpace(r)
}
