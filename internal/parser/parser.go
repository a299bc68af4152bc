// Package parser turns the markup dialect into an *ast.Document.
//
// Parsing is a single recursive-descent pass driven by bounded lookahead; a
// dispatch decision is never revisited. Every production either returns a
// completed node or an *Error, and the first error aborts the parse. The
// package does no I/O and never logs.
package parser

import (
	"errors"
	"sort"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/scanner"
)

// DefaultMaxNesting bounds emphasis, blockquote and component nesting.
const DefaultMaxNesting = 32

// Options controls parsing behavior. The zero value is ready to use.
type Options struct {
	// MaxNesting caps nested constructs; zero means DefaultMaxNesting.
	MaxNesting int
}

func (o Options) withDefaults() Options {
	if o.MaxNesting <= 0 {
		o.MaxNesting = DefaultMaxNesting
	}
	return o
}

// Parse parses src into a document tree. On failure it returns the first
// *Error encountered and no tree.
func Parse(src string, opts Options) (*ast.Document, error) {
	p := &parser{s: scanner.New(src), opts: opts.withDefaults()}
	blocks, err := p.parseBlocks()
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			pos := p.s.Position(pe.Offset)
			pe.Line, pe.Column = pos.Line, pos.Column
		}
		return nil, err
	}
	return &ast.Document{Children: blocks}, nil
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(src []byte, opts Options) (*ast.Document, error) {
	return Parse(string(src), opts)
}

type parser struct {
	s    *scanner.Scanner
	opts Options

	depth int
	// closers holds the closing-tag prefixes of open components, innermost last.
	closers []string
	// delims holds the open emphasis delimiter runs, innermost last.
	delims []delim
	// lineOnly stops inline parsing at the end of the current line (list items).
	lineOnly bool
}

type delim struct {
	char rune
	n    int
}

func (p *parser) enter(construct string) error {
	if p.depth >= p.opts.MaxNesting {
		return p.tooDeep(construct)
	}
	p.depth++
	return nil
}

func (p *parser) leave() { p.depth-- }

// lineMap records where a line of a derived buffer came from.
type lineMap struct {
	inner int
	outer int
}

// subParse parses a derived buffer (blockquote content with the markers
// stripped) and rebases error offsets onto the enclosing buffer.
func (p *parser) subParse(src string, lines []lineMap) ([]ast.Block, error) {
	sub := &parser{s: scanner.New(src), opts: p.opts, depth: p.depth}
	blocks, err := sub.parseBlocks()
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			pe.Offset = rebase(pe.Offset, lines)
		}
		return nil, err
	}
	return blocks, nil
}

func rebase(offset int, lines []lineMap) int {
	if len(lines) == 0 {
		return offset
	}
	i := sort.Search(len(lines), func(i int) bool { return lines[i].inner > offset }) - 1
	if i < 0 {
		i = 0
	}
	return lines[i].outer + offset - lines[i].inner
}
