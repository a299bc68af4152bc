package parser

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/scc/internal/ast"
)

var delimCellRe = regexp.MustCompile(`^:?-+:?$`)

// parseTable parses a pipe table: a header row, a delimiter row of dashes
// (optionally colon-aligned), and body rows until a line that does not
// start with '|'.
func (p *parser) parseTable() (ast.Block, error) {
	t := &ast.Table{Header: splitRow(p.s.ConsumeWhile(notNewline))}
	if !p.consumeNewline() {
		return nil, p.mismatch("table", "delimiter row")
	}
	p.s.SkipSpaces()
	if !isDelimiterRow(splitRow(p.s.PeekLine())) {
		return nil, p.mismatch("table", "delimiter row")
	}
	p.s.ConsumeWhile(notNewline)

	for p.consumeNewline() {
		if !strings.HasPrefix(strings.TrimLeft(p.s.PeekLine(), " \t"), "|") {
			break
		}
		p.s.SkipSpaces()
		t.Rows = append(t.Rows, splitRow(p.s.ConsumeWhile(notNewline)))
	}
	return t, nil
}

// splitRow splits a table row on unescaped pipes. Leading and trailing pipes
// are optional; "\|" yields a literal pipe inside a cell.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

func isDelimiterRow(cells []string) bool {
	for _, c := range cells {
		if !delimCellRe.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}
