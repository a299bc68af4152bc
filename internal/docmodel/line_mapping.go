package docmodel

import "strings"

// LineOffset returns the number of lines before the body, so that
// fileLine = LineOffset() + bodyLine.
func (d *ParsedDoc) LineOffset() int {
	return d.parts.Lines()
}

// BodyOffset returns the byte offset of the body within the original bytes.
func (d *ParsedDoc) BodyOffset() int {
	return len(d.original) - len(d.parts.Body)
}

// FindNextLineContaining returns the next 1-based body line number that
// contains target, starting at startLine (1-based). Matches inside fenced
// code blocks and code spans are skipped. It returns 0 when nothing matches.
func (d *ParsedDoc) FindNextLineContaining(target string, startLine int) int {
	body := string(d.parts.Body)
	if body == "" || target == "" {
		return 0
	}

	lines := strings.Split(body, "\n")
	inFence := fencedLines(lines)

	startLine = max(startLine, 1)
	for i := startLine - 1; i < len(lines); i++ {
		if inFence[i] {
			continue
		}
		line := lines[i]
		from := 0
		for {
			idx := strings.Index(line[from:], target)
			if idx < 0 {
				break
			}
			idx += from
			if !insideCodeSpan(line, idx) {
				return i + 1
			}
			from = idx + 1
		}
	}
	return 0
}

// fencedLines marks fence lines and the lines between them.
func fencedLines(lines []string) []bool {
	marks := make([]bool, len(lines))
	open := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			open = !open
			marks[i] = true
			continue
		}
		marks[i] = open
	}
	return marks
}

func insideCodeSpan(line string, pos int) bool {
	return strings.Count(line[:pos], "`")%2 == 1
}
