package render

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// Markdown serializes a tree back into the source dialect. Parsing the
// output yields a structurally equal tree for documents whose paragraphs
// start with a letter or digit and whose list items hold a single line.
type Markdown struct{}

// NewMarkdown returns a source-dialect serializer.
func NewMarkdown() *Markdown { return &Markdown{} }

func (*Markdown) Name() string { return NameMarkdown }

func (r *Markdown) Render(doc *ast.Document) (string, error) {
	out, err := r.blocks(doc.Children)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

func (r *Markdown) blocks(blocks []ast.Block) (string, error) {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		s, err := r.block(b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (r *Markdown) block(b ast.Block) (string, error) {
	switch n := b.(type) {
	case *ast.Heading:
		return strings.Repeat("#", max(n.Level, 1)) + " " + n.Text, nil
	case *ast.CodeBlock:
		info := n.Language
		if len(n.Meta) > 0 {
			info += " " + strings.Join(n.Meta, " ")
		}
		if n.Code == "" {
			return "```" + info + "\n```", nil
		}
		return "```" + info + "\n" + n.Code + "\n```", nil
	case *ast.Paragraph:
		return r.inlines(n.Children, false)
	case *ast.List:
		return r.list(n)
	case *ast.Blockquote:
		inner, err := r.blocks(n.Children)
		if err != nil {
			return "", err
		}
		lines := strings.Split(inner, "\n")
		for i, l := range lines {
			if l == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + l
			}
		}
		return strings.Join(lines, "\n"), nil
	case *ast.Table:
		return r.table(n), nil
	case *ast.ThematicBreak:
		return "---", nil
	case *ast.HTML:
		return n.Raw, nil
	case *ast.ReactComponent:
		return r.component(n.Name, n.Props, n.Children)
	case *ast.VueComponent:
		return r.component(n.Name, n.Props, n.Children)
	case *ast.Link, *ast.Image, *ast.InlineCode:
		return r.inline(b.(ast.Inline), false)
	default:
		return "", unsupported(NameMarkdown, b, "")
	}
}

func (r *Markdown) list(n *ast.List) (string, error) {
	start := 1
	if n.Start != nil {
		start = *n.Start
	}
	lines := make([]string, 0, len(n.Items))
	for i, item := range n.Items {
		marker := "- "
		if n.Ordered {
			marker = strconv.Itoa(start+i) + ". "
		}
		var body string
		var err error
		if p, ok := item.(*ast.Paragraph); ok {
			body, err = r.inlines(p.Children, true)
		} else {
			body, err = r.block(item)
		}
		if err != nil {
			return "", err
		}
		if strings.Contains(body, "\n") {
			return "", unsupported(NameMarkdown, item, "list items hold a single line")
		}
		lines = append(lines, marker+body)
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Markdown) table(n *ast.Table) string {
	row := func(cells []string) string {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		return "| " + strings.Join(escaped, " | ") + " |"
	}
	sep := make([]string, len(n.Header))
	for i := range sep {
		sep[i] = "---"
	}
	lines := []string{row(n.Header), "|" + strings.Join(sep, "|") + "|"}
	for _, cells := range n.Rows {
		lines = append(lines, row(cells))
	}
	return strings.Join(lines, "\n")
}

func (r *Markdown) component(name string, props []string, children []ast.Block) (string, error) {
	open := "<" + name
	if len(props) > 0 {
		open += " " + strings.Join(props, " ")
	}
	if len(children) == 0 {
		return open + " />", nil
	}
	inner, err := r.blocks(children)
	if err != nil {
		return "", err
	}
	return open + ">\n" + inner + "\n</" + name + ">", nil
}

// inlines serializes inline content. In a list item breaks collapse to a
// space since items cannot span lines.
func (r *Markdown) inlines(nodes []ast.Inline, item bool) (string, error) {
	var sb strings.Builder
	for i, n := range nodes {
		s, err := r.inline(n, item)
		if err != nil {
			return "", err
		}
		// "!" directly before a link would read back as an image.
		if _, ok := n.(*ast.Text); ok && i+1 < len(nodes) && strings.HasSuffix(s, "!") {
			if _, link := nodes[i+1].(*ast.Link); link {
				s = s[:len(s)-1] + `\!`
			}
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (r *Markdown) inline(n ast.Inline, item bool) (string, error) {
	switch v := n.(type) {
	case *ast.Text:
		return escapeText(v.Value), nil
	case *ast.InlineCode:
		return "`" + v.Code + "`", nil
	case *ast.Strong:
		inner, err := r.inlines(v.Children, item)
		d := strings.Repeat(string(delimiter(v.Delimiter)), 2)
		return d + inner + d, err
	case *ast.Emphasis:
		inner, err := r.inlines(v.Children, item)
		d := string(delimiter(v.Delimiter))
		return d + inner + d, err
	case *ast.Link:
		return "[" + v.Alt + "](" + v.URL + title(v.Title) + ")", nil
	case *ast.Image:
		return "![" + v.Alt + "](" + v.URL + title(v.Title) + ")", nil
	case *ast.SoftBreak:
		if item {
			return " ", nil
		}
		return "\n", nil
	case *ast.HardBreak:
		if item {
			return " ", nil
		}
		return "\\\n", nil
	default:
		return "", unsupported(NameMarkdown, n, "")
	}
}

func delimiter(d rune) rune {
	if d == '_' {
		return '_'
	}
	return '*'
}

func title(t *string) string {
	if t == nil {
		return ""
	}
	if strings.Contains(*t, `"`) {
		return " '" + *t + "'"
	}
	return ` "` + *t + `"`
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"<", `\<`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
