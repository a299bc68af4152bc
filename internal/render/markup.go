package render

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shurcooL/sanitized_anchor_name"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/scc/internal/ast"
)

type dialect int

const (
	dialectHTML dialect = iota
	dialectJSX
	dialectVue
)

func (d dialect) String() string {
	switch d {
	case dialectJSX:
		return NameJSX
	case dialectVue:
		return NameVue
	default:
		return NameHTML
	}
}

// markup writes the element tree shared by the HTML, JSX and Vue renderers.
// The dialect decides escaping, attribute spelling and how components and
// raw markup are carried over.
type markup struct {
	d    dialect
	opts Options
	sb   strings.Builder
	ids  map[string]int
}

func newMarkup(d dialect, opts Options) *markup {
	return &markup{d: d, opts: opts, ids: map[string]int{}}
}

func (m *markup) document(doc *ast.Document) (string, error) {
	if err := m.blocks(doc.Children); err != nil {
		return "", err
	}
	return m.sb.String(), nil
}

func (m *markup) blocks(blocks []ast.Block) error {
	for _, b := range blocks {
		if err := m.block(b); err != nil {
			return err
		}
		m.sb.WriteByte('\n')
	}
	return nil
}

func (m *markup) block(b ast.Block) error {
	switch n := b.(type) {
	case *ast.Heading:
		m.heading(n)
	case *ast.CodeBlock:
		m.codeBlock(n)
	case *ast.Paragraph:
		m.sb.WriteString("<p>")
		if err := m.inlines(n.Children); err != nil {
			return err
		}
		m.sb.WriteString("</p>")
	case *ast.List:
		return m.list(n)
	case *ast.Blockquote:
		m.sb.WriteString("<blockquote>\n")
		if err := m.blocks(n.Children); err != nil {
			return err
		}
		m.sb.WriteString("</blockquote>")
	case *ast.Table:
		m.table(n)
	case *ast.ThematicBreak:
		m.void("hr")
	case *ast.HTML:
		m.raw(n)
	case *ast.ReactComponent:
		return m.component(n, n.Name, n.Props, n.Children)
	case *ast.VueComponent:
		return m.component(n, n.Name, n.Props, n.Children)
	case *ast.Link, *ast.Image, *ast.InlineCode:
		return m.inline(b.(ast.Inline))
	default:
		return unsupported(m.d.String(), b, "")
	}
	return nil
}

func (m *markup) heading(n *ast.Heading) {
	level := n.Level
	if level > 6 {
		level = 6
	}
	if level < 1 {
		level = 1
	}
	tag := "h" + strconv.Itoa(level)
	m.sb.WriteString("<" + tag)
	if m.opts.HeadingIDs {
		m.attr("id", m.slug(n.Text))
	}
	m.sb.WriteString(">")
	m.text(n.Text)
	m.sb.WriteString("</" + tag + ">")
}

// slug derives a heading id, suffixing repeats with -1, -2, ...
func (m *markup) slug(text string) string {
	base := sanitized_anchor_name.Create(text)
	n := m.ids[base]
	m.ids[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

func (m *markup) codeBlock(n *ast.CodeBlock) {
	m.sb.WriteString("<pre")
	if m.d == dialectVue {
		m.sb.WriteString(" v-pre")
	}
	m.sb.WriteString("><code")
	if n.Language != "" {
		m.attr("class", m.opts.ClassPrefix+"language-"+n.Language)
	}
	m.sb.WriteString(">")
	if m.d == dialectJSX {
		// JSX collapses whitespace in text, so code goes in as a string literal.
		m.sb.WriteString("{" + jsString(n.Code) + "}")
	} else {
		m.sb.WriteString(html.EscapeString(n.Code))
	}
	m.sb.WriteString("</code></pre>")
}

func (m *markup) list(n *ast.List) error {
	tag := "ul"
	if n.Ordered {
		tag = "ol"
	}
	m.sb.WriteString("<" + tag)
	if n.Ordered && n.Start != nil && *n.Start != 1 {
		m.attr("start", strconv.Itoa(*n.Start))
	}
	m.sb.WriteString(">\n")
	for _, item := range n.Items {
		m.sb.WriteString("<li>")
		// Items are tight: a paragraph item renders without its <p>.
		if p, ok := item.(*ast.Paragraph); ok {
			if err := m.inlines(p.Children); err != nil {
				return err
			}
		} else if err := m.block(item); err != nil {
			return err
		}
		m.sb.WriteString("</li>\n")
	}
	m.sb.WriteString("</" + tag + ">")
	return nil
}

func (m *markup) table(n *ast.Table) {
	m.sb.WriteString("<table>\n<thead>\n<tr>")
	for _, c := range n.Header {
		m.sb.WriteString("<th>")
		m.text(c)
		m.sb.WriteString("</th>")
	}
	m.sb.WriteString("</tr>\n</thead>\n")
	if len(n.Rows) > 0 {
		m.sb.WriteString("<tbody>\n")
		for _, row := range n.Rows {
			m.sb.WriteString("<tr>")
			for _, c := range row {
				m.sb.WriteString("<td>")
				m.text(c)
				m.sb.WriteString("</td>")
			}
			m.sb.WriteString("</tr>\n")
		}
		m.sb.WriteString("</tbody>\n")
	}
	m.sb.WriteString("</table>")
}

// raw passes markup through. JSX cannot embed arbitrary HTML, so it is
// injected with dangerouslySetInnerHTML on a wrapper div.
func (m *markup) raw(n *ast.HTML) {
	if m.d == dialectJSX {
		m.sb.WriteString("<div dangerouslySetInnerHTML={{ __html: " + jsString(n.Raw) + " }} />")
		return
	}
	m.sb.WriteString(n.Raw)
}

func (m *markup) component(n ast.Node, name string, props []string, children []ast.Block) error {
	var attrs []string
	switch m.d {
	case dialectHTML:
		// Plain HTML has no component model; keep the component as a wrapper
		// element so its content and props survive.
		m.sb.WriteString("<div")
		m.attr("class", m.opts.ClassPrefix+"component")
		m.attr("data-component", name)
		if len(props) > 0 {
			m.attr("data-props", strings.Join(props, " "))
		}
		m.sb.WriteString(">\n")
		if err := m.blocks(children); err != nil {
			return err
		}
		m.sb.WriteString("</div>")
		return nil
	case dialectJSX:
		for _, p := range props {
			a, err := jsxProp(p)
			if err != nil {
				return unsupported(NameJSX, n, err.Error())
			}
			attrs = append(attrs, a)
		}
	case dialectVue:
		for _, p := range props {
			attrs = append(attrs, vueProp(p))
		}
	}

	m.sb.WriteString("<" + name)
	for _, a := range attrs {
		m.sb.WriteString(" " + a)
	}
	if len(children) == 0 {
		m.sb.WriteString(" />")
		return nil
	}
	m.sb.WriteString(">\n")
	if err := m.blocks(children); err != nil {
		return err
	}
	m.sb.WriteString("</" + name + ">")
	return nil
}

func (m *markup) inlines(nodes []ast.Inline) error {
	for _, n := range nodes {
		if err := m.inline(n); err != nil {
			return err
		}
	}
	return nil
}

func (m *markup) inline(n ast.Inline) error {
	switch v := n.(type) {
	case *ast.Text:
		m.text(v.Value)
	case *ast.InlineCode:
		m.sb.WriteString("<code>")
		m.text(v.Code)
		m.sb.WriteString("</code>")
	case *ast.Strong:
		m.sb.WriteString("<strong>")
		if err := m.inlines(v.Children); err != nil {
			return err
		}
		m.sb.WriteString("</strong>")
	case *ast.Emphasis:
		m.sb.WriteString("<em>")
		if err := m.inlines(v.Children); err != nil {
			return err
		}
		m.sb.WriteString("</em>")
	case *ast.Link:
		m.sb.WriteString("<a")
		m.attr("href", v.URL)
		if v.Title != nil {
			m.attr("title", *v.Title)
		}
		m.sb.WriteString(">")
		m.text(v.Alt)
		m.sb.WriteString("</a>")
	case *ast.Image:
		m.sb.WriteString("<img")
		m.attr("src", v.URL)
		m.attr("alt", v.Alt)
		if v.Title != nil {
			m.attr("title", *v.Title)
		}
		m.closeVoid()
	case *ast.SoftBreak:
		m.sb.WriteByte('\n')
	case *ast.HardBreak:
		m.void("br")
		m.sb.WriteByte('\n')
	default:
		return unsupported(m.d.String(), n, "")
	}
	return nil
}

func (m *markup) attr(name, value string) {
	if m.d == dialectJSX && name == "class" {
		name = "className"
	}
	m.sb.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}

func (m *markup) void(tag string) {
	m.sb.WriteString("<" + tag)
	m.closeVoid()
}

func (m *markup) closeVoid() {
	if m.d == dialectHTML {
		m.sb.WriteString(">")
		return
	}
	m.sb.WriteString(" />")
}

var (
	jsxTextEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;")
	vueTextEscaper = strings.NewReplacer("{{", "&#123;&#123;")
)

func (m *markup) text(s string) {
	s = html.EscapeString(s)
	switch m.d {
	case dialectJSX:
		s = jsxTextEscaper.Replace(s)
	case dialectVue:
		s = vueTextEscaper.Replace(s)
	}
	m.sb.WriteString(s)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
