package render

import (
	"strings"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// JSX renders a tree as a module exporting a React function component.
type JSX struct {
	opts Options
}

// NewJSX returns a JSX renderer.
func NewJSX(opts Options) *JSX {
	return &JSX{opts: opts}
}

func (*JSX) Name() string { return NameJSX }

func (r *JSX) Render(doc *ast.Document) (string, error) {
	body, err := newMarkup(dialectJSX, r.opts).document(doc)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("export default function " + r.opts.componentName() + "() {\n")
	sb.WriteString("  return (\n    <>\n")
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		if line == "" {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString("      " + line + "\n")
	}
	sb.WriteString("    </>\n  );\n}\n")
	return sb.String(), nil
}
