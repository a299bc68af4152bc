package render

import "git.home.luguber.info/inful/scc/internal/ast"

// HTML renders a tree as an HTML fragment. Heading levels above 6 are
// clamped to h6. Components become <div data-component> wrappers.
type HTML struct {
	opts Options
}

// NewHTML returns an HTML renderer.
func NewHTML(opts Options) *HTML {
	return &HTML{opts: opts}
}

func (*HTML) Name() string { return NameHTML }

func (r *HTML) Render(doc *ast.Document) (string, error) {
	return newMarkup(dialectHTML, r.opts).document(doc)
}
