package render

import "git.home.luguber.info/inful/scc/internal/ast"

// Vue renders a tree as a single-file component template. Code blocks carry
// v-pre so their content is never compiled.
type Vue struct {
	opts Options
}

// NewVue returns a Vue renderer.
func NewVue(opts Options) *Vue {
	return &Vue{opts: opts}
}

func (*Vue) Name() string { return NameVue }

func (r *Vue) Render(doc *ast.Document) (string, error) {
	body, err := newMarkup(dialectVue, r.opts).document(doc)
	if err != nil {
		return "", err
	}
	return "<template>\n" + body + "</template>\n", nil
}
