package transform

import "git.home.luguber.info/inful/scc/internal/ast"

// StripFirstHeading removes the first top-level level-1 heading, for output
// whose page title is rendered from front matter instead.
func StripFirstHeading(doc *ast.Document) (*ast.Document, error) {
	for i, b := range doc.Children {
		h, ok := b.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		out := ast.Clone(doc)
		out.Children = append(out.Children[:i:i], out.Children[i+1:]...)
		return out, nil
	}
	return doc, nil
}

func init() {
	Register("strip_first_heading", 50, func(Options) (Transformer, error) {
		return Named("strip_first_heading", 50, StripFirstHeading), nil
	})
}
