package transform

import "git.home.luguber.info/inful/scc/internal/ast"

// MergeText joins adjacent text runs and drops empty ones. Earlier stages
// that splice inline content can leave fragmented runs behind.
func MergeText(doc *ast.Document) (*ast.Document, error) {
	out := ast.Clone(doc)
	err := ast.Walk(out, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Paragraph:
			v.Children = mergeRuns(v.Children)
		case *ast.Strong:
			v.Children = mergeRuns(v.Children)
		case *ast.Emphasis:
			v.Children = mergeRuns(v.Children)
		}
		return ast.WalkContinue, nil
	})
	return out, err
}

func mergeRuns(in []ast.Inline) []ast.Inline {
	out := in[:0]
	for _, n := range in {
		t, ok := n.(*ast.Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if t.Value == "" {
			continue
		}
		if k := len(out); k > 0 {
			if prev, ok := out[k-1].(*ast.Text); ok {
				prev.Value += t.Value
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func init() {
	Register("merge_text", 90, func(Options) (Transformer, error) {
		return Named("merge_text", 90, MergeText), nil
	})
}
