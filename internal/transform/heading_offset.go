package transform

import (
	"fmt"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// HeadingOffset returns a transform that shifts every heading level by
// offset. Levels never drop below 1.
func HeadingOffset(offset int) Func {
	return func(doc *ast.Document) (*ast.Document, error) {
		if offset == 0 {
			return doc, nil
		}
		out := ast.Clone(doc)
		err := ast.Walk(out, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if h, ok := n.(*ast.Heading); ok && entering {
				h.Level = max(h.Level+offset, 1)
			}
			return ast.WalkContinue, nil
		})
		return out, err
	}
}

func init() {
	Register("heading_offset", 60, func(opts Options) (Transformer, error) {
		offset, err := intOption(opts, "offset", 1)
		if err != nil {
			return nil, err
		}
		if offset < -5 || offset > 5 {
			return nil, fmt.Errorf("offset %d out of range [-5, 5]", offset)
		}
		return Named("heading_offset", 60, HeadingOffset(offset)), nil
	})
}
