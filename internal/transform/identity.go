package transform

import "git.home.luguber.info/inful/scc/internal/ast"

// Identity returns the tree it is given.
func Identity(doc *ast.Document) (*ast.Document, error) { return doc, nil }

func init() {
	Register("identity", 0, func(Options) (Transformer, error) {
		return Named("identity", 0, Identity), nil
	})
}
