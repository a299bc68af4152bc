package compiler

import (
	"fmt"

	"github.com/k0kubun/pp"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// dump writes a labelled tree dump to the debug writer, if any.
func (c *Compiler) dump(label string, tree *ast.Document) {
	if c.debug == nil {
		return
	}
	fmt.Fprintf(c.debug, "== %s ==\n%s\n", label, DumpTree(tree))
}

func init() {
	pp.ColoringEnabled = false
}

// DumpTree renders tree as a pp dump.
func DumpTree(tree *ast.Document) string {
	return pp.Sprint(tree)
}
