package commands

import (
	"context"
	"os"

	"git.home.luguber.info/inful/scc/internal/compiler"
	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

// ASTCmd implements the 'ast' command.
type ASTCmd struct {
	File   string `arg:"" type:"existingfile" help:"Source document"`
	Output string `short:"o" help:"Output file (default stdout)"`
}

func (a *ASTCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	c, closeFn, err := newCompiler(g, cfg, config.TargetHTML, false)
	if err != nil {
		return err
	}
	defer closeFn()

	src, err := os.ReadFile(a.File)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read source").WithContext("path", a.File).Build()
	}
	_, tree, err := c.Parse(context.Background(), src, a.File)
	if err != nil {
		return err
	}
	return writeOutput(g, a.Output, compiler.DumpTree(tree)+"\n")
}
