package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/logfields"
	"git.home.luguber.info/inful/scc/internal/markdown"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Files  []string `arg:"" type:"existingfile" help:"Documents to check"`
	Strict bool     `help:"Fail when any difference is found"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	comp, closeFn, err := newCompiler(g, cfg, config.TargetHTML, false)
	if err != nil {
		return err
	}
	defer closeFn()

	var total int
	for _, path := range c.Files {
		src, err := os.ReadFile(path)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "read source").WithContext("path", path).Build()
		}
		doc, tree, err := comp.Parse(context.Background(), src, path)
		if err != nil {
			return err
		}
		findings := markdown.Check(doc, tree, markdown.Options{Tables: true})
		for _, f := range findings {
			if f.Line > 0 {
				fmt.Fprintf(g.Stdout, "%s:%d: %s: %s\n", path, f.Line, f.Kind, f.Message)
			} else {
				fmt.Fprintf(g.Stdout, "%s: %s: %s\n", path, f.Kind, f.Message)
			}
		}
		g.Logger.Debug("checked", logfields.Path(path), "findings", len(findings))
		total += len(findings)
	}

	if total > 0 && c.Strict {
		return errors.ValidationError(fmt.Sprintf("%d difference(s) from CommonMark", total)).
			WithContext("findings", total).
			Build()
	}
	return nil
}
