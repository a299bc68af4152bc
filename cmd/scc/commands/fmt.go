package commands

import (
	"bytes"
	"context"
	"os"

	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/logfields"
)

// FmtCmd implements the 'fmt' command.
type FmtCmd struct {
	File   string `arg:"" type:"existingfile" help:"Source document"`
	Output string `short:"o" help:"Output file (default stdout)" xor:"dest"`
	Write  bool   `short:"w" help:"Rewrite the source file in place" xor:"dest"`
	Check  bool   `help:"Fail when the file is not already formatted" xor:"dest"`
}

func (f *FmtCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	// Formatting must reproduce the source dialect, so configured
	// transforms do not apply.
	plain := *cfg
	plain.Transforms = nil

	c, closeFn, err := newCompiler(g, &plain, config.TargetMarkdown, false)
	if err != nil {
		return err
	}
	defer closeFn()

	src, err := os.ReadFile(f.File)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read source").WithContext("path", f.File).Build()
	}
	res, err := c.Compile(context.Background(), src, f.File)
	if err != nil {
		return err
	}

	switch {
	case f.Check:
		if !bytes.Equal(src, []byte(res.Output)) {
			return errors.ValidationError("file is not formatted").WithContext("path", f.File).Build()
		}
		g.Logger.Debug("file is formatted", logfields.Path(f.File))
		return nil
	case f.Write:
		if bytes.Equal(src, []byte(res.Output)) {
			return nil
		}
		return writeOutput(g, f.File, res.Output)
	default:
		return writeOutput(g, f.Output, res.Output)
	}
}
