package commands

import (
	"context"

	"git.home.luguber.info/inful/scc/internal/config"
)

// CompileFlags are shared by the run commands.
type CompileFlags struct {
	File   string `arg:"" type:"existingfile" help:"Source document"`
	Output string `short:"o" help:"Output file (default stdout)"`
	Debug  bool   `help:"Dump the document tree to stderr after parsing and after each transform"`
}

// RunCmd implements the 'run' command.
type RunCmd struct {
	CompileFlags `embed:""`
	Target       string `short:"t" help:"Output dialect, one of: ${targets} (default from config)"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	target := cfg.Render.Target
	if r.Target != "" {
		if target, err = config.NormalizeTarget(r.Target); err != nil {
			return err
		}
	}
	return runCompile(g, cfg, target, r.CompileFlags)
}

// RunJSXCmd implements the 'run-jsx' command.
type RunJSXCmd struct {
	CompileFlags `embed:""`
}

func (r *RunJSXCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	return runCompile(g, cfg, config.TargetJSX, r.CompileFlags)
}

// RunVueCmd implements the 'run-vue' command.
type RunVueCmd struct {
	CompileFlags `embed:""`
}

func (r *RunVueCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	return runCompile(g, cfg, config.TargetVue, r.CompileFlags)
}

func runCompile(g *Global, cfg *config.Config, target config.Target, f CompileFlags) error {
	c, closeFn, err := newCompiler(g, cfg, target, f.Debug)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := c.CompileFile(context.Background(), f.File)
	if err != nil {
		return err
	}
	return writeOutput(g, f.Output, res.Output)
}
