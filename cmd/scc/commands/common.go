// Package commands holds the kong command tree of the scc binary.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/scc/internal/cache"
	"git.home.luguber.info/inful/scc/internal/compiler"
	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/logfields"
	"git.home.luguber.info/inful/scc/internal/metrics"
	"git.home.luguber.info/inful/scc/internal/version"
)

// Global carries process state shared by all commands.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Set by CLI.load.
	Config   *config.Config
	Registry *prom.Registry
	Recorder metrics.Recorder
}

// NewGlobal returns a Global writing to the process streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr, Logger: slog.Default(), Recorder: metrics.NoopRecorder{}}
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (default ${default_config}, optional)"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	ShowVersion kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run     RunCmd     `cmd:"" help:"Compile a document to the configured target (HTML by default)"`
	RunJSX  RunJSXCmd  `cmd:"" name:"run-jsx" help:"Compile a document to a React component"`
	RunVue  RunVueCmd  `cmd:"" name:"run-vue" help:"Compile a document to a Vue template"`
	Fmt     FmtCmd     `cmd:"" help:"Reformat a document in canonical source form"`
	AST     ASTCmd     `cmd:"" name:"ast" help:"Print the parsed document tree"`
	Check   CheckCmd   `cmd:"" help:"Compare how scc and CommonMark read documents"`
	Watch   WatchCmd   `cmd:"" help:"Recompile a document on change and serve the result"`
	Cache   CacheCmd   `cmd:"" help:"Inspect or prune the render cache"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// New builds the kong parser for cli. g is bound for command Run methods
// and hooks.
func New(cli *CLI, g *Global, options ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("scc"),
		kong.Description("Structured content compiler: Markdown with components to HTML, JSX and Vue."),
		kong.UsageOnError(),
		kong.Vars{
			"version":        version.String(),
			"default_config": config.DefaultPath,
			"targets":        strings.Join(config.TargetNames(), ", "),
		},
		kong.Bind(g, cli),
	}
	return kong.New(cli, append(base, options...)...)
}

// AfterApply runs after flag parsing and installs a logger before any
// configuration is read.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// load reads the configuration and reinstalls logging and metrics from it.
// Without -c the default file is optional.
func (c *CLI) load(g *Global) (*config.Config, error) {
	if g.Config != nil {
		return g.Config, nil
	}
	path, optional := c.Config, false
	if path == "" {
		path, optional = config.DefaultPath, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(g.Stderr, hopts)
	if config.NormalizeLogFormat(string(cfg.Logging.Format)) == config.LogFormatJSON {
		h = slog.NewJSONHandler(g.Stderr, hopts)
	}
	g.Logger = slog.New(h)
	slog.SetDefault(g.Logger)

	if cfg.Metrics.Enabled {
		g.Registry = prom.NewRegistry()
		g.Recorder = metrics.NewPrometheusRecorder(g.Registry)
	}
	g.Config = cfg
	return cfg, nil
}

// newCompiler builds a compiler for target from the loaded configuration.
// The returned close func releases the render cache.
func newCompiler(g *Global, cfg *config.Config, target config.Target, debug bool) (*compiler.Compiler, func(), error) {
	opts := []compiler.Option{compiler.WithLogger(g.Logger), compiler.WithRecorder(g.Recorder)}
	if debug {
		opts = append(opts, compiler.WithDebug(g.Stderr))
	}
	closeFn := func() {}
	if cfg.Cache.Path != "" {
		store, err := cache.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, compiler.WithCache(store))
		closeFn = func() {
			if err := store.Close(); err != nil {
				g.Logger.Warn("closing render cache failed", logfields.Error(err))
			}
		}
	}
	c, err := compiler.FromConfig(cfg, target, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return c, closeFn, nil
}

// writeOutput writes content to path, or to stdout when path is empty or "-".
func writeOutput(g *Global, path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(g.Stdout, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write output").
			WithContext("path", path).
			Build()
	}
	g.Logger.Info("wrote output", logfields.Path(path), slog.String("size", humanize.Bytes(uint64(len(content)))))
	return nil
}
