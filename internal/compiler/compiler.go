// Package compiler drives one source document through normalization,
// parsing, transforms and rendering.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/cache"
	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/docmodel"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/logfields"
	"git.home.luguber.info/inful/scc/internal/metrics"
	"git.home.luguber.info/inful/scc/internal/parser"
	"git.home.luguber.info/inful/scc/internal/render"
	"git.home.luguber.info/inful/scc/internal/transform"
	"git.home.luguber.info/inful/scc/internal/version"
)

// Compiler turns source documents into one output dialect. It is safe for
// concurrent use with distinct inputs.
type Compiler struct {
	target     string
	renderer   render.Renderer
	renderOpts render.Options
	parserOpts parser.Options
	normalize  bool
	pipeline   *transform.Pipeline
	cache      cache.Store
	recorder   metrics.Recorder
	logger     *slog.Logger
	debug      io.Writer
	// transformOpts records configured transform options for cache keys.
	transformOpts string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTransforms appends transforms to the pipeline, after any configured ones.
func WithTransforms(ts ...transform.Transformer) Option {
	return func(c *Compiler) {
		for _, t := range ts {
			c.pipeline.Use(t)
		}
	}
}

// WithCache enables the render cache.
func WithCache(s cache.Store) Option {
	return func(c *Compiler) { c.cache = s }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Compiler) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebug dumps the tree to w after parsing and after each transform.
func WithDebug(w io.Writer) Option {
	return func(c *Compiler) { c.debug = w }
}

// WithParserOptions overrides the parser options.
func WithParserOptions(o parser.Options) Option {
	return func(c *Compiler) { c.parserOpts = o }
}

// WithNormalize toggles Unicode NFC normalization of the source.
func WithNormalize(on bool) Option {
	return func(c *Compiler) { c.normalize = on }
}

// New creates a compiler for the named render target.
func New(target string, opts render.Options, options ...Option) (*Compiler, error) {
	r, err := render.New(target, opts)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "unknown render target").
			WithContext("target", target).
			Build()
	}
	c := &Compiler{
		target:     target,
		renderer:   r,
		renderOpts: opts,
		normalize:  true,
		pipeline:   transform.NewPipeline(),
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

// FromConfig creates a compiler for target using the configured parser,
// renderer and transform settings. Extra options apply last.
func FromConfig(cfg *config.Config, target config.Target, options ...Option) (*Compiler, error) {
	pipeline, err := buildPipeline(cfg.Transforms)
	if err != nil {
		return nil, err
	}
	ropts := render.Options{
		HeadingIDs:    cfg.Render.HTML.HeadingIDs,
		ClassPrefix:   cfg.Render.HTML.ClassPrefix,
		ComponentName: cfg.Render.JSX.ComponentName,
	}
	base := []Option{
		WithParserOptions(parser.Options{MaxNesting: cfg.Parser.MaxNesting}),
		WithNormalize(cfg.Parser.NormalizeEnabled()),
		func(c *Compiler) {
			c.pipeline = pipeline
			c.transformOpts = fmt.Sprintf("%v", cfg.Transforms)
		},
	}
	return New(string(target), ropts, append(base, options...)...)
}

func buildPipeline(tcs []config.TransformConfig) (*transform.Pipeline, error) {
	steps := make([]transform.Step, len(tcs))
	for i, tc := range tcs {
		steps[i] = transform.Step{Name: tc.Name, Options: transform.Options(tc.Options)}
	}
	p, err := transform.Build(steps)
	if err != nil {
		b := errors.WrapError(err, errors.CategoryConfig, "invalid transform")
		var be *transform.BuildError
		if stderrors.As(err, &be) {
			b = b.WithContext("transform", be.Name).WithContext("index", be.Index)
		}
		return nil, b.Fatal().Build()
	}
	return p, nil
}

// Target returns the render target name.
func (c *Compiler) Target() string { return c.target }

// Transforms returns the pipeline's transform names in run order.
func (c *Compiler) Transforms() []string { return c.pipeline.Names() }

// Result is the outcome of one compile.
type Result struct {
	RunID       string
	Path        string
	Output      string
	Fields      map[string]any
	Fingerprint string
	CacheHit    bool
	// Tree is the transformed tree. It is nil when the output came from the cache.
	Tree     *ast.Document
	Duration time.Duration
}

// CompileFile reads and compiles the file at path.
func (c *Compiler) CompileFile(ctx context.Context, path string) (*Result, error) {
	doc, err := docmodel.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.compile(ctx, doc)
}

// Compile compiles src. path is only used for error context and logging.
func (c *Compiler) Compile(ctx context.Context, src []byte, path string) (*Result, error) {
	doc, err := docmodel.Parse(src, docmodel.Options{Path: path})
	if err != nil {
		return nil, err
	}
	return c.compile(ctx, doc)
}

// Parse normalizes and parses src without transforming or rendering it.
func (c *Compiler) Parse(ctx context.Context, src []byte, path string) (*docmodel.ParsedDoc, *ast.Document, error) {
	doc, err := docmodel.Parse(c.normalizeSource(src), docmodel.Options{Path: path})
	if err != nil {
		return nil, nil, err
	}
	tree, err := c.parse(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, tree, nil
}

func (c *Compiler) compile(ctx context.Context, raw *docmodel.ParsedDoc) (res *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := c.logger.With(logfields.RunID(runID), logfields.Target(c.target))
	if raw.Path() != "" {
		log = log.With(logfields.Path(raw.Path()))
	}
	defer func() {
		c.recorder.ObserveCompile(c.target, time.Since(start), metrics.Result(err))
		if err == nil {
			return
		}
		if !errors.IsClassified(err) {
			err = errors.WrapError(err, errors.CategoryRuntime, "compile aborted").Build()
		}
		if cl, ok := errors.AsClassified(err); ok && raw.Path() != "" {
			if _, has := cl.Context().Get("path"); !has {
				err = cl.WithContext("path", raw.Path())
			}
		}
		log.Debug("compile failed", logfields.Since(start), logfields.Error(err))
	}()

	doc := raw
	if c.normalize {
		doc, err = docmodel.Parse(c.normalizeSource(raw.Original()), docmodel.Options{Path: raw.Path()})
		if err != nil {
			return nil, err
		}
	}

	res = &Result{RunID: runID, Path: doc.Path(), Fields: doc.Fields()}
	res.Fingerprint, err = doc.Fingerprint()
	if err != nil {
		return nil, err
	}

	key := cache.Key{Fingerprint: res.Fingerprint, Target: c.target, Settings: c.settings()}
	if out, ok := c.lookup(ctx, log, key); ok {
		res.Output = out
		res.CacheHit = true
		res.Duration = time.Since(start)
		log.Info("compiled", logfields.CacheHit(true), logfields.Bytes(len(out)), logfields.Since(start))
		return res, nil
	}

	tree, err := c.parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	if tree, err = c.transform(ctx, tree); err != nil {
		return nil, err
	}
	res.Tree = tree

	body, err := c.render(ctx, tree)
	if err != nil {
		return nil, err
	}
	res.Output, err = c.assemble(doc, body)
	if err != nil {
		return nil, err
	}
	c.recorder.ObserveOutputBytes(c.target, len(res.Output))

	c.store(ctx, log, key, res.Output)
	res.Duration = time.Since(start)
	log.Info("compiled", logfields.CacheHit(false), logfields.Bytes(len(res.Output)), logfields.Since(start))
	return res, nil
}

// normalizeSource applies NFC and converts CRLF line endings to LF.
func (c *Compiler) normalizeSource(src []byte) []byte {
	if !c.normalize {
		return src
	}
	start := time.Now()
	out := norm.NFC.Bytes(bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n")))
	c.recorder.ObserveStageDuration(metrics.StageNormalize, time.Since(start))
	return out
}

func (c *Compiler) parse(ctx context.Context, doc *docmodel.ParsedDoc) (*ast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	tree, err := doc.Tree(c.parserOpts)
	c.recorder.ObserveStageDuration(metrics.StageParse, time.Since(start))
	c.recorder.IncStageResult(metrics.StageParse, metrics.Result(err))
	if err != nil {
		return nil, err
	}
	c.dump("parsed", tree)
	return tree, nil
}

func (c *Compiler) transform(ctx context.Context, tree *ast.Document) (*ast.Document, error) {
	if c.pipeline.Len() == 0 {
		return tree, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := c.pipeline.ApplyFunc(tree, func(step string, doc *ast.Document) {
		c.dump("after "+step, doc)
	})
	c.recorder.ObserveStageDuration(metrics.StageTransform, time.Since(start))
	c.recorder.IncStageResult(metrics.StageTransform, metrics.Result(err))
	if err != nil {
		b := errors.TransformError("transform failed").WithCause(err)
		var se *transform.StepError
		if stderrors.As(err, &se) {
			b = b.WithContext("transform", se.Step)
		}
		return nil, b.Build()
	}
	return out, nil
}

func (c *Compiler) render(ctx context.Context, tree *ast.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	out, err := c.renderer.Render(tree)
	c.recorder.ObserveStageDuration(metrics.StageRender, time.Since(start))
	c.recorder.IncStageResult(metrics.StageRender, metrics.Result(err))
	if err != nil {
		var une *render.UnsupportedNodeError
		if stderrors.As(err, &une) {
			return "", errors.RenderError("cannot render document").
				WithCause(err).
				WithContext("node", string(une.Kind)).
				Build()
		}
		return "", errors.WrapError(err, errors.CategoryInternal, "render failed").Build()
	}
	return out, nil
}

// assemble places front matter around the rendered body: verbatim for the
// Markdown target and as an exported constant for JSX.
func (c *Compiler) assemble(doc *docmodel.ParsedDoc, body string) (string, error) {
	switch c.target {
	case render.NameMarkdown:
		if !doc.HadFrontmatter() {
			return body, nil
		}
		return string(doc.WithBody([]byte(body))), nil
	case render.NameJSX:
		if len(doc.Fields()) == 0 {
			return body, nil
		}
		data, err := json.Marshal(doc.Fields())
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryRender, "front matter is not JSON representable").Build()
		}
		return "export const frontmatter = " + string(data) + ";\n\n" + body, nil
	default:
		return body, nil
	}
}

// settings is the cache key part covering everything but the source.
func (c *Compiler) settings() string {
	return fmt.Sprintf("%s|%+v|%+v|nfc=%t|%v|%s",
		version.Version, c.renderOpts, c.parserOpts, c.normalize, c.pipeline.Names(), c.transformOpts)
}

func (c *Compiler) lookup(ctx context.Context, log *slog.Logger, key cache.Key) (string, bool) {
	if c.cache == nil || c.debug != nil {
		return "", false
	}
	e, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache lookup failed", logfields.Error(err))
		return "", false
	}
	c.recorder.IncCacheLookup(ok)
	return e.Output, ok
}

func (c *Compiler) store(ctx context.Context, log *slog.Logger, key cache.Key, out string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, key, out); err != nil {
		log.Warn("cache store failed", logfields.Error(err))
	}
}
