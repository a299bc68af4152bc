package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/cache"
	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/metrics"
	"git.home.luguber.info/inful/scc/internal/parser"
	"git.home.luguber.info/inful/scc/internal/render"
	"git.home.luguber.info/inful/scc/internal/transform"
)

func newCompiler(t *testing.T, target string, opts ...Option) *Compiler {
	t.Helper()
	c, err := New(target, render.Options{}, opts...)
	require.NoError(t, err)
	return c
}

func TestCompile_HTML(t *testing.T) {
	c := newCompiler(t, render.NameHTML)
	res, err := c.Compile(context.Background(), []byte("# Hello\n\nSome **bold** text."), "")
	require.NoError(t, err)

	assert.Equal(t, "<h1>Hello</h1>\n<p>Some <strong>bold</strong> text.</p>\n", res.Output)
	assert.NotEmpty(t, res.RunID)
	assert.NotEmpty(t, res.Fingerprint)
	assert.False(t, res.CacheHit)
	require.NotNil(t, res.Tree)
	assert.Len(t, res.Tree.Children, 2)
}

func TestCompile_NormalizesUnicodeAndLineEndings(t *testing.T) {
	c := newCompiler(t, render.NameHTML)
	res, err := c.Compile(context.Background(), []byte("# Café\r\n\r\nline"), "")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Café</h1>\n<p>line</p>\n", res.Output)

	raw := newCompiler(t, render.NameHTML, WithNormalize(false))
	res, err = raw.Compile(context.Background(), []byte("# Café"), "")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Café</h1>\n", res.Output)
}

func TestCompile_JSXExportsFrontmatter(t *testing.T) {
	c := newCompiler(t, render.NameJSX)
	res, err := c.Compile(context.Background(), []byte("---\ntitle: Guide\n---\n# Hi\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "Guide", res.Fields["title"])
	assert.Contains(t, res.Output, "export const frontmatter = {\"title\":\"Guide\"};\n\nexport default function Content() {")
}

func TestCompile_MarkdownKeepsFrontmatter(t *testing.T) {
	c := newCompiler(t, render.NameMarkdown)
	src := "---\nz: 1\na: 2\n---\n# Title\n\nSome *text*\n"
	res, err := c.Compile(context.Background(), []byte(src), "")
	require.NoError(t, err)
	assert.Equal(t, "---\nz: 1\na: 2\n---\n# Title\n\nSome *text*\n", res.Output)
}

func TestCompile_Transforms(t *testing.T) {
	cfg := config.Default()
	cfg.Transforms = []config.TransformConfig{
		{Name: "strip_first_heading"},
		{Name: "heading_offset", Options: map[string]any{"offset": 1}},
	}
	c, err := FromConfig(cfg, config.TargetHTML,
		WithTransforms(transform.Named("upper", 0, func(doc *ast.Document) (*ast.Document, error) {
			out := ast.Clone(doc)
			out.Children = append(out.Children, &ast.ThematicBreak{})
			return out, nil
		})))
	require.NoError(t, err)
	assert.Equal(t, []string{"strip_first_heading", "heading_offset", "upper"}, c.Transforms())

	res, err := c.Compile(context.Background(), []byte("# Title\n\n## Section"), "")
	require.NoError(t, err)
	assert.Equal(t, "<h3>Section</h3>\n<hr>\n", res.Output)
}

func TestFromConfig_InvalidTransform(t *testing.T) {
	cfg := config.Default()
	cfg.Transforms = []config.TransformConfig{{Name: "nope"}}
	_, err := FromConfig(cfg, config.TargetHTML)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNew_UnknownTarget(t *testing.T) {
	_, err := New("pdf", render.Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestCompile_ParseErrorIsClassified(t *testing.T) {
	c := newCompiler(t, render.NameHTML)
	_, err := c.Compile(context.Background(), []byte("---\na: 1\n---\nok\n\n[broken"), "docs/a.md")
	require.Error(t, err)

	assert.ErrorIs(t, err, parser.ErrUnterminatedConstruct)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryParse, classified.Category())
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, "docs/a.md", path)

	var pe *parser.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 6, pe.Line)
}

func TestCompile_TransformErrorIsClassified(t *testing.T) {
	boom := fmt.Errorf("boom")
	c := newCompiler(t, render.NameHTML, WithTransforms(transform.Named("explode", 0, func(*ast.Document) (*ast.Document, error) {
		return nil, boom
	})))
	_, err := c.Compile(context.Background(), []byte("# x"), "a.md")
	require.ErrorIs(t, err, boom)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryTransform, classified.Category())
	step, _ := classified.Context().GetString("transform")
	assert.Equal(t, "explode", step)
}

func TestCompile_RenderErrorIsClassified(t *testing.T) {
	c := newCompiler(t, render.NameJSX)
	_, err := c.Compile(context.Background(), []byte("<section v-if=\"ok\">\nx\n</section>"), "a.md")
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryRender, classified.Category())
	node, _ := classified.Context().GetString("node")
	assert.Equal(t, string(ast.KindVueComponent), node)
	assert.True(t, classified.NeedsUserAction())
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, "a.md", path)

	var une *render.UnsupportedNodeError
	assert.ErrorAs(t, err, &une)
}

func TestCompile_Cache(t *testing.T) {
	store, err := cache.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	c := newCompiler(t, render.NameVue, WithCache(store), WithRecorder(rec))

	src := []byte("# Cached\n")
	first, err := c.Compile(context.Background(), src, "")
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := c.Compile(context.Background(), src, "")
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Nil(t, second.Tree)
	assert.Equal(t, first.Output, second.Output)

	other := newCompiler(t, render.NameHTML, WithCache(store))
	res, err := other.Compile(context.Background(), src, "")
	require.NoError(t, err)
	assert.False(t, res.CacheHit, "targets must not share entries")

	n, err := testutil.GatherAndCount(reg, "scc_cache_lookups_total", "scc_compiles_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello"), 0o600))

	c := newCompiler(t, render.NameHTML)
	res, err := c.CompileFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, "<p>Hello</p>\n", res.Output)

	_, err = c.CompileFile(context.Background(), path+".missing")
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestCompile_Debug(t *testing.T) {
	var buf bytes.Buffer
	c := newCompiler(t, render.NameHTML, WithDebug(&buf), WithTransforms(transform.Named("merge_text", 0, transform.MergeText)))
	_, err := c.Compile(context.Background(), []byte("# Dump"), "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "== parsed ==")
	assert.Contains(t, buf.String(), "== after merge_text ==")
	assert.Contains(t, buf.String(), "Dump")
}

func TestCompile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newCompiler(t, render.NameHTML).Compile(ctx, []byte("x"), "")
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.HasCategory(err, errors.CategoryRuntime))
}

func TestParse(t *testing.T) {
	c := newCompiler(t, render.NameHTML)
	doc, tree, err := c.Parse(context.Background(), []byte("---\nt: 1\n---\n- a\n- b\n"), "x.md")
	require.NoError(t, err)
	assert.True(t, doc.HadFrontmatter())
	require.Len(t, tree.Children, 1)
	assert.Len(t, tree.Children[0].(*ast.List).Items, 2)
}
