package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/parser"
)

func parse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := parser.Parse(src, parser.Options{})
	require.NoError(t, err)
	return doc
}

func TestPipeline_RunsInCallerOrder(t *testing.T) {
	var order []string
	step := func(name string) Transformer {
		return Named(name, 0, func(doc *ast.Document) (*ast.Document, error) {
			order = append(order, name)
			return doc, nil
		})
	}
	p := NewPipeline(step("b"), step("a")).Use(step("c")).Use(nil)
	require.Equal(t, 3, p.Len())
	require.Equal(t, []string{"b", "a", "c"}, p.Names())

	_, err := p.Apply(&ast.Document{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, order)
}

func TestPipeline_EmptyIsPassThrough(t *testing.T) {
	doc := parse(t, "# Keep")
	out, err := NewPipeline().Apply(doc)
	require.NoError(t, err)
	require.Same(t, doc, out)
}

func TestPipeline_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	p := NewPipeline(
		Named("fail", 0, func(*ast.Document) (*ast.Document, error) { return nil, boom }),
		Named("never", 0, func(doc *ast.Document) (*ast.Document, error) { ran = true; return doc, nil }),
	)
	_, err := p.Apply(&ast.Document{})
	require.ErrorIs(t, err, boom)
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "fail", se.Step)
	assert.Equal(t, 0, se.Index)
	assert.False(t, ran)
}

func TestPipeline_RejectsNilDocument(t *testing.T) {
	p := NewPipeline(Named("nil", 0, func(*ast.Document) (*ast.Document, error) { return nil, nil }))
	_, err := p.Apply(&ast.Document{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil document")
}

func TestPipeline_ApplyFuncReportsSteps(t *testing.T) {
	p, err := Build([]Step{{Name: "identity"}, {Name: "heading_offset"}})
	require.NoError(t, err)
	var seen []string
	_, err = p.ApplyFunc(parse(t, "# a"), func(step string, _ *ast.Document) { seen = append(seen, step) })
	require.NoError(t, err)
	assert.Equal(t, []string{"identity", "heading_offset"}, seen)
}

func TestStripFirstHeading(t *testing.T) {
	doc := parse(t, "## Sub\n\n# Title\n\ntext\n\n# Second")
	out, err := StripFirstHeading(doc)
	require.NoError(t, err)
	require.Len(t, out.Children, 3)
	assert.Equal(t, "Sub", out.Children[0].(*ast.Heading).Text)
	assert.Equal(t, "Second", out.Children[2].(*ast.Heading).Text)
	// The input is untouched.
	require.Len(t, doc.Children, 4)

	noH1 := parse(t, "## only")
	out, err = StripFirstHeading(noH1)
	require.NoError(t, err)
	require.Same(t, noH1, out)
}

func TestHeadingOffset(t *testing.T) {
	doc := parse(t, "# A\n\n> ## B")
	out, err := HeadingOffset(2)(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Children[0].(*ast.Heading).Level)
	assert.Equal(t, 4, out.Children[1].(*ast.Blockquote).Children[0].(*ast.Heading).Level)
	assert.Equal(t, 1, doc.Children[0].(*ast.Heading).Level)

	out, err = HeadingOffset(-3)(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Children[0].(*ast.Heading).Level)
}

func TestRewriteImagePaths(t *testing.T) {
	doc := parse(t, "![a](./img/a.png) ![b](/abs.png) ![c](https://x.org/c.png) ![d](d.png?v=1#top)\n\n<Figure>\n![e](../e.png)\n</Figure>")
	out, err := RewriteImagePaths("..")(doc)
	require.NoError(t, err)

	var urls []string
	require.NoError(t, ast.Walk(out, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering {
			urls = append(urls, img.URL)
		}
		return ast.WalkContinue, nil
	}))
	assert.Equal(t, []string{"../img/a.png", "/abs.png", "https://x.org/c.png", "../d.png?v=1#top", "../../e.png"}, urls)
}

func TestMergeText(t *testing.T) {
	doc := &ast.Document{Children: []ast.Block{
		&ast.Paragraph{Children: []ast.Inline{
			&ast.Text{Value: "a"}, &ast.Text{}, &ast.Text{Value: "b"},
			&ast.Strong{Delimiter: '*', Children: []ast.Inline{&ast.Text{Value: "c"}, &ast.Text{Value: "d"}}},
		}},
	}}
	out, err := MergeText(doc)
	require.NoError(t, err)
	want := &ast.Document{Children: []ast.Block{
		&ast.Paragraph{Children: []ast.Inline{
			&ast.Text{Value: "ab"},
			&ast.Strong{Delimiter: '*', Children: []ast.Inline{&ast.Text{Value: "cd"}}},
		}},
	}}
	assert.True(t, ast.Equal(want, out))
	assert.Len(t, doc.Children[0].(*ast.Paragraph).Children, 4)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"identity", "strip_first_heading", "heading_offset", "rewrite_image_paths", "merge_text"}, Names())

	_, err := New("missing", nil)
	require.Error(t, err)

	_, err = New("heading_offset", Options{"offset": "two"})
	require.Error(t, err)
	_, err = New("heading_offset", Options{"offset": 9})
	require.Error(t, err)

	tr, err := New("heading_offset", Options{"offset": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, 60, tr.Priority())
}

func TestBuild(t *testing.T) {
	p, err := Build([]Step{
		{Name: "strip_first_heading"},
		{Name: "heading_offset", Options: Options{"offset": 1}},
		{Name: "heading_offset", Options: Options{"offset": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"strip_first_heading", "heading_offset", "heading_offset"}, p.Names())

	out, err := p.Apply(parse(t, "# A\n\n## B"))
	require.NoError(t, err)
	require.Len(t, out.Children, 1)
	assert.Equal(t, 4, out.Children[0].(*ast.Heading).Level)

	_, err = Build([]Step{{Name: "identity"}, {Name: "nope"}})
	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Index)
	assert.Equal(t, "nope", be.Name)
	assert.Contains(t, err.Error(), "unknown transform")
}

func TestRegisterIsIdempotent(t *testing.T) {
	snap := snapshotRegistry()
	defer restoreRegistry(snap)

	Register("identity", 99, func(Options) (Transformer, error) { return nil, errors.New("replaced") })
	tr, err := New("identity", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Priority())

	Register("custom", 10, func(Options) (Transformer, error) { return Named("custom", 10, Identity), nil })
	assert.Contains(t, Names(), "custom")
}

func snapshotRegistry() map[string]registration {
	cp := make(map[string]registration, len(reg))
	for k, v := range reg {
		cp[k] = v
	}
	return cp
}

func restoreRegistry(cp map[string]registration) { reg = cp }
