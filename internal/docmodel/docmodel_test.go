package docmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/parser"
)

func TestParse_NoFrontmatter_RoundTrip(t *testing.T) {
	content := []byte("# Hello\n\nBody\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)
	require.False(t, doc.HadFrontmatter())
	require.Empty(t, doc.Fields())
	require.Equal(t, content, doc.Body())
	require.Equal(t, content, doc.WithBody(doc.Body()))
	require.Equal(t, content, doc.Original())
}

func TestParse_Frontmatter(t *testing.T) {
	content := []byte("---\ntitle: Guide\n---\n# Hi\n")

	doc, err := Parse(content, Options{})
	require.NoError(t, err)
	require.True(t, doc.HadFrontmatter())
	assert.Equal(t, "Guide", doc.Fields()["title"])
	assert.Equal(t, []byte("# Hi\n"), doc.Body())
	assert.Equal(t, content, doc.WithBody(doc.Body()))
	assert.Equal(t, "---\ntitle: Guide\n---\n## New\n", string(doc.WithBody([]byte("## New\n"))))
}

func TestParse_InvalidFrontmatter(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [oops\n---\nbody\n"), Options{Path: "a.md"})
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryParse, classified.Category())
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, "a.md", path)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# From disk\n"), 0o600))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())

	_, err = ParseFile(filepath.Join(dir, "missing.md"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestTree(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: x\n---\n# Body\n"), Options{})
	require.NoError(t, err)
	tree, err := doc.Tree(parser.Options{})
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "Body", tree.Children[0].(*ast.Heading).Text)
}

func TestTree_ErrorPositionsReferToFile(t *testing.T) {
	src := "---\ntitle: x\n---\n# Ok\n\nbroken [link\n"
	doc, err := Parse([]byte(src), Options{Path: "docs/x.md"})
	require.NoError(t, err)

	_, err = doc.Tree(parser.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnterminatedConstruct)
	assert.True(t, errors.HasCategory(err, errors.CategoryParse))

	var pe *parser.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 6, pe.Line)
	assert.Equal(t, len("---\ntitle: x\n---\n# Ok\n\nbroken "), pe.Offset)

	classified, _ := errors.AsClassified(err)
	line, _ := classified.Context().Get("line")
	assert.Equal(t, 6, line)
}

func TestFingerprint(t *testing.T) {
	a, err := Parse([]byte("---\ntitle: x\nweight: 1\n---\nbody\n"), Options{})
	require.NoError(t, err)
	b, err := Parse([]byte("---\nweight: 1\ntitle: x\n---\nbody\n"), Options{})
	require.NoError(t, err)
	c, err := Parse([]byte("---\ntitle: x\nweight: 1\n---\nother\n"), Options{})
	require.NoError(t, err)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)

	assert.NotEmpty(t, fa)
	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)

	withFP, err := Parse([]byte("---\ntitle: x\nweight: 1\n"+mdfp.FingerprintField+": stale\n---\nbody\n"), Options{})
	require.NoError(t, err)
	fp, err := withFP.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fp)
}
