package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/text"
)

func linksOf(src []byte) []Link {
	return ExtractOutline(src, Options{}).Links
}

func TestExtractOutline_InlineLink(t *testing.T) {
	links := linksOf([]byte("See [API](api.md) for details."))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
}

func TestExtractOutline_ImageLink(t *testing.T) {
	links := linksOf([]byte("![Diagram](diagram.png)"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestExtractOutline_AutoLink(t *testing.T) {
	links := linksOf([]byte("<https://example.com/path>"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractOutline_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links := linksOf([]byte("See [API][ref].\n\n[ref]: api.md\n"))

	// The usage resolves to an inline link; the definition follows.
	require.Len(t, links, 2)
	require.Equal(t, Link{Kind: LinkKindInline, Destination: "api.md"}, links[0])
	require.Equal(t, Link{Kind: LinkKindReferenceDefinition, Destination: "api.md"}, links[1])
}

func TestExtractOutline_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links := linksOf(src)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}

func TestExtractOutline_Headings(t *testing.T) {
	out := ExtractOutline([]byte("# Top *one*\n\ntext\n\n### Deep `x`\n"), Options{})
	require.Equal(t, []Heading{
		{Level: 1, Text: "Top one", Line: 1},
		{Level: 3, Text: "Deep x", Line: 5},
	}, out.Headings)
}

func TestNewMarkdown_Tables(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")
	plain := newMarkdown(Options{}).Parser().Parse(text.NewReader(src))
	require.Equal(t, "Paragraph", plain.FirstChild().Kind().String())

	tables := newMarkdown(Options{Tables: true}).Parser().Parse(text.NewReader(src))
	require.Equal(t, "Table", tables.FirstChild().Kind().String())
}
