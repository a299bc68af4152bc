package markdown

// Options controls how the reference parser reads a body.
type Options struct {
	// Tables enables the GFM table extension so pipe tables are not read
	// as paragraphs.
	Tables bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Heading is an ATX or setext heading seen by the reference parser. Line is
// 1-based within the body, 0 when unknown.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Outline is the part of a document the cross-check compares.
type Outline struct {
	Headings []Heading
	Links    []Link
}
