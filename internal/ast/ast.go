// Package ast defines the document tree produced by the parser and consumed by
// renderers and transforms.
//
// The node taxonomy is closed: every concrete type lives in this package and
// implements Node through an unexported marker method. Composite nodes own
// their children exclusively; a tree never shares a node between two parents
// and never refers back to a parent.
package ast

// Kind names a node type.
type Kind string

const (
	KindDocument       Kind = "document"
	KindHeading        Kind = "heading"
	KindCodeBlock      Kind = "code_block"
	KindParagraph      Kind = "paragraph"
	KindList           Kind = "list"
	KindBlockquote     Kind = "blockquote"
	KindTable          Kind = "table"
	KindThematicBreak  Kind = "thematic_break"
	KindHTML           Kind = "html"
	KindReactComponent Kind = "react_component"
	KindVueComponent   Kind = "vue_component"

	KindText       Kind = "text"
	KindInlineCode Kind = "inline_code"
	KindStrong     Kind = "strong"
	KindEmphasis   Kind = "emphasis"
	KindLink       Kind = "link"
	KindImage      Kind = "image"
	KindSoftBreak  Kind = "soft_break"
	KindHardBreak  Kind = "hard_break"
)

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	node()
}

// Block is a top-level structural node.
type Block interface {
	Node
	block()
}

// Inline is a text-level node nested inside a block.
type Inline interface {
	Node
	inline()
}

// Document is the root of a parsed buffer.
type Document struct {
	Children []Block
}

// Heading is an ATX heading. Level is the number of '#' markers consumed and
// is not clamped.
type Heading struct {
	Level int
	Text  string
}

// CodeBlock is a fenced code block. Meta holds the info-string tokens that
// follow the language tag; it is nil when there are none.
type CodeBlock struct {
	Language string
	Code     string
	Meta     []string
}

// Paragraph is a run of inline nodes terminated by a blank line.
type Paragraph struct {
	Children []Inline
}

// List is an ordered or unordered list. Start is nil for unordered lists and
// holds the first item's number for ordered ones.
type List struct {
	Ordered bool
	Start   *int
	Items   []Block
}

// Blockquote groups consecutive quoted lines.
type Blockquote struct {
	Children []Block
}

// Table is a pipe table. Cells are kept as literal strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// HTML is raw markup passed through untouched.
type HTML struct {
	Raw string
}

// ReactComponent is an embedded JSX component tag such as <Sidebar open={true} />.
type ReactComponent struct {
	Name     string
	Props    []string
	Children []Block
}

// VueComponent is an embedded Vue component tag such as <side-bar :open="true" />.
type VueComponent struct {
	Name     string
	Props    []string
	Children []Block
}

// Text is a literal run of characters.
type Text struct {
	Value string
}

// InlineCode is a single-backtick code span.
type InlineCode struct {
	Code string
}

// Strong wraps inline content delimited by a run of two identical delimiters.
type Strong struct {
	Delimiter rune
	Children  []Inline
}

// Emphasis wraps inline content delimited by a single delimiter.
type Emphasis struct {
	Delimiter rune
	Children  []Inline
}

// Link is an inline link [alt](url "title").
type Link struct {
	URL   string
	Alt   string
	Title *string
}

// Image is an image reference ![alt](url "title").
type Image struct {
	URL   string
	Alt   string
	Title *string
}

// SoftBreak is a line break inside a paragraph.
type SoftBreak struct{}

// HardBreak is a forced line break (two trailing spaces or a trailing backslash).
type HardBreak struct{}

func (*Document) Kind() Kind       { return KindDocument }
func (*Heading) Kind() Kind        { return KindHeading }
func (*CodeBlock) Kind() Kind      { return KindCodeBlock }
func (*Paragraph) Kind() Kind      { return KindParagraph }
func (*List) Kind() Kind           { return KindList }
func (*Blockquote) Kind() Kind     { return KindBlockquote }
func (*Table) Kind() Kind          { return KindTable }
func (*ThematicBreak) Kind() Kind  { return KindThematicBreak }
func (*HTML) Kind() Kind           { return KindHTML }
func (*ReactComponent) Kind() Kind { return KindReactComponent }
func (*VueComponent) Kind() Kind   { return KindVueComponent }
func (*Text) Kind() Kind           { return KindText }
func (*InlineCode) Kind() Kind     { return KindInlineCode }
func (*Strong) Kind() Kind         { return KindStrong }
func (*Emphasis) Kind() Kind       { return KindEmphasis }
func (*Link) Kind() Kind           { return KindLink }
func (*Image) Kind() Kind          { return KindImage }
func (*SoftBreak) Kind() Kind      { return KindSoftBreak }
func (*HardBreak) Kind() Kind      { return KindHardBreak }

func (*Document) node()       {}
func (*Heading) node()        {}
func (*CodeBlock) node()      {}
func (*Paragraph) node()      {}
func (*List) node()           {}
func (*Blockquote) node()     {}
func (*Table) node()          {}
func (*ThematicBreak) node()  {}
func (*HTML) node()           {}
func (*ReactComponent) node() {}
func (*VueComponent) node()   {}
func (*Text) node()           {}
func (*InlineCode) node()     {}
func (*Strong) node()         {}
func (*Emphasis) node()       {}
func (*Link) node()           {}
func (*Image) node()          {}
func (*SoftBreak) node()      {}
func (*HardBreak) node()      {}

func (*Heading) block()        {}
func (*CodeBlock) block()      {}
func (*Paragraph) block()      {}
func (*List) block()           {}
func (*Blockquote) block()     {}
func (*Table) block()          {}
func (*ThematicBreak) block()  {}
func (*HTML) block()           {}
func (*ReactComponent) block() {}
func (*VueComponent) block()   {}

// Links, images and code spans may also stand alone at block level.
func (*Link) block()       {}
func (*Image) block()      {}
func (*InlineCode) block() {}

func (*Text) inline()       {}
func (*InlineCode) inline() {}
func (*Strong) inline()     {}
func (*Emphasis) inline()   {}
func (*Link) inline()       {}
func (*Image) inline()      {}
func (*SoftBreak) inline()  {}
func (*HardBreak) inline()  {}

// StringPtr returns a pointer to s. It is a convenience for optional titles.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n. It is a convenience for list start numbers.
func IntPtr(n int) *int { return &n }
