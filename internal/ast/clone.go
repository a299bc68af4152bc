package ast

import "slices"

// Clone returns a deep copy of doc. Transforms clone before rewriting so the
// input tree is never mutated.
func Clone(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	return &Document{Children: CloneBlocks(doc.Children)}
}

// CloneBlocks deep-copies a block slice.
func CloneBlocks(bs []Block) []Block {
	if bs == nil {
		return nil
	}
	out := make([]Block, len(bs))
	for i, b := range bs {
		out[i] = CloneBlock(b)
	}
	return out
}

// CloneInlines deep-copies an inline slice.
func CloneInlines(is []Inline) []Inline {
	if is == nil {
		return nil
	}
	out := make([]Inline, len(is))
	for i, in := range is {
		out[i] = CloneInline(in)
	}
	return out
}

// CloneBlock deep-copies a single block node.
func CloneBlock(b Block) Block {
	switch v := b.(type) {
	case *Heading:
		c := *v
		return &c
	case *CodeBlock:
		return &CodeBlock{Language: v.Language, Code: v.Code, Meta: slices.Clone(v.Meta)}
	case *Paragraph:
		return &Paragraph{Children: CloneInlines(v.Children)}
	case *List:
		var start *int
		if v.Start != nil {
			start = IntPtr(*v.Start)
		}
		return &List{Ordered: v.Ordered, Start: start, Items: CloneBlocks(v.Items)}
	case *Blockquote:
		return &Blockquote{Children: CloneBlocks(v.Children)}
	case *Table:
		rows := make([][]string, len(v.Rows))
		for i, r := range v.Rows {
			rows[i] = slices.Clone(r)
		}
		if v.Rows == nil {
			rows = nil
		}
		return &Table{Header: slices.Clone(v.Header), Rows: rows}
	case *ThematicBreak:
		return &ThematicBreak{}
	case *HTML:
		return &HTML{Raw: v.Raw}
	case *ReactComponent:
		return &ReactComponent{Name: v.Name, Props: slices.Clone(v.Props), Children: CloneBlocks(v.Children)}
	case *VueComponent:
		return &VueComponent{Name: v.Name, Props: slices.Clone(v.Props), Children: CloneBlocks(v.Children)}
	case *Link:
		return cloneLink(v)
	case *Image:
		return cloneImage(v)
	case *InlineCode:
		return &InlineCode{Code: v.Code}
	default:
		return b
	}
}

// CloneInline deep-copies a single inline node.
func CloneInline(in Inline) Inline {
	switch v := in.(type) {
	case *Text:
		return &Text{Value: v.Value}
	case *InlineCode:
		return &InlineCode{Code: v.Code}
	case *Strong:
		return &Strong{Delimiter: v.Delimiter, Children: CloneInlines(v.Children)}
	case *Emphasis:
		return &Emphasis{Delimiter: v.Delimiter, Children: CloneInlines(v.Children)}
	case *Link:
		return cloneLink(v)
	case *Image:
		return cloneImage(v)
	case *SoftBreak:
		return &SoftBreak{}
	case *HardBreak:
		return &HardBreak{}
	default:
		return in
	}
}

func cloneLink(v *Link) *Link {
	c := &Link{URL: v.URL, Alt: v.Alt}
	if v.Title != nil {
		c.Title = StringPtr(*v.Title)
	}
	return c
}

func cloneImage(v *Image) *Image {
	c := &Image{URL: v.URL, Alt: v.Alt}
	if v.Title != nil {
		c.Title = StringPtr(*v.Title)
	}
	return c
}
