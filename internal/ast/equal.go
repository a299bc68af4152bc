package ast

import (
	"slices"
	"strings"
)

// Equal reports whether two trees are structurally equal. Nil and empty child
// slices compare equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Heading:
		y := b.(*Heading)
		return x.Level == y.Level && x.Text == y.Text
	case *CodeBlock:
		y := b.(*CodeBlock)
		return x.Language == y.Language && x.Code == y.Code && slices.Equal(x.Meta, y.Meta)
	case *List:
		y := b.(*List)
		if x.Ordered != y.Ordered || !equalIntPtr(x.Start, y.Start) {
			return false
		}
	case *Table:
		y := b.(*Table)
		return slices.Equal(x.Header, y.Header) &&
			slices.EqualFunc(x.Rows, y.Rows, func(r1, r2 []string) bool { return slices.Equal(r1, r2) })
	case *HTML:
		return x.Raw == b.(*HTML).Raw
	case *ReactComponent:
		y := b.(*ReactComponent)
		if x.Name != y.Name || !slices.Equal(x.Props, y.Props) {
			return false
		}
	case *VueComponent:
		y := b.(*VueComponent)
		if x.Name != y.Name || !slices.Equal(x.Props, y.Props) {
			return false
		}
	case *Text:
		return x.Value == b.(*Text).Value
	case *InlineCode:
		return x.Code == b.(*InlineCode).Code
	case *Strong:
		if x.Delimiter != b.(*Strong).Delimiter {
			return false
		}
	case *Emphasis:
		if x.Delimiter != b.(*Emphasis).Delimiter {
			return false
		}
	case *Link:
		y := b.(*Link)
		return x.URL == y.URL && x.Alt == y.Alt && equalStringPtr(x.Title, y.Title)
	case *Image:
		y := b.(*Image)
		return x.URL == y.URL && x.Alt == y.Alt && equalStringPtr(x.Title, y.Title)
	}
	ca, cb := Children(a), Children(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !Equal(ca[i], cb[i]) {
			return false
		}
	}
	return true
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// PlainText concatenates every literal string carried by the tree in
// document order: text runs, code, heading text, link and image alt text,
// table cells and raw markup. Breaks contribute a newline.
func PlainText(n Node) string {
	var sb strings.Builder
	_ = Walk(n, func(n Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		switch v := n.(type) {
		case *Heading:
			sb.WriteString(v.Text)
		case *CodeBlock:
			sb.WriteString(v.Code)
		case *Text:
			sb.WriteString(v.Value)
		case *InlineCode:
			sb.WriteString(v.Code)
		case *Link:
			sb.WriteString(v.Alt)
		case *Image:
			sb.WriteString(v.Alt)
		case *HTML:
			sb.WriteString(v.Raw)
		case *Table:
			sb.WriteString(strings.Join(v.Header, ""))
			for _, r := range v.Rows {
				sb.WriteString(strings.Join(r, ""))
			}
		case *SoftBreak, *HardBreak:
			sb.WriteByte('\n')
		}
		return WalkContinue, nil
	})
	return sb.String()
}
