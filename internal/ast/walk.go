package ast

// WalkStatus controls traversal in Walk.
type WalkStatus int

const (
	// WalkContinue descends into children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren skips the children of the current node.
	WalkSkipChildren
	// WalkStop ends the traversal.
	WalkStop
)

// Walker is called twice per node: once before its children (entering) and
// once after.
type Walker func(n Node, entering bool) (WalkStatus, error)

// Walk traverses the tree rooted at n in document order.
func Walk(n Node, fn Walker) error {
	_, err := walk(n, fn)
	return err
}

func walk(n Node, fn Walker) (WalkStatus, error) {
	status, err := fn(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status != WalkSkipChildren {
		for _, c := range Children(n) {
			if st, err := walk(c, fn); err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	status, err = fn(n, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}

// Children returns the direct children of n in order. Leaf nodes return nil.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		return blocksToNodes(v.Children)
	case *Paragraph:
		return inlinesToNodes(v.Children)
	case *List:
		return blocksToNodes(v.Items)
	case *Blockquote:
		return blocksToNodes(v.Children)
	case *ReactComponent:
		return blocksToNodes(v.Children)
	case *VueComponent:
		return blocksToNodes(v.Children)
	case *Strong:
		return inlinesToNodes(v.Children)
	case *Emphasis:
		return inlinesToNodes(v.Children)
	default:
		return nil
	}
}

func blocksToNodes(bs []Block) []Node {
	if len(bs) == 0 {
		return nil
	}
	out := make([]Node, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}

func inlinesToNodes(is []Inline) []Node {
	if len(is) == 0 {
		return nil
	}
	out := make([]Node, len(is))
	for i, in := range is {
		out[i] = in
	}
	return out
}
