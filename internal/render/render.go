// Package render turns a parsed document tree into output text.
//
// Every renderer handles every node kind of the tree. Constructs a target
// format cannot express are reported as *UnsupportedNodeError rather than
// dropped.
package render

import (
	"fmt"
	"sort"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// Renderer maps a finished tree to output text.
type Renderer interface {
	Name() string
	Render(doc *ast.Document) (string, error)
}

// Options tunes the markup renderers. The zero value is usable.
type Options struct {
	// HeadingIDs adds slug ids to headings.
	HeadingIDs bool
	// ClassPrefix prefixes generated class names (language-*, component wrappers).
	ClassPrefix string
	// ComponentName names the exported JSX function component. Defaults to "Content".
	ComponentName string
}

func (o Options) componentName() string {
	if o.ComponentName == "" {
		return "Content"
	}
	return o.ComponentName
}

// UnsupportedNodeError reports a node the renderer cannot express.
type UnsupportedNodeError struct {
	Renderer string
	Kind     ast.Kind
	Reason   string
}

func (e *UnsupportedNodeError) Error() string {
	kind := string(e.Kind)
	if kind == "" {
		kind = "nil node"
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s renderer: unsupported %s", e.Renderer, kind)
	}
	return fmt.Sprintf("%s renderer: unsupported %s: %s", e.Renderer, kind, e.Reason)
}

func unsupported(renderer string, n ast.Node, reason string) error {
	e := &UnsupportedNodeError{Renderer: renderer, Reason: reason}
	if n != nil {
		e.Kind = n.Kind()
	}
	return e
}

// Renderer names accepted by New.
const (
	NameHTML     = "html"
	NameJSX      = "jsx"
	NameVue      = "vue"
	NameMarkdown = "markdown"
)

var constructors = map[string]func(Options) Renderer{
	NameHTML:     func(o Options) Renderer { return NewHTML(o) },
	NameJSX:      func(o Options) Renderer { return NewJSX(o) },
	NameVue:      func(o Options) Renderer { return NewVue(o) },
	NameMarkdown: func(Options) Renderer { return NewMarkdown() },
}

// New returns the renderer registered under name.
func New(name string, opts Options) (Renderer, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown renderer %q (available: %v)", name, Names())
	}
	return ctor(opts), nil
}

// Names lists the registered renderer names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
