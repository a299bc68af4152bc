// Package transform applies ordered, pure tree-to-tree functions to a parsed
// document before it is rendered.
//
// A transform never mutates the tree it is given: it returns either that tree
// unchanged or a new one. Transforms run in the order the caller lists them.
package transform

import (
	"fmt"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// Func is a pure tree-to-tree function.
type Func func(doc *ast.Document) (*ast.Document, error)

// Transformer is a named transform stage.
type Transformer interface {
	Name() string
	// Priority orders registry listings; lower runs first.
	Priority() int
	Transform(doc *ast.Document) (*ast.Document, error)
}

type funcTransformer struct {
	name     string
	priority int
	fn       Func
}

func (f funcTransformer) Name() string  { return f.name }
func (f funcTransformer) Priority() int { return f.priority }

func (f funcTransformer) Transform(doc *ast.Document) (*ast.Document, error) {
	return f.fn(doc)
}

// Named wraps fn as a Transformer.
func Named(name string, priority int, fn Func) Transformer {
	return funcTransformer{name: name, priority: priority, fn: fn}
}

// StepError reports which pipeline stage failed.
type StepError struct {
	Step  string
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("transform %q (step %d): %v", e.Step, e.Index, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Pipeline is an ordered list of transforms.
type Pipeline struct {
	steps []Transformer
}

// NewPipeline returns a pipeline that runs steps in the given order.
func NewPipeline(steps ...Transformer) *Pipeline {
	p := &Pipeline{}
	for _, s := range steps {
		p.Use(s)
	}
	return p
}

// Use appends a stage. Nil stages are ignored.
func (p *Pipeline) Use(t Transformer) *Pipeline {
	if t != nil {
		p.steps = append(p.steps, t)
	}
	return p
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.steps) }

// Names lists the stages in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Apply runs every stage in order and returns the final tree. The input tree
// is left untouched. A stage returning a nil tree is an error.
func (p *Pipeline) Apply(doc *ast.Document) (*ast.Document, error) {
	return p.ApplyFunc(doc, nil)
}

// ApplyFunc is Apply with a callback invoked after each successful stage.
func (p *Pipeline) ApplyFunc(doc *ast.Document, after func(step string, doc *ast.Document)) (*ast.Document, error) {
	cur := doc
	for i, s := range p.steps {
		next, err := s.Transform(cur)
		if err != nil {
			return nil, &StepError{Step: s.Name(), Index: i, Err: err}
		}
		if next == nil {
			return nil, &StepError{Step: s.Name(), Index: i, Err: fmt.Errorf("returned a nil document")}
		}
		cur = next
		if after != nil {
			after(s.Name(), cur)
		}
	}
	return cur, nil
}
