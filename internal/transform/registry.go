package transform

import (
	"fmt"
	"sort"
	"strings"
)

// Options carries per-transform settings, usually decoded from configuration.
type Options map[string]any

// Factory builds a transformer from its options.
type Factory func(opts Options) (Transformer, error)

type registration struct {
	priority int
	factory  Factory
}

var reg = map[string]registration{}

// Register adds a named factory (idempotent by name). Intended to be called
// from init() of transform files.
func Register(name string, priority int, f Factory) {
	if f == nil {
		return
	}
	if _, ok := reg[name]; !ok {
		reg[name] = registration{priority: priority, factory: f}
	}
}

// Names returns registered transform names sorted by priority, then name.
func Names() []string {
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, pj := reg[names[i]].priority, reg[names[j]].priority
		if pi == pj {
			return names[i] < names[j]
		}
		return pi < pj
	})
	return names
}

// New builds the named transform.
func New(name string, opts Options) (Transformer, error) {
	r, ok := reg[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	t, err := r.factory(opts)
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", name, err)
	}
	return t, nil
}

// Step names one pipeline step and its options.
type Step struct {
	Name    string
	Options Options
}

// BuildError reports the step Build could not construct.
type BuildError struct {
	Index int
	Name  string
	Err   error
}

func (e *BuildError) Error() string { return e.Err.Error() }

func (e *BuildError) Unwrap() error { return e.Err }

// Build constructs a pipeline running steps in the order given. The same
// transform may appear more than once with different options.
func Build(steps []Step) (*Pipeline, error) {
	p := NewPipeline()
	for i, s := range steps {
		t, err := New(s.Name, s.Options)
		if err != nil {
			return nil, &BuildError{Index: i, Name: s.Name, Err: err}
		}
		p.Use(t)
	}
	return p, nil
}

// intOption reads an integer option, accepting the numeric types YAML decoding yields.
func intOption(opts Options, key string, def int) (int, error) {
	v, ok := opts[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("option %q: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("option %q: expected integer, got %T", key, v)
	}
}

func stringOption(opts Options, key, def string) (string, error) {
	v, ok := opts[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q: expected string, got %T", key, v)
	}
	return s, nil
}
