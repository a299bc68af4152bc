// Package docmodel holds a source document split into front matter and body,
// and maps body positions back to file positions.
package docmodel

import (
	stderrors "errors"
	"os"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/frontmatter"
	"git.home.luguber.info/inful/scc/internal/parser"
)

// Options controls how a document is read.
type Options struct {
	// Path is recorded in error context; it does not need to exist.
	Path string
}

// ParsedDoc represents a source document split into YAML front matter and body.
type ParsedDoc struct {
	path     string
	original []byte
	parts    frontmatter.Parts
	fields   map[string]any
}

// Parse splits content and decodes its front matter.
func Parse(content []byte, opts Options) (*ParsedDoc, error) {
	orig := append([]byte(nil), content...)
	parts := frontmatter.Split(orig)

	fields, err := parts.Fields()
	if err != nil {
		b := errors.WrapError(err, errors.CategoryParse, "invalid front matter").UserAction()
		if opts.Path != "" {
			b = b.WithContext("path", opts.Path)
		}
		return nil, b.Build()
	}

	return &ParsedDoc{
		path:     opts.Path,
		original: orig,
		parts:    parts,
		fields:   fields,
	}, nil
}

// ParseFile reads a file from disk and parses it into a ParsedDoc.
func ParseFile(path string) (*ParsedDoc, error) {
	// #nosec G304 -- path comes from the command line.
	content, err := os.ReadFile(path)
	if err != nil {
		category := errors.CategoryFileSystem
		if stderrors.Is(err, os.ErrNotExist) {
			category = errors.CategoryNotFound
		}
		b := errors.WrapError(err, category, "failed to read document").WithContext("path", path)
		if category == errors.CategoryFileSystem {
			b = b.Immediate()
		}
		return nil, b.Build()
	}
	return Parse(content, Options{Path: path})
}

// Path returns the path the document was read from, if any.
func (d *ParsedDoc) Path() string { return d.path }

// Original returns a copy of the original bytes.
func (d *ParsedDoc) Original() []byte {
	return append([]byte(nil), d.original...)
}

// HadFrontmatter reports whether the original document contained a YAML front matter block.
func (d *ParsedDoc) HadFrontmatter() bool {
	return d.parts.Had
}

// Fields returns the decoded front matter. The map is shared; callers must
// not modify it.
func (d *ParsedDoc) Fields() map[string]any {
	return d.fields
}

// Body returns the body bytes (front matter removed).
func (d *ParsedDoc) Body() []byte {
	return append([]byte(nil), d.parts.Body...)
}

// WithBody returns the document bytes with the body replaced and the front
// matter preserved byte for byte.
func (d *ParsedDoc) WithBody(body []byte) []byte {
	return d.parts.Join(body)
}

// Tree parses the body. Parse errors are classified and their line numbers
// refer to the original file.
func (d *ParsedDoc) Tree(opts parser.Options) (*ast.Document, error) {
	doc, err := parser.ParseBytes(d.parts.Body, opts)
	if err == nil {
		return doc, nil
	}

	var pe *parser.Error
	if stderrors.As(err, &pe) {
		shifted := *pe
		shifted.Offset += d.BodyOffset()
		if shifted.Line > 0 {
			shifted.Line += d.LineOffset()
		}
		err = &shifted
	}
	b := errors.ParseError("parse failed").WithCause(err)
	if d.path != "" {
		b = b.WithContext("path", d.path)
	}
	if pe != nil {
		b = b.WithContext("line", pe.Line+d.LineOffset())
	}
	return nil, b.Build()
}

// Fingerprint is the content fingerprint of the front matter and body, used
// as the render cache key. Keys are serialized sorted so reordering front
// matter fields does not change it.
func (d *ParsedDoc) Fingerprint() (string, error) {
	fm := ""
	if len(d.fields) > 0 {
		fields := make(map[string]any, len(d.fields))
		for k, v := range d.fields {
			if k == mdfp.FingerprintField {
				continue
			}
			fields[k] = v
		}
		serialized, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryInternal, "failed to serialize front matter").Build()
		}
		fm = string(serialized)
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(d.parts.Body)), nil
}
