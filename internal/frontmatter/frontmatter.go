// Package frontmatter separates a leading YAML block from a source document.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Parts is a document split into its YAML block and body.
type Parts struct {
	// Raw is the YAML between the delimiters, nil when the document has none.
	Raw   []byte
	Body  []byte
	Had   bool
	Style Style
}

// Split separates `---` delimited YAML from the body. A leading `---` line
// without a closing delimiter is a thematic break, not front matter, so the
// whole input is returned as body.
func Split(content []byte) Parts {
	style := detectStyle(content)
	nl := style.Newline

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return Parts{Body: content, Style: style}
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Parts{Raw: []byte{}, Body: content[start+len(open):], Had: true, Style: style}
	}

	closeSeq := []byte(nl + delimiter + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// Allow a closing delimiter on the final line without a newline.
		if bytes.HasSuffix(content, []byte(nl+delimiter)) && len(content) > start+len(delimiter) {
			end := len(content) - len(delimiter)
			return Parts{Raw: content[start:end], Body: []byte{}, Had: true, Style: style}
		}
		return Parts{Body: content, Style: style}
	}

	end := start + idx + len(nl)
	return Parts{Raw: content[start:end], Body: content[start+idx+len(closeSeq):], Had: true, Style: style}
}

// Join reassembles a document from the YAML block and body. Without front
// matter the body is returned as-is.
func (p Parts) Join(body []byte) []byte {
	if !p.Had {
		return body
	}

	nl := p.Style.Newline
	if nl == "" {
		nl = "\n"
	}

	out := make([]byte, 0, 2*(len(delimiter)+len(nl))+len(p.Raw)+len(body))
	out = append(out, delimiter+nl...)
	out = append(out, p.Raw...)
	out = append(out, delimiter+nl...)
	out = append(out, body...)
	return out
}

// Lines is the number of source lines the front matter block occupies,
// delimiters included.
func (p Parts) Lines() int {
	if !p.Had {
		return 0
	}
	return 2 + bytes.Count(p.Raw, []byte("\n"))
}

// Fields parses the YAML block into a map. A document without front matter
// yields an empty map.
func (p Parts) Fields() (map[string]any, error) {
	return ParseYAML(p.Raw)
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
