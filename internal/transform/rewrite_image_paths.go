package transform

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/scc/internal/ast"
)

// RewriteImagePaths returns a transform that rebases relative image URLs
// onto prefix. Absolute paths, URLs with a scheme, protocol-relative URLs and
// fragments are left alone.
//
// With prefix ".." a page emitted one directory deeper than its source
// (a page bundle) keeps resolving ./images/a.png as ../images/a.png.
func RewriteImagePaths(prefix string) Func {
	return func(doc *ast.Document) (*ast.Document, error) {
		if prefix == "" {
			return doc, nil
		}
		out := ast.Clone(doc)
		err := ast.Walk(out, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if img, ok := n.(*ast.Image); ok && entering && isRelative(img.URL) {
				img.URL = rebase(prefix, img.URL)
			}
			return ast.WalkContinue, nil
		})
		return out, err
	}
}

func isRelative(u string) bool {
	switch {
	case u == "", strings.HasPrefix(u, "/"), strings.HasPrefix(u, "#"):
		return false
	case strings.Contains(u, "://"), strings.HasPrefix(u, "data:"), strings.HasPrefix(u, "mailto:"):
		return false
	}
	return true
}

// rebase joins prefix and a relative URL, keeping any query or fragment.
func rebase(prefix, u string) string {
	suffix := ""
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u, suffix = u[:i], u[i:]
	}
	return path.Join(prefix, u) + suffix
}

func init() {
	Register("rewrite_image_paths", 70, func(opts Options) (Transformer, error) {
		prefix, err := stringOption(opts, "prefix", "..")
		if err != nil {
			return nil, err
		}
		return Named("rewrite_image_paths", 70, RewriteImagePaths(prefix)), nil
	})
}
