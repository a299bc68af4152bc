package markdown

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/scc/internal/ast"
	"git.home.luguber.info/inful/scc/internal/docmodel"
)

// FindingKind names what a finding compares.
type FindingKind string

const (
	FindingHeading FindingKind = "heading"
	FindingLink    FindingKind = "link"
)

// Finding is one place where scc and CommonMark read a document differently.
// Line is 1-based within the original file, 0 when it cannot be located.
type Finding struct {
	Kind    FindingKind
	Line    int
	Message string
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", f.Line, f.Kind, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// OutlineOf collects headings and links from an scc tree, in the same shape
// ExtractOutline returns for goldmark. Heading lines are not tracked.
func OutlineOf(tree *ast.Document) Outline {
	var out Outline
	_ = ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			out.Headings = append(out.Headings, Heading{Level: v.Level, Text: v.Text})
		case *ast.Link:
			out.Links = append(out.Links, Link{Kind: LinkKindInline, Destination: v.URL})
		case *ast.Image:
			out.Links = append(out.Links, Link{Kind: LinkKindImage, Destination: v.URL})
		}
		return ast.WalkContinue, nil
	})
	return out
}

// Check compares the headings and links of tree, parsed by scc from doc,
// with what a CommonMark parser reads from the same body.
func Check(doc *docmodel.ParsedDoc, tree *ast.Document, opts Options) []Finding {
	ref := ExtractOutline(doc.Body(), opts)
	ours := OutlineOf(tree)

	var findings []Finding
	findings = append(findings, compareHeadings(doc, ours.Headings, ref.Headings)...)
	findings = append(findings, compareLinks(doc, ours.Links, ref.Links)...)
	return findings
}

func compareHeadings(doc *docmodel.ParsedDoc, ours, ref []Heading) []Finding {
	var findings []Finding
	offset := doc.LineOffset()
	cursor := 1
	fileLine := func(h Heading) int {
		if h.Line > 0 {
			cursor = h.Line
			return offset + h.Line
		}
		line := doc.FindNextLineContaining(h.Text, cursor)
		if line == 0 {
			return 0
		}
		cursor = line
		return offset + line
	}

	n := min(len(ours), len(ref))
	for i := range n {
		o, r := ours[i], ref[i]
		switch {
		case o.Level != r.Level:
			findings = append(findings, Finding{
				Kind:    FindingHeading,
				Line:    fileLine(r),
				Message: fmt.Sprintf("%q is level %d, CommonMark reads level %d", r.Text, o.Level, r.Level),
			})
		case squash(o.Text) != squash(r.Text):
			findings = append(findings, Finding{
				Kind:    FindingHeading,
				Line:    fileLine(r),
				Message: fmt.Sprintf("text %q differs from CommonMark %q", o.Text, r.Text),
			})
		default:
			fileLine(r)
		}
	}
	for _, o := range ours[n:] {
		findings = append(findings, Finding{
			Kind:    FindingHeading,
			Line:    fileLine(o),
			Message: fmt.Sprintf("%q is not a heading in CommonMark", o.Text),
		})
	}
	for _, r := range ref[n:] {
		findings = append(findings, Finding{
			Kind:    FindingHeading,
			Line:    fileLine(r),
			Message: fmt.Sprintf("CommonMark heading %q is not a heading in scc", r.Text),
		})
	}
	return findings
}

func compareLinks(doc *docmodel.ParsedDoc, ours, ref []Link) []Finding {
	var refs []Link
	for _, l := range ref {
		if l.Kind != LinkKindReferenceDefinition {
			refs = append(refs, l)
		}
	}

	var findings []Finding
	offset := doc.LineOffset()
	cursor := 1
	locate := func(dest string) int {
		line := doc.FindNextLineContaining(dest, cursor)
		if line == 0 {
			return 0
		}
		cursor = line
		return offset + line
	}

	n := min(len(ours), len(refs))
	for i := range n {
		o, r := ours[i], refs[i]
		if o.Kind != r.Kind || o.Destination != r.Destination {
			findings = append(findings, Finding{
				Kind:    FindingLink,
				Line:    locate(o.Destination),
				Message: fmt.Sprintf("%s %q, CommonMark reads %s %q", o.Kind, o.Destination, r.Kind, r.Destination),
			})
			continue
		}
		locate(o.Destination)
	}
	for _, o := range ours[n:] {
		findings = append(findings, Finding{
			Kind:    FindingLink,
			Line:    locate(o.Destination),
			Message: fmt.Sprintf("%s %q is not a link in CommonMark", o.Kind, o.Destination),
		})
	}
	for _, r := range refs[n:] {
		findings = append(findings, Finding{
			Kind:    FindingLink,
			Line:    locate(r.Destination),
			Message: fmt.Sprintf("CommonMark %s %q is not a link in scc", r.Kind, r.Destination),
		})
	}
	return findings
}

var markupStripper = strings.NewReplacer("*", "", "_", "", "`", "")

// squash drops inline markup and collapses whitespace.
func squash(s string) string {
	return strings.Join(strings.Fields(markupStripper.Replace(s)), " ")
}
