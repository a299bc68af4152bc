package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// attrList is the grammar shared by component props and code fence metadata:
//
//	title="Intro" showLineNumbers {1,3-5} open={true} :count="n" v-if="ok"
//
//nolint:govet // participle grammar tags are not standard struct tags
type attrList struct {
	Attrs []*attr `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type attr struct {
	Expr  string  `  @Expr`
	Name  string  `| @Ident`
	Value *string `  ( "=" @(String | Expr | Ident) )?`
}

func (a *attr) String() string {
	if a.Expr != "" {
		return a.Expr
	}
	if a.Value == nil {
		return a.Name
	}
	return a.Name + "=" + *a.Value
}

var attrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'[^']*'`},
	{Name: "Expr", Pattern: `\{[^{}]*(\{[^{}]*\}[^{}]*)*\}`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[^\s="'{}]+`},
})

var attrParser = participle.MustBuild[attrList](
	participle.Lexer(attrLexer),
	participle.Elide("Whitespace"),
)

// splitAttrs tokenizes an attribute string into its raw "name", "name=value"
// and "{expr}" parts, preserving source spelling and order. An empty input
// yields nil.
func splitAttrs(src string) ([]string, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	list, err := attrParser.ParseString("", src)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list.Attrs))
	for _, a := range list.Attrs {
		out = append(out, a.String())
	}
	return out, nil
}
