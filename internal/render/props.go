package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// splitProp splits a raw prop token into name and value. Expression-only
// tokens such as {...rest} come back with an empty name.
func splitProp(p string) (name, value string, hasValue bool) {
	if strings.HasPrefix(p, "{") {
		return "", p, true
	}
	return strings.Cut(p, "=")
}

// unwrap strips the quotes or braces around a prop value.
func unwrap(v string) string {
	if len(v) >= 2 {
		switch {
		case v[0] == '"' && v[len(v)-1] == '"',
			v[0] == '\'' && v[len(v)-1] == '\'',
			v[0] == '{' && v[len(v)-1] == '}':
			return v[1 : len(v)-1]
		}
	}
	return v
}

func isQuoted(v string) bool {
	return strings.HasPrefix(v, `"`) || strings.HasPrefix(v, "'")
}

// jsxProp converts a component prop to JSX attribute syntax. Vue bindings and
// listeners map onto expressions and on* handlers; other directives have no
// JSX equivalent.
func jsxProp(p string) (string, error) {
	name, value, hasValue := splitProp(p)
	switch {
	case name == "":
		return value, nil
	case strings.HasPrefix(name, "v-"):
		return "", fmt.Errorf("directive %q has no JSX equivalent", name)
	case strings.HasPrefix(name, ":"):
		if !hasValue {
			return "", fmt.Errorf("binding %q has no value", name)
		}
		return jsxName(name[1:]) + "={" + unwrap(value) + "}", nil
	case strings.HasPrefix(name, "@"):
		event := name[1:]
		if !hasValue || event == "" || strings.Contains(event, ".") {
			return "", fmt.Errorf("listener %q has no JSX equivalent", name)
		}
		return "on" + cases.Title(language.Und, cases.NoLower).String(event) + "={" + unwrap(value) + "}", nil
	case !hasValue:
		return jsxName(name), nil
	case isQuoted(value) || strings.HasPrefix(value, "{"):
		return jsxName(name) + "=" + value, nil
	default:
		return jsxName(name) + `="` + value + `"`, nil
	}
}

func jsxName(name string) string {
	switch name {
	case "class":
		return "className"
	case "for":
		return "htmlFor"
	}
	return name
}

// vueProp converts a component prop to Vue template syntax: {expr} values
// become :bindings and on* handlers become @listeners.
func vueProp(p string) string {
	name, value, hasValue := splitProp(p)
	switch {
	case name == "":
		return `v-bind="` + vueExpr(strings.TrimPrefix(unwrap(value), "...")) + `"`
	case !hasValue:
		return vueName(name)
	case strings.HasPrefix(value, "{"):
		expr := vueExpr(unwrap(value))
		if event, ok := handlerEvent(name); ok {
			return "@" + event + `="` + expr + `"`
		}
		return ":" + vueName(name) + `="` + expr + `"`
	case isQuoted(value):
		return vueName(name) + "=" + value
	default:
		return vueName(name) + `="` + value + `"`
	}
}

func vueName(name string) string {
	switch name {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return name
}

// vueExpr makes a JavaScript expression safe inside a double-quoted attribute.
func vueExpr(expr string) string {
	return strings.ReplaceAll(strings.TrimSpace(expr), `"`, "'")
}

// handlerEvent maps onClick to click.
func handlerEvent(name string) (string, bool) {
	if len(name) < 3 || !strings.HasPrefix(name, "on") {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(name[2:])
	if !unicode.IsUpper(r) {
		return "", false
	}
	return string(unicode.ToLower(r)) + name[2+size:], true
}
