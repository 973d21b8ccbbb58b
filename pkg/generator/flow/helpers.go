package flow

import (
	"regexp"
	"strings"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/utils"
)

var (
	jsIdentPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	nonIdentChars  = regexp.MustCompile(`[^A-Za-z0-9_$]`)
)

// reservedWords cannot name a local binding in strict-mode JavaScript or Flow
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "implements": true, "import": true, "in": true, "instanceof": true, "interface": true,
	"let": true, "new": true, "null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "await": true, "arguments": true, "eval": true,
	"type": true,
}

// builtinNames are bindings of the generated module that operations must not shadow
var builtinNames = map[string]bool{
	"fetch": true, "getJson": true, "basePath": true, "isCors": true, "serverHost": true,
	"checkStatus": true, "jsonToQueryString": true, "expandPath": true, "urlPath": true,
	"queryParameters": true, "clientApiDef": true,
}

// jsIdent makes name usable as a local binding
func jsIdent(name string) string {
	if name == "" {
		return "_"
	}
	if !jsIdentPattern.MatchString(name) {
		name = "_" + nonIdentChars.ReplaceAllString(name, "_")
	}
	if reservedWords[name] || builtinNames[name] {
		return name + "_"
	}
	return name
}

// propKey renders an object key, quoting it when it is not an identifier
func propKey(name string) string {
	if jsIdentPattern.MatchString(name) {
		return name
	}
	return jsString(name)
}

// jsString renders a single-quoted JavaScript string literal
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// jsLiteral renders a document literal as a JavaScript expression
func jsLiteral(l ir.Literal) string {
	if l.IsString() {
		return jsString(l.Text)
	}
	return l.Text
}

// flowType renders a type descriptor as a Flow annotation
func flowType(t ir.TypeDescriptor) string {
	switch t.Kind {
	case ir.LiteralUnion:
		parts := make([]string, len(t.Literals))
		for i, l := range t.Literals {
			if l.IsString() {
				parts[i] = `"` + strings.ReplaceAll(strings.ReplaceAll(l.Text, `\`, `\\`), `"`, `\"`) + `"`
			} else {
				parts[i] = l.Text
			}
		}
		return strings.Join(parts, "|")
	case ir.Reference:
		return t.Name
	case ir.ArrayOf:
		elem := ir.TypeDescriptor{Kind: ir.GenericObject}
		if t.Elem != nil {
			elem = *t.Elem
		}
		return "Array<" + flowType(elem) + ">"
	case ir.Numeric:
		return "number"
	case ir.Passthrough:
		return t.Name
	default:
		return "Object"
	}
}

// comment makes text safe inside a block comment and folds it onto one line
func comment(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.Join(strings.Fields(s), " ")
}

// chunk splits names into groups of n
func chunk(names []string, n int) [][]string {
	var out [][]string
	for len(names) > n {
		out = append(out, names[:n])
		names = names[n:]
	}
	if len(names) > 0 {
		out = append(out, names)
	}
	return out
}

// globalName is the name the client is exported under
func globalName(title string) string {
	name := utils.UpperFirst(utils.ToCamelCase(title))
	if name == "" {
		return "ApiClient"
	}
	return jsIdent(name)
}

// baseName is the output file base name
func baseName(configured, title string) string {
	if configured != "" {
		return configured
	}
	if k := utils.ToKebabCase(title); k != "" {
		return k + "-client"
	}
	return "api-client"
}
