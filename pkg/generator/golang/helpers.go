package golang

import (
	"go/token"
	"regexp"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/utils"
)

var (
	invalidPackageChars = regexp.MustCompile(`[^a-z0-9_]`)
	invalidIdentChars   = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// reservedLocals are names the generated methods already bind
var reservedLocals = map[string]bool{
	"c": true, "ctx": true, "path": true, "query": true,
	"clientrt": true, "types": true, "context": true,
}

// commentLines splits a description into trimmed comment lines, blank lines kept
func commentLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		out = append(out, strings.TrimSpace(line))
	}
	return out
}

// sanitizePackageName ensures the package name is valid for Go
func sanitizePackageName(name string) string {
	// Extract the last part of the package name if it looks like a module path
	parts := strings.Split(name, "/")
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}

	name = strings.ToLower(name)
	name = invalidPackageChars.ReplaceAllString(name, "")

	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}

	if name == "" {
		name = "client"
	}

	return name
}

// exportedName turns a definition or method name into an exported Go identifier
func exportedName(name string) string {
	name = invalidIdentChars.ReplaceAllString(utils.RemoveAccents(name), "_")
	if name == "" {
		return "X"
	}
	if name[0] >= '0' && name[0] <= '9' || name[0] == '_' {
		name = "X" + name
	}
	return utils.UpperFirst(name)
}

// fieldName is the struct field for a property
func fieldName(name string) string {
	if p := utils.ToPascalCase(name); p != "" {
		return exportedName(p)
	}
	return exportedName(name)
}

// localName makes an argument identifier usable in generated code
func localName(name string) string {
	name = invalidIdentChars.ReplaceAllString(name, "_")
	if name == "" || name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	if token.IsKeyword(name) || reservedLocals[name] {
		return name + "_"
	}
	return name
}

// typeNamer renders a declared type name. Inside the types package it is a local
// identifier, elsewhere it is qualified with the types import path.
type typeNamer func(name string) *jen.Statement

func localType(name string) *jen.Statement { return jen.Id(exportedName(name)) }

func qualifiedType(typesPath string) typeNamer {
	return func(name string) *jen.Statement { return jen.Qual(typesPath, exportedName(name)) }
}

// goType renders the Go type of a descriptor
func goType(t ir.TypeDescriptor, named typeNamer) *jen.Statement {
	switch t.Kind {
	case ir.LiteralUnion:
		return unionType(t.Literals)
	case ir.Reference:
		return named(t.Name)
	case ir.ArrayOf:
		elem := ir.TypeDescriptor{Kind: ir.GenericObject}
		if t.Elem != nil {
			elem = *t.Elem
		}
		return jen.Index().Add(goType(elem, named))
	case ir.Numeric:
		if t.Integer {
			return jen.Int64()
		}
		return jen.Float64()
	case ir.Passthrough:
		switch t.Name {
		case "string":
			return jen.String()
		case "boolean":
			return jen.Bool()
		default:
			return jen.Id("any")
		}
	default:
		return jen.Map(jen.String()).Id("any")
	}
}

// unionType is the common scalar type of enum literals, any when they are mixed
func unionType(lits []ir.Literal) *jen.Statement {
	kind := ir.LiteralKind("")
	for _, l := range lits {
		if l.Kind == ir.LiteralNull {
			continue
		}
		if kind != "" && kind != l.Kind {
			return jen.Id("any")
		}
		kind = l.Kind
	}
	switch kind {
	case ir.LiteralString:
		return jen.String()
	case ir.LiteralNumber:
		return jen.Float64()
	case ir.LiteralBool:
		return jen.Bool()
	default:
		return jen.Id("any")
	}
}

// scalar reports whether optional values of t need a pointer to tell absent from zero
func scalar(t ir.TypeDescriptor) bool {
	switch t.Kind {
	case ir.LiteralUnion, ir.Numeric:
		return true
	case ir.Passthrough:
		return t.Name == "string" || t.Name == "boolean"
	default:
		return false
	}
}

// defaultValue renders a default literal, ok is false when it has no Go form
func defaultValue(l *ir.Literal) (jen.Code, bool) {
	if l == nil {
		return nil, false
	}
	switch l.Kind {
	case ir.LiteralString:
		return jen.Lit(l.Text), true
	case ir.LiteralNumber, ir.LiteralBool:
		return jen.Id(l.Text), true
	default:
		return nil, false
	}
}
