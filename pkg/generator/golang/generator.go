package golang

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/utils"
)

const (
	runtimePath = "github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/clientrt"
	dateLayout  = "Mon Jan 02 2006"

	// TypesFile and ClientFile are the artifact paths, relative to the output directory
	TypesFile  = "types/types.go"
	ClientFile = "client.go"
)

// GoGenerator implements the Generator interface for Go
type GoGenerator struct{}

// NewGoGenerator creates a new Go generator
func NewGoGenerator() *GoGenerator {
	return &GoGenerator{}
}

// GetType returns the generator type identifier
func (g *GoGenerator) GetType() string {
	return "go"
}

// Generate renders the types package and the client package
func (g *GoGenerator) Generate(client config.Client, spec *ir.APISpec) ([]ir.Artifact, error) {
	pkg := packageName(client, spec)

	typesSrc, err := render(typesFile(spec))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", TypesFile, err)
	}
	clientSrc, err := render(clientFile(client, spec, pkg, typesImportPath(client, pkg)))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", ClientFile, err)
	}
	return []ir.Artifact{
		{Path: TypesFile, Content: typesSrc},
		{Path: ClientFile, Content: clientSrc},
	}, nil
}

func render(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// packageName is the configured package, else the title folded to a package name
func packageName(client config.Client, spec *ir.APISpec) string {
	if client.PackageName != "" {
		return sanitizePackageName(client.PackageName)
	}
	return sanitizePackageName(utils.ToPascalCase(spec.Title))
}

func typesImportPath(client config.Client, pkg string) string {
	module := client.ModuleName
	if module == "" {
		module = pkg
	}
	return strings.TrimSuffix(module, "/") + "/types"
}

func apiName(spec *ir.APISpec) string {
	if spec.Title == "" {
		return "the API"
	}
	return strings.Join(strings.Fields(spec.Title), " ")
}

func header(f *jen.File, spec *ir.APISpec) {
	f.HeaderComment("Code generated by gen-swagger-client. DO NOT EDIT.")
	title := apiName(spec)
	if spec.Description != "" {
		title += ": " + strings.Join(strings.Fields(spec.Description), " ")
	}
	f.HeaderComment(title)
	if spec.Source != "" {
		f.HeaderComment("Source: " + spec.Source)
	}
	f.HeaderComment("Updated: " + spec.GeneratedAt.Format(dateLayout))
}

func typesFile(spec *ir.APISpec) *jen.File {
	f := jen.NewFile("types")
	header(f, spec)
	f.PackageComment("Package types declares the models of " + apiName(spec) + ".")

	for _, t := range spec.Types {
		name := exportedName(t.Name)
		if t.Description != "" {
			lines := commentLines(t.Description)
			lines[0] = name + " " + lines[0]
			for _, l := range lines {
				f.Comment(l)
			}
		}
		f.Type().Id(name).StructFunc(func(g *jen.Group) {
			used := make(map[string]bool)
			for _, fld := range t.Fields {
				if fld.Description != "" {
					g.Comment(strings.Join(strings.Fields(fld.Description), " "))
				}
				typ := goType(fld.Type, localType)
				// references are always pointers so recursive models stay finite
				if fld.Type.Kind == ir.Reference || fld.Optional && scalar(fld.Type) {
					typ = jen.Op("*").Add(typ)
				}
				tag := fld.Name
				if fld.Optional {
					tag += ",omitempty"
				}
				g.Id(claim(fieldName(fld.Name), used)).Add(typ).Tag(map[string]string{"json": tag})
			}
		})
		f.Line()
	}
	return f
}

// claim returns name, or name with a numeric suffix when it is already taken
func claim(name string, used map[string]bool) string {
	base := name
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	used[name] = true
	return name
}

func clientFile(client config.Client, spec *ir.APISpec, pkg, typesPath string) *jen.File {
	f := jen.NewFile(pkg)
	header(f, spec)
	f.PackageComment(fmt.Sprintf("Package %s is a client for %s.", pkg, apiName(spec)))
	named := qualifiedType(typesPath)

	serverBase := spec.DefaultServerBase()
	if client.ServerBase != "" {
		serverBase = client.ServerBase
	}

	f.Const().Defs(
		jen.Comment("DefaultServerBase is the scheme and host requests go to unless New overrides it"),
		jen.Id("DefaultServerBase").Op("=").Lit(serverBase),
		jen.Comment("BasePath prefixes every operation path"),
		jen.Id("BasePath").Op("=").Lit(spec.BasePath),
		jen.Comment("ContentType is sent with every request"),
		jen.Id("ContentType").Op("=").Lit(spec.ContentType),
	)
	f.Line()

	f.Comment("Client calls the operations of " + apiName(spec) + ". It is safe for concurrent use.")
	f.Type().Id("Client").Struct(
		jen.Id("cfg").Op("*").Qual(runtimePath, "Config"),
	)
	f.Line()

	f.Comment("New creates a client. An empty serverBase selects DefaultServerBase.")
	f.Func().Id("New").Params(
		jen.Id("transport").Qual(runtimePath, "Transport"),
		jen.Id("cors").Bool(),
		jen.Id("serverBase").String(),
	).Op("*").Id("Client").Block(
		jen.If(jen.Id("serverBase").Op("==").Lit("")).Block(
			jen.Id("serverBase").Op("=").Id("DefaultServerBase"),
		),
		jen.Return(jen.Op("&").Id("Client").Values(jen.Dict{
			jen.Id("cfg"): jen.Op("&").Qual(runtimePath, "Config").Values(jen.Dict{
				jen.Id("Transport"):   jen.Id("transport"),
				jen.Id("CORS"):        jen.Id("cors"),
				jen.Id("ServerBase"):  jen.Id("serverBase"),
				jen.Id("BasePath"):    jen.Id("BasePath"),
				jen.Id("ContentType"): jen.Id("ContentType"),
			}),
		})),
	)
	f.Line()

	for _, op := range spec.Operations {
		genMethod(f, op, named)
		f.Line()
	}
	return f
}

func genMethod(f *jen.File, op ir.OperationDescriptor, named typeNamer) {
	name := exportedName(op.MethodName)
	if op.Description != "" {
		f.Comment(name + " " + strings.Join(strings.Fields(op.Description), " "))
	} else {
		f.Comment(fmt.Sprintf("%s calls %s %s", name, strings.ToUpper(op.Method), op.Path))
	}
	if op.Summary != nil && *op.Summary != "" {
		f.Comment("")
		f.Comment("Response: " + strings.Join(strings.Fields(*op.Summary), " "))
	}

	params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	pathValues := jen.Dict{}
	var query, headers []jen.Code
	body := jen.Code(jen.Nil())

	for _, sp := range op.Signature() {
		ident := localName(sp.Identifier)
		switch sp.Kind {
		case ir.SignaturePath:
			params = append(params, jen.Id(ident).Add(goType(sp.Param.Type, named)))
			pathValues[jen.Lit(sp.Param.Name)] = jen.Id(ident)
		case ir.SignatureBody:
			params = append(params, jen.Id(ident).Add(goType(sp.Param.Type, named)))
			body = jen.Id(ident)
		case ir.SignatureSecurity:
			params = append(params, jen.Id(ident).String())
			param := runtimeParam(op.Security.FieldName(), jen.Id(ident))
			if op.Security.InQuery() {
				query = append(query, param)
			} else {
				headers = append(headers, param)
			}
		case ir.SignatureQuery:
			typ := goType(sp.Param.Type, named)
			value := jen.Id(ident)
			if scalar(sp.Param.Type) {
				typ = jen.Op("*").Add(typ)
				if def, ok := queryDefault(sp.Param); ok {
					value = jen.Qual(runtimePath, "Default").Call(jen.Id(ident), def)
				}
			}
			params = append(params, jen.Id(ident).Add(typ))
			query = append(query, runtimeParam(sp.Param.Name, value))
		}
	}

	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).Params(params...).Params(
		goType(op.ResponseType, named),
		jen.Error(),
	).BlockFunc(func(g *jen.Group) {
		if len(pathValues) > 0 {
			g.Id("path").Op(":=").Qual(runtimePath, "ExpandPath").Call(
				jen.Lit(op.Path),
				jen.Map(jen.String()).Id("any").Values(pathValues),
			)
		} else {
			g.Id("path").Op(":=").Lit(op.Path)
		}
		target := jen.Id("path")
		if len(query) > 0 {
			g.Id("query").Op(":=").Qual(runtimePath, "Query").Call(query...)
			target = jen.Id("path").Op("+").Id("query")
		}
		headerArg := jen.Code(jen.Nil())
		if len(headers) > 0 {
			headerArg = jen.Index().Qual(runtimePath, "Param").Values(headers...)
		}
		g.Return(jen.Qual(runtimePath, "Do").Types(goType(op.ResponseType, named)).Call(
			jen.Id("ctx"),
			jen.Id("c").Dot("cfg"),
			jen.Lit(strings.ToUpper(op.Method)),
			target,
			headerArg,
			body,
		))
	})
}

func runtimeParam(key string, value jen.Code) jen.Code {
	return jen.Qual(runtimePath, "Param").Values(jen.Dict{
		jen.Id("Key"):   jen.Lit(key),
		jen.Id("Value"): value,
	})
}

// queryDefault renders the default of a scalar query parameter when its literal fits the Go type
func queryDefault(p *ir.ParameterSpec) (jen.Code, bool) {
	if p.Default == nil {
		return nil, false
	}
	if p.Type.Kind == ir.Numeric && p.Type.Integer && strings.ContainsAny(p.Default.Text, ".eE") {
		return nil, false
	}
	return defaultValue(p.Default)
}
