package flow

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

// dateLayout matches JavaScript's Date.prototype.toDateString
const dateLayout = "Mon Jan 02 2006"

// FlowGenerator implements the Generator interface for Flow-annotated JavaScript
type FlowGenerator struct{}

// NewFlowGenerator creates a new Flow generator
func NewFlowGenerator() *FlowGenerator {
	return &FlowGenerator{}
}

// GetType returns the generator type identifier
func (g *FlowGenerator) GetType() string {
	return "flow"
}

// Generate renders the type module and the client module
func (g *FlowGenerator) Generate(client config.Client, spec *ir.APISpec) ([]ir.Artifact, error) {
	data := buildView(client, spec)

	funcMap := template.FuncMap{
		"flowType": flowType,
		"jsString": jsString,
		"jsIdent":  jsIdent,
		"propKey":  propKey,
		"comment":  comment,
		"entries":  renderEntries,
		"exports":  exportEntries,
	}
	for k, v := range sprig.TxtFuncMap() {
		if _, exists := funcMap[k]; !exists {
			funcMap[k] = v
		}
	}

	typesSrc, err := render("types.js.gotmpl", funcMap, data)
	if err != nil {
		return nil, err
	}
	clientSrc, err := render("client.js.gotmpl", funcMap, data)
	if err != nil {
		return nil, err
	}
	return []ir.Artifact{
		{Path: data.TypesFile, Content: typesSrc},
		{Path: data.ClientFile, Content: clientSrc},
	}, nil
}

// render executes one embedded template
func render(templateName string, funcMap template.FuncMap, data any) ([]byte, error) {
	tmplContent, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

type view struct {
	Title       string
	Description string
	Source      string
	Updated     string
	ClientFile  string
	TypesFile   string
	TypesImport string
	GlobalName  string
	ServerBase  string
	BasePath    string
	ContentType string
	Types       []ir.DeclaredType
	ImportNames string
	Methods     []methodView
}

type entry struct {
	Key   string
	Value string
}

type methodView struct {
	Name        string
	Local       string
	Description string
	Summary     string
	Params      []string
	ReturnType  string
	Path        string
	PathValues  []entry
	Query       []entry
	Headers     []entry
	Verb        string
	Body        string
}

func buildView(client config.Client, spec *ir.APISpec) view {
	base := baseName(client.Name, spec.Title)
	v := view{
		Title:       comment(spec.Title),
		Description: comment(spec.Description),
		Source:      comment(spec.Source),
		Updated:     spec.GeneratedAt.Format(dateLayout),
		ClientFile:  base + ".js",
		TypesFile:   base + "-flowtypes.js",
		TypesImport: "./" + base + "-flowtypes.js",
		GlobalName:  globalName(spec.Title),
		ServerBase:  spec.DefaultServerBase(),
		BasePath:    spec.BasePath,
		ContentType: spec.ContentType,
		Types:       spec.Types,
	}
	if client.ServerBase != "" {
		v.ServerBase = client.ServerBase
	}

	names := make([]string, 0, len(spec.Types))
	for _, t := range spec.Types {
		names = append(names, t.Name)
	}
	var lines []string
	for _, group := range chunk(names, 5) {
		lines = append(lines, strings.Join(group, ", "))
	}
	v.ImportNames = strings.Join(lines, ",\n\t\t")

	for _, op := range spec.Operations {
		v.Methods = append(v.Methods, buildMethod(op))
	}
	return v
}

func buildMethod(op ir.OperationDescriptor) methodView {
	m := methodView{
		Name:        op.MethodName,
		Local:       jsIdent(op.MethodName),
		Description: comment(op.Description),
		ReturnType:  flowType(op.ResponseType),
		Path:        op.Path,
		Verb:        strings.ToUpper(op.Method),
	}
	if op.Summary != nil {
		m.Summary = comment(*op.Summary)
	}

	for _, sp := range op.Signature() {
		ident := jsIdent(sp.Identifier)
		switch sp.Kind {
		case ir.SignaturePath:
			m.Params = append(m.Params, fmt.Sprintf("%s/*:%s*/", ident, flowType(sp.Param.Type)))
			m.PathValues = append(m.PathValues, entry{Key: propKey(sp.Param.Name), Value: ident})
		case ir.SignatureBody:
			m.Params = append(m.Params, fmt.Sprintf("%s/*:%s*/", ident, flowType(sp.Param.Type)))
			m.Body = ident
		case ir.SignatureSecurity:
			m.Params = append(m.Params, ident+"/*:string*/")
			e := entry{Key: propKey(op.Security.FieldName()), Value: ident}
			if op.Security.InQuery() {
				m.Query = append(m.Query, e)
			} else {
				m.Headers = append(m.Headers, e)
			}
		case ir.SignatureQuery:
			p := fmt.Sprintf("%s/*:%s*/", ident, flowType(sp.Param.Type))
			if sp.Param.Default != nil {
				p += " = " + jsLiteral(*sp.Param.Default)
			}
			m.Params = append(m.Params, p)
			m.Query = append(m.Query, entry{Key: propKey(sp.Param.Name), Value: ident})
		}
	}
	return m
}

// renderEntries renders object literal members
func renderEntries(es []entry) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Key + ": " + e.Value
	}
	return strings.Join(parts, ", ")
}

// exportEntries lists the members of the returned client object
func exportEntries(ms []methodView) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		if m.Local == m.Name {
			out[i] = m.Name
		} else {
			out[i] = propKey(m.Name) + ": " + m.Local
		}
	}
	return out
}
