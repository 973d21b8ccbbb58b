package generator

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/openapi"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/utils"
)

const defaultContentType = "application/json"

// BuildSpec compiles a decoded document into the description handed to emitters.
// The registry is built once and shared by every operation.
func BuildSpec(doc *openapi.Document, generatedAt time.Time) *ir.APISpec {
	registry := BuildRegistry(doc)
	resolver := NewResolver(registry)
	spec := &ir.APISpec{
		Title:       doc.Info.Title,
		Description: doc.Info.Description,
		Version:     doc.Info.Version,
		Host:        doc.Host,
		BasePath:    doc.BasePath,
		Schemes:     doc.Schemes,
		ContentType: defaultContentType,
		Registry:    registry,
		Types:       resolver.DeclaredTypes(),
		Source:      sourceName(doc.Location),
		GeneratedAt: generatedAt,
	}
	if len(doc.Consumes) > 0 && doc.Consumes[0] != "" {
		spec.ContentType = doc.Consumes[0]
	}
	for _, sd := range doc.SecurityDefinitions {
		spec.SecurityDefinitions = append(spec.SecurityDefinitions, securityScheme(sd))
	}
	spec.Operations = extractOperations(doc, resolver)
	return spec
}

// BuildRegistry registers every object or composite definition in document order
func BuildRegistry(doc *openapi.Document) *ir.Registry {
	reg := ir.NewRegistry()
	for _, def := range doc.Definitions {
		reg.Add(def.Name, def.Schema)
	}
	return reg
}

func sourceName(location string) string {
	if location == "" {
		return ""
	}
	if openapi.IsURL(location) {
		return path.Base(strings.SplitN(location, "?", 2)[0])
	}
	return path.Base(strings.ReplaceAll(location, "\\", "/"))
}

func securityScheme(sd openapi.SecurityDefinition) ir.SecurityScheme {
	in := sd.In
	if in == "" {
		in = "header"
	}
	return ir.SecurityScheme{Key: sd.Key, Type: sd.Type, Name: sd.Name, In: in}
}

// ExtractOperations derives one descriptor per (path, verb) pair in document order.
// Operations whose path carries no controller are dropped.
func ExtractOperations(doc *openapi.Document, registry *ir.Registry) []ir.OperationDescriptor {
	return extractOperations(doc, NewResolver(registry))
}

func extractOperations(doc *openapi.Document, resolver *Resolver) []ir.OperationDescriptor {
	counts := controllerCounts(doc)

	var ops []ir.OperationDescriptor
	for _, item := range doc.Paths {
		for _, op := range item.Operations {
			if dropUntaggedOperation(item) {
				continue
			}
			ops = append(ops, describeOperation(doc, item, op, counts[item.Controller], resolver))
		}
	}
	ensureUniqueMethodNames(ops)
	return ops
}

// dropUntaggedOperation is the silent fallback for paths without a controller id
func dropUntaggedOperation(item openapi.PathItem) bool {
	return item.Controller == ""
}

// controllerCounts counts the operations owned by each controller across the document
func controllerCounts(doc *openapi.Document) map[string]int {
	counts := make(map[string]int)
	for _, item := range doc.Paths {
		if item.Controller == "" {
			continue
		}
		counts[item.Controller] += len(item.Operations)
	}
	return counts
}

// methodName is camelCase(controller), suffixed with the capitalized verb when the
// controller owns more than one operation
func methodName(controller, verb string, count int) string {
	name := utils.ToCamelCase(controller)
	if count > 1 {
		name += utils.Capitalize(verb)
	}
	return name
}

// ensureUniqueMethodNames is the fallback for names that still collide, such as two
// controllers that camel-case alike. Later duplicates get 2, 3, ... in encounter order.
func ensureUniqueMethodNames(ops []ir.OperationDescriptor) {
	seen := make(map[string]bool, len(ops))
	for i := range ops {
		name := ops[i].MethodName
		if name == "" {
			name = "operation"
		}
		if seen[name] {
			base := name
			for n := 2; seen[name]; n++ {
				name = base + strconv.Itoa(n)
			}
		}
		seen[name] = true
		ops[i].MethodName = name
	}
}

func describeOperation(doc *openapi.Document, item openapi.PathItem, op openapi.Operation, count int, resolver *Resolver) ir.OperationDescriptor {
	d := ir.OperationDescriptor{
		Path:        item.Path,
		Method:      op.Method,
		Controller:  item.Controller,
		OperationID: op.OperationID,
		MethodName:  methodName(item.Controller, op.Method, count),
		Description: op.Description,
	}
	if d.Description == "" {
		d.Description = op.Summary
	}

	for _, p := range op.Parameters {
		spec := ir.ParameterSpec{
			Name:        p.Name,
			In:          ir.ParamLocation(p.In),
			Schema:      p.Schema,
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		}
		switch spec.In {
		case ir.InPath:
			d.PathParams = append(d.PathParams, spec)
		case ir.InQuery:
			d.QueryParams = append(d.QueryParams, spec)
		case ir.InBody:
			d.BodyParams = append(d.BodyParams, spec)
		}
	}

	d.Security = operationSecurity(doc, op)
	d.Summary = responseSummary(op)
	d.Response = successSchema(op)
	d.ResponseType = resolver.ResolveType(d.Response)
	resolveParameterTypes(d.PathParams, resolver)
	resolveParameterTypes(d.BodyParams, resolver)
	resolveParameterTypes(d.QueryParams, resolver)
	assignIdentifiers(&d)
	return d
}

// operationSecurity looks up the first scheme of the first requirement entry
func operationSecurity(doc *openapi.Document, op openapi.Operation) *ir.SecurityScheme {
	if len(op.Security) == 0 || len(op.Security[0]) == 0 {
		return nil
	}
	key := op.Security[0][0]
	for _, sd := range doc.SecurityDefinitions {
		if sd.Key == key {
			s := securityScheme(sd)
			return &s
		}
	}
	return nil
}

// responseSummary takes the first declared response's description, then its schema's
func responseSummary(op openapi.Operation) *string {
	if len(op.Responses) == 0 {
		return summaryUndefined()
	}
	first := op.Responses[0]
	if first.Description != "" {
		s := first.Description
		return &s
	}
	if first.Schema != nil && first.Schema.Description != "" {
		s := first.Schema.Description
		return &s
	}
	return summaryUndefined()
}

// summaryUndefined is the fallback when no response text exists
func summaryUndefined() *string { return nil }

func resolveParameterTypes(params []ir.ParameterSpec, resolver *Resolver) {
	for i := range params {
		params[i].Type = resolver.ResolveType(params[i].Schema)
	}
}

// successSchema picks the schema of the first 2xx response, else of the first response
func successSchema(op openapi.Operation) *ir.SchemaNode {
	for _, r := range op.Responses {
		if strings.HasPrefix(r.Status, "2") && r.Schema != nil {
			return r.Schema
		}
	}
	if len(op.Responses) > 0 {
		return op.Responses[0].Schema
	}
	return nil
}

// assignIdentifiers names the method arguments. The body argument is named after the
// type it references, the credential after its field name. Names are unique per method.
func assignIdentifiers(d *ir.OperationDescriptor) {
	used := make(map[string]bool)
	claim := func(name, fallback string) string {
		if name == "" {
			name = fallback
		}
		base := name
		for n := 2; used[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		used[name] = true
		return name
	}

	for i := range d.PathParams {
		d.PathParams[i].Identifier = claim(utils.ToCamelCase(d.PathParams[i].Name), fmt.Sprintf("path%d", i+1))
	}
	for i := range d.BodyParams {
		p := &d.BodyParams[i]
		name := ""
		if p.Type.Kind == ir.Reference {
			name = utils.ToCamelCase(p.Type.Name)
		}
		if name == "" {
			name = utils.ToCamelCase(p.Name)
		}
		p.Identifier = claim(name, "body")
	}
	if d.Security != nil {
		d.SecurityIdentifier = claim(utils.ToCamelCase(d.Security.FieldName()), "credential")
	}
	for i := range d.QueryParams {
		d.QueryParams[i].Identifier = claim(utils.ToCamelCase(d.QueryParams[i].Name), fmt.Sprintf("query%d", i+1))
	}
}

// compileControllerFilters compiles regex patterns for controller filtering
func compileControllerFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeControllers pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeControllers pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeController reports whether a controller passes the include and exclude patterns
func shouldIncludeController(controller string, include, exclude []*regexp.Regexp) bool {
	if len(include) > 0 {
		matched := false
		for _, r := range include {
			if r.MatchString(controller) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, r := range exclude {
		if r.MatchString(controller) {
			return false
		}
	}
	return true
}

// FilterOperations keeps the operations whose controller passes the patterns. Method names
// are derived before filtering, so they do not change with the filter.
func FilterOperations(spec *ir.APISpec, include, exclude []string) (*ir.APISpec, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return spec, nil
	}
	inc, exc, err := compileControllerFilters(include, exclude)
	if err != nil {
		return nil, err
	}
	filtered := *spec
	filtered.Operations = nil
	for _, op := range spec.Operations {
		if shouldIncludeController(op.Controller, inc, exc) {
			filtered.Operations = append(filtered.Operations, op)
		}
	}
	return &filtered, nil
}
