package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
)

const (
	controllerKey     = "x-swagger-router-controller"
	expandParamsKey   = "x-expand-parameters"
	pathParametersKey = "parameters"
)

// httpVerbs are the path item keys that declare operations
var httpVerbs = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true,
}

// schemaKeys are the schema keywords SchemaNode models; the rest land in SchemaNode.Extra
var schemaKeys = map[string]bool{
	"type": true, "format": true, "title": true, "description": true, "required": true,
	"properties": true, "items": true, "allOf": true, "enum": true, "default": true, "$ref": true,
}

// parameterKeys belong to a non-body parameter object rather than to its inline schema
var parameterKeys = []string{"name", "in", "required", "allowEmptyValue"}

// decoder turns the node tree into a Document. Schemas reached through the same
// $ref share one *ir.SchemaNode; recursive definitions produce a cyclic graph.
type decoder struct {
	root    *yaml.Node
	schemas map[string]*ir.SchemaNode
}

func newDecoder(root *yaml.Node) *decoder {
	return &decoder{root: root, schemas: make(map[string]*ir.SchemaNode)}
}

func refError(ptr string, err error) error {
	return &SpecError{Code: ReferenceError, Message: err.Error(), Pointer: ptr, Cause: err}
}

func (d *decoder) document() (*Document, error) {
	doc := &Document{
		Host:     scalarString(mappingValue(d.root, "host")),
		BasePath: scalarString(mappingValue(d.root, "basePath")),
		Schemes:  stringList(mappingValue(d.root, "schemes")),
		Consumes: stringList(mappingValue(d.root, "consumes")),
	}
	if info := mappingValue(d.root, "info"); info != nil {
		doc.Info = Info{
			Title:       scalarString(mappingValue(info, "title")),
			Description: scalarString(mappingValue(info, "description")),
			Version:     scalarString(mappingValue(info, "version")),
		}
	}

	err := mappingPairs(mappingValue(d.root, "definitions"), func(name string, _ *yaml.Node) error {
		s, err := d.ref("#/definitions/" + escapePointer(name))
		if err != nil {
			return err
		}
		doc.Definitions = append(doc.Definitions, NamedSchema{Name: name, Schema: s})
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = mappingPairs(mappingValue(d.root, "securityDefinitions"), func(key string, v *yaml.Node) error {
		doc.SecurityDefinitions = append(doc.SecurityDefinitions, SecurityDefinition{
			Key:  key,
			Type: scalarString(mappingValue(v, "type")),
			Name: scalarString(mappingValue(v, "name")),
			In:   scalarString(mappingValue(v, "in")),
		})
		return nil
	})

	err = mappingPairs(mappingValue(d.root, "paths"), func(path string, v *yaml.Node) error {
		if strings.HasPrefix(path, "x-") {
			return nil
		}
		item, err := d.pathItem(path, v)
		if err != nil {
			return err
		}
		doc.Paths = append(doc.Paths, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func (d *decoder) pathItem(path string, n *yaml.Node) (PathItem, error) {
	item := PathItem{Path: path}
	ptr := "#/paths/" + escapePointer(path)

	shared, err := d.parameters(mappingValue(n, pathParametersKey), ptr+"/parameters")
	if err != nil {
		return item, err
	}
	item.Parameters = shared
	item.Controller = scalarString(mappingValue(n, controllerKey))

	err = mappingPairs(n, func(key string, v *yaml.Node) error {
		switch {
		case key == controllerKey, key == expandParamsKey, key == pathParametersKey:
			return nil
		case strings.HasPrefix(key, "x-"), key == "$ref":
			return nil
		case !httpVerbs[strings.ToLower(key)]:
			return nil
		}
		op, err := d.operation(strings.ToLower(key), v, ptr+"/"+key, shared)
		if err != nil {
			return err
		}
		item.Operations = append(item.Operations, op)
		return nil
	})
	return item, err
}

func (d *decoder) operation(method string, n *yaml.Node, ptr string, shared []Parameter) (Operation, error) {
	op := Operation{
		Method:      method,
		OperationID: scalarString(mappingValue(n, "operationId")),
		Summary:     scalarString(mappingValue(n, "summary")),
		Description: scalarString(mappingValue(n, "description")),
		Tags:        stringList(mappingValue(n, "tags")),
	}

	own, err := d.parameters(mappingValue(n, "parameters"), ptr+"/parameters")
	if err != nil {
		return op, err
	}
	op.Parameters = mergeParameters(shared, own)

	for _, req := range sequenceItems(mappingValue(n, "security")) {
		var names []string
		_ = mappingPairs(req, func(key string, _ *yaml.Node) error {
			names = append(names, key)
			return nil
		})
		op.Security = append(op.Security, names)
	}

	err = mappingPairs(mappingValue(n, "responses"), func(status string, v *yaml.Node) error {
		rptr := ptr + "/responses/" + escapePointer(status)
		if ref := scalarString(mappingValue(v, "$ref")); ref != "" {
			target, err := lookupPointer(d.root, ref)
			if err != nil {
				return refError(rptr, err)
			}
			v, rptr = target, ref
		}
		resp := Response{Status: status, Description: scalarString(mappingValue(v, "description"))}
		if s := mappingValue(v, "schema"); s != nil {
			schema, err := d.schema(s, rptr+"/schema")
			if err != nil {
				return err
			}
			resp.Schema = schema
		}
		op.Responses = append(op.Responses, resp)
		return nil
	})
	return op, err
}

// mergeParameters appends path-level parameters that the operation does not redeclare
func mergeParameters(shared, own []Parameter) []Parameter {
	if len(shared) == 0 {
		return own
	}
	out := make([]Parameter, 0, len(shared)+len(own))
	for _, s := range shared {
		overridden := false
		for _, o := range own {
			if o.Name == s.Name && o.In == s.In {
				overridden = true
				break
			}
		}
		if !overridden {
			out = append(out, s)
		}
	}
	return append(out, own...)
}

func (d *decoder) parameters(n *yaml.Node, ptr string) ([]Parameter, error) {
	var out []Parameter
	for i, p := range sequenceItems(n) {
		pptr := fmt.Sprintf("%s/%d", ptr, i)
		if ref := scalarString(mappingValue(p, "$ref")); ref != "" {
			target, err := lookupPointer(d.root, ref)
			if err != nil {
				return nil, refError(pptr, err)
			}
			p, pptr = target, ref
		}
		param, err := d.parameter(p, pptr)
		if err != nil {
			return nil, err
		}
		out = append(out, param)
	}
	return out, nil
}

func (d *decoder) parameter(n *yaml.Node, ptr string) (Parameter, error) {
	p := Parameter{
		Name:        scalarString(mappingValue(n, "name")),
		In:          scalarString(mappingValue(n, "in")),
		Required:    scalarBool(mappingValue(n, "required")),
		Description: scalarString(mappingValue(n, "description")),
	}
	if p.In == "body" {
		s := mappingValue(n, "schema")
		if s == nil {
			p.Schema = &ir.SchemaNode{}
			return p, nil
		}
		schema, err := d.schema(s, ptr+"/schema")
		if err != nil {
			return p, err
		}
		p.Schema = schema
		p.Default = schema.Default
		return p, nil
	}
	// Non-body parameters carry their type keywords inline
	schema, err := d.inlineSchema(n, ptr)
	if err != nil {
		return p, err
	}
	for _, k := range parameterKeys {
		delete(schema.Extra, k)
	}
	p.Schema = schema
	p.Default = schema.Default
	return p, nil
}

// schema decodes a schema object, following $ref
func (d *decoder) schema(n *yaml.Node, ptr string) (*ir.SchemaNode, error) {
	n = resolveAlias(n)
	if ref := scalarString(mappingValue(n, "$ref")); ref != "" {
		s, err := d.ref(ref)
		if err != nil {
			var se *SpecError
			if errors.As(err, &se) {
				return nil, err
			}
			return nil, refError(ptr, err)
		}
		return s, nil
	}
	return d.inlineSchema(n, ptr)
}

// ref resolves a local schema reference once and caches the node before decoding its
// content, so recursive definitions terminate
func (d *decoder) ref(ref string) (*ir.SchemaNode, error) {
	if s, ok := d.schemas[ref]; ok {
		if s == nil {
			return nil, refError(ref, fmt.Errorf("reference %q is part of a $ref-only cycle", ref))
		}
		return s, nil
	}
	target, err := lookupPointer(d.root, ref)
	if err != nil {
		return nil, refError(ref, err)
	}
	if inner := scalarString(mappingValue(target, "$ref")); inner != "" {
		if inner == ref {
			return nil, refError(ref, fmt.Errorf("reference %q points to itself", ref))
		}
		d.schemas[ref] = nil
		s, err := d.ref(inner)
		if err != nil {
			return nil, err
		}
		d.schemas[ref] = s
		return s, nil
	}
	s := &ir.SchemaNode{Ref: ref}
	d.schemas[ref] = s
	if err := d.fill(s, target, ref); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *decoder) inlineSchema(n *yaml.Node, ptr string) (*ir.SchemaNode, error) {
	s := &ir.SchemaNode{}
	if err := d.fill(s, n, ptr); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *decoder) fill(s *ir.SchemaNode, n *yaml.Node, ptr string) error {
	s.Type = schemaType(mappingValue(n, "type"))
	s.Format = scalarString(mappingValue(n, "format"))
	s.Title = scalarString(mappingValue(n, "title"))
	s.Description = scalarString(mappingValue(n, "description"))
	s.Required = stringList(mappingValue(n, "required"))
	if err := fillExtra(s, n, ptr); err != nil {
		return err
	}

	err := mappingPairs(mappingValue(n, "properties"), func(name string, v *yaml.Node) error {
		ps, err := d.schema(v, ptr+"/properties/"+escapePointer(name))
		if err != nil {
			return err
		}
		s.Properties = append(s.Properties, ir.Property{Name: name, Schema: ps})
		return nil
	})
	if err != nil {
		return err
	}

	if items := mappingValue(n, "items"); items != nil {
		if items.Kind == yaml.SequenceNode {
			// tuple form, the first item stands for the element type
			if first := sequenceItems(items); len(first) > 0 {
				items = first[0]
			} else {
				items = nil
			}
		}
		if items != nil {
			is, err := d.schema(items, ptr+"/items")
			if err != nil {
				return err
			}
			s.Items = is
		}
	}

	for i, c := range sequenceItems(mappingValue(n, "allOf")) {
		cs, err := d.schema(c, fmt.Sprintf("%s/allOf/%d", ptr, i))
		if err != nil {
			return err
		}
		s.AllOf = append(s.AllOf, cs)
	}

	for _, e := range sequenceItems(mappingValue(n, "enum")) {
		lit, err := literal(e)
		if err != nil {
			return &SpecError{Code: ParseError, Message: err.Error(), Pointer: ptr + "/enum", Cause: err}
		}
		s.Enum = append(s.Enum, lit)
	}

	if def := mappingValue(n, "default"); def != nil {
		lit, err := literal(def)
		if err != nil {
			return &SpecError{Code: ParseError, Message: err.Error(), Pointer: ptr + "/default", Cause: err}
		}
		s.Default = &lit
	}
	return nil
}

// fillExtra stores every unmodeled keyword as canonical JSON. encoding/json sorts map keys,
// so equal values give equal text.
func fillExtra(s *ir.SchemaNode, n *yaml.Node, ptr string) error {
	return mappingPairs(n, func(key string, v *yaml.Node) error {
		if schemaKeys[key] {
			return nil
		}
		plain, err := nodeToAny(v)
		if err == nil {
			var b []byte
			if b, err = json.Marshal(plain); err == nil {
				if s.Extra == nil {
					s.Extra = make(map[string]string)
				}
				s.Extra[key] = string(b)
				return nil
			}
		}
		return &SpecError{Code: ParseError, Message: err.Error(), Pointer: ptr + "/" + escapePointer(key), Cause: err}
	})
}

// schemaType reads the type keyword; a list form yields its first non-null entry
func schemaType(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == yaml.SequenceNode {
		for _, t := range stringList(n) {
			if t != "null" {
				return t
			}
		}
		return ""
	}
	return scalarString(n)
}

// literal converts a scalar, or an object or array serialized as JSON, into a literal
func literal(n *yaml.Node) (ir.Literal, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		v, err := nodeToAny(n)
		if err != nil {
			return ir.Literal{}, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return ir.Literal{}, err
		}
		return ir.Literal{Text: string(b), Kind: ir.LiteralJSON}, nil
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		return ir.Literal{Text: n.Value, Kind: ir.LiteralNumber}, nil
	case "!!bool":
		return ir.Literal{Text: strings.ToLower(n.Value), Kind: ir.LiteralBool}, nil
	case "!!null":
		return ir.Literal{Text: "null", Kind: ir.LiteralNull}, nil
	default:
		return ir.StringLiteral(n.Value), nil
	}
}
