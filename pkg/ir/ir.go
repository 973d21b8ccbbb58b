package ir

import (
	"strings"
	"time"
)

// SchemaKind classifies a schema fragment
type SchemaKind string

const (
	KindObject    SchemaKind = "object"
	KindArray     SchemaKind = "array"
	KindPrimitive SchemaKind = "primitive"
	KindEnum      SchemaKind = "enum"
	KindComposite SchemaKind = "composite"
)

// SchemaNode is one schema fragment of the description document.
// Nodes reachable through $ref are shared, so callers must not mutate them.
type SchemaNode struct {
	Type        string
	Format      string
	Title       string
	Description string
	// Properties keeps declaration order
	Properties []Property
	Required   []string
	Items      *SchemaNode
	Enum       []Literal
	AllOf      []*SchemaNode
	Default    *Literal
	// Ref is the pointer this node was resolved from, informational only
	Ref string
}

// Property is a named member of an object schema
type Property struct {
	Name   string
	Schema *SchemaNode
}

// Kind derives the node classification. Enum wins over composite, composite over the declared
// type. Only an explicit "object" type makes an object; untyped nodes with properties stay primitive.
func (n *SchemaNode) Kind() SchemaKind {
	switch {
	case n == nil:
		return KindObject
	case len(n.Enum) > 0:
		return KindEnum
	case len(n.AllOf) > 0:
		return KindComposite
	case n.Type == "array":
		return KindArray
	case n.Type == "object":
		return KindObject
	default:
		return KindPrimitive
	}
}

// Property returns the named property schema
func (n *SchemaNode) Property(name string) (*SchemaNode, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// IsRequired reports whether name is listed as required
func (n *SchemaNode) IsRequired(name string) bool {
	if n == nil {
		return false
	}
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// LiteralKind is the scalar kind of a literal taken from the document
type LiteralKind string

const (
	LiteralString LiteralKind = "string"
	LiteralNumber LiteralKind = "number"
	LiteralBool   LiteralKind = "bool"
	LiteralNull   LiteralKind = "null"
	// LiteralJSON holds an already serialized JSON object or array
	LiteralJSON LiteralKind = "json"
)

// Literal is an enum member or a default value
type Literal struct {
	Text string
	Kind LiteralKind
}

// StringLiteral builds a string literal
func StringLiteral(s string) Literal { return Literal{Text: s, Kind: LiteralString} }

// IsString reports whether the literal must be quoted when rendered
func (l Literal) IsString() bool { return l.Kind == LiteralString }

// TypeKind enumerates the resolved type variants
type TypeKind int

const (
	// GenericObject is the untyped object fallback
	GenericObject TypeKind = iota
	LiteralUnion
	Reference
	ArrayOf
	Numeric
	Passthrough
)

// TypeDescriptor is the resolved type of a schema fragment
type TypeDescriptor struct {
	Kind TypeKind
	// Literals for LiteralUnion
	Literals []Literal
	// Name for Reference and the declared type for Passthrough
	Name string
	// Elem for ArrayOf
	Elem *TypeDescriptor
	// Integer marks a Numeric descriptor derived from "integer"
	Integer bool
}

// DeclaredType is one emitted type declaration
type DeclaredType struct {
	Name        string
	Description string
	Fields      []DeclaredField
}

// DeclaredField is one member of a declared type
type DeclaredField struct {
	Name        string
	Description string
	Optional    bool
	Type        TypeDescriptor
}

// ParamLocation is where an operation parameter is carried
type ParamLocation string

const (
	InPath  ParamLocation = "path"
	InQuery ParamLocation = "query"
	InBody  ParamLocation = "body"
)

// ParameterSpec is one operation parameter. For body parameters Schema is the body schema.
type ParameterSpec struct {
	Name        string
	In          ParamLocation
	Schema      *SchemaNode
	Required    bool
	Default     *Literal
	Description string
	// Identifier is the source-level argument name, filled in by the extractor
	Identifier string
	// Type is the resolved type of Schema
	Type TypeDescriptor
}

// SecurityScheme is the auth requirement attached to an operation
type SecurityScheme struct {
	Key string
	// Type is the declared scheme type (apiKey, basic, oauth2)
	Type string
	// Name is the header or query field carrying the credential
	Name string
	// In is "header" or "query"
	In string
}

// FieldName returns the carrier field, Authorization when the scheme names none
func (s *SecurityScheme) FieldName() string {
	if s == nil || s.Name == "" {
		return "Authorization"
	}
	return s.Name
}

// InQuery reports whether the credential is carried in the query string
func (s *SecurityScheme) InQuery() bool {
	return s != nil && strings.EqualFold(s.In, "query")
}

// OperationDescriptor is one callable method derived from a (path, verb) pair
type OperationDescriptor struct {
	Path        string
	Method      string
	Controller  string
	OperationID string
	MethodName  string
	Description string
	// Summary is nil when neither the first response nor its schema is described
	Summary     *string
	PathParams  []ParameterSpec
	BodyParams  []ParameterSpec
	QueryParams []ParameterSpec
	Security    *SecurityScheme
	// SecurityIdentifier is the argument name of the credential
	SecurityIdentifier string
	Response           *SchemaNode
	// ResponseType is the resolved type of Response, GenericObject when absent
	ResponseType TypeDescriptor
}

// Body returns the first body parameter, the only one that reaches the method signature
func (o OperationDescriptor) Body() *ParameterSpec {
	if len(o.BodyParams) == 0 {
		return nil
	}
	return &o.BodyParams[0]
}

// SignatureKind tags an entry of the method signature
type SignatureKind int

const (
	SignaturePath SignatureKind = iota
	SignatureBody
	SignatureSecurity
	SignatureQuery
)

// SignatureParam is one positional argument of a generated method
type SignatureParam struct {
	Kind       SignatureKind
	Identifier string
	Param      *ParameterSpec
}

// Signature lists the method arguments: path params, the first body param,
// the security credential, then query params
func (o OperationDescriptor) Signature() []SignatureParam {
	out := make([]SignatureParam, 0, len(o.PathParams)+len(o.QueryParams)+2)
	for i := range o.PathParams {
		out = append(out, SignatureParam{Kind: SignaturePath, Identifier: o.PathParams[i].Identifier, Param: &o.PathParams[i]})
	}
	if b := o.Body(); b != nil {
		out = append(out, SignatureParam{Kind: SignatureBody, Identifier: b.Identifier, Param: b})
	}
	if o.Security != nil {
		out = append(out, SignatureParam{Kind: SignatureSecurity, Identifier: o.SecurityIdentifier})
	}
	for i := range o.QueryParams {
		out = append(out, SignatureParam{Kind: SignatureQuery, Identifier: o.QueryParams[i].Identifier, Param: &o.QueryParams[i]})
	}
	return out
}

// APISpec is the compiled description handed to emitters
type APISpec struct {
	Title       string
	Description string
	Version     string
	Host        string
	BasePath    string
	Schemes     []string
	// ContentType is sent with every request
	ContentType string
	Registry    *Registry
	// Types are the declarations derived from Registry, in registry order
	Types               []DeclaredType
	SecurityDefinitions []SecurityScheme
	Operations          []OperationDescriptor
	// Source is the base name of the description document
	Source      string
	GeneratedAt time.Time
}

// DefaultServerBase is scheme://host, https unless the document only lists http.
// An empty host yields an empty base so requests go to basePath relative URLs.
func (s *APISpec) DefaultServerBase() string {
	if s.Host == "" {
		return ""
	}
	scheme := "https"
	if len(s.Schemes) > 0 {
		scheme = s.Schemes[0]
		for _, sc := range s.Schemes {
			if sc == "https" {
				scheme = "https"
				break
			}
		}
	}
	return scheme + "://" + s.Host
}

// Artifact is one generated file, Path is relative to the output directory
type Artifact struct {
	Path    string
	Content []byte
}
