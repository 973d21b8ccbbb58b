package openapi

import "github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"

// Document is a decoded Swagger 2.0 description. Every collection keeps document order.
type Document struct {
	// Location is the file path or URL the document was read from
	Location string
	Swagger  string
	Info     Info
	Host     string
	BasePath string
	Schemes  []string
	Consumes []string
	// Definitions lists #/definitions in declaration order
	Definitions         []NamedSchema
	SecurityDefinitions []SecurityDefinition
	Paths               []PathItem

	raw []byte
}

// Info is the document info block
type Info struct {
	Title       string
	Description string
	Version     string
}

// NamedSchema is one entry of #/definitions
type NamedSchema struct {
	Name   string
	Schema *ir.SchemaNode
}

// SecurityDefinition is one entry of #/securityDefinitions
type SecurityDefinition struct {
	Key  string
	Type string
	Name string
	In   string
}

// PathItem is one entry of #/paths
type PathItem struct {
	Path string
	// Controller is the x-swagger-router-controller value, empty when absent
	Controller string
	// Parameters are declared at path level and shared by every operation
	Parameters []Parameter
	Operations []Operation
}

// Operation is one verb of a path item
type Operation struct {
	Method      string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	// Parameters already include inherited path-level parameters
	Parameters []Parameter
	// Security lists the scheme names of each requirement entry, in order
	Security  [][]string
	Responses []Response
}

// Parameter is an operation parameter. For body parameters Schema is the body schema,
// for the others it is built from the parameter's own type keywords.
type Parameter struct {
	Name        string
	In          string
	Required    bool
	Description string
	Schema      *ir.SchemaNode
	Default     *ir.Literal
}

// Response is one declared response, in declaration order
type Response struct {
	Status      string
	Description string
	Schema      *ir.SchemaNode
}

// Definition looks up a named definition
func (d *Document) Definition(name string) (*ir.SchemaNode, bool) {
	for _, def := range d.Definitions {
		if def.Name == name {
			return def.Schema, true
		}
	}
	return nil, false
}
