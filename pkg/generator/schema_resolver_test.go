package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/openapi"
)

func prop(name string, schema *ir.SchemaNode) ir.Property {
	return ir.Property{Name: name, Schema: schema}
}

func typed(t string) *ir.SchemaNode { return &ir.SchemaNode{Type: t} }

func petNode() *ir.SchemaNode {
	return &ir.SchemaNode{
		Type:       "object",
		Properties: []ir.Property{prop("id", typed("integer")), prop("name", typed("string"))},
		Required:   []string{"id"},
	}
}

func TestResolveType(t *testing.T) {
	reg := ir.NewRegistry()
	reg.Add("Pet", petNode())
	reg.Add("Empty", &ir.SchemaNode{Type: "object"})

	str := ir.TypeDescriptor{Kind: ir.Passthrough, Name: "string"}
	tests := []struct {
		name     string
		node     *ir.SchemaNode
		expected ir.TypeDescriptor
	}{
		{"absent", nil, ir.TypeDescriptor{Kind: ir.GenericObject}},
		{"enum", &ir.SchemaNode{Type: "string", Enum: []ir.Literal{ir.StringLiteral("a"), ir.StringLiteral("b")}},
			ir.TypeDescriptor{Kind: ir.LiteralUnion, Literals: []ir.Literal{ir.StringLiteral("a"), ir.StringLiteral("b")}}},
		{"registered shape", petNode(), ir.TypeDescriptor{Kind: ir.Reference, Name: "Pet"}},
		{"entry without properties is not a target", &ir.SchemaNode{Type: "object"}, ir.TypeDescriptor{Kind: ir.GenericObject}},
		{"integer", typed("integer"), ir.TypeDescriptor{Kind: ir.Numeric, Integer: true}},
		{"number", typed("number"), ir.TypeDescriptor{Kind: ir.Numeric}},
		{"string", typed("string"), str},
		{"boolean", typed("boolean"), ir.TypeDescriptor{Kind: ir.Passthrough, Name: "boolean"}},
		{"untyped", &ir.SchemaNode{}, ir.TypeDescriptor{Kind: ir.GenericObject}},
		{"array of strings", &ir.SchemaNode{Type: "array", Items: typed("string")}, ir.TypeDescriptor{Kind: ir.ArrayOf, Elem: &str}},
		{"array of pets", &ir.SchemaNode{Type: "array", Items: petNode()},
			ir.TypeDescriptor{Kind: ir.ArrayOf, Elem: &ir.TypeDescriptor{Kind: ir.Reference, Name: "Pet"}}},
		{"array without items", &ir.SchemaNode{Type: "array"},
			ir.TypeDescriptor{Kind: ir.ArrayOf, Elem: &ir.TypeDescriptor{Kind: ir.GenericObject}}},
		{"unregistered object", &ir.SchemaNode{Type: "object", Properties: []ir.Property{prop("x", typed("string"))}},
			ir.TypeDescriptor{Kind: ir.GenericObject}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveType(tt.node, reg))
		})
	}
}

func TestResolveTypeEnumIsCopied(t *testing.T) {
	node := &ir.SchemaNode{Type: "string", Enum: []ir.Literal{ir.StringLiteral("a")}}
	got := ResolveType(node, ir.NewRegistry())
	got.Literals[0] = ir.StringLiteral("changed")
	assert.Equal(t, "a", node.Enum[0].Text)
}

func TestResolveTypeRegistryTie(t *testing.T) {
	reg := ir.NewRegistry()
	reg.Add("First", petNode())
	reg.Add("Second", petNode())

	got := ResolveType(petNode(), reg)
	assert.Equal(t, ir.TypeDescriptor{Kind: ir.Reference, Name: "First"}, got)
}

func TestCompressComposite(t *testing.T) {
	base := petNode()
	node := &ir.SchemaNode{
		Description: "a dog",
		AllOf: []*ir.SchemaNode{
			base,
			{
				Type:       "object",
				Properties: []ir.Property{prop("name", typed("integer")), prop("bark", typed("boolean"))},
				Required:   []string{"bark", "id"},
			},
		},
	}

	got := CompressComposite(node)
	assert.Equal(t, "object", got.Type)
	assert.Equal(t, "a dog", got.Description)
	require.Len(t, got.Properties, 3)
	assert.Equal(t, "id", got.Properties[0].Name)
	assert.Equal(t, "name", got.Properties[1].Name, "a redeclared property keeps its first position")
	assert.Equal(t, "integer", got.Properties[1].Schema.Type, "the later declaration wins")
	assert.Equal(t, "bark", got.Properties[2].Name)
	assert.Equal(t, []string{"id", "bark"}, got.Required)

	assert.Len(t, base.Properties, 2, "components are not modified")
	assert.Same(t, base, CompressComposite(base), "a node without allOf is returned unchanged")
}

func TestCompressCompositeCycle(t *testing.T) {
	node := &ir.SchemaNode{Properties: []ir.Property{prop("a", typed("string"))}}
	node.AllOf = []*ir.SchemaNode{node}

	got := CompressComposite(node)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, "a", got.Properties[0].Name)
}

func TestMergeShapes(t *testing.T) {
	a := &ir.SchemaNode{Title: "A", Properties: []ir.Property{prop("x", typed("string"))}, Required: []string{"x"}}
	b := &ir.SchemaNode{Title: "B", Properties: []ir.Property{prop("y", typed("string")), prop("x", typed("number"))}, Required: []string{"y", "x"}}

	got := MergeShapes(a, nil, b)
	assert.Equal(t, "B", got.Title)
	require.Len(t, got.Properties, 2)
	assert.Equal(t, "x", got.Properties[0].Name)
	assert.Equal(t, "number", got.Properties[0].Schema.Type)
	assert.Equal(t, []string{"x", "y"}, got.Required)
}

func TestBuildDeclaredTypes(t *testing.T) {
	pet := petNode()
	pet.Description = "A pet"
	dog := &ir.SchemaNode{AllOf: []*ir.SchemaNode{pet, {
		Type:       "object",
		Properties: []ir.Property{prop("owner", pet)},
	}}}

	reg := ir.NewRegistry()
	reg.Add("Pet", pet)
	reg.Add("Nothing", &ir.SchemaNode{Type: "object"})
	reg.Add("Dog", dog)

	types := BuildDeclaredTypes(reg)
	require.Len(t, types, 2)

	assert.Equal(t, "Pet", types[0].Name)
	assert.Equal(t, "A pet", types[0].Description)
	assert.Equal(t, []ir.DeclaredField{
		{Name: "id", Optional: false, Type: ir.TypeDescriptor{Kind: ir.Numeric, Integer: true}},
		{Name: "name", Optional: true, Type: ir.TypeDescriptor{Kind: ir.Passthrough, Name: "string"}},
	}, types[0].Fields)

	assert.Equal(t, "Dog", types[1].Name)
	require.Len(t, types[1].Fields, 3)
	assert.Equal(t, "owner", types[1].Fields[2].Name)
	assert.Equal(t, ir.TypeDescriptor{Kind: ir.Reference, Name: "Pet"}, types[1].Fields[2].Type)
}

const lookalikeYAML = `
swagger: "2.0"
info: {title: Lookalikes, version: "1"}
definitions:
  Pet:
    type: object
    properties:
      id: {type: integer}
  PetInput:
    type: object
    properties:
      id: {type: integer, readOnly: true, example: 3}
  Named:
    type: object
    required: [a, b]
    properties:
      a: {type: string}
      b: {type: string}
  Reordered:
    type: object
    required: [b, a]
    properties:
      a: {type: string}
      b: {type: string}
paths:
  /items/{id}:
    x-swagger-router-controller: items
    put:
      parameters:
        - {name: id, in: path, required: true, type: string}
        - {name: input, in: body, schema: {$ref: '#/definitions/PetInput'}}
        - {name: limit, in: query, type: integer, minimum: 1}
      responses:
        "200":
          description: the pet
          schema: {$ref: '#/definitions/Pet'}
  /named:
    x-swagger-router-controller: named
    post:
      parameters:
        - {name: body, in: body, schema: {$ref: '#/definitions/Reordered'}}
      responses:
        "204": {description: done}
`

func TestResolveTypeKeepsLookalikeDefinitionsApart(t *testing.T) {
	doc, err := openapi.Parse([]byte(lookalikeYAML), "lookalikes.yaml")
	require.NoError(t, err)
	spec := BuildSpec(doc, time.Time{})
	require.Len(t, spec.Operations, 2)

	items := spec.Operations[0]
	body := items.Body()
	require.NotNil(t, body)
	assert.Equal(t, ir.TypeDescriptor{Kind: ir.Reference, Name: "PetInput"}, body.Type, "readOnly and example are part of the shape")
	assert.Equal(t, "petInput", body.Identifier)
	assert.Equal(t, ir.TypeDescriptor{Kind: ir.Reference, Name: "Pet"}, items.ResponseType)
	require.Len(t, items.QueryParams, 1)
	assert.Equal(t, ir.TypeDescriptor{Kind: ir.Numeric, Integer: true}, items.QueryParams[0].Type)

	named := spec.Operations[1].Body()
	require.NotNil(t, named)
	assert.Equal(t, ir.TypeDescriptor{Kind: ir.Reference, Name: "Reordered"}, named.Type, "required names compare in order")
}
