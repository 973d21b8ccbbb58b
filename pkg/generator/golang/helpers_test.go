package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
)

func TestCommentLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Simple comment", []string{"Simple comment"}},
		{"Line 1\nLine 2", []string{"Line 1", "Line 2"}},
		{"Line 1\n\nLine 3\n", []string{"Line 1", "", "Line 3"}},
		{"Especifica quantos dias antes do vencimento.\n Para o evento  `PAYMENT_DUEDATE_WARNING`", []string{"Especifica quantos dias antes do vencimento.", "Para o evento  `PAYMENT_DUEDATE_WARNING`"}},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, commentLines(test.input), "commentLines(%q)", test.input)
	}
}

func TestSanitizePackageName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "client"},
		{"petstore", "petstore"},
		{"example.com/pet-store", "petstore"},
		{"SwaggerPetstore", "swaggerpetstore"},
		{"2fa", "pkg2fa"},
	}

	for _, test := range tests {
		result := sanitizePackageName(test.input)
		if result != test.expected {
			t.Errorf("sanitizePackageName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		fn       func(string) string
		input    string
		expected string
	}{
		{exportedName, "petsGet", "PetsGet"},
		{exportedName, "Pet.Tag", "Pet_Tag"},
		{exportedName, "1st", "X1st"},
		{exportedName, "", "X"},
		{fieldName, "id", "Id"},
		{fieldName, "created_at", "CreatedAt"},
		{fieldName, "X-Rate", "XRate"},
		{localName, "petId", "petId"},
		{localName, "type", "type_"},
		{localName, "ctx", "ctx_"},
		{localName, "a-b", "a_b"},
		{localName, "9lives", "_9lives"},
	}

	for _, test := range tests {
		if got := test.fn(test.input); got != test.expected {
			t.Errorf("name(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestGoType(t *testing.T) {
	str := ir.TypeDescriptor{Kind: ir.Passthrough, Name: "string"}
	named := qualifiedType("example.com/api/types")
	tests := []struct {
		name     string
		input    ir.TypeDescriptor
		expected string
	}{
		{"generic", ir.TypeDescriptor{}, "map[string]any"},
		{"integer", ir.TypeDescriptor{Kind: ir.Numeric, Integer: true}, "int64"},
		{"number", ir.TypeDescriptor{Kind: ir.Numeric}, "float64"},
		{"string", str, "string"},
		{"boolean", ir.TypeDescriptor{Kind: ir.Passthrough, Name: "boolean"}, "bool"},
		{"file", ir.TypeDescriptor{Kind: ir.Passthrough, Name: "file"}, "any"},
		{"reference", ir.TypeDescriptor{Kind: ir.Reference, Name: "Pet"}, "types.Pet"},
		{"array", ir.TypeDescriptor{Kind: ir.ArrayOf, Elem: &str}, "[]string"},
		{"string enum", ir.TypeDescriptor{Kind: ir.LiteralUnion, Literals: []ir.Literal{ir.StringLiteral("a")}}, "string"},
		{"mixed enum", ir.TypeDescriptor{Kind: ir.LiteralUnion, Literals: []ir.Literal{
			ir.StringLiteral("a"), {Text: "1", Kind: ir.LiteralNumber},
		}}, "any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, goType(tt.input, named).GoString())
		})
	}
}

func TestQueryDefault(t *testing.T) {
	intType := ir.TypeDescriptor{Kind: ir.Numeric, Integer: true}

	_, ok := queryDefault(&ir.ParameterSpec{Type: intType})
	assert.False(t, ok)

	_, ok = queryDefault(&ir.ParameterSpec{Type: intType, Default: &ir.Literal{Text: "2.5", Kind: ir.LiteralNumber}})
	assert.False(t, ok, "a fractional default does not fit an integer")

	_, ok = queryDefault(&ir.ParameterSpec{Type: intType, Default: &ir.Literal{Text: "20", Kind: ir.LiteralNumber}})
	assert.True(t, ok)

	_, ok = queryDefault(&ir.ParameterSpec{Default: &ir.Literal{Text: "{}", Kind: ir.LiteralJSON}})
	assert.False(t, ok)
}
