package flow_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/generator"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/generator/flow"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/openapi"
)

const storeYAML = `
swagger: "2.0"
info:
  title: Pet Store
  description: Pets
  version: "1"
host: api.example.com
basePath: /v1
schemes: [http, https]
securityDefinitions:
  token:
    type: apiKey
    name: X-Token
    in: header
definitions:
  Pet:
    type: object
    description: A pet
    required: [id]
    properties:
      id: {type: integer}
      status: {type: string, enum: [available, sold]}
      tags: {type: array, items: {type: string}}
paths:
  /pets:
    x-swagger-router-controller: pets
    get:
      description: List pets
      parameters:
        - {name: limit, in: query, type: integer, default: 20}
      responses:
        "200": {description: ok, schema: {type: array, items: {$ref: '#/definitions/Pet'}}}
    post:
      security: [{token: []}]
      parameters:
        - {name: pet, in: body, schema: {$ref: '#/definitions/Pet'}}
      responses:
        "201": {description: created}
  /pets/{petId}:
    x-swagger-router-controller: pet
    get:
      parameters:
        - {name: petId, in: path, required: true, type: string}
      responses:
        "200": {description: a pet, schema: {$ref: '#/definitions/Pet'}}
  /health:
    get:
      responses:
        "200": {description: ok}
`

var fixedTime = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func compile(t *testing.T, src string) *ir.APISpec {
	t.Helper()
	doc, err := openapi.Parse([]byte(src), "/specs/petstore.yaml")
	require.NoError(t, err)
	return generator.BuildSpec(doc, fixedTime)
}

func generate(t *testing.T, client config.Client, spec *ir.APISpec) (types, clientSrc string) {
	t.Helper()
	artifacts, err := flow.NewFlowGenerator().Generate(client, spec)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	return string(artifacts[0].Content), string(artifacts[1].Content)
}

func TestGenerateFileNames(t *testing.T) {
	spec := compile(t, storeYAML)

	artifacts, err := flow.NewFlowGenerator().Generate(config.Client{Type: "flow"}, spec)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "pet-store-client-flowtypes.js", artifacts[0].Path)
	assert.Equal(t, "pet-store-client.js", artifacts[1].Path)

	artifacts, err = flow.NewFlowGenerator().Generate(config.Client{Type: "flow", Name: "store"}, spec)
	require.NoError(t, err)
	assert.Equal(t, "store-flowtypes.js", artifacts[0].Path)
	assert.Equal(t, "store.js", artifacts[1].Path)
}

func TestGenerateTypes(t *testing.T) {
	types, _ := generate(t, config.Client{Type: "flow"}, compile(t, storeYAML))

	expected := `// @flow
/**
 * Pet Store: Pets flowtypes
 * AUTOGENERATED CODE FROM petstore.yaml
 * UPDATED Fri Oct 16 2026
 */

/** A pet */
export type Pet = {
	id: number,
	status?: "available"|"sold",
	tags?: Array<string>
};
`
	assert.Equal(t, expected, types)
}

func TestGenerateClient(t *testing.T) {
	_, src := generate(t, config.Client{Type: "flow"}, compile(t, storeYAML))

	for _, want := range []string{
		"// @flow\n",
		"import type {Pet} from './pet-store-client-flowtypes.js';",
		"return function (isCors/*:boolean*/=false, serverHost/*:string*/='https://api.example.com') {",
		"const basePath = serverHost + '/v1';",
		"requestHeaders['Content-Type'] = 'application/json';",
		"\t\t * List pets\n\t\t * @return {Promise<Array<Pet>>} ok\n",
		"function petsGet(limit/*:number*/ = 20)/*:Promise<Array<Pet>>*/ {",
		"const queryParameters = {limit: limit};",
		"return getJson(urlPath + jsonToQueryString(queryParameters), 'GET', {});",
		"function petsPost(pet/*:Pet*/, xToken/*:string*/)/*:Promise<Object>*/ {",
		"return getJson(urlPath, 'POST', {'X-Token': xToken}, pet);",
		"@return {Promise<Object>} created",
		"function pet(petId/*:string*/)/*:Promise<Pet>*/ {",
		"const urlPath = expandPath('/pets/{petId}', {petId: petId});",
		"return {\n\t\t\tpetsGet,\n\t\t\tpetsPost,\n\t\t\tpet\n\t\t};",
		"exports.PetStore = module.exports.client = clientApiDef(require('node-fetch'));",
		"window.PetStore = clientApiDef(window.fetch);",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "/health", "operations without a controller are dropped")
}

func TestGenerateDeterministic(t *testing.T) {
	spec := compile(t, storeYAML)
	types1, client1 := generate(t, config.Client{Type: "flow"}, spec)
	types2, client2 := generate(t, config.Client{Type: "flow"}, compile(t, storeYAML))
	assert.Equal(t, types1, types2)
	assert.Equal(t, client1, client2)
}

func TestGenerateServerBaseOverride(t *testing.T) {
	_, src := generate(t, config.Client{Type: "flow", ServerBase: "http://localhost:8080"}, compile(t, storeYAML))
	assert.Contains(t, src, "serverHost/*:string*/='http://localhost:8080'")
}

func TestGenerateQuerySecurity(t *testing.T) {
	src := `
swagger: "2.0"
info: {title: keys}
securityDefinitions:
  key: {type: apiKey, name: api_key, in: query}
paths:
  /items:
    x-swagger-router-controller: items
    get:
      security: [{key: []}]
      parameters:
        - {name: page, in: query, type: integer}
      responses:
        "200": {description: ok}
`
	_, client := generate(t, config.Client{Type: "flow"}, compile(t, src))
	assert.Contains(t, client, "function items(apiKey/*:string*/, page/*:number*/)/*:Promise<Object>*/ {")
	assert.Contains(t, client, "const queryParameters = {api_key: apiKey, page: page};")
	assert.Contains(t, client, "serverHost/*:string*/=''")
}

func TestGenerateWithoutTypes(t *testing.T) {
	src := `
swagger: "2.0"
info: {title: empty}
paths: {}
`
	types, client := generate(t, config.Client{Type: "flow"}, compile(t, src))
	assert.NotContains(t, types, "export type")
	assert.NotContains(t, client, "import type")
	assert.Contains(t, client, "return {};")
	assert.Contains(t, client, "exports.Empty = ")
}

func TestGenerateChunkedImports(t *testing.T) {
	var b strings.Builder
	b.WriteString("swagger: \"2.0\"\ninfo: {title: many}\ndefinitions:\n")
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		b.WriteString("  " + name + ":\n    type: object\n    properties:\n      " + strings.ToLower(name) + ": {type: string}\n")
	}
	_, client := generate(t, config.Client{Type: "flow"}, compile(t, b.String()))
	assert.Contains(t, client, "import type {A, B, C, D, E,\n\t\tF, G} from './many-client-flowtypes.js';")
}
