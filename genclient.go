// Package genclient compiles Swagger 2.0 documents into typed API clients.
//
// The default target is a Flow-annotated JavaScript module pair: a type module with one
// declaration per named definition, and a client module with one method per operation.
// A Go target backed by the clientrt package is available as well.
//
// Quick Start:
//
//	import genclient "github.com/benjaminmcdonald/gen-swagger-javascript-client"
//
//	// Generate a Flow client
//	err := genclient.GenerateFlowClient(ctx,
//		"./petstore.yaml",
//		"./generated",
//		"petstore-client",
//	)
//
// For more advanced usage, see the generator package.
package genclient

import (
	"context"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/generator"
)

// GenerateFlowClient generates a Flow client with minimal configuration.
//
// Parameters:
//   - spec: Path to the Swagger 2.0 document or HTTP(S) URL
//   - outDir: Output directory for the generated files
//   - name: Output base name; empty derives it from the document title
//
// Example:
//
//	err := genclient.GenerateFlowClient(ctx, "./swagger.yaml", "./client", "")
func GenerateFlowClient(ctx context.Context, spec, outDir, name string) error {
	return generator.GenerateFlowClient(ctx, spec, outDir, name)
}

// GenerateGoClient generates a Go client. moduleName is the import path of outDir,
// used to import the generated types package.
func GenerateGoClient(ctx context.Context, spec, outDir, moduleName, packageName string) error {
	return generator.GenerateGoClient(ctx, spec, outDir, moduleName, packageName)
}

// GenerateClient generates a client with full configuration options.
//
// Example:
//
//	err := genclient.GenerateClient(ctx, genclient.GenerateClientOptions{
//		Spec:               "./swagger.yaml",
//		Type:               "flow",
//		OutDir:             "./client",
//		IncludeControllers: []string{"^pets"},
//		ExcludeControllers: []string{"internal"},
//	})
func GenerateClient(ctx context.Context, opts GenerateClientOptions) error {
	return generator.GenerateClient(ctx, opts)
}

// GenerateClientOptions contains options for client generation
type GenerateClientOptions = generator.GenerateClientOptions

// GenerateFromConfig generates clients from a YAML configuration file.
// Optionally, you can specify a single client name to generate only that client.
//
// Example:
//
//	// Generate all clients from config
//	err := genclient.GenerateFromConfig(ctx, "./genclient.yaml")
//
//	// Generate only a specific client
//	err := genclient.GenerateFromConfig(ctx, "./genclient.yaml", "petstore-client")
func GenerateFromConfig(ctx context.Context, configPath string, singleClient ...string) error {
	return generator.GenerateFromConfig(ctx, configPath, singleClient...)
}

// ValidateSpec loads a Swagger 2.0 document and validates it.
//
// Example:
//
//	if err := genclient.ValidateSpec(ctx, "./swagger.yaml"); err != nil {
//		log.Fatalf("Invalid document: %v", err)
//	}
func ValidateSpec(ctx context.Context, specPath string) error {
	return generator.ValidateSpec(ctx, specPath)
}
