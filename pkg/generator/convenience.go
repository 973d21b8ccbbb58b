package generator

import (
	"context"
	"path/filepath"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/openapi"
)

// GenerateClient is a convenience function for generating a client with minimal configuration
func GenerateClient(ctx context.Context, opts GenerateClientOptions) error {
	service := NewService()

	genOpts := GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Fallback: FallbackOptions{
			Spec:               opts.Spec,
			Type:               opts.Type,
			OutDir:             opts.OutDir,
			Name:               opts.Name,
			PackageName:        opts.PackageName,
			ModuleName:         opts.ModuleName,
			ServerBase:         opts.ServerBase,
			IncludeControllers: opts.IncludeControllers,
			ExcludeControllers: opts.ExcludeControllers,
			Validate:           opts.Validate,
		},
	}

	return service.Generate(ctx, genOpts)
}

// GenerateClientOptions contains options for the convenience GenerateClient function
type GenerateClientOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec               string   // Swagger 2.0 document file or URL
	Type               string   // Generator type ("flow" or "go")
	OutDir             string   // Output directory
	Name               string   // Output base name (flow)
	PackageName        string   // Package name (go)
	ModuleName         string   // Import path of OutDir (go)
	ServerBase         string   // Overrides the scheme://host default
	IncludeControllers []string // Regex patterns for controllers to include
	ExcludeControllers []string // Regex patterns for controllers to exclude
	Validate           bool     // Validate the document before generating
}

// GenerateFlowClient is a convenience function specifically for Flow client generation
func GenerateFlowClient(ctx context.Context, spec, outDir, name string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateClient(ctx, GenerateClientOptions{
		Spec:   spec,
		Type:   "flow",
		OutDir: absOutDir,
		Name:   name,
	})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string, singleClient ...string) error {
	service := NewService()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	onlyClient := ""
	if len(singleClient) > 0 {
		onlyClient = singleClient[0]
	}

	return service.GenerateFromConfig(ctx, cfg, onlyClient)
}

// ValidateSpec validates a Swagger 2.0 document
func ValidateSpec(ctx context.Context, specPath string) error {
	return openapi.ValidateDocument(ctx, specPath)
}

// GenerateGoClient is a convenience function for Go client generation. moduleName is the
// import path of outDir.
func GenerateGoClient(ctx context.Context, spec, outDir, moduleName, packageName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateClient(ctx, GenerateClientOptions{
		Spec:        spec,
		Type:        "go",
		OutDir:      absOutDir,
		ModuleName:  moduleName,
		PackageName: packageName,
	})
}
