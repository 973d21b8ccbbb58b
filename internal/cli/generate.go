package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/generator"
)

// GenerateParams captures the generate command's inputs after flag parsing.
type GenerateParams struct {
	ConfigPath   string
	SingleClient string
	Verbose      bool
	Fallback     generator.FallbackOptions
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate clients from a Swagger 2.0 document",
		Long: "Generate clients from a Swagger 2.0 document. " +
			"Clients are described by a config file, or a single client by flags.",
		Example: strings.TrimSpace(`  gen-swagger-client generate --input petstore.yaml --out ./generated
  gen-swagger-client generate --input petstore.yaml --type go --out ./petstore --module-name example.com/petstore
  gen-swagger-client generate --config genclient.yaml --client petstore-client`),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveGenerateParams(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd, params)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to a genclient.yaml config")
	flags.String("client", "", "Generate only the named client from config")
	// Fallback single-client flags
	flags.String("input", "", "Swagger 2.0 document (yaml/json), file path or URL")
	flags.String("type", "flow", "Client type ("+strings.Join(config.SupportedTypes, "|")+")")
	flags.String("out", "", "Output directory")
	flags.String("name", "", "Output base name (flow); derived from the title when omitted")
	flags.String("package-name", "", "Package name (go)")
	flags.String("module-name", "", "Import path of the output directory (go)")
	flags.String("server-base", "", "Override the default scheme://host baked into the client")
	flags.StringArray("include-controllers", nil, "Regex patterns for controllers to include")
	flags.StringArray("exclude-controllers", nil, "Regex patterns for controllers to exclude")
	flags.Bool("validate", false, "Validate the document with kin-openapi before generating")

	return cmd
}

func resolveGenerateParams(cmd *cobra.Command) (GenerateParams, error) {
	flags := cmd.Flags()
	var p GenerateParams
	var err error

	if p.ConfigPath, err = trimmed(flags, "config"); err != nil {
		return p, err
	}
	if p.SingleClient, err = trimmed(flags, "client"); err != nil {
		return p, err
	}
	if p.Verbose, err = flags.GetBool("verbose"); err != nil {
		return p, err
	}

	f := &p.Fallback
	for name, dst := range map[string]*string{
		"input":        &f.Spec,
		"type":         &f.Type,
		"out":          &f.OutDir,
		"name":         &f.Name,
		"package-name": &f.PackageName,
		"module-name":  &f.ModuleName,
		"server-base":  &f.ServerBase,
	} {
		if *dst, err = trimmed(flags, name); err != nil {
			return p, err
		}
	}
	f.Type = strings.ToLower(f.Type)
	if flags.Changed("include-controllers") {
		if f.IncludeControllers, err = flags.GetStringArray("include-controllers"); err != nil {
			return p, err
		}
	}
	if flags.Changed("exclude-controllers") {
		if f.ExcludeControllers, err = flags.GetStringArray("exclude-controllers"); err != nil {
			return p, err
		}
	}
	if f.Validate, err = flags.GetBool("validate"); err != nil {
		return p, err
	}

	if p.ConfigPath == "" {
		if p.SingleClient != "" {
			return p, newUsageError("generate: --client requires --config")
		}
		if f.Spec == "" || f.OutDir == "" {
			return p, newUsageError("generate: either --config or both --input and --out must be provided")
		}
	}
	return p, nil
}

func trimmed(flags *pflag.FlagSet, name string) (string, error) {
	value, err := flags.GetString(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func runGenerate(cmd *cobra.Command, p GenerateParams) error {
	logger := newLogger(cmd, cmd.ErrOrStderr())
	svc := generator.NewService(generator.WithLogger(logger))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := svc.Generate(ctx, generator.GenerateOptions{
		ConfigPath:   p.ConfigPath,
		SingleClient: p.SingleClient,
		Fallback:     p.Fallback,
	}); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}
