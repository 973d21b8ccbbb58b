package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/generator/flow"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/generator/golang"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/openapi"
)

// Generator defines the interface for client emitters
type Generator interface {
	// Generate renders the client files for a compiled description. It performs no I/O.
	Generate(client config.Client, spec *ir.APISpec) ([]ir.Artifact, error)
	// GetType returns the type identifier for this generator (e.g., "flow")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for client generation
type GenerateOptions struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	Spec               string
	Type               string
	OutDir             string
	Name               string
	PackageName        string
	ModuleName         string
	ServerBase         string
	IncludeControllers []string
	ExcludeControllers []string
	Validate           bool
}

// Config builds a single-client configuration from the fallback options
func (f FallbackOptions) Config() (*config.Config, error) {
	if f.Spec == "" || f.Type == "" || f.OutDir == "" {
		return nil, fmt.Errorf("either a config path or the Spec, Type and OutDir options must be provided")
	}
	cfg := &config.Config{
		Spec:     f.Spec,
		Validate: f.Validate,
		Clients: []config.Client{
			{
				Type:               f.Type,
				OutDir:             f.OutDir,
				Name:               f.Name,
				PackageName:        f.PackageName,
				ModuleName:         f.ModuleName,
				ServerBase:         f.ServerBase,
				IncludeControllers: f.IncludeControllers,
				ExcludeControllers: f.ExcludeControllers,
			},
		},
	}
	if err := cfg.Normalize(""); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Service provides high-level client generation functionality
type Service struct {
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
	loadOpts []openapi.Option
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLogger sets the logger used for progress messages
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithClock fixes the generation timestamp source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLoadOptions passes options to the document loader
func WithLoadOptions(opts ...openapi.Option) ServiceOption {
	return func(s *Service) { s.loadOpts = append(s.loadOpts, opts...) }
}

// WithRegistry replaces the default generators
func WithRegistry(r *Registry) ServiceOption {
	return func(s *Service) { s.registry = r }
}

// DefaultRegistry returns a registry with the built-in generators
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(flow.NewFlowGenerator())
	registry.Register(golang.NewGoGenerator())
	return registry
}

// NewService creates a new generator service with default generators
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		registry: DefaultRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate generates clients based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		cfg, err = opts.Fallback.Config()
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return err
	}

	return s.GenerateFromConfig(ctx, cfg, opts.SingleClient)
}

// Compile loads a document and compiles it without writing anything
func (s *Service) Compile(ctx context.Context, input string, validate bool) (*ir.APISpec, error) {
	doc, err := openapi.Load(ctx, input, s.loadOpts...)
	if err != nil {
		return nil, err
	}
	if validate {
		if err := openapi.Validate(ctx, doc); err != nil {
			return nil, err
		}
	}
	return BuildSpec(doc, s.now()), nil
}

// GenerateFromConfig generates clients from a configuration
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyClient string) error {
	if onlyClient != "" && !hasClient(cfg, onlyClient) {
		return fmt.Errorf("client %q not found in config", onlyClient)
	}

	spec, err := s.Compile(ctx, cfg.Spec, cfg.Validate)
	if err != nil {
		return err
	}
	s.logger.Debug("compiled description",
		"spec", cfg.Spec,
		"types", len(spec.Types),
		"operations", len(spec.Operations))

	for _, client := range cfg.Clients {
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}

		generator, exists := s.registry.Get(client.Type)
		if !exists {
			return fmt.Errorf("unsupported client type: %s", client.Type)
		}

		if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory for client %s: %w", client.Label(), err)
		}

		if err := s.executePreCommands(ctx, client); err != nil {
			return fmt.Errorf("pre-generation commands failed for client %s: %w", client.Label(), err)
		}

		filtered, err := FilterOperations(spec, client.IncludeControllers, client.ExcludeControllers)
		if err != nil {
			return err
		}

		artifacts, err := generator.Generate(client, filtered)
		if err != nil {
			return fmt.Errorf("generate client %s: %w", client.Label(), err)
		}
		if err := s.writeArtifacts(client, artifacts); err != nil {
			return err
		}

		if err := s.executePostGenCommands(ctx, client); err != nil {
			return fmt.Errorf("post-generation commands failed for client %s: %w", client.Label(), err)
		}
	}

	return nil
}

func hasClient(cfg *config.Config, name string) bool {
	for _, c := range cfg.Clients {
		if c.Name == name {
			return true
		}
	}
	return false
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// writeArtifacts writes generated files below the client's output directory
func (s *Service) writeArtifacts(client config.Client, artifacts []ir.Artifact) error {
	for _, a := range artifacts {
		target := filepath.Join(client.OutDir, filepath.FromSlash(a.Path))
		if client.ShouldExcludeFile(target) {
			s.logger.Debug("skipping excluded file", "client", client.Label(), "path", a.Path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
		if err := os.WriteFile(target, a.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}
		s.logger.Info("wrote file", "client", client.Label(), "path", target, "bytes", len(a.Content))
	}
	return nil
}

// executePreCommands executes the pre-generation command for a client
func (s *Service) executePreCommands(ctx context.Context, client config.Client) error {
	command := client.GetPreCommand()
	if len(command) == 0 {
		return nil
	}

	return s.executeCommand(ctx, command, client.OutDir, "pre-command")
}

// executePostGenCommands executes the post-generation command for a client
func (s *Service) executePostGenCommands(ctx context.Context, client config.Client) error {
	command := client.GetPostCommand()
	if len(command) == 0 {
		return nil
	}

	return s.executeCommand(ctx, command, client.OutDir, "post-command")
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.Debug("running command", "label", commandLabel, "command", cmdDescription, "dir", workDir)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}

	return nil
}
