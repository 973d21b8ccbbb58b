package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for client generation
type Config struct {
	Spec    string   `yaml:"spec"`
	Clients []Client `yaml:"clients"`
	// Validate runs the OpenAPI schema validation before generating
	Validate bool `yaml:"validate"`
}

// Client represents configuration for a single generated client
type Client struct {
	// Type selects the emitter: "flow" or "go"
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir"`
	// Name is the output base name. Defaults to the kebab-cased title plus "-client".
	Name string `yaml:"name"`
	// PackageName is the Go package of the generated client
	PackageName string `yaml:"packageName"`
	// ModuleName is the Go import path of OutDir, used to import the generated types package
	ModuleName string `yaml:"moduleName"`
	// ServerBase overrides the scheme://host default baked into the client
	ServerBase string `yaml:"serverBase"`
	// IncludeControllers and ExcludeControllers are regexes over x-swagger-router-controller ids
	IncludeControllers []string `yaml:"includeControllers"`
	ExcludeControllers []string `yaml:"excludeControllers"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["npm", "run", "clean"]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// Uses Docker Compose array format: ["gofmt", "-w", "."]
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be written
	ExcludeFiles []string `yaml:"exclude"`
}

// SupportedTypes lists the client types Load accepts
var SupportedTypes = []string{"flow", "go"}

// GetPreCommand returns the pre-generation command to execute.
func (c *Client) GetPreCommand() []string {
	return c.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (c *Client) GetPostCommand() []string {
	return c.PostCommand
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Client) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		return false
	}

	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, excludePattern := range c.ExcludeFiles {
		normalizedExclude := strings.TrimSuffix(filepath.ToSlash(excludePattern), "/")

		if relPath == normalizedExclude {
			return true
		}

		// "types/" excludes everything below types
		if normalizedExclude != "" && strings.HasPrefix(relPath, normalizedExclude+"/") {
			return true
		}
	}

	return false
}

// Label names the client in messages
func (c *Client) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Type
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Normalize(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and makes relative paths absolute against baseDir
func (cfg *Config) Normalize(baseDir string) error {
	if cfg.Spec == "" {
		return errors.New("config.spec is required")
	}
	if len(cfg.Clients) == 0 {
		return errors.New("config.clients must list at least one client")
	}
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		if c.Type == "" || c.OutDir == "" {
			return fmt.Errorf("clients[%d] missing required fields (type, outDir)", i)
		}
		if !supported(c.Type) {
			return fmt.Errorf("clients[%d] has unsupported type %q (expected one of %s)", i, c.Type, strings.Join(SupportedTypes, ", "))
		}
		c.OutDir = absolute(baseDir, c.OutDir)
	}
	// Do not absolutize when spec is an HTTP(S) URL
	if u, err := url.Parse(cfg.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return nil
	}
	cfg.Spec = absolute(baseDir, cfg.Spec)
	return nil
}

func supported(t string) bool {
	for _, s := range SupportedTypes {
		if s == t {
			return true
		}
	}
	return false
}

func absolute(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if baseDir != "" {
		p = filepath.Join(baseDir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
