package openapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// supportedVersions is the accepted range of the top-level swagger field
const supportedVersions = ">= 2.0, < 3.0"

// Settings configures loader behavior
type Settings struct {
	// HTTPClient fetches http(s) inputs
	HTTPClient *http.Client
	// HTTPTimeout bounds the fetch when HTTPClient is not set
	HTTPTimeout time.Duration
}

// Option mutates Settings
type Option func(*Settings)

// WithHTTPClient sets the client used for http(s) inputs
func WithHTTPClient(c *http.Client) Option { return func(s *Settings) { s.HTTPClient = c } }

// WithHTTPTimeout bounds the fetch of http(s) inputs
func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }

// DefaultSettings returns the loader defaults
func DefaultSettings() Settings {
	return Settings{HTTPTimeout: 30 * time.Second}
}

// IsURL reports whether input is an http(s) URL rather than a file path
func IsURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads a Swagger 2.0 document from a local file path or an HTTP(S) URL
func Load(ctx context.Context, input string, opts ...Option) (*Document, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &SpecError{Code: InputError, Message: "openapi: input is empty"}
	}
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	if IsURL(input) {
		raw, err := fetch(ctx, input, settings)
		if err != nil {
			return nil, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		return Parse(raw, input)
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("read file: %v", err), Location: abs, Cause: err}
	}
	return Parse(raw, abs)
}

// Parse decodes a Swagger 2.0 document held in memory. location is only used for messages
// and for the source note of generated files.
func Parse(data []byte, location string) (*Document, error) {
	root, err := parseNode(data)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse document: %v", err), Location: location, Cause: err}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &SpecError{Code: ParseError, Message: "document root is not an object", Location: location}
	}

	version, err := detectVersion(root)
	if err != nil {
		return nil, &SpecError{Code: VersionError, Message: err.Error(), Location: location, Cause: err}
	}

	d := newDecoder(root)
	doc, err := d.document()
	if err != nil {
		var se *SpecError
		if errors.As(err, &se) {
			se.Location = location
			return nil, se
		}
		return nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}
	doc.Location = location
	doc.Swagger = version
	doc.raw = data
	return doc, nil
}

// parseNode decodes YAML or JSON into a node tree. JSON that YAML rejects (tab indentation)
// goes through an order-preserving JSON reader.
func parseNode(data []byte) (*yaml.Node, error) {
	var n yaml.Node
	yerr := yaml.Unmarshal(data, &n)
	if yerr == nil {
		if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
			return n.Content[0], nil
		}
		return nil, fmt.Errorf("empty document")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return decodeJSONNode(trimmed)
	}
	return nil, yerr
}

// detectVersion checks the swagger field against the supported range
func detectVersion(root *yaml.Node) (string, error) {
	if v := mappingValue(root, "openapi"); v != nil {
		return "", fmt.Errorf("openapi %s documents are not supported, expected swagger 2.0", v.Value)
	}
	v := mappingValue(root, "swagger")
	if v == nil {
		return "", fmt.Errorf("missing swagger version field")
	}
	sv, err := semver.NewVersion(v.Value)
	if err != nil {
		return "", fmt.Errorf("invalid swagger version %q: %w", v.Value, err)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return "", err
	}
	if !c.Check(sv) {
		return "", fmt.Errorf("swagger version %s is outside %s", v.Value, supportedVersions)
	}
	return v.Value, nil
}

func fetch(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := settings.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: settings.HTTPTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}
