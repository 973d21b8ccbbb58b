package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petSpec = `swagger: "2.0"
info:
  title: Pet Store
  version: "1.0"
host: api.example.com
schemes: [https]
paths:
  /pets:
    x-swagger-router-controller: pets
    get:
      responses:
        "200":
          description: all pets
`

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petSpec), 0o644))
	return path
}

func execute(args ...string) (string, error) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func captureGenerate(t *testing.T) *GenerateParams {
	t.Helper()
	captured := &GenerateParams{}
	generateRunner = func(cmd *cobra.Command, p GenerateParams) error {
		*captured = p
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })
	return captured
}

func TestGenerateParamsFromFlags(t *testing.T) {
	captured := captureGenerate(t)

	_, err := execute(
		"--verbose",
		"generate",
		"--input", " spec.yaml ",
		"--type", "GO",
		"--out", "./build",
		"--package-name", "petstore",
		"--module-name", "example.com/petstore",
		"--server-base", "http://localhost:8080",
		"--include-controllers", "^pets$",
		"--include-controllers", "users",
		"--exclude-controllers", "internal",
		"--validate",
	)
	require.NoError(t, err)

	assert.True(t, captured.Verbose)
	assert.Equal(t, "spec.yaml", captured.Fallback.Spec)
	assert.Equal(t, "go", captured.Fallback.Type)
	assert.Equal(t, "./build", captured.Fallback.OutDir)
	assert.Equal(t, "petstore", captured.Fallback.PackageName)
	assert.Equal(t, "example.com/petstore", captured.Fallback.ModuleName)
	assert.Equal(t, "http://localhost:8080", captured.Fallback.ServerBase)
	assert.Equal(t, []string{"^pets$", "users"}, captured.Fallback.IncludeControllers)
	assert.Equal(t, []string{"internal"}, captured.Fallback.ExcludeControllers)
	assert.True(t, captured.Fallback.Validate)
}

func TestGenerateParamsDefaults(t *testing.T) {
	captured := captureGenerate(t)

	_, err := execute("generate", "-c", "genclient.yaml", "--client", "petstore-client")
	require.NoError(t, err)

	assert.Equal(t, "genclient.yaml", captured.ConfigPath)
	assert.Equal(t, "petstore-client", captured.SingleClient)
	assert.Equal(t, "flow", captured.Fallback.Type)
	assert.False(t, captured.Verbose)
	assert.Nil(t, captured.Fallback.IncludeControllers)
}

func TestGenerateUsageErrors(t *testing.T) {
	captureGenerate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"generate", "--out", "x"}, "--input"},
		{"client without config", []string{"generate", "--client", "a", "--input", "a.yaml", "--out", "x"}, "--client requires --config"},
		{"unknown flag", []string{"generate", "--unknown-flag"}, "Usage:"},
		{"validate without input", []string{"validate"}, "--input is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUsage), "expected usage error, got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateWritesFiles(t *testing.T) {
	spec := writeSpec(t)
	out := filepath.Join(t.TempDir(), "generated")

	_, err := execute("generate", "--input", spec, "--out", out, "--name", "pets")
	require.NoError(t, err)

	client, err := os.ReadFile(filepath.Join(out, "pets.js"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "serverHost/*:string*/='https://api.example.com'")
	assert.FileExists(t, filepath.Join(out, "pets-flowtypes.js"))
}

func TestGenerateUnknownType(t *testing.T) {
	spec := writeSpec(t)

	_, err := execute("generate", "--input", spec, "--out", t.TempDir(), "--type", "python")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestValidateCommand(t *testing.T) {
	spec := writeSpec(t)

	out, err := execute("validate", "--input", spec)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "is valid\n"))

	_, err = execute("validate", "--input", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUsage))
}
