package generator

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/config"
)

func writeSpec(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "builder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(builderYAML), 0o644))
	return path
}

func testService(buf *bytes.Buffer) *Service {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clock := func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }
	return NewService(WithLogger(logger), WithClock(clock))
}

func TestServiceGenerateFallback(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	var logs bytes.Buffer

	err := testService(&logs).Generate(context.Background(), GenerateOptions{
		Fallback: FallbackOptions{
			Spec:               writeSpec(t, dir),
			Type:               "flow",
			OutDir:             out,
			IncludeControllers: []string{"^pets$"},
		},
	})
	require.NoError(t, err)

	client, err := os.ReadFile(filepath.Join(out, "builder-client.js"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "function petsGet(")
	assert.NotContains(t, string(client), "function userList(")
	assert.FileExists(t, filepath.Join(out, "builder-client-flowtypes.js"))
	assert.Contains(t, logs.String(), "wrote file")
}

func TestServiceGenerateFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Spec: writeSpec(t, dir),
		Clients: []config.Client{
			{Type: "flow", Name: "first", OutDir: filepath.Join(dir, "first"), ExcludeFiles: []string{"first-flowtypes.js"}},
			{Type: "flow", Name: "second", OutDir: filepath.Join(dir, "second")},
		},
	}
	var logs bytes.Buffer

	require.NoError(t, testService(&logs).GenerateFromConfig(context.Background(), cfg, "first"))
	assert.FileExists(t, filepath.Join(dir, "first", "first.js"))
	assert.NoFileExists(t, filepath.Join(dir, "first", "first-flowtypes.js"))
	assert.NoDirExists(t, filepath.Join(dir, "second"))
}

func TestServiceErrors(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	svc := testService(&logs)

	err := svc.Generate(context.Background(), GenerateOptions{})
	assert.Error(t, err, "neither a config nor fallback options")

	cfg := &config.Config{Spec: writeSpec(t, dir), Clients: []config.Client{{Type: "flow", OutDir: dir, IncludeControllers: []string{"("}}}}
	assert.Error(t, svc.GenerateFromConfig(context.Background(), cfg, ""))

	cfg = &config.Config{Spec: filepath.Join(dir, "missing.yaml"), Clients: []config.Client{{Type: "flow", OutDir: dir}}}
	assert.Error(t, svc.GenerateFromConfig(context.Background(), cfg, ""))
}

func TestServiceUnknownClient(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	cfg := &config.Config{
		Spec:    writeSpec(t, dir),
		Clients: []config.Client{{Type: "flow", Name: "first", OutDir: filepath.Join(dir, "first")}},
	}

	err := testService(&logs).GenerateFromConfig(context.Background(), cfg, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `client "missing" not found in config`)
	assert.NoDirExists(t, filepath.Join(dir, "first"))
}

func TestServiceCompile(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer

	spec, err := testService(&logs).Compile(context.Background(), writeSpec(t, dir), false)
	require.NoError(t, err)
	assert.Len(t, spec.Operations, 5)
	assert.Equal(t, 2026, spec.GeneratedAt.Year())
}

func TestRegistryTypes(t *testing.T) {
	assert.Equal(t, []string{"flow", "go"}, DefaultRegistry().GetAvailableTypes())
	_, ok := DefaultRegistry().Get("python")
	assert.False(t, ok)
}
