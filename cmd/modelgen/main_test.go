package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
package: zoo
models:
  - name: Animal
    fields:
      - name: species
        type: string
    methods:
      - name: speak
        returns: string
proxies:
  - name: Keeper
    wraps: Animal
`

func runModelgen(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "zoo.yaml", testSchema)
	out := filepath.Join(dir, "zoo_types.go")

	stdout, err := runModelgen(t, "generate", "--config", dir, "--log-level", "error", "-s", schema, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+out)

	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Code generated by modelgen. DO NOT EDIT.")
	assert.Contains(t, string(src), "func (x Keeper) Speak() (string, error) {")
}

func TestGenerateCommandDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "zoo.yaml", testSchema)
	writeFile(t, dir, "modelgen.toml", `
[log]
level = "error"

[generate]
header = "// Generated for the zoo. DO NOT EDIT."
suffix = "_wrappers.go"
`)

	_, err := runModelgen(t, "generate", "--config", dir, "--schema", schema)
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(dir, "zoo_wrappers.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Generated for the zoo. DO NOT EDIT.\n")
}

func TestGenerateCommandReusedDerivesEachOutput(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.yaml", testSchema)
	second := writeFile(t, dir, "second.yaml", testSchema)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cmd.SetArgs([]string{"generate", "--config", dir, "--log-level", "error", "-s", first})
	require.NoError(t, cmd.Execute())
	cmd.SetArgs([]string{"generate", "--config", dir, "--log-level", "error", "-s", second})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(dir, "first_gen.go"))
	assert.FileExists(t, filepath.Join(dir, "second_gen.go"))
	assert.Contains(t, out.String(), "wrote "+filepath.Join(dir, "second_gen.go"))
}

func TestGenerateCommandErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("schema flag required", func(t *testing.T) {
		_, err := runModelgen(t, "generate", "--config", dir)
		assert.Error(t, err)
	})

	t.Run("missing schema file", func(t *testing.T) {
		_, err := runModelgen(t, "generate", "--config", dir, "--log-level", "error", "-s", filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		schema := writeFile(t, dir, "zoo.yaml", testSchema)
		_, err := runModelgen(t, "generate", "--config", dir, "--log-level", "loud", "-s", schema)
		assert.Error(t, err)
	})
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", testSchema)
	bad := writeFile(t, dir, "bad.yaml", "package: zoo\nproxies:\n  - name: Keeper\n    wraps: Animal\n")

	stdout, err := runModelgen(t, "validate", "--config", dir, "--log-level", "error", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK: "+good)

	stdout, err = runModelgen(t, "validate", "--config", dir, "--log-level", "error", good, bad)
	require.Error(t, err)
	assert.Contains(t, stdout, "OK: "+good)
	assert.Contains(t, stdout, "ERROR in "+bad)
	assert.Contains(t, err.Error(), "1 of 2 schema(s) invalid")
}

func TestDefaultOutPath(t *testing.T) {
	assert.Equal(t, "schema_gen.go", defaultOutPath("schema.yaml", "_gen.go"))
	assert.Equal(t, filepath.Join("a", "b_gen.go"), defaultOutPath(filepath.Join("a", "b.yml"), "_gen.go"))
}
