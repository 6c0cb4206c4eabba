package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	grid := `
node "height" {
  expr = param.x + param.y
}

node "temperature" {
  expr = param.y - node.height
}
`
	path := filepath.Join(t.TempDir(), "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(grid), 0600))

	out := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	err := run(out, errW, []string{"-var", "x=1", "-var", "y=5", path})
	require.NoError(t, err)

	var resolved map[string]float64
	require.NoError(t, json.Unmarshal(out.Bytes(), &resolved))
	assert.Equal(t, float64(-1), resolved["temperature"])
	assert.Equal(t, float64(6), resolved["height"])
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	errW := &bytes.Buffer{}
	err := run(&bytes.Buffer{}, errW, []string{"-h"})
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errW.String(), "Usage:", "Expected help text to be printed")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_InvalidGridFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`node "broken" {`), 0600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load graph")
}
