package hclgraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgridgo/depgraph"
)

// writeGrid writes content as a .hcl file in a fresh temp dir and returns the
// file path.
func writeGrid(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func exampleGrid() string {
	return `
node "height" {
  expr = param.x + param.y
}

node "temperature" {
  expr = param.y - node.height
}
`
}

func exampleCtyParams() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberIntVal(1),
		"y": cty.NumberIntVal(5),
	})
}

func TestLoad_ImplicitDependencies(t *testing.T) {
	t.Parallel()

	spec, err := Load(context.Background(), writeGrid(t, exampleGrid()))
	require.NoError(t, err)
	require.Len(t, spec.Nodes, 2)

	assert.Equal(t, []string{"height", "temperature"}, spec.NodeNames())
	assert.Empty(t, spec.Nodes[0].DependsOn)
	assert.Equal(t, []string{"height"}, spec.Nodes[1].DependsOn,
		"a node.height reference must become a dependency")
}

func TestLoad_ExplicitAndImplicitDepsMerge(t *testing.T) {
	t.Parallel()

	grid := `
node "a" {
  expr = 1
}

node "b" {
  expr = 2
}

node "c" {
  depends_on = ["a"]
  expr       = node.a + node.b
}
`
	spec, err := Load(context.Background(), writeGrid(t, grid))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, spec.Nodes[2].DependsOn)
}

func TestLoad_UnknownRootReference(t *testing.T) {
	t.Parallel()

	grid := `
node "a" {
  expr = resource.thing
}
`
	_, err := Load(context.Background(), writeGrid(t, grid))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown reference "resource"`)
}

func TestLoad_DuplicateNodeAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.hcl"), []byte(`
node "a" {
  expr = 1
}
`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.hcl"), []byte(`
node "a" {
  expr = 2
}
`), 0600))

	_, err := Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "a"`)
	assert.Contains(t, err.Error(), "already declared")
}

func TestLoad_NoFiles(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl files")
}

func TestBuildSync_ExampleScenario(t *testing.T) {
	t.Parallel()

	spec, err := Load(context.Background(), writeGrid(t, exampleGrid()))
	require.NoError(t, err)
	g, err := spec.BuildSync()
	require.NoError(t, err)

	results := depgraph.Results{}
	val, err := g.Get("temperature", exampleCtyParams(), results)
	require.NoError(t, err)

	assert.True(t, val.(cty.Value).Equals(cty.NumberIntVal(-1)).True())
	assert.True(t, results["height"].(cty.Value).Equals(cty.NumberIntVal(6)).True())
}

func TestBuildAsync_ExampleScenario(t *testing.T) {
	t.Parallel()

	spec, err := Load(context.Background(), writeGrid(t, exampleGrid()))
	require.NoError(t, err)
	g, err := spec.BuildAsync()
	require.NoError(t, err)

	ctx := context.Background()
	val, err := g.GetMany(ctx, spec.NodeNames(), exampleCtyParams(), nil).Wait(ctx)
	require.NoError(t, err)

	resolved := val.(map[string]any)
	assert.True(t, resolved["temperature"].(cty.Value).Equals(cty.NumberIntVal(-1)).True())
	assert.True(t, resolved["height"].(cty.Value).Equals(cty.NumberIntVal(6)).True())
}

func TestBuild_DeclarationOrderIsFree(t *testing.T) {
	t.Parallel()

	// The dependent is declared before its dependency; the loader must still
	// register them in an order the engine accepts.
	grid := `
node "temperature" {
  expr = param.y - node.height
}

node "height" {
  expr = param.x + param.y
}
`
	spec, err := Load(context.Background(), writeGrid(t, grid))
	require.NoError(t, err)

	g, err := spec.BuildSync()
	require.NoError(t, err)

	val, err := g.Get("temperature", exampleCtyParams(), nil)
	require.NoError(t, err)
	assert.True(t, val.(cty.Value).Equals(cty.NumberIntVal(-1)).True())
}

func TestBuild_MissingDependencySurfacesEngineError(t *testing.T) {
	t.Parallel()

	grid := `
node "orphan" {
  expr = node.nonexistent + 1
}
`
	spec, err := Load(context.Background(), writeGrid(t, grid))
	require.NoError(t, err)

	_, err = spec.BuildSync()
	var unknown *depgraph.UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "orphan", unknown.ID)
	assert.Equal(t, "nonexistent", unknown.Dependency)
}

func TestBuild_ExpressionFunctions(t *testing.T) {
	t.Parallel()

	grid := `
node "name" {
  expr = upper(param.who)
}

node "greeting" {
  expr = format("hello, %s!", node.name)
}
`
	spec, err := Load(context.Background(), writeGrid(t, grid))
	require.NoError(t, err)
	g, err := spec.BuildSync()
	require.NoError(t, err)

	params := cty.ObjectVal(map[string]cty.Value{"who": cty.StringVal("world")})
	val, err := g.Get("greeting", params, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello, WORLD!", val.(cty.Value).AsString())
}

func TestBuild_EvalErrorPropagates(t *testing.T) {
	t.Parallel()

	grid := `
node "bad" {
  expr = param.missing + 1
}
`
	spec, err := Load(context.Background(), writeGrid(t, grid))
	require.NoError(t, err)
	g, err := spec.BuildSync()
	require.NoError(t, err)

	_, err = g.Get("bad", cty.EmptyObjectVal, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "bad"`)
}
