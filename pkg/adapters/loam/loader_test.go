package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/morenodes/internal/testutils"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoader_Contract(t *testing.T) {
	ctx := context.Background()
	dir, repo := testutils.SetupTestRepo(t)

	writeFiles(t, dir, map[string]string{
		"conv.md": `---
type: morenodes.RGBToHSV
values:
  inputs:rgb: [0.8, 0.2, 0.4]
connections:
  - from: outputs:hsv
    to: log.inputs:dataIn0
---
Converts the brand color.`,
		"log.md": `---
type: morenodes.LoggingNode
values:
  inputs:execIn: ENABLED
---`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo), WithSceneName("brand"), WithSteps(2))

	tests.SceneLoaderContractTest(t, loader, &domain.Scene{
		Nodes: []domain.SceneNode{
			{Path: "conv", Type: "morenodes.RGBToHSV", Values: map[string]any{"inputs:rgb": nil}},
			{Path: "log", Type: "morenodes.LoggingNode", Values: map[string]any{"inputs:execIn": nil}},
		},
		Connections: []domain.Connection{{From: "conv.outputs:hsv", To: "log.inputs:dataIn0"}},
	})

	s, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "brand", s.Name)
	assert.Equal(t, 2, s.Steps)
	require.Len(t, s.Nodes, 2)
	assert.Equal(t, "Converts the brand color.", s.Nodes[0].Note)
	assert.Equal(t, "ENABLED", s.Nodes[1].Values["inputs:execIn"])
}

func TestLoader_OrderAndDynamic(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)

	writeFiles(t, dir, map[string]string{
		"a.md": `---
type: morenodes.LoggingNode
order: 2
---`,
		"b.md": `---
path: matcher
type: morenodes.DynamicMatcher
order: 1
dynamic:
  - name: inputs:data0
    type: double[3]
  - name: outputs:data0
    type: double[3]
---`,
		"README.md": `Documents without a type are not nodes.`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	s, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, s.Nodes, 2)
	assert.Equal(t, "matcher", s.Nodes[0].Path, "explicit path, lower order first")
	assert.Equal(t, "a", s.Nodes[1].Path, "path implied from file name")

	require.Len(t, s.Nodes[0].Dynamic, 2)
	assert.Equal(t, domain.AttributeType{Base: domain.TypeDouble, TupleCount: 3}, s.Nodes[0].Dynamic[0].Type)
}

func TestLoader_DetectsCollisions(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)

	writeFiles(t, dir, map[string]string{
		"foo.md": `---
path: shared
type: morenodes.LoggingNode
---`,
		"bar.md": `---
path: shared
type: morenodes.LoggingNode
---`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "shared")
}

func TestLoader_InvalidDynamic(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)

	writeFiles(t, dir, map[string]string{
		"bad.md": `---
type: morenodes.DynamicMatcher
dynamic:
  - name: inputs:data0
    type: float
---`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown base type")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"conv.md": `---
type: morenodes.RGBToHSV
---`,
	})

	loader, err := Open(dir)
	require.NoError(t, err)

	s, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), s.Name)
	require.Len(t, s.Nodes, 1)
	assert.Equal(t, "conv", s.Nodes[0].Path)
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "n.outputs:x", qualify("n", "outputs:x"))
	assert.Equal(t, "other.inputs:y", qualify("n", "other.inputs:y"))
}
