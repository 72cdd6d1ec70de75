package tests

import (
	"context"
	"testing"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// SceneLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.SceneLoader.
// The loader must be seeded with want; nodes are compared by path, type and values.
func SceneLoaderContractTest(t *testing.T, loader ports.SceneLoader, want *domain.Scene) {
	t.Helper()

	scene, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error loading scene: %v", err)
	}

	t.Run("Nodes", func(t *testing.T) {
		if len(scene.Nodes) != len(want.Nodes) {
			t.Fatalf("expected %d nodes, got %d", len(want.Nodes), len(scene.Nodes))
		}

		lookup := make(map[string]domain.SceneNode)
		for _, n := range scene.Nodes {
			lookup[n.Path] = n
		}

		for _, expected := range want.Nodes {
			got, ok := lookup[expected.Path]
			if !ok {
				t.Errorf("node %s missing from scene", expected.Path)
				continue
			}
			if got.Type != expected.Type {
				t.Errorf("type mismatch for %s. got %q, want %q", expected.Path, got.Type, expected.Type)
			}
			for name, v := range expected.Values {
				if _, ok := got.Values[name]; !ok {
					t.Errorf("value %s missing on %s (want %v)", name, expected.Path, v)
				}
			}
			if len(got.Dynamic) != len(expected.Dynamic) {
				t.Errorf("dynamic attribute count mismatch for %s. got %d, want %d", expected.Path, len(got.Dynamic), len(expected.Dynamic))
			}
		}
	})

	t.Run("Connections", func(t *testing.T) {
		seen := make(map[domain.Connection]bool)
		for _, c := range scene.Connections {
			seen[c] = true
		}
		for _, c := range want.Connections {
			if !seen[c] {
				t.Errorf("connection %s -> %s missing", c.From, c.To)
			}
		}
	})
}
