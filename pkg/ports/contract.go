package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	id := "contract-test-snapshot-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) *domain.GraphSnapshot {
		return &domain.GraphSnapshot{
			ID:        id,
			Scene:     "contract",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
			Nodes: []domain.NodeSnapshot{{
				Path: "color",
				Type: "morenodes.RGBToHSV",
				Attributes: []domain.AttributeSnapshot{
					{Name: "inputs:rgb", Port: domain.PortInput, Value: []any{0.5, 0.5, 0.5}},
					{Name: "outputs:hsv", Port: domain.PortOutput, Value: []any{0.0, 0.0, 0.5}},
				},
			}},
			Connections: []domain.Connection{{From: "a.outputs:x", To: "color.inputs:rgb"}},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(id)

		err := store.Save(ctx, id, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.ID, loaded.ID)
		assert.Equal(t, snap.Scene, loaded.Scene)
		assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
		require.Len(t, loaded.Nodes, 1)
		assert.Equal(t, "color", loaded.Nodes[0].Path)
		assert.Len(t, loaded.Nodes[0].Attributes, 2)
		assert.Equal(t, snap.Connections, loaded.Connections)
	})

	t.Run("Load is isolated from later mutation", func(t *testing.T) {
		snap := newSnapshot(id)
		require.NoError(t, store.Save(ctx, id, snap))

		snap.Nodes[0].Path = "mutated"

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "color", loaded.Nodes[0].Path)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, newSnapshot(id)))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, newSnapshot(id1))
		_ = store.Save(ctx, id2, newSnapshot(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
