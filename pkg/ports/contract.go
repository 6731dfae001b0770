package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLocationStoreContract runs a suite of tests to verify that a LocationStore implementation
// adheres to the defined interface contract.
func RunLocationStoreContract(t *testing.T, store LocationStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		loc := &domain.Location{
			Path:   "/users/42",
			Params: map[string]string{"id": "42"},
			Query:  map[string]string{"tab": "profile"},
		}

		err := store.Save(ctx, sessionID, loc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, loc.Path, loaded.Path)
		assert.Equal(t, "42", loaded.Params["id"])
		assert.Equal(t, "profile", loaded.Query["tab"])
		// Matched handlers are live values and are never persisted.
		assert.Empty(t, loaded.Matched)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, &domain.Location{Path: "/"})
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, &domain.Location{Path: "/a"})
		_ = store.Save(ctx, id2, &domain.Location{Path: "/b"})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
