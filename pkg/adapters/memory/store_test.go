package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunLocationStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	loc := &domain.Location{
		Path:    "/users/1",
		Params:  map[string]string{"id": "1"},
		Matched: []*domain.Handler{{Name: "user"}},
	}
	require.NoError(t, store.Save(ctx, "s1", loc))

	loc.Params["id"] = "changed"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1", loaded.Params["id"])
	assert.Nil(t, loaded.Matched)

	loaded.Params["id"] = "again"
	reloaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1", reloaded.Params["id"])
}
