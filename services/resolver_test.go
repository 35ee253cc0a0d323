package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

func seedReferenceData(t *testing.T, st *store.MemoryStore) (locID, typeID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Collection(models.LocationsCollection).Doc("loc-gachi").
		Set(ctx, models.Location{Name: "Gachibowli", City: "Hyderabad"}.Doc()))
	require.NoError(t, st.Collection(models.TypesCollection).Doc("type-apt").
		Set(ctx, models.PropertyType{Name: "Apartment"}.Doc()))
	return "loc-gachi", "type-apt"
}

func TestResolveLocation(t *testing.T) {
	st := store.NewMemory()
	locID, _ := seedReferenceData(t, st)
	r := NewResolver(st, zap.NewNop(), 500)
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		id, err := r.ResolveLocation(ctx, "Gachibowli", "Hyderabad")
		require.NoError(t, err)
		assert.Equal(t, locID, id)
	})

	t.Run("exact match without city", func(t *testing.T) {
		id, err := r.ResolveLocation(ctx, "Gachibowli", "")
		require.NoError(t, err)
		assert.Equal(t, locID, id)
	})

	t.Run("case-insensitive fallback", func(t *testing.T) {
		for _, name := range []string{"gachibowli", "GACHIBOWLI", "GaChIbOwLi"} {
			id, err := r.ResolveLocation(ctx, name, "")
			require.NoError(t, err, name)
			assert.Equal(t, locID, id, name)
		}
	})

	t.Run("case-insensitive city comparison", func(t *testing.T) {
		id, err := r.ResolveLocation(ctx, "gachibowli", "hyderabad")
		require.NoError(t, err)
		assert.Equal(t, locID, id)
	})

	t.Run("city mismatch is not found", func(t *testing.T) {
		_, err := r.ResolveLocation(ctx, "gachibowli", "Pune")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := r.ResolveLocation(ctx, "Nonexistent Place", "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestResolveType(t *testing.T) {
	st := store.NewMemory()
	_, typeID := seedReferenceData(t, st)
	r := NewResolver(st, zap.NewNop(), 500)
	ctx := context.Background()

	id, err := r.ResolveType(ctx, "Apartment")
	require.NoError(t, err)
	assert.Equal(t, typeID, id)

	id, err = r.ResolveType(ctx, "apartment")
	require.NoError(t, err)
	assert.Equal(t, typeID, id)

	_, err = r.ResolveType(ctx, "Castle")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
