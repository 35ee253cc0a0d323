package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreQueries(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []struct {
		id   string
		data map[string]any
	}{
		{"a", map[string]any{"city": "Hyderabad", "price": 100.0, "created_at": base}},
		{"b", map[string]any{"city": "Hyderabad", "price": 300.0, "created_at": base.Add(2 * time.Hour)}},
		{"c", map[string]any{"city": "Pune", "price": 200.0, "created_at": base.Add(time.Hour)}},
	}
	for _, d := range docs {
		require.NoError(t, st.Collection("items").Doc(d.id).Set(ctx, d.data))
	}

	t.Run("equality filter", func(t *testing.T) {
		got, err := st.Collection("items").Where("city", "==", "Hyderabad").Get(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("in filter", func(t *testing.T) {
		got, err := st.Collection("items").Where("city", "in", []string{"Pune"}).Get(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].ID)
	})

	t.Run("order desc with limit", func(t *testing.T) {
		got, err := st.Collection("items").OrderBy("created_at", true).Limit(2).Get(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
	})

	t.Run("order asc on numbers", func(t *testing.T) {
		got, err := st.Collection("items").OrderBy("price", false).Get(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "b", got[2].ID)
	})

	t.Run("missing doc", func(t *testing.T) {
		_, err := st.Collection("items").Doc("nope").Get(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStoreUpdateAndBatch(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	require.NoError(t, st.Collection("items").Doc("a").Set(ctx, map[string]any{"name": "one", "keep": "yes"}))

	require.NoError(t, st.Collection("items").Doc("a").Update(ctx, map[string]any{"name": "two"}))
	doc, err := st.Collection("items").Doc("a").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", doc.Data["name"])
	assert.Equal(t, "yes", doc.Data["keep"])

	assert.ErrorIs(t, st.Collection("items").Doc("missing").Update(ctx, map[string]any{"x": 1}), ErrNotFound)

	batch := st.Batch()
	batch.Set("items", "b", map[string]any{"name": "three"})
	batch.Delete("items", "a")
	require.NoError(t, batch.Commit(ctx))

	_, err = st.Collection("items").Doc("a").Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	doc, err = st.Collection("items").Doc("b").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "three", doc.Data["name"])
}

func TestMemoryStoreTransactionMerge(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	err := st.RunTransaction(ctx, func(tx Tx) error {
		_, err := tx.Get("counters", "c1")
		assert.ErrorIs(t, err, ErrNotFound)
		return tx.Set("counters", "c1", map[string]any{"count": int64(1)})
	})
	require.NoError(t, err)

	err = st.RunTransaction(ctx, func(tx Tx) error {
		doc, err := tx.Get("counters", "c1")
		require.NoError(t, err)
		return tx.Set("counters", "c1", map[string]any{"count": doc.Data["count"].(int64) + 1})
	})
	require.NoError(t, err)

	doc, err := st.Collection("counters").Doc("c1").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Data["count"])
}

func TestMemoryStoreGetCopiesData(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	require.NoError(t, st.Collection("items").Doc("a").Set(ctx, map[string]any{"tags": []any{"x"}}))

	doc, err := st.Collection("items").Doc("a").Get(ctx)
	require.NoError(t, err)
	doc.Data["tags"].([]any)[0] = "mutated"

	again, err := st.Collection("items").Doc("a").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", again.Data["tags"].([]any)[0])
}
