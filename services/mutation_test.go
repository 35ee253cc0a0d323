package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

func newMutator(st *store.MemoryStore, maxImages, maxImageBytes int) *Mutator {
	log := zap.NewNop()
	resolver := NewResolver(st, log, 500)
	return NewMutator(st, resolver, NewAllocator(st), log, maxImages, maxImageBytes)
}

func validCreateRequest() models.CreatePropertyRequest {
	return models.CreatePropertyRequest{
		Title:           "T",
		Type:            "Apartment",
		Area:            "Gachibowli",
		City:            "Hyderabad",
		Price:           8500000,
		TransactionType: "Sale",
	}
}

func TestCreateThenFetch(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	id, images, err := m.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^B#\d{3}$`), id)
	assert.Equal(t, ImageReport{}, images)

	doc, err := st.Collection(models.PropertiesCollection).Doc(id).Get(ctx)
	require.NoError(t, err)
	p := models.PropertyFromDoc(doc)
	assert.Equal(t, "T", p.Title)
	assert.Equal(t, "loc-gachi", p.LocationID)
	assert.Equal(t, "type-apt", p.TypeID)
	assert.Equal(t, "Sale", p.TransactionType)
	assert.True(t, p.IsActive)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateRentUsesRentPrefix(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)

	req := validCreateRequest()
	req.TransactionType = "Rent"
	id, _, err := m.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^R#\d{3}$`), id)
}

func TestCreateMissingReferences(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	req := validCreateRequest()
	req.Area = "Nonexistent Place"
	_, _, err := m.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidLocation)

	req = validCreateRequest()
	req.Type = "Castle"
	_, _, err = m.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidType)

	// Neither failed create may have written a property document.
	docs, err := st.Collection(models.PropertiesCollection).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCreateImageCapAndTruncation(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 2, 10)
	ctx := context.Background()

	req := validCreateRequest()
	req.Images = []string{strings.Repeat("x", 50), "small", "dropped", "also-dropped"}

	id, report, err := m.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Saved)
	assert.Less(t, report.Saved, report.Total)
	assert.Empty(t, report.Error)

	docs, err := st.Collection(models.ImagesCollection).Where("property_id", "==", id).Get(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		img := models.ImageFromDoc(doc)
		assert.LessOrEqual(t, len(img.ImageData), 10)
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	id, _, err := m.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	newTitle := "Renamed"
	newPrice := 9000000.0
	_, err = m.Update(ctx, id, models.UpdatePropertyRequest{Title: &newTitle, Price: &newPrice})
	require.NoError(t, err)

	doc, err := st.Collection(models.PropertiesCollection).Doc(id).Get(ctx)
	require.NoError(t, err)
	p := models.PropertyFromDoc(doc)
	assert.Equal(t, "Renamed", p.Title)
	assert.Equal(t, 9000000.0, p.Price)
	// Untouched fields survive the merge.
	assert.Equal(t, "Sale", p.TransactionType)
	assert.Equal(t, "loc-gachi", p.LocationID)
}

func TestUpdateUnknownProperty(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)

	title := "x"
	_, err := m.Update(context.Background(), "B#999", models.UpdatePropertyRequest{Title: &title})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateReplacesImageSet(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	req := validCreateRequest()
	req.Images = []string{"old-0", "old-1", "old-2"}
	id, _, err := m.Create(ctx, req)
	require.NoError(t, err)

	newImages := []string{"new-0", "new-1"}
	report, err := m.Update(ctx, id, models.UpdatePropertyRequest{Images: &newImages})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Saved)

	docs, err := st.Collection(models.ImagesCollection).Where("property_id", "==", id).Get(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	seen := map[int]string{}
	for _, doc := range docs {
		img := models.ImageFromDoc(doc)
		seen[img.DisplayOrder] = img.ImageData
	}
	assert.Equal(t, map[int]string{0: "new-0", 1: "new-1"}, seen)
}

func TestUpdateWithEmptyImagesClearsSet(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	req := validCreateRequest()
	req.Images = []string{"only"}
	id, _, err := m.Create(ctx, req)
	require.NoError(t, err)

	empty := []string{}
	_, err = m.Update(ctx, id, models.UpdatePropertyRequest{Images: &empty})
	require.NoError(t, err)

	docs, err := st.Collection(models.ImagesCollection).Where("property_id", "==", id).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDeleteCascadesImages(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	req := validCreateRequest()
	req.Images = []string{"a", "b", "c"}
	id, _, err := m.Create(ctx, req)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))

	_, err = st.Collection(models.PropertiesCollection).Doc(id).Get(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	docs, err := st.Collection(models.ImagesCollection).Where("property_id", "==", id).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSetFeaturedAndActive(t *testing.T) {
	st := store.NewMemory()
	seedReferenceData(t, st)
	m := newMutator(st, 12, 1048576)
	ctx := context.Background()

	id, _, err := m.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, m.SetFeatured(ctx, id, true))
	require.NoError(t, m.SetActive(ctx, id, false))

	doc, err := st.Collection(models.PropertiesCollection).Doc(id).Get(ctx)
	require.NoError(t, err)
	p := models.PropertyFromDoc(doc)
	assert.True(t, p.IsFeatured)
	assert.False(t, p.IsActive)

	assert.ErrorIs(t, m.SetFeatured(ctx, "B#999", true), store.ErrNotFound)
}
