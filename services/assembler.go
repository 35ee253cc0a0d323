package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

// Store "in" queries take at most this many values per query, so image
// batch fetches are chunked.
const inQueryChunk = 10

// Assembler joins a page of properties with their location, type and image
// documents. Each related document is fetched at most once per page.
type Assembler struct {
	store store.Store
	log   *zap.Logger
}

func NewAssembler(st store.Store, log *zap.Logger) *Assembler {
	return &Assembler{store: st, log: log}
}

func (a *Assembler) Assemble(ctx context.Context, props []models.Property, skipImages bool) []models.PropertyView {
	locations := a.fetchLocations(ctx, props)
	types := a.fetchTypes(ctx, props)

	covers := map[string][]string{}
	if !skipImages {
		covers = a.fetchCovers(ctx, props)
	}

	views := make([]models.PropertyView, 0, len(props))
	for _, p := range props {
		views = append(views, a.project(p, locations[p.LocationID], types[p.TypeID], covers[p.ID]))
	}
	return views
}

func (a *Assembler) AssembleDetail(ctx context.Context, p models.Property) models.PropertyView {
	locations := a.fetchLocations(ctx, []models.Property{p})
	types := a.fetchTypes(ctx, []models.Property{p})
	return a.project(p, locations[p.LocationID], types[p.TypeID], a.fetchAllImages(ctx, p.ID))
}

func (a *Assembler) fetchLocations(ctx context.Context, props []models.Property) map[string]models.Location {
	out := make(map[string]models.Location)
	for _, p := range props {
		if p.LocationID == "" {
			continue
		}
		if _, done := out[p.LocationID]; done {
			continue
		}
		doc, err := a.store.Collection(models.LocationsCollection).Doc(p.LocationID).Get(ctx)
		if err != nil {
			a.log.Warn("location fetch failed", zap.String("location_id", p.LocationID), zap.Error(err))
			out[p.LocationID] = models.Location{}
			continue
		}
		out[p.LocationID] = models.LocationFromDoc(doc)
	}
	return out
}

func (a *Assembler) fetchTypes(ctx context.Context, props []models.Property) map[string]models.PropertyType {
	out := make(map[string]models.PropertyType)
	for _, p := range props {
		if p.TypeID == "" {
			continue
		}
		if _, done := out[p.TypeID]; done {
			continue
		}
		doc, err := a.store.Collection(models.TypesCollection).Doc(p.TypeID).Get(ctx)
		if err != nil {
			a.log.Warn("type fetch failed", zap.String("type_id", p.TypeID), zap.Error(err))
			out[p.TypeID] = models.PropertyType{}
			continue
		}
		out[p.TypeID] = models.TypeFromDoc(doc)
	}
	return out
}

// fetchCovers returns the lowest display_order image per property, one "in"
// query per chunk of property ids.
func (a *Assembler) fetchCovers(ctx context.Context, props []models.Property) map[string][]string {
	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}

	out := make(map[string][]string)
	for start := 0; start < len(ids); start += inQueryChunk {
		end := start + inQueryChunk
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		images, err := a.fetchImageDocs(ctx,
			a.store.Collection(models.ImagesCollection).Where("property_id", "in", chunk))
		if err != nil {
			a.log.Warn("cover image fetch failed", zap.Strings("property_ids", chunk), zap.Error(err))
			continue
		}
		for _, img := range images {
			if _, done := out[img.PropertyID]; !done {
				out[img.PropertyID] = []string{img.ImageData}
			}
		}
	}
	return out
}

func (a *Assembler) fetchAllImages(ctx context.Context, propertyID string) []string {
	images, err := a.fetchImageDocs(ctx,
		a.store.Collection(models.ImagesCollection).Where("property_id", "==", propertyID))
	if err != nil {
		a.log.Warn("image fetch failed", zap.String("property_id", propertyID), zap.Error(err))
		return []string{}
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, img.ImageData)
	}
	return out
}

// fetchImageDocs runs the ordered query, and if the store rejects it (an
// ordered query can require an index that is missing) retries unordered and
// sorts client-side. Results are ascending by display_order either way.
func (a *Assembler) fetchImageDocs(ctx context.Context, q store.Query) ([]models.PropertyImage, error) {
	docs, err := q.OrderBy("display_order", false).Get(ctx)
	if err != nil {
		docs, err = q.Get(ctx)
		if err != nil {
			return nil, err
		}
	}
	images := make([]models.PropertyImage, 0, len(docs))
	for _, doc := range docs {
		images = append(images, models.ImageFromDoc(doc))
	}
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].DisplayOrder < images[j].DisplayOrder
	})
	return images, nil
}

// project builds the public view. A panic while projecting one property
// degrades that item to a minimal view instead of failing the page.
func (a *Assembler) project(p models.Property, loc models.Location, typ models.PropertyType, images []string) (view models.PropertyView) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("projection failed", zap.String("id", p.ID), zap.Any("panic", r))
			view = models.PropertyView{ID: p.ID, Title: p.Title, IsActive: p.IsActive}
		}
	}()

	if images == nil {
		images = []string{}
	}
	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	highlights := p.Highlights
	if highlights == nil {
		highlights = []string{}
	}

	return models.PropertyView{
		ID:              p.ID,
		Title:           p.Title,
		Area:            loc.Name,
		City:            firstNonEmpty(p.City, loc.City),
		Type:            typ.Name,
		Price:           p.Price,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		Sqft:            p.Sqft,
		Description:     p.Description,
		TransactionType: p.TransactionType,
		IsFeatured:      p.IsFeatured,
		IsActive:        p.IsActive,
		Amenities:       amenities,
		Highlights:      highlights,
		BrochureURL:     p.BrochureURL,
		MapURL:          p.MapURL,
		VideoURL:        p.VideoURL,
		Images:          images,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
