package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrInvalidType     = errors.New("invalid property type")
)

// ImageReport tells the caller how many submitted images were persisted.
// Image writes are best-effort: a failed image batch never rolls back the
// property document, it shows up here instead.
type ImageReport struct {
	Saved int    `json:"saved"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

type Mutator struct {
	store     store.Store
	resolver  *Resolver
	allocator *Allocator
	log       *zap.Logger

	maxImages     int
	maxImageBytes int
}

func NewMutator(st store.Store, resolver *Resolver, allocator *Allocator, log *zap.Logger, maxImages, maxImageBytes int) *Mutator {
	if maxImages <= 0 {
		maxImages = 12
	}
	if maxImageBytes <= 0 {
		maxImageBytes = 1048576
	}
	return &Mutator{
		store:         st,
		resolver:      resolver,
		allocator:     allocator,
		log:           log,
		maxImages:     maxImages,
		maxImageBytes: maxImageBytes,
	}
}

// Create never auto-creates a referenced location or type; both must exist
// before a property can point at them.
func (m *Mutator) Create(ctx context.Context, req models.CreatePropertyRequest) (string, ImageReport, error) {
	locationID, err := m.resolver.ResolveLocation(ctx, req.Area, req.City)
	if errors.Is(err, store.ErrNotFound) {
		return "", ImageReport{}, ErrInvalidLocation
	}
	if err != nil {
		return "", ImageReport{}, err
	}

	typeID, err := m.resolver.ResolveType(ctx, req.Type)
	if errors.Is(err, store.ErrNotFound) {
		return "", ImageReport{}, ErrInvalidType
	}
	if err != nil {
		return "", ImageReport{}, err
	}

	id, err := m.allocator.NextPropertyID(ctx, req.TransactionType)
	if err != nil {
		return "", ImageReport{}, err
	}

	now := time.Now().UTC()
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p := models.Property{
		ID:              id,
		Title:           req.Title,
		LocationID:      locationID,
		TypeID:          typeID,
		City:            req.City,
		Price:           clampNonNegative(req.Price),
		Bedrooms:        clampInt(req.Bedrooms),
		Bathrooms:       clampInt(req.Bathrooms),
		Sqft:            clampInt(req.Sqft),
		Description:     req.Description,
		TransactionType: req.TransactionType,
		IsFeatured:      req.IsFeatured,
		IsActive:        active,
		Amenities:       req.Amenities,
		Highlights:      req.Highlights,
		BrochureURL:     req.BrochureURL,
		MapURL:          req.MapURL,
		VideoURL:        req.VideoURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := m.store.Collection(models.PropertiesCollection).Doc(id).Set(ctx, p.Doc()); err != nil {
		return "", ImageReport{}, err
	}

	report := m.writeImages(ctx, id, req.Images, now)
	return id, report, nil
}

func (m *Mutator) writeImages(ctx context.Context, propertyID string, images []string, now time.Time) ImageReport {
	report := ImageReport{Total: len(images)}
	if len(images) == 0 {
		return report
	}

	// Images beyond the cap are dropped; oversized payloads are truncated
	// to the byte ceiling rather than rejected.
	if len(images) > m.maxImages {
		images = images[:m.maxImages]
	}

	batch := m.store.Batch()
	for i, data := range images {
		if len(data) > m.maxImageBytes {
			data = data[:m.maxImageBytes]
		}
		img := models.PropertyImage{
			PropertyID:   propertyID,
			ImageData:    data,
			DisplayOrder: i,
			CreatedAt:    now,
		}
		batch.Set(models.ImagesCollection, uuid.NewString(), img.Doc())
	}
	if err := batch.Commit(ctx); err != nil {
		m.log.Error("image batch write failed",
			zap.String("property_id", propertyID), zap.Error(err))
		report.Error = "failed to save images"
		return report
	}
	report.Saved = len(images)
	return report
}

// Update merges only the supplied fields. A supplied images array (even an
// empty one) replaces the whole existing image set, no diffing.
func (m *Mutator) Update(ctx context.Context, id string, req models.UpdatePropertyRequest) (ImageReport, error) {
	ref := m.store.Collection(models.PropertiesCollection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return ImageReport{}, err
	}

	now := time.Now().UTC()
	fields := map[string]any{"updated_at": now}

	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Type != nil {
		typeID, err := m.resolver.ResolveType(ctx, *req.Type)
		if errors.Is(err, store.ErrNotFound) {
			return ImageReport{}, ErrInvalidType
		}
		if err != nil {
			return ImageReport{}, err
		}
		fields["type_id"] = typeID
	}
	if req.Area != nil {
		city := ""
		if req.City != nil {
			city = *req.City
		}
		locationID, err := m.resolver.ResolveLocation(ctx, *req.Area, city)
		if errors.Is(err, store.ErrNotFound) {
			return ImageReport{}, ErrInvalidLocation
		}
		if err != nil {
			return ImageReport{}, err
		}
		fields["location_id"] = locationID
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Price != nil {
		fields["price"] = clampNonNegative(*req.Price)
	}
	if req.Bedrooms != nil {
		fields["bedrooms"] = clampInt(*req.Bedrooms)
	}
	if req.Bathrooms != nil {
		fields["bathrooms"] = clampInt(*req.Bathrooms)
	}
	if req.Sqft != nil {
		fields["sqft"] = clampInt(*req.Sqft)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.TransactionType != nil {
		fields["transaction_type"] = *req.TransactionType
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Amenities != nil {
		fields["amenities"] = *req.Amenities
	}
	if req.Highlights != nil {
		fields["highlights"] = *req.Highlights
	}
	if req.BrochureURL != nil {
		fields["brochure_url"] = *req.BrochureURL
	}
	if req.MapURL != nil {
		fields["map_url"] = *req.MapURL
	}
	if req.VideoURL != nil {
		fields["video_url"] = *req.VideoURL
	}

	if err := ref.Update(ctx, fields); err != nil {
		return ImageReport{}, err
	}

	if req.Images == nil {
		return ImageReport{}, nil
	}
	return m.replaceImages(ctx, id, *req.Images, now)
}

func (m *Mutator) replaceImages(ctx context.Context, propertyID string, images []string, now time.Time) (ImageReport, error) {
	existing, err := m.store.Collection(models.ImagesCollection).
		Where("property_id", "==", propertyID).Get(ctx)
	if err != nil {
		return ImageReport{Total: len(images), Error: "failed to load existing images"}, nil
	}

	report := ImageReport{Total: len(images)}
	keep := images
	if len(keep) > m.maxImages {
		keep = keep[:m.maxImages]
	}

	batch := m.store.Batch()
	for _, doc := range existing {
		batch.Delete(models.ImagesCollection, doc.ID)
	}
	for i, data := range keep {
		if len(data) > m.maxImageBytes {
			data = data[:m.maxImageBytes]
		}
		img := models.PropertyImage{
			PropertyID:   propertyID,
			ImageData:    data,
			DisplayOrder: i,
			CreatedAt:    now,
		}
		batch.Set(models.ImagesCollection, uuid.NewString(), img.Doc())
	}
	if err := batch.Commit(ctx); err != nil {
		m.log.Error("image replace failed",
			zap.String("property_id", propertyID), zap.Error(err))
		report.Error = "failed to save images"
		return report, nil
	}
	report.Saved = len(keep)
	return report, nil
}

// Delete removes the property and every image referencing it in one batch.
func (m *Mutator) Delete(ctx context.Context, id string) error {
	ref := m.store.Collection(models.PropertiesCollection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return err
	}

	images, err := m.store.Collection(models.ImagesCollection).
		Where("property_id", "==", id).Get(ctx)
	if err != nil {
		return fmt.Errorf("load images for delete: %w", err)
	}

	batch := m.store.Batch()
	for _, doc := range images {
		batch.Delete(models.ImagesCollection, doc.ID)
	}
	batch.Delete(models.PropertiesCollection, id)
	return batch.Commit(ctx)
}

func (m *Mutator) SetFeatured(ctx context.Context, id string, featured bool) error {
	return m.store.Collection(models.PropertiesCollection).Doc(id).Update(ctx, map[string]any{
		"is_featured": featured,
		"updated_at":  time.Now().UTC(),
	})
}

func (m *Mutator) SetActive(ctx context.Context, id string, active bool) error {
	return m.store.Collection(models.PropertiesCollection).Doc(id).Update(ctx, map[string]any{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
