package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

// Resolver maps admin-entered location and type names to document ids. Store
// equality is case-sensitive while admin input may not be, so an exact query
// runs first and a case-insensitive scan of the (small) reference collection
// covers the rest. scanLimit documents the small-collection assumption: a
// bigger collection still resolves, but logs a warning.
type Resolver struct {
	store     store.Store
	log       *zap.Logger
	scanLimit int
}

func NewResolver(st store.Store, log *zap.Logger, scanLimit int) *Resolver {
	if scanLimit <= 0 {
		scanLimit = 500
	}
	return &Resolver{store: st, log: log, scanLimit: scanLimit}
}

func (r *Resolver) ResolveLocation(ctx context.Context, name, city string) (string, error) {
	q := r.store.Collection(models.LocationsCollection).Where("name", "==", name)
	if city != "" {
		q = q.Where("city", "==", city)
	}
	docs, err := q.Limit(1).Get(ctx)
	if err != nil {
		return "", err
	}
	if len(docs) > 0 {
		return docs[0].ID, nil
	}

	all, err := r.store.Collection(models.LocationsCollection).Get(ctx)
	if err != nil {
		return "", err
	}
	r.warnScan(models.LocationsCollection, len(all))
	for _, doc := range all {
		loc := models.LocationFromDoc(doc)
		if !strings.EqualFold(loc.Name, name) {
			continue
		}
		if city != "" && !strings.EqualFold(loc.City, city) {
			continue
		}
		return doc.ID, nil
	}
	return "", store.ErrNotFound
}

func (r *Resolver) ResolveType(ctx context.Context, name string) (string, error) {
	docs, err := r.store.Collection(models.TypesCollection).
		Where("name", "==", name).Limit(1).Get(ctx)
	if err != nil {
		return "", err
	}
	if len(docs) > 0 {
		return docs[0].ID, nil
	}

	all, err := r.store.Collection(models.TypesCollection).Get(ctx)
	if err != nil {
		return "", err
	}
	r.warnScan(models.TypesCollection, len(all))
	for _, doc := range all {
		if strings.EqualFold(models.TypeFromDoc(doc).Name, name) {
			return doc.ID, nil
		}
	}
	return "", store.ErrNotFound
}

func (r *Resolver) warnScan(collection string, size int) {
	if size > r.scanLimit {
		r.log.Warn("reference collection exceeds scan guard",
			zap.String("collection", collection),
			zap.Int("size", size),
			zap.Int("limit", r.scanLimit))
	}
}
