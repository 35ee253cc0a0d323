package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

type Filters struct {
	TransactionType string
	Type            string
	Area            string
	City            string
	Featured        *bool
	Active          *bool
	Search          string
	Budget          string
	MinPrice        *float64
	MaxPrice        *float64
	Limit           int
	Offset          int
}

type SearchResult struct {
	Properties []models.Property

	// Total counts the in-memory-filtered set, not the whole collection.
	// The store fetch is capped at a buffer size, so Total (and hasMore
	// derived from it) can undercount when true matches exceed the cap.
	// Accepted trade-off for not scanning the collection on every query.
	Total int
}

type Searcher struct {
	store    store.Store
	resolver *Resolver
	log      *zap.Logger
	buffer   int
	maxFetch int
}

func NewSearcher(st store.Store, resolver *Resolver, log *zap.Logger, buffer, maxFetch int) *Searcher {
	if buffer <= 0 {
		buffer = 50
	}
	if maxFetch <= 0 {
		maxFetch = 500
	}
	return &Searcher{store: st, resolver: resolver, log: log, buffer: buffer, maxFetch: maxFetch}
}

func (s *Searcher) Search(ctx context.Context, f Filters) (SearchResult, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	// A filter naming a location or type that does not exist is a valid
	// zero-match query, not an error.
	var typeID, locationID string
	if f.Type != "" {
		id, err := s.resolver.ResolveType(ctx, f.Type)
		if errors.Is(err, store.ErrNotFound) {
			return SearchResult{Properties: []models.Property{}}, nil
		}
		if err != nil {
			return SearchResult{}, err
		}
		typeID = id
	}
	if f.Area != "" {
		id, err := s.resolver.ResolveLocation(ctx, f.Area, f.City)
		if errors.Is(err, store.ErrNotFound) {
			return SearchResult{Properties: []models.Property{}}, nil
		}
		if err != nil {
			return SearchResult{}, err
		}
		locationID = id
	}

	active := true
	if f.Active != nil {
		active = *f.Active
	}

	// Filter order is fixed to stay compound-index friendly.
	q := store.Query(s.store.Collection(models.PropertiesCollection)).
		Where("is_active", "==", active)
	if f.TransactionType != "" {
		q = q.Where("transaction_type", "==", f.TransactionType)
	}
	if typeID != "" {
		q = q.Where("type_id", "==", typeID)
	}
	if locationID != "" {
		q = q.Where("location_id", "==", locationID)
	}
	if f.City != "" && f.Area == "" {
		q = q.Where("city", "==", f.City)
	}
	if f.Featured != nil {
		q = q.Where("is_featured", "==", *f.Featured)
	}

	fetch := f.Limit + f.Offset + s.buffer
	if fetch > s.maxFetch {
		fetch = s.maxFetch
	}
	docs, err := q.OrderBy("created_at", true).Limit(fetch).Get(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	props := make([]models.Property, 0, len(docs))
	for _, doc := range docs {
		props = append(props, models.PropertyFromDoc(doc))
	}

	if f.Search != "" {
		props = filterText(props, f.Search)
	}
	if min, max, ok := priceRange(f); ok {
		props = filterPrice(props, min, max)
	}

	total := len(props)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}

	return SearchResult{Properties: props[start:end], Total: total}, nil
}

func filterText(props []models.Property, needle string) []models.Property {
	needle = strings.ToLower(needle)
	out := props[:0]
	for _, p := range props {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.ID), needle) {
			out = append(out, p)
		}
	}
	return out
}

func filterPrice(props []models.Property, min, max float64) []models.Property {
	out := props[:0]
	for _, p := range props {
		if p.Price >= min && p.Price <= max {
			out = append(out, p)
		}
	}
	return out
}

func priceRange(f Filters) (min, max float64, ok bool) {
	min, max = 0, math.Inf(1)
	if f.MinPrice != nil && !math.IsNaN(*f.MinPrice) {
		min, ok = *f.MinPrice, true
	}
	if f.MaxPrice != nil && !math.IsNaN(*f.MaxPrice) {
		max, ok = *f.MaxPrice, true
	}
	if ok {
		return min, max, true
	}
	return parseBudget(f.Budget)
}

// parseBudget reads the compact "min-max" range encoding: "2500000-5000000",
// "50000000-" (open above) or "-2500000" (open below). Anything that does not
// parse into numeric parts means no price filter.
func parseBudget(budget string) (min, max float64, ok bool) {
	min, max = 0, math.Inf(1)
	budget = strings.TrimSpace(budget)
	if budget == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(budget, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, hi := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if lo == "" && hi == "" {
		return 0, 0, false
	}
	if lo != "" {
		v, err := strconv.ParseFloat(lo, 64)
		if err != nil || math.IsNaN(v) {
			return 0, 0, false
		}
		min = v
	}
	if hi != "" {
		v, err := strconv.ParseFloat(hi, 64)
		if err != nil || math.IsNaN(v) {
			return 0, 0, false
		}
		max = v
	}
	return min, max, true
}
