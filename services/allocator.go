package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

const (
	rentCounterID = "property_id_rent"
	buyCounterID  = "property_id_buy"
)

// Allocator hands out the human-facing property ids (R#001, B#042, ...). The
// counter read-modify-write runs inside a store transaction; uniqueness under
// concurrent creates depends on that.
type Allocator struct {
	store store.Store
}

func NewAllocator(st store.Store) *Allocator {
	return &Allocator{store: st}
}

func counterFor(transactionType string) (prefix, counterID string) {
	switch transactionType {
	case models.TransactionRent, models.TransactionPG:
		return "R", rentCounterID
	default:
		return "B", buyCounterID
	}
}

func (a *Allocator) NextPropertyID(ctx context.Context, transactionType string) (string, error) {
	prefix, counterID := counterFor(transactionType)

	var id string
	err := a.store.RunTransaction(ctx, func(tx store.Tx) error {
		var count int64
		doc, err := tx.Get(models.CountersCollection, counterID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err == nil {
			if n, ok := doc.Data["count"].(int64); ok {
				count = n
			} else if n, ok := doc.Data["count"].(int); ok {
				count = int64(n)
			} else if n, ok := doc.Data["count"].(float64); ok {
				count = int64(n)
			}
		}
		count++
		if err := tx.Set(models.CountersCollection, counterID, map[string]any{"count": count}); err != nil {
			return err
		}
		id = fmt.Sprintf("%s#%03d", prefix, count)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("allocate property id: %w", err)
	}
	return id, nil
}
