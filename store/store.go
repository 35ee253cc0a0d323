package store

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected is returned when the handle was never connected or has
	// been closed. Handlers map it to 503.
	ErrNotConnected = errors.New("store: not connected")

	ErrNotFound = errors.New("store: document not found")
)

// Document is a raw store document. Typed records are produced from it at the
// models boundary.
type Document struct {
	ID   string
	Data map[string]any
}

// Query supports equality and "in" predicates, a single sort field and a
// result limit. Anything richer than that is filtered in memory by callers.
type Query interface {
	Where(field, op string, value any) Query
	OrderBy(field string, desc bool) Query
	Limit(n int) Query
	Get(ctx context.Context) ([]Document, error)
}

type Collection interface {
	Query
	Doc(id string) DocRef
	Add(ctx context.Context, data map[string]any) (string, error)
}

type DocRef interface {
	ID() string
	Get(ctx context.Context) (Document, error)
	Set(ctx context.Context, data map[string]any) error
	Update(ctx context.Context, fields map[string]any) error
	Delete(ctx context.Context) error
}

// Tx is the view of the store inside a transaction. Set has merge semantics
// and creates the document when absent. A failed Set must be surfaced, not
// swallowed; callers abort the transaction on it.
type Tx interface {
	Get(collection, id string) (Document, error)
	Set(collection, id string, data map[string]any) error
}

// Batch accumulates writes that commit as a unit.
type Batch interface {
	Set(collection, id string, data map[string]any)
	Delete(collection, id string)
	Commit(ctx context.Context) error
}

type Store interface {
	Collection(name string) Collection
	Batch() Batch
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	Close(ctx context.Context) error
}
