package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process implementation of Store used by tests and
// local development. It mirrors the mongo implementation's query semantics.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]map[string]any
}

func NewMemory() *MemoryStore {
	return &MemoryStore{cols: make(map[string]map[string]map[string]any)}
}

func (m *MemoryStore) Collection(name string) Collection {
	return &memCollection{store: m, name: name}
}

func (m *MemoryStore) Batch() Batch {
	return &memBatch{store: m}
}

func (m *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := &memTx{store: m, writes: nil}
	if err := fn(staged); err != nil {
		return err
	}
	for _, w := range staged.writes {
		m.mergeLocked(w.collection, w.id, w.data)
	}
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

func (m *MemoryStore) colLocked(name string) map[string]map[string]any {
	col, ok := m.cols[name]
	if !ok {
		col = make(map[string]map[string]any)
		m.cols[name] = col
	}
	return col
}

func (m *MemoryStore) mergeLocked(collection, id string, data map[string]any) {
	col := m.colLocked(collection)
	doc, ok := col[id]
	if !ok {
		doc = make(map[string]any)
		col[id] = doc
	}
	for k, v := range data {
		doc[k] = copyValue(v)
	}
}

type memFilter struct {
	field string
	op    string
	value any
}

type memCollection struct {
	store *MemoryStore
	name  string

	filters   []memFilter
	sortField string
	sortDesc  bool
	limit     int
}

func (c *memCollection) clone() *memCollection {
	cp := *c
	cp.filters = append([]memFilter{}, c.filters...)
	return &cp
}

func (c *memCollection) Where(field, op string, value any) Query {
	cp := c.clone()
	cp.filters = append(cp.filters, memFilter{field: field, op: op, value: value})
	return cp
}

func (c *memCollection) OrderBy(field string, desc bool) Query {
	cp := c.clone()
	cp.sortField = field
	cp.sortDesc = desc
	return cp
}

func (c *memCollection) Limit(n int) Query {
	cp := c.clone()
	cp.limit = n
	return cp
}

func (c *memCollection) Get(ctx context.Context) ([]Document, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var docs []Document
	for id, data := range c.store.cols[c.name] {
		if c.matches(data) {
			docs = append(docs, Document{ID: id, Data: copyMap(data)})
		}
	}

	// Stable base order so unsorted reads stay deterministic.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	if c.sortField != "" {
		field, desc := c.sortField, c.sortDesc
		sort.SliceStable(docs, func(i, j int) bool {
			a, b := docs[i].Data[field], docs[j].Data[field]
			if desc {
				a, b = b, a
			}
			return lessValue(a, b)
		})
	}

	if c.limit > 0 && len(docs) > c.limit {
		docs = docs[:c.limit]
	}
	return docs, nil
}

func (c *memCollection) matches(data map[string]any) bool {
	for _, f := range c.filters {
		v := data[f.field]
		switch f.op {
		case "==":
			if !equalValue(v, f.value) {
				return false
			}
		case "in":
			if !inValues(v, f.value) {
				return false
			}
		case ">=":
			if !(equalValue(v, f.value) || lessValue(f.value, v)) {
				return false
			}
		case "<=":
			if !(equalValue(v, f.value) || lessValue(v, f.value)) {
				return false
			}
		case ">":
			if !lessValue(f.value, v) {
				return false
			}
		case "<":
			if !lessValue(v, f.value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (c *memCollection) Doc(id string) DocRef {
	return &memDoc{store: c.store, collection: c.name, id: id}
}

func (c *memCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	id := uuid.NewString()
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.colLocked(c.name)[id] = copyMap(data)
	return id, nil
}

type memDoc struct {
	store      *MemoryStore
	collection string
	id         string
}

func (d *memDoc) ID() string { return d.id }

func (d *memDoc) Get(ctx context.Context) (Document, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	data, ok := d.store.cols[d.collection][d.id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: d.id, Data: copyMap(data)}, nil
}

func (d *memDoc) Set(ctx context.Context, data map[string]any) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	d.store.colLocked(d.collection)[d.id] = copyMap(data)
	return nil
}

func (d *memDoc) Update(ctx context.Context, fields map[string]any) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	if _, ok := d.store.cols[d.collection][d.id]; !ok {
		return ErrNotFound
	}
	d.store.mergeLocked(d.collection, d.id, fields)
	return nil
}

func (d *memDoc) Delete(ctx context.Context) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	delete(d.store.cols[d.collection], d.id)
	return nil
}

type txWrite struct {
	collection string
	id         string
	data       map[string]any
}

type memTx struct {
	store  *MemoryStore
	writes []txWrite
}

func (t *memTx) Get(collection, id string) (Document, error) {
	data, ok := t.store.cols[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyMap(data)}, nil
}

func (t *memTx) Set(collection, id string, data map[string]any) error {
	t.writes = append(t.writes, txWrite{collection: collection, id: id, data: copyMap(data)})
	return nil
}

type memBatch struct {
	store *MemoryStore
	ops   []batchOp
}

func (b *memBatch) Set(collection, id string, data map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: copyMap(data)})
}

func (b *memBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, delete: true})
}

func (b *memBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.store.cols[op.collection], op.id)
			continue
		}
		b.store.colLocked(op.collection)[op.id] = copyMap(op.data)
	}
	return nil
}

func copyMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = copyValue(v)
	}
	return cp
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = copyValue(e)
		}
		return s
	case []string:
		return append([]string{}, t...)
	default:
		return v
	}
}

func equalValue(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	switch at := a.(type) {
	case string:
		bs, ok := b.(string)
		return ok && at == bs
	case bool:
		bb, ok := b.(bool)
		return ok && at == bb
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	case nil:
		return b == nil
	default:
		return false
	}
}

func lessValue(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af < bf
		}
		return false
	}
	switch at := a.(type) {
	case string:
		bs, ok := b.(string)
		return ok && strings.Compare(at, bs) < 0
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && at.Before(bt)
	default:
		return false
	}
}

func inValues(v, set any) bool {
	switch s := set.(type) {
	case []string:
		for _, e := range s {
			if equalValue(v, e) {
				return true
			}
		}
	case []any:
		for _, e := range s {
			if equalValue(v, e) {
				return true
			}
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
