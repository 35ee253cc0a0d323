package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database. The zero value is
// a disconnected handle; every operation on it returns ErrNotConnected.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	// Serializes transactions when the deployment has no session support
	// (standalone mongod). See RunTransaction.
	txMu sync.Mutex
}

func Connect(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (m *MongoStore) ready() error {
	if m == nil || m.client == nil {
		return ErrNotConnected
	}
	return nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	if err := m.ready(); err != nil {
		return err
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

func (m *MongoStore) Collection(name string) Collection {
	return &mongoCollection{store: m, name: name}
}

func (m *MongoStore) Batch() Batch {
	return &mongoBatch{store: m}
}

func (m *MongoStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	if err := m.ready(); err != nil {
		return err
	}

	session, err := m.client.StartSession()
	if err != nil {
		return m.runLocked(ctx, fn)
	}
	defer session.EndSession(ctx)

	// WithTransaction retries transient conflicts internally, which is what
	// counter allocation relies on for uniqueness.
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(&mongoTx{store: m, ctx: sc})
	})
	if err != nil && transactionsUnsupported(err) {
		return m.runLocked(ctx, fn)
	}
	return err
}

// runLocked is the standalone-deployment fallback: a process-wide mutex gives
// the same read-modify-write atomicity for a single API instance.
func (m *MongoStore) runLocked(ctx context.Context, fn func(tx Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(&mongoTx{store: m, ctx: ctx})
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "replica set")
}

type mongoCollection struct {
	store *MongoStore
	name  string

	filter   bson.D
	sort     bson.D
	limit    int64
	badQuery error
}

func (c *mongoCollection) clone() *mongoCollection {
	cp := *c
	cp.filter = append(bson.D{}, c.filter...)
	cp.sort = append(bson.D{}, c.sort...)
	return &cp
}

func (c *mongoCollection) Where(field, op string, value any) Query {
	cp := c.clone()
	switch op {
	case "==":
		cp.filter = append(cp.filter, bson.E{Key: field, Value: value})
	case "in":
		cp.filter = append(cp.filter, bson.E{Key: field, Value: bson.M{"$in": value}})
	case ">=":
		cp.filter = append(cp.filter, bson.E{Key: field, Value: bson.M{"$gte": value}})
	case "<=":
		cp.filter = append(cp.filter, bson.E{Key: field, Value: bson.M{"$lte": value}})
	case ">":
		cp.filter = append(cp.filter, bson.E{Key: field, Value: bson.M{"$gt": value}})
	case "<":
		cp.filter = append(cp.filter, bson.E{Key: field, Value: bson.M{"$lt": value}})
	default:
		cp.badQuery = fmt.Errorf("store: unsupported query operator %q", op)
	}
	return cp
}

func (c *mongoCollection) OrderBy(field string, desc bool) Query {
	cp := c.clone()
	dir := 1
	if desc {
		dir = -1
	}
	cp.sort = append(cp.sort, bson.E{Key: field, Value: dir})
	return cp
}

func (c *mongoCollection) Limit(n int) Query {
	cp := c.clone()
	cp.limit = int64(n)
	return cp
}

func (c *mongoCollection) Get(ctx context.Context) ([]Document, error) {
	if err := c.store.ready(); err != nil {
		return nil, err
	}
	if c.badQuery != nil {
		return nil, c.badQuery
	}

	opts := options.Find()
	if len(c.sort) > 0 {
		opts.SetSort(c.sort)
	}
	if c.limit > 0 {
		opts.SetLimit(c.limit)
	}

	filter := c.filter
	if filter == nil {
		filter = bson.D{}
	}

	cursor, err := c.store.db.Collection(c.name).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			continue
		}
		docs = append(docs, toDocument(raw))
	}
	return docs, cursor.Err()
}

func (c *mongoCollection) Doc(id string) DocRef {
	return &mongoDoc{store: c.store, collection: c.name, id: id}
}

func (c *mongoCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	if err := c.store.ready(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	doc := withID(data, id)
	if _, err := c.store.db.Collection(c.name).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

type mongoDoc struct {
	store      *MongoStore
	collection string
	id         string
}

func (d *mongoDoc) ID() string { return d.id }

func (d *mongoDoc) Get(ctx context.Context) (Document, error) {
	if err := d.store.ready(); err != nil {
		return Document{}, err
	}
	var raw bson.M
	err := d.store.db.Collection(d.collection).FindOne(ctx, bson.M{"_id": d.id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return toDocument(raw), nil
}

func (d *mongoDoc) Set(ctx context.Context, data map[string]any) error {
	if err := d.store.ready(); err != nil {
		return err
	}
	_, err := d.store.db.Collection(d.collection).ReplaceOne(
		ctx, bson.M{"_id": d.id}, withID(data, d.id), options.Replace().SetUpsert(true))
	return err
}

func (d *mongoDoc) Update(ctx context.Context, fields map[string]any) error {
	if err := d.store.ready(); err != nil {
		return err
	}
	res, err := d.store.db.Collection(d.collection).UpdateOne(
		ctx, bson.M{"_id": d.id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *mongoDoc) Delete(ctx context.Context) error {
	if err := d.store.ready(); err != nil {
		return err
	}
	_, err := d.store.db.Collection(d.collection).DeleteOne(ctx, bson.M{"_id": d.id})
	return err
}

type mongoTx struct {
	store *MongoStore
	ctx   context.Context
}

func (t *mongoTx) Get(collection, id string) (Document, error) {
	var raw bson.M
	err := t.store.db.Collection(collection).FindOne(t.ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return toDocument(raw), nil
}

func (t *mongoTx) Set(collection, id string, data map[string]any) error {
	_, err := t.store.db.Collection(collection).UpdateOne(
		t.ctx, bson.M{"_id": id}, bson.M{"$set": data}, options.Update().SetUpsert(true))
	return err
}

type batchOp struct {
	collection string
	id         string
	data       map[string]any
	delete     bool
}

type mongoBatch struct {
	store *MongoStore
	ops   []batchOp
}

func (b *mongoBatch) Set(collection, id string, data map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: data})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, delete: true})
}

func (b *mongoBatch) Commit(ctx context.Context) error {
	if err := b.store.ready(); err != nil {
		return err
	}
	if len(b.ops) == 0 {
		return nil
	}

	apply := func(ctx context.Context) error {
		for _, op := range b.ops {
			col := b.store.db.Collection(op.collection)
			if op.delete {
				if _, err := col.DeleteOne(ctx, bson.M{"_id": op.id}); err != nil {
					return err
				}
				continue
			}
			_, err := col.ReplaceOne(ctx, bson.M{"_id": op.id}, withID(op.data, op.id),
				options.Replace().SetUpsert(true))
			if err != nil {
				return err
			}
		}
		return nil
	}

	session, err := b.store.client.StartSession()
	if err != nil {
		return apply(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, apply(sc)
	})
	if err != nil && transactionsUnsupported(err) {
		return apply(ctx)
	}
	return err
}

func withID(data map[string]any, id string) bson.M {
	doc := bson.M{"_id": id}
	for k, v := range data {
		doc[k] = v
	}
	return doc
}

func toDocument(raw bson.M) Document {
	doc := Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			doc.ID = idString(v)
			continue
		}
		doc.Data[k] = normalize(v)
	}
	return doc
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	default:
		return ""
	}
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = normalize(val)
		}
		return s
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case int32:
		return int64(t)
	default:
		return v
	}
}
