package xdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xdb-io/xdb/codec"
	"github.com/xdb-io/xdb/document"
	"github.com/xdb-io/xdb/engine"
	"github.com/xdb-io/xdb/ids"
	"github.com/xdb-io/xdb/persistence"
	"github.com/xdb-io/xdb/query"
)

// Document is a single schemaless JSON record.
type Document = document.Document

// Filter is a set of flat field-equality conditions. A nil Filter matches
// every document.
type Filter = query.Filter

// DB is an embedded document store. All methods are safe for concurrent use;
// see the package documentation for the serialization model.
type DB struct {
	engine *engine.Engine
	logger *Logger
}

// Open loads (or creates) the store backed by the durable file at path and
// returns a ready DB. A missing or unreadable file means "no prior state":
// the store starts empty rather than failing to open.
func Open(path string, optFns ...Option) (*DB, error) {
	opts := options{
		codec:           codec.Default,
		logger:          NewLogger(nil),
		genID:           ids.Token,
		autoSnapshot:    true,
		compressArchive: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("xdb: create data directory: %w", err)
		}
	}

	manager := persistence.NewManager(path, func(o *persistence.Options) {
		o.Codec = opts.codec
		o.Logger = opts.logger.Logger
		o.AutoSnapshot = opts.autoSnapshot
		o.Archive = opts.archive
		o.CompressArchive = opts.compressArchive
	})

	return &DB{
		engine: engine.New(manager, opts.logger.Logger, opts.genID),
		logger: opts.logger,
	}, nil
}

// Insert stores a copy of doc in the named collection, creating the
// collection if absent, and returns the document's identifier (generated if
// doc carries none). Fails only if doc is nil.
func (db *DB) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	id, err := db.engine.Insert(collection, doc)
	err = translateError(err)
	db.logger.LogInsert(ctx, collection, id, err)
	return id, err
}

// Find returns copies of the documents in the named collection matching
// filter, in scan order, up to limit matches (limit <= 0 means unbounded).
// A nil filter matches every document.
func (db *DB) Find(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	results := db.engine.Find(collection, filter, limit)
	db.logger.LogFind(ctx, collection, len(results))
	return results, nil
}

// Update merges patch into the document with the given identifier, leaving
// unmentioned fields untouched. The identifier field is immutable and
// silently ignored if present in patch. Returns false if no document with
// that identifier exists in that collection.
func (db *DB) Update(ctx context.Context, collection, id string, patch Document) (bool, error) {
	found := db.engine.Update(collection, id, patch)
	db.logger.LogUpdate(ctx, collection, id, found)
	return found, nil
}

// Upsert updates the document with the given identifier if present,
// otherwise inserts doc as a new document (discarding any stale identifier
// field it carries). It returns the identifier of the affected document.
func (db *DB) Upsert(ctx context.Context, collection, id string, doc Document) (string, error) {
	affected, ok := db.engine.Upsert(collection, id, doc)
	if !ok {
		err := translateError(engine.ErrNilDocument)
		db.logger.LogInsert(ctx, collection, "", err)
		return "", err
	}
	db.logger.LogUpdate(ctx, collection, affected, true)
	return affected, nil
}

// Delete removes the document with the given identifier from the named
// collection. Returns false, with no side effects, if no such document
// exists.
func (db *DB) Delete(ctx context.Context, collection, id string) (bool, error) {
	found := db.engine.Delete(collection, id)
	db.logger.LogDelete(ctx, collection, id, found)
	return found, nil
}

// Count returns the number of documents in the named collection, or 0 if
// the collection does not exist.
func (db *DB) Count(ctx context.Context, collection string) (int, error) {
	return db.engine.Count(collection), nil
}

// DropAll irreversibly removes every collection and persists the empty
// store immediately. Intended for reset/testing use only.
func (db *DB) DropAll(ctx context.Context) error {
	db.engine.DropAll()
	db.logger.LogDropAll(ctx)
	return nil
}

// ForceSnapshot copies the last durable state to a timestamped snapshot
// file and returns its base name.
func (db *DB) ForceSnapshot(ctx context.Context) (string, error) {
	name, err := db.engine.Snapshot()
	db.logger.LogSnapshot(ctx, name, err)
	return name, err
}

// SetAutoSnapshot toggles the automatic every-5th-flush snapshot at runtime.
func (db *DB) SetAutoSnapshot(enabled bool) {
	db.engine.SetAutoSnapshot(enabled)
}

// Close flushes the store a final time and releases it. The DB must not be
// used after Close.
func (db *DB) Close() error {
	return db.engine.Close()
}
