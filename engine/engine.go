package engine

import (
	"log/slog"
	"os"
	"sync"

	"github.com/xdb-io/xdb/document"
	"github.com/xdb-io/xdb/ids"
	"github.com/xdb-io/xdb/persistence"
	"github.com/xdb-io/xdb/query"
)

// Engine is the mutation coordinator. It owns the Store and the Index and
// enforces their consistency invariants under a single serialization point.
type Engine struct {
	mu      sync.Mutex
	store   *Store
	index   *Index
	persist *persistence.Manager
	logger  *slog.Logger
	genID   ids.Generator
}

// New loads durable state through persist (a missing or corrupt file means
// "no prior state"), rebuilds the identifier index, and returns a ready
// engine.
func New(persist *persistence.Manager, logger *slog.Logger, genID ids.Generator) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if genID == nil {
		genID = ids.Token
	}

	e := &Engine{
		index:   NewIndex(),
		persist: persist,
		logger:  logger,
		genID:   genID,
	}

	var raw map[string][]document.Document
	switch err := persist.Load(&raw); {
	case err == nil:
		e.store = NewStoreFrom(raw)
		logger.Info("storage loaded", "path", persist.Path(), "collections", len(raw))
	case os.IsNotExist(err):
		e.store = NewStore()
		logger.Info("initialized new store", "path", persist.Path())
	default:
		// Corrupt durable file: start empty rather than fail to start. The
		// broken file stays on disk until the first flush replaces it.
		e.store = NewStore()
		logger.Warn("durable file unreadable, starting empty", "path", persist.Path(), "error", err)
	}

	e.index.Rebuild(e.store)

	return e
}

// Insert stores an owned copy of doc in the named collection, creating the
// collection if absent, and returns the document's identifier. A document
// without an identifier is assigned a generated one. Fails only if doc is
// nil.
func (e *Engine) Insert(collection string, doc document.Document) (string, error) {
	if doc == nil {
		return "", ErrNilDocument
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.insertLocked(collection, doc), nil
}

func (e *Engine) insertLocked(collection string, doc document.Document) string {
	owned := doc.Clone()
	id, ok := owned.ID()
	if !ok {
		// Also covers a present but non-string identifier: the index is
		// string-keyed, so anything else is replaced by a generated one.
		id = e.genID()
		owned.SetID(id)
	}

	e.store.Append(collection, owned)
	e.index.Put(collection, id, owned)
	e.flushLocked()

	return id
}

// Find returns independent copies of the documents in the named collection
// matching filter, in insertion-scan order, up to limit (limit <= 0 means
// unbounded). A filter that is exactly an identifier equality is served from
// the index without scanning; the result is identical to the scan path.
func (e *Engine) Find(collection string, filter query.Filter, limit int) []document.Document {
	e.mu.Lock()
	defer e.mu.Unlock()

	results := []document.Document{}

	if id, ok := query.IdentifierOnly(filter); ok {
		coll, doc, found := e.index.Lookup(id)
		if found && coll == collection {
			results = append(results, doc)
		}
		return results
	}

	for _, doc := range e.store.Documents(collection) {
		if limit > 0 && len(results) >= limit {
			break
		}
		if query.Match(doc, filter) {
			results = append(results, doc.Clone())
		}
	}

	return results
}

// Update locates the document with the given identifier in the named
// collection and substitutes a replacement: a copy of the existing document
// with every field of patch merged in, except the immutable identifier
// field. The replacement keeps the document's position. Returns false if no
// such document exists in that collection.
func (e *Engine) Update(collection, id string, patch document.Document) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.updateLocked(collection, id, patch)
}

func (e *Engine) updateLocked(collection, id string, patch document.Document) bool {
	for i, doc := range e.store.Documents(collection) {
		if docID, ok := doc.ID(); !ok || docID != id {
			continue
		}

		replacement := doc.Merge(patch)
		e.store.Replace(collection, i, replacement)
		e.index.Put(collection, id, replacement)
		e.flushLocked()

		return true
	}
	return false
}

// Upsert updates the document with the given identifier if it exists,
// otherwise inserts doc as a new document (any stale identifier field in doc
// is discarded). It returns the identifier of the affected document and
// false only if the insert path was taken with a nil document.
func (e *Engine) Upsert(collection, id string, doc document.Document) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id != "" && e.updateLocked(collection, id, doc) {
		return id, true
	}

	if doc == nil {
		return "", false
	}

	fresh := doc.Clone()
	delete(fresh, document.FieldID)

	return e.insertLocked(collection, fresh), true
}

// Delete removes the document with the given identifier from the named
// collection and drops its index entry. Returns false, with no side
// effects, if no such document exists.
func (e *Engine) Delete(collection, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, doc := range e.store.Documents(collection) {
		if docID, ok := doc.ID(); !ok || docID != id {
			continue
		}

		e.store.Remove(collection, i)
		e.index.Remove(id)
		e.flushLocked()

		return true
	}
	return false
}

// Count returns the number of documents in the named collection, or 0 if it
// does not exist.
func (e *Engine) Count(collection string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.Len(collection)
}

// DropAll irreversibly replaces the whole store and index with empty state
// and persists immediately. Intended for reset/testing use only.
func (e *Engine) DropAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Reset()
	e.index.Rebuild(e.store)
	e.flushLocked()
}

// Snapshot forces an immediate snapshot of the last durable state and
// returns the snapshot's base name.
func (e *Engine) Snapshot() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.persist.Snapshot()
}

// SetAutoSnapshot toggles the automatic every-5th-flush snapshot.
func (e *Engine) SetAutoSnapshot(enabled bool) {
	e.persist.SetAutoSnapshot(enabled)
}

// Lookup returns a snapshot of the document with the given identifier from
// the index, regardless of collection.
func (e *Engine) Lookup(id string) (document.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, doc, ok := e.index.Lookup(id)
	return doc, ok
}

// IndexLen returns the number of indexed documents.
func (e *Engine) IndexLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.index.Len()
}

// Close flushes the store a final time. The engine must not be used after
// Close.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.persist.Flush(e.store.Export())
}

// flushLocked persists the store synchronously, inside the exclusivity
// scope of the mutation that triggered it. A failure is logged but does not
// fail the mutation: the in-memory state has already changed and stays
// consistent, durability is degraded until the next successful flush.
func (e *Engine) flushLocked() {
	if err := e.persist.Flush(e.store.Export()); err != nil {
		e.logger.Error("flush failed, in-memory state retained", "error", err)
	}
}
