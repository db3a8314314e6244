package engine

import "github.com/xdb-io/xdb/document"

// Index maps document identifiers to a private copy of their current
// document, spanning all collections. It gives identifier lookups O(1) cost
// without scanning.
//
// Invariant: after every completed mutation, every live document has exactly
// one entry whose content equals the document's current content, and no
// entry exists without a live document. Entries always hold independent
// deep copies, so later mutation of a caller's document object can never
// alias index state.
//
// Like Store, the index is mutated only under the engine mutex.
type Index struct {
	entries map[string]indexEntry
}

type indexEntry struct {
	collection string
	doc        document.Document
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]indexEntry),
	}
}

// Lookup returns a snapshot of the document with the given identifier and
// the collection it lives in.
func (ix *Index) Lookup(id string) (collection string, doc document.Document, ok bool) {
	e, ok := ix.entries[id]
	if !ok {
		return "", nil, false
	}
	return e.collection, e.doc.Clone(), true
}

// Put inserts or overwrites the entry for id with an owned deep copy of doc.
func (ix *Index) Put(collection, id string, doc document.Document) {
	ix.entries[id] = indexEntry{collection: collection, doc: doc.Clone()}
}

// Remove deletes the entry for id, if any.
func (ix *Index) Remove(id string) {
	delete(ix.entries, id)
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Rebuild reconstructs the index by scanning every collection once. It is
// run at startup after loading durable state and is the only way to recover
// from a missing or stale index.
func (ix *Index) Rebuild(store *Store) {
	ix.entries = make(map[string]indexEntry)
	for name, docs := range store.Export() {
		for _, doc := range docs {
			if id, ok := doc.ID(); ok {
				ix.Put(name, id, doc)
			}
		}
	}
}
