package engine

import "github.com/xdb-io/xdb/document"

// Store maps collection names to ordered document sequences. It is the sole
// authoritative copy of all data.
//
// Store does no locking of its own: it is owned by the Engine and mutated
// only under the engine mutex.
type Store struct {
	collections map[string][]document.Document
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string][]document.Document),
	}
}

// NewStoreFrom creates a store over previously loaded state. The caller
// hands over ownership of data.
func NewStoreFrom(data map[string][]document.Document) *Store {
	if data == nil {
		data = make(map[string][]document.Document)
	}
	return &Store{collections: data}
}

// Documents returns the named collection's sequence in insertion order, or
// nil if the collection does not exist. The returned slice aliases store
// state; callers must not retain it past the engine lock.
func (s *Store) Documents(name string) []document.Document {
	return s.collections[name]
}

// Append adds a document to the end of the named collection, creating the
// collection if absent.
func (s *Store) Append(name string, doc document.Document) {
	s.collections[name] = append(s.collections[name], doc)
}

// Replace substitutes the document at position i. The slot is overwritten
// as a whole, so a concurrent-free traversal never sees a half-updated
// document; position is preserved.
func (s *Store) Replace(name string, i int, doc document.Document) {
	s.collections[name][i] = doc
}

// Remove deletes the document at position i, closing the gap.
func (s *Store) Remove(name string, i int) {
	docs := s.collections[name]
	s.collections[name] = append(docs[:i], docs[i+1:]...)
}

// Len returns the number of documents in the named collection, or 0 if it
// does not exist.
func (s *Store) Len(name string) int {
	return len(s.collections[name])
}

// Reset discards every collection.
func (s *Store) Reset() {
	s.collections = make(map[string][]document.Document)
}

// Export exposes the underlying state for serialization. The map aliases
// store state and must only be read under the engine lock.
func (s *Store) Export() map[string][]document.Document {
	return s.collections
}
