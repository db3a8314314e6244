// Package engine is the storage core: the collection store, the identifier
// index, and the mutation coordinator that keeps them consistent.
//
// # Concurrency model
//
// The engine is free of internal parallelism. Every public operation takes
// one store-wide mutex for its entire duration, including the synchronous
// flush to disk, and releases it only on return. All reads and writes are
// fully serialized: no caller can observe a state produced by a
// partially-completed operation, and no two mutations ever interleave. This
// trades throughput (every disk write blocks all readers) for linearizable
// single-writer semantics.
//
// # Ownership
//
// The store and the index are the only shared mutable state, and both are
// touched exclusively under the engine mutex. Everything handed back to a
// caller (find results, index lookups) is an independent deep copy; a caller
// holds no lock after the call returns, so it must never receive a reference
// that aliases live store state.
package engine
