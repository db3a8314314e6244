// Package xdb is an embedded, single-node JSON document store.
//
// Documents are schemaless JSON objects grouped into named, ordered
// collections. Every document carries a unique string identifier in its
// "_id" field; documents inserted without one are assigned a generated
// 16-character token. A global identifier index serves O(1) lookups by id.
//
// # Quick start
//
//	db, _ := xdb.Open("data/production.json")
//	defer db.Close()
//
//	ctx := context.Background()
//	id, _ := db.Insert(ctx, "users", xdb.Document{"username": "bot", "score": 100})
//	docs, _ := db.Find(ctx, "users", xdb.Filter{"_id": id}, 0)
//	ok, _ := db.Update(ctx, "users", id, xdb.Document{"score": 200})
//
// # Durability model
//
// Every mutation synchronously rewrites the durable file with an atomic
// temp-file + rename swap, so the file on disk is always a complete,
// previously-valid image — a crash mid-write can only ever lose the very
// last mutation, never corrupt the file. Every 5th flush the durable file is
// additionally copied to a timestamped snapshot; snapshots can be shipped,
// gzip-compressed, to an object-store archive.
//
// # Concurrency
//
// All operations serialize on one store-wide lock held across the disk
// write. Correctness is trivially linearizable; the cost is that a slow disk
// blocks every client. Results returned to callers are always independent
// deep copies and never alias store state.
//
// The companion line-delimited TCP front-end lives in the server package;
// cmd/xdbd ties the two together.
package xdb
