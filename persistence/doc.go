// Package persistence writes the store to durable storage.
//
// The whole store is serialized on every flush and swapped into place with a
// temp-file + rename pattern, so the durable file is always a complete,
// previously-valid image even if a write is interrupted: an interrupted
// write only ever touches the temporary file.
//
// Every 5th successful flush the durable file is copied byte-for-byte to a
// timestamped snapshot next to it (snapshot_YYYYMMDD_HHMM.json). Snapshots
// always reflect the last durable state, never a fresh in-memory
// serialization. Snapshots can additionally be shipped to an Archive
// (in-memory for tests, MinIO/S3-compatible for real deployments),
// gzip-compressed on the way out.
package persistence
