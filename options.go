package xdb

import (
	"github.com/xdb-io/xdb/codec"
	"github.com/xdb-io/xdb/ids"
	"github.com/xdb-io/xdb/persistence"
)

type options struct {
	codec           codec.Codec
	logger          *Logger
	genID           ids.Generator
	autoSnapshot    bool
	archive         persistence.Archive
	compressArchive bool
}

// Option configures Open behavior.
type Option func(*options)

// WithCodec configures the codec used for the durable file.
//
// If nil is passed, codec.Default is used. The durable format is plain JSON
// regardless of codec; selection only trades encoder implementations.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures the logger. If nil is passed, a text logger to
// stderr is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}

// WithIDGenerator configures how identifiers are generated for documents
// inserted without one. The default is ids.Token (16 alphanumeric
// characters); ids.UUID is a ready-made alternative.
func WithIDGenerator(g ids.Generator) Option {
	return func(o *options) {
		if g == nil {
			g = ids.Token
		}
		o.genID = g
	}
}

// WithAutoSnapshot enables or disables the automatic snapshot taken every
// 5th flush. Enabled by default; tests disable it to keep the filesystem
// clean. It can also be toggled at runtime via DB.SetAutoSnapshot.
func WithAutoSnapshot(enabled bool) Option {
	return func(o *options) {
		o.autoSnapshot = enabled
	}
}

// WithSnapshotArchive ships a copy of every snapshot to archive,
// gzip-compressed when compress is true. See persistence/minio for an
// object-store implementation.
func WithSnapshotArchive(archive persistence.Archive, compress bool) Option {
	return func(o *options) {
		o.archive = archive
		o.compressArchive = compress
	}
}
