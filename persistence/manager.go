package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/xdb-io/xdb/codec"
)

const (
	// snapshotEvery is the number of successful flushes between automatic
	// snapshots.
	snapshotEvery = 5

	snapshotPrefix = "snapshot_"
	snapshotExt    = ".json"

	// snapshotTimeFormat is minute-granular local time: YYYYMMDD_HHMM.
	snapshotTimeFormat = "20060102_1504"
)

// Options configure a Manager.
type Options struct {
	// Codec serializes the store state. Defaults to codec.Default.
	Codec codec.Codec

	// Logger receives flush/snapshot diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// AutoSnapshot enables the every-5th-flush snapshot. Defaults to true;
	// tests disable it to keep the filesystem clean.
	AutoSnapshot bool

	// Archive, when set, receives a copy of every snapshot.
	Archive Archive

	// CompressArchive gzips snapshot bytes before they are handed to the
	// Archive. Defaults to true. The live snapshot file next to the store is
	// never compressed.
	CompressArchive bool

	// Now is the clock used for snapshot names. Defaults to time.Now.
	Now func() time.Time
}

// Manager owns the durable file for one store.
//
// Manager has no locking of its own: the engine invokes Flush and Snapshot
// from within the same exclusivity scope as the mutation that triggered
// them, so persistence is synchronous with respect to the caller.
// SetAutoSnapshot is the exception and may be called from any goroutine.
type Manager struct {
	path            string
	codec           codec.Codec
	logger          *slog.Logger
	archive         Archive
	compressArchive bool
	now             func() time.Time
	fs              fileSystem

	autoSnapshot atomic.Bool
	flushes      int
}

// NewManager creates a Manager for the durable file at path. Snapshots are
// written to the same directory.
func NewManager(path string, optFns ...func(o *Options)) *Manager {
	opts := Options{
		Codec:           codec.Default,
		Logger:          slog.Default(),
		AutoSnapshot:    true,
		CompressArchive: true,
		Now:             time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Manager{
		path:            path,
		codec:           opts.Codec,
		logger:          opts.Logger,
		archive:         opts.Archive,
		compressArchive: opts.CompressArchive,
		now:             opts.Now,
		fs:              osFS{},
	}
	m.autoSnapshot.Store(opts.AutoSnapshot)

	return m
}

// Path returns the durable file path.
func (m *Manager) Path() string {
	return m.path
}

// SetAutoSnapshot toggles the every-5th-flush snapshot at runtime.
func (m *Manager) SetAutoSnapshot(enabled bool) {
	m.autoSnapshot.Store(enabled)
}

// Load reads the durable file and decodes it into v. A missing file returns
// an error satisfying errors.Is(err, os.ErrNotExist); callers treat both
// missing and corrupt files as "no prior state".
func (m *Manager) Load(v any) error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return os.ErrNotExist
	}
	if err := m.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("persistence: decode %s: %w", m.path, err)
	}
	return nil
}

// Flush serializes state and atomically replaces the durable file. Every
// snapshotEvery-th successful flush triggers an automatic snapshot, after
// which the counter resets.
//
// On failure the durable file is untouched; the previously durable image
// stays valid.
func (m *Manager) Flush(state any) error {
	data, err := m.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("persistence: encode store: %w", err)
	}

	if err := writeAtomic(m.fs, m.path, data); err != nil {
		return fmt.Errorf("persistence: write %s: %w", m.path, err)
	}

	m.flushes++
	if m.flushes >= snapshotEvery {
		m.flushes = 0
		if m.autoSnapshot.Load() {
			if name, err := m.Snapshot(); err != nil {
				m.logger.Warn("auto snapshot failed", "error", err)
			} else {
				m.logger.Info("auto snapshot saved", "filename", name)
			}
		}
	}

	return nil
}

// Snapshot copies the current durable file byte-for-byte to a timestamped
// file in the same directory and returns the snapshot's base name. The copy
// is taken from the already-flushed file, not a fresh serialization, so it
// reflects the last successfully durable state.
func (m *Manager) Snapshot() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return "", fmt.Errorf("persistence: read durable file: %w", err)
	}

	name := snapshotPrefix + m.now().Format(snapshotTimeFormat) + snapshotExt
	dest := filepath.Join(filepath.Dir(m.path), name)

	if err := writeAtomic(m.fs, dest, data); err != nil {
		return "", fmt.Errorf("persistence: write snapshot %s: %w", dest, err)
	}

	if m.archive != nil {
		if err := m.archiveSnapshot(name, data); err != nil {
			// Archival is best-effort; the local snapshot already exists.
			m.logger.Warn("snapshot archive failed", "filename", name, "error", err)
		}
	}

	return name, nil
}

func (m *Manager) archiveSnapshot(name string, data []byte) error {
	ctx := context.Background()
	if !m.compressArchive {
		return m.archive.Put(ctx, name, data)
	}

	compressed, err := gzipBytes(data)
	if err != nil {
		return err
	}
	return m.archive.Put(ctx, name+".gz", compressed)
}
