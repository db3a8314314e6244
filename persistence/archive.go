package persistence

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Archive receives copies of snapshots for off-box retention.
// Implementations must be safe for concurrent use.
type Archive interface {
	// Put stores a snapshot under name, overwriting any previous copy.
	Put(ctx context.Context, name string, data []byte) error

	// Get retrieves a previously stored snapshot.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns all stored snapshot names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// MemoryArchive is an in-memory Archive for testing.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		blobs: make(map[string][]byte),
	}
}

// Put stores a copy of data under name.
func (a *MemoryArchive) Put(_ context.Context, name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	a.blobs[name] = copied
	return nil
}

// Get returns a copy of the blob stored under name.
func (a *MemoryArchive) Get(_ context.Context, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.blobs[name]
	if !ok {
		return nil, ErrArchiveNotFound
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// List returns all stored names with the given prefix, sorted.
func (a *MemoryArchive) List(_ context.Context, prefix string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var names []string
	for name := range a.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// gzipBytes compresses data with gzip.
func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GunzipBytes decompresses a gzip blob, the inverse of the compression
// applied to archived snapshots.
func GunzipBytes(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
