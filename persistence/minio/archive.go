// Package minio provides a snapshot archive backed by MinIO or any
// S3-compatible object store.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/xdb-io/xdb/persistence"
)

// Archive implements persistence.Archive on top of a MinIO bucket.
type Archive struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewArchive creates a snapshot archive in bucket. rootPrefix is prepended
// to every object key (e.g. "xdb/snapshots/").
func NewArchive(client *minio.Client, bucket, rootPrefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (a *Archive) key(name string) string {
	return path.Join(a.prefix, name)
}

// Put uploads a snapshot, overwriting any previous object with the same name.
func (a *Archive) Put(ctx context.Context, name string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, a.key(name),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Get downloads a previously archived snapshot.
func (a *Archive) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, persistence.ErrArchiveNotFound
		}
		return nil, err
	}
	return data, nil
}

// List returns all archived snapshot names with the given prefix, sorted.
func (a *Archive) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := a.key(prefix)

	var names []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, a.prefix)
		name = strings.TrimPrefix(name, "/")
		if name != "" {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}
