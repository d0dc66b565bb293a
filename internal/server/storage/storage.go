// Package storage wraps the object-storage backend behind a small
// interface: presigned PUT grants, direct writes, and deletes. The S3
// implementation is built once at startup and passed into services as a
// dependency.
package storage

import (
	"context"
	"time"
)

// ObjectStore is the set of object-storage operations the intake flows
// consume.
type ObjectStore interface {
	// PresignPut returns a time-limited URL allowing one PUT of exactly
	// the given key, content type and size. The storage layer rejects an
	// upload whose actual size or content type differs.
	PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error)

	// Put writes an object with server-side encryption enabled.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the canonical storage URL for a key, suitable for
	// persisting in document path columns.
	URL(key string) string
}
