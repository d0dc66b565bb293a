package storage

import (
	"context"
	"time"
)

// DisabledStore stands in when no bucket is configured and uploads are
// switched off. Registrations still commit; every storage operation fails
// with ErrBucketNotConfigured so callers surface the misconfiguration
// instead of writing nowhere.
type DisabledStore struct{}

func NewDisabledStore() *DisabledStore { return &DisabledStore{} }

func (*DisabledStore) PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error) {
	return "", ErrBucketNotConfigured
}

func (*DisabledStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	return ErrBucketNotConfigured
}

func (*DisabledStore) Delete(ctx context.Context, key string) error {
	return ErrBucketNotConfigured
}

func (*DisabledStore) URL(key string) string {
	return ""
}
