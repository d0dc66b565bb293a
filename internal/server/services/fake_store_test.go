package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// fakeStore is an in-memory ObjectStore for service tests. Failures can be
// injected per key substring.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	puts       []string
	deletes    []string
	presigns   []string
	failPut    string // Put fails when the key contains this substring
	failDelete string // Delete fails when the key contains this substring
	presignErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.presigns = append(f.presigns, key)
	return "https://signed.example/" + key, nil
}

func (f *fakeStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != "" && strings.Contains(key, f.failPut) {
		return fmt.Errorf("injected put failure for %s", key)
	}
	f.objects[key] = body
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	if f.failDelete != "" && strings.Contains(key, f.failDelete) {
		return fmt.Errorf("injected delete failure for %s", key)
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) URL(key string) string {
	return "s3://test-bucket/" + key
}

func (f *fakeStore) storedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}
