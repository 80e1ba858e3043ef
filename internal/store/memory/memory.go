// Package memory provides the in-memory KV backend, used in tests and
// when the server runs without a data directory.
package memory

import (
	"context"
	"sync"
)

// KV is a mutex-guarded map of collection blobs.
type KV struct {
	mu    sync.Mutex
	blobs map[string]string
}

// New returns an empty in-memory backend.
func New() *KV {
	return &KV{blobs: make(map[string]string)}
}

// Seed pre-loads a blob, bypassing change notification. Test helper.
func (k *KV) Seed(key, blob string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.blobs[key] = blob
}

// Get returns the blob for key, ok=false when absent.
func (k *KV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	blob, ok := k.blobs[key]
	return blob, ok, nil
}

// Put stores the blob under key, replacing any previous value.
func (k *KV) Put(_ context.Context, key string, blob string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.blobs[key] = blob
	return nil
}
