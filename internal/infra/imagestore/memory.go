package imagestore

import (
	"context"
	"strings"
	"sync"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
)

// MediaPrefix is the path the HTTP layer serves memory-held images under.
const MediaPrefix = "/media/"

// MemoryStorage keeps images in memory. Useful for tests and local dev.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

type blob struct {
	data        []byte
	contentType string
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string]blob)}
}

// Put stores the image and returns a gateway-relative URL.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob{data: append([]byte(nil), data...), contentType: contentType}
	return MediaPrefix + key, nil
}

// Open returns a stored image.
func (s *MemoryStorage) Open(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[strings.TrimPrefix(key, "/")]
	if !ok {
		return nil, "", false
	}
	return b.data, b.contentType, true
}

// Delete removes the image.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

var _ policy.ImageStorage = (*MemoryStorage)(nil)
