package memory

import (
	"context"
	"io"
	"strings"
	"sync"
)

// ImageStore keeps uploads in memory. Used in dev when no S3 endpoint is
// reachable and in tests.
type ImageStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

func NewImageStore(baseURL string) *ImageStore {
	return &ImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *ImageStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = b
	s.mu.Unlock()
	return nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *ImageStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *ImageStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}

// Len reports how many objects are stored.
func (s *ImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
