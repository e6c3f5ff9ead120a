package objectstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps objects in process. Used by tests and OBJECT_STORAGE_MODE=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]MemoryObject
	baseURL string
}

func NewMemoryStore(publicBaseURL string) *MemoryStore {
	if publicBaseURL == "" {
		publicBaseURL = "memory://objects"
	}
	return &MemoryStore{objects: map[string]MemoryObject{}, baseURL: publicBaseURL}
}

func (m *MemoryStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}
	m.mu.Lock()
	m.objects[NormalizeKey(key)] = MemoryObject{Data: buf.Bytes(), ContentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.objects[NormalizeKey(key)]
	m.mu.RUnlock()
	return ok, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, NormalizeKey(key))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return JoinURL(m.baseURL, key)
}

func (m *MemoryStore) Get(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[NormalizeKey(key)]
	return obj, ok
}

func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}
