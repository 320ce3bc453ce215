package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Memory is an in-process Store. Presigned URLs point at a fake host and
// objects are placed with Put.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
}

func NewMemory() *Memory {
	return &Memory{objects: map[string]memObject{}}
}

func (m *Memory) Put(key, contentType string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{data: data, contentType: contentType}
}

func (m *Memory) PresignPut(_ context.Context, key string, expiry time.Duration) (*url.URL, error) {
	return m.presign("PUT", key, expiry), nil
}

func (m *Memory) PresignGet(_ context.Context, key, _ string, expiry time.Duration) (*url.URL, error) {
	return m.presign("GET", key, expiry), nil
}

func (m *Memory) presign(method, key string, expiry time.Duration) *url.URL {
	q := url.Values{}
	q.Set("method", method)
	q.Set("expires", fmt.Sprintf("%d", int(expiry.Seconds())))
	return &url.URL{Scheme: "http", Host: "storage.local", Path: "/" + key, RawQuery: q.Encode()}
}

func (m *Memory) Stat(_ context.Context, key string) (ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, ErrNotFound
	}
	return ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}

func (m *Memory) Read(_ context.Context, key string, maxBytes int64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	if int64(len(obj.data)) > maxBytes {
		return nil, fmt.Errorf("object %s exceeds %d bytes", key, maxBytes)
	}
	return append([]byte(nil), obj.data...), nil
}
