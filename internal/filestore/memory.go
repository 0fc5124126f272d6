package filestore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"docroute/pkg/platform/sentinel"
)

type memoryObject struct {
	data []byte
	info ObjectInfo
}

// InMemory is a FileStore fake for tests and single-node development.
type InMemory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewInMemory constructs an empty in-memory file store.
func NewInMemory() *InMemory {
	return &InMemory{objects: make(map[string]memoryObject)}
}

func (s *InMemory) Put(_ context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read content: %w", err)
	}
	sum := md5.Sum(data)
	info := ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ETag:         hex.EncodeToString(sum[:]),
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, info: info}
	return info, nil
}

func (s *InMemory) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ObjectInfo{}, sentinel.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

func (s *InMemory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *InMemory) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", sentinel.ErrNotFound
	}
	return "memory://" + key + "?expires=" + expiry.String(), nil
}

// Len reports the number of stored objects.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
