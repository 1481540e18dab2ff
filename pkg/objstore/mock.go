package objstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockStore 测试用的内存实现。FailPaths 里的路径上传会失败，
// 用来模拟部分上传失败的场景。
type MockStore struct {
	mu sync.Mutex

	Objects    map[string][]byte
	Timestamps map[string]time.Time
	FailPaths  map[string]error
	FailFunc   func(path string, data []byte) error
	RemoveErr  error

	UploadCalls []string
	RemoveCalls [][]string
}

func NewMockStore() *MockStore {
	return &MockStore{
		Objects:    make(map[string][]byte),
		Timestamps: make(map[string]time.Time),
		FailPaths:  make(map[string]error),
	}
}

func (m *MockStore) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls = append(m.UploadCalls, path)
	if m.FailFunc != nil {
		if err := m.FailFunc(path, data); err != nil {
			return "", err
		}
	}
	for prefix, err := range m.FailPaths {
		if strings.HasPrefix(path, prefix) {
			return "", err
		}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.Objects[path] = buf
	m.Timestamps[path] = time.Now()
	return m.PublicURL(path), nil
}

func (m *MockStore) List(ctx context.Context, prefix string) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Object
	for name, data := range m.Objects {
		if strings.HasPrefix(name, prefix) {
			ts, ok := m.Timestamps[name]
			if !ok {
				ts = time.Now()
			}
			out = append(out, Object{Name: name, Size: int64(len(data)), UpdatedAt: ts})
		}
	}
	return out, nil
}

func (m *MockStore) Remove(ctx context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalls = append(m.RemoveCalls, paths)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	for _, p := range paths {
		delete(m.Objects, p)
	}
	return nil
}

func (m *MockStore) PublicURL(path string) string {
	return "https://storage.test/object/public/documents/" + path
}
