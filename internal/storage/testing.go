package storage

import (
	"context"
	"net/http"
	"strconv"
	"sync"
)

type TestObject struct {
	Data    []byte
	Headers http.Header
}

type testStore struct {
	objects map[string]*TestObject
	mu      sync.Mutex
}

// NewTestStore returns an in-memory Store for tests.
func NewTestStore(objects map[string]*TestObject) Store {
	if objects == nil {
		objects = make(map[string]*TestObject)
	}
	return &testStore{objects: objects}
}

func (s *testStore) Put(_ context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	headers := http.Header{}
	headers.Set("Content-Length", strconv.Itoa(len(data)))
	headers.Set("Content-Type", contentType)
	for k, v := range meta {
		headers.Set(k, v)
	}
	s.objects[name] = &TestObject{data, headers}
	return name, nil
}

func (s *testStore) Get(_ context.Context, id string) ([]byte, http.Header, error) {
	s.mu.Lock()
	o := s.objects[id]
	s.mu.Unlock()
	if o == nil {
		return nil, nil, ErrNoObject
	}
	return o.Data, o.Headers, nil
}

func (s *testStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.objects, id)
	s.mu.Unlock()
	return nil
}
