package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const fsMetaSuffix = ".meta"

// local is a store that uses the local filesystem.
type local struct {
	path string
}

// NewLocalStore initializes a new local file storage creating the path if necessary.
func NewLocalStore(path string) (Store, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: failed to make path %q absolute: %w", path, err)
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: failed to create path %q: %w", path, err)
	}
	return &local{path: path}, nil
}

func (s *local) pathForID(id string) (string, error) {
	full := filepath.Join(s.path, strings.TrimPrefix(id, "/"))
	if full == s.path || !strings.HasPrefix(full, s.path+string(filepath.Separator)) {
		return "", fmt.Errorf("storage.Local: invalid id %q", id)
	}
	return full, nil
}

func (s *local) Put(_ context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error) {
	fullPath, err := s.pathForID(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return "", err
	}

	header := map[string]string{}
	for k, v := range meta {
		header[k] = v
	}
	header["Content-Length"] = strconv.Itoa(len(data))
	header["Content-Type"] = contentType
	b, err := json.Marshal(header)
	if err != nil {
		os.Remove(fullPath)
		return "", err
	}
	if err := os.WriteFile(fullPath+fsMetaSuffix, b, 0o600); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	return name, nil
}

func (s *local) Get(_ context.Context, id string) ([]byte, http.Header, error) {
	path, err := s.pathForID(id)
	if err != nil {
		return nil, nil, err
	}
	h, err := localHeader(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w: path=%q", ErrNoObject, path)
	} else if err != nil {
		return nil, nil, err
	}
	return data, h, nil
}

func localHeader(path string) (http.Header, error) {
	b, err := os.ReadFile(path + fsMetaSuffix)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: path=%q", ErrNoObject, path)
	} else if err != nil {
		return nil, err
	}
	var meta map[string]string
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, err
	}
	h := http.Header{}
	for k, v := range meta {
		h.Set(k, v)
	}
	return h, nil
}

func (s *local) Delete(_ context.Context, id string) error {
	path, err := s.pathForID(id)
	if err != nil {
		return err
	}
	os.Remove(path + fsMetaSuffix)
	if err := os.Remove(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: path=%q", ErrNoObject, path)
	} else if err != nil {
		return err
	}
	return nil
}
