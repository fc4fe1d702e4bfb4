package storage

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoObject is returned when the requested object does not exist.
var ErrNoObject = errors.New("storage: no object")

// Store keeps generated documents. Put returns the ID to use with Get and
// Delete.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error)
	Get(ctx context.Context, id string) ([]byte, http.Header, error)
	Delete(ctx context.Context, id string) error
}
