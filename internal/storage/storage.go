package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned by Open when the named object is absent.
var ErrNotExist = errors.New("object does not exist")

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Source is a read-only collection of dataset files addressed by name
// relative to the source root.
type Source interface {
	List(ctx context.Context) ([]ObjectInfo, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Describe names the source for logs.
	Describe() string
}
