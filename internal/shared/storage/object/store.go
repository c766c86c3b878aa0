// Package object stores rendered exports and other binary artifacts.
package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are namespaced by a hash of the owning user ID.
type ObjectStore interface {
	Put(ctx context.Context, userID, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Presigner is implemented by stores that can hand out time-limited download
// links, letting clients fetch exports without proxying through the API.
type Presigner interface {
	PresignGet(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
}
