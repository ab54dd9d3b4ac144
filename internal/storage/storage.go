package storage

import (
	"context"
	"io"
)

// ObjectStorage abstrae el almacén remoto de objetos multimedia.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
