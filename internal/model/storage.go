package model

import (
	"context"
	"io"
)

// Storage keeps uploaded image files addressed by a flat key.
// Download returns ErrNotFound for unknown keys.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
