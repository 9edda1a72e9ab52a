package storage

import (
	"context"
	"io"
	"time"
)

// Object describes a blob to upload.
type Object struct {
	Key         string
	Body        io.Reader
	ContentType string
}

// Service stores product images in remote object storage.
type Service interface {
	Put(ctx context.Context, obj Object) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
