package service

import "context"

// MediaStorage stores uploaded images under opaque keys.
type MediaStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}
