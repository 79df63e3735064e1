// Package storage implements media storage on gocloud.dev buckets.
package storage

import (
	"context"
	"log/slog"

	"majicmall/config"
	"majicmall/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const defaultBucketURL = "mem://"

// ErrObjectNotFound is returned by Get for unknown keys.
var ErrObjectNotFound = errors.New("media object not found")

type blobStorage struct {
	bucket *blob.Bucket
}

// Params defines the dependencies of the media storage.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.MediaStorage, error) {
	bucketURL := defaultBucketURL
	if params.Config.Storage != nil && params.Config.Storage.BucketURL != "" {
		bucketURL = params.Config.Storage.BucketURL
	}

	bucket, err := blob.OpenBucket(params.Ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}
	params.Logger.Info("Media bucket opened", slog.String("url", bucketURL))

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobStorage(bucket), nil
}

// NewBlobStorage wraps an already opened bucket.
func NewBlobStorage(bucket *blob.Bucket) service.MediaStorage {
	return &blobStorage{bucket: bucket}
}

func (s *blobStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}

	return nil
}

func (s *blobStorage) Get(ctx context.Context, key string) ([]byte, string, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", ErrObjectNotFound
		}

		return nil, "", errors.Wrapf(err, "failed to stat %s", key)
	}

	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read %s", key)
	}

	return data, attrs.ContentType, nil
}

// Delete ignores keys that are already gone.
func (s *blobStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}
