// Package storage implements object storage backed by gocloud.dev blob buckets.
package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"medtracker/config"
	"medtracker/internal/domain/lifecycle"
	"medtracker/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// blobAvatarStore implements service.AvatarStore on top of a blob bucket.
// The bucket URL decides the backend: file:// in development, s3:// or
// gs:// in production, with the matching driver blank-imported in main.
type blobAvatarStore struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// New opens the configured bucket and manages its lifecycle through Fx.
func New(params Params) (service.AvatarStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open avatar bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobAvatarStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(params.Config.Storage.PublicBaseURL, "/"),
	}, nil
}

// NewWithBucket wires an already-open bucket, used by tests with memblob.
func NewWithBucket(bucket *blob.Bucket, publicBaseURL string) service.AvatarStore {
	return &blobAvatarStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload streams the object body to the bucket under the given key.
func (s *blobAvatarStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(writer, body); err != nil {
		// Close discards the partial write on error paths.
		_ = writer.Close()

		return errors.Wrap(err, "failed to write avatar object")
	}

	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "failed to commit avatar object")
	}

	return nil
}

// PublicURL renders the publicly reachable URL for a stored object key.
func (s *blobAvatarStore) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}
