package storage

import (
	"context"
	"log/slog"

	"github.com/isometry/gh-webhook-gateway/internal/controllers/aws"
	"github.com/isometry/gh-webhook-gateway/internal/helpers"
)

// S3 is a KV implementation storing each key as an object in an S3 bucket.
type S3 struct {
	awsController *aws.Controller
	bucket        string
	namespace     string
	logger        *slog.Logger
}

// NewS3 returns a store writing to the given bucket through the AWS controller.
func NewS3(awsController *aws.Controller, bucket, namespace string, logger *slog.Logger) *S3 {
	if logger == nil {
		logger = helpers.NewNoopLogger()
	}
	return &S3{awsController: awsController, bucket: bucket, namespace: namespace, logger: logger}
}

// Get returns the object stored under key, or ErrNotFound.
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	body, found, err := s.awsController.GetObject(ctx, s.bucket, namespaced(s.namespace, key))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return body, nil
}

// Put stores value as an object under key.
func (s *S3) Put(ctx context.Context, key string, value []byte) error {
	s.logger.Debug("putting object...", slog.String("bucket", s.bucket), slog.String("key", key))
	return s.awsController.PutObject(ctx, s.bucket, namespaced(s.namespace, key), value)
}

// Delete removes the object stored under key.
func (s *S3) Delete(ctx context.Context, key string) error {
	return s.awsController.DeleteObject(ctx, s.bucket, namespaced(s.namespace, key))
}
