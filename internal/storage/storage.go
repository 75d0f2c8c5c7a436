// Package storage provides the key-value binding used to persist
// cross-invocation state on behalf of registered webhook handlers. The
// gateway itself is stateless per request; everything durable goes through
// this capability.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/controllers/aws"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// KV is the key-value capability object handed to webhook handlers. It is
// constructed once per process and injected into the handler-construction
// step, never held as a module-level singleton.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// New builds the KV binding selected by the storage configuration. The AWS
// controller is only required for the s3 backend.
func New(ctx context.Context, logger *slog.Logger, awsController *aws.Controller) (KV, error) {
	switch config.Storage.Backend {
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(ctx, config.Storage.Addr, config.Storage.Namespace)
	case "s3":
		if awsController == nil {
			return nil, errors.New("s3 storage backend requires an AWS controller")
		}
		return NewS3(awsController, config.Storage.Addr, config.Storage.Namespace, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", config.Storage.Backend)
	}
}

func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + "/" + key
}
