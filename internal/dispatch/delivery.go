package dispatch

import (
	"context"
	"log/slog"

	"github.com/isometry/gh-webhook-gateway/internal/controllers/github"
	"github.com/isometry/gh-webhook-gateway/internal/event"
	"github.com/isometry/gh-webhook-gateway/internal/models"
	"github.com/isometry/gh-webhook-gateway/internal/storage"
)

// Delivery carries a single verified webhook delivery through the registered
// handlers. Handlers must treat it as read-only apart from the KV binding.
type Delivery struct {
	// Event is the validated event type from the x-github-event header.
	Event event.Type
	// ID is the delivery identifier from the x-github-delivery header.
	ID string
	// Payload is the parsed event, one of the go-github event structs.
	Payload any
	// Body is the raw request body the signature was verified over.
	Body []byte
	// Repository is the common repository context, when the payload has one.
	Repository *models.CommonRepository
	// KV is the key-value binding for cross-invocation state.
	KV storage.KV
	// Clients holds the per-installation GitHub clients, when available.
	Clients *github.Client
	// Logger is scoped to this delivery.
	Logger *slog.Logger
}

// Handler is a business-logic callback registered for one event type.
// Handlers are invoked sequentially in registration order after verification.
type Handler func(ctx context.Context, delivery *Delivery) error
