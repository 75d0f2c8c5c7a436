// Package dispatch implements the verification and dispatch step: it checks
// the HMAC-SHA256 signature over the raw body, parses the payload, and routes
// the event to the handlers registered for its type.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/go-github/v84/github"

	"github.com/isometry/gh-webhook-gateway/internal/event"
	"github.com/isometry/gh-webhook-gateway/internal/gwerr"
	"github.com/isometry/gh-webhook-gateway/internal/helpers"
	"github.com/isometry/gh-webhook-gateway/internal/models"
)

// Verifier checks the authenticity of a raw payload against its headers.
type Verifier interface {
	ValidateWebhookSecret(body []byte, headers map[string]string) error
}

// Option is a functional option used to configure a Dispatcher instance.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithVerifier sets the authenticity verifier consulted before any handler runs.
func WithVerifier(verifier Verifier) Option {
	return func(d *Dispatcher) {
		d.verifier = verifier
	}
}

// Dispatcher holds the registry mapping event types to ordered handler lists.
type Dispatcher struct {
	logger   *slog.Logger
	verifier Verifier
	registry map[event.Type][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	_inst := &Dispatcher{
		registry: make(map[event.Type][]Handler),
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// On appends handlers to the ordered list registered for the event type.
func (d *Dispatcher) On(eventType event.Type, handlers ...Handler) {
	d.registry[eventType] = append(d.registry[eventType], handlers...)
}

// Handles reports whether at least one handler is registered for the event type.
func (d *Dispatcher) Handles(eventType event.Type) bool {
	return len(d.registry[eventType]) > 0
}

// VerifyAndDispatch verifies the signature over the raw body and, on success,
// parses the payload and invokes every handler registered for the delivery's
// event type, sequentially. Handler errors do not short-circuit the chain;
// they are all collected into a gwerr.Aggregate so the boundary can log every
// failure while surfacing only the first.
func (d *Dispatcher) VerifyAndDispatch(ctx context.Context, delivery *Delivery, headers map[string]string) error {
	if d.verifier == nil {
		return gwerr.New("missing webhook verifier")
	}
	if err := d.verifier.ValidateWebhookSecret(delivery.Body, headers); err != nil {
		return gwerr.Collect(err)
	}
	d.logger.Debug("request body is valid", slog.String("deliveryID", delivery.ID))

	payload, err := github.ParseWebHook(string(delivery.Event), delivery.Body)
	if err != nil {
		return gwerr.Collect(gwerr.New("invalid payload: %v", err))
	}
	delivery.Payload = payload
	delivery.Repository = extractRepository(delivery.Body)
	if delivery.Logger == nil {
		delivery.Logger = d.logger
	}
	delivery.Logger = delivery.Logger.With(slog.String("event", string(delivery.Event)), slog.String("deliveryID", delivery.ID))

	handlers := d.registry[delivery.Event]
	errs := make([]error, 0, len(handlers))
	for i, handler := range handlers {
		if err := handler(ctx, delivery); err != nil {
			d.logger.Warn("handler failed",
				slog.String("event", string(delivery.Event)),
				slog.String("deliveryID", delivery.ID),
				slog.Int("handler", i),
				slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return gwerr.Collect(errs...)
}

func extractRepository(body []byte) *models.CommonRepository {
	var eventRepository models.EventRepository
	if err := json.Unmarshal(body, &eventRepository); err != nil {
		return nil
	}
	return &eventRepository.Repository
}
