// Package handler implements the webhook gateway entry point: configuration
// validation, header extraction, and delegation to the verification and
// dispatch step.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/pkg/errors"

	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/controllers/aws"
	ghcontroller "github.com/isometry/gh-webhook-gateway/internal/controllers/github"
	"github.com/isometry/gh-webhook-gateway/internal/dispatch"
	"github.com/isometry/gh-webhook-gateway/internal/event"
	"github.com/isometry/gh-webhook-gateway/internal/gwerr"
	"github.com/isometry/gh-webhook-gateway/internal/models"
	"github.com/isometry/gh-webhook-gateway/internal/storage"
	"github.com/isometry/gh-webhook-gateway/internal/validation"
)

// Option is a functional option used to configure a Handler instance.
type Option func(*Handler)

// Handler is the gateway request handler. It is stateless per request; any
// cross-invocation state lives behind the key-value binding.
type Handler struct {
	ctx               context.Context
	logger            *slog.Logger
	githubController  *ghcontroller.Controller
	awsController     *aws.Controller
	dispatcher        *dispatch.Dispatcher
	kv                storage.KV
	authMode          string
	ssmKey            string
	ghToken           string
	webhookSecret     *validation.WebhookSecret
	lambdaPayloadType string
}

// NewGatewayHandler assembles the handler: AWS controller when the
// configuration needs one, GitHub controller, key-value binding, and the
// dispatcher with the built-in bindings registered by the caller.
func NewGatewayHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		opt(_inst)
	}

	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}

	if _inst.awsController == nil && (_inst.authMode == "ssm" || config.Storage.Backend == "s3") {
		awsCtl, err := aws.NewController(
			aws.WithLogger(_inst.logger.With("component", "aws-controller")),
			aws.WithContext(_inst.ctx))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
		_inst.awsController = awsCtl
	}

	githubController, err := ghcontroller.NewController(
		ghcontroller.WithLogger(_inst.logger.With("component", "github-controller")),
		ghcontroller.WithContext(_inst.ctx),
		ghcontroller.WithAuthMode(_inst.authMode),
		ghcontroller.WithSSMKey(_inst.ssmKey),
		ghcontroller.WithToken(_inst.ghToken),
		ghcontroller.WithAWSController(_inst.awsController),
		ghcontroller.WithWebhookSecret(_inst.webhookSecret))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the GitHub controller instance")
	}
	_inst.githubController = githubController

	if _inst.kv == nil {
		kv, err := storage.New(_inst.ctx, _inst.logger.With("component", "storage"), _inst.awsController)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create the key-value binding")
		}
		_inst.kv = kv
	}

	if _inst.dispatcher == nil {
		_inst.dispatcher = dispatch.NewDispatcher(
			dispatch.WithLogger(_inst.logger.With("component", "dispatcher")),
			dispatch.WithVerifier(githubController))
	}

	return _inst, nil
}

// Dispatcher exposes the registry so callers can bind additional handlers.
func (h *Handler) Dispatcher() *dispatch.Dispatcher {
	return h.dispatcher
}

// KV exposes the key-value binding injected into every delivery.
func (h *Handler) KV() storage.KV {
	return h.kv
}

// Process handles a single webhook delivery: it validates the configuration,
// extracts the required headers, and delegates verification and handler
// dispatch. On full success it shapes the plain-text 200 response; every
// failure is returned for the boundary to sanitize.
func (h *Handler) Process(body []byte, headers map[string]string) (models.Response, error) {
	logger := h.logger
	logger.Info("processing request...")

	if err := config.Validate(); err != nil {
		// Log the detail server-side only; the caller gets the generic error.
		logger.Error("invalid configuration", slog.Any("error", err))
		return models.Response{}, errors.Wrap(err, "invalid configuration")
	}

	eventType, found := headers[strings.ToLower(github.EventTypeHeader)]
	if !found || !event.IsSupported(event.Type(eventType)) {
		logger.Warn("unsupported or missing event", slog.String("event", eventType))
		return models.Response{}, gwerr.New("unsupported or missing event")
	}
	logger = logger.With(slog.String("event", eventType))

	if _, found = headers[strings.ToLower(github.SHA256SignatureHeader)]; !found {
		logger.Warn("missing signature")
		return models.Response{}, gwerr.New("missing signature")
	}

	deliveryID, found := headers[strings.ToLower(github.DeliveryIDHeader)]
	if !found {
		logger.Warn("missing delivery ID")
		return models.Response{}, gwerr.New("missing delivery id")
	}
	logger = logger.With(slog.String("deliveryID", deliveryID))

	if err := h.githubController.RetrieveCredentials(); err != nil {
		logger.Warn("failed to refresh credentials", slog.Any("error", err))
		return models.Response{}, errors.Wrap(err, "failed to refresh credentials")
	}

	// Installation clients are best effort: some deliveries (e.g. ping)
	// carry no installation reference.
	clients, err := h.githubController.GetClients(body)
	if err != nil {
		logger.Debug("no installation clients available", slog.Any("error", err))
	}

	delivery := &dispatch.Delivery{
		Event:   event.Type(eventType),
		ID:      deliveryID,
		Body:    body,
		KV:      h.kv,
		Clients: clients,
		Logger:  logger,
	}
	if err := h.dispatcher.VerifyAndDispatch(h.ctx, delivery, headers); err != nil {
		logger.Warn("dispatch failed", slog.Any("error", err))
		return models.Response{}, err
	}

	logger.Info("dispatch complete")
	return models.Response{
		Body:       "ok\n",
		Headers:    map[string]string{"Content-Type": "text/plain"},
		StatusCode: http.StatusOK,
	}, nil
}

// GetLambdaPayloadType returns the payload type expected in lambda mode.
func (h *Handler) GetLambdaPayloadType() string {
	return h.lambdaPayloadType
}
