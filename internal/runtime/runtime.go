// Package runtime adapts the gateway handler to its execution environments:
// a plain HTTP server and AWS Lambda in its various payload flavours.
package runtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"

	"github.com/isometry/gh-webhook-gateway/internal/handler"
	"github.com/isometry/gh-webhook-gateway/internal/helpers"
	"github.com/isometry/gh-webhook-gateway/internal/models"
)

// Option is a functional option used to configure a Runtime instance.
type Option func(*Runtime)

// WithLogger sets the logger used by the runtime layer.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// Runtime wraps the gateway handler for a concrete execution environment.
type Runtime struct {
	*handler.Handler
	logger *slog.Logger
}

// NewRuntime creates a new runtime instance.
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return _inst
}

// Lambda is the Lambda handler for HTTP-shaped payloads. The raw payload is
// decoded according to the configured payload type.
func (r *Runtime) Lambda(_ context.Context, raw json.RawMessage) (any, error) {
	r.logger.Info("received lambda request")

	payloadType := r.Handler.GetLambdaPayloadType()
	var req models.Request
	switch payloadType {
	case "api-gateway-v1":
		var e events.APIGatewayProxyRequest
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal API Gateway v1 payload")
		}
		req = models.Request{Body: e.Body, Headers: e.Headers}
	case "api-gateway-v2":
		var e events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal API Gateway v2 payload")
		}
		req = models.Request{Body: e.Body, Headers: e.Headers}
	case "lambda-url":
		var e events.LambdaFunctionURLRequest
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal Lambda URL payload")
		}
		req = models.Request{Body: e.Body, Headers: e.Headers}
	default:
		return nil, errors.Errorf("unsupported lambda payload type: %s", payloadType)
	}

	result := r.process(req)

	switch payloadType {
	case "api-gateway-v1":
		return events.APIGatewayProxyResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "api-gateway-v2":
		return events.APIGatewayV2HTTPResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	default:
		return events.LambdaFunctionURLResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	}
}

// LambdaForEvent is the Lambda handler for EventBridge-forwarded deliveries.
func (r *Runtime) LambdaForEvent(_ context.Context, event models.Event) (models.Response, error) {
	r.logger.Info("received forwarded event", slog.String("source", event.Source), slog.String("id", event.ID))
	return r.process(event.Detail), nil
}

// ServeHTTP is the HTTP handler for the runtime.
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusMethodNotAllowed}, nil, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{}, errors.Wrap(err, "failed to read request body"), resp)
		return
	}

	headers := make(map[string]string)
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = v[0]
	}

	result, err := r.Handler.Process(body, headers)
	helpers.RespondHTTP(result, err, resp)
}

// process normalises header keys and shapes the error response inline, for
// the lambda entrypoints which cannot stream a response writer.
func (r *Runtime) process(req models.Request) models.Response {
	headers := make(map[string]string)
	for k, v := range req.Headers {
		headers[strings.ToLower(k)] = v
	}

	result, err := r.Handler.Process([]byte(req.Body), headers)
	if err != nil {
		status, body := helpers.ErrorPayload(err)
		return models.Response{
			Body:       body,
			Headers:    map[string]string{"Content-Type": "application/json"},
			StatusCode: status,
		}
	}
	return result
}
