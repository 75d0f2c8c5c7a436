package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/isometry/gh-webhook-gateway/internal/bindings"
	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/handler"
	"github.com/isometry/gh-webhook-gateway/internal/runtime"
)

// newGatewayRuntime assembles the gateway handler, registers the built-in
// bindings, and wraps everything in a runtime.
func newGatewayRuntime(cmd *cobra.Command) (*runtime.Runtime, error) {
	logger.Debug("creating gateway handler...")
	hdl, err := handler.NewGatewayHandler(
		handler.WithLambdaPayloadType(config.Lambda.PayloadType),
		handler.WithAuthMode(config.GitHub.AuthMode),
		handler.WithSSMKey(config.GitHub.SSMKey),
		handler.WithToken(os.Getenv("GITHUB_TOKEN")),
		handler.WithWebhookSecret(config.GitHub.WebhookSecret),
		handler.WithContext(cmd.Context()),
		handler.WithLogger(logger.With("component", "gateway-handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gateway handler")
	}

	bindings.Register(hdl.Dispatcher())

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
