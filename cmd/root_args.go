package cmd

import (
	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service', 'lambda-http' and 'lambda-event'",
		Short:       helpers.Ptr("m"),
	},
	&config.GitHub.AuthMode: {
		Name:        "github-auth-mode",
		Description: "Authentication credentials provider. Supported values are 'env', 'token' and 'ssm'.",
		Short:       helpers.Ptr("A"),
	},
	&config.GitHub.SSMKey: {
		Name:        "github-app-ssm-arn",
		Description: "The SSM parameter key to use when fetching GitHub App credentials",
	},
	&config.GitHub.WebhookSecret: {
		Name:        "github-webhook-secret",
		Description: "The secret to use when validating incoming GitHub webhook payloads",
	},
	&config.GitHub.AppPrivateKey: {
		Name:        "github-app-private-key",
		Description: "The GitHub App private key in PEM form",
	},
	&config.Storage.Backend: {
		Name:        "storage-backend",
		Description: "The key-value store backing cross-invocation state. Supported values are 'redis', 's3' and 'memory'",
	},
	&config.Storage.Addr: {
		Name:        "storage-addr",
		Description: "The key-value store address: a redis URL for the redis backend, a bucket name for the s3 backend",
	},
	&config.Storage.Namespace: {
		Name:        "storage-namespace",
		Description: "The prefix applied to every key written through the key-value binding",
	},
}

var envMapInt64 = map[*int64]boundEnvVar[int64]{
	&config.GitHub.AppID: {
		Name:        "github-app-id",
		Description: "The GitHub App identifier",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Global.Events: {
		Name:        "events",
		Description: "The GitHub webhook events accepted by the gateway",
	},
}
