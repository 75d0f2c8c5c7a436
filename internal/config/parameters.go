// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

// Runtime modes accepted by the root command.
const (
	ModeService     = "service"
	ModeLambdaHTTP  = "lambda-http"
	ModeLambdaEvent = "lambda-event"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// GitHub is a struct that contains the configuration for GitHub.
	GitHub github
	// Storage is a struct that contains the configuration for the key-value binding.
	Storage storage
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// Events is the set of GitHub webhook events accepted by the gateway.
	Events []string `yaml:"events,omitempty" default:"[\"ping\", \"push\", \"pull_request\", \"pull_request_review\", \"issues\", \"issue_comment\", \"check_suite\", \"check_run\", \"workflow_run\", \"status\", \"deployment_status\", \"release\", \"installation\", \"installation_repositories\"]"`
}

type github struct {
	// AuthMode selects the credentials provider. Supported values are 'env', 'token' and 'ssm'.
	AuthMode string `yaml:"authMode,omitempty" default:"env"`
	// SSMKey is the SSM parameter holding the JSON credentials blob when authMode is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// WebhookSecret is the shared secret used to validate webhook payload signatures.
	WebhookSecret string `yaml:"webhookSecret,omitempty"`
	// AppID is the GitHub App identifier.
	AppID int64 `yaml:"appId,omitempty"`
	// AppPrivateKey is the GitHub App private key in PEM form.
	AppPrivateKey string `yaml:"appPrivateKey,omitempty"`
}

type storage struct {
	// Backend selects the key-value store implementation. Supported values are 'redis', 's3' and 'memory'.
	Backend string `yaml:"backend,omitempty" default:"memory"`
	// Addr is the backend address: a redis URL for 'redis', a bucket name for 's3'.
	Addr string `yaml:"addr,omitempty"`
	// Namespace is prefixed to every key written through the binding.
	Namespace string `yaml:"namespace,omitempty" default:"gh-webhook-gateway"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&GitHub),
		defaults.Set(&Storage),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		GitHub  github  `yaml:"github,omitempty"`
		Storage storage `yaml:"storage,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	GitHub = a.GitHub
	Storage = a.Storage
	Service = a.Service
	Lambda = a.Lambda

	return nil
}

// Validate checks the loaded configuration against the required schema. The
// returned error names every missing field; callers must not leak it to
// webhook senders.
func Validate() error {
	var problems []error
	switch GitHub.AuthMode {
	case "ssm":
		if GitHub.SSMKey == "" {
			problems = append(problems, errors.New("github.ssmKey is required in ssm auth mode"))
		}
	case "token":
		if GitHub.WebhookSecret == "" {
			problems = append(problems, errors.New("github.webhookSecret is required"))
		}
	default:
		if GitHub.WebhookSecret == "" {
			problems = append(problems, errors.New("github.webhookSecret is required"))
		}
		if GitHub.AppID == 0 {
			problems = append(problems, errors.New("github.appId is required"))
		}
		if GitHub.AppPrivateKey == "" {
			problems = append(problems, errors.New("github.appPrivateKey is required"))
		}
	}
	switch Storage.Backend {
	case "memory":
	case "redis", "s3":
		if Storage.Addr == "" {
			problems = append(problems, fmt.Errorf("storage.addr is required for the %s backend", Storage.Backend))
		}
	default:
		problems = append(problems, fmt.Errorf("unsupported storage backend: %s", Storage.Backend))
	}
	return errors.Join(problems...)
}
