// Package github provides a Controller for GitHub client construction and credentials management.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v84/github"
	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/controllers/aws"
	"github.com/isometry/gh-webhook-gateway/internal/helpers"
	"github.com/isometry/gh-webhook-gateway/internal/validation"
)

// EventInstallationID represents an event payload containing an installation ID.
type EventInstallationID struct {
	Installation struct {
		ID *int64 `json:"id"`
	} `json:"installation"`
}

// GHOption is a functional option used to configure or modify the properties of a Controller instance.
type GHOption func(*Controller)

// Client holds the v3 and v4 clients spawned for a single installation.
type Client struct {
	installationID int64
	V3             *github.Client
	V4             *githubv4.Client
}

// Controller encapsulates GitHub credentials management and per-installation client construction.
type Controller struct {
	Credentials

	authMode      string
	ssmKey        string
	ctx           context.Context
	logger        *slog.Logger
	awsController *aws.Controller

	mu          sync.Mutex
	clientCache map[int64]*Client
}

// Credentials is a helper struct to hold the GitHub App credentials.
type Credentials struct {
	AppID         int64                     `json:"app_id,omitempty"`
	PrivateKey    string                    `json:"private_key,omitempty"`
	WebhookSecret *validation.WebhookSecret `json:"webhook_secret"`
	Token         string                    `json:"token,omitempty"`
}

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...GHOption) (*Controller, error) {
	_inst := new(Controller)
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("authMode", _inst.authMode)
	_inst.clientCache = make(map[int64]*Client)
	return _inst, nil
}

// RetrieveCredentials fetches the GitHub credentials from the environment or SSM.
func (g *Controller) RetrieveCredentials() error {
	switch strings.TrimSpace(strings.ToLower(g.authMode)) {
	case "env":
		if g.WebhookSecret == nil {
			g.WebhookSecret = validation.NewWebhookSecret(config.GitHub.WebhookSecret)
		}
		g.AppID = config.GitHub.AppID
		g.PrivateKey = config.GitHub.AppPrivateKey
		if g.AppID == 0 || g.PrivateKey == "" {
			return errors.New("missing GitHub App credentials")
		}
		return nil
	case "token":
		if g.Token == "" {
			return errors.New("missing [GITHUB_TOKEN]")
		}
		return nil
	case "ssm":
		if g.WebhookSecret != nil && g.AppID != 0 && g.PrivateKey != "" {
			g.logger.Debug("using cached GitHub App credentials...")
			return nil
		}
		g.logger.Debug("retrieving credentials from SSM...")
		secret, err := g.awsController.GetSecret(g.ssmKey, true)
		if err != nil {
			return errors.Wrap(err, "failed to fetch credentials from SSM")
		}
		if err = json.Unmarshal([]byte(*secret), &g.Credentials); err != nil {
			return errors.Wrap(err, "failed to unmarshal credentials")
		}
	default:
		return fmt.Errorf("unsupported auth mode: %s", g.authMode)
	}
	return nil
}

// GetClients returns a client pair for the installation referenced by the payload, spawning and caching on miss.
func (g *Controller) GetClients(body []byte) (*Client, error) {
	var eventInstallationID EventInstallationID
	if err := json.Unmarshal(body, &eventInstallationID); err != nil {
		return nil, fmt.Errorf("no installation ID found. error: %w", err)
	}

	installationID := eventInstallationID.Installation.ID
	if installationID == nil {
		return nil, errors.New("no installation ID found")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if client, ok := g.clientCache[*installationID]; ok {
		g.logger.Debug("cache hit. using cached client...", slog.Int64("installationID", *installationID))
		return client, nil
	}

	g.logger.Debug("cache miss. spawning clients...", slog.Int64("installationID", *installationID))
	var (
		clientV3 *github.Client
		clientV4 *githubv4.Client
	)
	switch strings.TrimSpace(strings.ToLower(g.authMode)) {
	case "token":
		g.logger.Debug("[GITHUB_TOKEN] detected. Spawning clients using PAT...")
		src := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: g.Token},
		)
		httpClient := oauth2.NewClient(g.ctx, src)
		rateLimiter := github_ratelimit.New(httpClient.Transport)

		clientV3 = github.NewClient(&http.Client{Transport: rateLimiter})
		clientV4 = githubv4.NewClient(&http.Client{Transport: rateLimiter})
	case "env", "ssm":
		g.logger.Debug("spawning clients using GitHub App credentials...")
		roundTripper := &loggingRoundTripper{logger: g.logger}
		transport, err := ghinstallation.New(roundTripper, g.AppID, *installationID, []byte(g.PrivateKey))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create installation transport")
		}

		rateLimiter := github_ratelimit.New(transport)
		clientV3 = github.NewClient(&http.Client{Transport: rateLimiter})
		clientV4 = githubv4.NewClient(&http.Client{Transport: rateLimiter})
	default:
		return nil, errors.New("no valid credentials found")
	}

	g.clientCache[*installationID] = &Client{
		installationID: *installationID,
		V3:             clientV3,
		V4:             clientV4,
	}
	g.logger.Debug("successfully cached spawned clients...", slog.Int64("installationID", *installationID))
	return g.clientCache[*installationID], nil
}

// ValidateWebhookSecret verifies the webhook signature in the provided headers against the raw body.
func (g *Controller) ValidateWebhookSecret(body []byte, headers map[string]string) error {
	return g.WebhookSecret.ValidateSignature(body, headers)
}

type loggingRoundTripper struct {
	logger *slog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	l.logger.Log(req.Context(), slog.LevelDebug-4, "sending request...", slog.String("method", req.Method), slog.Any("url", req.URL))
	return http.DefaultTransport.RoundTrip(req)
}
