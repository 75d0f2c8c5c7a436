// Package event provides a type for the event that triggered the webhook.
package event

import (
	"slices"

	"github.com/isometry/gh-webhook-gateway/internal/config"
)

// Type represents the type of event that triggered the webhook.
type Type string

const (
	// Ping represents the ping event sent when a webhook is registered.
	Ping Type = "ping"
	// Push represents a push event type.
	Push Type = "push"
	// PullRequest represents a pull request event type.
	PullRequest Type = "pull_request"
	// PullRequestReview represents a pull request review event type.
	PullRequestReview Type = "pull_request_review"
	// Issues represents an issues event type.
	Issues Type = "issues"
	// IssueComment represents an issue comment event type.
	IssueComment Type = "issue_comment"
	// CheckSuite represents a check suite event type.
	CheckSuite Type = "check_suite"
	// CheckRun represents a check run event type.
	CheckRun Type = "check_run"
	// WorkflowRun represents a workflow run event type.
	WorkflowRun Type = "workflow_run"
	// Status represents a status event type.
	Status Type = "status"
	// DeploymentStatus represents a deployment status event type.
	DeploymentStatus Type = "deployment_status"
	// Release represents a release event type.
	Release Type = "release"
	// Installation represents an app installation event type.
	Installation Type = "installation"
	// InstallationRepositories represents an installation repositories event type.
	InstallationRepositories Type = "installation_repositories"
)

// IsSupported returns true if the event type is in the configured event set.
func IsSupported(eventType Type) bool {
	return slices.Contains(config.Global.Events, string(eventType))
}
