// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"

	"github.com/isometry/gh-webhook-gateway/internal/gwerr"
)

// WebhookSecret represents a secret used to validate webhook signatures for verifying request authenticity.
type WebhookSecret string

// NewWebhookSecret creates a new WebhookSecret instance from the provided secret string and returns its address.
func NewWebhookSecret(secret string) *WebhookSecret {
	s := WebhookSecret(secret)
	return &s
}

// ValidateSignature validates the HMAC-SHA256 signature of a webhook request using the provided body and headers.
// Comparison is constant time, delegated to go-github.
func (s *WebhookSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if s == nil {
		return gwerr.New("missing webhook secret")
	}
	signature, found := headers[strings.ToLower(github.SHA256SignatureHeader)]
	if !found {
		return gwerr.New("missing signature")
	}

	if contentType := headers["content-type"]; contentType != "application/json" {
		return gwerr.New("unsupported content type: %s", contentType)
	}

	if err := github.ValidateSignature(signature, body, []byte(*s)); err != nil {
		return gwerr.WithStatus(http.StatusUnauthorized, "signature verification failed: %v", err)
	}
	return nil
}
