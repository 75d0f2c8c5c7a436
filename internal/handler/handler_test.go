package handler_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/gh-webhook-gateway/internal/bindings"
	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/dispatch"
	"github.com/isometry/gh-webhook-gateway/internal/event"
	"github.com/isometry/gh-webhook-gateway/internal/gwerr"
	"github.com/isometry/gh-webhook-gateway/internal/handler"
	"github.com/isometry/gh-webhook-gateway/internal/helpers"
	"github.com/isometry/gh-webhook-gateway/internal/storage"
)

const testSecret = "key"

var (
	eventHeader     = strings.ToLower(github.EventTypeHeader)
	signatureHeader = strings.ToLower(github.SHA256SignatureHeader)
	deliveryHeader  = strings.ToLower(github.DeliveryIDHeader)
)

func generateHmacSha256(payload, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func validConfig(t *testing.T) {
	t.Helper()
	require.NoError(t, config.SetDefaults())
	config.GitHub.AuthMode = "env"
	config.GitHub.WebhookSecret = testSecret
	config.GitHub.AppID = 1
	config.GitHub.AppPrivateKey = "pem"
	config.Storage.Backend = "memory"
	config.Storage.Addr = ""
}

func newTestHandler(t *testing.T) (*handler.Handler, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	hdl, err := handler.NewGatewayHandler(
		handler.WithContext(context.Background()),
		handler.WithAuthMode("env"),
		handler.WithWebhookSecret(testSecret),
		handler.WithKV(kv),
		handler.WithLogger(helpers.NewNoopLogger()))
	require.NoError(t, err)
	bindings.Register(hdl.Dispatcher())
	return hdl, kv
}

func signedHeaders(eventType, deliveryID, body string) map[string]string {
	return map[string]string{
		"content-type":  "application/json",
		eventHeader:     eventType,
		deliveryHeader:  deliveryID,
		signatureHeader: "sha256=" + generateHmacSha256(body, testSecret),
	}
}

func TestProcess_HeaderValidation(t *testing.T) {
	testCases := []struct {
		Name            string
		Headers         map[string]string
		ExpectedMessage string
	}{
		{
			Name:            "missing_event_type",
			Headers:         map[string]string{},
			ExpectedMessage: "unsupported or missing event",
		},
		{
			Name: "unsupported_event_type",
			Headers: map[string]string{
				eventHeader: "invalid",
			},
			ExpectedMessage: "unsupported or missing event",
		},
		{
			Name: "missing_signature",
			Headers: map[string]string{
				eventHeader: "ping",
			},
			ExpectedMessage: "missing signature",
		},
		{
			Name: "missing_delivery_id",
			Headers: map[string]string{
				eventHeader:     "ping",
				signatureHeader: "sha256=deadbeef",
			},
			ExpectedMessage: "missing delivery id",
		},
	}

	validConfig(t)
	hdl, _ := newTestHandler(t)
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := hdl.Process([]byte(`{}`), tc.Headers)
			require.Error(t, err)

			status, message := gwerr.ResponseFor(err)
			assert.NotEqual(t, http.StatusOK, status)
			assert.Equal(t, tc.ExpectedMessage, message)
		})
	}
}

func TestProcess_InvalidSignature(t *testing.T) {
	validConfig(t)
	hdl, _ := newTestHandler(t)

	body := `{"zen": "keep it logically awesome"}`
	headers := signedHeaders("ping", "d-1", body)
	headers[signatureHeader] = "sha256=" + generateHmacSha256(body, "wrong-secret")

	_, err := hdl.Process([]byte(body), headers)
	require.Error(t, err)

	status, message := gwerr.ResponseFor(err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, message, "signature verification failed")
}

func TestProcess_ValidDelivery(t *testing.T) {
	validConfig(t)
	hdl, kv := newTestHandler(t)

	body := `{"zen": "keep it logically awesome"}`
	resp, err := hdl.Process([]byte(body), signedHeaders("ping", "d-2", body))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", resp.Body)
	assert.Equal(t, "text/plain", resp.Headers["Content-Type"])

	// The built-in archiver persisted the raw payload.
	stored, err := kv.Get(context.Background(), "deliveries/ping/d-2")
	require.NoError(t, err)
	assert.Equal(t, []byte(body), stored)
}

func TestProcess_InvalidConfiguration(t *testing.T) {
	validConfig(t)
	config.GitHub.WebhookSecret = ""

	hdl, _ := newTestHandler(t)

	body := `{"zen": "anything"}`
	_, err := hdl.Process([]byte(body), signedHeaders("ping", "d-3", body))
	require.Error(t, err)

	status, message := gwerr.ResponseFor(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, gwerr.GenericMessage, message)
}

func TestProcess_HandlerErrorStatusPropagates(t *testing.T) {
	validConfig(t)
	hdl, _ := newTestHandler(t)

	hdl.Dispatcher().On(event.Ping, func(context.Context, *dispatch.Delivery) error {
		return gwerr.WithStatus(http.StatusNotFound, "not found")
	})

	body := `{"zen": "anything"}`
	_, err := hdl.Process([]byte(body), signedHeaders("ping", "d-4", body))
	require.Error(t, err)

	status, message := gwerr.ResponseFor(err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Error: not found", message)
}
