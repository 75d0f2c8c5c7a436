package dispatch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/gh-webhook-gateway/internal/dispatch"
	"github.com/isometry/gh-webhook-gateway/internal/event"
	"github.com/isometry/gh-webhook-gateway/internal/gwerr"
	"github.com/isometry/gh-webhook-gateway/internal/storage"
)

type verifierFunc func(body []byte, headers map[string]string) error

func (f verifierFunc) ValidateWebhookSecret(body []byte, headers map[string]string) error {
	return f(body, headers)
}

var allowAll = verifierFunc(func([]byte, map[string]string) error { return nil })

func TestDispatcher_Handles(t *testing.T) {
	d := dispatch.NewDispatcher(dispatch.WithVerifier(allowAll))
	assert.False(t, d.Handles(event.Push))

	d.On(event.Push, func(context.Context, *dispatch.Delivery) error { return nil })
	assert.True(t, d.Handles(event.Push))
	assert.False(t, d.Handles(event.Issues))
}

func TestDispatcher_VerifyAndDispatch_Order(t *testing.T) {
	d := dispatch.NewDispatcher(dispatch.WithVerifier(allowAll))

	var calls []string
	d.On(event.Ping, func(_ context.Context, delivery *dispatch.Delivery) error {
		assert.IsType(t, &github.PingEvent{}, delivery.Payload)
		calls = append(calls, "first")
		return nil
	})
	d.On(event.Ping, func(context.Context, *dispatch.Delivery) error {
		calls = append(calls, "second")
		return nil
	})

	delivery := &dispatch.Delivery{
		Event: event.Ping,
		ID:    "delivery-1",
		Body:  []byte(`{"zen": "design for failure"}`),
		KV:    storage.NewMemory(),
	}
	require.NoError(t, d.VerifyAndDispatch(context.Background(), delivery, map[string]string{}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcher_VerifyAndDispatch_RejectsOnVerifierError(t *testing.T) {
	deny := verifierFunc(func([]byte, map[string]string) error {
		return gwerr.WithStatus(http.StatusUnauthorized, "signature verification failed")
	})
	d := dispatch.NewDispatcher(dispatch.WithVerifier(deny))

	called := false
	d.On(event.Ping, func(context.Context, *dispatch.Delivery) error {
		called = true
		return nil
	})

	delivery := &dispatch.Delivery{Event: event.Ping, ID: "delivery-2", Body: []byte(`{}`)}
	err := d.VerifyAndDispatch(context.Background(), delivery, map[string]string{})
	require.Error(t, err)
	assert.False(t, called, "handlers must not run when verification fails")

	status, message := gwerr.ResponseFor(err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Error: signature verification failed", message)
}

func TestDispatcher_VerifyAndDispatch_CollectsHandlerErrors(t *testing.T) {
	d := dispatch.NewDispatcher(dispatch.WithVerifier(allowAll))

	d.On(event.Ping, func(context.Context, *dispatch.Delivery) error {
		return gwerr.WithStatus(http.StatusNotFound, "not found")
	})
	d.On(event.Ping, func(context.Context, *dispatch.Delivery) error {
		return errors.New("second failure")
	})

	delivery := &dispatch.Delivery{Event: event.Ping, ID: "delivery-3", Body: []byte(`{"zen": "anything"}`)}
	err := d.VerifyAndDispatch(context.Background(), delivery, map[string]string{})
	require.Error(t, err)

	var agg *gwerr.Aggregate
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errs, 2, "every handler error is preserved")

	status, message := gwerr.ResponseFor(err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Error: not found", message)
}

func TestDispatcher_VerifyAndDispatch_InvalidPayload(t *testing.T) {
	d := dispatch.NewDispatcher(dispatch.WithVerifier(allowAll))

	delivery := &dispatch.Delivery{Event: event.Push, ID: "delivery-4", Body: []byte(`not json`)}
	err := d.VerifyAndDispatch(context.Background(), delivery, map[string]string{})
	require.Error(t, err)

	_, message := gwerr.ResponseFor(err)
	assert.Contains(t, message, "invalid payload")
}

func TestDispatcher_VerifyAndDispatch_NoHandlers(t *testing.T) {
	d := dispatch.NewDispatcher(dispatch.WithVerifier(allowAll))

	delivery := &dispatch.Delivery{Event: event.Ping, ID: "delivery-5", Body: []byte(`{"zen": "quiet"}`)}
	assert.NoError(t, d.VerifyAndDispatch(context.Background(), delivery, map[string]string{}))
}
