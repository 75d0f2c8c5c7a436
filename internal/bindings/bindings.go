// Package bindings registers the gateway's built-in webhook handlers onto a
// dispatcher. Deployments register their own business-logic callbacks on top.
package bindings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v84/github"

	"github.com/isometry/gh-webhook-gateway/internal/config"
	"github.com/isometry/gh-webhook-gateway/internal/dispatch"
	"github.com/isometry/gh-webhook-gateway/internal/event"
)

// Register wires the built-in handlers: a delivery archiver for every
// configured event type and an installation tracker.
func Register(dispatcher *dispatch.Dispatcher) {
	for _, name := range config.Global.Events {
		dispatcher.On(event.Type(name), ArchiveDelivery)
	}
	dispatcher.On(event.Installation, TrackInstallation)
}

// ArchiveDelivery persists the raw payload under a per-delivery key so that
// downstream consumers can replay or audit deliveries.
func ArchiveDelivery(ctx context.Context, delivery *dispatch.Delivery) error {
	if delivery.KV == nil {
		return nil
	}
	key := fmt.Sprintf("deliveries/%s/%s", delivery.Event, delivery.ID)
	if err := delivery.KV.Put(ctx, key, delivery.Body); err != nil {
		return fmt.Errorf("failed to archive delivery %s: %w", delivery.ID, err)
	}
	delivery.Logger.Debug("archived delivery", slog.String("key", key))
	return nil
}

type installationRecord struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Action    string    `json:"action"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackInstallation records app installation state in the key-value binding,
// removing the record when the app is uninstalled.
func TrackInstallation(ctx context.Context, delivery *dispatch.Delivery) error {
	if delivery.KV == nil {
		return nil
	}
	evt, ok := delivery.Payload.(*github.InstallationEvent)
	if !ok {
		return nil
	}

	id := evt.GetInstallation().GetID()
	key := fmt.Sprintf("installations/%d", id)
	if evt.GetAction() == "deleted" {
		return delivery.KV.Delete(ctx, key)
	}

	record, err := json.Marshal(installationRecord{
		ID:        id,
		Account:   evt.GetInstallation().GetAccount().GetLogin(),
		Action:    evt.GetAction(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return delivery.KV.Put(ctx, key, record)
}
