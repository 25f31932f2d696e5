package broker

import (
	"context"
	"fmt"

	"rinkops/internal/models"
)

// EventPublisher handles publishing domain events. Events are informational
// (downstream dashboards and audit), so a nil producer turns every publish
// into a no-op and publish failures never fail the triggering operation.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher. producer may be nil when
// event publishing is disabled.
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrdersSynced publishes OrdersSynced after a successful sync run
func (ep *EventPublisher) PublishOrdersSynced(ctx context.Context, event *models.OrdersSyncedEvent) error {
	if ep.producer == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("sync-%s", event.SyncRunID), event)
}

// PublishRegistrationsSynced publishes RegistrationsSynced after a derivation run
func (ep *EventPublisher) PublishRegistrationsSynced(ctx context.Context, event *models.RegistrationsSyncedEvent) error {
	if ep.producer == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("sync-%s", event.SyncRunID), event)
}

// PublishRegistrationMoved publishes RegistrationMoved after a transfer
func (ep *EventPublisher) PublishRegistrationMoved(ctx context.Context, event *models.RegistrationMovedEvent) error {
	if ep.producer == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("registration-%d", event.RegistrationID), event)
}

// PublishOrderPaymentStatusSet publishes OrderPaymentStatusSet when an
// operator flips an order's payment status
func (ep *EventPublisher) PublishOrderPaymentStatusSet(ctx context.Context, event *models.OrderPaymentStatusSetEvent) error {
	if ep.producer == nil {
		return nil
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}
