package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

type busEntry struct {
	token   uint64
	handler NotificationHandler
}

type coordinator struct {
	userID   string
	deviceID string

	devices   store.DeviceRepository
	states    store.EntityStateRepository
	registry  DeviceRegistry
	conflicts ConflictService
	analytics AnalyticsService
	logger    *logger.Logger

	locks *entityLocks

	// Delivery wiring, bound by the engine after construction to avoid a
	// constructor cycle between coordinator, queue, and optimizer.
	queue          OfflineQueue
	dispatchOnline func(ctx context.Context, op models.QueuedOperation) error

	online atomic.Bool

	busMu     sync.RWMutex
	busToken  uint64
	listeners map[NotificationKind][]busEntry

	syncMu     sync.RWMutex
	lastSyncAt time.Time
}

// NewCoordinator creates the publish pipeline's entry point. locks must be
// shared with the conflict service so local publishes and inbound remote
// changes for one entity never interleave.
func NewCoordinator(
	userID, deviceID string,
	devices store.DeviceRepository,
	states store.EntityStateRepository,
	registry DeviceRegistry,
	conflicts ConflictService,
	analytics AnalyticsService,
	locks *entityLocks,
	log *logger.Logger,
) Coordinator {
	return &coordinator{
		userID:    userID,
		deviceID:  deviceID,
		devices:   devices,
		states:    states,
		registry:  registry,
		conflicts: conflicts,
		analytics: analytics,
		logger:    log,
		locks:     locks,
		listeners: make(map[NotificationKind][]busEntry),
	}
}

// BindDelivery wires the queue and the online dispatch path. Must be called
// exactly once before the first Publish.
func (c *coordinator) BindDelivery(queue OfflineQueue, dispatchOnline func(ctx context.Context, op models.QueuedOperation) error) {
	c.queue = queue
	c.dispatchOnline = dispatchOnline
}

func (c *coordinator) Publish(ctx context.Context, params PublishParams) (models.SyncEvent, error) {
	log := logger.FromContext(ctx)

	origin := params.OriginDeviceID
	if origin == "" {
		origin = c.deviceID
	}

	// Revocation is enforced before anything else so an untrusted device
	// cannot even advance sequence counters.
	if !c.registry.IsTrusted(ctx, origin) {
		log.Warn().
			Str("func", "coordinator.Publish").
			Str("device_id", origin).
			Str("entity_id", params.EntityID).
			Msg("dropping event from untrusted device")
		return models.SyncEvent{}, fmt.Errorf("publish from device %s: %w", origin, ErrAuthorizationRevoked)
	}

	unlock := c.locks.Lock(entityKey(string(params.EntityType), params.EntityID))
	defer unlock()

	// Checked under the entity lock: a conflict raised by a remote change
	// while this publish waited for the lock must still block the write.
	if c.conflicts.HasUnresolved(params.EntityType, params.EntityID) {
		return models.SyncEvent{}, fmt.Errorf("publish to entity %s: %w", params.EntityID, ErrConflictPending)
	}

	sequence, err := c.devices.NextSequence(ctx, origin)
	if err != nil {
		return models.SyncEvent{}, fmt.Errorf("assign sequence for device %s: %w", origin, err)
	}

	priority := params.Priority
	if priority <= 0 {
		priority = models.DefaultPriority
	}

	event := models.SyncEvent{
		ID:             uuid.NewString(),
		EntityType:     params.EntityType,
		EntityID:       params.EntityID,
		Kind:           params.Kind,
		Payload:        params.Payload,
		Priority:       priority,
		OriginDeviceID: origin,
		Sequence:       sequence,
		Timestamp:      time.Now().UTC(),
	}

	raw, err := models.EncodePayload(params.Payload)
	if err != nil {
		return models.SyncEvent{}, fmt.Errorf("%w: %v", ErrPayloadCorrupt, err)
	}

	if err = c.rememberLocalChange(ctx, event, raw); err != nil {
		return models.SyncEvent{}, err
	}

	c.analytics.RecordOperation()

	op := models.QueuedOperation{
		ID:             event.ID,
		EntityType:     event.EntityType,
		EntityID:       event.EntityID,
		Kind:           event.Kind,
		CollectionPath: c.collectionPath(event.EntityType),
		Payload:        raw,
		Priority:       event.Priority,
		Status:         models.OperationPending,
		EnqueuedAt:     event.Timestamp,
	}

	if c.Online() {
		if err = c.dispatchOnline(ctx, op); err != nil {
			return models.SyncEvent{}, fmt.Errorf("dispatch operation: %w", err)
		}
		return event, nil
	}

	// Offline: the queue persists the operation; the transient condition
	// never surfaces to the caller.
	if err = c.queue.Enqueue(ctx, op); err != nil {
		return models.SyncEvent{}, fmt.Errorf("enqueue offline operation: %w", err)
	}

	return event, nil
}

// rememberLocalChange advances the entity's local marker so the conflict
// detector can recognise an unacknowledged local edit.
func (c *coordinator) rememberLocalChange(ctx context.Context, event models.SyncEvent, raw []byte) error {
	state, err := c.states.Get(ctx, event.EntityType, event.EntityID)
	if err != nil {
		if !errors.Is(err, store.ErrEntityStateNotFound) {
			return fmt.Errorf("load entity state %s: %w", event.EntityID, err)
		}
		state = models.EntityState{
			EntityType: event.EntityType,
			EntityID:   event.EntityID,
		}
	}

	state.Payload = raw
	state.LocalUpdatedAt = event.Timestamp
	state.Deleted = event.Kind == models.EventDelete

	if err = c.states.Upsert(ctx, state); err != nil {
		return fmt.Errorf("store entity state %s: %w", event.EntityID, err)
	}

	return nil
}

func (c *coordinator) Subscribe(kind NotificationKind, handler NotificationHandler) func() {
	c.busMu.Lock()
	defer c.busMu.Unlock()

	c.busToken++
	token := c.busToken
	c.listeners[kind] = append(c.listeners[kind], busEntry{token: token, handler: handler})

	return func() {
		c.busMu.Lock()
		defer c.busMu.Unlock()

		entries := c.listeners[kind]
		for i, entry := range entries {
			if entry.token == token {
				c.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (c *coordinator) Notify(n Notification) {
	c.busMu.RLock()
	entries := c.listeners[n.Kind]
	handlers := make([]NotificationHandler, len(entries))
	for i, entry := range entries {
		handlers[i] = entry.handler
	}
	c.busMu.RUnlock()

	for _, handler := range handlers {
		handler(n)
	}
}

func (c *coordinator) SetOnline(online bool) {
	was := c.online.Swap(online)
	if was != online {
		c.logger.Info().
			Str("func", "coordinator.SetOnline").
			Bool("online", online).
			Msg("connectivity changed")
	}
}

func (c *coordinator) Online() bool {
	return c.online.Load()
}

// RecordSyncSuccess marks the time of the latest acknowledged delivery. The
// delivery pipeline calls it on every ack.
func (c *coordinator) RecordSyncSuccess(t time.Time) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	if t.After(c.lastSyncAt) {
		c.lastSyncAt = t
	}
}

func (c *coordinator) Status(ctx context.Context) (models.SyncStatus, error) {
	queueStatus, err := c.queue.Status(ctx)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("read queue status: %w", err)
	}

	c.syncMu.RLock()
	lastSync := c.lastSyncAt
	c.syncMu.RUnlock()

	unresolved := len(c.conflicts.Unresolved(ctx))

	state := models.SyncIdle
	switch {
	case queueStatus.DeadLetters > 0:
		state = models.SyncError
	case queueStatus.PendingCount+queueStatus.InFlightCount > 0 && c.Online():
		state = models.SyncSyncing
	}

	return models.SyncStatus{
		State:               state,
		Online:              c.Online(),
		QueueDepth:          queueStatus.PendingCount + queueStatus.InFlightCount,
		UnresolvedConflicts: unresolved,
		LastSyncAt:          lastSync,
	}, nil
}

func (c *coordinator) collectionPath(entityType models.EntityType) string {
	return "users/" + c.userID + "/" + string(entityType) + "s"
}
