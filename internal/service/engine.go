package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keyfold/syncengine/internal/adapter"
	"github.com/keyfold/syncengine/internal/config"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

// sampleInterval drives the background housekeeping ticker: queue-depth
// sampling for the backlog trend and idle-session pruning.
const sampleInterval = 30 * time.Second

// Engine is the per-user-session facade over the whole sync pipeline. One
// Engine exists per authenticated session; it owns the coordinator, queue,
// bandwidth optimizer, conflict service, device registry, and analytics, and
// wires delivery outcomes back into queue and entity-state transitions.
type Engine struct {
	cfg    *config.Config
	logger *logger.Logger

	storages *store.Storages
	remote   adapter.RemoteStore
	feed     adapter.SubscriptionFeed

	coordinator Coordinator
	queue       OfflineQueue
	optimizer   BandwidthOptimizer
	conflicts   ConflictService
	registry    DeviceRegistry
	analytics   AnalyticsService
	locks       *entityLocks

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine wires the full pipeline for one user session. The feed is
// optional: without it the engine starts offline and connectivity is driven
// by SetOnline.
func NewEngine(
	cfg *config.Config,
	storages *store.Storages,
	remote adapter.RemoteStore,
	feed adapter.SubscriptionFeed,
	log *logger.Logger,
) *Engine {
	e := &Engine{
		cfg:      cfg,
		logger:   log,
		storages: storages,
		remote:   remote,
		feed:     feed,
	}

	locks := newEntityLocks()
	e.locks = locks
	notify := func(n Notification) { e.coordinator.Notify(n) }

	e.analytics = NewAnalyticsService(func() models.BandwidthStats { return e.optimizer.Stats() })
	e.registry = NewDeviceRegistry(storages.Devices, cfg.Sessions, log)
	e.conflicts = NewConflictService(
		cfg.Identity.UserID, storages.States, remote, notify, e.analytics, locks, log,
	)
	e.coordinator = NewCoordinator(
		cfg.Identity.UserID, cfg.Identity.DeviceID,
		storages.Devices, storages.States,
		e.registry, e.conflicts, e.analytics, locks, log,
	)
	e.optimizer = NewBandwidthOptimizer(remote, e, e.entityBaseVersion, cfg.Bandwidth, log)
	e.queue = NewOfflineQueue(
		storages.Queue, e.optimizer, notify, e.coordinator.Online,
		cfg.Queue, cfg.Bandwidth.MaxBatchSize, log,
	)

	e.coordinator.BindDelivery(e.queue, func(ctx context.Context, op models.QueuedOperation) error {
		// Online dispatch still goes through the durable queue so a crash
		// between publish and delivery loses nothing; the immediate drain
		// skips the ticker wait.
		if err := e.queue.Enqueue(ctx, op); err != nil {
			return err
		}
		e.queue.Drain(ctx)
		return nil
	})

	return e
}

// Start registers the session's own device, launches the queue drain loop,
// the bandwidth flush timer, the feed consumer, and the housekeeping ticker.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running.Load() {
		return nil
	}

	if err := e.registerOwnDevice(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.queue.Start(runCtx)
	e.optimizer.Start(runCtx)

	if e.feed != nil {
		changes, err := e.feed.Subscribe(runCtx)
		if err != nil {
			cancel()
			e.cancel = nil
			e.queue.Stop()
			e.optimizer.Stop()
			return fmt.Errorf("subscribe to change feed: %w", err)
		}

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.consumeFeed(runCtx, changes)
		}()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.housekeeping(runCtx)
	}()

	e.running.Store(true)
	e.logger.Info().
		Str("func", "Engine.Start").
		Str("user_id", e.cfg.Identity.UserID).
		Str("device_id", e.cfg.Identity.DeviceID).
		Msg("sync engine started")

	return nil
}

// Stop flushes pending outbound traffic and terminates all background
// goroutines. The engine can be started again afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running.Swap(false) {
		return
	}

	e.cancel()
	e.cancel = nil
	e.wg.Wait()

	e.queue.Stop()
	e.optimizer.Stop()

	e.logger.Info().
		Str("func", "Engine.Stop").
		Msg("sync engine stopped")
}

// registerOwnDevice ensures this install has a trusted device record before
// the first publish. An existing record is left untouched so a revoked
// device does not re-trust itself by restarting.
func (e *Engine) registerOwnDevice(ctx context.Context) error {
	id := e.cfg.Identity.DeviceID

	_, err := e.storages.Devices.Get(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrDeviceNotFound) {
		return fmt.Errorf("look up own device %s: %w", id, err)
	}

	return e.registry.Register(ctx, models.Device{
		ID:       id,
		Name:     e.cfg.Identity.DeviceName,
		Platform: e.cfg.Identity.Platform,
		Trusted:  true,
		LastSeen: time.Now().UTC(),
	})
}

// consumeFeed routes inbound remote changes to the conflict service. Changes
// originating from this device are echoes of our own writes and are skipped.
func (e *Engine) consumeFeed(ctx context.Context, changes <-chan models.RemoteChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if change.OriginDeviceID == e.cfg.Identity.DeviceID {
				continue
			}

			if err := e.conflicts.HandleRemoteChange(ctx, change); err != nil {
				e.logger.Err(err).
					Str("func", "Engine.consumeFeed").
					Str("entity_id", change.EntityID).
					Msg("failed to apply remote change")
			}
		}
	}
}

func (e *Engine) housekeeping(ctx context.Context) {
	t := time.NewTicker(sampleInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			e.registry.PruneIdle(now.UTC())

			status, err := e.queue.Status(ctx)
			if err != nil {
				e.logger.Err(err).
					Str("func", "Engine.housekeeping").
					Msg("failed to sample queue depth")
				continue
			}
			e.analytics.SampleQueueDepth(status.PendingCount + status.InFlightCount)
		}
	}
}

// OnDelivery implements DeliverySink. Every operation the optimizer shipped
// (or failed to ship) lands here exactly once and transitions the queue,
// the entity's sync marker, and the analytics counters.
func (e *Engine) OnDelivery(ctx context.Context, op models.QueuedOperation, result DeliveryResult) {
	log := e.logger

	switch {
	case result.Err == nil && !result.Conflict:
		e.onDelivered(ctx, op, result.Version)

	case result.Conflict:
		e.onVersionConflict(ctx, op)

	case errors.Is(result.Err, ErrPayloadCorrupt):
		// Retrying a payload that cannot be serialized will never succeed.
		e.deadLetter(ctx, op, result.Err)

	case errors.Is(result.Err, adapter.ErrNetworkUnavailable):
		e.reschedule(ctx, op, result.Err)

	default:
		log.Warn().
			Str("func", "Engine.OnDelivery").
			Str("operation_id", op.ID).
			Err(result.Err).
			Msg("delivery failed, retrying")
		e.reschedule(ctx, op, result.Err)
	}
}

func (e *Engine) onDelivered(ctx context.Context, op models.QueuedOperation, version int64) {
	now := time.Now().UTC()

	if err := e.storages.Queue.MarkDone(ctx, op.ID); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.onDelivered").
			Str("operation_id", op.ID).
			Msg("failed to remove delivered operation")
	}

	if err := e.markSynced(ctx, op, version, now); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.onDelivered").
			Str("entity_id", op.EntityID).
			Msg("failed to advance sync marker")
	}

	e.analytics.RecordLatency(now.Sub(op.EnqueuedAt))
	e.coordinator.RecordSyncSuccess(now)
	e.coordinator.Notify(Notification{Kind: NoteOperationCompleted, Operation: &op})
}

// markSynced advances the entity's marker past the acknowledged write. The
// local-edit marker is only cleared when no newer local change arrived while
// this operation was in flight. The entity lock is shared with the
// coordinator and the conflict service so an ack cannot interleave with a
// concurrent publish or remote-change application on the same entity.
func (e *Engine) markSynced(ctx context.Context, op models.QueuedOperation, version int64, now time.Time) error {
	unlock := e.locks.Lock(entityKey(string(op.EntityType), op.EntityID))
	defer unlock()

	state, err := e.storages.States.Get(ctx, op.EntityType, op.EntityID)
	if err != nil {
		if !errors.Is(err, store.ErrEntityStateNotFound) {
			return err
		}
		state = models.EntityState{
			EntityType: op.EntityType,
			EntityID:   op.EntityID,
			Payload:    op.Payload,
		}
	}

	state.Version = version
	state.LastSyncedAt = now
	if !state.LocalUpdatedAt.After(op.EnqueuedAt) {
		state.LocalUpdatedAt = time.Time{}
	}

	return e.storages.States.Upsert(ctx, state)
}

// onVersionConflict handles an optimistic-concurrency rejection: the
// operation leaves the queue and the newest remote document is pulled and
// run through conflict detection, which raises a conflict because the local
// edit marker is still set.
func (e *Engine) onVersionConflict(ctx context.Context, op models.QueuedOperation) {
	if err := e.storages.Queue.MarkDone(ctx, op.ID); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.onVersionConflict").
			Str("operation_id", op.ID).
			Msg("failed to remove conflicted operation")
	}

	doc, err := e.remote.Get(ctx, op.CollectionPath, op.EntityID)
	if err != nil {
		e.logger.Err(err).
			Str("func", "Engine.onVersionConflict").
			Str("entity_id", op.EntityID).
			Msg("failed to fetch conflicting document")
		return
	}

	change := models.RemoteChange{
		EntityType:      op.EntityType,
		EntityID:        op.EntityID,
		Kind:            models.EventUpdate,
		Payload:         doc.Payload,
		Version:         doc.Version,
		ServerTimestamp: doc.UpdatedAt,
	}
	if doc.Deleted {
		change.Kind = models.EventDelete
	}

	if err = e.conflicts.HandleRemoteChange(ctx, change); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.onVersionConflict").
			Str("entity_id", op.EntityID).
			Msg("failed to raise conflict")
	}
}

func (e *Engine) reschedule(ctx context.Context, op models.QueuedOperation, cause error) {
	attempts := op.Attempts + 1

	maxAttempts := e.cfg.Queue.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 8
	}
	if attempts >= maxAttempts {
		e.deadLetter(ctx, op, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, attempts, cause))
		return
	}

	delay := backoffDelay(e.cfg.Queue, op.Attempts)
	if err := e.storages.Queue.Reschedule(ctx, op.ID, attempts, time.Now().UTC().Add(delay)); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.reschedule").
			Str("operation_id", op.ID).
			Msg("failed to reschedule operation")
	}
}

func (e *Engine) deadLetter(ctx context.Context, op models.QueuedOperation, cause error) {
	if err := e.storages.Queue.DeadLetter(ctx, op, cause.Error()); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.deadLetter").
			Str("operation_id", op.ID).
			Msg("failed to dead-letter operation")
		return
	}

	e.analytics.RecordDeadLetter()
	e.coordinator.Notify(Notification{Kind: NoteDeadLetter, Operation: &op})

	e.logger.Warn().
		Str("func", "Engine.deadLetter").
		Str("operation_id", op.ID).
		Str("entity_id", op.EntityID).
		Err(cause).
		Msg("operation parked in dead-letter log")
}

// backoffDelay doubles the base delay per prior failed attempt, capped at
// the configured ceiling.
func backoffDelay(cfg config.Queue, attempts int) time.Duration {
	base := cfg.BackoffBase
	if base <= 0 {
		base = 2 * time.Second
	}
	ceiling := cfg.BackoffCeiling
	if ceiling < base {
		ceiling = 5 * time.Minute
	}

	delay := base
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= ceiling {
			return ceiling
		}
	}
	return delay
}

// entityBaseVersion supplies the optimistic-concurrency version for an
// outbound write: the last version this session synced for the entity, or
// zero for a document the remote store has never seen.
func (e *Engine) entityBaseVersion(ctx context.Context, op models.QueuedOperation) int64 {
	unlock := e.locks.Lock(entityKey(string(op.EntityType), op.EntityID))
	defer unlock()

	state, err := e.storages.States.Get(ctx, op.EntityType, op.EntityID)
	if err != nil {
		return 0
	}
	return state.Version
}

// ─────────────────────────────── facade ───────────────────────────────

// Publish validates, sequences, and dispatches a local mutation.
func (e *Engine) Publish(ctx context.Context, params PublishParams) (models.SyncEvent, error) {
	if !e.running.Load() {
		return models.SyncEvent{}, ErrEngineStopped
	}
	return e.coordinator.Publish(ctx, params)
}

// Subscribe registers a notification handler; the returned function removes
// it.
func (e *Engine) Subscribe(kind NotificationKind, handler NotificationHandler) func() {
	return e.coordinator.Subscribe(kind, handler)
}

// SetOnline flips the connectivity flag. Wire this to the feed's
// OnStateChange callback so connectivity follows the feed connection.
func (e *Engine) SetOnline(online bool) {
	e.coordinator.SetOnline(online)
}

// Status reports the derived sync status snapshot.
func (e *Engine) Status(ctx context.Context) (models.SyncStatus, error) {
	return e.coordinator.Status(ctx)
}

// QueueStatus reports queue depth counters.
func (e *Engine) QueueStatus(ctx context.Context) (models.QueueStatus, error) {
	return e.queue.Status(ctx)
}

// WithdrawOperation removes a queued-but-unsent operation.
func (e *Engine) WithdrawOperation(ctx context.Context, id string) error {
	return e.queue.Withdraw(ctx, id)
}

// RequeueDeadLetter returns a parked operation to the pending queue with a
// fresh retry budget.
func (e *Engine) RequeueDeadLetter(ctx context.Context, operationID string) error {
	return e.queue.Requeue(ctx, operationID)
}

// DeadLetters lists permanently failed operations.
func (e *Engine) DeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	return e.storages.Queue.DeadLetters(ctx)
}

// ClearQueue irreversibly discards all pending and in-flight operations.
func (e *Engine) ClearQueue(ctx context.Context) error {
	return e.queue.Clear(ctx)
}

// UnresolvedConflicts lists the current unresolved conflicts.
func (e *Engine) UnresolvedConflicts(ctx context.Context) []models.SyncConflict {
	return e.conflicts.Unresolved(ctx)
}

// ResolveConflict applies the chosen resolution strategy to a conflict.
func (e *Engine) ResolveConflict(ctx context.Context, id string, resolution models.Resolution, custom models.EntityPayload) error {
	return e.conflicts.Resolve(ctx, id, resolution, custom)
}

// RegisterDevice upserts a device record.
func (e *Engine) RegisterDevice(ctx context.Context, device models.Device) error {
	return e.registry.Register(ctx, device)
}

// TrustDevice marks a device trusted.
func (e *Engine) TrustDevice(ctx context.Context, id string) error {
	return e.registry.Trust(ctx, id)
}

// RemoveDevice revokes a device's trust and drops its sessions.
func (e *Engine) RemoveDevice(ctx context.Context, id string) error {
	return e.registry.Remove(ctx, id)
}

// Devices lists all known devices.
func (e *Engine) Devices(ctx context.Context) ([]models.Device, error) {
	return e.registry.Devices(ctx)
}

// CreateSession opens a session for a trusted device.
func (e *Engine) CreateSession(ctx context.Context, deviceID string) (models.Session, error) {
	return e.registry.CreateSession(ctx, deviceID, e.cfg.Identity.UserID)
}

// AnalyticsReport builds a point-in-time health snapshot.
func (e *Engine) AnalyticsReport() models.AnalyticsReport {
	return e.analytics.Report()
}

// ExportAnalytics serializes the current report as "json" or "csv".
func (e *Engine) ExportAnalytics(format string) ([]byte, error) {
	return e.analytics.Export(format)
}

// BandwidthStats reports cumulative batching and compression savings.
func (e *Engine) BandwidthStats() models.BandwidthStats {
	return e.optimizer.Stats()
}
