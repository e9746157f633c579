package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/mock"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

func newTestCoordinator(t *testing.T, ctrl *gomock.Controller) (
	*coordinator,
	*mock.MockDeviceRepository,
	*mock.MockEntityStateRepository,
	*MockDeviceRegistry,
	*MockConflictService,
	*MockAnalyticsService,
	*MockOfflineQueue,
) {
	t.Helper()

	devices := mock.NewMockDeviceRepository(ctrl)
	states := mock.NewMockEntityStateRepository(ctrl)
	registry := NewMockDeviceRegistry(ctrl)
	conflicts := NewMockConflictService(ctrl)
	analytics := NewMockAnalyticsService(ctrl)
	queue := NewMockOfflineQueue(ctrl)

	c := NewCoordinator(
		"user-1", "device-a",
		devices, states, registry, conflicts, analytics,
		newEntityLocks(), logger.Nop(),
	).(*coordinator)
	c.BindDelivery(queue, func(ctx context.Context, op models.QueuedOperation) error {
		return queue.Enqueue(ctx, op)
	})

	return c, devices, states, registry, conflicts, analytics, queue
}

// ── Publish ──────────────────────────────────────────────────────────────────

func TestCoordinator_PublishFromUntrustedDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _, _, registry, _, _, _ := newTestCoordinator(t, ctrl)
	ctx := context.Background()

	// A removed device's event is rejected before any sequence is burned:
	// no NextSequence expectation is registered.
	registry.EXPECT().IsTrusted(ctx, "device-stolen").Return(false)

	_, err := c.Publish(ctx, PublishParams{
		EntityType:     models.EntityAccount,
		EntityID:       "acc-1",
		Kind:           models.EventUpdate,
		Payload:        models.AccountPayload{Label: "github"},
		OriginDeviceID: "device-stolen",
	})
	assert.ErrorIs(t, err, ErrAuthorizationRevoked)
}

func TestCoordinator_PublishBlockedByUnresolvedConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _, _, registry, conflicts, _, _ := newTestCoordinator(t, ctrl)
	ctx := context.Background()

	registry.EXPECT().IsTrusted(ctx, "device-a").Return(true)
	conflicts.EXPECT().HasUnresolved(models.EntityAccount, "acc-1").Return(true)

	_, err := c.Publish(ctx, PublishParams{
		EntityType: models.EntityAccount,
		EntityID:   "acc-1",
		Kind:       models.EventUpdate,
		Payload:    models.AccountPayload{Label: "github"},
	})
	assert.ErrorIs(t, err, ErrConflictPending)
}

func TestCoordinator_ConflictRaisedWhileWaitingForLockBlocksPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _, _, registry, conflicts, _, _ := newTestCoordinator(t, ctrl)
	ctx := context.Background()

	var raised atomic.Bool
	registry.EXPECT().IsTrusted(ctx, "device-a").Return(true)
	conflicts.EXPECT().HasUnresolved(models.EntityAccount, "acc-1").DoAndReturn(
		func(models.EntityType, string) bool { return raised.Load() })

	// Hold the entity lock the way an inbound remote change does while it
	// raises a conflict. Publish must park on the lock and re-observe the
	// conflict once it gets through; no sequence is burned.
	unlock := c.locks.Lock(entityKey(string(models.EntityAccount), "acc-1"))

	done := make(chan error, 1)
	go func() {
		_, err := c.Publish(ctx, PublishParams{
			EntityType: models.EntityAccount,
			EntityID:   "acc-1",
			Kind:       models.EventUpdate,
			Payload:    models.AccountPayload{Label: "github"},
		})
		done <- err
	}()

	// The conflict appears while Publish is parked.
	time.Sleep(20 * time.Millisecond)
	raised.Store(true)
	unlock()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrConflictPending)
	case <-time.After(time.Second):
		t.Fatal("publish did not return after the lock was released")
	}
}

func TestCoordinator_PublishOfflineEnqueues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, devices, states, registry, conflicts, analytics, queue := newTestCoordinator(t, ctrl)
	ctx := context.Background()

	registry.EXPECT().IsTrusted(ctx, "device-a").Return(true)
	conflicts.EXPECT().HasUnresolved(models.EntityAccount, "acc-1").Return(false)
	devices.EXPECT().NextSequence(ctx, "device-a").Return(int64(7), nil)
	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").
		Return(models.EntityState{}, store.ErrEntityStateNotFound)
	states.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, state models.EntityState) error {
			assert.False(t, state.LocalUpdatedAt.IsZero())
			return nil
		})
	analytics.EXPECT().RecordOperation()

	var enqueued models.QueuedOperation
	queue.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op models.QueuedOperation) error {
			enqueued = op
			return nil
		})

	event, err := c.Publish(ctx, PublishParams{
		EntityType: models.EntityAccount,
		EntityID:   "acc-1",
		Kind:       models.EventUpdate,
		Payload:    models.AccountPayload{Label: "github"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, int64(7), event.Sequence)
	assert.Equal(t, "device-a", event.OriginDeviceID)
	assert.Equal(t, models.DefaultPriority, event.Priority)

	assert.Equal(t, event.ID, enqueued.ID)
	assert.Equal(t, "users/user-1/accounts", enqueued.CollectionPath)
	assert.Equal(t, models.OperationPending, enqueued.Status)
}

func TestCoordinator_PublishSequencesAreMonotonic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, devices, states, registry, conflicts, analytics, queue := newTestCoordinator(t, ctrl)
	ctx := context.Background()

	registry.EXPECT().IsTrusted(ctx, "device-a").Return(true).Times(2)
	conflicts.EXPECT().HasUnresolved(gomock.Any(), gomock.Any()).Return(false).Times(2)
	gomock.InOrder(
		devices.EXPECT().NextSequence(ctx, "device-a").Return(int64(1), nil),
		devices.EXPECT().NextSequence(ctx, "device-a").Return(int64(2), nil),
	)
	states.EXPECT().Get(ctx, gomock.Any(), gomock.Any()).
		Return(models.EntityState{}, store.ErrEntityStateNotFound).Times(2)
	states.EXPECT().Upsert(ctx, gomock.Any()).Return(nil).Times(2)
	analytics.EXPECT().RecordOperation().Times(2)
	queue.EXPECT().Enqueue(ctx, gomock.Any()).Return(nil).Times(2)

	first, err := c.Publish(ctx, PublishParams{
		EntityType: models.EntityTag, EntityID: "tag-1",
		Kind: models.EventCreate, Payload: models.TagPayload{Name: "work"},
	})
	require.NoError(t, err)
	second, err := c.Publish(ctx, PublishParams{
		EntityType: models.EntityTag, EntityID: "tag-2",
		Kind: models.EventCreate, Payload: models.TagPayload{Name: "home"},
	})
	require.NoError(t, err)

	assert.Greater(t, second.Sequence, first.Sequence)
}

func TestCoordinator_PublishOnlineDispatchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, devices, states, registry, conflicts, analytics, queue := newTestCoordinator(t, ctrl)
	ctx := context.Background()
	c.SetOnline(true)

	registry.EXPECT().IsTrusted(ctx, "device-a").Return(true)
	conflicts.EXPECT().HasUnresolved(gomock.Any(), gomock.Any()).Return(false)
	devices.EXPECT().NextSequence(ctx, "device-a").Return(int64(1), nil)
	states.EXPECT().Get(ctx, gomock.Any(), gomock.Any()).
		Return(models.EntityState{}, store.ErrEntityStateNotFound)
	states.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	analytics.EXPECT().RecordOperation()
	queue.EXPECT().Enqueue(ctx, gomock.Any()).Return(errors.New("disk full"))

	_, err := c.Publish(ctx, PublishParams{
		EntityType: models.EntityAccount, EntityID: "acc-1",
		Kind: models.EventUpdate, Payload: models.AccountPayload{Label: "github"},
	})
	assert.ErrorContains(t, err, "disk full")
}

// ── notification bus ─────────────────────────────────────────────────────────

func TestCoordinator_SubscribeNotifyUnsubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _, _, _, _, _, _ := newTestCoordinator(t, ctrl)

	var order []string
	unsubFirst := c.Subscribe(NoteOperationAdded, func(Notification) {
		order = append(order, "first")
	})
	c.Subscribe(NoteOperationAdded, func(Notification) {
		order = append(order, "second")
	})
	c.Subscribe(NoteConflictDetected, func(Notification) {
		order = append(order, "wrong kind")
	})

	c.Notify(Notification{Kind: NoteOperationAdded})
	assert.Equal(t, []string{"first", "second"}, order)

	unsubFirst()
	unsubFirst() // double unsubscribe is harmless

	order = nil
	c.Notify(Notification{Kind: NoteOperationAdded})
	assert.Equal(t, []string{"second"}, order)
}

// ── Status ───────────────────────────────────────────────────────────────────

func TestCoordinator_Status(t *testing.T) {
	tests := []struct {
		name      string
		online    bool
		queue     models.QueueStatus
		conflicts int
		want      models.SyncState
	}{
		{
			name:   "idle when nothing queued",
			online: true,
			queue:  models.QueueStatus{},
			want:   models.SyncIdle,
		},
		{
			name:   "syncing while online with backlog",
			online: true,
			queue:  models.QueueStatus{PendingCount: 3, InFlightCount: 1},
			want:   models.SyncSyncing,
		},
		{
			name:   "idle while offline with backlog",
			online: false,
			queue:  models.QueueStatus{PendingCount: 3},
			want:   models.SyncIdle,
		},
		{
			name:      "error when dead letters exist",
			online:    true,
			queue:     models.QueueStatus{PendingCount: 1, DeadLetters: 2},
			conflicts: 1,
			want:      models.SyncError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			c, _, _, _, conflicts, _, queue := newTestCoordinator(t, ctrl)
			ctx := context.Background()
			c.SetOnline(tt.online)

			queue.EXPECT().Status(ctx).Return(tt.queue, nil)
			conflicts.EXPECT().Unresolved(ctx).
				Return(make([]models.SyncConflict, tt.conflicts))

			status, err := c.Status(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.want, status.State)
			assert.Equal(t, tt.online, status.Online)
			assert.Equal(t, tt.queue.PendingCount+tt.queue.InFlightCount, status.QueueDepth)
			assert.Equal(t, tt.conflicts, status.UnresolvedConflicts)
		})
	}
}

func TestCoordinator_RecordSyncSuccessKeepsLatest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _, _, _, conflicts, _, queue := newTestCoordinator(t, ctrl)
	ctx := context.Background()

	newer := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	c.RecordSyncSuccess(newer)
	c.RecordSyncSuccess(older) // out-of-order ack must not move time backwards

	queue.EXPECT().Status(ctx).Return(models.QueueStatus{}, nil)
	conflicts.EXPECT().Unresolved(ctx).Return(nil)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer, status.LastSyncAt)
}
