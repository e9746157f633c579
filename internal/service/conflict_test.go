package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/keyfold/syncengine/internal/adapter"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/mock"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

// noteRecorder collects notifications emitted by the service under test.
type noteRecorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *noteRecorder) record(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *noteRecorder) kinds() []NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]NotificationKind, 0, len(r.notes))
	for _, n := range r.notes {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func newTestConflictSvc(t *testing.T, ctrl *gomock.Controller) (
	*conflictService,
	*mock.MockEntityStateRepository,
	*mock.MockRemoteStore,
	*MockAnalyticsService,
	*noteRecorder,
) {
	t.Helper()

	states := mock.NewMockEntityStateRepository(ctrl)
	remote := mock.NewMockRemoteStore(ctrl)
	analytics := NewMockAnalyticsService(ctrl)
	recorder := &noteRecorder{}

	svc := NewConflictService(
		"user-1", states, remote, recorder.record, analytics,
		newEntityLocks(), logger.Nop(),
	).(*conflictService)

	return svc, states, remote, analytics, recorder
}

func mustEncode(t *testing.T, p models.EntityPayload) []byte {
	t.Helper()
	raw, err := models.EncodePayload(p)
	require.NoError(t, err)
	return raw
}

var (
	syncedAt = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	localAt  = syncedAt.Add(5 * time.Minute)
	remoteAt = syncedAt.Add(7 * time.Minute)
)

// ── HandleRemoteChange ───────────────────────────────────────────────────────

func TestConflictService_RemoteOnlyChangeAppliesDirectly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, _, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	remotePayload := mustEncode(t, models.AccountPayload{Label: "github", Issuer: "github.com"})

	// No unacknowledged local edit: LocalUpdatedAt is zero.
	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").Return(models.EntityState{
		EntityType:   models.EntityAccount,
		EntityID:     "acc-1",
		Version:      3,
		LastSyncedAt: syncedAt,
	}, nil)
	states.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, state models.EntityState) error {
			assert.Equal(t, int64(4), state.Version)
			assert.Equal(t, remoteAt, state.LastSyncedAt)
			assert.True(t, state.LocalUpdatedAt.IsZero())
			assert.Equal(t, remotePayload, state.Payload)
			return nil
		})

	err := svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityAccount,
		EntityID:        "acc-1",
		Kind:            models.EventUpdate,
		Payload:         remotePayload,
		Version:         4,
		ServerTimestamp: remoteAt,
	})
	require.NoError(t, err)

	assert.Equal(t, []NotificationKind{NoteRemoteApplied}, recorder.kinds())
	assert.False(t, svc.HasUnresolved(models.EntityAccount, "acc-1"))
}

func TestConflictService_UnknownEntityAppliesDirectly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, _, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	states.EXPECT().Get(ctx, models.EntityTag, "tag-9").
		Return(models.EntityState{}, store.ErrEntityStateNotFound)
	states.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)

	err := svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityTag,
		EntityID:        "tag-9",
		Kind:            models.EventCreate,
		Payload:         mustEncode(t, models.TagPayload{Name: "work"}),
		Version:         1,
		ServerTimestamp: remoteAt,
	})
	require.NoError(t, err)
	assert.Equal(t, []NotificationKind{NoteRemoteApplied}, recorder.kinds())
}

func TestConflictService_ReplayedChangeIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, _, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	// The entity carries a pending local edit at version 5. The inbound
	// change is a replay of an older write: version 3, timestamped before
	// the last-synced marker. No Upsert is expected, applying it would
	// regress the version and wipe the local edit.
	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").Return(models.EntityState{
		EntityType:     models.EntityAccount,
		EntityID:       "acc-1",
		Version:        5,
		Payload:        mustEncode(t, models.AccountPayload{Label: "local edit"}),
		LocalUpdatedAt: localAt,
		LastSyncedAt:   syncedAt,
	}, nil)

	err := svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityAccount,
		EntityID:        "acc-1",
		Kind:            models.EventUpdate,
		Payload:         mustEncode(t, models.AccountPayload{Label: "stale remote"}),
		Version:         3,
		ServerTimestamp: syncedAt.Add(-time.Minute),
	})
	require.NoError(t, err)

	// Dropped outright: no notification, no conflict.
	assert.Empty(t, recorder.kinds())
	assert.False(t, svc.HasUnresolved(models.EntityAccount, "acc-1"))
}

func TestConflictService_EchoedOwnVersionIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, _, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	// A change carrying the exact version this session already synced is a
	// duplicate delivery, not a causal successor.
	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").Return(models.EntityState{
		EntityType:   models.EntityAccount,
		EntityID:     "acc-1",
		Version:      4,
		LastSyncedAt: syncedAt,
	}, nil)

	err := svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityAccount,
		EntityID:        "acc-1",
		Kind:            models.EventUpdate,
		Payload:         mustEncode(t, models.AccountPayload{Label: "duplicate"}),
		Version:         4,
		ServerTimestamp: remoteAt,
	})
	require.NoError(t, err)
	assert.Empty(t, recorder.kinds())
}

func TestConflictService_ConcurrentChangesRaiseConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, analytics, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	localPayload := mustEncode(t, models.AccountPayload{Label: "local label"})
	remotePayload := mustEncode(t, models.AccountPayload{Label: "remote label"})

	// Both sides moved past the last-synced marker.
	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").Return(models.EntityState{
		EntityType:     models.EntityAccount,
		EntityID:       "acc-1",
		Version:        3,
		Payload:        localPayload,
		LocalUpdatedAt: localAt,
		LastSyncedAt:   syncedAt,
	}, nil)
	analytics.EXPECT().RecordConflictRaised()

	err := svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityAccount,
		EntityID:        "acc-1",
		Kind:            models.EventUpdate,
		Payload:         remotePayload,
		Version:         4,
		ServerTimestamp: remoteAt,
	})
	require.NoError(t, err)

	assert.Equal(t, []NotificationKind{NoteConflictDetected}, recorder.kinds())
	assert.True(t, svc.HasUnresolved(models.EntityAccount, "acc-1"))

	conflicts := svc.Unresolved(ctx)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictUnresolved, conflicts[0].Status)
	assert.Equal(t, models.AccountPayload{Label: "local label"}, conflicts[0].LocalData)
	assert.Equal(t, models.AccountPayload{Label: "remote label"}, conflicts[0].RemoteData)
	assert.Equal(t, localAt, conflicts[0].LocalTimestamp)
	assert.Equal(t, remoteAt, conflicts[0].RemoteTimestamp)
}

func TestConflictService_SecondDivergenceRefreshesExistingConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, analytics, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	state := models.EntityState{
		EntityType:     models.EntityAccount,
		EntityID:       "acc-1",
		Payload:        mustEncode(t, models.AccountPayload{Label: "local"}),
		LocalUpdatedAt: localAt,
		LastSyncedAt:   syncedAt,
	}
	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").Return(state, nil).Times(2)

	// Only the first divergence counts as a raised conflict.
	analytics.EXPECT().RecordConflictRaised().Times(1)

	first := models.RemoteChange{
		EntityType:      models.EntityAccount,
		EntityID:        "acc-1",
		Payload:         mustEncode(t, models.AccountPayload{Label: "remote v4"}),
		Version:         4,
		ServerTimestamp: remoteAt,
	}
	require.NoError(t, svc.HandleRemoteChange(ctx, first))

	second := first
	second.Payload = mustEncode(t, models.AccountPayload{Label: "remote v5"})
	second.Version = 5
	second.ServerTimestamp = remoteAt.Add(time.Minute)
	require.NoError(t, svc.HandleRemoteChange(ctx, second))

	conflicts := svc.Unresolved(ctx)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.AccountPayload{Label: "remote v5"}, conflicts[0].RemoteData)
	assert.Equal(t, second.ServerTimestamp, conflicts[0].RemoteTimestamp)
	assert.Equal(t, []NotificationKind{NoteConflictDetected, NoteConflictDetected}, recorder.kinds())
}

// ── Resolve ──────────────────────────────────────────────────────────────────

func raiseConflict(t *testing.T, svc *conflictService, states *mock.MockEntityStateRepository, analytics *MockAnalyticsService) models.SyncConflict {
	t.Helper()
	ctx := context.Background()

	states.EXPECT().Get(ctx, models.EntityAccount, "acc-1").Return(models.EntityState{
		EntityType:     models.EntityAccount,
		EntityID:       "acc-1",
		Version:        3,
		Payload:        mustEncode(t, models.AccountPayload{Label: "local label"}),
		LocalUpdatedAt: localAt,
		LastSyncedAt:   syncedAt,
	}, nil)
	analytics.EXPECT().RecordConflictRaised()

	require.NoError(t, svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityAccount,
		EntityID:        "acc-1",
		Payload:         mustEncode(t, models.AccountPayload{Label: "remote label"}),
		Version:         4,
		ServerTimestamp: remoteAt,
	}))

	conflicts := svc.Unresolved(ctx)
	require.Len(t, conflicts, 1)
	return conflicts[0]
}

func TestConflictService_ResolveRemoteSkipsWriteBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, analytics, recorder := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	conflict := raiseConflict(t, svc, states, analytics)

	// Choosing the remote side needs no Put: the store already holds it.
	states.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, state models.EntityState) error {
			assert.Equal(t, int64(4), state.Version)
			assert.True(t, state.LocalUpdatedAt.IsZero())
			assert.Equal(t, mustEncode(t, models.AccountPayload{Label: "remote label"}), state.Payload)
			return nil
		})
	analytics.EXPECT().RecordConflictResolved()

	require.NoError(t, svc.Resolve(ctx, conflict.ID, models.ResolutionRemote, nil))

	assert.False(t, svc.HasUnresolved(models.EntityAccount, "acc-1"))
	assert.Equal(t,
		[]NotificationKind{NoteConflictDetected, NoteConflictResolved},
		recorder.kinds(),
	)
}

func TestConflictService_ResolveLocalWritesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, remote, analytics, _ := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	conflict := raiseConflict(t, svc, states, analytics)

	remote.EXPECT().Put(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, doc models.RemoteDocument) (int64, error) {
			assert.Equal(t, "users/user-1/accounts", doc.CollectionPath)
			assert.Equal(t, int64(4), doc.Version)
			assert.Equal(t, mustEncode(t, models.AccountPayload{Label: "local label"}), doc.Payload)
			return 5, nil
		})
	states.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, state models.EntityState) error {
			assert.Equal(t, int64(5), state.Version)
			return nil
		})
	analytics.EXPECT().RecordConflictResolved()

	require.NoError(t, svc.Resolve(ctx, conflict.ID, models.ResolutionLocal, nil))
	assert.Empty(t, svc.Unresolved(ctx))
}

func TestConflictService_ResolveMergeCombinesBothSides(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, remote, analytics, _ := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	states.EXPECT().Get(ctx, models.EntityTag, "tag-1").Return(models.EntityState{
		EntityType:     models.EntityTag,
		EntityID:       "tag-1",
		Version:        1,
		Payload:        mustEncode(t, models.TagPayload{Name: "work", AccountIDs: []string{"acc-1"}}),
		LocalUpdatedAt: localAt,
		LastSyncedAt:   syncedAt,
	}, nil)
	analytics.EXPECT().RecordConflictRaised()

	require.NoError(t, svc.HandleRemoteChange(ctx, models.RemoteChange{
		EntityType:      models.EntityTag,
		EntityID:        "tag-1",
		Payload:         mustEncode(t, models.TagPayload{Name: "work", AccountIDs: []string{"acc-2"}}),
		Version:         2,
		ServerTimestamp: remoteAt,
	}))
	conflict := svc.Unresolved(ctx)[0]

	remote.EXPECT().Put(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, doc models.RemoteDocument) (int64, error) {
			merged, err := models.DecodePayload(models.EntityTag, doc.Payload)
			require.NoError(t, err)
			assert.Equal(t, []string{"acc-1", "acc-2"}, merged.(models.TagPayload).AccountIDs)
			return 3, nil
		})
	states.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	analytics.EXPECT().RecordConflictResolved()

	require.NoError(t, svc.Resolve(ctx, conflict.ID, models.ResolutionMerge, nil))
}

func TestConflictService_ResolveIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, analytics, _ := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	conflict := raiseConflict(t, svc, states, analytics)

	states.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)
	analytics.EXPECT().RecordConflictResolved()
	require.NoError(t, svc.Resolve(ctx, conflict.ID, models.ResolutionRemote, nil))

	// Resolving the same id again is a silent no-op.
	require.NoError(t, svc.Resolve(ctx, conflict.ID, models.ResolutionRemote, nil))
	require.NoError(t, svc.Resolve(ctx, "never-existed", models.ResolutionLocal, nil))
}

func TestConflictService_ResolveUnknownStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, _, analytics, _ := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	conflict := raiseConflict(t, svc, states, analytics)

	err := svc.Resolve(ctx, conflict.ID, models.Resolution("coin-flip"), nil)
	assert.ErrorIs(t, err, ErrUnknownResolution)

	err = svc.Resolve(ctx, conflict.ID, models.ResolutionCustom, nil)
	assert.ErrorIs(t, err, ErrUnknownResolution)
}

func TestConflictService_ResolveRefreshesWhenRemoteMovedAgain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, states, remote, analytics, _ := newTestConflictSvc(t, ctrl)
	ctx := context.Background()

	conflict := raiseConflict(t, svc, states, analytics)

	newerPayload := mustEncode(t, models.AccountPayload{Label: "remote v5"})

	remote.EXPECT().Put(ctx, gomock.Any()).Return(int64(0), adapter.ErrVersionConflict)
	remote.EXPECT().Get(ctx, "users/user-1/accounts", "acc-1").Return(models.RemoteDocument{
		EntityType: models.EntityAccount,
		EntityID:   "acc-1",
		Payload:    newerPayload,
		Version:    5,
		UpdatedAt:  remoteAt.Add(time.Minute),
	}, nil)

	err := svc.Resolve(ctx, conflict.ID, models.ResolutionLocal, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflictPending))

	// The conflict survives, now carrying the newest remote pair.
	conflicts := svc.Unresolved(ctx)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.AccountPayload{Label: "remote v5"}, conflicts[0].RemoteData)
}
