package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keyfold/syncengine/internal/adapter"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

// conflictEntry pairs a conflict with the remote version it was observed at,
// needed for the conditional write-back on resolution.
type conflictEntry struct {
	conflict      models.SyncConflict
	remoteVersion int64
}

type conflictService struct {
	userID string

	states    store.EntityStateRepository
	remote    adapter.RemoteStore
	notify    func(Notification)
	analytics AnalyticsService
	locks     *entityLocks
	logger    *logger.Logger

	mu       sync.RWMutex
	byEntity map[string]*conflictEntry
	byID     map[string]string
}

// NewConflictService creates the detector/resolver. locks must be the same
// instance the coordinator uses so all mutations of one entity are
// serialized across both paths.
func NewConflictService(
	userID string,
	states store.EntityStateRepository,
	remote adapter.RemoteStore,
	notify func(Notification),
	analytics AnalyticsService,
	locks *entityLocks,
	log *logger.Logger,
) ConflictService {
	return &conflictService{
		userID:    userID,
		states:    states,
		remote:    remote,
		notify:    notify,
		analytics: analytics,
		locks:     locks,
		logger:    log,
		byEntity:  make(map[string]*conflictEntry),
		byID:      make(map[string]string),
	}
}

// HandleRemoteChange implements ConflictService.
//
// A conflict exists iff both sides changed after the entity's last-synced
// marker: the local marker records an unacknowledged local edit, and the
// remote change's server timestamp postdates the marker too. A single-sided
// change is an ordinary causal successor and applies directly.
func (c *conflictService) HandleRemoteChange(ctx context.Context, change models.RemoteChange) error {
	log := logger.FromContext(ctx)

	key := entityKey(string(change.EntityType), change.EntityID)
	unlock := c.locks.Lock(key)
	defer unlock()

	state, err := c.states.Get(ctx, change.EntityType, change.EntityID)
	if err != nil {
		if !errors.Is(err, store.ErrEntityStateNotFound) {
			return fmt.Errorf("load entity state %s: %w", change.EntityID, err)
		}
		state = models.EntityState{
			EntityType: change.EntityType,
			EntityID:   change.EntityID,
		}
	}

	// A change that does not advance past the version this session already
	// holds is a replay or an out-of-order duplicate. Applying it would
	// regress the entity and discard a pending local edit, so it is dropped.
	if change.Version <= state.Version {
		log.Debug().
			Str("func", "conflictService.HandleRemoteChange").
			Str("entity_id", change.EntityID).
			Int64("change_version", change.Version).
			Int64("state_version", state.Version).
			Msg("stale remote change ignored")
		return nil
	}

	localPending := !state.LocalUpdatedAt.IsZero() && state.LocalUpdatedAt.After(state.LastSyncedAt)
	remoteNewer := change.ServerTimestamp.After(state.LastSyncedAt)

	if localPending && remoteNewer {
		return c.raiseOrRefresh(ctx, key, state, change)
	}

	// Single causal line: the remote change wins outright.
	state.Payload = change.Payload
	state.Version = change.Version
	state.LastSyncedAt = change.ServerTimestamp
	state.LocalUpdatedAt = time.Time{}
	state.Deleted = change.Kind == models.EventDelete

	if err = c.states.Upsert(ctx, state); err != nil {
		return fmt.Errorf("apply remote change %s: %w", change.EntityID, err)
	}

	log.Debug().
		Str("func", "conflictService.HandleRemoteChange").
		Str("entity_id", change.EntityID).
		Int64("version", change.Version).
		Msg("remote change applied directly")

	c.notify(Notification{Kind: NoteRemoteApplied, Change: &change})
	return nil
}

// raiseOrRefresh records a divergence. Only one unresolved conflict exists
// per entity: a second divergence replaces LocalData/RemoteData on the
// existing record so they always reflect the last divergent pair.
func (c *conflictService) raiseOrRefresh(ctx context.Context, key string, state models.EntityState, change models.RemoteChange) error {
	log := logger.FromContext(ctx)

	localData, err := models.DecodePayload(change.EntityType, state.Payload)
	if err != nil {
		return fmt.Errorf("%w: local payload of %s: %v", ErrPayloadCorrupt, change.EntityID, err)
	}
	remoteData, err := models.DecodePayload(change.EntityType, change.Payload)
	if err != nil {
		return fmt.Errorf("%w: remote payload of %s: %v", ErrPayloadCorrupt, change.EntityID, err)
	}

	c.mu.Lock()
	entry, exists := c.byEntity[key]
	if exists {
		entry.conflict.LocalData = localData
		entry.conflict.RemoteData = remoteData
		entry.conflict.LocalTimestamp = state.LocalUpdatedAt
		entry.conflict.RemoteTimestamp = change.ServerTimestamp
		entry.remoteVersion = change.Version
	} else {
		entry = &conflictEntry{
			conflict: models.SyncConflict{
				ID:              uuid.NewString(),
				EntityType:      change.EntityType,
				EntityID:        change.EntityID,
				LocalData:       localData,
				RemoteData:      remoteData,
				LocalTimestamp:  state.LocalUpdatedAt,
				RemoteTimestamp: change.ServerTimestamp,
				Status:          models.ConflictUnresolved,
				DetectedAt:      time.Now().UTC(),
			},
			remoteVersion: change.Version,
		}
		c.byEntity[key] = entry
		c.byID[entry.conflict.ID] = key
	}
	conflictCopy := entry.conflict
	c.mu.Unlock()

	if !exists {
		c.analytics.RecordConflictRaised()
	}

	log.Info().
		Str("func", "conflictService.raiseOrRefresh").
		Str("entity_id", change.EntityID).
		Str("conflict_id", conflictCopy.ID).
		Bool("refreshed", exists).
		Msg("concurrent divergence detected")

	c.notify(Notification{Kind: NoteConflictDetected, Conflict: &conflictCopy})
	return nil
}

func (c *conflictService) Unresolved(ctx context.Context) []models.SyncConflict {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conflicts := make([]models.SyncConflict, 0, len(c.byEntity))
	for _, entry := range c.byEntity {
		conflicts = append(conflicts, entry.conflict)
	}
	return conflicts
}

func (c *conflictService) HasUnresolved(entityType models.EntityType, entityID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.byEntity[entityKey(string(entityType), entityID)]
	return ok
}

// Resolve implements ConflictService. Resolving an id that no longer exists
// is a no-op so that a second resolution of the same conflict succeeds
// without side effects.
func (c *conflictService) Resolve(ctx context.Context, id string, resolution models.Resolution, custom models.EntityPayload) error {
	log := logger.FromContext(ctx)

	c.mu.RLock()
	key, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok {
		log.Debug().
			Str("func", "conflictService.Resolve").
			Str("conflict_id", id).
			Msg("conflict already resolved, nothing to do")
		return nil
	}

	unlock := c.locks.Lock(key)
	defer unlock()

	// Re-check under the entity lock: another caller may have resolved it
	// while we waited.
	c.mu.RLock()
	entry, ok := c.byEntity[key]
	c.mu.RUnlock()
	if !ok || entry.conflict.ID != id {
		return nil
	}

	conflict := entry.conflict
	now := time.Now().UTC()

	resolved, err := c.resolvedPayload(conflict, resolution, custom, now)
	if err != nil {
		return err
	}

	raw, err := models.EncodePayload(resolved)
	if err != nil {
		return fmt.Errorf("%w: resolved payload of %s: %v", ErrPayloadCorrupt, conflict.EntityID, err)
	}

	newVersion := entry.remoteVersion
	if resolution != models.ResolutionRemote {
		// The winning payload differs from what the store holds, so it is
		// written back conditionally on the conflicting remote version.
		newVersion, err = c.remote.Put(ctx, models.RemoteDocument{
			CollectionPath: c.collectionPath(conflict.EntityType),
			EntityType:     conflict.EntityType,
			EntityID:       conflict.EntityID,
			Payload:        raw,
			Version:        entry.remoteVersion,
		})
		if err != nil {
			if errors.Is(err, adapter.ErrVersionConflict) {
				return c.refreshFromRemote(ctx, key, conflict)
			}
			return fmt.Errorf("write resolved payload %s: %w", conflict.EntityID, err)
		}
	}

	state := models.EntityState{
		EntityType:   conflict.EntityType,
		EntityID:     conflict.EntityID,
		Version:      newVersion,
		Payload:      raw,
		LastSyncedAt: now,
	}
	if err = c.states.Upsert(ctx, state); err != nil {
		return fmt.Errorf("store resolved state %s: %w", conflict.EntityID, err)
	}

	c.mu.Lock()
	delete(c.byEntity, key)
	delete(c.byID, id)
	c.mu.Unlock()

	c.analytics.RecordConflictResolved()

	conflict.Status = models.ConflictResolved
	c.notify(Notification{Kind: NoteConflictResolved, Conflict: &conflict})

	log.Info().
		Str("func", "conflictService.Resolve").
		Str("conflict_id", id).
		Str("entity_id", conflict.EntityID).
		Str("resolution", string(resolution)).
		Msg("conflict resolved")

	return nil
}

func (c *conflictService) resolvedPayload(conflict models.SyncConflict, resolution models.Resolution, custom models.EntityPayload, now time.Time) (models.EntityPayload, error) {
	switch resolution {
	case models.ResolutionLocal:
		return conflict.LocalData, nil
	case models.ResolutionRemote:
		return conflict.RemoteData, nil
	case models.ResolutionMerge:
		return mergePayloads(conflict.LocalData, conflict.RemoteData, now)
	case models.ResolutionCustom:
		if custom == nil {
			return nil, fmt.Errorf("custom resolution without payload: %w", ErrUnknownResolution)
		}
		return custom, nil
	default:
		return nil, fmt.Errorf("resolution %q: %w", resolution, ErrUnknownResolution)
	}
}

// refreshFromRemote handles the store moving on mid-resolution: the newest
// remote document replaces the conflict's remote side and the conflict stays
// unresolved with a fresh divergent pair.
func (c *conflictService) refreshFromRemote(ctx context.Context, key string, conflict models.SyncConflict) error {
	doc, err := c.remote.Get(ctx, c.collectionPath(conflict.EntityType), conflict.EntityID)
	if err != nil {
		return fmt.Errorf("refresh conflict %s: %w", conflict.EntityID, err)
	}

	remoteData, err := models.DecodePayload(conflict.EntityType, doc.Payload)
	if err != nil {
		return fmt.Errorf("%w: refreshed payload of %s: %v", ErrPayloadCorrupt, conflict.EntityID, err)
	}

	c.mu.Lock()
	if entry, ok := c.byEntity[key]; ok {
		entry.conflict.RemoteData = remoteData
		entry.conflict.RemoteTimestamp = doc.UpdatedAt
		entry.remoteVersion = doc.Version
	}
	c.mu.Unlock()

	return fmt.Errorf("remote moved during resolution of %s: %w", conflict.EntityID, ErrConflictPending)
}

func (c *conflictService) collectionPath(entityType models.EntityType) string {
	return "users/" + c.userID + "/" + string(entityType) + "s"
}
