package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/models"
)

type entityStateRepository struct {
	*DB
	logger *logger.Logger
}

func NewEntityStateRepository(db *DB, logger *logger.Logger) EntityStateRepository {
	return &entityStateRepository{
		DB:     db,
		logger: logger,
	}
}

func (e *entityStateRepository) Get(ctx context.Context, entityType models.EntityType, entityID string) (models.EntityState, error) {
	log := logger.FromContext(ctx)

	state, err := scanEntityState(e.DB.QueryRowContext(ctx, getEntityState, entityType, entityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EntityState{}, ErrEntityStateNotFound
		}
		log.Err(err).
			Str("func", "entityStateRepository.Get").
			Str("entity_id", entityID).
			Msg("failed to scan entity state row")
		return models.EntityState{}, fmt.Errorf("failed to get entity state (entity_id=%s): %w", entityID, err)
	}

	return state, nil
}

func (e *entityStateRepository) Upsert(ctx context.Context, state models.EntityState) error {
	log := logger.FromContext(ctx)

	_, err := e.DB.ExecContext(ctx, upsertEntityState,
		state.EntityType,
		state.EntityID,
		state.Version,
		state.Payload,
		nullableTime(state.LocalUpdatedAt),
		nullableTime(state.LastSyncedAt),
		state.Deleted,
	)
	if err != nil {
		log.Err(err).
			Str("func", "entityStateRepository.Upsert").
			Str("entity_id", state.EntityID).
			Msg("failed to execute upsert for entity state")
		return fmt.Errorf("failed to upsert entity state (entity_id=%s): %w", state.EntityID, err)
	}

	return nil
}

func (e *entityStateRepository) All(ctx context.Context) ([]models.EntityState, error) {
	log := logger.FromContext(ctx)

	rows, err := e.DB.QueryContext(ctx, getAllEntityStates)
	if err != nil {
		log.Err(err).
			Str("func", "entityStateRepository.All").
			Msg("failed to execute query for all entity states")
		return nil, fmt.Errorf("failed to query all entity states: %w", err)
	}
	defer rows.Close()

	var states []models.EntityState

	for rows.Next() {
		state, scanErr := scanEntityState(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entityStateRepository.All").
				Msg("failed to scan entity state row")
			return nil, fmt.Errorf("failed to scan entity state row: %w", scanErr)
		}
		states = append(states, state)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating entity state rows: %w", rowsErr)
	}

	return states, nil
}

func (e *entityStateRepository) Delete(ctx context.Context, entityType models.EntityType, entityID string) error {
	log := logger.FromContext(ctx)

	if _, err := e.DB.ExecContext(ctx, deleteEntityState, entityType, entityID); err != nil {
		log.Err(err).
			Str("func", "entityStateRepository.Delete").
			Str("entity_id", entityID).
			Msg("failed to delete entity state")
		return fmt.Errorf("failed to delete entity state (entity_id=%s): %w", entityID, err)
	}

	return nil
}

// nullableTime maps the zero time to NULL so "never happened" markers do not
// persist as 0001-01-01.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanEntityState(row rowScanner) (models.EntityState, error) {
	var state models.EntityState
	var localUpdatedAt, lastSyncedAt sql.NullTime

	err := row.Scan(
		&state.EntityType,
		&state.EntityID,
		&state.Version,
		&state.Payload,
		&localUpdatedAt,
		&lastSyncedAt,
		&state.Deleted,
	)
	if err != nil {
		return models.EntityState{}, err
	}

	if localUpdatedAt.Valid {
		state.LocalUpdatedAt = localUpdatedAt.Time
	}
	if lastSyncedAt.Valid {
		state.LastSyncedAt = lastSyncedAt.Time
	}

	return state, nil
}
