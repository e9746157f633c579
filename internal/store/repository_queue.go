package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/models"
)

type queueRepository struct {
	*DB
	logger *logger.Logger
}

func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

func (q *queueRepository) Enqueue(ctx context.Context, op models.QueuedOperation) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, enqueueOperation,
		op.ID,
		op.EntityType,
		op.EntityID,
		op.Kind,
		op.CollectionPath,
		op.Payload,
		op.Priority,
		op.EnqueuedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Enqueue").
			Str("operation_id", op.ID).
			Str("entity_id", op.EntityID).
			Msg("failed to execute upsert for queued operation")
		return fmt.Errorf("failed to enqueue operation (id=%s): %w", op.ID, err)
	}

	return nil
}

func (q *queueRepository) Ready(ctx context.Context, now time.Time, limit int) ([]models.QueuedOperation, error) {
	log := logger.FromContext(ctx)

	// An operation is only eligible when no earlier live operation exists
	// for the same entity, so priority can never reorder a single entity's
	// mutations.
	query, args, err := sq.Select(
		"id", "entity_type", "entity_id", "kind", "collection_path",
		"payload", "priority", "attempts", "next_retry_at", "status", "enqueued_at",
	).
		From("queued_operations AS q").
		Where(sq.Eq{"q.status": string(models.OperationPending)}).
		Where(sq.Or{
			sq.Expr("q.next_retry_at IS NULL"),
			sq.LtOrEq{"q.next_retry_at": now},
		}).
		Where(sq.Expr(`NOT EXISTS (
			SELECT 1 FROM queued_operations AS p
			WHERE p.entity_id = q.entity_id
			  AND p.status IN ('pending', 'in_flight')
			  AND p.enqueued_at < q.enqueued_at
		)`)).
		OrderBy("q.priority DESC", "q.enqueued_at ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Ready").
			Msg("failed to build ready operations query")
		return nil, fmt.Errorf("failed to build ready operations query: %w", err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Ready").
			Msg("failed to execute query for ready operations")
		return nil, fmt.Errorf("failed to query ready operations: %w", err)
	}
	defer rows.Close()

	var ops []models.QueuedOperation

	for rows.Next() {
		op, scanErr := scanOperation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.Ready").
				Msg("failed to scan queued operation row")
			return nil, fmt.Errorf("failed to scan queued operation row: %w", scanErr)
		}
		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "queueRepository.Ready").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating queued operation rows: %w", rowsErr)
	}

	return ops, nil
}

func (q *queueRepository) MarkInFlight(ctx context.Context, ids ...string) error {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	query, args, err := sq.Update("queued_operations").
		Set("status", string(models.OperationInFlight)).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.MarkInFlight").
			Msg("failed to build mark-in-flight query")
		return fmt.Errorf("failed to build mark-in-flight query: %w", err)
	}

	if _, err = q.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "queueRepository.MarkInFlight").
			Int("operations", len(ids)).
			Msg("failed to mark operations in flight")
		return fmt.Errorf("failed to mark operations in flight: %w", err)
	}

	return nil
}

func (q *queueRepository) MarkDone(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := q.DB.ExecContext(ctx, markOperationDone, id); err != nil {
		log.Err(err).
			Str("func", "queueRepository.MarkDone").
			Str("operation_id", id).
			Msg("failed to remove delivered operation")
		return fmt.Errorf("failed to mark operation done (id=%s): %w", id, err)
	}

	return nil
}

func (q *queueRepository) Reschedule(ctx context.Context, id string, attempts int, nextRetryAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, rescheduleOperation, attempts, nextRetryAt, id)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Reschedule").
			Str("operation_id", id).
			Msg("failed to reschedule operation")
		return fmt.Errorf("failed to reschedule operation (id=%s): %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to reschedule operation (id=%s): %w", id, ErrOperationNotFound)
	}

	return nil
}

func (q *queueRepository) Withdraw(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	var status string
	row := q.DB.QueryRowContext(ctx, getOperationStatus, id)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOperationNotFound
		}
		log.Err(err).
			Str("func", "queueRepository.Withdraw").
			Str("operation_id", id).
			Msg("failed to query operation status")
		return fmt.Errorf("failed to query operation status (id=%s): %w", id, err)
	}

	if status == string(models.OperationInFlight) {
		return ErrOperationInFlight
	}

	if _, err := q.DB.ExecContext(ctx, deleteOperation, id); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Withdraw").
			Str("operation_id", id).
			Msg("failed to delete withdrawn operation")
		return fmt.Errorf("failed to withdraw operation (id=%s): %w", id, err)
	}

	return nil
}

func (q *queueRepository) DeadLetter(ctx context.Context, op models.QueuedOperation, reason string) error {
	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeadLetter").
			Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin dead-letter transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertDeadLetter,
		op.ID,
		op.EntityType,
		op.EntityID,
		op.Kind,
		op.Payload,
		op.Attempts,
		reason,
		time.Now().UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeadLetter").
			Str("operation_id", op.ID).
			Msg("failed to insert dead letter")
		return fmt.Errorf("failed to insert dead letter (id=%s): %w", op.ID, err)
	}

	if _, err = tx.ExecContext(ctx, deleteOperation, op.ID); err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeadLetter").
			Str("operation_id", op.ID).
			Msg("failed to remove dead-lettered operation from queue")
		return fmt.Errorf("failed to remove dead-lettered operation (id=%s): %w", op.ID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dead-letter transaction (id=%s): %w", op.ID, err)
	}

	return nil
}

func (q *queueRepository) DeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(
		"operation_id", "entity_type", "entity_id", "kind",
		"payload", "attempts", "reason", "failed_at",
	).
		From("dead_letters").
		OrderBy("failed_at ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build dead letters query: %w", err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeadLetters").
			Msg("failed to execute query for dead letters")
		return nil, fmt.Errorf("failed to query dead letters: %w", err)
	}
	defer rows.Close()

	var letters []models.DeadLetter

	for rows.Next() {
		var dl models.DeadLetter

		scanErr := rows.Scan(
			&dl.OperationID,
			&dl.EntityType,
			&dl.EntityID,
			&dl.Kind,
			&dl.Payload,
			&dl.Attempts,
			&dl.Reason,
			&dl.FailedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.DeadLetters").
				Msg("failed to scan dead letter row")
			return nil, fmt.Errorf("failed to scan dead letter row: %w", scanErr)
		}

		letters = append(letters, dl)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating dead letter rows: %w", rowsErr)
	}

	return letters, nil
}

func (q *queueRepository) Requeue(ctx context.Context, operationID string) error {
	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin requeue transaction: %w", err)
	}
	defer tx.Rollback()

	var dl models.DeadLetter
	row := tx.QueryRowContext(ctx, getDeadLetter, operationID)
	err = row.Scan(
		&dl.OperationID,
		&dl.EntityType,
		&dl.EntityID,
		&dl.Kind,
		&dl.Payload,
		&dl.Attempts,
		&dl.Reason,
		&dl.FailedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDeadLetterNotFound
		}
		log.Err(err).
			Str("func", "queueRepository.Requeue").
			Str("operation_id", operationID).
			Msg("failed to load dead letter")
		return fmt.Errorf("failed to load dead letter (id=%s): %w", operationID, err)
	}

	_, err = tx.ExecContext(ctx, enqueueOperation,
		dl.OperationID,
		dl.EntityType,
		dl.EntityID,
		dl.Kind,
		"",
		dl.Payload,
		models.DefaultPriority,
		time.Now().UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Requeue").
			Str("operation_id", operationID).
			Msg("failed to re-enqueue dead-lettered operation")
		return fmt.Errorf("failed to requeue operation (id=%s): %w", operationID, err)
	}

	if _, err = tx.ExecContext(ctx, deleteDeadLetter, operationID); err != nil {
		return fmt.Errorf("failed to remove requeued dead letter (id=%s): %w", operationID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit requeue transaction (id=%s): %w", operationID, err)
	}

	return nil
}

func (q *queueRepository) Status(ctx context.Context) (models.QueueStatus, error) {
	log := logger.FromContext(ctx)

	var status models.QueueStatus
	row := q.DB.QueryRowContext(ctx, countQueueStatus)
	if err := row.Scan(&status.PendingCount, &status.InFlightCount); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Status").
			Msg("failed to count queued operations")
		return models.QueueStatus{}, fmt.Errorf("failed to count queued operations: %w", err)
	}

	row = q.DB.QueryRowContext(ctx, countDeadLetters)
	if err := row.Scan(&status.DeadLetters); err != nil {
		return models.QueueStatus{}, fmt.Errorf("failed to count dead letters: %w", err)
	}

	return status, nil
}

func (q *queueRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx)

	log.Warn().
		Str("func", "queueRepository.Clear").
		Msg("clearing offline queue: pending operations are irreversibly discarded")

	if _, err := q.DB.ExecContext(ctx, clearQueue); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Clear").
			Msg("failed to clear queue")
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	return nil
}

// scanOperation reads one queued_operations row. next_retry_at is nullable:
// NULL means the operation is ready immediately.
func scanOperation(rows *sql.Rows) (models.QueuedOperation, error) {
	var op models.QueuedOperation
	var nextRetryAt sql.NullTime

	err := rows.Scan(
		&op.ID,
		&op.EntityType,
		&op.EntityID,
		&op.Kind,
		&op.CollectionPath,
		&op.Payload,
		&op.Priority,
		&op.Attempts,
		&nextRetryAt,
		&op.Status,
		&op.EnqueuedAt,
	)
	if err != nil {
		return models.QueuedOperation{}, err
	}

	if nextRetryAt.Valid {
		op.NextRetryAt = nextRetryAt.Time
	}

	return op, nil
}
