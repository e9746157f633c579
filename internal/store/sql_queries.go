package store

const (
	enqueueOperation = `
		INSERT INTO queued_operations (
			id,
			entity_type,
			entity_id,
			kind,
			collection_path,
			payload,
			priority,
			attempts,
			next_retry_at,
			status,
			enqueued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NULL, 'pending', $8)
		ON CONFLICT (id) DO UPDATE SET
			payload  = excluded.payload,
			priority = excluded.priority,
			kind     = excluded.kind;`

	markOperationDone = `
		DELETE FROM queued_operations
		WHERE id = $1;`

	rescheduleOperation = `
		UPDATE queued_operations SET
			status        = 'pending',
			attempts      = $1,
			next_retry_at = $2
		WHERE id = $3;`

	getOperationStatus = `
		SELECT status FROM queued_operations
		WHERE id = $1;`

	deleteOperation = `
		DELETE FROM queued_operations
		WHERE id = $1;`

	insertDeadLetter = `
		INSERT INTO dead_letters (
			operation_id,
			entity_type,
			entity_id,
			kind,
			payload,
			attempts,
			reason,
			failed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (operation_id) DO UPDATE SET
			payload   = excluded.payload,
			attempts  = excluded.attempts,
			reason    = excluded.reason,
			failed_at = excluded.failed_at;`

	getDeadLetter = `
		SELECT
			operation_id,
			entity_type,
			entity_id,
			kind,
			payload,
			attempts,
			reason,
			failed_at
		FROM dead_letters
		WHERE operation_id = $1;`

	deleteDeadLetter = `
		DELETE FROM dead_letters
		WHERE operation_id = $1;`

	countQueueStatus = `
		SELECT
			COUNT(CASE WHEN status = 'pending' THEN 1 END),
			COUNT(CASE WHEN status = 'in_flight' THEN 1 END)
		FROM queued_operations;`

	countDeadLetters = `
		SELECT COUNT(*) FROM dead_letters;`

	clearQueue = `
		DELETE FROM queued_operations;`

	saveDevice = `
		INSERT INTO devices (
			id,
			name,
			platform,
			trusted,
			last_seen,
			next_sequence
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name      = excluded.name,
			platform  = excluded.platform,
			trusted   = excluded.trusted,
			last_seen = excluded.last_seen;`

	getDevice = `
		SELECT
			id,
			name,
			platform,
			trusted,
			last_seen,
			next_sequence
		FROM devices
		WHERE id = $1;`

	getAllDevices = `
		SELECT
			id,
			name,
			platform,
			trusted,
			last_seen,
			next_sequence
		FROM devices;`

	setDeviceTrusted = `
		UPDATE devices
		SET trusted = $1
		WHERE id = $2;`

	touchDevice = `
		UPDATE devices
		SET last_seen = $1
		WHERE id = $2;`

	incrementDeviceSequence = `
		UPDATE devices
		SET next_sequence = next_sequence + 1
		WHERE id = $1;`

	getDeviceSequence = `
		SELECT next_sequence FROM devices
		WHERE id = $1;`

	upsertEntityState = `
		INSERT INTO entity_states (
			entity_type,
			entity_id,
			version,
			payload,
			local_updated_at,
			last_synced_at,
			deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			version          = excluded.version,
			payload          = excluded.payload,
			local_updated_at = excluded.local_updated_at,
			last_synced_at   = excluded.last_synced_at,
			deleted          = excluded.deleted;`

	getEntityState = `
		SELECT
			entity_type,
			entity_id,
			version,
			payload,
			local_updated_at,
			last_synced_at,
			deleted
		FROM entity_states
		WHERE entity_type = $1 AND entity_id = $2;`

	getAllEntityStates = `
		SELECT
			entity_type,
			entity_id,
			version,
			payload,
			local_updated_at,
			last_synced_at,
			deleted
		FROM entity_states;`

	deleteEntityState = `
		DELETE FROM entity_states
		WHERE entity_type = $1 AND entity_id = $2;`
)
