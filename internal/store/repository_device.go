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

type deviceRepository struct {
	*DB
	logger *logger.Logger
}

func NewDeviceRepository(db *DB, logger *logger.Logger) DeviceRepository {
	return &deviceRepository{
		DB:     db,
		logger: logger,
	}
}

func (d *deviceRepository) Save(ctx context.Context, device models.Device) error {
	log := logger.FromContext(ctx)

	nextSequence := device.NextSequence
	if nextSequence <= 0 {
		nextSequence = 1
	}

	_, err := d.DB.ExecContext(ctx, saveDevice,
		device.ID,
		device.Name,
		device.Platform,
		device.Trusted,
		device.LastSeen,
		nextSequence,
	)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Save").
			Str("device_id", device.ID).
			Msg("failed to execute upsert for device")
		return fmt.Errorf("failed to save device (id=%s): %w", device.ID, err)
	}

	return nil
}

func (d *deviceRepository) Get(ctx context.Context, id string) (models.Device, error) {
	log := logger.FromContext(ctx)

	device, err := scanDevice(d.DB.QueryRowContext(ctx, getDevice, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Device{}, ErrDeviceNotFound
		}
		log.Err(err).
			Str("func", "deviceRepository.Get").
			Str("device_id", id).
			Msg("failed to scan device row")
		return models.Device{}, fmt.Errorf("failed to get device (id=%s): %w", id, err)
	}

	return device, nil
}

func (d *deviceRepository) List(ctx context.Context) ([]models.Device, error) {
	log := logger.FromContext(ctx)

	rows, err := d.DB.QueryContext(ctx, getAllDevices)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.List").
			Msg("failed to execute query for all devices")
		return nil, fmt.Errorf("failed to query all devices: %w", err)
	}
	defer rows.Close()

	var devices []models.Device

	for rows.Next() {
		device, scanErr := scanDevice(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "deviceRepository.List").
				Msg("failed to scan device row")
			return nil, fmt.Errorf("failed to scan device row: %w", scanErr)
		}
		devices = append(devices, device)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating device rows: %w", rowsErr)
	}

	return devices, nil
}

func (d *deviceRepository) SetTrusted(ctx context.Context, id string, trusted bool) error {
	log := logger.FromContext(ctx)

	result, err := d.DB.ExecContext(ctx, setDeviceTrusted, trusted, id)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.SetTrusted").
			Str("device_id", id).
			Msg("failed to update device trust flag")
		return fmt.Errorf("failed to set device trust (id=%s): %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to set device trust (id=%s): %w", id, ErrDeviceNotFound)
	}

	return nil
}

func (d *deviceRepository) Touch(ctx context.Context, id string, seenAt time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := d.DB.ExecContext(ctx, touchDevice, seenAt, id); err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Touch").
			Str("device_id", id).
			Msg("failed to update device last seen")
		return fmt.Errorf("failed to touch device (id=%s): %w", id, err)
	}

	return nil
}

func (d *deviceRepository) NextSequence(ctx context.Context, id string) (int64, error) {
	log := logger.FromContext(ctx)

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin sequence transaction: %w", err)
	}
	defer tx.Rollback()

	var sequence int64
	row := tx.QueryRowContext(ctx, getDeviceSequence, id)
	if err = row.Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrDeviceNotFound
		}
		log.Err(err).
			Str("func", "deviceRepository.NextSequence").
			Str("device_id", id).
			Msg("failed to read device sequence")
		return 0, fmt.Errorf("failed to read device sequence (id=%s): %w", id, err)
	}

	if _, err = tx.ExecContext(ctx, incrementDeviceSequence, id); err != nil {
		log.Err(err).
			Str("func", "deviceRepository.NextSequence").
			Str("device_id", id).
			Msg("failed to increment device sequence")
		return 0, fmt.Errorf("failed to increment device sequence (id=%s): %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction (id=%s): %w", id, err)
	}

	return sequence, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (models.Device, error) {
	var device models.Device
	var lastSeen sql.NullTime

	err := row.Scan(
		&device.ID,
		&device.Name,
		&device.Platform,
		&device.Trusted,
		&lastSeen,
		&device.NextSequence,
	)
	if err != nil {
		return models.Device{}, err
	}

	if lastSeen.Valid {
		device.LastSeen = lastSeen.Time
	}

	return device, nil
}
