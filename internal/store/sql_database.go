package store

import (
	"database/sql"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
