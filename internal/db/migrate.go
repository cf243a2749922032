package db

import (
	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&types.ContentRecord{},
		&types.ConsumerHistoryEntry{},
	)
}
