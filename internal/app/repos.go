package app

import (
	"gorm.io/gorm"

	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
	"github.com/kinfolkhq/kinfolk-backend/internal/repos"
)

type Repos struct {
	ContentRecord   repos.ContentRecordRepo
	ConsumerHistory repos.ConsumerHistoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ContentRecord:   repos.NewContentRecordRepo(db, log),
		ConsumerHistory: repos.NewConsumerHistoryRepo(db, log),
	}
}
