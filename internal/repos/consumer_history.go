package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

type ConsumerHistoryRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entries []*types.ConsumerHistoryEntry) error
	CountSince(ctx context.Context, tx *gorm.DB, consumerID string, class types.ContentClass, since time.Time) (int64, error)
	TextIssuedSince(ctx context.Context, tx *gorm.DB, consumerID string, class types.ContentClass, text string, since time.Time) (bool, error)
}

type consumerHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConsumerHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ConsumerHistoryRepo {
	repoLog := baseLog.With("repo", "ConsumerHistoryRepo")
	return &consumerHistoryRepo{db: db, log: repoLog}
}

func (ch *consumerHistoryRepo) Append(ctx context.Context, tx *gorm.DB, entries []*types.ConsumerHistoryEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = ch.db
	}

	if len(entries) == 0 {
		return nil
	}

	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}

	return transaction.WithContext(ctx).Create(&entries).Error
}

func (ch *consumerHistoryRepo) CountSince(ctx context.Context, tx *gorm.DB, consumerID string, class types.ContentClass, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ch.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ConsumerHistoryEntry{}).
		Where("consumer_id = ? AND class = ? AND issued_at >= ?", consumerID, class, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ch *consumerHistoryRepo) TextIssuedSince(ctx context.Context, tx *gorm.DB, consumerID string, class types.ContentClass, text string, since time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ch.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ConsumerHistoryEntry{}).
		Joins("JOIN content_record ON content_record.id = consumer_history_entry.content_id").
		Where("consumer_history_entry.consumer_id = ? AND consumer_history_entry.class = ? AND consumer_history_entry.issued_at >= ? AND content_record.text = ?",
			consumerID, class, since, text).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
