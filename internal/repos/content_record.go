package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

type ContentRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.ContentRecord) ([]*types.ContentRecord, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ContentRecord, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type contentRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRecordRepo(db *gorm.DB, baseLog *logger.Logger) ContentRecordRepo {
	repoLog := baseLog.With("repo", "ContentRecordRepo")
	return &contentRecordRepo{db: db, log: repoLog}
}

func (cr *contentRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.ContentRecord) ([]*types.ContentRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(records) == 0 {
		return []*types.ContentRecord{}, nil
	}

	for _, r := range records {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (cr *contentRecordRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ContentRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.ContentRecord

	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contentRecordRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ContentRecord{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + ?", 1)).Error
}
