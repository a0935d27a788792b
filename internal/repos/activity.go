package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

// ActivityRepo is deliberately insert+query only; the feed is append-only and
// the application never updates or deletes entries.
type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activities []*types.Activity) ([]*types.Activity, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Activity, error)
	ListBySubject(ctx context.Context, tx *gorm.DB, subject string, limit int) ([]*types.Activity, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (ar *activityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.Activity) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(activities) == 0 {
		return []*types.Activity{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (ar *activityRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Activity
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *activityRepo) ListBySubject(ctx context.Context, tx *gorm.DB, subject string, limit int) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).
		Where("subject = ?", subject).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Activity
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *activityRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Activity
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
