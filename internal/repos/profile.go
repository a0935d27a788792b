package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]interface{}) error
	DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
	CountByRole(ctx context.Context, tx *gorm.DB, role string) (int64, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(profiles) == 0 {
		return []*types.Profile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (pr *profileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Profile
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *profileRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Profile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

func (pr *profileRepo) DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(userIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.Profile{}).Error
}

func (pr *profileRepo) CountByRole(ctx context.Context, tx *gorm.DB, role string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Profile{}).
		Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
