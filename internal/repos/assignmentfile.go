package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type AssignmentFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, files []*types.AssignmentFile) ([]*types.AssignmentFile, error)
	ListByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) ([]*types.AssignmentFile, error)
	DeleteByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error
}

type assignmentFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentFileRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentFileRepo {
	return &assignmentFileRepo{db: db, log: baseLog.With("repo", "AssignmentFileRepo")}
}

func (afr *assignmentFileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.AssignmentFile) ([]*types.AssignmentFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = afr.db
	}
	if len(files) == 0 {
		return []*types.AssignmentFile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (afr *assignmentFileRepo) ListByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) ([]*types.AssignmentFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = afr.db
	}
	var results []*types.AssignmentFile
	if len(assignmentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (afr *assignmentFileRepo) DeleteByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = afr.db
	}
	if len(assignmentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Delete(&types.AssignmentFile{}).Error
}
