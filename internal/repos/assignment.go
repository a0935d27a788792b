package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type AssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.Assignment) ([]*types.Assignment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Assignment, error)
	ListBySemester(ctx context.Context, tx *gorm.DB, semester int, subject string) ([]*types.Assignment, error)
	ListExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Assignment, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	CountBySubjectUploader(ctx context.Context, tx *gorm.DB, subject string, uploaderID uuid.UUID) (int64, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (ar *assignmentRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.Assignment) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(records) == 0 {
		return []*types.Assignment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (ar *assignmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Assignment
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

func (ar *assignmentRepo) ListBySemester(ctx context.Context, tx *gorm.DB, semester int, subject string) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).Where("semester = ?", semester)
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	var results []*types.Assignment
	if err := q.Order("created_at desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assignmentRepo) ListExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Assignment
	if err := transaction.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ?", cutoff).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assignmentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Assignment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (ar *assignmentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Assignment{}).Error
}

func (ar *assignmentRepo) CountBySubjectUploader(ctx context.Context, tx *gorm.DB, subject string, uploaderID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Assignment{}).
		Where("subject = ? AND uploaded_by = ?", subject, uploaderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
