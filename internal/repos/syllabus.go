package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type SyllabusRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.Syllabus) ([]*types.Syllabus, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Syllabus, error)
	GetBySubjectSemester(ctx context.Context, tx *gorm.DB, subject string, semester int) (*types.Syllabus, error)
	ListBySemester(ctx context.Context, tx *gorm.DB, semester int, subject string) ([]*types.Syllabus, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type syllabusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyllabusRepo(db *gorm.DB, baseLog *logger.Logger) SyllabusRepo {
	return &syllabusRepo{db: db, log: baseLog.With("repo", "SyllabusRepo")}
}

func (sr *syllabusRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.Syllabus) ([]*types.Syllabus, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(records) == 0 {
		return []*types.Syllabus{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (sr *syllabusRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Syllabus, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Syllabus
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

func (sr *syllabusRepo) GetBySubjectSemester(ctx context.Context, tx *gorm.DB, subject string, semester int) (*types.Syllabus, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Syllabus
	if err := transaction.WithContext(ctx).
		Where("subject = ? AND semester = ?", subject, semester).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (sr *syllabusRepo) ListBySemester(ctx context.Context, tx *gorm.DB, semester int, subject string) ([]*types.Syllabus, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	q := transaction.WithContext(ctx).Where("semester = ?", semester)
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	var results []*types.Syllabus
	if err := q.Order("subject asc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *syllabusRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Syllabus{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (sr *syllabusRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Syllabus{}).Error
}
