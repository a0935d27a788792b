package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type NoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.Note) ([]*types.Note, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Note, error)
	ListBySemester(ctx context.Context, tx *gorm.DB, semester int, subject string) ([]*types.Note, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	CountBySubjectUploader(ctx context.Context, tx *gorm.DB, subject string, uploaderID uuid.UUID) (int64, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (nr *noteRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.Note) ([]*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(records) == 0 {
		return []*types.Note{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (nr *noteRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var results []*types.Note
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

func (nr *noteRepo) ListBySemester(ctx context.Context, tx *gorm.DB, semester int, subject string) ([]*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	q := transaction.WithContext(ctx).Where("semester = ?", semester)
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	var results []*types.Note
	if err := q.Order("created_at desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *noteRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Note{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (nr *noteRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Note{}).Error
}

func (nr *noteRepo) CountBySubjectUploader(ctx context.Context, tx *gorm.DB, subject string, uploaderID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Note{}).
		Where("subject = ? AND uploaded_by = ?", subject, uploaderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
