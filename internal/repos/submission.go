package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Submission, error)
	// ExistsForStudentAssignment backs the duplicate-submission check. It is a
	// read before the insert, not a constraint; concurrent submits from the
	// same student can race (accepted gap).
	ExistsForStudentAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) (bool, error)
	ListByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.Submission, error)
	ListBySubject(ctx context.Context, tx *gorm.DB, subject string, limit int) ([]*types.Submission, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (sr *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(submissions) == 0 {
		return []*types.Submission{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (sr *submissionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Submission
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

func (sr *submissionRepo) ExistsForStudentAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *submissionRepo) ListByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Submission
	if len(studentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Order("submitted_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *submissionRepo) ListBySubject(ctx context.Context, tx *gorm.DB, subject string, limit int) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	q := transaction.WithContext(ctx).
		Where("subject = ?", subject).
		Order("submitted_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Submission
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *submissionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (sr *submissionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Submission{}).Error
}

func (sr *submissionRepo) DeleteByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(assignmentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Delete(&types.Submission{}).Error
}
