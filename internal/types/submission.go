package types

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the single canonical submission model. Subject is denormalized
// from the assignment so faculty feeds can filter without a join. Marks unset
// means ungraded; marks set implies graded_by and graded_at are set too.
type Submission struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssignmentID uuid.UUID   `gorm:"type:uuid;not null;index:idx_submission_assignment_student" json:"assignment_id"`
	Assignment   *Assignment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	StudentID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_submission_assignment_student" json:"student_id"`
	Subject      string      `gorm:"not null;index" json:"subject"`
	FileName     string      `gorm:"not null;column:file_name" json:"file_name"`
	FileURL      string      `gorm:"not null;column:file_url" json:"file_url"`
	StorageKey   string      `gorm:"not null;column:storage_key" json:"storage_key"`
	Marks        *int        `gorm:"column:marks" json:"marks,omitempty"`
	Feedback     *string     `gorm:"column:feedback" json:"feedback,omitempty"`
	GradedBy     *uuid.UUID  `gorm:"type:uuid;column:graded_by" json:"graded_by,omitempty"`
	SubmittedAt  time.Time   `gorm:"not null;default:now();column:submitted_at" json:"submitted_at"`
	GradedAt     *time.Time  `gorm:"column:graded_at" json:"graded_at,omitempty"`
}

func (Submission) TableName() string { return "assignment_submission" }
