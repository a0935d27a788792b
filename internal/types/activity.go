package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActivitySyllabusUpload   = "syllabus_upload"
	ActivityNotesUpload      = "notes_upload"
	ActivityAssignmentUpload = "assignment_upload"
	ActivityAssignmentSubmit = "assignment_submit"
	ActivityAssignmentGraded = "assignment_graded"
)

// Activity is an append-only dashboard feed entry. UserID is the user whose
// feed the entry belongs to: the actor for uploads and submits, the submitting
// student for grading events.
type Activity struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ActivityType string         `gorm:"not null;index;column:activity_type" json:"activity_type"`
	Subject      string         `gorm:"not null" json:"subject"`
	Title        string         `gorm:"not null" json:"title"`
	Description  *string        `gorm:"column:description" json:"description,omitempty"`
	Data         datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Activity) TableName() string { return "activity" }
