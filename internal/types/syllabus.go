package types

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSemester is assumed whenever a request omits the semester.
const DefaultSemester = 5

// Syllabus holds one record per (subject, semester); a re-upload replaces the
// file pointer in place rather than adding a row.
type Syllabus struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Subject    string    `gorm:"not null;uniqueIndex:idx_syllabus_subject_semester" json:"subject"`
	Semester   int       `gorm:"not null;default:5;uniqueIndex:idx_syllabus_subject_semester" json:"semester"`
	FileName   string    `gorm:"not null;column:file_name" json:"file_name"`
	FileURL    string    `gorm:"not null;column:file_url" json:"file_url"`
	StorageKey string    `gorm:"not null;column:storage_key" json:"storage_key"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null;column:uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Syllabus) TableName() string { return "syllabus" }
