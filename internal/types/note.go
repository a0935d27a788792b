package types

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Subject    string    `gorm:"not null;index" json:"subject"`
	Semester   int       `gorm:"not null;default:5" json:"semester"`
	Title      string    `gorm:"not null" json:"title"`
	FileName   string    `gorm:"not null;column:file_name" json:"file_name"`
	FileURL    string    `gorm:"not null;column:file_url" json:"file_url"`
	StorageKey string    `gorm:"not null;column:storage_key" json:"storage_key"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null;column:uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Note) TableName() string { return "note" }
