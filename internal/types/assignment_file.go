package types

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentFile struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssignmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"assignment_id"`
	Assignment   *Assignment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	FileName     string      `gorm:"not null;column:file_name" json:"file_name"`
	FileURL      string      `gorm:"not null;column:file_url" json:"file_url"`
	StorageKey   string      `gorm:"not null;column:storage_key" json:"storage_key"`
	SizeBytes    int64       `gorm:"not null;default:0;column:size_bytes" json:"size_bytes"`
	CreatedAt    time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (AssignmentFile) TableName() string { return "assignment_file" }
