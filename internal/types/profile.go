package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

// Profile is the application-level record for a user: exactly one per identity,
// created at sign-up. Role never changes after creation. Subject and
// Designation are meaningful only for faculty.
type Profile struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Email           string    `gorm:"not null;column:email" json:"email"`
	FullName        string    `gorm:"not null;column:full_name" json:"full_name"`
	Role            string    `gorm:"not null;column:role" json:"role"`
	USNOrEmployeeID string    `gorm:"not null;column:usn_or_employee_id" json:"usn_or_employee_id"`
	Subject         *string   `gorm:"column:subject" json:"subject,omitempty"`
	Designation     *string   `gorm:"column:designation" json:"designation,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }
