package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		ID:              uuid.New(),
		UserID:          userID,
		Email:           "p-" + userID.String()[:8] + "@example.com",
		FullName:        "Test Person",
		Role:            role,
		USNOrEmployeeID: "1XX21CS001",
	}
	if role == types.RoleFaculty {
		subject := "Operating Systems"
		designation := "Assistant Professor"
		p.Subject = &subject
		p.Designation = &designation
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedSyllabus(tb testing.TB, ctx context.Context, tx *gorm.DB, subject string, semester int, uploaderID uuid.UUID) *types.Syllabus {
	tb.Helper()
	s := &types.Syllabus{
		ID:         uuid.New(),
		Subject:    subject,
		Semester:   semester,
		FileName:   "syllabus.pdf",
		FileURL:    "https://storage.example.com/syllabus.pdf",
		StorageKey: "syllabus/1_syllabus.pdf",
		UploadedBy: uploaderID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed syllabus: %v", err)
	}
	return s
}

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, subject string, semester int, uploaderID uuid.UUID) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{
		ID:         uuid.New(),
		Subject:    subject,
		Semester:   semester,
		Title:      "Assignment 1",
		FileName:   "assignment.pdf",
		FileURL:    "https://storage.example.com/assignment.pdf",
		StorageKey: "subject/1_assignment.pdf",
		UploadedBy: uploaderID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, assignmentID, studentID uuid.UUID, subject string) *types.Submission {
	tb.Helper()
	s := &types.Submission{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Subject:      subject,
		FileName:     "answer.pdf",
		FileURL:      "https://storage.example.com/answer.pdf",
		StorageKey:   studentID.String() + "/subject/1_answer.pdf",
		SubmittedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType, subject string) *types.Activity {
	tb.Helper()
	a := &types.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		Subject:      subject,
		Title:        "activity",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}
