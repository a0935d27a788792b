package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/types"
)

func TestSubmissionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubmissionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	faculty := testutil.SeedUser(t, ctx, tx, "subrepo-faculty@example.com")
	student := testutil.SeedUser(t, ctx, tx, "subrepo-student@example.com")
	assignment := testutil.SeedAssignment(t, ctx, tx, "operating systems", 5, faculty.ID)

	exists, err := repo.ExistsForStudentAssignment(ctx, tx, student.ID, assignment.ID)
	if err != nil {
		t.Fatalf("ExistsForStudentAssignment: %v", err)
	}
	if exists {
		t.Fatalf("ExistsForStudentAssignment: expected false before submit")
	}

	created, err := repo.Create(ctx, tx, []*types.Submission{
		{
			ID:           uuid.New(),
			AssignmentID: assignment.ID,
			StudentID:    student.ID,
			Subject:      assignment.Subject,
			FileName:     "answer.pdf",
			FileURL:      "https://storage.example.com/answer.pdf",
			StorageKey:   student.ID.String() + "/operating_systems/1_answer.pdf",
			SubmittedAt:  time.Now().UTC(),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 submission, got %d", len(created))
	}

	exists, err = repo.ExistsForStudentAssignment(ctx, tx, student.ID, assignment.ID)
	if err != nil {
		t.Fatalf("ExistsForStudentAssignment: %v", err)
	}
	if !exists {
		t.Fatalf("ExistsForStudentAssignment: expected true after submit")
	}

	byStudent, err := repo.ListByStudentIDs(ctx, tx, []uuid.UUID{student.ID})
	if err != nil {
		t.Fatalf("ListByStudentIDs: %v", err)
	}
	if len(byStudent) != 1 || byStudent[0].ID != created[0].ID {
		t.Fatalf("ListByStudentIDs: unexpected result: %+v", byStudent)
	}

	bySubject, err := repo.ListBySubject(ctx, tx, assignment.Subject, 10)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(bySubject) != 1 {
		t.Fatalf("ListBySubject: expected 1 submission, got %d", len(bySubject))
	}
}

func TestSubmissionRepoGradeOverwrite(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubmissionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	faculty := testutil.SeedUser(t, ctx, tx, "subgrade-faculty@example.com")
	student := testutil.SeedUser(t, ctx, tx, "subgrade-student@example.com")
	assignment := testutil.SeedAssignment(t, ctx, tx, "operating systems", 5, faculty.ID)
	submission := testutil.SeedSubmission(t, ctx, tx, assignment.ID, student.ID, assignment.Subject)

	gradedAt := time.Now().UTC()
	if err := repo.UpdateFields(ctx, tx, submission.ID, map[string]interface{}{
		"marks":     7,
		"feedback":  "good work",
		"graded_by": faculty.ID,
		"graded_at": gradedAt,
	}); err != nil {
		t.Fatalf("UpdateFields (first grade): %v", err)
	}

	if err := repo.UpdateFields(ctx, tx, submission.ID, map[string]interface{}{
		"marks":     9,
		"feedback":  "revised after review",
		"graded_by": faculty.ID,
		"graded_at": time.Now().UTC(),
	}); err != nil {
		t.Fatalf("UpdateFields (regrade): %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{submission.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetByIDs: expected 1 submission, got %d", len(got))
	}
	if got[0].Marks == nil || *got[0].Marks != 9 {
		t.Fatalf("regrade did not overwrite marks: %+v", got[0].Marks)
	}
	if got[0].Feedback == nil || *got[0].Feedback != "revised after review" {
		t.Fatalf("regrade did not overwrite feedback: %+v", got[0].Feedback)
	}
	if got[0].GradedAt == nil {
		t.Fatalf("expected graded_at to be set")
	}
}

func TestSubmissionRepoDeleteByAssignmentIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubmissionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	faculty := testutil.SeedUser(t, ctx, tx, "subdel-faculty@example.com")
	student := testutil.SeedUser(t, ctx, tx, "subdel-student@example.com")
	assignment := testutil.SeedAssignment(t, ctx, tx, "operating systems", 5, faculty.ID)
	submission := testutil.SeedSubmission(t, ctx, tx, assignment.ID, student.ID, assignment.Subject)

	if err := repo.DeleteByAssignmentIDs(ctx, tx, []uuid.UUID{assignment.ID}); err != nil {
		t.Fatalf("DeleteByAssignmentIDs: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{submission.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected submission to be deleted, got %d", len(got))
	}
}
