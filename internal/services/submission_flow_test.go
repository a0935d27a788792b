package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type fakeBucket struct {
	objects map[string][]byte
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (fb *fakeBucket) UploadFile(_ context.Context, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	fb.objects[key] = data
	return nil
}

func (fb *fakeBucket) DeleteFile(_ context.Context, key string) error {
	delete(fb.objects, key)
	return nil
}

func (fb *fakeBucket) GetPublicURL(key string) string {
	return "https://storage.test/" + key
}

func asUser(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: userID, Role: role})
}

func TestSubmissionFlow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	bucket := newFakeBucket()
	hub := realtime.NewSSEHub(log)
	notifier := NewChangeNotifier(log, hub, nil)

	activityRepo := repos.NewActivityRepo(tx, log)
	submissionRepo := repos.NewSubmissionRepo(tx, log)
	assignmentRepo := repos.NewAssignmentRepo(tx, log)

	activities := NewActivityService(tx, log, activityRepo, notifier)
	submissions := NewSubmissionService(tx, log, submissionRepo, assignmentRepo, bucket, activities, notifier)

	facultyUser := testutil.SeedUser(t, ctx, tx, "flow-faculty@example.com")
	testutil.SeedProfile(t, ctx, tx, facultyUser.ID, types.RoleFaculty)
	studentUser := testutil.SeedUser(t, ctx, tx, "flow-student@example.com")
	testutil.SeedProfile(t, ctx, tx, studentUser.ID, types.RoleStudent)
	assignment := testutil.SeedAssignment(t, ctx, tx, "operating systems", 5, facultyUser.ID)

	studentCtx := asUser(ctx, studentUser.ID, types.RoleStudent)
	facultyCtx := asUser(ctx, facultyUser.ID, types.RoleFaculty)

	if _, err := submissions.Submit(facultyCtx, SubmitInput{
		AssignmentID: assignment.ID,
		File:         UploadedFile{Name: "answer.pdf", Content: strings.NewReader("x")},
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("faculty submit: want ErrForbidden, got %v", err)
	}

	if _, err := submissions.Submit(studentCtx, SubmitInput{
		AssignmentID: assignment.ID,
		File:         UploadedFile{Name: "answer.exe", Content: strings.NewReader("x")},
	}); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("bad extension: want ErrUnsupportedFileType, got %v", err)
	}

	submitted, err := submissions.Submit(studentCtx, SubmitInput{
		AssignmentID: assignment.ID,
		File:         UploadedFile{Name: "answer.pdf", Content: bytes.NewReader([]byte("answer body"))},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.HasPrefix(submitted.StorageKey, studentUser.ID.String()+"/") {
		t.Fatalf("submission key should be namespaced by student id, got %q", submitted.StorageKey)
	}
	if _, ok := bucket.objects[submitted.StorageKey]; !ok {
		t.Fatalf("submission binary missing from bucket")
	}

	if _, err := submissions.Submit(studentCtx, SubmitInput{
		AssignmentID: assignment.ID,
		File:         UploadedFile{Name: "again.pdf", Content: strings.NewReader("x")},
	}); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("duplicate submit: want ErrDuplicateSubmission, got %v", err)
	}

	if _, err := submissions.Grade(studentCtx, GradeInput{SubmissionID: submitted.ID, Marks: 5}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("student grade: want ErrForbidden, got %v", err)
	}
	if _, err := submissions.Grade(facultyCtx, GradeInput{SubmissionID: submitted.ID, Marks: 11}); !errors.Is(err, ErrInvalidMarks) {
		t.Fatalf("marks out of range: want ErrInvalidMarks, got %v", err)
	}

	graded, err := submissions.Grade(facultyCtx, GradeInput{SubmissionID: submitted.ID, Marks: 7, Feedback: "solid"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if graded.Marks == nil || *graded.Marks != 7 {
		t.Fatalf("Grade: marks not recorded: %+v", graded.Marks)
	}
	if graded.Feedback == nil || *graded.Feedback != "solid" {
		t.Fatalf("Grade: feedback not recorded: %+v", graded.Feedback)
	}

	regraded, err := submissions.Grade(facultyCtx, GradeInput{SubmissionID: submitted.ID, Marks: 9})
	if err != nil {
		t.Fatalf("Grade (regrade): %v", err)
	}
	if regraded.Marks == nil || *regraded.Marks != 9 {
		t.Fatalf("regrade should overwrite marks: %+v", regraded.Marks)
	}
	if regraded.Feedback != nil {
		t.Fatalf("regrade without feedback should clear it, got %q", *regraded.Feedback)
	}
	refetched, err := submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submitted.ID})
	if err != nil || len(refetched) != 1 {
		t.Fatalf("refetch submission: %v (%d rows)", err, len(refetched))
	}
	if refetched[0].Feedback != nil {
		t.Fatalf("stored feedback should be cleared on regrade, got %q", *refetched[0].Feedback)
	}

	if err := submissions.Delete(studentCtx, submitted.ID); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("delete after grade: want ErrAlreadyGraded, got %v", err)
	}

	studentFeed, err := activities.FeedForUser(studentCtx, studentUser.ID, 10)
	if err != nil {
		t.Fatalf("FeedForUser: %v", err)
	}
	var sawSubmit, sawGraded bool
	for _, a := range studentFeed {
		switch a.ActivityType {
		case types.ActivityAssignmentSubmit:
			sawSubmit = true
		case types.ActivityAssignmentGraded:
			sawGraded = true
			if a.Description == nil || !strings.Contains(*a.Description, "/10") {
				t.Fatalf("graded feed entry should carry marks out of 10 in the description, got %v", a.Description)
			}
			var extras map[string]any
			if err := json.Unmarshal(a.Data, &extras); err != nil {
				t.Fatalf("graded feed entry data should be json: %v", err)
			}
			if _, ok := extras["marks"]; !ok {
				t.Fatalf("graded feed entry data should carry marks, got %v", extras)
			}
		}
	}
	if !sawSubmit || !sawGraded {
		t.Fatalf("student feed missing entries: submit=%v graded=%v", sawSubmit, sawGraded)
	}
}

func TestSubmissionDeleteWhileUngraded(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	bucket := newFakeBucket()
	hub := realtime.NewSSEHub(log)
	notifier := NewChangeNotifier(log, hub, nil)

	activityRepo := repos.NewActivityRepo(tx, log)
	submissionRepo := repos.NewSubmissionRepo(tx, log)
	assignmentRepo := repos.NewAssignmentRepo(tx, log)

	activities := NewActivityService(tx, log, activityRepo, notifier)
	submissions := NewSubmissionService(tx, log, submissionRepo, assignmentRepo, bucket, activities, notifier)

	facultyUser := testutil.SeedUser(t, ctx, tx, "del-faculty@example.com")
	testutil.SeedProfile(t, ctx, tx, facultyUser.ID, types.RoleFaculty)
	studentUser := testutil.SeedUser(t, ctx, tx, "del-student@example.com")
	testutil.SeedProfile(t, ctx, tx, studentUser.ID, types.RoleStudent)
	otherStudent := testutil.SeedUser(t, ctx, tx, "del-other@example.com")
	testutil.SeedProfile(t, ctx, tx, otherStudent.ID, types.RoleStudent)
	assignment := testutil.SeedAssignment(t, ctx, tx, "operating systems", 5, facultyUser.ID)

	studentCtx := asUser(ctx, studentUser.ID, types.RoleStudent)
	otherCtx := asUser(ctx, otherStudent.ID, types.RoleStudent)

	submitted, err := submissions.Submit(studentCtx, SubmitInput{
		AssignmentID: assignment.ID,
		File:         UploadedFile{Name: "answer.pdf", Content: strings.NewReader("body")},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := submissions.Delete(otherCtx, submitted.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by other student: want ErrForbidden, got %v", err)
	}

	if err := submissions.Delete(studentCtx, submitted.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := bucket.objects[submitted.StorageKey]; ok {
		t.Fatalf("submission binary should be deleted with the row")
	}

	resubmitted, err := submissions.Submit(studentCtx, SubmitInput{
		AssignmentID: assignment.ID,
		File:         UploadedFile{Name: "answer-v2.pdf", Content: strings.NewReader("body v2")},
	})
	if err != nil {
		t.Fatalf("resubmit after delete: %v", err)
	}
	if resubmitted.ID == submitted.ID {
		t.Fatalf("resubmission should be a new row")
	}
}
