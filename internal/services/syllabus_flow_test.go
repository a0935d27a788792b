package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/types"
)

func TestSyllabusUploadReplace(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	bucket := newFakeBucket()
	hub := realtime.NewSSEHub(log)
	notifier := NewChangeNotifier(log, hub, nil)

	activityRepo := repos.NewActivityRepo(tx, log)
	syllabusRepo := repos.NewSyllabusRepo(tx, log)

	activities := NewActivityService(tx, log, activityRepo, notifier)
	syllabi := NewSyllabusService(tx, log, syllabusRepo, bucket, activities, notifier)

	facultyUser := testutil.SeedUser(t, ctx, tx, "syl-faculty@example.com")
	testutil.SeedProfile(t, ctx, tx, facultyUser.ID, types.RoleFaculty)
	studentUser := testutil.SeedUser(t, ctx, tx, "syl-student@example.com")
	testutil.SeedProfile(t, ctx, tx, studentUser.ID, types.RoleStudent)

	facultyCtx := asUser(ctx, facultyUser.ID, types.RoleFaculty)
	studentCtx := asUser(ctx, studentUser.ID, types.RoleStudent)

	if _, err := syllabi.Upload(studentCtx, SyllabusUploadInput{
		Subject: "Operating Systems",
		File:    UploadedFile{Name: "syllabus.pdf", Content: strings.NewReader("v1")},
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("student upload: want ErrForbidden, got %v", err)
	}

	if _, err := syllabi.Upload(facultyCtx, SyllabusUploadInput{
		Subject: "Operating Systems",
		File:    UploadedFile{Name: "syllabus.docx", Content: strings.NewReader("v1")},
	}); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("bad extension: want ErrUnsupportedFileType, got %v", err)
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("rejected upload should never reach storage, found %d objects", len(bucket.objects))
	}

	first, err := syllabi.Upload(facultyCtx, SyllabusUploadInput{
		Subject: "Operating Systems",
		File:    UploadedFile{Name: "syllabus-v1.pdf", Content: strings.NewReader("v1")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if first.Subject != "operating systems" {
		t.Fatalf("subject should be normalized, got %q", first.Subject)
	}
	if first.Semester != types.DefaultSemester {
		t.Fatalf("semester should default to %d, got %d", types.DefaultSemester, first.Semester)
	}
	if _, ok := bucket.objects[first.StorageKey]; !ok {
		t.Fatalf("syllabus binary missing from bucket")
	}

	second, err := syllabi.Upload(facultyCtx, SyllabusUploadInput{
		Subject: "operating systems",
		File:    UploadedFile{Name: "syllabus-v2.pdf", Content: strings.NewReader("v2")},
	})
	if err != nil {
		t.Fatalf("Upload (replace): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replace should reuse the existing row, got %s and %s", first.ID, second.ID)
	}
	if second.StorageKey == first.StorageKey {
		t.Fatalf("replace should point the row at the new object")
	}
	if _, ok := bucket.objects[first.StorageKey]; ok {
		t.Fatalf("replaced binary should be deleted")
	}
	if _, ok := bucket.objects[second.StorageKey]; !ok {
		t.Fatalf("new binary missing from bucket")
	}

	rows, err := syllabi.List(facultyCtx, types.DefaultSemester, "operating systems")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("subject/semester should hold exactly one syllabus row, got %d", len(rows))
	}
	if rows[0].FileName != "syllabus-v2.pdf" {
		t.Fatalf("row should carry the replacement file, got %q", rows[0].FileName)
	}

	if err := syllabi.Delete(facultyCtx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := bucket.objects[second.StorageKey]; ok {
		t.Fatalf("delete should remove the binary with the row")
	}
}
