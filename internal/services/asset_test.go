package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestValidateUploadType(t *testing.T) {
	cases := []struct {
		name     string
		fileName string
		wantErr  bool
	}{
		{name: "pdf", fileName: "syllabus.pdf", wantErr: false},
		{name: "uppercase ext", fileName: "syllabus.PDF", wantErr: false},
		{name: "json", fileName: "data.json", wantErr: false},
		{name: "jpg", fileName: "scan.jpg", wantErr: false},
		{name: "jpeg", fileName: "scan.jpeg", wantErr: false},
		{name: "png rejected", fileName: "scan.png", wantErr: true},
		{name: "docx rejected", fileName: "report.docx", wantErr: true},
		{name: "no extension", fileName: "README", wantErr: true},
		{name: "trailing dot", fileName: "file.", wantErr: true},
		{name: "inner dot only counts last ext", fileName: "archive.pdf.exe", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateUploadType(tc.fileName)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.fileName)
				}
				if !errors.Is(err, ErrUnsupportedFileType) {
					t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.fileName, err)
			}
		})
	}
}

func TestBuildStorageKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	got := buildStorageKey("Operating Systems", "unit1.pdf", now)
	want := "operating_systems/1700000000000_unit1.pdf"
	if got != want {
		t.Fatalf("buildStorageKey: want=%q got=%q", want, got)
	}

	got = buildStorageKey("  Data   Structures ", "notes.json", now)
	want = "data_structures/1700000000000_notes.json"
	if got != want {
		t.Fatalf("buildStorageKey (messy subject): want=%q got=%q", want, got)
	}
}

func TestBuildSubmissionKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	studentID := uuid.New()

	got := buildSubmissionKey(studentID, "Operating Systems", "answer.pdf", now)
	wantPrefix := studentID.String() + "/operating_systems/"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("buildSubmissionKey: want prefix %q, got %q", wantPrefix, got)
	}
	if !strings.HasSuffix(got, "_answer.pdf") {
		t.Fatalf("buildSubmissionKey: want suffix %q, got %q", "_answer.pdf", got)
	}

	other := buildSubmissionKey(uuid.New(), "Operating Systems", "answer.pdf", now)
	if got == other {
		t.Fatalf("submission keys for different students should differ")
	}
}
