package services

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/normalization"
)

// UploadedFile is the transport-agnostic shape of one inbound file.
type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".json": true,
	".jpg":  true,
	".jpeg": true,
}

func validateUploadType(fileName string) error {
	ext := strings.ToLower(path.Ext(fileName))
	if !allowedUploadExts[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	return nil
}

// buildStorageKey derives the object key for a faculty upload. The millisecond
// prefix keeps repeated uploads of the same filename from colliding.
func buildStorageKey(subject, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%d_%s", normalization.SubjectFolder(subject), now.UnixMilli(), fileName)
}

// buildSubmissionKey namespaces a student upload under the student's id so
// two students submitting the same filename never collide.
func buildSubmissionKey(studentID uuid.UUID, subject, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%s", studentID.String(), buildStorageKey(subject, fileName, now))
}
