package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/normalization"
	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type SyllabusUploadInput struct {
	Subject  string
	Semester int
	File     UploadedFile
}

type SyllabusService interface {
	Upload(ctx context.Context, input SyllabusUploadInput) (*types.Syllabus, error)
	List(ctx context.Context, semester int, subject string) ([]*types.Syllabus, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type syllabusService struct {
	db           *gorm.DB
	log          *logger.Logger
	syllabusRepo repos.SyllabusRepo
	bucket       BucketService
	activities   ActivityService
	notifier     ChangeNotifier
}

func NewSyllabusService(
	db *gorm.DB,
	log *logger.Logger,
	syllabusRepo repos.SyllabusRepo,
	bucket BucketService,
	activities ActivityService,
	notifier ChangeNotifier,
) SyllabusService {
	serviceLog := log.With("service", "SyllabusService")
	return &syllabusService{
		db:           db,
		log:          serviceLog,
		syllabusRepo: syllabusRepo,
		bucket:       bucket,
		activities:   activities,
		notifier:     notifier,
	}
}

// Upload stores the syllabus binary and its row. A subject/semester pair has
// at most one syllabus: a second upload replaces the binary and updates the
// existing row in place, deleting the old object on a best-effort basis.
func (ss *syllabusService) Upload(ctx context.Context, input SyllabusUploadInput) (*types.Syllabus, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return nil, ErrForbidden
	}
	if err := validateUploadType(input.File.Name); err != nil {
		return nil, err
	}
	subject := normalization.ParseInputString(input.Subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	semester := input.Semester
	if semester == 0 {
		semester = types.DefaultSemester
	}

	key := buildStorageKey(subject, input.File.Name, time.Now())
	if err := ss.bucket.UploadFile(ctx, key, input.File.Content); err != nil {
		return nil, fmt.Errorf("failed to upload syllabus: %w", err)
	}
	fileURL := ss.bucket.GetPublicURL(key)

	existing, exErr := ss.syllabusRepo.GetBySubjectSemester(ctx, nil, subject, semester)
	if exErr != nil {
		return nil, fmt.Errorf("failed to check existing syllabus: %w", exErr)
	}

	var result *types.Syllabus
	event := realtime.SSEEventSyllabusUploaded
	if existing != nil {
		event = realtime.SSEEventSyllabusReplaced
		oldKey := existing.StorageKey
		if err := ss.syllabusRepo.UpdateFields(ctx, nil, existing.ID, map[string]interface{}{
			"file_name":   input.File.Name,
			"file_url":    fileURL,
			"storage_key": key,
			"uploaded_by": rd.UserID,
		}); err != nil {
			return nil, fmt.Errorf("failed to update syllabus: %w", err)
		}
		if oldKey != "" && oldKey != key {
			if dErr := ss.bucket.DeleteFile(ctx, oldKey); dErr != nil {
				ss.log.Warn("failed to delete replaced syllabus object", "key", oldKey, "error", dErr)
			}
		}
		existing.FileName = input.File.Name
		existing.FileURL = fileURL
		existing.StorageKey = key
		existing.UploadedBy = rd.UserID
		result = existing
	} else {
		created, cErr := ss.syllabusRepo.Create(ctx, nil, []*types.Syllabus{
			{
				ID:         uuid.New(),
				Subject:    subject,
				Semester:   semester,
				FileName:   input.File.Name,
				FileURL:    fileURL,
				StorageKey: key,
				UploadedBy: rd.UserID,
			},
		})
		if cErr != nil {
			return nil, fmt.Errorf("failed to create syllabus: %w", cErr)
		}
		result = created[0]
	}

	if aErr := ss.activities.Record(ctx, nil, &types.Activity{
		UserID:       rd.UserID,
		ActivityType: types.ActivitySyllabusUpload,
		Subject:      subject,
		Title:        fmt.Sprintf("Syllabus uploaded for %s", subject),
		Data: activityData(map[string]any{
			"syllabus_id": result.ID,
			"semester":    semester,
			"file_url":    result.FileURL,
		}),
	}); aErr != nil {
		ss.log.Warn("failed to record syllabus activity", "error", aErr)
	}

	ss.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelSyllabus,
		Event:   event,
		Data:    map[string]any{"id": result.ID, "subject": subject, "semester": semester},
	})
	return result, nil
}

func (ss *syllabusService) List(ctx context.Context, semester int, subject string) ([]*types.Syllabus, error) {
	if semester == 0 {
		semester = types.DefaultSemester
	}
	return ss.syllabusRepo.ListBySemester(ctx, nil, semester, normalization.ParseInputString(subject))
}

func (ss *syllabusService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return ErrForbidden
	}
	found, err := ss.syllabusRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to fetch syllabus: %w", err)
	}
	if len(found) == 0 {
		return ErrNotFound
	}
	if err := ss.syllabusRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("failed to delete syllabus: %w", err)
	}
	if found[0].StorageKey != "" {
		if dErr := ss.bucket.DeleteFile(ctx, found[0].StorageKey); dErr != nil {
			ss.log.Warn("failed to delete syllabus object", "key", found[0].StorageKey, "error", dErr)
		}
	}
	return nil
}
