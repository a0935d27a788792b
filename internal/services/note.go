package services

import (
	"context"
	"fmt"
	"strings"
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

type NoteUploadInput struct {
	Subject  string
	Semester int
	Title    string
	File     UploadedFile
}

type NoteService interface {
	Upload(ctx context.Context, input NoteUploadInput) (*types.Note, error)
	List(ctx context.Context, semester int, subject string) ([]*types.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type noteService struct {
	db         *gorm.DB
	log        *logger.Logger
	noteRepo   repos.NoteRepo
	bucket     BucketService
	activities ActivityService
	notifier   ChangeNotifier
}

func NewNoteService(
	db *gorm.DB,
	log *logger.Logger,
	noteRepo repos.NoteRepo,
	bucket BucketService,
	activities ActivityService,
	notifier ChangeNotifier,
) NoteService {
	serviceLog := log.With("service", "NoteService")
	return &noteService{
		db:         db,
		log:        serviceLog,
		noteRepo:   noteRepo,
		bucket:     bucket,
		activities: activities,
		notifier:   notifier,
	}
}

// Upload always appends a new note; unlike the syllabus there is no
// one-per-subject constraint, so old uploads stay available as versions.
func (ns *noteService) Upload(ctx context.Context, input NoteUploadInput) (*types.Note, error) {
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
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = input.File.Name
	}

	key := buildStorageKey(subject, input.File.Name, time.Now())
	if err := ns.bucket.UploadFile(ctx, key, input.File.Content); err != nil {
		return nil, fmt.Errorf("failed to upload note: %w", err)
	}

	created, cErr := ns.noteRepo.Create(ctx, nil, []*types.Note{
		{
			ID:         uuid.New(),
			Subject:    subject,
			Semester:   semester,
			Title:      title,
			FileName:   input.File.Name,
			FileURL:    ns.bucket.GetPublicURL(key),
			StorageKey: key,
			UploadedBy: rd.UserID,
		},
	})
	if cErr != nil {
		return nil, fmt.Errorf("failed to create note: %w", cErr)
	}
	note := created[0]

	if aErr := ns.activities.Record(ctx, nil, &types.Activity{
		UserID:       rd.UserID,
		ActivityType: types.ActivityNotesUpload,
		Subject:      subject,
		Title:        fmt.Sprintf("Notes uploaded: %s", title),
		Data: activityData(map[string]any{
			"note_id":  note.ID,
			"file_url": note.FileURL,
		}),
	}); aErr != nil {
		ns.log.Warn("failed to record note activity", "error", aErr)
	}

	ns.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelNotes,
		Event:   realtime.SSEEventNoteUploaded,
		Data:    map[string]any{"id": note.ID, "subject": subject, "semester": semester},
	})
	return note, nil
}

func (ns *noteService) List(ctx context.Context, semester int, subject string) ([]*types.Note, error) {
	if semester == 0 {
		semester = types.DefaultSemester
	}
	return ns.noteRepo.ListBySemester(ctx, nil, semester, normalization.ParseInputString(subject))
}

func (ns *noteService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return ErrForbidden
	}
	found, err := ns.noteRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to fetch note: %w", err)
	}
	if len(found) == 0 {
		return ErrNotFound
	}
	if err := ns.noteRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if found[0].StorageKey != "" {
		if dErr := ns.bucket.DeleteFile(ctx, found[0].StorageKey); dErr != nil {
			ns.log.Warn("failed to delete note object", "key", found[0].StorageKey, "error", dErr)
		}
	}
	return nil
}
