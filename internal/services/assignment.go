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

type AssignmentCreateInput struct {
	Subject     string
	Semester    int
	Title       string
	Description string
	DueDate     *time.Time
	Files       []UploadedFile
}

// AssignmentWithFiles pairs an assignment row with its attachment rows.
type AssignmentWithFiles struct {
	Assignment *types.Assignment      `json:"assignment"`
	Files      []*types.AssignmentFile `json:"files"`
}

type AssignmentService interface {
	Create(ctx context.Context, input AssignmentCreateInput) (*AssignmentWithFiles, error)
	List(ctx context.Context, semester int, subject string) ([]*AssignmentWithFiles, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}

type assignmentService struct {
	db                 *gorm.DB
	log                *logger.Logger
	assignmentRepo     repos.AssignmentRepo
	assignmentFileRepo repos.AssignmentFileRepo
	submissionRepo     repos.SubmissionRepo
	bucket             BucketService
	activities         ActivityService
	notifier           ChangeNotifier
}

func NewAssignmentService(
	db *gorm.DB,
	log *logger.Logger,
	assignmentRepo repos.AssignmentRepo,
	assignmentFileRepo repos.AssignmentFileRepo,
	submissionRepo repos.SubmissionRepo,
	bucket BucketService,
	activities ActivityService,
	notifier ChangeNotifier,
) AssignmentService {
	serviceLog := log.With("service", "AssignmentService")
	return &assignmentService{
		db:                 db,
		log:                serviceLog,
		assignmentRepo:     assignmentRepo,
		assignmentFileRepo: assignmentFileRepo,
		submissionRepo:     submissionRepo,
		bucket:             bucket,
		activities:         activities,
		notifier:           notifier,
	}
}

// Create uploads the batch of attachments and writes the assignment plus one
// file row per stored object. Files with an unsupported extension are skipped
// with a warning; the batch fails only when no file survives. Binaries are
// not rolled back if a later row insert fails.
func (asv *assignmentService) Create(ctx context.Context, input AssignmentCreateInput) (*AssignmentWithFiles, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return nil, ErrForbidden
	}
	subject := normalization.ParseInputString(input.Subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	semester := input.Semester
	if semester == 0 {
		semester = types.DefaultSemester
	}

	type storedFile struct {
		name string
		key  string
		url  string
		size int64
	}
	stored := make([]storedFile, 0, len(input.Files))
	for _, f := range input.Files {
		if err := validateUploadType(f.Name); err != nil {
			asv.log.Warn("skipping unsupported assignment file", "file", f.Name)
			continue
		}
		key := buildStorageKey(subject, f.Name, time.Now())
		if err := asv.bucket.UploadFile(ctx, key, f.Content); err != nil {
			return nil, fmt.Errorf("failed to upload assignment file %q: %w", f.Name, err)
		}
		stored = append(stored, storedFile{
			name: f.Name,
			key:  key,
			url:  asv.bucket.GetPublicURL(key),
			size: f.Size,
		})
	}
	if len(stored) == 0 {
		return nil, ErrUnsupportedFileType
	}

	assignment := &types.Assignment{
		ID:         uuid.New(),
		Subject:    subject,
		Semester:   semester,
		Title:      title,
		DueDate:    input.DueDate,
		FileName:   stored[0].name,
		FileURL:    stored[0].url,
		StorageKey: stored[0].key,
		UploadedBy: rd.UserID,
	}
	if d := strings.TrimSpace(input.Description); d != "" {
		assignment.Description = &d
	}

	fileRows := make([]*types.AssignmentFile, 0, len(stored))
	for _, sf := range stored {
		fileRows = append(fileRows, &types.AssignmentFile{
			ID:           uuid.New(),
			AssignmentID: assignment.ID,
			FileName:     sf.name,
			FileURL:      sf.url,
			StorageKey:   sf.key,
			SizeBytes:    sf.size,
		})
	}

	err := asv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := asv.assignmentRepo.Create(ctx, tx, []*types.Assignment{assignment}); cErr != nil {
			return fmt.Errorf("failed to create assignment: %w", cErr)
		}
		if _, fErr := asv.assignmentFileRepo.Create(ctx, tx, fileRows); fErr != nil {
			return fmt.Errorf("failed to create assignment files: %w", fErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if aErr := asv.activities.Record(ctx, nil, &types.Activity{
		UserID:       rd.UserID,
		ActivityType: types.ActivityAssignmentUpload,
		Subject:      subject,
		Title:        fmt.Sprintf("Assignment posted: %s", title),
		Data: activityData(map[string]any{
			"assignment_id": assignment.ID,
			"file_url":      assignment.FileURL,
		}),
	}); aErr != nil {
		asv.log.Warn("failed to record assignment activity", "error", aErr)
	}

	asv.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelAssignments,
		Event:   realtime.SSEEventAssignmentCreated,
		Data:    map[string]any{"id": assignment.ID, "subject": subject, "semester": semester},
	})
	return &AssignmentWithFiles{Assignment: assignment, Files: fileRows}, nil
}

func (asv *assignmentService) List(ctx context.Context, semester int, subject string) ([]*AssignmentWithFiles, error) {
	if semester == 0 {
		semester = types.DefaultSemester
	}
	assignments, err := asv.assignmentRepo.ListBySemester(ctx, nil, semester, normalization.ParseInputString(subject))
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	if len(assignments) == 0 {
		return []*AssignmentWithFiles{}, nil
	}
	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	files, fErr := asv.assignmentFileRepo.ListByAssignmentIDs(ctx, nil, ids)
	if fErr != nil {
		return nil, fmt.Errorf("failed to list assignment files: %w", fErr)
	}
	byAssignment := make(map[uuid.UUID][]*types.AssignmentFile, len(assignments))
	for _, f := range files {
		byAssignment[f.AssignmentID] = append(byAssignment[f.AssignmentID], f)
	}
	result := make([]*AssignmentWithFiles, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, &AssignmentWithFiles{Assignment: a, Files: byAssignment[a.ID]})
	}
	return result, nil
}

// Delete removes the assignment with its file and submission rows, then
// deletes the binaries best effort.
func (asv *assignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return ErrForbidden
	}
	found, err := asv.assignmentRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to fetch assignment: %w", err)
	}
	if len(found) == 0 {
		return ErrNotFound
	}
	if err := asv.deleteAssignments(ctx, found); err != nil {
		return err
	}
	asv.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelAssignments,
		Event:   realtime.SSEEventAssignmentDeleted,
		Data:    map[string]any{"id": id},
	})
	return nil
}

// DeleteExpired removes every assignment whose due date has passed. It is
// called from the maintenance endpoint and can run on a schedule.
func (asv *assignmentService) DeleteExpired(ctx context.Context) (int, error) {
	expired, err := asv.assignmentRepo.ListExpired(ctx, nil, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired assignments: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}
	if err := asv.deleteAssignments(ctx, expired); err != nil {
		return 0, err
	}
	asv.log.Info("deleted expired assignments", "count", len(expired))
	return len(expired), nil
}

func (asv *assignmentService) deleteAssignments(ctx context.Context, assignments []*types.Assignment) error {
	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}

	files, fErr := asv.assignmentFileRepo.ListByAssignmentIDs(ctx, nil, ids)
	if fErr != nil {
		return fmt.Errorf("failed to list assignment files: %w", fErr)
	}

	err := asv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := asv.submissionRepo.DeleteByAssignmentIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete submissions: %w", err)
		}
		if err := asv.assignmentFileRepo.DeleteByAssignmentIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete assignment files: %w", err)
		}
		if err := asv.assignmentRepo.DeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if f.StorageKey == "" {
			continue
		}
		if dErr := asv.bucket.DeleteFile(ctx, f.StorageKey); dErr != nil {
			asv.log.Warn("failed to delete assignment object", "key", f.StorageKey, "error", dErr)
		}
	}
	return nil
}
