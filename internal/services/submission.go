package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/types"
)

const maxMarks = 10

type SubmitInput struct {
	AssignmentID uuid.UUID
	File         UploadedFile
}

type GradeInput struct {
	SubmissionID uuid.UUID
	Marks        int
	Feedback     string
}

type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*types.Submission, error)
	Grade(ctx context.Context, input GradeInput) (*types.Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForStudent(ctx context.Context) ([]*types.Submission, error)
	ListForSubject(ctx context.Context, subject string, limit int) ([]*types.Submission, error)
}

type submissionService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	assignmentRepo repos.AssignmentRepo
	bucket         BucketService
	activities     ActivityService
	notifier       ChangeNotifier
}

func NewSubmissionService(
	db *gorm.DB,
	log *logger.Logger,
	submissionRepo repos.SubmissionRepo,
	assignmentRepo repos.AssignmentRepo,
	bucket BucketService,
	activities ActivityService,
	notifier ChangeNotifier,
) SubmissionService {
	serviceLog := log.With("service", "SubmissionService")
	return &submissionService{
		db:             db,
		log:            serviceLog,
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		bucket:         bucket,
		activities:     activities,
		notifier:       notifier,
	}
}

// Submit stores the answer file and creates the submission row. A student
// gets one submission per assignment; a second attempt is rejected before
// anything is uploaded.
func (sv *submissionService) Submit(ctx context.Context, input SubmitInput) (*types.Submission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	if rd.Role != types.RoleStudent {
		return nil, ErrForbidden
	}
	if err := validateUploadType(input.File.Name); err != nil {
		return nil, err
	}

	assignments, aErr := sv.assignmentRepo.GetByIDs(ctx, nil, []uuid.UUID{input.AssignmentID})
	if aErr != nil {
		return nil, fmt.Errorf("failed to fetch assignment: %w", aErr)
	}
	if len(assignments) == 0 {
		return nil, ErrNotFound
	}
	assignment := assignments[0]

	exists, eErr := sv.submissionRepo.ExistsForStudentAssignment(ctx, nil, rd.UserID, assignment.ID)
	if eErr != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", eErr)
	}
	if exists {
		return nil, ErrDuplicateSubmission
	}

	key := buildSubmissionKey(rd.UserID, assignment.Subject, input.File.Name, time.Now())
	if err := sv.bucket.UploadFile(ctx, key, input.File.Content); err != nil {
		return nil, fmt.Errorf("failed to upload submission: %w", err)
	}

	created, cErr := sv.submissionRepo.Create(ctx, nil, []*types.Submission{
		{
			ID:           uuid.New(),
			AssignmentID: assignment.ID,
			StudentID:    rd.UserID,
			Subject:      assignment.Subject,
			FileName:     input.File.Name,
			FileURL:      sv.bucket.GetPublicURL(key),
			StorageKey:   key,
			SubmittedAt:  time.Now().UTC(),
		},
	})
	if cErr != nil {
		return nil, fmt.Errorf("failed to create submission: %w", cErr)
	}
	submission := created[0]

	if aErr := sv.activities.Record(ctx, nil, &types.Activity{
		UserID:       rd.UserID,
		ActivityType: types.ActivityAssignmentSubmit,
		Subject:      assignment.Subject,
		Title:        fmt.Sprintf("Submitted: %s", assignment.Title),
		Data: activityData(map[string]any{
			"assignment_id": assignment.ID,
			"file_url":      submission.FileURL,
		}),
	}); aErr != nil {
		sv.log.Warn("failed to record submission activity", "error", aErr)
	}

	sv.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelSubmissions,
		Event:   realtime.SSEEventSubmissionCreated,
		Data: map[string]any{
			"id":            submission.ID,
			"assignment_id": assignment.ID,
			"student_id":    rd.UserID,
			"subject":       assignment.Subject,
		},
	})
	return submission, nil
}

// Grade records marks and feedback. Regrading is allowed and overwrites the
// previous result in full, so a regrade without feedback clears the old
// feedback; the feed entry lands on the student's feed either way.
func (sv *submissionService) Grade(ctx context.Context, input GradeInput) (*types.Submission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return nil, ErrForbidden
	}
	if input.Marks < 0 || input.Marks > maxMarks {
		return nil, ErrInvalidMarks
	}

	found, fErr := sv.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{input.SubmissionID})
	if fErr != nil {
		return nil, fmt.Errorf("failed to fetch submission: %w", fErr)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	submission := found[0]

	gradedAt := time.Now().UTC()
	feedback := strings.TrimSpace(input.Feedback)
	var feedbackVal *string
	if feedback != "" {
		feedbackVal = &feedback
	}
	fields := map[string]interface{}{
		"marks":     input.Marks,
		"feedback":  feedbackVal,
		"graded_by": rd.UserID,
		"graded_at": gradedAt,
	}
	if err := sv.submissionRepo.UpdateFields(ctx, nil, submission.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to grade submission: %w", err)
	}

	marks := input.Marks
	submission.Marks = &marks
	submission.Feedback = feedbackVal
	submission.GradedBy = &rd.UserID
	submission.GradedAt = &gradedAt

	assignmentTitle := submission.Subject
	if assignments, gaErr := sv.assignmentRepo.GetByIDs(ctx, nil, []uuid.UUID{submission.AssignmentID}); gaErr != nil {
		sv.log.Warn("failed to fetch assignment for grading activity", "error", gaErr)
	} else if len(assignments) > 0 {
		assignmentTitle = assignments[0].Title
	}
	description := fmt.Sprintf("Your submission for %s was graded: %d/%d", assignmentTitle, input.Marks, maxMarks)
	if aErr := sv.activities.Record(ctx, nil, &types.Activity{
		UserID:       submission.StudentID,
		ActivityType: types.ActivityAssignmentGraded,
		Subject:      submission.Subject,
		Title:        fmt.Sprintf("Assignment graded: %s", assignmentTitle),
		Description:  &description,
		Data: activityData(map[string]any{
			"submission_id": submission.ID,
			"marks":         input.Marks,
			"file_url":      submission.FileURL,
		}),
	}); aErr != nil {
		sv.log.Warn("failed to record grading activity", "error", aErr)
	}

	sv.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelSubmissions,
		Event:   realtime.SSEEventSubmissionGraded,
		Data: map[string]any{
			"id":         submission.ID,
			"student_id": submission.StudentID,
			"marks":      input.Marks,
		},
	})
	return submission, nil
}

// Delete lets a student withdraw their own submission while it is ungraded.
func (sv *submissionService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidSession
	}
	found, fErr := sv.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if fErr != nil {
		return fmt.Errorf("failed to fetch submission: %w", fErr)
	}
	if len(found) == 0 {
		return ErrNotFound
	}
	submission := found[0]
	if submission.StudentID != rd.UserID {
		return ErrForbidden
	}
	if submission.Marks != nil {
		return ErrAlreadyGraded
	}

	if err := sv.submissionRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if submission.StorageKey != "" {
		if dErr := sv.bucket.DeleteFile(ctx, submission.StorageKey); dErr != nil {
			sv.log.Warn("failed to delete submission object", "key", submission.StorageKey, "error", dErr)
		}
	}

	sv.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelSubmissions,
		Event:   realtime.SSEEventSubmissionDeleted,
		Data:    map[string]any{"id": id, "student_id": rd.UserID},
	})
	return nil
}

func (sv *submissionService) ListForStudent(ctx context.Context) ([]*types.Submission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	return sv.submissionRepo.ListByStudentIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

func (sv *submissionService) ListForSubject(ctx context.Context, subject string, limit int) ([]*types.Submission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	if rd.Role != types.RoleFaculty {
		return nil, ErrForbidden
	}
	return sv.submissionRepo.ListBySubject(ctx, nil, subject, limit)
}
