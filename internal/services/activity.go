package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/types"
)

// activityData packs the structured extras of a feed entry into its jsonb
// column. A payload that fails to marshal is dropped, not fatal.
func activityData(v map[string]any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

type ActivityService interface {
	Record(ctx context.Context, tx *gorm.DB, activity *types.Activity) error
	FeedForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Activity, error)
	FeedForSubject(ctx context.Context, subject string, limit int) ([]*types.Activity, error)
	RecentFeed(ctx context.Context, limit int) ([]*types.Activity, error)
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo repos.ActivityRepo
	notifier     ChangeNotifier
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	activityRepo repos.ActivityRepo,
	notifier ChangeNotifier,
) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	return &activityService{
		db:           db,
		log:          serviceLog,
		activityRepo: activityRepo,
		notifier:     notifier,
	}
}

// Record appends one entry to the feed. Entries are immutable once written.
func (acs *activityService) Record(ctx context.Context, tx *gorm.DB, activity *types.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if _, err := acs.activityRepo.Create(ctx, tx, []*types.Activity{activity}); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	acs.notifier.Notify(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelActivities,
		Event:   realtime.SSEEventActivityCreated,
		Data: map[string]any{
			"id":            activity.ID,
			"user_id":       activity.UserID,
			"activity_type": activity.ActivityType,
			"subject":       activity.Subject,
			"title":         activity.Title,
		},
	})
	return nil
}

func (acs *activityService) FeedForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	return acs.activityRepo.ListByUserID(ctx, nil, userID, limit)
}

func (acs *activityService) FeedForSubject(ctx context.Context, subject string, limit int) ([]*types.Activity, error) {
	return acs.activityRepo.ListBySubject(ctx, nil, subject, limit)
}

func (acs *activityService) RecentFeed(ctx context.Context, limit int) ([]*types.Activity, error) {
	return acs.activityRepo.ListRecent(ctx, nil, limit)
}
