package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/types"
)

type ProfileUpdateInput struct {
	FullName        *string
	USNOrEmployeeID *string
	Subject         *string
	Designation     *string
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	Update(ctx context.Context, input ProfileUpdateInput) (*types.Profile, error)
	DeleteAccount(ctx context.Context) error
}

type profileService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	profileRepo   repos.ProfileRepo
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	profileRepo repos.ProfileRepo,
) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		profileRepo:   profileRepo,
	}
}

func (ps *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	profiles, err := ps.profileRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrProfileMissing
	}
	return profiles[0], nil
}

// Update writes only the caller's own profile. Role is not an updatable
// column; a role sent by the client is dropped before this point.
func (ps *profileService) Update(ctx context.Context, input ProfileUpdateInput) (*types.Profile, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}

	fields := map[string]interface{}{}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, fmt.Errorf("full name cannot be empty")
		}
		fields["full_name"] = name
	}
	if input.USNOrEmployeeID != nil {
		id := strings.TrimSpace(*input.USNOrEmployeeID)
		if id == "" {
			return nil, fmt.Errorf("usn or employee id cannot be empty")
		}
		fields["usn_or_employee_id"] = id
	}
	if input.Subject != nil {
		fields["subject"] = strings.TrimSpace(*input.Subject)
	}
	if input.Designation != nil {
		fields["designation"] = strings.TrimSpace(*input.Designation)
	}

	if len(fields) > 0 {
		if err := ps.profileRepo.UpdateFields(ctx, nil, rd.UserID, fields); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return ps.Get(ctx, rd.UserID)
}

// DeleteAccount removes the profile first, then the sessions and identity
// row. The profile delete is not rolled back when the identity delete fails;
// the caller gets a retryable error and a second attempt resumes at the
// identity step (deleting an already-absent profile is a no-op).
func (ps *profileService) DeleteAccount(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidSession
	}
	if err := ps.profileRepo.DeleteByUserIDs(ctx, nil, []uuid.UUID{rd.UserID}); err != nil {
		ps.log.Error("profile deletion failed", "user_id", rd.UserID, "error", err)
		return ErrAccountDeletion
	}
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{rd.UserID}); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		if err := ps.userRepo.DeleteByIDs(ctx, tx, []uuid.UUID{rd.UserID}); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		ps.log.Error("identity deletion failed, profile already removed", "user_id", rd.UserID, "error", err)
		return ErrAccountDeletion
	}
	ps.log.Info("account deleted", "user_id", rd.UserID)
	return nil
}
