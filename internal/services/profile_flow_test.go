package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/types"
)

func TestDeleteAccountRemovesIdentity(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := repos.NewUserRepo(tx, log)
	userTokenRepo := repos.NewUserTokenRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	profiles := NewProfileService(tx, log, userRepo, userTokenRepo, profileRepo)

	user := testutil.SeedUser(t, ctx, tx, "delete-me@example.com")
	testutil.SeedProfile(t, ctx, tx, user.ID, types.RoleStudent)
	token := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  "access",
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err := tx.WithContext(ctx).Create(token).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	userCtx := asUser(ctx, user.ID, types.RoleStudent)
	if err := profiles.DeleteAccount(userCtx); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := profiles.Get(ctx, user.ID); !errors.Is(err, ErrProfileMissing) {
		t.Fatalf("profile should be gone, got %v", err)
	}
	var userCount int64
	if err := tx.WithContext(ctx).Model(&types.User{}).Where("id = ?", user.ID).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 0 {
		t.Fatalf("identity row should be gone, found %d", userCount)
	}
	var tokenCount int64
	if err := tx.WithContext(ctx).Model(&types.UserToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if tokenCount != 0 {
		t.Fatalf("sessions should be gone, found %d", tokenCount)
	}
}

func TestDeleteAccountResumesAfterProfileRemoved(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := repos.NewUserRepo(tx, log)
	userTokenRepo := repos.NewUserTokenRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	profiles := NewProfileService(tx, log, userRepo, userTokenRepo, profileRepo)

	// An earlier attempt already committed the profile delete but failed on
	// the identity step; the retry starts with no profile row.
	user := testutil.SeedUser(t, ctx, tx, "retry-delete@example.com")

	userCtx := asUser(ctx, user.ID, types.RoleStudent)
	if err := profiles.DeleteAccount(userCtx); err != nil {
		t.Fatalf("DeleteAccount retry: %v", err)
	}

	var userCount int64
	if err := tx.WithContext(ctx).Model(&types.User{}).Where("id = ?", user.ID).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 0 {
		t.Fatalf("identity row should be gone after retry, found %d", userCount)
	}
}
