package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/types"
)

func TestProfileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProfileRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "profilerepo@example.com")

	created, err := repo.Create(ctx, tx, []*types.Profile{
		{
			ID:              uuid.New(),
			UserID:          user.ID,
			Email:           user.Email,
			FullName:        "Asha Rao",
			Role:            types.RoleStudent,
			USNOrEmployeeID: "1XX21CS042",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 profile, got %d", len(created))
	}

	got, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(got) != 1 || got[0].UserID != user.ID {
		t.Fatalf("GetByUserIDs: unexpected result: %+v", got)
	}

	if err := repo.UpdateFields(ctx, tx, user.ID, map[string]interface{}{
		"full_name": "Asha R",
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err = repo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if got[0].FullName != "Asha R" {
		t.Fatalf("UpdateFields: full_name not updated: %q", got[0].FullName)
	}
	if got[0].Role != types.RoleStudent {
		t.Fatalf("UpdateFields: role changed unexpectedly: %q", got[0].Role)
	}

	if err := repo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); err != nil {
		t.Fatalf("DeleteByUserIDs: %v", err)
	}
	got, err = repo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected profile to be deleted, got %d", len(got))
	}
}
