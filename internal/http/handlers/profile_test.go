package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/services"
	"github.com/classbridge/classbridge-backend/internal/types"
)

func TestProfileUpdateDropsRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := repos.NewUserRepo(tx, log)
	userTokenRepo := repos.NewUserTokenRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	profileService := services.NewProfileService(tx, log, userRepo, userTokenRepo, profileRepo)
	handler := NewProfileHandler(profileService)

	user := testutil.SeedUser(t, ctx, tx, "role-drop@example.com")
	testutil.SeedProfile(t, ctx, tx, user.ID, types.RoleStudent)

	body := strings.NewReader(`{"full_name":"Renamed Student","role":"faculty"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/profile", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID: user.ID,
		Role:   types.RoleStudent,
	}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	handler.Update(c)

	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	stored, err := profileService.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if stored.FullName != "Renamed Student" {
		t.Fatalf("full name should be updated, got %q", stored.FullName)
	}
	if stored.Role != types.RoleStudent {
		t.Fatalf("role in the payload must be dropped, stored role is %q", stored.Role)
	}
}
