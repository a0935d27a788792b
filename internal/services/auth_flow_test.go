package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/repos/testutil"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/types"
)

func newTestAuthService(t *testing.T) (AuthService, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	userTokenRepo := repos.NewUserTokenRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)

	svc := NewAuthService(tx, log, userRepo, userTokenRepo, profileRepo, "test-secret", time.Hour, 24*time.Hour)
	return svc, context.Background()
}

func TestSignUpValidation(t *testing.T) {
	svc, ctx := newTestAuthService(t)

	if _, err := svc.SignUp(ctx, SignUpInput{
		Email:           "weak@example.com",
		Password:        "short",
		FullName:        "Weak Pass",
		Role:            types.RoleStudent,
		USNOrEmployeeID: "1XX21CS001",
	}); !errors.Is(err, ErrWeakCredential) {
		t.Fatalf("short password: want ErrWeakCredential, got %v", err)
	}

	if _, err := svc.SignUp(ctx, SignUpInput{
		Email:           "not-an-email",
		Password:        "secret123",
		FullName:        "Bad Email",
		Role:            types.RoleStudent,
		USNOrEmployeeID: "1XX21CS001",
	}); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("bad email: want ErrInvalidCredential, got %v", err)
	}

	if _, err := svc.SignUp(ctx, SignUpInput{
		Email:           "nosubject@example.com",
		Password:        "secret123",
		FullName:        "Faculty NoSubject",
		Role:            types.RoleFaculty,
		USNOrEmployeeID: "EMP001",
	}); err == nil {
		t.Fatalf("faculty without subject should be rejected")
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, ctx := newTestAuthService(t)

	profile, err := svc.SignUp(ctx, SignUpInput{
		Email:           "Auth.Flow@Example.com",
		Password:        "secret123",
		FullName:        "Auth Flow",
		Role:            types.RoleStudent,
		USNOrEmployeeID: "1XX21CS099",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if profile.Email != "auth.flow@example.com" {
		t.Fatalf("email should be normalized, got %q", profile.Email)
	}

	if _, err := svc.SignUp(ctx, SignUpInput{
		Email:           "auth.flow@example.com",
		Password:        "secret123",
		FullName:        "Auth Flow Again",
		Role:            types.RoleStudent,
		USNOrEmployeeID: "1XX21CS100",
	}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate email: want ErrDuplicateEmail, got %v", err)
	}

	if _, _, _, err := svc.SignIn(ctx, "auth.flow@example.com", "wrongpass", types.RoleStudent); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong password: want ErrInvalidCredential, got %v", err)
	}

	if _, _, _, err := svc.SignIn(ctx, "auth.flow@example.com", "secret123", types.RoleFaculty); !errors.Is(err, ErrRoleMismatch) {
		t.Fatalf("wrong role: want ErrRoleMismatch, got %v", err)
	}

	access, refresh, signedIn, err := svc.SignIn(ctx, "auth.flow@example.com", "secret123", types.RoleStudent)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("SignIn should return a token pair")
	}
	if signedIn.UserID != profile.UserID {
		t.Fatalf("SignIn returned wrong profile: %+v", signedIn)
	}

	loaded, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(loaded)
	if rd == nil || rd.UserID != profile.UserID {
		t.Fatalf("expected request data for %s, got %+v", profile.UserID, rd)
	}
	if rd.Role != types.RoleStudent {
		t.Fatalf("expected role to be loaded from token, got %q", rd.Role)
	}
}
