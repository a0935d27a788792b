package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/normalization"
	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
	"github.com/classbridge/classbridge-backend/internal/types"
)

const minPasswordLength = 6

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type SignUpInput struct {
	Email           string
	Password        string
	FullName        string
	Role            string
	USNOrEmployeeID string
	Subject         string
	Designation     string
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*types.Profile, error)
	SignIn(ctx context.Context, email, password, role string) (string, string, *types.Profile, error)
	RefreshSession(ctx context.Context) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	profileRepo   repos.ProfileRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	profileRepo repos.ProfileRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		profileRepo:   profileRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// SignUp creates the identity row and exactly one profile in a single
// transaction. The role decides which profile columns are required.
func (as *authService) SignUp(ctx context.Context, input SignUpInput) (*types.Profile, error) {
	email := normalization.ParseInputString(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredential
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakCredential
	}
	if input.Role != types.RoleStudent && input.Role != types.RoleFaculty {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	idNumber := strings.TrimSpace(input.USNOrEmployeeID)
	if idNumber == "" {
		return nil, fmt.Errorf("usn or employee id is required")
	}
	if input.Role == types.RoleFaculty && strings.TrimSpace(input.Subject) == "" {
		return nil, fmt.Errorf("subject is required for faculty accounts")
	}

	exists, exErr := as.userRepo.EmailExists(ctx, nil, email)
	if exErr != nil {
		return nil, fmt.Errorf("failed to check email: %w", exErr)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hashed, hErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if hErr != nil {
		return nil, fmt.Errorf("failed to hash password: %w", hErr)
	}

	profile := &types.Profile{
		ID:              uuid.New(),
		Email:           email,
		FullName:        fullName,
		Role:            input.Role,
		USNOrEmployeeID: idNumber,
	}
	if input.Role == types.RoleFaculty {
		subject := strings.TrimSpace(input.Subject)
		profile.Subject = &subject
		if d := strings.TrimSpace(input.Designation); d != "" {
			profile.Designation = &d
		}
	}

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &types.User{
			ID:       uuid.New(),
			Email:    email,
			Password: string(hashed),
		}
		if _, ucErr := as.userRepo.Create(ctx, tx, []*types.User{user}); ucErr != nil {
			return fmt.Errorf("failed to create user: %w", ucErr)
		}
		profile.UserID = user.ID
		if _, pcErr := as.profileRepo.Create(ctx, tx, []*types.Profile{profile}); pcErr != nil {
			return fmt.Errorf("failed to create profile: %w", pcErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("registered account", "user_id", profile.UserID, "role", profile.Role)
	return profile, nil
}

// SignIn verifies credentials and the requested role, then issues a fresh
// token pair. Credential failures and unknown emails return the same error.
func (as *authService) SignIn(ctx context.Context, email, password, role string) (string, string, *types.Profile, error) {
	email = normalization.ParseInputString(email)
	if email == "" || password == "" {
		return "", "", nil, ErrInvalidCredential
	}

	users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if usErr != nil {
		return "", "", nil, fmt.Errorf("failed to fetch user by email: %w", usErr)
	}
	if len(users) == 0 {
		return "", "", nil, ErrInvalidCredential
	}
	user := users[0]
	if cErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cErr != nil {
		return "", "", nil, ErrInvalidCredential
	}

	profiles, pErr := as.profileRepo.GetByUserIDs(ctx, nil, []uuid.UUID{user.ID})
	if pErr != nil {
		return "", "", nil, fmt.Errorf("failed to fetch profile: %w", pErr)
	}
	if len(profiles) == 0 {
		return "", "", nil, ErrProfileMissing
	}
	profile := profiles[0]
	if role != "" && profile.Role != role {
		return "", "", nil, ErrRoleMismatch
	}

	var accessToken string
	var refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if ftErr != nil {
			return fmt.Errorf("failed to check user tokens: %w", ftErr)
		}
		expired := make([]uuid.UUID, 0, len(stale))
		for _, t := range stale {
			if t.ExpiresAt.Before(time.Now()) {
				expired = append(expired, t.ID)
			}
		}
		if len(expired) > 0 {
			if dtErr := as.userTokenRepo.DeleteByIDs(ctx, tx, expired); dtErr != nil {
				return fmt.Errorf("failed to delete expired tokens: %w", dtErr)
			}
		}

		tok, genErr := as.generateAccessToken(user.ID, profile.Role)
		if genErr != nil {
			return fmt.Errorf("failed to generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
			return fmt.Errorf("failed to create user token: %w", ctErr)
		}
		return nil
	}); err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, profile, nil
}

// RefreshSession rotates the token pair identified by the refresh token in
// the request context. The old pair is invalidated in the same transaction.
func (as *authService) RefreshSession(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", ErrInvalidSession
	}

	var accessToken string
	var newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if ftErr != nil {
			return fmt.Errorf("failed to fetch refresh token: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return ErrInvalidSession
		}
		existing := foundTokens[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if dtErr := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dtErr != nil {
				return fmt.Errorf("failed to delete expired token: %w", dtErr)
			}
			return ErrInvalidSession
		}

		profiles, pErr := as.profileRepo.GetByUserIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if pErr != nil {
			return fmt.Errorf("failed to fetch profile for refresh: %w", pErr)
		}
		if len(profiles) == 0 {
			return ErrProfileMissing
		}

		tok, genErr := as.generateAccessToken(existing.UserID, profiles[0].Role)
		if genErr != nil {
			return fmt.Errorf("failed to generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		newUserToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       existing.UserID,
			AccessToken:  tok,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newUserToken}); cErr != nil {
			return fmt.Errorf("failed to create user token: %w", cErr)
		}
		if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dErr != nil {
			return fmt.Errorf("failed to remove old token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return ErrInvalidSession
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if ftErr != nil {
			return fmt.Errorf("failed to fetch user token: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(foundTokens))
		for _, t := range foundTokens {
			ids = append(ids, t.ID)
		}
		if tdErr := as.userTokenRepo.DeleteByIDs(ctx, tx, ids); tdErr != nil {
			return fmt.Errorf("failed to delete user token: %w", tdErr)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(userID uuid.UUID, role string) (string, error) {
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the access token and loads the caller's
// identity and role into the request context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrInvalidSession
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	var refreshTokenStr string
	foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if ftErr != nil {
		as.log.Warn("failed to fetch user token by access token", "error", ftErr)
		return ctx, fmt.Errorf("failed to fetch user token: %w", ftErr)
	}
	if len(foundTokens) > 0 {
		refreshTokenStr = foundTokens[0].RefreshToken
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshTokenStr,
		UserID:       userID,
		Role:         claims.Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
