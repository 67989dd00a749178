package auth

import (
	"context"
	"io"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/catering-backend/pkg/auth"
	"github.com/angelmondragon/catering-backend/pkg/config"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/angelmondragon/catering-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	testJWTConfig = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "catering",
		ExpirationMinutes: 30,
	}
	testPasswordConfig = config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
)

func TestServiceLoginIssuesAdminToken(t *testing.T) {
	password := "admin-secret-1"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: mustHashPassword(t, password, testPasswordConfig),
	}

	svc, repo, sessions := buildTestService(t, user)
	resp, err := svc.Login(context.Background(), LoginRequest{Username: " admin ", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != pkgAuth.RoleAdmin || claims.Username != "admin" || claims.UserID != user.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token from session manager, got %q", resp.RefreshToken)
	}
	if sessions.accessID != claims.ID {
		t.Fatalf("expected refresh session bound to jti %s, got %s", claims.ID, sessions.accessID)
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
	if repo.rehashed != "" {
		t.Fatalf("did not expect a rehash for current parameters")
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: mustHashPassword(t, "admin-secret-1", testPasswordConfig),
	}
	svc, _, _ := buildTestService(t, user)

	cases := []LoginRequest{
		{Username: "admin", Password: "wrong-password"},
		{Username: "someone", Password: "admin-secret-1"},
		{Username: "", Password: "admin-secret-1"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %q, got %v", req.Username, err)
		}
	}
}

func TestServiceLoginUpgradesOutdatedHash(t *testing.T) {
	password := "admin-secret-1"
	outdated := testPasswordConfig
	outdated.ArgonTime = 2
	user := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: mustHashPassword(t, password, outdated),
	}

	svc, repo, _ := buildTestService(t, user)
	if _, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: password}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if repo.rehashed == "" {
		t.Fatal("expected password hash to be upgraded")
	}
	if security.NeedsRehash(repo.rehashed, testPasswordConfig) {
		t.Fatal("upgraded hash should match configured parameters")
	}
	ok, err := security.VerifyPassword(password, repo.rehashed)
	if err != nil || !ok {
		t.Fatalf("upgraded hash must verify: ok=%v err=%v", ok, err)
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
		Logger:         logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func mustHashPassword(t *testing.T, password string, cfg config.PasswordConfig) string {
	t.Helper()
	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user     *models.User
	rehashed string
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.rehashed = hash
	return nil
}

type stubSessionManager struct {
	refreshToken string
	accessID     string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.accessID = accessID
	return s.refreshToken, nil
}
