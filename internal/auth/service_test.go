package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/internal/users"
	pkgAuth "github.com/hangrmap/hangrmap-backend/pkg/auth"
	"github.com/hangrmap/hangrmap-backend/pkg/auth/session"
	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/security"
)

// Low-cost parameters keep hashing fast in tests.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "hangrmap-test",
		ExpirationMinutes: 15,
	}
}

type stubUserRepo struct {
	user       *models.User
	lastLogins []uuid.UUID
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins = append(s.lastLogins, id)
	return nil
}

type stubSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		Email:        "owner@acmehangers.com",
		PasswordHash: hash,
		Name:         "Owner",
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
}

func newAuthService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	return svc
}

func TestService_LoginIssuesTokenPair(t *testing.T) {
	user := testUser(t, "hunter2hunter2")
	repo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{}
	svc := newAuthService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Owner@AcmeHangers.com ",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.CompanyID != user.CompanyID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role in claims, got %s", claims.Role)
	}
	if len(sessions.generated) != 1 || claims.ID != sessions.generated[0] {
		t.Fatalf("expected refresh session keyed by token jti")
	}
	if !strings.HasPrefix(resp.RefreshToken, "refresh-") {
		t.Fatalf("expected refresh token returned, got %q", resp.RefreshToken)
	}
	if len(repo.lastLogins) != 1 {
		t.Fatalf("expected last login recorded")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user dto on response")
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	user := testUser(t, "correct-password")
	svc := newAuthService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	cases := []LoginRequest{
		{Email: user.Email, Password: "wrong-password"},
		{Email: "unknown@acmehangers.com", Password: "correct-password"},
		{Email: "", Password: "correct-password"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %+v, got %v", req, err)
		}
		if appErr.Message() != invalidCredentialsMessage {
			t.Fatalf("expected generic credential message, got %q", appErr.Message())
		}
	}
}

func TestService_LoginRejectsInactiveUser(t *testing.T) {
	user := testUser(t, "hunter2hunter2")
	user.IsActive = false
	svc := newAuthService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "hunter2hunter2"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for inactive user, got %v", err)
	}
}

func TestService_RefreshRotatesPair(t *testing.T) {
	user := testUser(t, "hunter2hunter2")
	sessions := &stubSessionManager{}
	svc := newAuthService(t, &stubUserRepo{user: user}, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == login.AccessToken {
		t.Fatalf("expected a new access token")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.UserID != user.ID || claims.CompanyID != user.CompanyID {
		t.Fatalf("expected identity carried across rotation")
	}
}

func TestService_RefreshInvalidToken(t *testing.T) {
	user := testUser(t, "hunter2hunter2")
	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthService(t, &stubUserRepo{user: user}, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "stolen",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: "garbage", RefreshToken: "x"})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad access token, got %v", err)
	}
}

func TestService_Logout(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newAuthService(t, &stubUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id" {
		t.Fatalf("expected session revoked")
	}

	err := svc.Logout(context.Background(), "  ")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank access id, got %v", err)
	}
}

type stubInviteRepo struct {
	existing *models.User
	created  []users.CreateUserDTO
}

func (s *stubInviteRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.existing == nil || s.existing.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.existing, nil
}

func (s *stubInviteRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	return &models.User{
		ID:           uuid.New(),
		CompanyID:    dto.CompanyID,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Name:         dto.Name,
		Role:         dto.Role,
		IsActive:     true,
	}, nil
}

func TestInviteService_CreatesCrewUser(t *testing.T) {
	repo := &stubInviteRepo{}
	svc, err := NewInviteService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	companyID := uuid.New()
	resp, err := svc.Invite(context.Background(), companyID, InviteRequest{
		Email: " Crew@AcmeHangers.com ",
		Name:  "Crew Member",
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one user created")
	}
	created := repo.created[0]
	if created.Email != "crew@acmehangers.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Role != enums.UserRoleCrew {
		t.Fatalf("expected crew role, got %s", created.Role)
	}
	if created.CompanyID != companyID {
		t.Fatalf("expected invite scoped to caller's company")
	}

	if len(resp.TempPassword) != 16 {
		t.Fatalf("expected 16 char temp password, got %d", len(resp.TempPassword))
	}
	ok, err := security.VerifyPassword(resp.TempPassword, created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected temp password to match stored hash (ok=%v err=%v)", ok, err)
	}
}

func TestInviteService_DuplicateEmail(t *testing.T) {
	repo := &stubInviteRepo{existing: &models.User{Email: "crew@acmehangers.com"}}
	svc, err := NewInviteService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	_, err = svc.Invite(context.Background(), uuid.New(), InviteRequest{
		Email: "crew@acmehangers.com",
		Name:  "Duplicate",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type stubRegisterTx struct {
	calls int
}

func (s *stubRegisterTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return nil
}

func TestRegisterService_Validation(t *testing.T) {
	tx := &stubRegisterTx{}
	svc, err := NewRegisterService(RegisterServiceParams{DB: tx, PasswordConfig: testPasswordConfig()})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	err = svc.Register(context.Background(), RegisterRequest{
		Name: "Owner", Email: "  ", Password: "hunter2hunter2", CompanyName: "Acme", AcceptTOS: true,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank email, got %v", err)
	}

	err = svc.Register(context.Background(), RegisterRequest{
		Name: "Owner", Email: "owner@acme.com", Password: "hunter2hunter2", CompanyName: "Acme",
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without accepted tos, got %v", err)
	}
	if tx.calls != 0 {
		t.Fatalf("expected no transaction on validation failure")
	}

	err = svc.Register(context.Background(), RegisterRequest{
		Name: "Owner", Email: "owner@acme.com", Password: "hunter2hunter2", CompanyName: "Acme", AcceptTOS: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected onboarding to run in a transaction")
	}
}
