package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/internal/users"
	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/security"
)

// InviteService onboards crew members into an existing company.
type InviteService interface {
	Invite(ctx context.Context, companyID uuid.UUID, req InviteRequest) (*InviteResponse, error)
}

type inviteUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type inviteService struct {
	users       inviteUserRepository
	passwordCfg config.PasswordConfig
}

// NewInviteService builds an invite service with the provided user repo.
func NewInviteService(repo inviteUserRepository, passwordCfg config.PasswordConfig) (InviteService, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &inviteService{users: repo, passwordCfg: passwordCfg}, nil
}

// Invite creates a crew user with a temporary password. The temp credential
// is returned once and never stored in plaintext.
func (s *inviteService) Invite(ctx context.Context, companyID uuid.UUID, req InviteRequest) (*InviteResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	tempPassword, err := security.GenerateTempPassword(16)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         enums.UserRoleCrew,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return &InviteResponse{
		User:         users.FromModel(user),
		TempPassword: tempPassword,
	}, nil
}
