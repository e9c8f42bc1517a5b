package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/internal/roles"
	"github.com/creatorstack/creatorstack-backend/internal/teams"
	"github.com/creatorstack/creatorstack-backend/internal/users"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerTeamRepository interface {
	Create(ctx context.Context, dto teams.CreateTeamDTO) (*models.Team, error)
}

type registerRoleRepository interface {
	Upsert(ctx context.Context, userID, teamID uuid.UUID, level enums.RoleLevel) (*models.Role, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        invitations.TxRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	TeamRepoFactory func(tx *gorm.DB) registerTeamRepository
	RoleRepoFactory func(tx *gorm.DB) registerRoleRepository
	PasswordConfig  config.PasswordConfig
}

type registerService struct {
	tx          invitations.TxRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	teamRepo    func(tx *gorm.DB) registerTeamRepository
	roleRepo    func(tx *gorm.DB) registerRoleRepository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	userRepo := params.UserRepoFactory
	if userRepo == nil {
		userRepo = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	teamRepo := params.TeamRepoFactory
	if teamRepo == nil {
		teamRepo = func(tx *gorm.DB) registerTeamRepository { return teams.NewRepository(tx) }
	}
	roleRepo := params.RoleRepoFactory
	if roleRepo == nil {
		roleRepo = func(tx *gorm.DB) registerRoleRepository { return roles.NewRepository(tx) }
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		roleRepo:    roleRepo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	teamName := strings.TrimSpace(req.TeamName)
	if teamName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "team_name is required")
	}
	if !req.AcceptTOS {
		return pkgerrors.New(pkgerrors.CodeValidation, "accept_tos must be true")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		teamRepo := s.teamRepo(tx)
		roleRepo := s.roleRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			Name:         name,
			PasswordHash: &passwordHash,
			State:        enums.UserStateActive,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		team, err := teamRepo.Create(ctx, teams.CreateTeamDTO{
			Name:        teamName,
			Description: req.TeamDesc,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create team")
		}

		if _, err := roleRepo.Upsert(ctx, user.ID, team.ID, enums.RoleLevelOwner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create owner role")
		}

		return nil
	})
}
