package auth

import (
	"context"
	"errors"
	"time"

	pkgAuth "github.com/creatorstack/creatorstack-backend/pkg/auth"
	"github.com/creatorstack/creatorstack-backend/pkg/auth/session"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SwitchTeamInput captures the data required to switch the active team.
type SwitchTeamInput struct {
	UserID        uuid.UUID
	TeamID        uuid.UUID
	AccessTokenID string
}

// SwitchTeamResult returns the tokens issued after switching teams.
type SwitchTeamResult struct {
	AccessToken  string
	RefreshToken string
	Team         TeamSummary
}

type switchRolesRepository interface {
	Get(ctx context.Context, userID, teamID uuid.UUID) (*models.Role, error)
}

type switchTeamsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

type switchSessionRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	RefreshToken(ctx context.Context, accessID string) (string, error)
}

// SwitchTeamServiceParams bundles dependencies for the switch flow.
type SwitchTeamServiceParams struct {
	RolesRepo      switchRolesRepository
	TeamsRepo      switchTeamsRepository
	SessionManager switchSessionRotator
	JWTConfig      config.JWTConfig
}

type switchTeamService struct {
	roles   switchRolesRepository
	teams   switchTeamsRepository
	session switchSessionRotator
	jwtCfg  config.JWTConfig
}

// SwitchTeamService is the interface exposed to the controller.
type SwitchTeamService interface {
	Switch(ctx context.Context, input SwitchTeamInput) (*SwitchTeamResult, error)
}

// NewSwitchTeamService constructs the service.
func NewSwitchTeamService(params SwitchTeamServiceParams) (SwitchTeamService, error) {
	if params.RolesRepo == nil {
		return nil, errors.New("roles repository required")
	}
	if params.TeamsRepo == nil {
		return nil, errors.New("teams repository required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager required")
	}
	return &switchTeamService{
		roles:   params.RolesRepo,
		teams:   params.TeamsRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

func (s *switchTeamService) Switch(ctx context.Context, input SwitchTeamInput) (*SwitchTeamResult, error) {
	role, err := s.roles.Get(ctx, input.UserID, input.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "team membership required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup role")
	}

	team, err := s.teams.FindByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup team")
	}

	refreshToken, err := s.session.RefreshToken(ctx, input.AccessTokenID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refresh token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, input.AccessTokenID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	payload := pkgAuth.AccessTokenPayload{
		UserID:       input.UserID,
		ActiveTeamID: &input.TeamID,
		Role:         role.RoleLevel,
		Scope:        enums.ScopeTypeTeam,
		JTI:          newAccessID,
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &SwitchTeamResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Team: TeamSummary{
			ID:   team.ID,
			Name: team.Name,
			Role: role.RoleLevel,
		},
	}, nil
}
