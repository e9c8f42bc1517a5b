package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	pkgAuth "github.com/creatorstack/creatorstack-backend/pkg/auth"
	"github.com/creatorstack/creatorstack-backend/pkg/auth/session"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// sessionIssuer logs a user in immediately after they accept an invitation,
// scoped to the team they just joined.
type sessionIssuer struct {
	session sessionManager
	jwtCfg  config.JWTConfig
}

// NewSessionIssuer builds the post-acceptance session issuer.
func NewSessionIssuer(manager sessionManager, jwtCfg config.JWTConfig) (invitations.SessionIssuer, error) {
	if manager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &sessionIssuer{session: manager, jwtCfg: jwtCfg}, nil
}

func (i *sessionIssuer) Establish(ctx context.Context, user *models.User, teamID uuid.UUID, role enums.RoleLevel) (*invitations.SessionTokens, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(i.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:       user.ID,
		ActiveTeamID: &teamID,
		Role:         role,
		Scope:        enums.ScopeTypeTeam,
		JTI:          accessID,
	})
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}
	refreshToken, err := i.session.Generate(ctx, accessID)
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &invitations.SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
