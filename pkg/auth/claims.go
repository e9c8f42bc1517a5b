package auth

import (
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	ActiveTeamID *uuid.UUID
	Role         enums.RoleLevel
	Scope        enums.ScopeType
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID       uuid.UUID       `json:"user_id"`
	ActiveTeamID *uuid.UUID      `json:"active_team_id,omitempty"`
	Role         enums.RoleLevel `json:"role"`
	Scope        enums.ScopeType `json:"scope"`
	jwt.RegisteredClaims
}
