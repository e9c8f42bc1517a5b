package auth

import (
	"github.com/creatorstack/creatorstack-backend/internal/users"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/google/uuid"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TeamSummary describes the team metadata returned after login.
type TeamSummary struct {
	ID   uuid.UUID       `json:"id"`
	Name string          `json:"name"`
	Role enums.RoleLevel `json:"role"`
}

// LoginResponse contains the tokens, user, and team list produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Teams        []TeamSummary  `json:"teams"`
	User         *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload required for onboarding a new team.
type RegisterRequest struct {
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required"`
	TeamName  string  `json:"team_name" validate:"required"`
	TeamDesc  *string `json:"team_description,omitempty"`
	AcceptTOS bool    `json:"accept_tos"`
}
