package roles

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// RoleDTO is the transport shape for a raw role record.
type RoleDTO struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	UserID    uuid.UUID       `json:"user_id"`
	RoleLevel enums.RoleLevel `json:"role_level"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RoleWithTeam includes basic team metadata + role info.
type RoleWithTeam struct {
	RoleID    uuid.UUID       `json:"role_id"`
	TeamID    uuid.UUID       `json:"team_id"`
	UserID    uuid.UUID       `json:"user_id"`
	TeamName  string          `json:"team_name"`
	RoleLevel enums.RoleLevel `json:"role_level"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TeamUserDTO mixes role metadata with the associated user profile for team admins.
type TeamUserDTO struct {
	RoleID      uuid.UUID       `json:"role_id"`
	TeamID      uuid.UUID       `json:"team_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	RoleLevel   enums.RoleLevel `json:"role_level"`
	CreatedAt   time.Time       `json:"created_at"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.Role) *RoleDTO {
	if m == nil {
		return nil
	}

	return &RoleDTO{
		ID:        m.ID,
		TeamID:    m.TeamID,
		UserID:    m.UserID,
		RoleLevel: m.RoleLevel,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
