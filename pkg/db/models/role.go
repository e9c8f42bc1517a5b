package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// Role links a user with a team and captures their authorization level.
// At most one role exists per (user, team); re-acceptance overwrites the level.
type Role struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_roles_user_team"`
	TeamID    uuid.UUID       `gorm:"column:team_id;type:uuid;not null;uniqueIndex:ux_roles_user_team"`
	RoleLevel enums.RoleLevel `gorm:"column:role_level;type:role_level;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
