package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/types"
)

// RosterProfile is a talent/influencer record managed by a team.
// LinkedUserID is set when the talent accepts a portal invitation.
type RosterProfile struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID       uuid.UUID    `gorm:"column:team_id;type:uuid;not null;index"`
	Name         string       `gorm:"column:name;not null"`
	Email        *string      `gorm:"column:email"`
	Phone        *string      `gorm:"column:phone"`
	Social       types.Social `gorm:"column:social;type:social_t"`
	LinkedUserID *uuid.UUID   `gorm:"column:linked_user_id;type:uuid;index"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDeleted reports whether the profile has been soft-deleted.
func (r *RosterProfile) IsDeleted() bool {
	return r.DeletedAt != nil
}
