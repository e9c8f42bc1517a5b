package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string          `gorm:"type:text;not null;uniqueIndex"`
	Name          string          `gorm:"column:name;not null"`
	EmailVerified bool            `gorm:"column:email_verified;not null;default:false"`
	State         enums.UserState `gorm:"column:state;type:user_state;not null;default:'needs_team'"`
	PasswordHash  *string         `gorm:"column:password_hash"`
	LastLoginAt   *time.Time      `gorm:"column:last_login_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
