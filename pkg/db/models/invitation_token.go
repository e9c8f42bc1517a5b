package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/creatorstack/creatorstack-backend/pkg/db/types"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// InvitationToken persists a single-use team invitation.
//
// Only the SHA-256 digest of the token is stored; the plaintext travels in the
// invite link and is never persisted. Consumed and expired rows are kept for
// audit, never hard-deleted.
type InvitationToken struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TokenDigest     string               `gorm:"column:token_digest;type:text;not null;uniqueIndex"`
	TeamID          uuid.UUID            `gorm:"column:team_id;type:uuid;not null;index"`
	InvitedEmail    string               `gorm:"column:invited_email;type:text;not null;index"`
	InvitedByUserID uuid.UUID            `gorm:"column:invited_by_user_id;type:uuid;not null"`
	InvitationType  enums.InvitationType `gorm:"column:invitation_type;type:invitation_type;not null"`
	Context         dbtypes.JSONMap      `gorm:"column:invitation_context;type:jsonb;not null"`
	ExpiresAt       time.Time            `gorm:"column:expires_at;not null"`
	AcceptedAt      *time.Time           `gorm:"column:accepted_at"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// IsValid reports whether the invitation can still be accepted at the instant.
func (i *InvitationToken) IsValid(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
