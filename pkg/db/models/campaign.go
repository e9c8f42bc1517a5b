package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// Campaign is a team-owned influencer campaign, optionally assigned to one
// roster profile.
type Campaign struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID           uuid.UUID            `gorm:"column:team_id;type:uuid;not null;index"`
	Name             string               `gorm:"column:name;not null"`
	Description      *string              `gorm:"column:description"`
	Status           enums.CampaignStatus `gorm:"column:status;type:campaign_status;not null;default:'draft'"`
	AssignedRosterID *uuid.UUID           `gorm:"column:assigned_roster_id;type:uuid;index"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
