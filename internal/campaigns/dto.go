package campaigns

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// CampaignDTO is the transport shape for a campaign.
type CampaignDTO struct {
	ID               uuid.UUID            `json:"id"`
	TeamID           uuid.UUID            `json:"team_id"`
	Name             string               `json:"name"`
	Description      *string              `json:"description,omitempty"`
	Status           enums.CampaignStatus `json:"status"`
	AssignedRosterID *uuid.UUID           `json:"assigned_roster_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// CreateCampaignDTO holds creation-time data for a new campaign.
type CreateCampaignDTO struct {
	TeamID           uuid.UUID
	Name             string
	Description      *string
	Status           *enums.CampaignStatus
	AssignedRosterID *uuid.UUID
}

// FromModel maps the persisted campaign into a DTO.
func FromModel(m *models.Campaign) *CampaignDTO {
	if m == nil {
		return nil
	}

	return &CampaignDTO{
		ID:               m.ID,
		TeamID:           m.TeamID,
		Name:             m.Name,
		Description:      m.Description,
		Status:           m.Status,
		AssignedRosterID: m.AssignedRosterID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO.
func (c CreateCampaignDTO) ToModel() *models.Campaign {
	model := &models.Campaign{
		TeamID:           c.TeamID,
		Name:             c.Name,
		Description:      c.Description,
		Status:           enums.CampaignStatusDraft,
		AssignedRosterID: c.AssignedRosterID,
	}
	if c.Status != nil {
		model.Status = *c.Status
	}
	return model
}
