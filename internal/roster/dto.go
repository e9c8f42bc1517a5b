package roster

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/types"
)

// ProfileDTO is the transport shape for a roster profile.
type ProfileDTO struct {
	ID           uuid.UUID    `json:"id"`
	TeamID       uuid.UUID    `json:"team_id"`
	Name         string       `json:"name"`
	Email        *string      `json:"email,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Social       types.Social `json:"social"`
	LinkedUserID *uuid.UUID   `json:"linked_user_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CreateProfileDTO holds creation-time data for a new roster profile.
type CreateProfileDTO struct {
	TeamID uuid.UUID
	Name   string
	Email  *string
	Phone  *string
	Social types.Social
}

// UpdateProfileDTO carries the mutable profile fields. Nil means unchanged.
type UpdateProfileDTO struct {
	Name   *string
	Email  *string
	Phone  *string
	Social *types.Social
}

// FromModel maps the persisted profile into a DTO.
func FromModel(m *models.RosterProfile) *ProfileDTO {
	if m == nil {
		return nil
	}

	return &ProfileDTO{
		ID:           m.ID,
		TeamID:       m.TeamID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Social:       m.Social,
		LinkedUserID: m.LinkedUserID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO.
func (c CreateProfileDTO) ToModel() *models.RosterProfile {
	return &models.RosterProfile{
		TeamID: c.TeamID,
		Name:   c.Name,
		Email:  c.Email,
		Phone:  c.Phone,
		Social: c.Social,
	}
}
