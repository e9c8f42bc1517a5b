package teams

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
)

// TeamDTO exposes safe tenant data in API responses.
type TeamDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTeamDTO holds creation-time data for a new team.
type CreateTeamDTO struct {
	Name        string
	Description *string
}

// FromModel maps the persisted team into a DTO.
func FromModel(m *models.Team) *TeamDTO {
	if m == nil {
		return nil
	}

	return &TeamDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO.
func (c CreateTeamDTO) ToModel() *models.Team {
	return &models.Team{
		Name:        c.Name,
		Description: c.Description,
	}
}
