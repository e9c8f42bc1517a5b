package teams

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles team persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to team operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new team row.
func (r *Repository) Create(ctx context.Context, dto CreateTeamDTO) (*models.Team, error) {
	team := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// FindByID loads a team by its UUID. Soft-deleted teams are not returned.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Update saves the provided team.
func (r *Repository) Update(ctx context.Context, team *models.Team) error {
	if team == nil {
		return fmt.Errorf("team is required")
	}
	return r.db.WithContext(ctx).Save(team).Error
}

// SoftDelete stamps the team as deleted without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", at).Error
}
