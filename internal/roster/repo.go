package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles roster profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to roster operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new roster profile.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.RosterProfile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a profile scoped to a team. Soft-deleted rows are excluded.
func (r *Repository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*models.RosterProfile, error) {
	var profile models.RosterProfile
	err := r.db.WithContext(ctx).
		Where("id = ? AND team_id = ? AND deleted_at IS NULL", id, teamID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListForTeam returns the team's live profiles ordered by name.
func (r *Repository) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.RosterProfile, error) {
	var profiles []models.RosterProfile
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND deleted_at IS NULL", teamID).
		Order("name").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update saves the provided profile.
func (r *Repository) Update(ctx context.Context, profile *models.RosterProfile) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	return r.db.WithContext(ctx).Save(profile).Error
}

// SoftDelete stamps the profile as deleted without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, teamID, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.RosterProfile{}).
		Where("id = ? AND team_id = ? AND deleted_at IS NULL", id, teamID).
		UpdateColumn("deleted_at", at).Error
}

// PurgeDeletedBefore hard-deletes profiles soft-deleted before the cutoff.
func (r *Repository) PurgeDeletedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := tx.WithContext(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.RosterProfile{})
	return res.RowsAffected, res.Error
}
