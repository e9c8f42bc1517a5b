package campaigns

import (
	"context"
	"fmt"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles campaign persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to campaign operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new campaign.
func (r *Repository) Create(ctx context.Context, dto CreateCampaignDTO) (*models.Campaign, error) {
	campaign := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

// FindVisible loads one campaign the principal's access result permits.
func (r *Repository) FindVisible(ctx context.Context, res *access.Result, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Scopes(res.Scope(&models.Campaign{})).
		Where("id = ?", id).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListVisible returns the campaigns the principal's access result permits,
// newest first.
func (r *Repository) ListVisible(ctx context.Context, res *access.Result) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Scopes(res.Scope(&models.Campaign{})).
		Order("created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Update saves the provided campaign.
func (r *Repository) Update(ctx context.Context, campaign *models.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	return r.db.WithContext(ctx).Save(campaign).Error
}

// AssignRoster points the campaign at a roster profile, or clears the
// assignment when rosterID is nil.
func (r *Repository) AssignRoster(ctx context.Context, teamID, campaignID uuid.UUID, rosterID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND team_id = ?", campaignID, teamID).
		UpdateColumn("assigned_roster_id", rosterID).Error
}
