package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// Repository exposes media metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a media record.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindByID retrieves a media record scoped to the owning team.
func (r *Repository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	err := r.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", id, teamID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByGCSKey retrieves a media record by its object key.
func (r *Repository) FindByGCSKey(ctx context.Context, gcsKey string) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, "gcs_key = ?", gcsKey).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkUploaded flips a pending row to uploaded.
func (r *Repository) MarkUploaded(ctx context.Context, id uuid.UUID, uploadedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      enums.MediaStatusUploaded,
			"uploaded_at": uploadedAt,
		}).Error
}

// MarkDeleted tombstones the row. The object itself is removed separately.
func (r *Repository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Update("status", enums.MediaStatusDeleted).Error
}

// Delete removes a media record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{}).Error
}

// List returns media rows the access result permits, newest first, applying
// the query filters and keyset cursor.
func (r *Repository) List(ctx context.Context, res *access.Result, query listQuery) ([]models.Media, error) {
	db := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Scopes(res.Scope(&models.Media{})).
		Where("status <> ?", enums.MediaStatusDeleted)

	if query.campaignID != nil {
		db = db.Where("campaign_id = ?", *query.campaignID)
	}
	if query.kind != nil {
		db = db.Where("kind = ?", *query.kind)
	}
	if query.status != nil {
		db = db.Where("status = ?", *query.status)
	}
	if query.mimeType != "" {
		db = db.Where("mime_type = ?", query.mimeType)
	}
	if query.search != "" {
		db = db.Where("file_name LIKE ?", "%"+query.search+"%")
	}
	if query.cursor != nil {
		db = db.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.cursor.createdAt, query.cursor.createdAt, query.cursor.id,
		)
	}

	var rows []models.Media
	err := db.Order("created_at DESC, id DESC").
		Limit(query.limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingBefore returns rows whose upload never finalized, created before
// the cutoff. Failed uploads age out through the same sweep.
func (r *Repository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error) {
	var rows []models.Media
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?",
			[]enums.MediaStatus{enums.MediaStatusPending, enums.MediaStatusFailed}, cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteWithTx removes a media row inside an existing transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&models.Media{}).Error
}
