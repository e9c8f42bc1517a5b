package invitations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/creatorstack/creatorstack-backend/pkg/db"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	dbtypes "github.com/creatorstack/creatorstack-backend/pkg/db/types"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// pendingConstraint is the partial unique index that serializes concurrent
// issuance for the same (team, email, type) while a prior invitation is
// still pending.
const pendingConstraint = "ux_invitation_tokens_pending"

// Repository exposes invitation persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams holds the data required to persist a new invitation.
type CreateParams struct {
	TokenDigest     string
	TeamID          uuid.UUID
	InvitedEmail    string
	InvitedByUserID uuid.UUID
	InvitationType  enums.InvitationType
	Context         Context
	ExpiresAt       time.Time
}

// Create inserts an invitation row. The partial unique index enforces the
// single-pending invariant; a violation surfaces as ErrDuplicatePending so
// two concurrent issuances resolve to exactly one success.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*models.InvitationToken, error) {
	ictx := params.Context
	if ictx == nil {
		ictx = Context{}
	}

	row := &models.InvitationToken{
		TokenDigest:     params.TokenDigest,
		TeamID:          params.TeamID,
		InvitedEmail:    params.InvitedEmail,
		InvitedByUserID: params.InvitedByUserID,
		InvitationType:  params.InvitationType,
		Context:         dbtypes.JSONMap(ictx),
		ExpiresAt:       params.ExpiresAt,
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if db.IsUniqueViolation(err, pendingConstraint) || db.IsUniqueViolation(err, "") {
			// Token digests are 256-bit random, so in practice any unique
			// violation here is the pending index firing.
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePending, params.InvitedEmail)
		}
		return nil, err
	}
	return row, nil
}

// FindByDigest retrieves an invitation by its token digest without locking.
func (r *Repository) FindByDigest(ctx context.Context, digest string) (*models.InvitationToken, error) {
	var row models.InvitationToken
	err := r.db.WithContext(ctx).
		Where("token_digest = ?", digest).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByDigestForUpdate retrieves an invitation under an exclusive row lock.
// This is the single serialization point for concurrent acceptance attempts
// of the same token. SQLite serializes writers on its own, so the locking
// clause is only emitted for Postgres.
func (r *Repository) FindByDigestForUpdate(ctx context.Context, digest string) (*models.InvitationToken, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row models.InvitationToken
	if err := query.Where("token_digest = ?", digest).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindPending returns the pending invitation for the recipient tuple when one
// exists. Used by issuance callers that want to name the recipient in their
// rejection; the authoritative guard is the unique index, not this read.
func (r *Repository) FindPending(ctx context.Context, teamID uuid.UUID, email string, invitationType enums.InvitationType) (*models.InvitationToken, error) {
	var row models.InvitationToken
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND invited_email = ? AND invitation_type = ? AND accepted_at IS NULL",
			teamID, email, invitationType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Reissue replaces the token material of an expired pending invitation in
// place. Rows are never deleted, so re-inviting after expiry reuses the
// pending slot instead of fighting the unique index.
func (r *Repository) Reissue(ctx context.Context, id uuid.UUID, params ReissueParams) (*models.InvitationToken, error) {
	updates := map[string]any{
		"token_digest":       params.TokenDigest,
		"invited_by_user_id": params.InvitedByUserID,
		"expires_at":         params.ExpiresAt,
		"created_at":         time.Now().UTC(),
	}
	if params.Context != nil {
		updates["invitation_context"] = dbtypes.JSONMap(params.Context)
	}
	err := r.db.WithContext(ctx).
		Model(&models.InvitationToken{}).
		Where("id = ? AND accepted_at IS NULL", id).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}

	var row models.InvitationToken
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ReissueParams carries the replacement token material.
type ReissueParams struct {
	TokenDigest     string
	InvitedByUserID uuid.UUID
	ExpiresAt       time.Time
	Context         Context
}

// MarkAccepted stamps accepted_at, permanently consuming the token. Consumed
// rows are never deleted; expiry and acceptance are passive predicates.
func (r *Repository) MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.InvitationToken{}).
		Where("id = ?", id).
		Update("accepted_at", at).Error
}

// ListForTeam returns invitations for the team, newest first, for admin audit.
func (r *Repository) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.InvitationToken, error) {
	var rows []models.InvitationToken
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
