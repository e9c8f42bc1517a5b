package invitations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

// rosterContextKey references the roster profile an invitation links to.
const rosterContextKey = "roster_id"

// rosterMemberHandler covers talent/influencer invitations. Roster members
// get limited campaign access; accepting links the roster profile to the new
// user account.
type rosterMemberHandler struct {
	logg *logger.Logger
}

func (h *rosterMemberHandler) RoleForAcceptance() enums.RoleLevel {
	return enums.RoleLevelRosterMember
}

func (h *rosterMemberHandler) ValidateContext(ctx context.Context, tx *gorm.DB, ictx Context) error {
	rosterID, ok := ictx.UUID(rosterContextKey)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrInvalidContext, rosterContextKey)
	}

	var profile models.RosterProfile
	if err := tx.WithContext(ctx).First(&profile, "id = ?", rosterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: roster profile %s not found", ErrInvalidContext, rosterID)
		}
		return err
	}
	if profile.Email == nil || *profile.Email == "" {
		return fmt.Errorf("%w: roster profile %s has no email address", ErrInvalidContext, rosterID)
	}
	return nil
}

func (h *rosterMemberHandler) DisplayName(ctx context.Context, tx *gorm.DB, invitedEmail string, ictx Context) string {
	rosterID, ok := ictx.UUID(rosterContextKey)
	if !ok {
		return ""
	}
	var profile models.RosterProfile
	if err := tx.WithContext(ctx).First(&profile, "id = ?", rosterID).Error; err != nil {
		return ""
	}
	return profile.Name
}

func (h *rosterMemberHandler) PostAccept(ctx context.Context, tx *gorm.DB, userID, teamID uuid.UUID, ictx Context) error {
	// Acceptance must not report success without the profile link. A
	// missing or deleted profile aborts the whole transaction.
	rosterID, ok := ictx.UUID(rosterContextKey)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrInvalidContext, rosterContextKey)
	}

	result := tx.WithContext(ctx).
		Model(&models.RosterProfile{}).
		Where("id = ? AND deleted_at IS NULL", rosterID).
		Update("linked_user_id", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: roster profile %s not found", ErrInvalidContext, rosterID)
	}

	if h.logg != nil {
		fields := map[string]any{"roster_id": rosterID.String(), "user_id": userID.String()}
		h.logg.Info(h.logg.WithFields(ctx, fields), "linked roster profile to user")
	}
	return nil
}
