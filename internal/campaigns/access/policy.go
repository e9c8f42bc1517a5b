package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// Principal identifies the actor whose campaign visibility is being resolved.
type Principal struct {
	UserID uuid.UUID
	TeamID uuid.UUID
	Role   enums.RoleLevel
}

// Policy narrows campaign visibility for one class of principal.
//
// Resolve returns (ids, true, nil) when the policy applies: the principal may
// only see the listed campaigns, and an empty list means none at all.
// It returns (nil, false, nil) when the policy has nothing to say about this
// principal and the resolver should try the next one.
type Policy interface {
	Resolve(ctx context.Context, tx *gorm.DB, principal Principal) ([]uuid.UUID, bool, error)
}

// rosterMemberPolicy restricts roster members to campaigns assigned to the
// roster profiles linked to their account within the team.
type rosterMemberPolicy struct{}

func (rosterMemberPolicy) Resolve(ctx context.Context, tx *gorm.DB, principal Principal) ([]uuid.UUID, bool, error) {
	if principal.Role != enums.RoleLevelRosterMember {
		return nil, false, nil
	}

	var rosterIDs []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&models.RosterProfile{}).
		Where("team_id = ? AND linked_user_id = ? AND deleted_at IS NULL", principal.TeamID, principal.UserID).
		Pluck("id", &rosterIDs).Error
	if err != nil {
		return nil, false, err
	}
	if len(rosterIDs) == 0 {
		// Applies, sees nothing: a roster member with no linked profile has
		// no campaigns, not full access.
		return []uuid.UUID{}, true, nil
	}

	var campaignIDs []uuid.UUID
	err = tx.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("team_id = ? AND assigned_roster_id IN ?", principal.TeamID, rosterIDs).
		Pluck("id", &campaignIDs).Error
	if err != nil {
		return nil, false, err
	}
	if campaignIDs == nil {
		campaignIDs = []uuid.UUID{}
	}
	return campaignIDs, true, nil
}

// guestBrandPolicy reserves the slot for guest brand visibility rules. Guest
// brands currently see nothing until their sharing model ships.
type guestBrandPolicy struct{}

func (guestBrandPolicy) Resolve(ctx context.Context, tx *gorm.DB, principal Principal) ([]uuid.UUID, bool, error) {
	if principal.Role != enums.RoleLevelGuestBrand {
		return nil, false, nil
	}
	return []uuid.UUID{}, true, nil
}
