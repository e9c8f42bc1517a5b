package invitations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

// teamMemberHandler covers regular team member invitations. Members get full
// team access; no extra context or post-accept linking is needed.
type teamMemberHandler struct {
	logg *logger.Logger
}

func (h *teamMemberHandler) RoleForAcceptance() enums.RoleLevel {
	return enums.RoleLevelMember
}

func (h *teamMemberHandler) ValidateContext(ctx context.Context, tx *gorm.DB, ictx Context) error {
	return nil
}

func (h *teamMemberHandler) DisplayName(ctx context.Context, tx *gorm.DB, invitedEmail string, ictx Context) string {
	return ""
}

func (h *teamMemberHandler) PostAccept(ctx context.Context, tx *gorm.DB, userID, teamID uuid.UUID, ictx Context) error {
	if h.logg != nil {
		fields := map[string]any{"user_id": userID.String(), "team_id": teamID.String()}
		h.logg.Info(h.logg.WithFields(ctx, fields), "team member invitation accepted")
	}
	return nil
}
