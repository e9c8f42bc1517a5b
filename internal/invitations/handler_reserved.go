package invitations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// reservedHandler guards invitation types that are registered but not yet
// built out (guest brands, agency partners). Every call fails loudly so a
// misconfigured issuance is never mistaken for success.
type reservedHandler struct {
	role enums.RoleLevel
}

func (h *reservedHandler) RoleForAcceptance() enums.RoleLevel {
	return h.role
}

func (h *reservedHandler) ValidateContext(ctx context.Context, tx *gorm.DB, ictx Context) error {
	return ErrHandlerNotImplemented
}

func (h *reservedHandler) DisplayName(ctx context.Context, tx *gorm.DB, invitedEmail string, ictx Context) string {
	return ""
}

func (h *reservedHandler) PostAccept(ctx context.Context, tx *gorm.DB, userID, teamID uuid.UUID, ictx Context) error {
	return ErrHandlerNotImplemented
}
