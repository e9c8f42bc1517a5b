package invitations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// Context is the opaque, type-specific payload carried by an invitation.
// Its shape is owned entirely by the handler for the invitation's type; the
// store treats it as a JSON blob.
type Context map[string]any

// UUID extracts a UUID-valued key from the context. JSON round-trips store
// UUIDs as strings, so both representations are accepted.
func (c Context) UUID(key string) (uuid.UUID, bool) {
	raw, ok := c[key]
	if !ok {
		return uuid.Nil, false
	}
	switch v := raw.(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	default:
		return uuid.Nil, false
	}
}

// Handler encapsulates everything type-specific about an invitation so the
// accept flow stays universal and branch-free. One stateless instance exists
// per invitation type, registered at process start.
type Handler interface {
	// RoleForAcceptance returns the role level assigned when the invitation
	// is accepted.
	RoleForAcceptance() enums.RoleLevel

	// ValidateContext checks the type-specific payload before an invitation
	// is created. A nil error means the context is acceptable.
	ValidateContext(ctx context.Context, tx *gorm.DB, ictx Context) error

	// DisplayName may supply a better account name for a newly provisioned
	// user (e.g., a pre-existing profile name). Empty string falls back to
	// the email local part.
	DisplayName(ctx context.Context, tx *gorm.DB, invitedEmail string, ictx Context) string

	// PostAccept runs type-specific linking after the user exists and holds
	// their role. It executes inside the acceptance transaction and must be
	// idempotent under retry.
	PostAccept(ctx context.Context, tx *gorm.DB, userID, teamID uuid.UUID, ictx Context) error
}
