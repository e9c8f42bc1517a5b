package invitations

import (
	"fmt"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

// Registry maps invitation type tags to their handlers. Built once at
// process start and read-only afterwards, so lookups need no locking.
//
// Adding a new invitation type means adding a handler, an enums value, and a
// registry entry here; the issuance and accept flows never change.
type Registry struct {
	handlers map[enums.InvitationType]Handler
}

// NewRegistry builds the fixed handler set.
func NewRegistry(logg *logger.Logger) *Registry {
	return &Registry{
		handlers: map[enums.InvitationType]Handler{
			enums.InvitationTypeTeamMember:    &teamMemberHandler{logg: logg},
			enums.InvitationTypeRosterMember:  &rosterMemberHandler{logg: logg},
			enums.InvitationTypeGuestBrand:    &reservedHandler{role: enums.RoleLevelGuestBrand},
			enums.InvitationTypeAgencyPartner: &reservedHandler{role: enums.RoleLevelGuestBrand},
		},
	}
}

// Get returns the handler for the invitation type.
func (r *Registry) Get(invitationType enums.InvitationType) (Handler, error) {
	handler, ok := r.handlers[invitationType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, invitationType)
	}
	return handler, nil
}
