package enums

import "fmt"

// InvitationType tags an invitation with the handler that owns its behavior.
type InvitationType string

const (
	// InvitationTypeTeamMember is a regular team member with full team access.
	InvitationTypeTeamMember InvitationType = "team_member"
	// InvitationTypeRosterMember is a talent/influencer with limited campaign access.
	InvitationTypeRosterMember InvitationType = "roster_member"
	// InvitationTypeGuestBrand is a brand with access to their campaigns (reserved).
	InvitationTypeGuestBrand InvitationType = "guest_brand"
	// InvitationTypeAgencyPartner is an agency with access to client campaigns (reserved).
	InvitationTypeAgencyPartner InvitationType = "agency_partner"
)

var validInvitationTypes = []InvitationType{
	InvitationTypeTeamMember,
	InvitationTypeRosterMember,
	InvitationTypeGuestBrand,
	InvitationTypeAgencyPartner,
}

// String implements fmt.Stringer.
func (i InvitationType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvitationType.
func (i InvitationType) IsValid() bool {
	for _, candidate := range validInvitationTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInvitationType converts raw input into an InvitationType.
func ParseInvitationType(value string) (InvitationType, error) {
	for _, candidate := range validInvitationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invitation type %q", value)
}
