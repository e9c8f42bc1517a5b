package enums

import "fmt"

// RoleLevel represents a team-level permissions role.
type RoleLevel string

const (
	RoleLevelOwner        RoleLevel = "owner"
	RoleLevelAdmin        RoleLevel = "admin"
	RoleLevelMember       RoleLevel = "member"
	RoleLevelViewer       RoleLevel = "viewer"
	RoleLevelRosterMember RoleLevel = "roster_member"
	RoleLevelGuestBrand   RoleLevel = "guest_brand"
)

var validRoleLevels = []RoleLevel{
	RoleLevelOwner,
	RoleLevelAdmin,
	RoleLevelMember,
	RoleLevelViewer,
	RoleLevelRosterMember,
	RoleLevelGuestBrand,
}

// String implements fmt.Stringer.
func (r RoleLevel) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoleLevel.
func (r RoleLevel) IsValid() bool {
	for _, candidate := range validRoleLevels {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoleLevel converts raw input into a RoleLevel.
func ParseRoleLevel(value string) (RoleLevel, error) {
	for _, candidate := range validRoleLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role level %q", value)
}
