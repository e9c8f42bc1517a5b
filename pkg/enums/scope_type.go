package enums

import "fmt"

// ScopeType identifies what kind of tenant scope a session is bound to.
type ScopeType string

const (
	ScopeTypeTeam     ScopeType = "team"
	ScopeTypeCampaign ScopeType = "campaign"
)

var validScopeTypes = []ScopeType{
	ScopeTypeTeam,
	ScopeTypeCampaign,
}

// String implements fmt.Stringer.
func (s ScopeType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScopeType.
func (s ScopeType) IsValid() bool {
	for _, candidate := range validScopeTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScopeType converts raw input into a ScopeType.
func ParseScopeType(value string) (ScopeType, error) {
	for _, candidate := range validScopeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scope type %q", value)
}
