package enums

import "fmt"

// UserState captures the lifecycle of a user account.
type UserState string

const (
	UserStateNeedsTeam UserState = "needs_team"
	UserStateActive    UserState = "active"
	UserStateDeleted   UserState = "deleted"
)

var validUserStates = []UserState{
	UserStateNeedsTeam,
	UserStateActive,
	UserStateDeleted,
}

// String implements fmt.Stringer.
func (u UserState) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known UserState.
func (u UserState) IsValid() bool {
	for _, candidate := range validUserStates {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserState converts raw input into a UserState.
func ParseUserState(value string) (UserState, error) {
	for _, candidate := range validUserStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user state %q", value)
}
