package invitations

import "errors"

// Sentinel errors for the invitation flow. Controllers map these onto coded
// API errors; invalid, expired, and already-accepted tokens all surface the
// same public message so callers cannot tell which tokens exist.
var (
	// ErrUnknownType means the invitation type tag has no registered handler.
	ErrUnknownType = errors.New("unknown invitation type")

	// ErrInvalidContext means the handler rejected the type-specific payload.
	ErrInvalidContext = errors.New("invalid invitation context")

	// ErrDuplicatePending means a pending invitation already exists for the
	// same (team, email, type) tuple.
	ErrDuplicatePending = errors.New("invitation already pending")

	// ErrInvalidOrExpired means the token is absent, expired, or consumed at
	// read time.
	ErrInvalidOrExpired = errors.New("invalid or expired invitation")

	// ErrAlreadyAccepted is detected at the locked re-check when another
	// acceptance won the race.
	ErrAlreadyAccepted = errors.New("invitation already accepted")

	// ErrHandlerNotImplemented guards reserved invitation types; they must
	// fail loudly, never silently no-op.
	ErrHandlerNotImplemented = errors.New("invitation handler not implemented")
)
