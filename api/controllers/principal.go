package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/api/middleware"
	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

// requestPrincipal rebuilds the caller's identity from the auth context.
// Team-scoped endpoints sit behind the team context middleware, so a
// missing team here means the route was wired wrong.
func requestPrincipal(r *http.Request) (access.Principal, error) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return access.Principal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}

	teamID := middleware.TeamIDFromContext(ctx)
	if teamID == "" {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing")
	}
	tid, err := uuid.Parse(teamID)
	if err != nil {
		return access.Principal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team id")
	}

	role, err := enums.ParseRoleLevel(middleware.RoleFromContext(ctx))
	if err != nil {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeForbidden, "role context missing")
	}

	return access.Principal{UserID: uid, TeamID: tid, Role: role}, nil
}
