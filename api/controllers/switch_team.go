package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/api/responses"
	"github.com/creatorstack/creatorstack-backend/api/validators"
	"github.com/creatorstack/creatorstack-backend/internal/auth"
	pkgAuth "github.com/creatorstack/creatorstack-backend/pkg/auth"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

type switchTeamRequest struct {
	TeamID string `json:"team_id" validate:"required,uuid"`
}

// AuthSwitchTeam mints a new token pair scoped to the requested team.
func AuthSwitchTeam(svc auth.SwitchTeamService, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "switch team service unavailable"))
			return
		}

		var body switchTeamRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		teamID, err := uuid.Parse(body.TeamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team_id"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		result, err := svc.Switch(r.Context(), auth.SwitchTeamInput{
			UserID:        claims.UserID,
			TeamID:        teamID,
			AccessTokenID: claims.ID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-CS-Token", result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}
