package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/api/responses"
	"github.com/creatorstack/creatorstack-backend/api/validators"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

type invitationCreateRequest struct {
	InvitedEmail   string         `json:"invited_email" validate:"required,email"`
	InvitationType string         `json:"invitation_type" validate:"required"`
	Context        map[string]any `json:"context,omitempty"`
}

type invitationResponse struct {
	ID             uuid.UUID            `json:"id"`
	TeamID         uuid.UUID            `json:"team_id"`
	InvitedEmail   string               `json:"invited_email"`
	InvitationType enums.InvitationType `json:"invitation_type"`
	ExpiresAt      time.Time            `json:"expires_at"`
	AcceptedAt     *time.Time           `json:"accepted_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type invitationCreateResponse struct {
	Invitation invitationResponse `json:"invitation"`
	AcceptURL  string             `json:"accept_url"`
}

func toInvitationResponse(row *models.InvitationToken) invitationResponse {
	return invitationResponse{
		ID:             row.ID,
		TeamID:         row.TeamID,
		InvitedEmail:   row.InvitedEmail,
		InvitationType: row.InvitationType,
		ExpiresAt:      row.ExpiresAt,
		AcceptedAt:     row.AcceptedAt,
		CreatedAt:      row.CreatedAt,
	}
}

// InvitationCreate issues an invitation link for the caller's team.
func InvitationCreate(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invitation service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload invitationCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inviteType, err := enums.ParseInvitationType(strings.TrimSpace(payload.InvitationType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid invitation_type"))
			return
		}

		result, err := svc.GenerateLink(r.Context(), invitations.GenerateLinkParams{
			TeamID:          principal.TeamID,
			InvitedEmail:    payload.InvitedEmail,
			InvitedByUserID: principal.UserID,
			Type:            inviteType,
			Context:         invitations.Context(payload.Context),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invitationCreateResponse{
			Invitation: toInvitationResponse(result.Invitation),
			AcceptURL:  result.URL,
		})
	}
}

// InvitationList returns the invitations issued by the caller's team.
func InvitationList(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invitation service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForTeam(r.Context(), principal.TeamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]invitationResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toInvitationResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// InvitationAccept redeems an invitation token from an emailed link and
// redirects the browser to the frontend with a fresh session pair.
func InvitationAccept(acceptor invitations.Acceptor, cfg config.InvitationConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if acceptor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invitation acceptor unavailable"))
			return
		}

		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "token is required"))
			return
		}

		result, err := acceptor.Accept(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		redirect, err := buildAcceptRedirect(cfg.SuccessRedirectURL, result)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build redirect"))
			return
		}

		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// buildAcceptRedirect places the session pair in the URL fragment so tokens
// never reach server logs or the Referer header of the frontend's assets.
func buildAcceptRedirect(base string, result *invitations.AcceptResult) (string, error) {
	target, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	fragment := url.Values{}
	fragment.Set("invitation_type", result.InvitationType.String())
	fragment.Set("team_id", result.TeamID.String())
	if result.Tokens != nil {
		fragment.Set("access_token", result.Tokens.AccessToken)
		fragment.Set("refresh_token", result.Tokens.RefreshToken)
	}
	target.Fragment = fragment.Encode()
	return target.String(), nil
}
