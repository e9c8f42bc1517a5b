package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/api/responses"
	"github.com/creatorstack/creatorstack-backend/api/validators"
	"github.com/creatorstack/creatorstack-backend/internal/campaigns"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

type campaignCreateRequest struct {
	Name             string  `json:"name" validate:"required"`
	Description      *string `json:"description,omitempty"`
	Status           *string `json:"status,omitempty"`
	AssignedRosterID *string `json:"assigned_roster_id,omitempty"`
}

func (r campaignCreateRequest) toDTO() (campaigns.CreateCampaignDTO, error) {
	dto := campaigns.CreateCampaignDTO{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
	}
	if r.Status != nil && strings.TrimSpace(*r.Status) != "" {
		status, err := enums.ParseCampaignStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return campaigns.CreateCampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		dto.Status = &status
	}
	if r.AssignedRosterID != nil && strings.TrimSpace(*r.AssignedRosterID) != "" {
		rosterID, err := uuid.Parse(strings.TrimSpace(*r.AssignedRosterID))
		if err != nil {
			return campaigns.CreateCampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid assigned_roster_id")
		}
		dto.AssignedRosterID = &rosterID
	}
	return dto, nil
}

// CampaignCreate registers a new campaign for the caller's team.
func CampaignCreate(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload campaignCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := payload.toDTO()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), principal, dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// CampaignList returns the campaigns visible to the caller.
func CampaignList(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// CampaignGet returns a single campaign if the caller can see it.
func CampaignGet(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign id"))
			return
		}

		campaign, err := svc.Get(r.Context(), principal, campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, campaign)
	}
}

type campaignStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CampaignUpdateStatus transitions a campaign's lifecycle status.
func CampaignUpdateStatus(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign id"))
			return
		}

		var payload campaignStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCampaignStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), principal, campaignID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

type campaignRosterRequest struct {
	RosterProfileID *string `json:"roster_profile_id,omitempty"`
}

// CampaignAssignRoster links or clears the campaign's roster assignment.
func CampaignAssignRoster(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign id"))
			return
		}

		var payload campaignRosterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var rosterID *uuid.UUID
		if payload.RosterProfileID != nil && strings.TrimSpace(*payload.RosterProfileID) != "" {
			parsed, err := uuid.Parse(strings.TrimSpace(*payload.RosterProfileID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid roster_profile_id"))
				return
			}
			rosterID = &parsed
		}

		if err := svc.AssignRoster(r.Context(), principal, campaignID, rosterID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
