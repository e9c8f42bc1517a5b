package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/api/responses"
	"github.com/creatorstack/creatorstack-backend/api/validators"
	"github.com/creatorstack/creatorstack-backend/internal/media"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

type mediaPresignRequest struct {
	CampaignID *string `json:"campaign_id,omitempty"`
	MediaKind  string  `json:"media_kind" validate:"required"`
	MimeType   string  `json:"mime_type" validate:"required"`
	FileName   string  `json:"file_name" validate:"required"`
	SizeBytes  int64   `json:"size_bytes" validate:"required,min=1"`
}

func (r mediaPresignRequest) toInput() (media.PresignInput, error) {
	kind, err := enums.ParseMediaKind(strings.TrimSpace(r.MediaKind))
	if err != nil {
		return media.PresignInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid media_kind")
	}

	input := media.PresignInput{
		Kind:      kind,
		MimeType:  r.MimeType,
		FileName:  r.FileName,
		SizeBytes: r.SizeBytes,
	}
	if r.CampaignID != nil && strings.TrimSpace(*r.CampaignID) != "" {
		campaignID, err := uuid.Parse(strings.TrimSpace(*r.CampaignID))
		if err != nil {
			return media.PresignInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign_id")
		}
		input.CampaignID = &campaignID
	}
	return input, nil
}

// MediaPresign handles creating a media record and returning a signed PUT URL.
func MediaPresign(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload mediaPresignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.PresignUpload(r.Context(), principal, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// MediaList returns the caller's visible media with cursor pagination.
func MediaList(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parseMediaListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMedia(r.Context(), principal, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// MediaDelete tombstones a media row and removes the stored object.
func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		principal, err := requestPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mediaID, err := uuid.Parse(chi.URLParam(r, "mediaID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid media id"))
			return
		}

		if err := svc.DeleteMedia(r.Context(), principal, mediaID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseMediaListParams(r *http.Request) (media.ListParams, error) {
	query := r.URL.Query()
	params := media.ListParams{
		MimeType: strings.TrimSpace(query.Get("mime_type")),
		Search:   strings.TrimSpace(query.Get("search")),
		Cursor:   strings.TrimSpace(query.Get("cursor")),
	}

	if raw := strings.TrimSpace(query.Get("campaign_id")); raw != "" {
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			return media.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign_id")
		}
		params.CampaignID = &campaignID
	}

	if raw := strings.TrimSpace(query.Get("kind")); raw != "" {
		kind, err := enums.ParseMediaKind(raw)
		if err != nil {
			return media.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid kind")
		}
		params.HasKind = true
		params.Kind = kind
	}

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseMediaStatus(raw)
		if err != nil {
			return media.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		params.HasStatus = true
		params.Status = status
	}

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return media.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit")
		}
		params.Limit = limit
	}

	return params, nil
}
