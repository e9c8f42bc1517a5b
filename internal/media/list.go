package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

const (
	defaultMediaListLimit = 25
	maxMediaListLimit     = 100
)

// ListParams configures media listing filters/pagination.
type ListParams struct {
	CampaignID *uuid.UUID
	HasKind    bool
	Kind       enums.MediaKind
	HasStatus  bool
	Status     enums.MediaStatus
	MimeType   string
	Search     string
	Limit      int
	Cursor     string
}

// ListResult returns paginated media metadata.
type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListItem represents returned media metadata.
type ListItem struct {
	ID         uuid.UUID         `json:"id"`
	TeamID     uuid.UUID         `json:"team_id"`
	CampaignID *uuid.UUID        `json:"campaign_id,omitempty"`
	UserID     *uuid.UUID        `json:"user_id,omitempty"`
	Kind       enums.MediaKind   `json:"kind"`
	Status     enums.MediaStatus `json:"status"`
	FileName   string            `json:"file_name"`
	MimeType   string            `json:"mime_type"`
	SizeBytes  int64             `json:"size_bytes"`
	CreatedAt  time.Time         `json:"created_at"`
	UploadedAt *time.Time        `json:"uploaded_at"`
	SignedURL  string            `json:"signed_url,omitempty"`
}

type listCursor struct {
	createdAt time.Time
	id        uuid.UUID
}

type listQuery struct {
	campaignID *uuid.UUID
	kind       *enums.MediaKind
	status     *enums.MediaStatus
	mimeType   string
	search     string
	limit      int
	cursor     *listCursor
}

func (s *service) ListMedia(ctx context.Context, principal access.Principal, params ListParams) (*ListResult, error) {
	if principal.TeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team identity missing")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultMediaListLimit
	}
	if limit > maxMediaListLimit {
		limit = maxMediaListLimit
	}

	query := listQuery{
		campaignID: params.CampaignID,
		limit:      limit + 1,
		mimeType:   strings.TrimSpace(params.MimeType),
		search:     strings.TrimSpace(params.Search),
	}
	if params.HasKind {
		query.kind = &params.Kind
	}
	if params.HasStatus {
		query.status = &params.Status
	}
	if params.Cursor != "" {
		cursor, err := parseListCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	var rows []models.Media
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve media access")
		}
		rows, err = NewRepository(tx).List(ctx, res, query)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The repo predicate is strictly exclusive, so the cursor must name the
	// last row handed back, not the first row of the next page.
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = encodeListCursor(&rows[limit-1])
	}

	items := make([]ListItem, len(rows))
	for i, m := range rows {
		signedURL, err := s.buildReadURL(m)
		if err != nil {
			return nil, err
		}
		items[i] = toListItem(m)
		items[i].SignedURL = signedURL
	}

	return &ListResult{
		Items:  items,
		Cursor: nextCursor,
	}, nil
}

func toListItem(m models.Media) ListItem {
	return ListItem{
		ID:         m.ID,
		TeamID:     m.TeamID,
		CampaignID: m.CampaignID,
		UserID:     m.UserID,
		Kind:       m.Kind,
		Status:     m.Status,
		FileName:   m.FileName,
		MimeType:   m.MimeType,
		SizeBytes:  m.SizeBytes,
		CreatedAt:  m.CreatedAt,
		UploadedAt: m.UploadedAt,
	}
}

func encodeListCursor(m *models.Media) string {
	payload := fmt.Sprintf("%s|%s", m.CreatedAt.UTC().Format(time.RFC3339Nano), m.ID.String())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

func parseListCursor(value string) (*listCursor, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &listCursor{
		createdAt: t,
		id:        id,
	}, nil
}

func (s *service) buildReadURL(media models.Media) (string, error) {
	if media.Status != enums.MediaStatusUploaded {
		return "", nil
	}
	url, err := s.gcs.SignedReadURL(s.bucket, media.GCSKey, s.downloadTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate signed read url")
	}
	return url, nil
}
