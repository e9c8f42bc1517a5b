package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes media upload and listing semantics.
type Service interface {
	PresignUpload(ctx context.Context, principal access.Principal, input PresignInput) (*PresignOutput, error)
	ListMedia(ctx context.Context, principal access.Principal, params ListParams) (*ListResult, error)
	DeleteMedia(ctx context.Context, principal access.Principal, id uuid.UUID) error
}

type service struct {
	tx          invitations.TxRunner
	resolver    *access.Resolver
	gcs         gcsClient
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
	maxBytes    int64
	logg        *logger.Logger
}

// ServiceParams bundles media service dependencies.
type ServiceParams struct {
	TxRunner    invitations.TxRunner
	Resolver    *access.Resolver
	GCS         gcsClient
	Bucket      string
	UploadTTL   time.Duration
	DownloadTTL time.Duration
	MaxUploadMB int
	Logger      *logger.Logger
}

// NewService constructs a media service backed by GORM and the GCS signer.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.GCS == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if params.UploadTTL <= 0 || params.DownloadTTL <= 0 {
		return nil, fmt.Errorf("signed url ttls must be positive")
	}
	if params.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = access.NewResolver()
	}
	return &service{
		tx:          params.TxRunner,
		resolver:    resolver,
		gcs:         params.GCS,
		bucket:      params.Bucket,
		uploadTTL:   params.UploadTTL,
		downloadTTL: params.DownloadTTL,
		maxBytes:    int64(params.MaxUploadMB) * 1024 * 1024,
		logg:        params.Logger,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	CampaignID *uuid.UUID
	Kind       enums.MediaKind
	MimeType   string
	FileName   string
	SizeBytes  int64
}

// PresignOutput contains the data returned to the client after creating a media record.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	GCSKey       string    `json:"gcs_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignUpload(ctx context.Context, principal access.Principal, input PresignInput) (*PresignOutput, error) {
	if principal.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if principal.TeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team identity missing")
	}
	if input.Kind == "" || !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d bytes", s.maxBytes))
	}

	mimeType, err := sniffMimeType(input.MimeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mime_type")
	}
	if !isAllowedMime(input.Kind, mimeType) {
		msg := fmt.Sprintf("%s uploads accept %s", input.Kind, allowedMimeDescription(input.Kind))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}

	mediaID := uuid.New()
	gcsKey := buildGCSKey(input.Kind, mediaID, fileName)
	mediaRow := &models.Media{
		ID:         mediaID,
		TeamID:     principal.TeamID,
		CampaignID: input.CampaignID,
		UserID:     &principal.UserID,
		Kind:       input.Kind,
		Status:     enums.MediaStatusPending,
		GCSKey:     gcsKey,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  input.SizeBytes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve media access")
		}
		if err := s.checkUploadAllowed(ctx, tx, res, input); err != nil {
			return err
		}
		if _, err := NewRepository(tx).Create(ctx, mediaRow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		cleanupErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return NewRepository(tx).Delete(ctx, mediaID)
		})
		if cleanupErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to clean up media row after signing error")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		GCSKey:       gcsKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// checkUploadAllowed enforces who may create media. Unrestricted principals
// upload anything within their team. Restricted principals may only push
// deliverables into campaigns they can already see.
func (s *service) checkUploadAllowed(ctx context.Context, tx *gorm.DB, res *access.Result, input PresignInput) error {
	if !res.Restricted {
		if input.CampaignID != nil {
			return s.checkCampaignExists(ctx, tx, res, *input.CampaignID)
		}
		return nil
	}

	if input.Kind != enums.MediaKindDeliverable {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only deliverable uploads are allowed")
	}
	if input.CampaignID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required for deliverables")
	}
	return s.checkCampaignExists(ctx, tx, res, *input.CampaignID)
}

func (s *service) checkCampaignExists(ctx context.Context, tx *gorm.DB, res *access.Result, campaignID uuid.UUID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Campaign{}).
		Scopes(res.Scope(&models.Campaign{})).
		Where("id = ?", campaignID).
		Count(&count).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check campaign")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
	}
	return nil
}

func (s *service) DeleteMedia(ctx context.Context, principal access.Principal, id uuid.UUID) error {
	var gcsKey string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve media access")
		}
		if res.Restricted {
			return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role to delete media")
		}
		repo := NewRepository(tx)
		mediaRow, err := repo.FindByID(ctx, principal.TeamID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
		}
		if mediaRow.Status == enums.MediaStatusDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "media already deleted")
		}
		gcsKey = mediaRow.GCSKey
		return repo.MarkDeleted(ctx, id)
	})
	if err != nil {
		return err
	}

	// The row is already tombstoned; a failed object delete is retried by
	// the bucket notification consumer when GCS emits OBJECT_DELETE.
	if err := s.gcs.DeleteObject(ctx, s.bucket, gcsKey); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to delete gcs object for media")
	}
	return nil
}

func buildGCSKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/%s/%s/%s", kind, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	result := strings.Trim(b.String(), "-_.")
	return result
}
