package invitations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
	"github.com/creatorstack/creatorstack-backend/pkg/metrics"
	"github.com/creatorstack/creatorstack-backend/pkg/security"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service issues invitation links for every registered invitation type.
type Service interface {
	GenerateLink(ctx context.Context, params GenerateLinkParams) (*GenerateLinkResult, error)
	ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.InvitationToken, error)
}

// GenerateLinkParams carries the issuance inputs.
type GenerateLinkParams struct {
	TeamID          uuid.UUID
	InvitedEmail    string
	InvitedByUserID uuid.UUID
	Type            enums.InvitationType
	Context         Context
	// TTL overrides the configured expiry when positive.
	TTL time.Duration
}

// GenerateLinkResult returns the persisted row and the shareable URL. The URL
// embeds the plaintext token; it exists only here and in the email.
type GenerateLinkResult struct {
	Invitation *models.InvitationToken
	URL        string
}

// ServiceParams bundles the dependencies for the invitation service.
type ServiceParams struct {
	TxRunner   TxRunner
	Registry   *Registry
	InviteCfg  config.InvitationConfig
	Logger     *logger.Logger
	Metrics    *metrics.InvitationMetrics
	RepoFromTx func(tx *gorm.DB) *Repository
}

type service struct {
	tx        TxRunner
	registry  *Registry
	inviteCfg config.InvitationConfig
	logg      *logger.Logger
	metrics   *metrics.InvitationMetrics
	repoFrom  func(tx *gorm.DB) *Repository
}

// NewService constructs the invitation service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "handler registry required")
	}
	repoFrom := params.RepoFromTx
	if repoFrom == nil {
		repoFrom = NewRepository
	}
	return &service{
		tx:        params.TxRunner,
		registry:  params.Registry,
		inviteCfg: params.InviteCfg,
		logg:      params.Logger,
		metrics:   params.Metrics,
		repoFrom:  repoFrom,
	}, nil
}

// NormalizeEmail lower-cases and trims a recipient address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) GenerateLink(ctx context.Context, params GenerateLinkParams) (*GenerateLinkResult, error) {
	handler, err := s.registry.Get(params.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown invitation type")
	}

	email := NormalizeEmail(params.InvitedEmail)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invited email is required")
	}
	if params.TeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id is required")
	}
	if params.InvitedByUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inviter user id is required")
	}

	plaintext, err := security.GenerateInviteToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint invite token")
	}
	digest := security.HashInviteToken(plaintext)

	ttl := params.TTL
	if ttl <= 0 {
		ttl = s.inviteCfg.TTL
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	var row *models.InvitationToken
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := handler.ValidateContext(ctx, tx, params.Context); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invitation context")
		}

		repo := s.repoFrom(tx)

		pending, err := repo.FindPending(ctx, params.TeamID, email, params.Type)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check pending invitation")
		}
		if pending != nil {
			if pending.IsValid(time.Now().UTC()) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrDuplicatePending,
					fmt.Sprintf("an invitation is already pending for %s", email))
			}
			// Expired pending row: reuse its slot with fresh token material.
			reissued, err := repo.Reissue(ctx, pending.ID, ReissueParams{
				TokenDigest:     digest,
				InvitedByUserID: params.InvitedByUserID,
				ExpiresAt:       time.Now().UTC().Add(ttl),
				Context:         params.Context,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reissue invitation")
			}
			row = reissued
			return nil
		}

		created, err := repo.Create(ctx, CreateParams{
			TokenDigest:     digest,
			TeamID:          params.TeamID,
			InvitedEmail:    email,
			InvitedByUserID: params.InvitedByUserID,
			InvitationType:  params.Type,
			Context:         params.Context,
			ExpiresAt:       time.Now().UTC().Add(ttl),
		})
		if err != nil {
			// A concurrent issuance can still lose the race to the index.
			if isDuplicatePending(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err,
					fmt.Sprintf("an invitation is already pending for %s", email))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invitation")
		}
		row = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncIssued(params.Type.String())

	if s.logg != nil {
		fields := map[string]any{
			"team_id":         params.TeamID.String(),
			"invited_email":   email,
			"invitation_type": params.Type.String(),
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "invitation created")
	}

	return &GenerateLinkResult{
		Invitation: row,
		URL:        s.buildURL(plaintext),
	}, nil
}

func (s *service) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.InvitationToken, error) {
	if teamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id is required")
	}
	var rows []models.InvitationToken
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rows, err = s.repoFrom(tx).ListForTeam(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invitations")
	}
	return rows, nil
}

// buildURL points at the frontend's accept page, which forwards the token
// to GET /api/v1/invitations/accept on this backend.
func (s *service) buildURL(plaintext string) string {
	base := strings.TrimRight(s.inviteCfg.FrontendOrigin, "/")
	return fmt.Sprintf("%s/invite/accept?token=%s", base, plaintext)
}

func isDuplicatePending(err error) bool {
	return errors.Is(err, ErrDuplicatePending)
}
