package campaigns

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

// Service exposes campaign operations filtered by the caller's visibility.
type Service interface {
	Create(ctx context.Context, principal access.Principal, dto CreateCampaignDTO) (*CampaignDTO, error)
	List(ctx context.Context, principal access.Principal) ([]CampaignDTO, error)
	Get(ctx context.Context, principal access.Principal, id uuid.UUID) (*CampaignDTO, error)
	UpdateStatus(ctx context.Context, principal access.Principal, id uuid.UUID, status enums.CampaignStatus) (*CampaignDTO, error)
	AssignRoster(ctx context.Context, principal access.Principal, campaignID uuid.UUID, rosterID *uuid.UUID) error
}

type service struct {
	tx       invitations.TxRunner
	resolver *access.Resolver
}

// ServiceParams bundles the dependencies for the campaign service.
type ServiceParams struct {
	TxRunner invitations.TxRunner
	Resolver *access.Resolver
}

// NewService wires campaign dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = access.NewResolver()
	}
	return &service{tx: params.TxRunner, resolver: resolver}, nil
}

func (s *service) Create(ctx context.Context, principal access.Principal, dto CreateCampaignDTO) (*CampaignDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if dto.Status != nil && !dto.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign status")
	}
	dto.TeamID = principal.TeamID

	var created *CampaignDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if dto.AssignedRosterID != nil {
			if err := checkRosterProfile(ctx, tx, principal.TeamID, *dto.AssignedRosterID); err != nil {
				return err
			}
		}
		campaign, err := NewRepository(tx).Create(ctx, dto)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
		}
		created = FromModel(campaign)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) List(ctx context.Context, principal access.Principal) ([]CampaignDTO, error) {
	var out []CampaignDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve campaign access")
		}
		campaigns, err := NewRepository(tx).ListVisible(ctx, res)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
		}
		out = make([]CampaignDTO, 0, len(campaigns))
		for i := range campaigns {
			out = append(out, *FromModel(&campaigns[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, principal access.Principal, id uuid.UUID) (*CampaignDTO, error) {
	var out *CampaignDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve campaign access")
		}
		campaign, err := NewRepository(tx).FindVisible(ctx, res, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
		}
		out = FromModel(campaign)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, principal access.Principal, id uuid.UUID, status enums.CampaignStatus) (*CampaignDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign status")
	}

	var out *CampaignDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve campaign access")
		}
		repo := NewRepository(tx)
		campaign, err := repo.FindVisible(ctx, res, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
		}
		campaign.Status = status
		if err := repo.Update(ctx, campaign); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update campaign")
		}
		out = FromModel(campaign)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) AssignRoster(ctx context.Context, principal access.Principal, campaignID uuid.UUID, rosterID *uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(ctx, tx, principal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve campaign access")
		}
		repo := NewRepository(tx)
		if _, err := repo.FindVisible(ctx, res, campaignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
		}
		if rosterID != nil {
			if err := checkRosterProfile(ctx, tx, principal.TeamID, *rosterID); err != nil {
				return err
			}
		}
		if err := repo.AssignRoster(ctx, principal.TeamID, campaignID, rosterID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign roster")
		}
		return nil
	})
}

func checkRosterProfile(ctx context.Context, tx *gorm.DB, teamID, rosterID uuid.UUID) error {
	var profile models.RosterProfile
	err := tx.WithContext(ctx).
		Where("id = ? AND team_id = ? AND deleted_at IS NULL", rosterID, teamID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "roster profile not found in team")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check roster profile")
	}
	return nil
}
