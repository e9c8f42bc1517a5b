package teams

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/internal/roles"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

// Service manages tenant lifecycle. Creating a team also grants the creator
// the owner role inside the same transaction.
type Service interface {
	Create(ctx context.Context, creatorID uuid.UUID, dto CreateTeamDTO) (*TeamDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TeamDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]roles.RoleWithTeam, error)
	Members(ctx context.Context, teamID uuid.UUID) ([]roles.TeamUserDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateTeamDTO) (*TeamDTO, error)
}

// UpdateTeamDTO carries the mutable team fields. Nil means unchanged.
type UpdateTeamDTO struct {
	Name        *string
	Description *string
}

// ServiceParams bundles the dependencies for the team service.
type ServiceParams struct {
	TxRunner invitations.TxRunner
}

type service struct {
	tx invitations.TxRunner
}

// NewService wires team dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	return &service{tx: params.TxRunner}, nil
}

func (s *service) Create(ctx context.Context, creatorID uuid.UUID, dto CreateTeamDTO) (*TeamDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator is required")
	}

	var created *TeamDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		team, err := NewRepository(tx).Create(ctx, dto)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create team")
		}
		if _, err := roles.NewRepository(tx).Upsert(ctx, creatorID, team.ID, enums.RoleLevelOwner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grant owner role")
		}
		created = FromModel(team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TeamDTO, error) {
	var out *TeamDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		team, err := NewRepository(tx).FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load team")
		}
		out = FromModel(team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]roles.RoleWithTeam, error) {
	var out []roles.RoleWithTeam
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := roles.NewRepository(tx).ListUserTeams(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user teams")
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Members(ctx context.Context, teamID uuid.UUID) ([]roles.TeamUserDTO, error) {
	var out []roles.TeamUserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := roles.NewRepository(tx).ListTeamUsers(ctx, teamID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list team members")
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateTeamDTO) (*TeamDTO, error) {
	var out *TeamDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		team, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load team")
		}

		if dto.Name != nil {
			name := strings.TrimSpace(*dto.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
			}
			team.Name = name
		}
		if dto.Description != nil {
			team.Description = dto.Description
		}

		if err := repo.Update(ctx, team); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update team")
		}
		out = FromModel(team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
