package roster

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/email"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

// Service defines roster profile management plus the portal invite action.
type Service interface {
	Create(ctx context.Context, dto CreateProfileDTO) (*ProfileDTO, error)
	List(ctx context.Context, teamID uuid.UUID) ([]ProfileDTO, error)
	Get(ctx context.Context, teamID, id uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, teamID, id uuid.UUID, dto UpdateProfileDTO) (*ProfileDTO, error)
	Delete(ctx context.Context, teamID, id uuid.UUID) error
	InviteToPortal(ctx context.Context, params InviteParams) (*InviteResult, error)
}

// InviteParams identifies the profile to invite and who asked.
type InviteParams struct {
	TeamID          uuid.UUID
	RosterID        uuid.UUID
	InvitedByUserID uuid.UUID
}

// InviteResult carries the issued invitation back to the controller.
type InviteResult struct {
	Invitation *models.InvitationToken `json:"invitation"`
	AcceptURL  string                  `json:"accept_url"`
}

type profileRepository interface {
	Create(ctx context.Context, dto CreateProfileDTO) (*models.RosterProfile, error)
	FindByID(ctx context.Context, teamID, id uuid.UUID) (*models.RosterProfile, error)
	ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.RosterProfile, error)
	Update(ctx context.Context, profile *models.RosterProfile) error
	SoftDelete(ctx context.Context, teamID, id uuid.UUID, at time.Time) error
}

type teamLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

type inviteIssuer interface {
	GenerateLink(ctx context.Context, params invitations.GenerateLinkParams) (*invitations.GenerateLinkResult, error)
}

type service struct {
	repo    profileRepository
	teams   teamLookup
	invites inviteIssuer
	mailer  email.Service
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies for the roster service.
type ServiceParams struct {
	Repo      profileRepository
	TeamsRepo teamLookup
	Invites   inviteIssuer
	Mailer    email.Service
	Logger    *logger.Logger
}

// NewService wires roster dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "roster repository required")
	}
	if params.TeamsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "teams repository required")
	}
	if params.Invites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invitation service required")
	}
	return &service{
		repo:    params.Repo,
		teams:   params.TeamsRepo,
		invites: params.Invites,
		mailer:  params.Mailer,
		logg:    params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, dto CreateProfileDTO) (*ProfileDTO, error) {
	if dto.TeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if dto.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*dto.Email))
		dto.Email = &normalized
	}

	profile, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create roster profile")
	}
	return FromModel(profile), nil
}

func (s *service) List(ctx context.Context, teamID uuid.UUID) ([]ProfileDTO, error) {
	if teamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id is required")
	}
	profiles, err := s.repo.ListForTeam(ctx, teamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list roster profiles")
	}
	out := make([]ProfileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, *FromModel(&profiles[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, teamID, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.findProfile(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, teamID, id uuid.UUID, dto UpdateProfileDTO) (*ProfileDTO, error) {
	profile, err := s.findProfile(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		profile.Name = name
	}
	if dto.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*dto.Email))
		profile.Email = &normalized
	}
	if dto.Phone != nil {
		profile.Phone = dto.Phone
	}
	if dto.Social != nil {
		profile.Social = *dto.Social
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update roster profile")
	}
	return FromModel(profile), nil
}

func (s *service) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	if _, err := s.findProfile(ctx, teamID, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, teamID, id, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete roster profile")
	}
	return nil
}

// InviteToPortal issues a roster member invitation for the profile's email
// address and notifies the talent. The invitation service enforces the
// one-pending-per-recipient rule.
func (s *service) InviteToPortal(ctx context.Context, params InviteParams) (*InviteResult, error) {
	profile, err := s.findProfile(ctx, params.TeamID, params.RosterID)
	if err != nil {
		return nil, err
	}

	if profile.LinkedUserID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "roster profile is already linked to a user")
	}
	if profile.Email == nil || strings.TrimSpace(*profile.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "roster profile has no email address")
	}

	result, err := s.invites.GenerateLink(ctx, invitations.GenerateLinkParams{
		TeamID:          params.TeamID,
		InvitedEmail:    *profile.Email,
		InvitedByUserID: params.InvitedByUserID,
		Type:            enums.InvitationTypeRosterMember,
		Context:         invitations.Context{"roster_id": profile.ID.String()},
	})
	if err != nil {
		return nil, err
	}

	s.sendInviteEmail(ctx, profile, result.URL)

	return &InviteResult{
		Invitation: result.Invitation,
		AcceptURL:  result.URL,
	}, nil
}

// sendInviteEmail is best-effort: the invitation row is committed and the
// link can be reshared from the admin UI if delivery fails.
func (s *service) sendInviteEmail(ctx context.Context, profile *models.RosterProfile, acceptURL string) {
	if s.mailer == nil {
		return
	}

	teamName := ""
	if team, err := s.teams.FindByID(ctx, profile.TeamID); err == nil {
		teamName = team.Name
	}

	err := s.mailer.SendInvitation(ctx, email.InvitationEmail{
		To:        *profile.Email,
		TeamName:  teamName,
		AcceptURL: acceptURL,
	})
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "send roster invitation email", err)
	}
}

func (s *service) findProfile(ctx context.Context, teamID, id uuid.UUID) (*models.RosterProfile, error) {
	if teamID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id and roster id are required")
	}
	profile, err := s.repo.FindByID(ctx, teamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "roster profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load roster profile")
	}
	return profile, nil
}
