package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/email"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*models.RosterProfile
	updated  *models.RosterProfile
	deleted  *uuid.UUID
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*models.RosterProfile{}}
}

func (f *fakeProfileRepo) Create(ctx context.Context, dto CreateProfileDTO) (*models.RosterProfile, error) {
	profile := dto.ToModel()
	profile.ID = uuid.New()
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, teamID, id uuid.UUID) (*models.RosterProfile, error) {
	profile, ok := f.profiles[id]
	if !ok || profile.TeamID != teamID || profile.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *profile
	return &cp, nil
}

func (f *fakeProfileRepo) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.RosterProfile, error) {
	var out []models.RosterProfile
	for _, p := range f.profiles {
		if p.TeamID == teamID && p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *models.RosterProfile) error {
	f.profiles[profile.ID] = profile
	f.updated = profile
	return nil
}

func (f *fakeProfileRepo) SoftDelete(ctx context.Context, teamID, id uuid.UUID, at time.Time) error {
	if profile, ok := f.profiles[id]; ok {
		profile.DeletedAt = &at
	}
	f.deleted = &id
	return nil
}

type fakeTeamLookup struct {
	team *models.Team
}

func (f *fakeTeamLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	if f.team == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.team, nil
}

type fakeInviteIssuer struct {
	result     *invitations.GenerateLinkResult
	err        error
	lastParams invitations.GenerateLinkParams
	calls      int
}

func (f *fakeInviteIssuer) GenerateLink(ctx context.Context, params invitations.GenerateLinkParams) (*invitations.GenerateLinkResult, error) {
	f.calls++
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeMailer struct {
	sent []email.InvitationEmail
	err  error
}

func (f *fakeMailer) SendInvitation(ctx context.Context, msg email.InvitationEmail) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type rosterTestSetup struct {
	service Service
	repo    *fakeProfileRepo
	invites *fakeInviteIssuer
	mailer  *fakeMailer
	teamID  uuid.UUID
}

func newRosterTestSetup(t *testing.T) *rosterTestSetup {
	t.Helper()
	teamID := uuid.New()
	repo := newFakeProfileRepo()
	invites := &fakeInviteIssuer{
		result: &invitations.GenerateLinkResult{
			Invitation: &models.InvitationToken{ID: uuid.New(), TeamID: teamID},
			URL:        "https://app.creatorstack.test/invite/accept?token=tok",
		},
	}
	mailer := &fakeMailer{}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		TeamsRepo: &fakeTeamLookup{team: &models.Team{ID: teamID, Name: "Acme Talent"}},
		Invites:   invites,
		Mailer:    mailer,
	})
	if err != nil {
		t.Fatalf("new roster service: %v", err)
	}
	return &rosterTestSetup{
		service: svc,
		repo:    repo,
		invites: invites,
		mailer:  mailer,
		teamID:  teamID,
	}
}

func seedProfile(setup *rosterTestSetup, email *string, linked *uuid.UUID) *models.RosterProfile {
	profile := &models.RosterProfile{
		ID:           uuid.New(),
		TeamID:       setup.teamID,
		Name:         "Jamie Star",
		Email:        email,
		LinkedUserID: linked,
	}
	setup.repo.profiles[profile.ID] = profile
	return profile
}

func strPtr(v string) *string {
	return &v
}

func TestRosterCreateNormalizesEmail(t *testing.T) {
	setup := newRosterTestSetup(t)

	dto, err := setup.service.Create(context.Background(), CreateProfileDTO{
		TeamID: setup.teamID,
		Name:   "Jamie Star",
		Email:  strPtr("  Jamie@Example.COM "),
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if dto.Email == nil || *dto.Email != "jamie@example.com" {
		t.Fatalf("expected normalized email, got %v", dto.Email)
	}
}

func TestRosterInviteToPortal(t *testing.T) {
	setup := newRosterTestSetup(t)
	profile := seedProfile(setup, strPtr("jamie@example.com"), nil)
	inviter := uuid.New()

	result, err := setup.service.InviteToPortal(context.Background(), InviteParams{
		TeamID:          setup.teamID,
		RosterID:        profile.ID,
		InvitedByUserID: inviter,
	})
	if err != nil {
		t.Fatalf("invite to portal: %v", err)
	}

	if setup.invites.calls != 1 {
		t.Fatalf("expected one invitation issuance, got %d", setup.invites.calls)
	}
	if setup.invites.lastParams.Type != enums.InvitationTypeRosterMember {
		t.Fatalf("expected roster member invitation, got %s", setup.invites.lastParams.Type)
	}
	if setup.invites.lastParams.InvitedEmail != "jamie@example.com" {
		t.Fatalf("unexpected invited email %s", setup.invites.lastParams.InvitedEmail)
	}
	if got, ok := setup.invites.lastParams.Context.UUID("roster_id"); !ok || got != profile.ID {
		t.Fatalf("expected roster_id context, got %v", setup.invites.lastParams.Context)
	}
	if result.AcceptURL == "" {
		t.Fatalf("expected accept URL in result")
	}

	if len(setup.mailer.sent) != 1 {
		t.Fatalf("expected one invitation email, got %d", len(setup.mailer.sent))
	}
	if setup.mailer.sent[0].To != "jamie@example.com" {
		t.Fatalf("unexpected email recipient %s", setup.mailer.sent[0].To)
	}
	if setup.mailer.sent[0].TeamName != "Acme Talent" {
		t.Fatalf("unexpected team name %s", setup.mailer.sent[0].TeamName)
	}
}

func TestRosterInviteRequiresEmail(t *testing.T) {
	setup := newRosterTestSetup(t)
	profile := seedProfile(setup, nil, nil)

	_, err := setup.service.InviteToPortal(context.Background(), InviteParams{
		TeamID:          setup.teamID,
		RosterID:        profile.ID,
		InvitedByUserID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected validation error for missing email")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if setup.invites.calls != 0 {
		t.Fatalf("expected no issuance, got %d", setup.invites.calls)
	}
}

func TestRosterInviteRejectsLinkedProfile(t *testing.T) {
	setup := newRosterTestSetup(t)
	linked := uuid.New()
	profile := seedProfile(setup, strPtr("jamie@example.com"), &linked)

	_, err := setup.service.InviteToPortal(context.Background(), InviteParams{
		TeamID:          setup.teamID,
		RosterID:        profile.ID,
		InvitedByUserID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected conflict for linked profile")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRosterInvitePropagatesPendingConflict(t *testing.T) {
	setup := newRosterTestSetup(t)
	profile := seedProfile(setup, strPtr("jamie@example.com"), nil)
	setup.invites.err = pkgerrors.New(pkgerrors.CodeConflict, "an invitation is already pending for jamie@example.com")

	_, err := setup.service.InviteToPortal(context.Background(), InviteParams{
		TeamID:          setup.teamID,
		RosterID:        profile.ID,
		InvitedByUserID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected conflict to propagate")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(setup.mailer.sent) != 0 {
		t.Fatalf("expected no email on failed issuance")
	}
}

func TestRosterInviteSurvivesMailFailure(t *testing.T) {
	setup := newRosterTestSetup(t)
	profile := seedProfile(setup, strPtr("jamie@example.com"), nil)
	setup.mailer.err = errors.New("smtp down")

	result, err := setup.service.InviteToPortal(context.Background(), InviteParams{
		TeamID:          setup.teamID,
		RosterID:        profile.ID,
		InvitedByUserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected invite to succeed despite mail failure: %v", err)
	}
	if result.AcceptURL == "" {
		t.Fatalf("expected accept URL despite mail failure")
	}
}

func TestRosterDeleteSoftDeletes(t *testing.T) {
	setup := newRosterTestSetup(t)
	profile := seedProfile(setup, strPtr("jamie@example.com"), nil)

	if err := setup.service.Delete(context.Background(), setup.teamID, profile.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if setup.repo.deleted == nil || *setup.repo.deleted != profile.ID {
		t.Fatalf("expected soft delete of %s", profile.ID)
	}

	_, err := setup.service.Get(context.Background(), setup.teamID, profile.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
