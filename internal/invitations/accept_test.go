package invitations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	dbtypes "github.com/creatorstack/creatorstack-backend/pkg/db/types"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/security"
)

type stubSessionIssuer struct {
	tokens   *SessionTokens
	err      error
	calls    int
	lastTeam uuid.UUID
	lastRole enums.RoleLevel
}

func (s *stubSessionIssuer) Establish(ctx context.Context, user *models.User, teamID uuid.UUID, role enums.RoleLevel) (*SessionTokens, error) {
	s.calls++
	s.lastTeam = teamID
	s.lastRole = role
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

func newTestAcceptor(t *testing.T, db *gorm.DB, sessions SessionIssuer) Acceptor {
	t.Helper()

	acc, err := NewAcceptor(AcceptorParams{
		TxRunner: gormTxRunner{db: db},
		Registry: NewRegistry(testLogger()),
		Sessions: sessions,
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	return acc
}

func issueToken(t *testing.T, db *gorm.DB, teamID, inviterID uuid.UUID, email string, invType enums.InvitationType, ictx Context) string {
	t.Helper()

	plaintext, err := security.GenerateInviteToken()
	require.NoError(t, err)
	seedInvitation(t, db, &models.InvitationToken{
		TokenDigest:     security.HashInviteToken(plaintext),
		TeamID:          teamID,
		InvitedEmail:    email,
		InvitedByUserID: inviterID,
		InvitationType:  invType,
		Context:         dbtypes.JSONMap(ictx),
	})
	return plaintext
}

func TestAcceptProvisionsNewUser(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	sessions := &stubSessionIssuer{tokens: &SessionTokens{AccessToken: "at", RefreshToken: "rt"}}
	acc := newTestAcceptor(t, db, sessions)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	plaintext := issueToken(t, db, team.ID, inviter.ID, "newbie@example.com", enums.InvitationTypeTeamMember, nil)

	result, err := acc.Accept(ctx, plaintext)
	require.NoError(t, err)

	assert.Equal(t, team.ID, result.TeamID)
	assert.Equal(t, enums.RoleLevelMember, result.Role)
	assert.Equal(t, enums.InvitationTypeTeamMember, result.InvitationType)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "newbie@example.com").Error)
	assert.Equal(t, "newbie", user.Name)
	assert.True(t, user.EmailVerified)
	assert.Equal(t, enums.UserStateActive, user.State)
	assert.Nil(t, user.PasswordHash)

	var role models.Role
	require.NoError(t, db.First(&role, "user_id = ? AND team_id = ?", user.ID, team.ID).Error)
	assert.Equal(t, enums.RoleLevelMember, role.RoleLevel)

	var inv models.InvitationToken
	require.NoError(t, db.First(&inv, "token_digest = ?", security.HashInviteToken(plaintext)).Error)
	require.NotNil(t, inv.AcceptedAt)

	require.Equal(t, 1, sessions.calls)
	require.NotNil(t, result.Tokens)
	assert.Equal(t, "at", result.Tokens.AccessToken)
	assert.Equal(t, enums.RoleLevelMember, sessions.lastRole)
}

func TestAcceptExistingUser(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	existing := newTestUser(t, db, "veteran@example.com", enums.UserStateActive)
	plaintext := issueToken(t, db, team.ID, inviter.ID, "veteran@example.com", enums.InvitationTypeTeamMember, nil)

	result, err := acc.Accept(ctx, plaintext)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.User.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "veteran@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var role models.Role
	require.NoError(t, db.First(&role, "user_id = ? AND team_id = ?", existing.ID, team.ID).Error)
	assert.Equal(t, enums.RoleLevelMember, role.RoleLevel)
}

func TestAcceptRosterLinksProfile(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	email := "talent@example.com"
	profile := newTestRosterProfile(t, db, team.ID, "Jamie Star", &email)

	plaintext := issueToken(t, db, team.ID, inviter.ID, email, enums.InvitationTypeRosterMember,
		Context{"roster_id": profile.ID.String()})

	result, err := acc.Accept(ctx, plaintext)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleLevelRosterMember, result.Role)

	// The provisioned account takes its name from the roster profile.
	var user models.User
	require.NoError(t, db.First(&user, "email = ?", email).Error)
	assert.Equal(t, "Jamie Star", user.Name)

	var linked models.RosterProfile
	require.NoError(t, db.First(&linked, "id = ?", profile.ID).Error)
	require.NotNil(t, linked.LinkedUserID)
	assert.Equal(t, user.ID, *linked.LinkedUserID)
}

func TestAcceptRosterFailsWhenProfileGone(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	email := "talent@example.com"
	profile := newTestRosterProfile(t, db, team.ID, "Jamie Star", &email)

	plaintext := issueToken(t, db, team.ID, inviter.ID, email, enums.InvitationTypeRosterMember,
		Context{"roster_id": profile.ID.String()})

	// The profile disappears between issuance and acceptance.
	require.NoError(t, db.Model(&models.RosterProfile{}).
		Where("id = ?", profile.ID).
		Update("deleted_at", time.Now().UTC()).Error)

	_, err := acc.Accept(ctx, plaintext)
	require.ErrorIs(t, err, ErrInvalidContext)

	// The whole transaction rolls back: no account, no role, still pending.
	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", email).Count(&userCount).Error)
	assert.Zero(t, userCount)

	var row models.InvitationToken
	require.NoError(t, db.First(&row, "invited_email = ?", email).Error)
	assert.Nil(t, row.AcceptedAt)
}

func TestAcceptSecondUseRejected(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	plaintext := issueToken(t, db, team.ID, inviter.ID, "once@example.com", enums.InvitationTypeTeamMember, nil)

	_, err := acc.Accept(ctx, plaintext)
	require.NoError(t, err)

	_, err = acc.Accept(ctx, plaintext)
	require.ErrorIs(t, err, ErrAlreadyAccepted)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAcceptExpiredToken(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)

	plaintext, err := security.GenerateInviteToken()
	require.NoError(t, err)
	seedInvitation(t, db, &models.InvitationToken{
		TokenDigest:     security.HashInviteToken(plaintext),
		TeamID:          team.ID,
		InvitedEmail:    "late@example.com",
		InvitedByUserID: inviter.ID,
		InvitationType:  enums.InvitationTypeTeamMember,
		ExpiresAt:       time.Now().UTC().Add(-time.Minute),
	})

	_, err = acc.Accept(ctx, plaintext)
	require.ErrorIs(t, err, ErrInvalidOrExpired)

	// No partial state leaks out of the rolled-back transaction.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "late@example.com").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAcceptUnknownToken(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	_, err := acc.Accept(ctx, "never-issued")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = acc.Accept(ctx, "   ")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestAcceptOverwritesExistingRole(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	existing := newTestUser(t, db, "viewer@example.com", enums.UserStateActive)
	require.NoError(t, db.Create(&models.Role{
		ID:        uuid.New(),
		UserID:    existing.ID,
		TeamID:    team.ID,
		RoleLevel: enums.RoleLevelViewer,
	}).Error)

	plaintext := issueToken(t, db, team.ID, inviter.ID, "viewer@example.com", enums.InvitationTypeTeamMember, nil)

	_, err := acc.Accept(ctx, plaintext)
	require.NoError(t, err)

	var roles []models.Role
	require.NoError(t, db.Find(&roles, "user_id = ? AND team_id = ?", existing.ID, team.ID).Error)
	require.Len(t, roles, 1)
	assert.Equal(t, enums.RoleLevelMember, roles[0].RoleLevel)
}

func TestAcceptReservedType(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	acc := newTestAcceptor(t, db, nil)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	plaintext := issueToken(t, db, team.ID, inviter.ID, "brand@example.com", enums.InvitationTypeGuestBrand, nil)

	_, err := acc.Accept(ctx, plaintext)
	require.ErrorIs(t, err, ErrHandlerNotImplemented)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// The token survives the failed attempt untouched.
	var inv models.InvitationToken
	require.NoError(t, db.First(&inv, "token_digest = ?", security.HashInviteToken(plaintext)).Error)
	assert.Nil(t, inv.AcceptedAt)
}

func TestAcceptSessionFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	sessions := &stubSessionIssuer{err: errors.New("redis down")}
	acc := newTestAcceptor(t, db, sessions)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)
	plaintext := issueToken(t, db, team.ID, inviter.ID, "resilient@example.com", enums.InvitationTypeTeamMember, nil)

	result, err := acc.Accept(ctx, plaintext)
	require.NoError(t, err)
	assert.Nil(t, result.Tokens)
	assert.Equal(t, 1, sessions.calls)

	var inv models.InvitationToken
	require.NoError(t, db.First(&inv, "token_digest = ?", security.HashInviteToken(plaintext)).Error)
	require.NotNil(t, inv.AcceptedAt)
}
