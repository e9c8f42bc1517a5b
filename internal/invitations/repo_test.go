package invitations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/creatorstack/creatorstack-backend/pkg/security"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)

	plaintext, err := security.GenerateInviteToken()
	require.NoError(t, err)
	digest := security.HashInviteToken(plaintext)

	row, err := repo.Create(ctx, CreateParams{
		TokenDigest:     digest,
		TeamID:          team.ID,
		InvitedEmail:    "talent@example.com",
		InvitedByUserID: inviter.ID,
		InvitationType:  enums.InvitationTypeTeamMember,
		ExpiresAt:       time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, digest, row.TokenDigest)
	assert.Nil(t, row.AcceptedAt)

	found, err := repo.FindByDigest(ctx, digest)
	require.NoError(t, err)
	assert.Equal(t, row.ID, found.ID)

	pending, err := repo.FindPending(ctx, team.ID, "talent@example.com", enums.InvitationTypeTeamMember)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, row.ID, pending.ID)

	none, err := repo.FindPending(ctx, team.ID, "talent@example.com", enums.InvitationTypeRosterMember)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRepositoryDuplicatePending(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)

	base := CreateParams{
		TeamID:          team.ID,
		InvitedEmail:    "talent@example.com",
		InvitedByUserID: inviter.ID,
		InvitationType:  enums.InvitationTypeTeamMember,
		ExpiresAt:       time.Now().UTC().Add(time.Hour),
	}

	first := base
	first.TokenDigest = security.HashInviteToken("token-one")
	created, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := base
	second.TokenDigest = security.HashInviteToken("token-two")
	_, err = repo.Create(ctx, second)
	require.ErrorIs(t, err, ErrDuplicatePending)

	// A different type for the same recipient is allowed.
	otherType := base
	otherType.TokenDigest = security.HashInviteToken("token-three")
	otherType.InvitationType = enums.InvitationTypeRosterMember
	_, err = repo.Create(ctx, otherType)
	require.NoError(t, err)

	// Accepting the first frees the slot for a fresh invitation.
	require.NoError(t, repo.MarkAccepted(ctx, created.ID, time.Now().UTC()))

	reissued := base
	reissued.TokenDigest = security.HashInviteToken("token-four")
	_, err = repo.Create(ctx, reissued)
	require.NoError(t, err)
}

func TestRepositoryMarkAccepted(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	team := newTestTeam(t, db, "Acme Talent")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)

	digest := security.HashInviteToken("accept-me")
	row, err := repo.Create(ctx, CreateParams{
		TokenDigest:     digest,
		TeamID:          team.ID,
		InvitedEmail:    "talent@example.com",
		InvitedByUserID: inviter.ID,
		InvitationType:  enums.InvitationTypeTeamMember,
		ExpiresAt:       time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)

	acceptedAt := time.Now().UTC()
	require.NoError(t, repo.MarkAccepted(ctx, row.ID, acceptedAt))

	reloaded, err := repo.FindByDigest(ctx, digest)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AcceptedAt)
	assert.False(t, reloaded.IsValid(time.Now().UTC()))

	pending, err := repo.FindPending(ctx, team.ID, "talent@example.com", enums.InvitationTypeTeamMember)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestRepositoryListForTeam(t *testing.T) {
	t.Parallel()

	db := newInvitationsTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	team := newTestTeam(t, db, "Acme Talent")
	other := newTestTeam(t, db, "Other Team")
	inviter := newTestUser(t, db, "owner@acme.test", enums.UserStateActive)

	for i, email := range []string{"a@example.com", "b@example.com"} {
		_, err := repo.Create(ctx, CreateParams{
			TokenDigest:     security.HashInviteToken("list-" + email),
			TeamID:          team.ID,
			InvitedEmail:    email,
			InvitedByUserID: inviter.ID,
			InvitationType:  enums.InvitationTypeTeamMember,
			ExpiresAt:       time.Now().UTC().Add(time.Duration(i+1) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, CreateParams{
		TokenDigest:     security.HashInviteToken("list-elsewhere"),
		TeamID:          other.ID,
		InvitedEmail:    "c@example.com",
		InvitedByUserID: inviter.ID,
		InvitationType:  enums.InvitationTypeTeamMember,
		ExpiresAt:       time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)

	rows, err := repo.ListForTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, team.ID, row.TeamID)
	}
}
