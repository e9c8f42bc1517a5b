package invitations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

func newInvitationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:invitations_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  email_verified INTEGER NOT NULL DEFAULT 0,
  state TEXT NOT NULL DEFAULT 'needs_team',
  password_hash TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	teams := `
CREATE TABLE IF NOT EXISTS teams (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  deleted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	roles := `
CREATE TABLE IF NOT EXISTS roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  team_id TEXT NOT NULL,
  role_level TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	rolesUnique := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_roles_user_team ON roles (user_id, team_id);`
	invitationTokens := `
CREATE TABLE IF NOT EXISTS invitation_tokens (
  id TEXT PRIMARY KEY,
  token_digest TEXT NOT NULL UNIQUE,
  team_id TEXT NOT NULL,
  invited_email TEXT NOT NULL,
  invited_by_user_id TEXT NOT NULL,
  invitation_type TEXT NOT NULL,
  invitation_context TEXT,
  expires_at DATETIME NOT NULL,
  accepted_at DATETIME,
  created_at DATETIME
);`
	pendingUnique := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_invitation_tokens_pending
  ON invitation_tokens (team_id, invited_email, invitation_type)
  WHERE accepted_at IS NULL;`
	rosterProfiles := `
CREATE TABLE IF NOT EXISTS roster_profiles (
  id TEXT PRIMARY KEY,
  team_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  social TEXT,
  linked_user_id TEXT,
  deleted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{users, teams, roles, rolesUnique, invitationTokens, pendingUnique, rosterProfiles} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// gormTxRunner adapts a raw GORM connection to the TxRunner interface.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()

	team := &models.Team{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(team).Error)
	return team
}

func newTestUser(t *testing.T, db *gorm.DB, email string, state enums.UserState) *models.User {
	t.Helper()

	user := &models.User{
		ID:    uuid.New(),
		Email: email,
		Name:  "Test User",
		State: state,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestRosterProfile(t *testing.T, db *gorm.DB, teamID uuid.UUID, name string, email *string) *models.RosterProfile {
	t.Helper()

	profile := &models.RosterProfile{
		ID:     uuid.New(),
		TeamID: teamID,
		Name:   name,
		Email:  email,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedInvitation(t *testing.T, db *gorm.DB, row *models.InvitationToken) *models.InvitationToken {
	t.Helper()

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.ExpiresAt.IsZero() {
		row.ExpiresAt = time.Now().UTC().Add(time.Hour)
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "invitations-test"})
}
