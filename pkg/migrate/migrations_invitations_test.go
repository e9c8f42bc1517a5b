package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInvitationMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_invitation_tokens.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no invitation migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS invitation_tokens",
		"ux_invitation_tokens_digest",
		"ux_invitation_tokens_pending",
		"WHERE accepted_at IS NULL",
		"FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS invitation_tokens",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRolesMigrationEnforcesOneRolePerTenant(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_teams_and_roles.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no teams/roles migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_roles_user_team ON roles (user_id, team_id)",
		"CREATE TYPE role_level AS ENUM",
		"'roster_member'",
		"DROP TABLE IF EXISTS roles",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
