package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

func newAccessTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:access_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

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
	campaigns := `
CREATE TABLE IF NOT EXISTS campaigns (
  id TEXT PRIMARY KEY,
  team_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  assigned_roster_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	media := `
CREATE TABLE IF NOT EXISTS media (
  id TEXT PRIMARY KEY,
  team_id TEXT NOT NULL,
  campaign_id TEXT,
  user_id TEXT,
  kind TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  gcs_key TEXT NOT NULL,
  file_name TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL DEFAULT 0,
  uploaded_at DATETIME,
  created_at DATETIME
);`

	for _, stmt := range []string{rosterProfiles, campaigns, media} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCampaign(t *testing.T, db *gorm.DB, teamID uuid.UUID, name string, rosterID *uuid.UUID) *models.Campaign {
	t.Helper()

	campaign := &models.Campaign{
		TeamID:           teamID,
		Name:             name,
		Status:           enums.CampaignStatusActive,
		AssignedRosterID: rosterID,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func seedProfile(t *testing.T, db *gorm.DB, teamID uuid.UUID, name string, linkedUserID *uuid.UUID) *models.RosterProfile {
	t.Helper()

	profile := &models.RosterProfile{
		TeamID:       teamID,
		Name:         name,
		LinkedUserID: linkedUserID,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedMedia(t *testing.T, db *gorm.DB, teamID uuid.UUID, campaignID *uuid.UUID, fileName string) *models.Media {
	t.Helper()

	m := &models.Media{
		TeamID:     teamID,
		CampaignID: campaignID,
		Kind:       enums.MediaKindCampaignAsset,
		Status:     enums.MediaStatusUploaded,
		GCSKey:     "media/campaign_asset/" + fileName,
		FileName:   fileName,
		MimeType:   "image/png",
		SizeBytes:  1024,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func visibleCampaignNames(t *testing.T, db *gorm.DB, res *Result) []string {
	t.Helper()

	var names []string
	err := db.Model(&models.Campaign{}).
		Scopes(res.Scope(&models.Campaign{})).
		Order("name").
		Pluck("name", &names).Error
	require.NoError(t, err)
	return names
}

func TestResolveManagerRolesUnrestricted(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	seedCampaign(t, db, teamID, "spring launch", nil)
	seedCampaign(t, db, teamID, "summer push", nil)
	seedCampaign(t, db, uuid.New(), "other team", nil)

	resolver := NewResolver()
	for _, role := range []enums.RoleLevel{
		enums.RoleLevelOwner,
		enums.RoleLevelAdmin,
		enums.RoleLevelMember,
		enums.RoleLevelViewer,
	} {
		res, err := resolver.Resolve(context.Background(), db, Principal{
			UserID: uuid.New(),
			TeamID: teamID,
			Role:   role,
		})
		require.NoError(t, err)
		assert.False(t, res.Restricted, "role %s", role)
		assert.Equal(t,
			[]string{"spring launch", "summer push"},
			visibleCampaignNames(t, db, res),
			"role %s", role)
	}
}

func TestResolveRosterMemberSeesOnlyAssignedCampaigns(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	userID := uuid.New()

	profile := seedProfile(t, db, teamID, "Jamie Star", &userID)
	seedCampaign(t, db, teamID, "assigned one", &profile.ID)
	seedCampaign(t, db, teamID, "assigned two", &profile.ID)
	seedCampaign(t, db, teamID, "unassigned", nil)

	otherProfile := seedProfile(t, db, teamID, "Other Talent", nil)
	seedCampaign(t, db, teamID, "someone else's", &otherProfile.ID)

	res, err := NewResolver().Resolve(context.Background(), db, Principal{
		UserID: userID,
		TeamID: teamID,
		Role:   enums.RoleLevelRosterMember,
	})
	require.NoError(t, err)
	assert.True(t, res.Restricted)
	assert.Len(t, res.CampaignIDs, 2)
	assert.Equal(t, []string{"assigned one", "assigned two"}, visibleCampaignNames(t, db, res))
}

func TestResolveRosterMemberWithoutLinkedProfileSeesNothing(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	seedCampaign(t, db, teamID, "spring launch", nil)

	res, err := NewResolver().Resolve(context.Background(), db, Principal{
		UserID: uuid.New(),
		TeamID: teamID,
		Role:   enums.RoleLevelRosterMember,
	})
	require.NoError(t, err)
	assert.True(t, res.Restricted)
	assert.Empty(t, res.CampaignIDs)
	assert.Empty(t, visibleCampaignNames(t, db, res))
}

func TestResolveRosterMemberIgnoresDeletedProfiles(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	userID := uuid.New()

	profile := seedProfile(t, db, teamID, "Jamie Star", &userID)
	seedCampaign(t, db, teamID, "was mine", &profile.ID)
	require.NoError(t, db.Model(&models.RosterProfile{}).
		Where("id = ?", profile.ID).
		Update("deleted_at", gorm.Expr("CURRENT_TIMESTAMP")).Error)

	res, err := NewResolver().Resolve(context.Background(), db, Principal{
		UserID: userID,
		TeamID: teamID,
		Role:   enums.RoleLevelRosterMember,
	})
	require.NoError(t, err)
	assert.True(t, res.Restricted)
	assert.Empty(t, visibleCampaignNames(t, db, res))
}

func TestResolveGuestBrandSeesNothing(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	seedCampaign(t, db, teamID, "spring launch", nil)

	res, err := NewResolver().Resolve(context.Background(), db, Principal{
		UserID: uuid.New(),
		TeamID: teamID,
		Role:   enums.RoleLevelGuestBrand,
	})
	require.NoError(t, err)
	assert.True(t, res.Restricted)
	assert.Empty(t, visibleCampaignNames(t, db, res))
}

func TestScopeFiltersCampaignScopedModels(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	userID := uuid.New()

	profile := seedProfile(t, db, teamID, "Jamie Star", &userID)
	mine := seedCampaign(t, db, teamID, "mine", &profile.ID)
	other := seedCampaign(t, db, teamID, "not mine", nil)

	seedMedia(t, db, teamID, &mine.ID, "brief.pdf")
	seedMedia(t, db, teamID, &other.ID, "secret.pdf")
	seedMedia(t, db, teamID, nil, "unattached.pdf")

	res, err := NewResolver().Resolve(context.Background(), db, Principal{
		UserID: userID,
		TeamID: teamID,
		Role:   enums.RoleLevelRosterMember,
	})
	require.NoError(t, err)

	var files []string
	require.NoError(t, db.Model(&models.Media{}).
		Scopes(res.Scope(&models.Media{})).
		Pluck("file_name", &files).Error)
	assert.Equal(t, []string{"brief.pdf"}, files)
}

func TestScopeDeniesRestrictedPrincipalOnUnknownModel(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	userID := uuid.New()

	profile := seedProfile(t, db, teamID, "Jamie Star", &userID)
	seedCampaign(t, db, teamID, "mine", &profile.ID)

	res, err := NewResolver().Resolve(context.Background(), db, Principal{
		UserID: userID,
		TeamID: teamID,
		Role:   enums.RoleLevelRosterMember,
	})
	require.NoError(t, err)
	require.True(t, res.Restricted)

	// Roster profiles carry no campaign FK, so a restricted principal
	// querying them through the scope gets an empty set.
	var profiles []models.RosterProfile
	require.NoError(t, db.Model(&models.RosterProfile{}).
		Scopes(res.Scope(&models.RosterProfile{})).
		Find(&profiles).Error)
	assert.Empty(t, profiles)
}

func TestResolveFirstApplicablePolicyWins(t *testing.T) {
	t.Parallel()

	db := newAccessTestDB(t)
	teamID := uuid.New()
	pinned := uuid.New()

	first := policyFunc(func(ctx context.Context, tx *gorm.DB, p Principal) ([]uuid.UUID, bool, error) {
		return []uuid.UUID{pinned}, true, nil
	})
	second := policyFunc(func(ctx context.Context, tx *gorm.DB, p Principal) ([]uuid.UUID, bool, error) {
		t.Fatal("second policy should not run")
		return nil, false, nil
	})

	res, err := NewResolverWithPolicies(first, second).Resolve(context.Background(), db, Principal{
		UserID: uuid.New(),
		TeamID: teamID,
		Role:   enums.RoleLevelViewer,
	})
	require.NoError(t, err)
	assert.True(t, res.Restricted)
	assert.Equal(t, []uuid.UUID{pinned}, res.CampaignIDs)
}

type policyFunc func(ctx context.Context, tx *gorm.DB, principal Principal) ([]uuid.UUID, bool, error)

func (f policyFunc) Resolve(ctx context.Context, tx *gorm.DB, principal Principal) ([]uuid.UUID, bool, error) {
	return f(ctx, tx, principal)
}
