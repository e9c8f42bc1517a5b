package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

func newMediaTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:media_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

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
	mediaTable := `
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
	for _, stmt := range []string{campaigns, rosterProfiles, mediaTable} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type mediaTxRunner struct {
	db *gorm.DB
}

func (r mediaTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fakeGCS struct {
	signErr   error
	readErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?sig=put", nil
}

func (f *fakeGCS) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?sig=get", nil
}

func (f *fakeGCS) DeleteObject(ctx context.Context, bucket, object string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, object)
	return nil
}

func newTestMediaService(t *testing.T, db *gorm.DB, gcs *fakeGCS) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		TxRunner:    mediaTxRunner{db: db},
		GCS:         gcs,
		Bucket:      "creatorstack-media",
		UploadTTL:   15 * time.Minute,
		DownloadTTL: 15 * time.Minute,
		MaxUploadMB: 20,
		Logger:      logger.New(logger.Options{ServiceName: "media-test"}),
	})
	require.NoError(t, err)
	return svc
}

func mediaOwnerPrincipal(teamID uuid.UUID) access.Principal {
	return access.Principal{UserID: uuid.New(), TeamID: teamID, Role: enums.RoleLevelOwner}
}

func seedTestCampaign(t *testing.T, db *gorm.DB, teamID uuid.UUID, rosterID *uuid.UUID) *models.Campaign {
	t.Helper()

	campaign := &models.Campaign{
		TeamID:           teamID,
		Name:             "launch",
		Status:           enums.CampaignStatusActive,
		AssignedRosterID: rosterID,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func TestPresignUploadCreatesPendingRow(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	gcs := &fakeGCS{}
	svc := newTestMediaService(t, db, gcs)
	principal := mediaOwnerPrincipal(uuid.New())
	campaign := seedTestCampaign(t, db, principal.TeamID, nil)

	out, err := svc.PresignUpload(context.Background(), principal, PresignInput{
		CampaignID: &campaign.ID,
		Kind:       enums.MediaKindBrief,
		MimeType:   "application/pdf",
		FileName:   "campaign brief.pdf",
		SizeBytes:  2048,
	})
	require.NoError(t, err)
	assert.Contains(t, out.SignedPUTURL, out.GCSKey)
	assert.Equal(t, "application/pdf", out.ContentType)

	var row models.Media
	require.NoError(t, db.First(&row, "id = ?", out.MediaID).Error)
	assert.Equal(t, enums.MediaStatusPending, row.Status)
	assert.Equal(t, principal.TeamID, row.TeamID)
	require.NotNil(t, row.CampaignID)
	assert.Equal(t, campaign.ID, *row.CampaignID)
	assert.Contains(t, row.GCSKey, "campaign-brief.pdf")
}

func TestPresignUploadValidation(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	principal := mediaOwnerPrincipal(uuid.New())

	cases := []struct {
		name  string
		input PresignInput
	}{
		{"unknown kind", PresignInput{Kind: "banner", MimeType: "image/png", FileName: "a.png", SizeBytes: 10}},
		{"missing file name", PresignInput{Kind: enums.MediaKindAvatar, MimeType: "image/png", FileName: "  ", SizeBytes: 10}},
		{"zero size", PresignInput{Kind: enums.MediaKindAvatar, MimeType: "image/png", FileName: "a.png", SizeBytes: 0}},
		{"oversize", PresignInput{Kind: enums.MediaKindAvatar, MimeType: "image/png", FileName: "a.png", SizeBytes: 21 * 1024 * 1024}},
		{"wrong mime for kind", PresignInput{Kind: enums.MediaKindContract, MimeType: "image/png", FileName: "a.png", SizeBytes: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PresignUpload(context.Background(), principal, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestPresignUploadRosterMemberDeliverableOnly(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	teamID := uuid.New()
	userID := uuid.New()

	profile := &models.RosterProfile{TeamID: teamID, Name: "Jamie Star", LinkedUserID: &userID}
	require.NoError(t, db.Create(profile).Error)
	assigned := seedTestCampaign(t, db, teamID, &profile.ID)
	hidden := seedTestCampaign(t, db, teamID, nil)

	member := access.Principal{UserID: userID, TeamID: teamID, Role: enums.RoleLevelRosterMember}

	_, err := svc.PresignUpload(context.Background(), member, PresignInput{
		CampaignID: &assigned.ID,
		Kind:       enums.MediaKindCampaignAsset,
		MimeType:   "image/png",
		FileName:   "a.png",
		SizeBytes:  10,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = svc.PresignUpload(context.Background(), member, PresignInput{
		Kind:      enums.MediaKindDeliverable,
		MimeType:  "image/png",
		FileName:  "a.png",
		SizeBytes: 10,
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.PresignUpload(context.Background(), member, PresignInput{
		CampaignID: &hidden.ID,
		Kind:       enums.MediaKindDeliverable,
		MimeType:   "image/png",
		FileName:   "a.png",
		SizeBytes:  10,
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	out, err := svc.PresignUpload(context.Background(), member, PresignInput{
		CampaignID: &assigned.ID,
		Kind:       enums.MediaKindDeliverable,
		MimeType:   "image/png",
		FileName:   "final-cut.png",
		SizeBytes:  10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.SignedPUTURL)
}

func TestPresignUploadCleansUpOnSignError(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{signErr: errors.New("signer down")})
	principal := mediaOwnerPrincipal(uuid.New())

	_, err := svc.PresignUpload(context.Background(), principal, PresignInput{
		Kind:      enums.MediaKindAvatar,
		MimeType:  "image/png",
		FileName:  "me.png",
		SizeBytes: 10,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteMediaTombstonesRow(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	gcs := &fakeGCS{}
	svc := newTestMediaService(t, db, gcs)
	principal := mediaOwnerPrincipal(uuid.New())

	row := &models.Media{
		TeamID:    principal.TeamID,
		Kind:      enums.MediaKindOther,
		Status:    enums.MediaStatusUploaded,
		GCSKey:    "media/other/x/file.pdf",
		FileName:  "file.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 10,
	}
	require.NoError(t, db.Create(row).Error)

	require.NoError(t, svc.DeleteMedia(context.Background(), principal, row.ID))

	var reloaded models.Media
	require.NoError(t, db.First(&reloaded, "id = ?", row.ID).Error)
	assert.Equal(t, enums.MediaStatusDeleted, reloaded.Status)
	assert.Equal(t, []string{row.GCSKey}, gcs.deleted)

	err := svc.DeleteMedia(context.Background(), principal, row.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDeleteMediaForbiddenForRestrictedRoles(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	teamID := uuid.New()

	row := &models.Media{
		TeamID:    teamID,
		Kind:      enums.MediaKindOther,
		Status:    enums.MediaStatusUploaded,
		GCSKey:    "media/other/x/file.pdf",
		FileName:  "file.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 10,
	}
	require.NoError(t, db.Create(row).Error)

	member := access.Principal{UserID: uuid.New(), TeamID: teamID, Role: enums.RoleLevelRosterMember}
	err := svc.DeleteMedia(context.Background(), member, row.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}
