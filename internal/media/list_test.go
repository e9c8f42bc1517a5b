package media

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/campaigns/access"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

func seedUploadedMedia(t *testing.T, db *gorm.DB, teamID uuid.UUID, campaignID *uuid.UUID, fileName string, createdAt time.Time) *models.Media {
	t.Helper()

	now := time.Now()
	row := &models.Media{
		ID:         uuid.New(),
		TeamID:     teamID,
		CampaignID: campaignID,
		Kind:       enums.MediaKindCampaignAsset,
		Status:     enums.MediaStatusUploaded,
		GCSKey:     "media/campaign_asset/" + fileName,
		FileName:   fileName,
		MimeType:   "image/png",
		SizeBytes:  100,
		UploadedAt: &now,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestListMediaPaginates(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	principal := mediaOwnerPrincipal(uuid.New())

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedUploadedMedia(t, db, principal.TeamID, nil, "file-"+uuid.NewString()+".png", base.Add(time.Duration(i)*time.Minute))
	}

	first, err := svc.ListMedia(context.Background(), principal, ListParams{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	require.NotEmpty(t, first.Cursor)
	assert.Contains(t, first.Items[0].SignedURL, "sig=get")

	second, err := svc.ListMedia(context.Background(), principal, ListParams{Limit: 3, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Empty(t, second.Cursor)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		require.False(t, seen[item.ID], "duplicate item across pages")
		seen[item.ID] = true
	}
}

func TestListMediaInvalidCursor(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	principal := mediaOwnerPrincipal(uuid.New())

	_, err := svc.ListMedia(context.Background(), principal, ListParams{Cursor: "not base64"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListMediaFilters(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	principal := mediaOwnerPrincipal(uuid.New())
	campaign := seedTestCampaign(t, db, principal.TeamID, nil)

	seedUploadedMedia(t, db, principal.TeamID, &campaign.ID, "brief.png", time.Now())
	seedUploadedMedia(t, db, principal.TeamID, nil, "loose.png", time.Now())

	byCampaign, err := svc.ListMedia(context.Background(), principal, ListParams{CampaignID: &campaign.ID})
	require.NoError(t, err)
	require.Len(t, byCampaign.Items, 1)
	assert.Equal(t, "brief.png", byCampaign.Items[0].FileName)

	bySearch, err := svc.ListMedia(context.Background(), principal, ListParams{Search: "loose"})
	require.NoError(t, err)
	require.Len(t, bySearch.Items, 1)
	assert.Equal(t, "loose.png", bySearch.Items[0].FileName)
}

func TestListMediaExcludesTombstoned(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	principal := mediaOwnerPrincipal(uuid.New())

	row := seedUploadedMedia(t, db, principal.TeamID, nil, "gone.png", time.Now())
	require.NoError(t, db.Model(&models.Media{}).
		Where("id = ?", row.ID).
		Update("status", enums.MediaStatusDeleted).Error)

	out, err := svc.ListMedia(context.Background(), principal, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestListMediaRestrictedToVisibleCampaigns(t *testing.T) {
	t.Parallel()

	db := newMediaTestDB(t)
	svc := newTestMediaService(t, db, &fakeGCS{})
	teamID := uuid.New()
	userID := uuid.New()

	profile := &models.RosterProfile{TeamID: teamID, Name: "Jamie Star", LinkedUserID: &userID}
	require.NoError(t, db.Create(profile).Error)
	mine := seedTestCampaign(t, db, teamID, &profile.ID)
	other := seedTestCampaign(t, db, teamID, nil)

	seedUploadedMedia(t, db, teamID, &mine.ID, "mine.png", time.Now())
	seedUploadedMedia(t, db, teamID, &other.ID, "other.png", time.Now())
	seedUploadedMedia(t, db, teamID, nil, "unattached.png", time.Now())

	member := access.Principal{UserID: userID, TeamID: teamID, Role: enums.RoleLevelRosterMember}
	out, err := svc.ListMedia(context.Background(), member, ListParams{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "mine.png", out.Items[0].FileName)
}
