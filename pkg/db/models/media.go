package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/pkg/enums"
)

// Media captures metadata for uploaded campaign assets. Rows are created in
// pending status when an upload URL is issued and flipped to uploaded once
// the client confirms the PUT.
type Media struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID     uuid.UUID         `gorm:"column:team_id;type:uuid;not null;index"`
	CampaignID *uuid.UUID        `gorm:"column:campaign_id;type:uuid;index"`
	UserID     *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Kind       enums.MediaKind   `gorm:"column:kind;type:media_kind;not null"`
	Status     enums.MediaStatus `gorm:"column:status;type:media_status;not null;default:'pending'"`
	GCSKey     string            `gorm:"column:gcs_key;not null"`
	FileName   string            `gorm:"column:file_name;not null"`
	MimeType   string            `gorm:"column:mime_type;not null"`
	SizeBytes  int64             `gorm:"column:size_bytes;not null"`
	UploadedAt *time.Time        `gorm:"column:uploaded_at"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// CampaignIDColumn marks Media as campaign-scoped for access filtering.
func (Media) CampaignIDColumn() string {
	return "campaign_id"
}
