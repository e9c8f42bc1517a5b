package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

const pendingMediaRetentionDays = 7

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PendingMediaCleanupJobParams configures the stale upload sweep.
type PendingMediaCleanupJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	MediaRepo     pendingMediaCleanupRepo
	RetentionDays int
}

type pendingMediaCleanupRepo interface {
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error)
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

// NewPendingMediaCleanupJob builds the job that removes media rows whose
// presigned upload never finalized. The object never reached the bucket, so
// only the metadata row needs to go.
func NewPendingMediaCleanupJob(params PendingMediaCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.MediaRepo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = pendingMediaRetentionDays
	}
	return &pendingMediaCleanupJob{
		logg:          params.Logger,
		db:            params.DB,
		repo:          params.MediaRepo,
		retentionDays: retention,
		now:           time.Now,
	}, nil
}

type pendingMediaCleanupJob struct {
	logg          *logger.Logger
	db            txRunner
	repo          pendingMediaCleanupRepo
	retentionDays int
	now           func() time.Time
}

func (j *pendingMediaCleanupJob) Name() string { return "pending-media-cleanup" }

func (j *pendingMediaCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retentionDays) * 24 * time.Hour)
	var (
		deleted    int64
		candidates int
	)
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.ListPendingBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("query pending media: %w", err)
		}
		candidates = len(rows)
		for _, mediaRow := range rows {
			if err := j.repo.DeleteWithTx(tx, mediaRow.ID); err != nil {
				return fmt.Errorf("delete media row: %w", err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pending media cleanup: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retentionDays,
		"candidates":     candidates,
		"deleted":        deleted,
	})
	j.logg.Info(logCtx, "pending media cleanup complete")
	return nil
}
