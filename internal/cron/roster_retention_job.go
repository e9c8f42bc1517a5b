package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

const rosterRetentionDays = 90

// RosterRetentionJobParams configures the soft-deleted profile purge.
type RosterRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	RosterRepo    rosterRetentionRepo
	RetentionDays int
}

type rosterRetentionRepo interface {
	PurgeDeletedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NewRosterRetentionJob builds the job that hard-deletes roster profiles
// past their soft-delete retention window. Campaign assignments referencing
// a purged profile are nulled by the foreign key.
func NewRosterRetentionJob(params RosterRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.RosterRepo == nil {
		return nil, fmt.Errorf("roster repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = rosterRetentionDays
	}
	return &rosterRetentionJob{
		logg:          params.Logger,
		db:            params.DB,
		repo:          params.RosterRepo,
		retentionDays: retention,
		now:           time.Now,
	}, nil
}

type rosterRetentionJob struct {
	logg          *logger.Logger
	db            txRunner
	repo          rosterRetentionRepo
	retentionDays int
	now           func() time.Time
}

func (j *rosterRetentionJob) Name() string { return "roster-retention" }

func (j *rosterRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retentionDays) * 24 * time.Hour)
	var purged int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.repo.PurgeDeletedBefore(ctx, tx, cutoff)
		if err != nil {
			return fmt.Errorf("purge roster profiles: %w", err)
		}
		purged = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("roster retention: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retentionDays,
		"purged":         purged,
	})
	j.logg.Info(logCtx, "roster retention sweep complete")
	return nil
}
