package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ekomart/ekomart-backend/pkg/logger"
)

const activityRetentionDays = 90

type ActivityCleanupJobParams struct {
	Logger     *logger.Logger
	Repository activityCleanupRepo
	Retention  int
}

type activityCleanupRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewActivityCleanupJob(params ActivityCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = activityRetentionDays
	}
	return &activityCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type activityCleanupJob struct {
	logg      *logger.Logger
	repo      activityCleanupRepo
	retention int
	now       func() time.Time
}

func (j *activityCleanupJob) Name() string { return "activity-log-cleanup" }

func (j *activityCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("activity log cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "activity log cleanup complete")
	return nil
}
