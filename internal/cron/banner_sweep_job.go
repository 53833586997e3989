package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ekomart/ekomart-backend/pkg/logger"
)

type BannerSweepJobParams struct {
	Logger     *logger.Logger
	Repository bannerSweepRepo
}

type bannerSweepRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

func NewBannerSweepJob(params BannerSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("banners repository required")
	}
	return &bannerSweepJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type bannerSweepJob struct {
	logg *logger.Logger
	repo bannerSweepRepo
	now  func() time.Time
}

func (j *bannerSweepJob) Name() string { return "banner-window-sweep" }

func (j *bannerSweepJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	deactivated, err := j.repo.DeactivateExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("banner window sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"swept_at":         now,
		"rows_deactivated": deactivated,
	})
	j.logg.Info(logCtx, "banner window sweep complete")
	return nil
}
