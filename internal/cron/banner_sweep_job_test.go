package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ekomart/ekomart-backend/pkg/logger"
)

func TestBannerSweepJobDeactivatesExpiredBanners(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeBannerSweepRepo{deactivated: 3}
	jobIface, err := NewBannerSweepJob(BannerSweepJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewBannerSweepJob: %v", err)
	}
	job := jobIface.(*bannerSweepJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected sweep at %s, got %s", now, repo.lastNow)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestBannerSweepJobPropagatesErrors(t *testing.T) {
	repo := &fakeBannerSweepRepo{err: errors.New("boom")}
	jobIface, err := NewBannerSweepJob(BannerSweepJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewBannerSweepJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

type fakeBannerSweepRepo struct {
	lastNow     time.Time
	deactivated int64
	err         error
	called      int
}

func (f *fakeBannerSweepRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	f.called++
	f.lastNow = now
	if f.err != nil {
		return 0, f.err
	}
	return f.deactivated, nil
}
