package app

import (
	"context"
	"time"

	"github.com/tsundoku-app/core/internal/modules/recommend"
	pkgcron "github.com/tsundoku-app/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, recommendSvc *recommend.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "weekly_recommendation",
		Description: "積読本を一冊選んでおすすめメールを送信",
		Interval:    7 * 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cronLogger.Info("weekly recommendation run started")
			if err := recommendSvc.RunWeekly(ctx); err != nil {
				cronLogger.Warn("weekly recommendation run failed", zap.Error(err))
				return err
			}
			cronLogger.Info("weekly recommendation run finished")
			return nil
		},
	})
}
