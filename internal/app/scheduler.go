package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
)

// refreshRunTimeout bounds one scheduled refresh walk.
const refreshRunTimeout = 30 * time.Minute

// scheduler drives periodic metrics refreshes from a cron expression.
type scheduler struct {
	cron   *cron.Cron
	logger *common.Logger
}

// StartRefreshScheduler starts the internal cron job when a schedule is
// configured. An empty schedule disables it; callers then trigger refreshes
// over the HTTP surface only.
func (a *App) StartRefreshScheduler() error {
	schedule := a.Config.Refresh.Schedule
	if schedule == "" {
		a.Logger.Debug().Msg("No refresh schedule configured, internal scheduler disabled")
		return nil
	}

	s := &scheduler{
		cron:   cron.New(),
		logger: a.Logger,
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		runScheduledRefresh(a.BDCService, a.Logger)
	}); err != nil {
		return err
	}

	s.cron.Start()
	a.scheduler = s

	a.Logger.Info().Str("schedule", schedule).Msg("Refresh scheduler started")
	return nil
}

func (s *scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.logger.Warn().Msg("Refresh scheduler stop timed out")
	}
}

func runScheduledRefresh(service interfaces.BDCService, logger *common.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshRunTimeout)
	defer cancel()

	logger.Info().Msg("Scheduled metrics refresh starting")

	summary, err := service.RefreshAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Scheduled metrics refresh failed")
		return
	}

	logger.Info().
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("Scheduled metrics refresh finished")
}
