package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/config"
	"github.com/mamadbah2/herdwise/internal/service/reporting"
	syncsvc "github.com/mamadbah2/herdwise/internal/service/sync"
)

// Scheduler manages the recurring jobs: the connectivity probe that drives
// offline replay, and the daily stats export when reporting is configured.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	probe        *syncsvc.Probe
	replayer     *syncsvc.Replayer
	listener     *syncsvc.Listener
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. reportingSvc may be nil
// when sheets export is disabled.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, probe *syncsvc.Probe, replayer *syncsvc.Replayer, listener *syncsvc.Listener, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		probe:        probe,
		replayer:     replayer,
		listener:     listener,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Sync.ProbeSchedule, s.probeConnectivity); err != nil {
		s.logger.Error("failed to schedule connectivity probe", zap.Error(err))
	}

	if s.reportingSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.exportDailyStats); err != nil {
			s.logger.Error("failed to schedule daily stats export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// probeConnectivity pings the remote store. On an offline-to-online
// transition it replays the queued offline actions and then refreshes every
// collection so the local state converges on the remote truth.
func (s *Scheduler) probeConnectivity() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, restored := s.probe.Check(ctx)
	if !restored {
		return
	}

	applied, err := s.replayer.Replay(ctx)
	if err != nil {
		s.logger.Error("offline replay failed", zap.Error(err))
		return
	}
	if applied > 0 {
		s.logger.Info("offline actions replayed", zap.Int("applied", applied))
	}

	if err := s.listener.RefreshAll(ctx); err != nil {
		s.logger.Error("post-replay refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) exportDailyStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.reportingSvc.AppendDailySnapshot(ctx); err != nil {
		s.logger.Error("failed to export daily stats", zap.Error(err))
	}
}
