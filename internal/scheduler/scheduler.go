package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/catalog"
	"github.com/adiwinata/gudangbot/internal/config"
	"github.com/adiwinata/gudangbot/internal/service/conversation"
)

const sessionSweepSchedule = "@every 1m"

// Scheduler manages background maintenance: periodic catalog refresh and
// sweeping of expired conversation sessions.
type Scheduler struct {
	cron     *cron.Cron
	catalog  *catalog.Service
	sessions *conversation.SessionManager
	cfg      config.Config
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, catalogSvc *catalog.Service, sessions *conversation.SessionManager, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		catalog:  catalogSvc,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("catalog_refresh", s.cfg.Catalog.RefreshSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Catalog.RefreshSchedule, s.refreshCatalog); err != nil {
		s.logger.Error("failed to schedule catalog refresh", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(sessionSweepSchedule, s.sweepSessions); err != nil {
		s.logger.Error("failed to schedule session sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled catalog refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled catalog refresh completed", zap.Int("parts", s.catalog.Len()))
}

func (s *Scheduler) sweepSessions() {
	removed := s.sessions.PruneExpired(s.cfg.Conversation.SessionTimeout, time.Now())
	if removed > 0 {
		s.logger.Info("expired sessions discarded", zap.Int("count", removed))
	}
}
