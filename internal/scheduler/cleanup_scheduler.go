package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/pkg/logger"
)

// CleanupScheduler remove rascunhos abandonados periodicamente
type CleanupScheduler struct {
	cron          *cron.Cron
	briefingRepo  repository.BriefingRepository
	retentionDays int
	schedule      string
}

// NewCleanupScheduler cria o agendador de limpeza de rascunhos
func NewCleanupScheduler(briefingRepo repository.BriefingRepository, retentionDays int, schedule string) *CleanupScheduler {
	return &CleanupScheduler{
		cron:          cron.New(),
		briefingRepo:  briefingRepo,
		retentionDays: retentionDays,
		schedule:      schedule,
	}
}

// Start inicia o agendador
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

		logger.Info("Starting scheduled draft cleanup", map[string]interface{}{
			"retention_days": s.retentionDays,
			"cutoff":         cutoff.Format(time.RFC3339),
		})

		removed, err := s.briefingRepo.DeleteStaleDrafts(cutoff)
		if err != nil {
			logger.Error("Failed to clean up stale drafts", err)
			return
		}

		logger.Info("Draft cleanup finished", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for draft cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Draft cleanup scheduler started", map[string]interface{}{
		"schedule":       s.schedule,
		"retention_days": s.retentionDays,
	})

	return nil
}

// Stop interrompe o agendador
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping draft cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Draft cleanup scheduler stopped", nil)
}
