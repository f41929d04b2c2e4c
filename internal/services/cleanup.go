package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/pkg/logger"
)

// CleanupService runs the nightly maintenance: expired sessions are
// deleted and evidence files past retention are purged.
type CleanupService struct {
	db            *gorm.DB
	evidence      *EvidenceService
	cronScheduler *cron.Cron
}

func NewCleanupService(db *gorm.DB, evidence *EvidenceService) *CleanupService {
	return &CleanupService{db: db, evidence: evidence}
}

// StartScheduler schedules the cleanup at 03:30 every night and runs one
// pass immediately so restarts never leave stale data around for long.
func (s *CleanupService) StartScheduler() {
	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc("30 3 * * *", s.Run); err != nil {
		logger.Error().Err(err).Msg("failed to schedule cleanup job")
		return
	}
	s.cronScheduler.Start()
	logger.Info().Msg("cleanup scheduler started")

	go s.Run()
}

func (s *CleanupService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// Run performs one cleanup pass.
func (s *CleanupService) Run() {
	res := s.db.Where("expires_at < ?", time.Now().UTC()).Delete(&models.Session{})
	if res.Error != nil {
		logger.Error().Err(res.Error).Msg("session cleanup failed")
	} else if res.RowsAffected > 0 {
		logger.Info().Int64("sessions", res.RowsAffected).Msg("expired sessions removed")
	}

	if s.evidence == nil {
		return
	}
	purged, err := s.evidence.PurgeExpired()
	if err != nil {
		logger.Error().Err(err).Msg("evidence cleanup failed")
	} else if purged > 0 {
		logger.Info().Int("files", purged).Msg("expired evidence purged")
	}
}
