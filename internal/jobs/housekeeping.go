package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"muawin-server/internal/models"
)

// StaleSessionAge is how long an unfinished consultation session is kept.
const StaleSessionAge = 24 * time.Hour

// Housekeeper removes expired credentials and abandoned consultation sessions
type Housekeeper struct {
	DB     *gorm.DB
	Logger *zap.Logger
	now    func() time.Time
}

// NewHousekeeper creates a new housekeeping service
func NewHousekeeper(db *gorm.DB, logger *zap.Logger) *Housekeeper {
	return &Housekeeper{DB: db, Logger: logger, now: time.Now}
}

// Start schedules the cleanup jobs and starts the scheduler in the background.
func (h *Housekeeper) Start() (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.Local)

	if _, err := scheduler.Every(1).Hours().Do(h.run("purge refresh tokens", h.PurgeRefreshTokens)); err != nil {
		return nil, fmt.Errorf("schedule refresh token purge: %w", err)
	}
	if _, err := scheduler.Every(1).Hours().Do(h.run("purge stale sessions", h.PurgeStaleSessions)); err != nil {
		return nil, fmt.Errorf("schedule session purge: %w", err)
	}

	scheduler.StartAsync()
	h.Logger.Info("housekeeping jobs started")
	return scheduler, nil
}

func (h *Housekeeper) run(name string, job func() (int64, error)) func() {
	return func() {
		n, err := job()
		if err != nil {
			h.Logger.Error("housekeeping job failed", zap.String("job", name), zap.Error(err))
			return
		}
		h.Logger.Info("housekeeping job finished", zap.String("job", name), zap.Int64("deleted", n))
	}
}

// PurgeRefreshTokens deletes refresh tokens that are expired or revoked.
func (h *Housekeeper) PurgeRefreshTokens() (int64, error) {
	result := h.DB.Where("expires_at < ? OR is_revoked = ?", h.now(), true).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// PurgeStaleSessions deletes unfinished consultation sessions untouched for
// StaleSessionAge. Finalized sessions are kept.
func (h *Housekeeper) PurgeStaleSessions() (int64, error) {
	cutoff := h.now().Add(-StaleSessionAge)
	result := h.DB.Where("updated_at < ? AND stage <> ?", cutoff, models.StageFinalized).Delete(&models.ConsultationSession{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge consultation sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
