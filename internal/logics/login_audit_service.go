package logics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/models"
)

// LoginAuditService appends one LoginAttempt row per authentication
// attempt, including attempts against unknown usernames.
type LoginAuditService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLoginAuditService(db *gorm.DB, logger *zap.Logger) *LoginAuditService {
	return &LoginAuditService{db: db, logger: logger}
}

// Record appends an attempt. The write is fire-and-forget: a failure is
// logged but never surfaced to the login flow.
func (s *LoginAuditService) Record(userID *uint, success bool) {
	attempt := models.LoginAttempt{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Success:   success,
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		s.logger.Error("Failed to record login attempt", zap.Error(err))
	}
}

// RecentAttempts returns the newest attempts first. Read-only; used by the
// admin dashboard and the login management view.
func (s *LoginAuditService) RecentAttempts(limit int) ([]models.LoginAttempt, error) {
	var attempts []models.LoginAttempt
	err := s.db.Order("timestamp DESC").Limit(limit).Find(&attempts).Error
	return attempts, err
}
