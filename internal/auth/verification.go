package auth

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/models"
)

// VerificationService issues and confirms the one-time codes that gate
// account activation. Codes live on the user row; re-issuing overwrites
// the previous code so only the latest is ever accepted.
type VerificationService struct {
	db      *gorm.DB
	logger  *zap.Logger
	sender  CodeSender
	codeTTL time.Duration
}

func NewVerificationService(db *gorm.DB, logger *zap.Logger, sender CodeSender, codeTTL time.Duration) *VerificationService {
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	return &VerificationService{
		db:      db,
		logger:  logger,
		sender:  sender,
		codeTTL: codeTTL,
	}
}

// IssueCode generates a fresh 6-digit code for the user, invalidating any
// prior code, and returns it for delivery.
func (svc *VerificationService) IssueCode(userID uint) (string, error) {
	var user models.User
	if err := svc.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.New(apperrors.ErrNotFound, "User not found.")
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	code := GenerateVerificationCode()
	now := time.Now().UTC()
	err := svc.db.Model(&user).Updates(map[string]interface{}{
		"verification_code":      code,
		"verification_issued_at": now,
	}).Error
	if err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	return code, nil
}

// IssueAndSend generates a code and mails it to the user.
func (svc *VerificationService) IssueAndSend(userID uint) error {
	var user models.User
	if err := svc.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "User not found.")
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	code, err := svc.IssueCode(user.ID)
	if err != nil {
		return err
	}
	if err := svc.sender.SendVerificationCode(user.Email, code); err != nil {
		return apperrors.Wrap(apperrors.ErrCollaborator, "Error sending verification email.", err)
	}
	return nil
}

// Confirm marks the user verified iff the submitted code exactly equals
// the most recently issued, unexpired code. An invalid or expired code
// leaves state unchanged and may be retried. Confirming an already
// verified account is a successful no-op.
func (svc *VerificationService) Confirm(userID uint, submittedCode string) error {
	var user models.User
	if err := svc.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "User not found.")
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsVerified {
		return nil
	}

	if user.VerificationCode == nil || *user.VerificationCode != submittedCode {
		return apperrors.New(apperrors.ErrInvalidCode, "Invalid verification code.")
	}
	if user.VerificationIssuedAt == nil || time.Since(*user.VerificationIssuedAt) > svc.codeTTL {
		return apperrors.New(apperrors.ErrInvalidCode, "Verification code has expired.")
	}

	err := svc.db.Model(&user).Updates(map[string]interface{}{
		"is_verified":            true,
		"verification_code":      nil,
		"verification_issued_at": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update verification state: %w", err)
	}

	svc.logger.Info("Account verified", zap.Uint("userID", userID))
	return nil
}
