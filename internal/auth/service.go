package auth

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/models"
)

// AccountService is the credential store and login state machine. Every
// login submission writes exactly one audit row through the injected
// LoginAuditor, whatever the outcome.
type AccountService struct {
	db           *gorm.DB
	logger       *zap.Logger
	audit        LoginAuditor
	verification *VerificationService
}

func NewAccountService(db *gorm.DB, logger *zap.Logger, audit LoginAuditor, verification *VerificationService) *AccountService {
	return &AccountService{
		db:           db,
		logger:       logger,
		audit:        audit,
		verification: verification,
	}
}

// Register creates a new user. The account starts unverified and
// unlocked; a verification code is issued and mailed, with delivery
// failures logged rather than surfaced.
func (svc *AccountService) Register(params RegisterParams) (*models.User, error) {
	// 1. Duplicate check on username or email, exact match.
	var existing models.User
	result := svc.db.Where("username = ? OR email = ?", params.Username, params.Email).First(&existing)
	if result.Error == nil {
		return nil, apperrors.New(apperrors.ErrDuplicateResource, "Username or email already exists.")
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", result.Error)
	}

	// 2. Hash the secret.
	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. Create the user.
	user := models.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		IsVerified:   false,
		IsLocked:     false,
	}
	if err := svc.db.Create(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Failed to create user.", err)
	}

	// 4. Issue and mail the verification code asynchronously.
	go func() {
		if err := svc.verification.IssueAndSend(user.ID); err != nil {
			svc.logger.Error("Failed to send verification email",
				zap.Uint("userID", user.ID), zap.Error(err))
		}
	}()

	svc.logger.Info("User registered", zap.Uint("userID", user.ID))
	return &user, nil
}

// Login runs the session-authority state machine for a submission:
//  1. unknown username: rejected, audited with a nil user reference
//  2. digest mismatch: rejected, audited against the user
//  3. locked account: rejected with a distinct message, audited as failure
//  4. otherwise authenticated
//
// The generic invalid-credentials message never reveals which field was
// wrong. Verification does not gate login.
func (svc *AccountService) Login(params LoginParams) (*models.User, error) {
	var user models.User
	result := svc.db.Where("username = ?", params.Username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			svc.audit.Record(nil, false)
			return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid username or password.")
		}
		return nil, fmt.Errorf("failed to look up user: %w", result.Error)
	}

	if err := VerifyPassword(user.PasswordHash, params.Password); err != nil {
		svc.audit.Record(&user.ID, false)
		return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid username or password.")
	}

	if user.IsLocked {
		svc.audit.Record(&user.ID, false)
		return nil, apperrors.New(apperrors.ErrAccountLocked, "This account is locked by admin.")
	}

	svc.audit.Record(&user.ID, true)
	return &user, nil
}

// FindByID loads a user account.
func (svc *AccountService) FindByID(userID uint) (*models.User, error) {
	var user models.User
	if err := svc.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "User not found.")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// ChangePassword replaces the user digest after re-verifying the current
// secret and checking the confirmation. Any failure leaves the stored
// digest unchanged.
func (svc *AccountService) ChangePassword(userID uint, currentPassword, newPassword, confirmPassword string) error {
	user, err := svc.FindByID(userID)
	if err != nil {
		return err
	}

	if err := VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.New(apperrors.ErrInvalidCredentials, "Current password is incorrect.")
	}
	if newPassword != confirmPassword {
		return apperrors.New(apperrors.ErrValidation, "New password and confirmation do not match.")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := svc.db.Model(user).Update("password_hash", hash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "Failed to update password.", err)
	}
	return nil
}

// UpdateProfileImage replaces the stored profile image path.
func (svc *AccountService) UpdateProfileImage(userID uint, path string) error {
	user, err := svc.FindByID(userID)
	if err != nil {
		return err
	}
	if err := svc.db.Model(user).Update("profile_image", path).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "Failed to update profile image.", err)
	}
	return nil
}
