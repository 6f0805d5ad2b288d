package logics

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/auth"
	"neuroscan-server/internal/models"
)

// AdminService implements the admin console: account listing, the lock
// gate, user deletion, admin principal management, and dashboard stats.
type AdminService struct {
	db     *gorm.DB
	logger *zap.Logger
	audit  *LoginAuditService
}

func NewAdminService(db *gorm.DB, logger *zap.Logger, audit *LoginAuditService) *AdminService {
	return &AdminService{db: db, logger: logger, audit: audit}
}

// Authenticate checks admin credentials. Admins live in their own
// principal space; there is no lock gate and no audit trail for them.
func (s *AdminService) Authenticate(username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errIsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid username or password.")
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Error looking up admin.", err)
	}
	if err := auth.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid username or password.")
	}
	return &admin, nil
}

// CreateAdmin creates a new admin principal. The first admin is
// bootstrapped without an existing session.
func (s *AdminService) CreateAdmin(username, password, passwordConfirmation string) (*models.Admin, error) {
	if password != passwordConfirmation {
		return nil, apperrors.New(apperrors.ErrValidation, "Passwords do not match.")
	}

	var existing models.Admin
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, apperrors.New(apperrors.ErrDuplicateResource, "Username already exists.")
	}
	if !errIsNotFound(err) {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Error looking up admin.", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "Failed to hash password.", err)
	}

	admin := models.Admin{Username: username, PasswordHash: hash}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Failed to create admin.", err)
	}

	s.logger.Info("Admin created", zap.String("username", username))
	return &admin, nil
}

// ChangeAdminPassword replaces the admin digest after re-verifying the
// current secret. Any failure leaves the stored digest unchanged.
func (s *AdminService) ChangeAdminPassword(adminID uint, currentPassword, newPassword, confirmPassword string) error {
	var admin models.Admin
	if err := s.db.First(&admin, adminID).Error; err != nil {
		if errIsNotFound(err) {
			return apperrors.New(apperrors.ErrNotFound, "Admin not found.")
		}
		return apperrors.Wrap(apperrors.ErrStorage, "Error looking up admin.", err)
	}

	if err := auth.VerifyPassword(admin.PasswordHash, currentPassword); err != nil {
		return apperrors.New(apperrors.ErrInvalidCredentials, "Current password is incorrect.")
	}
	if newPassword != confirmPassword {
		return apperrors.New(apperrors.ErrValidation, "New password and confirmation do not match.")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "Failed to hash password.", err)
	}
	if err := s.db.Model(&admin).Update("password_hash", hash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "Failed to update password.", err)
	}
	return nil
}

// ListUsers returns every user account, oldest first.
func (s *AdminService) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("id").Find(&users).Error
	return users, err
}

// SetLocked toggles the account lock gate. Idempotent: setting an account
// to a state it is already in is a successful no-op.
func (s *AdminService) SetLocked(userID uint, locked bool) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errIsNotFound(err) {
			return apperrors.New(apperrors.ErrNotFound, "User not found.")
		}
		return apperrors.Wrap(apperrors.ErrStorage, "Error looking up user.", err)
	}
	if user.IsLocked == locked {
		return nil
	}
	if err := s.db.Model(&user).Update("is_locked", locked).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "Failed to update lock state.", err)
	}
	s.logger.Info("User lock state changed",
		zap.Uint("userID", userID),
		zap.Bool("locked", locked),
	)
	return nil
}

// DeleteUser removes a user and, through the FK constraint, every patient
// record the user owns. Login attempts keep their rows with the user
// reference nulled.
func (s *AdminService) DeleteUser(userID uint) error {
	result := s.db.Select("Patients").Delete(&models.User{ID: userID})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "Failed to delete user.", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "User not found.")
	}
	return nil
}

// DashboardStats summarizes the system for the admin dashboard.
type DashboardStats struct {
	TotalPatients int64                 `json:"total_patients"`
	TotalUsers    int64                 `json:"total_users"`
	RecentLogins  []models.LoginAttempt `json:"recent_logins"`
}

func (s *AdminService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}
	if err := s.db.Model(&models.Patient{}).Count(&stats.TotalPatients).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	recent, err := s.audit.RecentAttempts(5)
	if err != nil {
		return nil, err
	}
	stats.RecentLogins = recent
	return stats, nil
}

// PatientStatistics returns total patient count and the tumor-type
// distribution, for reporting views.
type PatientStatistics struct {
	TotalPatients int64            `json:"total_patients"`
	Distribution  map[string]int64 `json:"tumor_type_distribution"`
}

func (s *AdminService) PatientStatistics() (*PatientStatistics, error) {
	stats := &PatientStatistics{Distribution: map[string]int64{}}
	if err := s.db.Model(&models.Patient{}).Count(&stats.TotalPatients).Error; err != nil {
		return nil, err
	}

	type row struct {
		TumorType *string
		Count     int64
	}
	var rows []row
	err := s.db.Model(&models.Patient{}).
		Select("tumor_type, count(id) as count").
		Group("tumor_type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		label := "Unclassified"
		if r.TumorType != nil {
			label = *r.TumorType
		}
		stats.Distribution[label] = r.Count
	}
	return stats, nil
}
