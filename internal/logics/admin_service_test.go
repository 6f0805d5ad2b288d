package logics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/auth"
	"neuroscan-server/internal/models"
)

func newAdminFixture(t *testing.T) (*AdminService, *LoginAuditService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	audit := NewLoginAuditService(db, zap.NewNop())
	return NewAdminService(db, zap.NewNop(), audit), audit, db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// --- admin principals ---

func TestCreateAdminAndAuthenticate(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	admin, err := svc.CreateAdmin("root", "admin password", "admin password")
	require.NoError(t, err)
	assert.NotZero(t, admin.ID)

	got, err := svc.Authenticate("root", "admin password")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
}

func TestCreateAdminPasswordMismatch(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.CreateAdmin("root", "one", "two")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "Passwords do not match.", apperrors.MessageFor(err))
}

func TestCreateAdminDuplicateUsername(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	_, err := svc.CreateAdmin("root", "admin password", "admin password")
	require.NoError(t, err)

	_, err = svc.CreateAdmin("root", "other password", "other password")
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateResource))
}

func TestAuthenticateGenericMessage(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	_, err := svc.CreateAdmin("root", "admin password", "admin password")
	require.NoError(t, err)

	_, unknownErr := svc.Authenticate("ghost", "whatever")
	_, wrongErr := svc.Authenticate("root", "wrong")

	assert.True(t, apperrors.Is(unknownErr, apperrors.ErrInvalidCredentials))
	assert.True(t, apperrors.Is(wrongErr, apperrors.ErrInvalidCredentials))
	assert.Equal(t, apperrors.MessageFor(unknownErr), apperrors.MessageFor(wrongErr))
}

func TestChangeAdminPassword(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	admin, err := svc.CreateAdmin("root", "admin password", "admin password")
	require.NoError(t, err)

	err = svc.ChangeAdminPassword(admin.ID, "wrong", "next password", "next password")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))

	err = svc.ChangeAdminPassword(admin.ID, "admin password", "next password", "different")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	// Both failures left the digest untouched.
	_, err = svc.Authenticate("root", "admin password")
	require.NoError(t, err)

	require.NoError(t, svc.ChangeAdminPassword(admin.ID, "admin password", "next password", "next password"))
	_, err = svc.Authenticate("root", "next password")
	assert.NoError(t, err)
}

// --- lock gate ---

func TestSetLockedIdempotent(t *testing.T) {
	svc, _, db := newAdminFixture(t)
	user := createUser(t, db, "alice")

	require.NoError(t, svc.SetLocked(user.ID, true))
	require.NoError(t, svc.SetLocked(user.ID, true))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.IsLocked)

	require.NoError(t, svc.SetLocked(user.ID, false))
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.IsLocked)
}

func TestSetLockedUnknownUser(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	err := svc.SetLocked(9999, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

// --- deletion ---

func TestDeleteUserCascadesPatients(t *testing.T) {
	svc, audit, db := newAdminFixture(t)
	user := createUser(t, db, "alice")
	survivor := createUser(t, db, "bob")

	for _, owner := range []uint{user.ID, user.ID, survivor.ID} {
		patient := models.Patient{Name: "p", Age: 40, Gender: "F", DiagnosisDate: mustDate(t, "2026-01-02"), UserID: owner}
		require.NoError(t, db.Create(&patient).Error)
	}
	audit.Record(&user.ID, false)
	audit.Record(&user.ID, true)

	require.NoError(t, svc.DeleteUser(user.ID))

	var patientCount int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patientCount).Error)
	assert.Equal(t, int64(1), patientCount)

	// The audit trail survives the account.
	var attemptCount int64
	require.NoError(t, db.Model(&models.LoginAttempt{}).Count(&attemptCount).Error)
	assert.Equal(t, int64(2), attemptCount)
}

func TestDeleteUserUnknown(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	err := svc.DeleteUser(9999)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

// --- reporting ---

func TestDashboard(t *testing.T) {
	svc, audit, db := newAdminFixture(t)
	user := createUser(t, db, "alice")

	for i := 0; i < 7; i++ {
		audit.Record(&user.ID, i%2 == 0)
	}

	stats, err := svc.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(0), stats.TotalPatients)
	assert.Len(t, stats.RecentLogins, 5)
}

func TestPatientStatisticsDistribution(t *testing.T) {
	svc, _, db := newAdminFixture(t)
	user := createUser(t, db, "alice")

	glioma := models.TumorTypeGlioma
	for i := 0; i < 2; i++ {
		patient := models.Patient{Name: "p", Age: 40, Gender: "F", TumorType: &glioma, DiagnosisDate: mustDate(t, "2026-01-02"), UserID: user.ID}
		require.NoError(t, db.Create(&patient).Error)
	}
	unlabeled := models.Patient{Name: "p", Age: 40, Gender: "F", DiagnosisDate: mustDate(t, "2026-01-02"), UserID: user.ID}
	require.NoError(t, db.Create(&unlabeled).Error)

	stats, err := svc.PatientStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalPatients)
	assert.Equal(t, int64(2), stats.Distribution[models.TumorTypeGlioma])
	assert.Equal(t, int64(1), stats.Distribution["Unclassified"])
}

func TestListUsersOrderedByID(t *testing.T) {
	svc, _, db := newAdminFixture(t)
	createUser(t, db, "alice")
	createUser(t, db, "bob")

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

// BcryptRoundTrip guards the shared hash helpers the admin flows rely on.
func TestBcryptRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("secret value")
	require.NoError(t, err)
	assert.NoError(t, auth.VerifyPassword(hash, "secret value"))
	assert.Error(t, auth.VerifyPassword(hash, "other value"))
}
