package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/models"
)

func newVerificationFixture(t *testing.T, ttl time.Duration) (*VerificationService, *channelSender, *gorm.DB, uint) {
	t.Helper()
	db := newTestDB(t)
	sender := newChannelSender()
	svc := NewVerificationService(db, zap.NewNop(), sender, ttl)

	user := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return svc, sender, db, user.ID
}

func TestIssueCodeSupersedesPrevious(t *testing.T) {
	svc, _, _, userID := newVerificationFixture(t, 15*time.Minute)

	first, err := svc.IssueCode(userID)
	require.NoError(t, err)
	second, err := svc.IssueCode(userID)
	require.NoError(t, err)

	// Only the latest code is accepted.
	err = svc.Confirm(userID, first)
	if first != second {
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCode))
	}
	assert.NoError(t, svc.Confirm(userID, second))
}

func TestConfirmMarksUserVerifiedAndClearsCode(t *testing.T) {
	svc, _, db, userID := newVerificationFixture(t, 15*time.Minute)

	code, err := svc.IssueCode(userID)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(userID, code))

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerificationCode)
	assert.Nil(t, user.VerificationIssuedAt)
}

func TestConfirmWrongCodeIsRetryable(t *testing.T) {
	svc, _, db, userID := newVerificationFixture(t, 15*time.Minute)

	code, err := svc.IssueCode(userID)
	require.NoError(t, err)

	err = svc.Confirm(userID, "000000")
	if code != "000000" {
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCode))
	}

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.False(t, user.IsVerified)

	// The issued code still works after a failed attempt.
	assert.NoError(t, svc.Confirm(userID, code))
}

func TestConfirmExpiredCode(t *testing.T) {
	svc, _, db, userID := newVerificationFixture(t, 15*time.Minute)

	code, err := svc.IssueCode(userID)
	require.NoError(t, err)

	stale := time.Now().UTC().Add(-16 * time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Update("verification_issued_at", stale).Error)

	err = svc.Confirm(userID, code)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCode))
	assert.Equal(t, "Verification code has expired.", apperrors.MessageFor(err))
}

func TestConfirmAlreadyVerifiedIsNoop(t *testing.T) {
	svc, _, db, userID := newVerificationFixture(t, 15*time.Minute)

	code, err := svc.IssueCode(userID)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(userID, code))

	// Any code, including garbage, succeeds once the account is verified.
	assert.NoError(t, svc.Confirm(userID, "garbage"))

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.True(t, user.IsVerified)
}

func TestConfirmUnknownUser(t *testing.T) {
	svc, _, _, _ := newVerificationFixture(t, 15*time.Minute)
	err := svc.Confirm(9999, "123456")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestIssueAndSendDeliversToUserEmail(t *testing.T) {
	svc, sender, _, userID := newVerificationFixture(t, 15*time.Minute)

	require.NoError(t, svc.IssueAndSend(userID))

	select {
	case code := <-sender.sent:
		assert.Len(t, code, 6)
	case <-time.After(time.Second):
		t.Fatal("code was never delivered")
	}
}

func TestGenerateVerificationCodeShape(t *testing.T) {
	for i := 0; i < 32; i++ {
		code := GenerateVerificationCode()
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}
