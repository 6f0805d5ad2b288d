package models

import (
	"time"
)

// User represents a registered account. Created unverified and unlocked;
// IsVerified flips to true exactly once when a matching verification code
// is confirmed, IsLocked is toggled only by admin actions and blocks
// authentication regardless of credential correctness.
type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email        string  `gorm:"size:120;not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"size:250;not null" json:"-"`
	ProfileImage *string `gorm:"size:200" json:"profile_image,omitempty"`
	IsLocked     bool    `gorm:"default:false" json:"is_locked"`
	IsVerified   bool    `gorm:"default:false" json:"is_verified"`

	// Only the most recently issued code is ever accepted; re-issuing
	// overwrites both fields.
	VerificationCode     *string    `gorm:"size:6" json:"-"`
	VerificationIssuedAt *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patients []Patient `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"patients,omitempty"`
}
